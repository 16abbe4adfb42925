package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// Article statuses. Only published articles are visible on public listings.
const (
	ArticleStatusDraft     = "draft"
	ArticleStatusPublished = "published"
)

// Article represents a news story. TitleEn carries the localized (English)
// headline alongside the Danish one.
type Article struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	TitleEn       string         `gorm:"size:255" json:"title_en"`
	Status        string         `gorm:"size:32;not null;default:'draft';index" json:"status"`
	Image         string         `gorm:"size:512" json:"image"`
	Summary       string         `gorm:"type:text" json:"summary"`
	SummaryTxt    string         `gorm:"type:text" json:"summary_txt"`
	HTML          string         `gorm:"type:text" json:"html"`
	Sources       string         `gorm:"type:text" json:"sources"` // JSON array of source URLs
	Category      string         `gorm:"size:64;index" json:"category"`
	PublishedDate *time.Time     `gorm:"index" json:"published_date"`
	ImportedDate  time.Time      `json:"imported_date"`
	Rate          *float64       `json:"rate"`
	// Active carries no column default: GORM omits zero-valued fields that
	// have one, so an explicit false would never reach the insert.
	Active    bool           `gorm:"not null;index" json:"active"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Article) TableName() string {
	return "news_articles"
}

// EncodeSources serializes source URLs into the JSON text column.
func EncodeSources(sources []string) string {
	if len(sources) == 0 {
		return "[]"
	}
	b, err := json.Marshal(sources)
	if err != nil {
		return "[]"
	}
	return string(b)
}

// DecodeSources parses the JSON text column back into a slice.
func DecodeSources(raw string) []string {
	if raw == "" {
		return []string{}
	}
	var sources []string
	if err := json.Unmarshal([]byte(raw), &sources); err != nil {
		return []string{}
	}
	return sources
}

// BeforeCreate defaults ImportedDate to the insert time.
func (a *Article) BeforeCreate(tx *gorm.DB) error {
	if a.ImportedDate.IsZero() {
		a.ImportedDate = time.Now()
	}
	return nil
}
