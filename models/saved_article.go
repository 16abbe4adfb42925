package models

import "time"

// SavedArticle bookmarks an article for a logged-in reader.
type SavedArticle struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index:idx_saved_user_article,unique" json:"user_id"`
	ArticleID uint      `gorm:"not null;index:idx_saved_user_article,unique" json:"article_id"`
	CreatedAt time.Time `json:"created_at"`
	Article   Article   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"article"`
}
