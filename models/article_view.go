package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// ErrViewIdentity is returned when a view event does not carry exactly one of
// user id / session id. This is a programming error, not a runtime condition.
var ErrViewIdentity = errors.New("article view requires exactly one of user_id or session_id")

// ArticleView is a single view event. Anonymous views carry SessionID, views by
// logged-in readers carry UserID — never both, never neither.
type ArticleView struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ArticleID uint      `gorm:"index;not null" json:"article_id"`
	UserID    *uint     `gorm:"index" json:"user_id"`
	SessionID *string   `gorm:"size:36;index:idx_views_session_time" json:"session_id"`
	ViewedAt  time.Time `gorm:"not null;index:idx_views_session_time" json:"viewed_at"`
	Article   Article   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"article"`
}

func (ArticleView) TableName() string {
	return "article_views"
}

// BeforeCreate assigns the view timestamp and rejects rows that would break the
// one-identity invariant.
func (v *ArticleView) BeforeCreate(tx *gorm.DB) error {
	if (v.UserID == nil) == (v.SessionID == nil) {
		return ErrViewIdentity
	}
	if v.ViewedAt.IsZero() {
		v.ViewedAt = time.Now()
	}
	return nil
}
