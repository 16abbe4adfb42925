package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/satpal87/danish-reels-news/config"
	"github.com/satpal87/danish-reels-news/models"
	"github.com/satpal87/danish-reels-news/utils"
)

// ViewController owns the anonymous daily view limit and reading history.
// Anonymous readers are identified by a cookie-backed session id; signed-in
// readers by their user id. A reader never counts under both at once.
type ViewController struct {
	db    *gorm.DB
	store utils.SessionStore
}

// NewViewController creates a ViewController using the given session store.
func NewViewController(db *gorm.DB, store utils.SessionStore) *ViewController {
	return &ViewController{db: db, store: store}
}

// dayWindow returns the bounds of the current local calendar day,
// [local midnight, next midnight). The quota resets when the day rolls over.
func dayWindow(now time.Time) (time.Time, time.Time) {
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	// AddDate, not Add(24h): DST transition days are 23 or 25 hours long.
	return start, start.AddDate(0, 0, 1)
}

// countViewsToday returns how many articles the session viewed today.
func (v *ViewController) countViewsToday(sessionID string) (int64, error) {
	start, end := dayWindow(time.Now())
	var count int64
	err := v.db.Model(&models.ArticleView{}).
		Where("session_id = ? AND viewed_at >= ? AND viewed_at < ?", sessionID, start, end).
		Count(&count).Error
	return count, err
}

// RemainingForSession returns how many free views the session has left today.
// On storage failure it reports the full limit so readers are never locked
// out by a backend hiccup.
func (v *ViewController) RemainingForSession(sessionID string) int {
	limit := config.Get().DailyViewLimit
	count, err := v.countViewsToday(sessionID)
	if err != nil {
		if utils.Sugar != nil {
			utils.Sugar.Warnf("view count lookup failed session=%s err=%v", sessionID, err)
		}
		return limit
	}
	remaining := limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return remaining
}

// RecordView persists one view for either a user or an anonymous session.
// Every successful article display counts, repeats included.
func (v *ViewController) RecordView(articleID uint, userID *uint, sessionID *string) error {
	view := models.ArticleView{
		ArticleID: articleID,
		UserID:    userID,
		SessionID: sessionID,
		ViewedAt:  time.Now(),
	}
	return v.db.Create(&view).Error
}

// RemainingViews reports the caller's view allowance for today. Signed-in
// readers are unlimited. Anonymous readers without a session cookie have the
// full allowance; none is minted just for asking.
func (v *ViewController) RemainingViews(ctx *gin.Context) {
	limit := config.Get().DailyViewLimit

	if _, ok := getUserID(ctx); ok {
		utils.Success(ctx, gin.H{
			"limit":     limit,
			"remaining": limit,
			"unlimited": true,
		})
		return
	}

	remaining := limit
	if sessionID, ok := v.store.Get(ctx); ok {
		remaining = v.RemainingForSession(sessionID)
	}

	utils.Success(ctx, gin.H{
		"limit":     limit,
		"remaining": remaining,
		"unlimited": false,
	})
}

// historyDay groups the views of one local calendar day.
type historyDay struct {
	Date     string              `json:"date"`
	Articles []historyDayArticle `json:"articles"`
}

type historyDayArticle struct {
	ViewedAt time.Time      `json:"viewed_at"`
	Article  models.Article `json:"article"`
}

// ReadingHistory returns the authenticated user's viewed articles grouped by
// local calendar day, newest day first. Pagination runs over individual
// views, so a day may straddle two pages. Unlike the quota, history fails
// closed: a storage error yields an error response, never partial data.
func (v *ViewController) ReadingHistory(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	var total int64
	if err := v.db.Model(&models.ArticleView{}).
		Where("user_id = ?", userID).
		Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load reading history")
		return
	}

	var views []models.ArticleView
	if err := v.db.Preload("Article").
		Where("user_id = ?", userID).
		Order("viewed_at DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&views).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50040, "failed to load reading history")
		return
	}

	days := []historyDay{}
	var current *historyDay
	for _, view := range views {
		date := view.ViewedAt.In(time.Local).Format("2006-01-02")
		if current == nil || current.Date != date {
			days = append(days, historyDay{Date: date, Articles: []historyDayArticle{}})
			current = &days[len(days)-1]
		}
		current.Articles = append(current.Articles, historyDayArticle{
			ViewedAt: view.ViewedAt,
			Article:  view.Article,
		})
	}

	utils.Success(ctx, gin.H{
		"days": days,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}
