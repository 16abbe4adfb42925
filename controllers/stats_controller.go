package controllers

import (
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/satpal87/danish-reels-news/models"
	"github.com/satpal87/danish-reels-news/utils"
)

// StatsController provides aggregate reading statistics.
type StatsController struct {
	db *gorm.DB
}

// NewStatsController creates a new StatsController instance.
func NewStatsController(db *gorm.DB) *StatsController {
	return &StatsController{db: db}
}

// GetStats returns aggregate site statistics.
func (s *StatsController) GetStats(ctx *gin.Context) {
	var userCount int64
	var articleCount int64
	var viewsToday int64
	var dailyTraffic int64

	if err := s.db.Model(&models.User{}).Count(&userCount).Error; err != nil {
		// Fallback to 0 instead of failing the whole endpoint
		userCount = 0
	}

	if err := s.db.Model(&models.Article{}).
		Where("status = ? AND active = ?", models.ArticleStatusPublished, true).
		Count(&articleCount).Error; err != nil {
		articleCount = 0
	}

	start, end := dayWindow(time.Now())
	if err := s.db.Model(&models.ArticleView{}).
		Where("viewed_at >= ? AND viewed_at < ?", start, end).
		Count(&viewsToday).Error; err != nil {
		viewsToday = 0
	}

	// Use string date equality to avoid timezone/type mismatches with DATE column
	today := time.Now().In(time.Local).Format("2006-01-02")
	if err := s.db.Model(&models.PageView{}).
		Where("date = ?", today).
		Select("COALESCE(SUM(count),0)").
		Scan(&dailyTraffic).Error; err != nil {
		dailyTraffic = 0
	}

	utils.Success(ctx, gin.H{
		"user_count":    userCount,
		"article_count": articleCount,
		"views_today":   viewsToday,
		"daily_traffic": dailyTraffic,
	})
}
