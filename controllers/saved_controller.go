package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/satpal87/danish-reels-news/models"
	"github.com/satpal87/danish-reels-news/utils"
)

// SavedController manages a user's bookmarked articles.
type SavedController struct {
	db *gorm.DB
}

// NewSavedController creates a new SavedController instance.
func NewSavedController(db *gorm.DB) *SavedController {
	return &SavedController{db: db}
}

// ListSaved returns the authenticated user's bookmarks, newest first.
func (s *SavedController) ListSaved(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	var saved []models.SavedArticle
	if err := s.db.Preload("Article").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&saved).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50050, "failed to list saved articles")
		return
	}

	utils.Success(ctx, gin.H{"items": saved})
}

// SaveArticle bookmarks an article for the user. Saving twice is a no-op.
func (s *SavedController) SaveArticle(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	articleID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid article id")
		return
	}

	var article models.Article
	if err := s.db.Where("status = ? AND active = ?", models.ArticleStatusPublished, true).
		First(&article, articleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50051, "failed to load article")
		return
	}

	record := models.SavedArticle{UserID: userID, ArticleID: article.ID}
	if err := s.db.Clauses(clause.OnConflict{DoNothing: true}).Create(&record).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50052, "failed to save article")
		return
	}

	utils.Success(ctx, gin.H{"message": "article saved"})
}

// UnsaveArticle removes a bookmark.
func (s *SavedController) UnsaveArticle(ctx *gin.Context) {
	userID, ok := getUserID(ctx)
	if !ok {
		utils.Error(ctx, http.StatusUnauthorized, 40110, "unauthorized")
		return
	}

	articleID, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40023, "invalid article id")
		return
	}

	if err := s.db.Where("user_id = ? AND article_id = ?", userID, articleID).
		Delete(&models.SavedArticle{}).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50053, "failed to remove saved article")
		return
	}

	utils.Success(ctx, gin.H{"message": "article removed"})
}
