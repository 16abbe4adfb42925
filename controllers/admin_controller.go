package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/satpal87/danish-reels-news/models"
	"github.com/satpal87/danish-reels-news/utils"
)

// AdminController manages the article catalog: drafts, publishing and
// activation. All routes require an admin user.
type AdminController struct {
	db *gorm.DB
}

// NewAdminController creates a new AdminController instance.
func NewAdminController(db *gorm.DB) *AdminController {
	return &AdminController{db: db}
}

type articleRequest struct {
	Title         string     `json:"title" binding:"required,min=1"`
	TitleEn       string     `json:"title_en"`
	Status        string     `json:"status"`
	Image         string     `json:"image"`
	Summary       string     `json:"summary"`
	SummaryTxt    string     `json:"summary_txt"`
	HTML          string     `json:"html"`
	Sources       []string   `json:"sources"`
	Category      string     `json:"category"`
	PublishedDate *time.Time `json:"published_date"`
	Rate          *float64   `json:"rate"`
	Active        *bool      `json:"active"`
}

// ListAllArticles returns every article regardless of status, with optional
// title/category/status/active filters.
func (c *AdminController) ListAllArticles(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))

	query := c.db.Model(&models.Article{})
	if title := strings.TrimSpace(ctx.Query("title")); title != "" {
		query = query.Where("title LIKE ?", "%"+title+"%")
	}
	if category := strings.TrimSpace(ctx.Query("category")); category != "" {
		query = query.Where("category = ?", category)
	}
	if status := strings.TrimSpace(ctx.Query("status")); status != "" {
		query = query.Where("status = ?", status)
	}
	if active := strings.TrimSpace(ctx.Query("active")); active != "" {
		query = query.Where("active = ?", active == "true")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50030, "failed to count articles")
		return
	}

	var articles []models.Article
	if err := query.
		Order("imported_date DESC, id DESC").
		Offset((page - 1) * pageSize).Limit(pageSize).
		Find(&articles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50031, "failed to list articles")
		return
	}

	utils.Success(ctx, gin.H{
		"items": articles,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	})
}

// GetArticle returns a single article by id, drafts included.
func (c *AdminController) GetArticle(ctx *gin.Context) {
	var article models.Article
	if err := c.db.First(&article, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load article")
		return
	}
	utils.Success(ctx, gin.H{"article": article})
}

// CreateArticle stores a new article. HTML content is sanitized before it is
// ever persisted.
func (c *AdminController) CreateArticle(ctx *gin.Context) {
	var req articleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	status := req.Status
	if status == "" {
		status = models.ArticleStatusDraft
	}
	if status != models.ArticleStatusDraft && status != models.ArticleStatusPublished {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid status")
		return
	}

	article := models.Article{
		Title:         strings.TrimSpace(req.Title),
		TitleEn:       strings.TrimSpace(req.TitleEn),
		Status:        status,
		Image:         strings.TrimSpace(req.Image),
		Summary:       req.Summary,
		SummaryTxt:    req.SummaryTxt,
		HTML:          utils.Sanitize(req.HTML),
		Sources:       models.EncodeSources(req.Sources),
		Category:      strings.TrimSpace(req.Category),
		PublishedDate: req.PublishedDate,
		Rate:          req.Rate,
		Active:        true,
	}
	if req.Active != nil {
		article.Active = *req.Active
	}

	if err := c.db.Create(&article).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50033, "failed to create article")
		return
	}

	utils.InvalidateByPrefix(utils.ArticleCachePrefix)
	utils.Success(ctx, gin.H{"article": article})
}

// UpdateArticle modifies an existing article.
func (c *AdminController) UpdateArticle(ctx *gin.Context) {
	var article models.Article
	if err := c.db.First(&article, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load article")
		return
	}

	var req articleRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40020, "invalid request payload")
		return
	}

	if req.Status != "" && req.Status != models.ArticleStatusDraft && req.Status != models.ArticleStatusPublished {
		utils.Error(ctx, http.StatusBadRequest, 40021, "invalid status")
		return
	}

	article.Title = strings.TrimSpace(req.Title)
	article.TitleEn = strings.TrimSpace(req.TitleEn)
	if req.Status != "" {
		article.Status = req.Status
	}
	article.Image = strings.TrimSpace(req.Image)
	article.Summary = req.Summary
	article.SummaryTxt = req.SummaryTxt
	article.HTML = utils.Sanitize(req.HTML)
	article.Sources = models.EncodeSources(req.Sources)
	article.Category = strings.TrimSpace(req.Category)
	article.PublishedDate = req.PublishedDate
	article.Rate = req.Rate
	if req.Active != nil {
		article.Active = *req.Active
	}

	if err := c.db.Save(&article).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50034, "failed to update article")
		return
	}

	utils.InvalidateByPrefix(utils.ArticleCachePrefix)
	utils.Success(ctx, gin.H{"article": article})
}

// SetActive flips the visibility switch without touching the rest of the row.
func (c *AdminController) SetActive(ctx *gin.Context) {
	var req struct {
		Active *bool `json:"active" binding:"required"`
	}
	if err := ctx.ShouldBindJSON(&req); err != nil {
		utils.Error(ctx, http.StatusBadRequest, 40022, "invalid request payload")
		return
	}

	var article models.Article
	if err := c.db.First(&article, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load article")
		return
	}

	if err := c.db.Model(&article).Update("active", *req.Active).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50035, "failed to update article")
		return
	}

	utils.InvalidateByPrefix(utils.ArticleCachePrefix)
	utils.Success(ctx, gin.H{"id": article.ID, "active": *req.Active})
}

// DeleteArticle soft-deletes an article.
func (c *AdminController) DeleteArticle(ctx *gin.Context) {
	var article models.Article
	if err := c.db.First(&article, ctx.Param("id")).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50032, "failed to load article")
		return
	}

	if err := c.db.Delete(&article).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50036, "failed to delete article")
		return
	}

	utils.InvalidateByPrefix(utils.ArticleCachePrefix)
	utils.Success(ctx, gin.H{"message": "article deleted"})
}
