package controllers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/satpal87/danish-reels-news/config"
	"github.com/satpal87/danish-reels-news/middleware"
	"github.com/satpal87/danish-reels-news/models"
	"github.com/satpal87/danish-reels-news/utils"
)

// ArticleController serves the public reading surface: listings, categories
// and the article detail behind the anonymous view limit.
type ArticleController struct {
	db    *gorm.DB
	views *ViewController
}

// NewArticleController creates a new ArticleController instance.
func NewArticleController(db *gorm.DB, views *ViewController) *ArticleController {
	return &ArticleController{db: db, views: views}
}

// visibleArticles scopes a query to what anonymous readers may see.
func (a *ArticleController) visibleArticles() *gorm.DB {
	return a.db.Model(&models.Article{}).
		Where("status = ? AND active = ?", models.ArticleStatusPublished, true)
}

// ListArticles returns paginated published articles. Listings never touch the
// view limit; only opening an article does.
func (a *ArticleController) ListArticles(ctx *gin.Context) {
	page, pageSize := parsePagination(ctx.Query("page"), ctx.Query("page_size"))
	search := strings.TrimSpace(ctx.Query("search"))
	category := strings.TrimSpace(ctx.Query("category"))

	// Cache homepage/category lists when no search term to avoid cache key explosion
	if search == "" {
		cacheKey := fmt.Sprintf("%slist:cat=%s:page=%d:size=%d", utils.ArticleCachePrefix, category, page, pageSize)
		if b, ok := utils.CacheGetBytes(cacheKey); ok {
			ctx.Data(200, "application/json", b)
			return
		}
	}

	var articles []models.Article
	var total int64

	query := a.visibleArticles()
	if search != "" {
		query = query.Where("title LIKE ? OR summary_txt LIKE ?", "%"+search+"%", "%"+search+"%")
	}
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if err := query.Count(&total).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to count articles")
		return
	}

	offset := (page - 1) * pageSize
	if err := query.
		Select("id, title, title_en, status, image, summary, summary_txt, sources, category, published_date, imported_date, rate, active, created_at, updated_at").
		Order("published_date DESC, id DESC").
		Offset(offset).Limit(pageSize).
		Find(&articles).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to list articles")
		return
	}

	payload := gin.H{
		"items": articles,
		"pagination": gin.H{
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": int((total + int64(pageSize) - 1) / int64(pageSize)),
		},
	}
	if search == "" {
		cacheKey := fmt.Sprintf("%slist:cat=%s:page=%d:size=%d", utils.ArticleCachePrefix, category, page, pageSize)
		wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
		utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	}
	utils.Success(ctx, payload)
}

// ListCategories returns the distinct categories of visible articles.
func (a *ArticleController) ListCategories(ctx *gin.Context) {
	cacheKey := utils.ArticleCachePrefix + "categories"
	if b, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(200, "application/json", b)
		return
	}

	var categories []string
	if err := a.visibleArticles().
		Distinct("category").
		Where("category <> ''").
		Order("category ASC").
		Pluck("category", &categories).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to list categories")
		return
	}

	payload := gin.H{"categories": categories}
	wrapper := utils.JSONResponse{Code: 0, Message: "success", Data: payload}
	utils.CacheSetJSON(cacheKey, wrapper, time.Hour)
	utils.Success(ctx, payload)
}

// GetArticle serves the full article. Anonymous readers are checked against
// the daily limit before the article row is even queried; a blocked reader
// learns nothing about the article. Each successful display records one view.
func (a *ArticleController) GetArticle(ctx *gin.Context) {
	articleID := ctx.Param("id")
	limit := config.Get().DailyViewLimit

	userID, authenticated := getUserID(ctx)

	var sessionID string
	if !authenticated {
		if existing, ok := a.views.store.Get(ctx); ok {
			if a.views.RemainingForSession(existing) <= 0 {
				utils.Error(ctx, http.StatusForbidden, 40310, "daily view limit reached")
				return
			}
		}
		sessionID = utils.CurrentSession(ctx, a.views.store)
	}

	var article models.Article
	if err := a.visibleArticles().First(&article, articleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load article")
		return
	}

	remaining := limit
	unlimited := authenticated
	if authenticated {
		if err := a.views.RecordView(article.ID, &userID, nil); err != nil && utils.Sugar != nil {
			utils.Sugar.Warnf("record view failed article=%d user=%d err=%v", article.ID, userID, err)
		}
	} else {
		if err := a.views.RecordView(article.ID, nil, &sessionID); err != nil {
			if utils.Sugar != nil {
				utils.Sugar.Warnf("record view failed article=%d session=%s err=%v", article.ID, sessionID, err)
			}
		}
		remaining = a.views.RemainingForSession(sessionID)
	}

	utils.Success(ctx, gin.H{
		"article": article,
		"views": gin.H{
			"limit":     limit,
			"remaining": remaining,
			"unlimited": unlimited,
		},
	})
}

// ListRelated returns up to six other visible articles from the same category.
func (a *ArticleController) ListRelated(ctx *gin.Context) {
	articleID := ctx.Param("id")

	var article models.Article
	if err := a.visibleArticles().First(&article, articleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			utils.Error(ctx, http.StatusNotFound, 40401, "article not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to load article")
		return
	}

	var related []models.Article
	if err := a.visibleArticles().
		Select("id, title, title_en, image, summary_txt, category, published_date, rate").
		Where("category = ? AND id <> ?", article.Category, article.ID).
		Order("published_date DESC").
		Limit(6).
		Find(&related).Error; err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to list related articles")
		return
	}

	utils.Success(ctx, gin.H{"items": related})
}

func parsePagination(pageStr, sizeStr string) (int, int) {
	page := 1
	pageSize := 10
	if p, err := strconv.Atoi(pageStr); err == nil && p > 0 {
		page = p
	}
	if s, err := strconv.Atoi(sizeStr); err == nil && s > 0 && s <= 100 {
		pageSize = s
	}
	return page, pageSize
}

func getUserID(ctx *gin.Context) (uint, bool) {
	value, exists := ctx.Get(middleware.ContextUserIDKey)
	if !exists {
		return 0, false
	}

	switch v := value.(type) {
	case uint:
		return v, true
	case int:
		return uint(v), true
	case int64:
		return uint(v), true
	case float64:
		return uint(v), true
	default:
		return 0, false
	}
}
