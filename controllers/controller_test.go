package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/satpal87/danish-reels-news/config"
	"github.com/satpal87/danish-reels-news/middleware"
	"github.com/satpal87/danish-reels-news/models"
	"github.com/satpal87/danish-reels-news/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// Unique shared-cache in-memory database per test so connections in the
	// pool see the same data.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Article{},
		&models.ArticleView{},
		&models.SavedArticle{},
		&models.PageView{},
	))
	return db
}

// newTestRouter wires the API the way the real router does, minus rate
// limiting and file loggers.
func newTestRouter(t *testing.T, db *gorm.DB) *gin.Engine {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("ADMIN_USERNAMES", "admin")
	gin.SetMode(gin.TestMode)

	cfg := config.Get()
	store := utils.NewCookieSessionStore(cfg.SessionCookieName)

	// Stale listing caches from other tests would poison assertions.
	utils.InvalidateByPrefix(utils.ArticleCachePrefix)

	authController := NewAuthController(db)
	viewController := NewViewController(db, store)
	articleController := NewArticleController(db, viewController)
	adminController := NewAdminController(db)
	savedController := NewSavedController(db)
	statsController := NewStatsController(db)
	configController := NewConfigController()

	r := gin.New()
	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	articlesGroup := api.Group("/articles")
	articlesGroup.Use(middleware.OptionalAuth())
	articlesGroup.GET("", articleController.ListArticles)
	articlesGroup.GET("/categories", articleController.ListCategories)
	articlesGroup.GET("/:id", articleController.GetArticle)
	articlesGroup.GET("/:id/related", articleController.ListRelated)

	api.GET("/views/remaining", middleware.OptionalAuth(), viewController.RemainingViews)
	api.GET("/stats", statsController.GetStats)
	api.GET("/config/app", configController.GetAppConfig)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired())
	protected.GET("/users/me/history", viewController.ReadingHistory)
	protected.GET("/users/me/saved", savedController.ListSaved)
	protected.POST("/users/me/saved/:id", savedController.SaveArticle)
	protected.DELETE("/users/me/saved/:id", savedController.UnsaveArticle)

	admin := api.Group("/admin")
	admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
	admin.GET("/articles", adminController.ListAllArticles)
	admin.GET("/articles/:id", adminController.GetArticle)
	admin.POST("/articles", adminController.CreateArticle)
	admin.PUT("/articles/:id", adminController.UpdateArticle)
	admin.PATCH("/articles/:id/active", adminController.SetActive)
	admin.DELETE("/articles/:id", adminController.DeleteArticle)

	return r
}

type testRequest struct {
	method  string
	path    string
	body    interface{}
	token   string
	cookies []*http.Cookie
}

func perform(t *testing.T, r *gin.Engine, req testRequest) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if req.body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(req.body))
	}
	httpReq := httptest.NewRequest(req.method, req.path, &buf)
	httpReq.Header.Set("Content-Type", "application/json")
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	for _, c := range req.cookies {
		httpReq.AddCookie(c)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httpReq)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (int, map[string]interface{}) {
	t.Helper()
	var envelope struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope.Code, envelope.Data
}

func createTestUser(t *testing.T, db *gorm.DB, username, email string) (models.User, string) {
	t.Helper()
	hash, err := utils.HashPassword("password1")
	require.NoError(t, err)
	user := models.User{Username: username, Email: email, PasswordHash: hash}
	require.NoError(t, db.Create(&user).Error)
	token, err := utils.GenerateToken(user.ID, user.Username, time.Hour)
	require.NoError(t, err)
	return user, token
}

func createTestArticle(t *testing.T, db *gorm.DB, title, category, status string, active bool) models.Article {
	t.Helper()
	published := time.Now().Add(-time.Hour)
	article := models.Article{
		Title:         title,
		Status:        status,
		Category:      category,
		SummaryTxt:    "summary of " + title,
		HTML:          "<p>body of " + title + "</p>",
		Sources:       `["https://example.dk/news"]`,
		PublishedDate: &published,
		Active:        active,
	}
	require.NoError(t, db.Create(&article).Error)
	return article
}

func sessionCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
