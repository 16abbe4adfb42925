package routes

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/satpal87/danish-reels-news/config"
	"github.com/satpal87/danish-reels-news/controllers"
	"github.com/satpal87/danish-reels-news/middleware"
	"github.com/satpal87/danish-reels-news/utils"
)

// SetupRouter wires routes, middlewares, and controllers.
func SetupRouter(db *gorm.DB) *gin.Engine {
	// Load config and set Gin mode from configuration
	cfg := config.Get()
	switch strings.ToLower(cfg.GinMode) {
	case "debug":
		gin.SetMode(gin.DebugMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	// Replace default console logger with file-based zap logger
	gl, err := utils.NewRollingFileLogger(cfg.GinPath, cfg.LogLevel, cfg.LogMaxSizeMB, cfg.LogMaxBackups, cfg.LogMaxAgeDays, cfg.LogCompress)
	if err == nil {
		r.Use(utils.Ginzap(gl, time.RFC3339, true))
		r.Use(utils.RecoveryWithZap(gl, false))
	} else {
		// fallback to default recovery if logger failed to init
		r.Use(gin.Recovery())
	}

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}

	if len(cfg.AllowedOrigins) == 1 && cfg.AllowedOrigins[0] == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.AllowedOrigins
	}

	r.Use(cors.New(corsCfg))
	// Record article traffic after each request
	r.Use(middleware.PageViewRecorder(db))

	r.GET("/health", func(ctx *gin.Context) {
		utils.Success(ctx, gin.H{"status": "ok"})
	})

	sessionStore := utils.NewCookieSessionStore(cfg.SessionCookieName)

	authController := controllers.NewAuthController(db)
	viewController := controllers.NewViewController(db, sessionStore)
	articleController := controllers.NewArticleController(db, viewController)
	adminController := controllers.NewAdminController(db)
	savedController := controllers.NewSavedController(db)
	statsController := controllers.NewStatsController(db)
	configController := controllers.NewConfigController()

	api := r.Group("/api/v1")

	authGroup := api.Group("/auth")
	authGroup.Use(middleware.RateLimit(cfg.RateLimitPerMinute))
	authGroup.POST("/register", authController.Register)
	authGroup.POST("/login", authController.Login)
	authGroup.GET("/oauth/:provider/login", authController.OAuthRedirect)
	authGroup.GET("/oauth/:provider/callback", authController.OAuthCallback)
	authGroup.POST("/logout", middleware.AuthRequired(), authController.Logout)
	authGroup.GET("/me", middleware.AuthRequired(), authController.Me)

	articlesGroup := api.Group("/articles")
	articlesGroup.Use(middleware.OptionalAuth())
	articlesGroup.GET("", articleController.ListArticles)
	articlesGroup.GET("/categories", articleController.ListCategories)
	articlesGroup.GET("/:id", articleController.GetArticle)
	articlesGroup.GET("/:id/related", articleController.ListRelated)

	// Remaining free views for the caller; no session is created here
	api.GET("/views/remaining", middleware.OptionalAuth(), viewController.RemainingViews)

	// Public stats and config endpoints
	api.GET("/stats", statsController.GetStats)
	api.GET("/config/app", configController.GetAppConfig)

	protected := api.Group("")
	protected.Use(middleware.AuthRequired(), middleware.RateLimit(cfg.RateLimitPerMinute))
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

	r.NoRoute(func(ctx *gin.Context) {
		utils.Error(ctx, http.StatusNotFound, 40400, "route not found")
	})

	return r
}
