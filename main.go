package main

import (
	"time"

	"github.com/satpal87/danish-reels-news/config"
	"github.com/satpal87/danish-reels-news/models"
	"github.com/satpal87/danish-reels-news/routes"
	"github.com/satpal87/danish-reels-news/utils"
)

func main() {
	cfg := config.Load()

	// Initialize logger early
	if err := utils.InitLogger(cfg); err != nil {
		panic(err)
	}

	db := config.InitDatabase(&models.User{}, &models.Article{}, &models.ArticleView{}, &models.SavedArticle{}, &models.PageView{})

	r := routes.SetupRouter(db)

	// Prune stale anonymous view events in the background (best-effort)
	pruner := utils.StartViewPruner(db, time.Hour, cfg.ViewRetentionDays)
	defer pruner.Stop()

	utils.Sugar.Infof("Starting server on port %s (graceful)", cfg.AppPort)
	if err := utils.GraceServer(":"+cfg.AppPort, r); err != nil {
		utils.Sugar.Fatalf("server stopped with error: %v", err)
	}
}
