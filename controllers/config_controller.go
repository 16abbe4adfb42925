package controllers

import (
	"github.com/gin-gonic/gin"

	"github.com/satpal87/danish-reels-news/config"
	"github.com/satpal87/danish-reels-news/utils"
)

// ConfigController serves client-facing configuration.
type ConfigController struct{}

func NewConfigController() *ConfigController { return &ConfigController{} }

// GetAppConfig returns the settings a reading client needs up front.
func (c *ConfigController) GetAppConfig(ctx *gin.Context) {
	cfg := config.Get()
	utils.Success(ctx, gin.H{
		"daily_view_limit":    cfg.DailyViewLimit,
		"session_cookie_name": cfg.SessionCookieName,
	})
}
