package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"quiz_master_backend/internal/cache"
	"quiz_master_backend/internal/util"
)

type HealthController struct {
	DB    *gorm.DB
	Cache *cache.QuestionCache
}

func NewHealthController(db *gorm.DB, c *cache.QuestionCache) *HealthController {
	return &HealthController{DB: db, Cache: c}
}

// HealthCheck 检查数据库连通性并报告缓存版本
func (c *HealthController) HealthCheck(ctx *gin.Context) {
	sqlDB, err := c.DB.DB()
	if err != nil {
		util.InternalServerError(ctx)
		return
	}

	if err := sqlDB.Ping(); err != nil {
		util.Error(ctx, http.StatusServiceUnavailable, "Database unavailable")
		return
	}

	util.Success(ctx, gin.H{
		"status": "ok",
		"components": gin.H{
			"database":      "up",
			"cache_version": c.Cache.Version(),
		},
	})
}
