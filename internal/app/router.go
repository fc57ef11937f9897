package app

import (
	"github.com/gin-gonic/gin"

	"quiz_master_backend/internal/config"
	"quiz_master_backend/internal/middleware"
	"quiz_master_backend/pkg/monitoring"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, cfg *config.Config) {
	router.GET("/metrics", monitoring.PrometheusHandler())

	// 公共路由(无需登录)
	public := router.Group("/api")
	{
		public.GET("/health", c.health.HealthCheck)
		public.POST("/login", c.auth.Login)
	}

	// 需要授权的路由
	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg))
	{
		questions := authGroup.Group("/questions")
		{
			questions.POST("", c.question.Create)
			questions.GET("", c.question.List)
			questions.GET("/search", c.question.Search)
			questions.GET("/tags", c.question.Tags)
			questions.GET("/:id", c.question.Get)
			questions.DELETE("/:id", c.question.Delete)
			questions.POST("/:id/tags", c.question.AddTag)
		}

		review := authGroup.Group("/review")
		{
			review.GET("/next", c.review.Next)
			review.GET("/due", c.review.Due)
			review.GET("/weakest", c.review.Weakest)
			review.POST("/:id/submit", c.review.Submit)
			review.POST("/:id/answer", c.review.Answer)
		}

		ingest := authGroup.Group("/ingest")
		{
			ingest.POST("/message", c.ingest.Message)
			ingest.POST("/poll", c.ingest.Poll)
			ingest.POST("/caption", c.ingest.Caption)
		}

		analytics := authGroup.Group("/analytics")
		{
			analytics.GET("/stats", c.analytics.Stats)
			analytics.GET("/prediction", c.analytics.Prediction)
			analytics.GET("/level", c.analytics.Level)
			analytics.GET("/report", c.analytics.Report)
			analytics.GET("/report/text", c.analytics.ReportText)
		}

		authGroup.GET("/export", c.export.Export)
		authGroup.POST("/import", c.export.Import)
		authGroup.POST("/backup", c.export.Backup)
	}
}
