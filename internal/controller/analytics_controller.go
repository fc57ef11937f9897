package controller

import (
	"github.com/gin-gonic/gin"

	"quiz_master_backend/internal/service"
	"quiz_master_backend/internal/util"
)

type AnalyticsController struct {
	Service *service.QuestionService
	Reports *service.ReportService
}

func NewAnalyticsController(s *service.QuestionService, reports *service.ReportService) *AnalyticsController {
	return &AnalyticsController{Service: s, Reports: reports}
}

// Stats 题库概况
func (c *AnalyticsController) Stats(ctx *gin.Context) {
	stats, err := c.Service.Stats()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, stats)
}

// Prediction 按标签加权的成绩预测
func (c *AnalyticsController) Prediction(ctx *gin.Context) {
	prediction, err := c.Service.Predict()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, prediction)
}

// Level 当前等级与进度
func (c *AnalyticsController) Level(ctx *gin.Context) {
	level, err := c.Service.Level()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, level)
}

// Report 完整学习报告
func (c *AnalyticsController) Report(ctx *gin.Context) {
	report, err := c.Service.Report()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, report)
}

// ReportText 每日报告的文本视图，便于预览推送内容
func (c *AnalyticsController) ReportText(ctx *gin.Context) {
	text, err := c.Reports.Compose()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"text": text})
}
