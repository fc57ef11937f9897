package controller

import (
	"errors"

	"github.com/gin-gonic/gin"

	"quiz_master_backend/internal/service"
	"quiz_master_backend/internal/util"
)

type IngestController struct {
	Service *service.IngestService
}

func NewIngestController(s *service.IngestService) *IngestController {
	return &IngestController{Service: s}
}

type IngestMessageRequest struct {
	Text          string `json:"text" binding:"required"`
	Forwarded     bool   `json:"forwarded"`
	SourceChannel string `json:"sourceChannel"`
}

// Message 自由文本消息入库
func (c *IngestController) Message(ctx *gin.Context) {
	var req IngestMessageRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.IngestMessage(req.Text, req.Forwarded, req.SourceChannel)
	if err != nil {
		if errors.Is(err, util.ErrEmptyQuestionText) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, q)
}

type IngestPollRequest struct {
	Question      string   `json:"question" binding:"required"`
	Options       []string `json:"options" binding:"required,min=2"`
	CorrectOption *int     `json:"correctOption"`
	Caption       string   `json:"caption"`
}

// Poll 投票入库
func (c *IngestController) Poll(ctx *gin.Context) {
	var req IngestPollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	correct := -1
	if req.CorrectOption != nil {
		correct = *req.CorrectOption
	}
	q, err := c.Service.IngestPoll(req.Question, req.Options, correct, req.Caption)
	if err != nil {
		if errors.Is(err, util.ErrEmptyQuestionText) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, q)
}

type IngestCaptionRequest struct {
	Caption   string `json:"caption" binding:"required"`
	MediaType string `json:"mediaType"`
	MediaID   string `json:"mediaID"`
}

// Caption 媒体消息只按文字说明入库
func (c *IngestController) Caption(ctx *gin.Context) {
	var req IngestCaptionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.IngestCaption(req.Caption, req.MediaType, req.MediaID)
	if err != nil {
		if errors.Is(err, util.ErrEmptyQuestionText) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Created(ctx, q)
}
