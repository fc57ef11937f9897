package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/service"
	"quiz_master_backend/internal/util"
)

type ReviewController struct {
	Service *service.QuestionService
}

func NewReviewController(s *service.QuestionService) *ReviewController {
	return &ReviewController{Service: s}
}

// Next 取下一道要复习的题。mode 为 all/due/weak/tag，
// exclude 用来跳过刚答完的题。
func (c *ReviewController) Next(ctx *gin.Context) {
	mode := model.ParseReviewMode(ctx.DefaultQuery("mode", "due"))
	tag := ctx.Query("tag")
	if mode == model.ModeTag && tag == "" {
		util.BadRequest(ctx, "tag mode requires tag parameter")
		return
	}

	var excludeID uint
	if raw := ctx.Query("exclude"); raw != "" {
		v, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			util.BadRequest(ctx, "invalid exclude id")
			return
		}
		excludeID = uint(v)
	}

	q, err := c.Service.NextQuestion(mode, tag, excludeID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	if q == nil {
		util.Error(ctx, 404, util.ErrNoQuestions.Error())
		return
	}
	util.Success(ctx, q)
}

type SubmitReviewRequest struct {
	Quality *int   `json:"quality"`
	Rating  string `json:"rating"`
}

// Submit 提交一次复习，接受 0-5 的质量评分或 again/hard/good/easy 按钮值
func (c *ReviewController) Submit(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req SubmitReviewRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	var quality int
	switch {
	case req.Quality != nil:
		quality = *req.Quality
	case req.Rating != "":
		quality = service.QualityFromLabel(req.Rating)
	default:
		util.BadRequest(ctx, "quality or rating is required")
		return
	}

	q, err := c.Service.SubmitReview(id, quality)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidQuality):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, q)
}

type SubmitAnswerRequest struct {
	OptionIndex *int `json:"optionIndex" binding:"required"`
}

// Answer 交互式作答，正确与否由服务端判定后折算评分
func (c *ReviewController) Answer(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, correct, err := c.Service.SubmitAnswer(id, *req.OptionIndex)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidOption):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, gin.H{"correct": correct, "question": q})
}

// Due 当前到期的题目列表
func (c *ReviewController) Due(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	questions, err := c.Service.Due(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// Weakest 错误率和熟练度最差的题目
func (c *ReviewController) Weakest(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	questions, err := c.Service.Weakest(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}
