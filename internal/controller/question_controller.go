package controller

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/service"
	"quiz_master_backend/internal/util"
)

type QuestionController struct {
	Service *service.QuestionService
}

func NewQuestionController(s *service.QuestionService) *QuestionController {
	return &QuestionController{Service: s}
}

type CreateQuestionRequest struct {
	Text         string   `json:"text" binding:"required"`
	Options      []string `json:"options"`
	CorrectIndex *int     `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
	Tags         []string `json:"tags"`
	Priority     string   `json:"priority" binding:"omitempty,oneof=urgent normal low"`
}

// Create 手工录入一条题目
func (c *QuestionController) Create(ctx *gin.Context) {
	var req CreateQuestionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	correct := -1
	if req.CorrectIndex != nil {
		correct = *req.CorrectIndex
	}
	q := &model.Question{
		Text:         req.Text,
		Options:      model.StringList(req.Options),
		CorrectIndex: correct,
		Explanation:  req.Explanation,
		Tags:         model.StringList(req.Tags),
		Priority:     model.Priority(req.Priority),
	}

	id, err := c.Service.Create(q)
	if err != nil {
		if errors.Is(err, util.ErrEmptyQuestionText) {
			util.BadRequest(ctx, err.Error())
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, gin.H{"id": id})
}

func (c *QuestionController) Get(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	q, err := c.Service.Get(id)
	if err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, q)
}

func (c *QuestionController) Delete(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	if err := c.Service.Delete(id); err != nil {
		if errors.Is(err, util.ErrQuestionNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, nil)
}

// List 最近题目，limit 默认 20
func (c *QuestionController) List(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 200 {
		limit = 20
	}

	questions, err := c.Service.List(limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

func (c *QuestionController) Search(ctx *gin.Context) {
	term := ctx.Query("q")
	if term == "" {
		util.BadRequest(ctx, "missing query")
		return
	}

	questions, err := c.Service.Search(term)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

func (c *QuestionController) Tags(ctx *gin.Context) {
	tags, err := c.Service.Tags()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, tags)
}

type AddTagRequest struct {
	Tag string `json:"tag" binding:"required"`
}

// AddTag 给题目追加标签，标签只增不减
func (c *QuestionController) AddTag(ctx *gin.Context) {
	id, err := parseID(ctx)
	if err != nil {
		util.BadRequest(ctx, "invalid id")
		return
	}

	var req AddTagRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	q, err := c.Service.AddTag(id, req.Tag)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuestionNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrInvalidTag):
			util.BadRequest(ctx, err.Error())
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}
	util.Success(ctx, q)
}

func parseID(ctx *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	return uint(id), err
}
