package controller

import (
	"devlingo_backend/internal/service"
	"devlingo_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

// StartQuiz godoc
// @Summary 开始一轮练习
// @Description 按类型与等级抽题，等级为空时使用用户当前等级；答案不随题目下发
// @Tags 练习
// @Produce json
// @Security ApiKeyAuth
// @Param type query string false "练习类型"
// @Param level query string false "CEFR等级"
// @Param count query int false "题目数量，默认5"
// @Success 200 {object} util.Response{data=[]service.QuizExerciseView}
// @Router /api/quiz/start [get]
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	count, _ := strconv.Atoi(ctx.DefaultQuery("count", "5"))

	views, err := c.QuizService.StartQuiz(claims.UserID, ctx.Query("type"), ctx.Query("level"), count)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, views)
}

// SubmitQuizRequest 提交一轮练习
type SubmitQuizRequest struct {
	Skill       string                   `json:"skill"`
	Submissions []service.QuizSubmission `json:"submissions" binding:"required,min=1"`
}

// SubmitQuiz godoc
// @Summary 提交练习答案
// @Description 逐题判分（忽略大小写与首尾空白），返回判分明细并记录历史
// @Tags 练习
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body SubmitQuizRequest true "答案"
// @Success 200 {object} util.Response{data=service.QuizResultView}
// @Failure 404 {object} util.Response "题目不存在"
// @Router /api/quiz/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitQuiz(claims.UserID, req.Skill, req.Submissions)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

// History godoc
// @Summary 练习历史
// @Tags 练习
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "数量上限，默认20"
// @Success 200 {object} util.Response{data=[]model.QuizResult}
// @Router /api/quiz/history [get]
func (c *QuizController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	results, err := c.QuizService.History(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, results)
}
