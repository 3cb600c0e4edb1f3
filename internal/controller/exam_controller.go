package controller

import (
	"devlingo_backend/internal/service"
	"devlingo_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ExamController struct {
	ExamService *service.ExamService
}

func NewExamController(examService *service.ExamService) *ExamController {
	return &ExamController{ExamService: examService}
}

// StartExamRequest 开始模拟考试
type StartExamRequest struct {
	ExamType string `json:"examType" binding:"required,oneof=toeic toefl efset"`
}

// StartExam godoc
// @Summary 开始模拟考试
// @Description 创建新的考试尝试；同类型已有进行中的尝试时直接续考
// @Tags 模拟考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body StartExamRequest true "考试类型"
// @Success 200 {object} util.Response{data=model.ExamAttempt}
// @Failure 400 {object} util.Response "未知考试类型"
// @Router /api/exams/start [post]
func (c *ExamController) StartExam(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req StartExamRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	attempt, err := c.ExamService.StartExam(claims.UserID, req.ExamType)
	if err != nil {
		if errors.Is(err, util.ErrUnknownExamType) {
			util.BadRequest(ctx, "未知考试类型")
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attempt)
}

// NextQuestion godoc
// @Summary 获取下一道自适应题目
// @Description 按当前难度指针出题；当前等级题目耗尽时结束本节并进入下一节
// @Tags 模拟考试
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "考试尝试ID"
// @Success 200 {object} util.Response{data=service.ExamQuestionView}
// @Failure 404 {object} util.Response "尝试不存在"
// @Failure 409 {object} util.Response "尝试已结束"
// @Router /api/exams/{id}/next [get]
func (c *ExamController) NextQuestion(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	view, err := c.ExamService.NextQuestion(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.writeExamError(ctx, err)
		return
	}

	util.Success(ctx, view)
}

// SubmitAnswerRequest 提交考试答案
type SubmitAnswerRequest struct {
	QuestionID   uint   `json:"questionId" binding:"required"`
	Answer       string `json:"answer"`
	TimeSpentSec int    `json:"timeSpentSec"`
}

// SubmitAnswer godoc
// @Summary 提交考试答案
// @Description 判分并按题目标注移动难度指针，节末自动推进，最后一节结束后定级
// @Tags 模拟考试
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "考试尝试ID"
// @Param body body SubmitAnswerRequest true "答案"
// @Success 200 {object} util.Response{data=service.ExamAnswerOutcome}
// @Failure 400 {object} util.Response "题目不属于当前小节"
// @Failure 404 {object} util.Response "尝试或题目不存在"
// @Failure 409 {object} util.Response "尝试已结束"
// @Router /api/exams/{id}/answer [post]
func (c *ExamController) SubmitAnswer(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req SubmitAnswerRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	outcome, err := c.ExamService.SubmitAnswer(claims.UserID, ctx.Param("id"), req.QuestionID, req.Answer, req.TimeSpentSec)
	if err != nil {
		c.writeExamError(ctx, err)
		return
	}

	util.Success(ctx, outcome)
}

// Result godoc
// @Summary 查看考试结果
// @Description 分节成绩、总分与授予的CEFR等级
// @Tags 模拟考试
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "考试尝试ID"
// @Success 200 {object} util.Response{data=service.ExamResultView}
// @Failure 404 {object} util.Response "尝试不存在"
// @Router /api/exams/{id}/result [get]
func (c *ExamController) Result(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	result, err := c.ExamService.Result(claims.UserID, ctx.Param("id"))
	if err != nil {
		c.writeExamError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// Abandon godoc
// @Summary 放弃考试
// @Description 结束进行中的尝试，不授予等级
// @Tags 模拟考试
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "考试尝试ID"
// @Success 200 {object} util.Response
// @Router /api/exams/{id}/abandon [post]
func (c *ExamController) Abandon(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	if err := c.ExamService.Abandon(claims.UserID, ctx.Param("id")); err != nil {
		c.writeExamError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// History godoc
// @Summary 考试历史
// @Tags 模拟考试
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "数量上限，默认20"
// @Success 200 {object} util.Response{data=[]model.ExamAttempt}
// @Router /api/exams/history [get]
func (c *ExamController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	attempts, err := c.ExamService.History(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}

func (c *ExamController) writeExamError(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, util.ErrAttemptNotFound), errors.Is(err, util.ErrExerciseNotFound):
		util.NotFound(ctx)
	case errors.Is(err, util.ErrPermissionDenied):
		util.Forbidden(ctx)
	case errors.Is(err, util.ErrAttemptCompleted):
		util.Error(ctx, 409, "考试尝试已结束")
	case errors.Is(err, util.ErrQuestionNotInSection):
		util.BadRequest(ctx, "题目不属于当前考试小节")
	case errors.Is(err, util.ErrUnknownExamType):
		util.BadRequest(ctx, "未知考试类型")
	default:
		util.LogInternalError(ctx, err)
	}
}
