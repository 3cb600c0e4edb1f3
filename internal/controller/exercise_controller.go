package controller

import (
	"devlingo_backend/internal/service"
	"devlingo_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ExerciseController 题库管理：编辑角色维护练习内容
type ExerciseController struct {
	ContentService    *service.ContentService
	GenerationService *service.GenerationService
}

func NewExerciseController(contentService *service.ContentService, generationService *service.GenerationService) *ExerciseController {
	return &ExerciseController{
		ContentService:    contentService,
		GenerationService: generationService,
	}
}

// ListExercises godoc
// @Summary 获取练习列表
// @Description 分页获取练习，支持类型/等级/技能筛选，结果带缓存
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Param type query string false "练习类型"
// @Param level query string false "CEFR等级"
// @Param skill query string false "技能"
// @Success 200 {object} util.Response{data=util.PageResponse}
// @Router /api/exercises [get]
func (c *ExerciseController) ListExercises(ctx *gin.Context) {
	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	exs, total, err := c.ContentService.ListExercises(
		ctx.Request.Context(),
		page, limit,
		ctx.Query("type"), ctx.Query("level"), ctx.Query("skill"),
	)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  exs,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

// GetExercise godoc
// @Summary 获取单个练习详情
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "练习ID"
// @Success 200 {object} util.Response{data=model.Exercise}
// @Failure 404 {object} util.Response "练习不存在"
// @Router /api/exercises/{id} [get]
func (c *ExerciseController) GetExercise(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	ex, err := c.ContentService.GetExercise(id)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, ex)
}

// CreateExercise godoc
// @Summary 创建练习
// @Description 手动创建单个练习，需通过内容校验
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.BankExercise true "练习内容"
// @Success 201 {object} util.Response{data=model.Exercise}
// @Failure 400 {object} util.Response "内容校验失败"
// @Router /api/editor/exercises [post]
func (c *ExerciseController) CreateExercise(ctx *gin.Context) {
	var req service.BankExercise
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ex, err := c.ContentService.CreateExercise(req)
	if err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Created(ctx, ex)
}

// UpdateExercise godoc
// @Summary 更新练习
// @Description 整体替换练习内容，需重新通过内容校验
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "练习ID"
// @Param body body service.BankExercise true "练习内容"
// @Success 200 {object} util.Response{data=model.Exercise}
// @Failure 404 {object} util.Response "练习不存在"
// @Router /api/editor/exercises/{id} [put]
func (c *ExerciseController) UpdateExercise(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	var req service.BankExercise
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	ex, err := c.ContentService.UpdateExercise(id, req)
	if err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, ex)
}

// DeleteExercise godoc
// @Summary 删除练习
// @Tags 题库
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "练习ID"
// @Success 200 {object} util.Response
// @Router /api/editor/exercises/{id} [delete]
func (c *ExerciseController) DeleteExercise(ctx *gin.Context) {
	id := util.MustParseUint(ctx.Param("id"))

	if err := c.ContentService.DeleteExercise(id); err != nil {
		if errors.Is(err, util.ErrExerciseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, nil)
}

// ValidateExercise godoc
// @Summary 预检练习内容
// @Description 只校验不入库，给编辑界面做保存前检查
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body service.BankExercise true "练习内容"
// @Success 200 {object} util.Response{data=assessment.ValidationResult}
// @Router /api/editor/exercises/validate [post]
func (c *ExerciseController) ValidateExercise(ctx *gin.Context) {
	var req service.BankExercise
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	util.Success(ctx, c.ContentService.ValidateExercise(req))
}

// ImportBankRequest 题库导入请求
type ImportBankRequest struct {
	Source string `json:"source" binding:"required"` // 本地路径或 http(s) URL
}

// ImportBank godoc
// @Summary 导入静态题库
// @Description 从JSON文件或URL批量导入练习，逐条校验，失败项记录原因
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body ImportBankRequest true "题库来源"
// @Success 200 {object} util.Response{data=service.ImportReport}
// @Failure 502 {object} util.Response "题库来源不可达"
// @Router /api/editor/exercises/import [post]
func (c *ExerciseController) ImportBank(ctx *gin.Context) {
	var req ImportBankRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.ContentService.ImportBank(req.Source)
	if err != nil {
		if errors.Is(err, util.ErrBankSourceUnreached) {
			util.Error(ctx, 502, "题库来源不可达")
		} else {
			util.BadRequest(ctx, err.Error())
		}
		return
	}

	util.Success(ctx, report)
}

// GenerateRequest AI生成练习请求
type GenerateRequest struct {
	Skill string `json:"skill" binding:"required"`
	Level string `json:"level" binding:"required,oneof=A1 A2 B1 B2 C1"`
	Count int    `json:"count"`
}

// GenerateExercises godoc
// @Summary AI生成练习
// @Description 调用大模型生成练习，经内容校验后入库
// @Tags 题库
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body GenerateRequest true "生成参数"
// @Success 200 {object} util.Response{data=service.ImportReport}
// @Router /api/editor/exercises/generate [post]
func (c *ExerciseController) GenerateExercises(ctx *gin.Context) {
	var req GenerateRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	report, err := c.GenerationService.Generate(ctx.Request.Context(), req.Skill, req.Level, req.Count)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, report)
}
