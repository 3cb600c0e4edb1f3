package controller

import (
	"devlingo_backend/internal/service"
	"devlingo_backend/internal/util"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SpeakingController 口语与听力：录音提交、发音反馈、听力音频合成
type SpeakingController struct {
	SpeakingService *service.SpeakingService
	SpeechService   *service.SpeechService
	FeedbackService *service.FeedbackService
}

func NewSpeakingController(
	speakingService *service.SpeakingService,
	speechService *service.SpeechService,
	feedbackService *service.FeedbackService,
) *SpeakingController {
	return &SpeakingController{
		SpeakingService: speakingService,
		SpeechService:   speechService,
		FeedbackService: feedbackService,
	}
}

// SubmitRecording godoc
// @Summary 提交口语录音
// @Description 上传录音并附带题目文本，返回转写结果、置信度与AI点评；供应商失败时整体中止，需手动重试
// @Tags 口语
// @Accept mpfd
// @Produce json
// @Security ApiKeyAuth
// @Param audio formData file true "音频文件 (wav/mp3/m4a/ogg/webm/flac)"
// @Param promptText formData string true "口语题目文本"
// @Param language formData string false "语言，默认en-US"
// @Success 200 {object} util.Response{data=model.SpeakingAttempt}
// @Failure 400 {object} util.Response "文件格式不支持"
// @Failure 502 {object} util.Response "语音服务暂不可用"
// @Router /api/speaking/submit [post]
func (c *SpeakingController) SubmitRecording(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	file, err := ctx.FormFile("audio")
	if err != nil {
		util.BadRequest(ctx, "missing audio file")
		return
	}

	promptText := ctx.PostForm("promptText")
	if promptText == "" {
		util.BadRequest(ctx, "missing promptText")
		return
	}
	language := ctx.PostForm("language")

	ext := strings.ToLower(filepath.Ext(file.Filename))
	allowed := false
	for _, e := range util.AllowedAudioExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		util.BadRequest(ctx, fmt.Sprintf("unsupported audio format %q", ext))
		return
	}

	tmpPath := filepath.Join(os.TempDir(), uuid.New().String()+ext)
	if err := ctx.SaveUploadedFile(file, tmpPath); err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer os.Remove(tmpPath)

	attempt, err := c.SpeakingService.ProcessRecording(
		ctx.Request.Context(), claims.UserID, promptText, language, tmpPath, file.Filename)
	if err != nil {
		util.VendorUnavailable(ctx, err)
		return
	}

	util.Success(ctx, attempt)
}

// History godoc
// @Summary 口语练习历史
// @Tags 口语
// @Produce json
// @Security ApiKeyAuth
// @Param limit query int false "数量上限，默认20"
// @Success 200 {object} util.Response{data=[]model.SpeakingAttempt}
// @Router /api/speaking/history [get]
func (c *SpeakingController) History(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", "20"))

	attempts, err := c.SpeakingService.History(claims.UserID, limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, attempts)
}

// GetAttempt godoc
// @Summary 查看单次口语记录
// @Tags 口语
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "记录ID"
// @Success 200 {object} util.Response{data=model.SpeakingAttempt}
// @Failure 404 {object} util.Response "记录不存在"
// @Router /api/speaking/{id} [get]
func (c *SpeakingController) GetAttempt(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	id := util.MustParseUint(ctx.Param("id"))

	attempt, err := c.SpeakingService.Get(claims.UserID, id)
	if err != nil {
		if errors.Is(err, util.ErrAttemptNotFound) {
			util.NotFound(ctx)
		} else if errors.Is(err, util.ErrPermissionDenied) {
			util.Forbidden(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, attempt)
}

// SynthesizeRequest 文本转语音请求
type SynthesizeRequest struct {
	Text     string `json:"text" binding:"required"`
	Language string `json:"language"`
	Voice    string `json:"voice"`
}

// Synthesize godoc
// @Summary 文本转语音
// @Description 听力材料朗读，返回音频字节流
// @Tags 口语
// @Accept json
// @Produce octet-stream
// @Security ApiKeyAuth
// @Param body body SynthesizeRequest true "文本"
// @Success 200 {file} binary "音频数据"
// @Failure 502 {object} util.Response "语音服务暂不可用"
// @Router /api/speech/synthesize [post]
func (c *SpeakingController) Synthesize(ctx *gin.Context) {
	var req SynthesizeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	audio, err := c.SpeechService.Synthesize(ctx.Request.Context(), req.Text, req.Language, req.Voice)
	if err != nil {
		util.VendorUnavailable(ctx, err)
		return
	}

	ctx.Data(200, util.MimeWav, audio)
}

// WritingFeedbackRequest 写作点评请求
type WritingFeedbackRequest struct {
	Text string `json:"text" binding:"required,min=10"`
}

// WritingFeedback godoc
// @Summary 写作点评
// @Description AI助教点评自由写作文本
// @Tags 口语
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param body body WritingFeedbackRequest true "写作文本"
// @Success 200 {object} util.Response{data=object}
// @Failure 502 {object} util.Response "AI服务暂不可用"
// @Router /api/writing/feedback [post]
func (c *SpeakingController) WritingFeedback(ctx *gin.Context) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return
	}

	var req WritingFeedbackRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	feedback, err := c.FeedbackService.WritingFeedback(req.Text, "")
	if err != nil {
		util.VendorUnavailable(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"feedback": feedback})
}
