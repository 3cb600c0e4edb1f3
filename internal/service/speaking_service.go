package service

import (
	"context"
	"devlingo_backend/internal/model"
	"devlingo_backend/internal/repository"
	"devlingo_backend/internal/util"
	"devlingo_backend/pkg/logger"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SpeakingService 串联口语练习的完整链路：
// 上传录音 -> 转码 -> STT转写 -> AI点评 -> 落库
type SpeakingService struct {
	SpeakingRepo *repository.SpeakingRepository
	Speech       *SpeechService
	Feedback     *FeedbackService
	Storage      *StorageService
	SampleRate   int
}

func NewSpeakingService(
	speakingRepo *repository.SpeakingRepository,
	speech *SpeechService,
	feedback *FeedbackService,
	storage *StorageService,
	sampleRate int,
) *SpeakingService {
	return &SpeakingService{
		SpeakingRepo: speakingRepo,
		Speech:       speech,
		Feedback:     feedback,
		Storage:      storage,
		SampleRate:   sampleRate,
	}
}

// ProcessRecording takes an uploaded audio file already saved to a
// temporary path, normalizes it for the STT vendor, transcribes it and
// asks the tutor model for feedback. A vendor failure aborts the whole
// attempt; nothing partial is stored.
// 录音时长上限（秒）
const maxRecordingSeconds = 300

func (s *SpeakingService) ProcessRecording(ctx context.Context, userID uint, promptText, language, tmpPath, origFilename string) (*model.SpeakingAttempt, error) {
	info, err := util.GetAudioInfo(tmpPath)
	if err != nil {
		return nil, err
	}
	if info.Duration > maxRecordingSeconds {
		return nil, fmt.Errorf("recording too long: %.0fs (max %ds)", info.Duration, maxRecordingSeconds)
	}

	wavPath := tmpPath + ".norm.wav"
	if err := util.NormalizeAudioForSTT(tmpPath, wavPath, s.SampleRate); err != nil {
		return nil, err
	}
	defer os.Remove(wavPath)

	audio, err := os.ReadFile(wavPath)
	if err != nil {
		return nil, err
	}

	result, err := s.Speech.Transcribe(ctx, audio, language)
	if err != nil {
		return nil, err
	}

	feedback, err := s.Feedback.SpeakingFeedback(promptText, result.Transcript, result.Confidence)
	if err != nil {
		// 点评失败不拦截转写结果，降级为无点评
		logger.Log.Warn("Speaking feedback unavailable", zap.Error(err))
		feedback = ""
	}

	ext := filepath.Ext(origFilename)
	if ext == "" {
		ext = ".wav"
	}
	objectName := fmt.Sprintf("speaking/%d/%s%s", userID, uuid.New().String(), ext)
	audioURL, err := s.Storage.UploadFile(ctx, objectName, tmpPath, util.MimeWav)
	if err != nil {
		return nil, err
	}

	attempt := &model.SpeakingAttempt{
		UserID:     userID,
		PromptText: promptText,
		AudioURL:   audioURL,
		Language:   language,
		Transcript: result.Transcript,
		Confidence: int(result.Confidence),
		Feedback:   feedback,
	}
	if err := s.SpeakingRepo.Create(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

func (s *SpeakingService) History(userID uint, limit int) ([]model.SpeakingAttempt, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.SpeakingRepo.ListByUser(userID, limit)
}

func (s *SpeakingService) Get(userID, id uint) (*model.SpeakingAttempt, error) {
	attempt, err := s.SpeakingRepo.FindByID(id)
	if err != nil {
		return nil, util.ErrAttemptNotFound
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}
	return attempt, nil
}
