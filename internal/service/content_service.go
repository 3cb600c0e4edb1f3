package service

import (
	"context"
	"devlingo_backend/internal/assessment"
	"devlingo_backend/internal/config"
	"devlingo_backend/internal/model"
	"devlingo_backend/internal/repository"
	"devlingo_backend/internal/util"
	"devlingo_backend/pkg/logger"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// BankExercise is one exercise as authored in the static JSON bank.
// Options stay a string slice and the answer keeps its string-or-array
// JSON form until persisted.
// swagger:model BankExercise
type BankExercise struct {
	Type        string         `json:"type"`
	Title       string         `json:"title"`
	CEFRLevel   string         `json:"cefrLevel"`
	Skill       string         `json:"skill"`
	Passage     string         `json:"passage,omitempty"`
	AudioURL    string         `json:"audioUrl,omitempty"`
	GrammarTags []string       `json:"grammarTags,omitempty"`
	VocabTags   []string       `json:"vocabTags,omitempty"`
	Questions   []BankQuestion `json:"questions"`
}

type BankQuestion struct {
	Prompt      string          `json:"prompt"`
	Options     []string        `json:"options,omitempty"`
	Answer      json.RawMessage `json:"answer"`
	Explanation string          `json:"explanation,omitempty"`
	Points      int             `json:"points,omitempty"`
	NextLevel   string          `json:"nextLevel,omitempty"`
	WrongLevel  string          `json:"wrongLevel,omitempty"`
}

// ImportReport summarises one bank import run.
// swagger:model ImportReport
type ImportReport struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Rejected int      `json:"rejected"`
	Reasons  []string `json:"reasons,omitempty"`
}

// ContentService 负责题库的导入、校验与缓存
type ContentService struct {
	ExerciseRepo *repository.ExerciseRepository
	Redis        *redis.Client
	Cfg          *config.Config
}

func NewContentService(exerciseRepo *repository.ExerciseRepository, rdb *redis.Client, cfg *config.Config) *ContentService {
	return &ContentService{
		ExerciseRepo: exerciseRepo,
		Redis:        rdb,
		Cfg:          cfg,
	}
}

// ImportBank loads the exercise bank from a local file path or an
// http(s) URL, runs every exercise through the content validator and
// persists only the ones that pass. Rejected items are reported, not
// fatal.
func (s *ContentService) ImportBank(source string) (*ImportReport, error) {
	data, err := s.readBankSource(source)
	if err != nil {
		return nil, err
	}

	var bank []BankExercise
	if err := json.Unmarshal(data, &bank); err != nil {
		return nil, fmt.Errorf("invalid bank JSON: %w", err)
	}

	report := &ImportReport{Total: len(bank)}
	for i, be := range bank {
		ex, err := s.buildExercise(be)
		if err != nil {
			report.Rejected++
			report.Reasons = append(report.Reasons, fmt.Sprintf("item %d: %v", i, err))
			continue
		}

		result := assessment.Validate(ex.Content())
		if !result.Valid {
			report.Rejected++
			report.Reasons = append(report.Reasons, fmt.Sprintf("item %d (%s): %s", i, be.Title, result.Reason))
			continue
		}

		if err := s.ExerciseRepo.Create(ex); err != nil {
			report.Rejected++
			report.Reasons = append(report.Reasons, fmt.Sprintf("item %d (%s): %v", i, be.Title, err))
			continue
		}
		report.Imported++
	}

	s.invalidateCache(context.Background())
	logger.Log.Info("Exercise bank import finished",
		zap.String("source", source),
		zap.Int("total", report.Total),
		zap.Int("imported", report.Imported),
		zap.Int("rejected", report.Rejected))

	return report, nil
}

func (s *ContentService) readBankSource(source string) ([]byte, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		client := &http.Client{Timeout: 30 * time.Second}
		resp, err := client.Get(source)
		if err != nil {
			return nil, util.ErrBankSourceUnreached
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, util.ErrBankSourceUnreached
		}
		return io.ReadAll(resp.Body)
	}
	data, err := os.ReadFile(source)
	if err != nil {
		return nil, util.ErrBankSourceUnreached
	}
	return data, nil
}

func (s *ContentService) buildExercise(be BankExercise) (*model.Exercise, error) {
	if be.Type == "" {
		return nil, errors.New("missing exercise type")
	}

	ex := &model.Exercise{
		Type:        be.Type,
		Title:       be.Title,
		CEFRLevel:   be.CEFRLevel,
		Skill:       be.Skill,
		Passage:     be.Passage,
		AudioURL:    be.AudioURL,
		GrammarTags: strings.Join(be.GrammarTags, ","),
		VocabTags:   strings.Join(be.VocabTags, ","),
		Source:      "import",
		IsActive:    true,
	}

	for i, bq := range be.Questions {
		optsJSON := ""
		if len(bq.Options) > 0 {
			b, err := json.Marshal(bq.Options)
			if err != nil {
				return nil, err
			}
			optsJSON = string(b)
		}

		answer := string(bq.Answer)
		if model.DecodeAnswerJSON(answer) == nil {
			return nil, fmt.Errorf("question %d: answer must be a string or string array", i)
		}

		points := bq.Points
		if points == 0 {
			points = 1
		}

		ex.Questions = append(ex.Questions, model.ExerciseQuestion{
			Prompt:        bq.Prompt,
			Options:       optsJSON,
			CorrectAnswer: answer,
			Explanation:   bq.Explanation,
			Points:        points,
			Order:         i,
			NextLevel:     bq.NextLevel,
			WrongLevel:    bq.WrongLevel,
		})
	}

	return ex, nil
}

// CreateExercise 编辑人员手动创建单个练习，同样要过校验
func (s *ContentService) CreateExercise(be BankExercise) (*model.Exercise, error) {
	ex, err := s.buildExercise(be)
	if err != nil {
		return nil, err
	}
	ex.Source = "manual"

	result := assessment.Validate(ex.Content())
	if !result.Valid {
		return nil, errors.New(result.Reason)
	}

	if err := s.ExerciseRepo.Create(ex); err != nil {
		return nil, err
	}
	s.invalidateCache(context.Background())
	return ex, nil
}

func (s *ContentService) GetExercise(id uint) (*model.Exercise, error) {
	ex, err := s.ExerciseRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}
	return ex, nil
}

// ListExercises 带 Redis 缓存的分页列表，缓存键覆盖全部筛选维度
func (s *ContentService) ListExercises(ctx context.Context, page, limit int, exType, level, skill string) ([]model.Exercise, int64, error) {
	cacheKey := fmt.Sprintf("exercises:%d:%d:%s:%s:%s", page, limit, exType, level, skill)

	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, cacheKey).Result(); err == nil {
			var payload struct {
				List  []model.Exercise `json:"list"`
				Total int64            `json:"total"`
			}
			if json.Unmarshal([]byte(cached), &payload) == nil {
				return payload.List, payload.Total, nil
			}
		}
	}

	exs, total, err := s.ExerciseRepo.List(page, limit, exType, level, skill)
	if err != nil {
		return nil, 0, err
	}

	if s.Redis != nil {
		payload, _ := json.Marshal(struct {
			List  []model.Exercise `json:"list"`
			Total int64            `json:"total"`
		}{exs, total})
		ttl := time.Duration(s.Cfg.Content.CacheTTLMins) * time.Minute
		s.Redis.Set(ctx, cacheKey, payload, ttl)
	}

	return exs, total, err
}

func (s *ContentService) UpdateExercise(id uint, be BankExercise) (*model.Exercise, error) {
	existing, err := s.GetExercise(id)
	if err != nil {
		return nil, err
	}

	updated, err := s.buildExercise(be)
	if err != nil {
		return nil, err
	}

	result := assessment.Validate(updated.Content())
	if !result.Valid {
		return nil, errors.New(result.Reason)
	}

	updated.ID = existing.ID
	updated.CreatedAt = existing.CreatedAt
	updated.Source = existing.Source
	for i := range updated.Questions {
		updated.Questions[i].ExerciseID = existing.ID
	}

	// 重建题目，避免残留旧题
	err = s.ExerciseRepo.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exercise_id = ?", id).Delete(&model.ExerciseQuestion{}).Error; err != nil {
			return err
		}
		return tx.Save(updated).Error
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCache(context.Background())
	return updated, nil
}

func (s *ContentService) DeleteExercise(id uint) error {
	if _, err := s.GetExercise(id); err != nil {
		return err
	}
	if err := s.ExerciseRepo.Delete(id); err != nil {
		return err
	}
	s.invalidateCache(context.Background())
	return nil
}

// ValidateExercise 只校验不落库，给编辑界面做预检
func (s *ContentService) ValidateExercise(be BankExercise) assessment.ValidationResult {
	ex, err := s.buildExercise(be)
	if err != nil {
		return assessment.ValidationResult{Valid: false, Reason: err.Error()}
	}
	return assessment.Validate(ex.Content())
}

func (s *ContentService) invalidateCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	iter := s.Redis.Scan(ctx, 0, "exercises:*", 100).Iterator()
	for iter.Next(ctx) {
		s.Redis.Del(ctx, iter.Val())
	}
}
