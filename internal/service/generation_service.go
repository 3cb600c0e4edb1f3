package service

import (
	"context"
	"devlingo_backend/internal/assessment"
	"devlingo_backend/internal/config"
	"devlingo_backend/internal/repository"
	"devlingo_backend/pkg/logger"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// GenerationService produces new exercises offline via an
// OpenAI-compatible model. Generated items run through the same content
// validator as imported ones; anything flagged as placeholder content
// is discarded instead of stored.
type GenerationService struct {
	ExerciseRepo *repository.ExerciseRepository
	client       *openai.Client
	model        string
}

func NewGenerationService(exerciseRepo *repository.ExerciseRepository, cfg config.AIConfig) *GenerationService {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &GenerationService{
		ExerciseRepo: exerciseRepo,
		client:       openai.NewClientWithConfig(clientCfg),
		model:        cfg.Model,
	}
}

const generationSystemPrompt = `You are an exercise author for an English learning app aimed at software developers.
Produce exercises as a JSON array. Each element:
{
  "type": "multiple_choice" | "fill_blank" | "reading",
  "title": string,
  "cefrLevel": "A1"|"A2"|"B1"|"B2"|"C1",
  "skill": "grammar"|"vocabulary"|"reading",
  "passage": string (reading only),
  "questions": [
    {
      "prompt": string (a full, concrete question, at least 10 characters),
      "options": [string] (multiple_choice only, the correct answer must be one of them),
      "answer": string or [string],
      "explanation": string (a real explanation of why the answer is correct),
      "nextLevel": CEFR level to move to after a correct answer,
      "wrongLevel": CEFR level to move to after a wrong answer
    }
  ]
}
Use realistic workplace IT vocabulary (standup, deployment, code review, incident).
Never use placeholder text like "Option A" or "Alternative answer 1".
Respond with the JSON array only, no markdown fences.`

// Generate asks the model for count exercises of one skill at one CEFR
// level, filters them through the validator and stores survivors.
func (s *GenerationService) Generate(ctx context.Context, skill, level string, count int) (*ImportReport, error) {
	if count <= 0 || count > 20 {
		count = 5
	}

	userPrompt := fmt.Sprintf("Generate %d %s exercises at CEFR level %s.", count, skill, level)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: generationSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
	})
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("AI returned no choices")
	}

	raw := stripCodeFence(resp.Choices[0].Message.Content)

	var bank []BankExercise
	if err := json.Unmarshal([]byte(raw), &bank); err != nil {
		return nil, fmt.Errorf("model returned invalid JSON: %w", err)
	}

	report := &ImportReport{Total: len(bank)}
	content := &ContentService{ExerciseRepo: s.ExerciseRepo}
	for i, be := range bank {
		if be.Skill == "" {
			be.Skill = skill
		}
		if be.CEFRLevel == "" {
			be.CEFRLevel = level
		}

		ex, err := content.buildExercise(be)
		if err != nil {
			report.Rejected++
			report.Reasons = append(report.Reasons, fmt.Sprintf("item %d: %v", i, err))
			continue
		}
		ex.Source = "generated"

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

	logger.Log.Info("Exercise generation finished",
		zap.String("skill", skill),
		zap.String("level", level),
		zap.Int("imported", report.Imported),
		zap.Int("rejected", report.Rejected))

	return report, nil
}

// stripCodeFence tolerates models that wrap JSON in markdown fences
// despite being told not to.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(s, "```")
	}
	return strings.TrimSpace(s)
}
