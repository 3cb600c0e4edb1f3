package service

import (
	"devlingo_backend/internal/assessment"
	"devlingo_backend/internal/model"
	"devlingo_backend/internal/repository"
	"devlingo_backend/internal/util"
	"errors"
	"time"

	"gorm.io/gorm"
)

// QuizQuestionView is the student-facing question payload. Correct
// answers and adaptive annotations never leave the server here.
// swagger:model QuizQuestionView
type QuizQuestionView struct {
	QuestionID uint     `json:"questionId"`
	Prompt     string   `json:"prompt"`
	Options    []string `json:"options,omitempty"`
	Points     int      `json:"points"`
}

// swagger:model QuizExerciseView
type QuizExerciseView struct {
	ExerciseID uint               `json:"exerciseId"`
	Type       string             `json:"type"`
	Title      string             `json:"title"`
	CEFRLevel  string             `json:"cefrLevel"`
	Skill      string             `json:"skill"`
	Passage    string             `json:"passage,omitempty"`
	AudioURL   string             `json:"audioUrl,omitempty"`
	Questions  []QuizQuestionView `json:"questions"`
}

// QuizSubmission is one answered question in a quiz round.
// swagger:model QuizSubmission
type QuizSubmission struct {
	QuestionID   uint   `json:"questionId" binding:"required"`
	Answer       string `json:"answer"`
	TimeSpentSec int    `json:"timeSpentSec"`
}

// QuizGrade is the per-question grading outcome returned after submit.
// swagger:model QuizGrade
type QuizGrade struct {
	QuestionID  uint     `json:"questionId"`
	Correct     bool     `json:"correct"`
	Accepted    []string `json:"accepted"`
	Explanation string   `json:"explanation,omitempty"`
}

// swagger:model QuizResultView
type QuizResultView struct {
	ResultID uint        `json:"resultId"`
	Score    int         `json:"score"`
	Total    int         `json:"total"`
	XPEarned int         `json:"xpEarned"`
	Grades   []QuizGrade `json:"grades"`
}

const xpPerCorrectAnswer = 10

// QuizService 负责练习轮次的出题与判分
type QuizService struct {
	ExerciseRepo *repository.ExerciseRepository
	ResponseRepo *repository.ResponseRepository
	QuizRepo     *repository.QuizRepository
	UserRepo     *repository.UserRepository
}

func NewQuizService(
	exerciseRepo *repository.ExerciseRepository,
	responseRepo *repository.ResponseRepository,
	quizRepo *repository.QuizRepository,
	userRepo *repository.UserRepository,
) *QuizService {
	return &QuizService{
		ExerciseRepo: exerciseRepo,
		ResponseRepo: responseRepo,
		QuizRepo:     quizRepo,
		UserRepo:     userRepo,
	}
}

// StartQuiz picks exercises for a round. When level is empty the
// user's current level is used so practice tracks placement.
func (s *QuizService) StartQuiz(userID uint, exType, level string, count int) ([]QuizExerciseView, error) {
	if count <= 0 || count > 20 {
		count = 5
	}

	if level == "" {
		if user, err := s.UserRepo.FindByID(userID); err == nil {
			level = user.CurrentLevel
		}
	}

	exs, err := s.ExerciseRepo.ListByTypeAndLevel(exType, level, count)
	if err != nil {
		return nil, err
	}

	views := make([]QuizExerciseView, 0, len(exs))
	for _, ex := range exs {
		view := QuizExerciseView{
			ExerciseID: ex.ID,
			Type:       ex.Type,
			Title:      ex.Title,
			CEFRLevel:  ex.CEFRLevel,
			Skill:      ex.Skill,
			Passage:    ex.Passage,
			AudioURL:   ex.AudioURL,
		}
		for _, q := range ex.Questions {
			view.Questions = append(view.Questions, QuizQuestionView{
				QuestionID: q.ID,
				Prompt:     q.Prompt,
				Options:    q.OptionList(),
				Points:     q.Points,
			})
		}
		views = append(views, view)
	}
	return views, nil
}

// SubmitQuiz grades a round. Matching is case-insensitive with
// surrounding whitespace ignored, and any accepted variant counts.
func (s *QuizService) SubmitQuiz(userID uint, skill string, submissions []QuizSubmission) (*QuizResultView, error) {
	if len(submissions) == 0 {
		return nil, errors.New("no answers submitted")
	}

	now := time.Now()
	var responses []model.UserResponse
	var grades []QuizGrade
	score := 0
	level := ""

	for _, sub := range submissions {
		q, err := s.ExerciseRepo.FindQuestionByID(sub.QuestionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, util.ErrExerciseNotFound
			}
			return nil, err
		}

		accepted := q.AcceptedAnswers()
		correct := assessment.AnswerMatches(accepted, sub.Answer)
		if correct {
			score++
		}

		if level == "" {
			if ex, err := s.ExerciseRepo.FindByID(q.ExerciseID); err == nil {
				level = ex.CEFRLevel
			}
		}

		responses = append(responses, model.UserResponse{
			UserID:       userID,
			ExerciseID:   q.ExerciseID,
			QuestionID:   q.ID,
			Answer:       sub.Answer,
			IsCorrect:    correct,
			TimeSpentSec: sub.TimeSpentSec,
			AnsweredAt:   now,
		})
		grades = append(grades, QuizGrade{
			QuestionID:  q.ID,
			Correct:     correct,
			Accepted:    accepted,
			Explanation: q.Explanation,
		})
	}

	if err := s.ResponseRepo.CreateBatch(responses); err != nil {
		return nil, err
	}

	result := &model.QuizResult{
		UserID:    userID,
		Skill:     skill,
		CEFRLevel: level,
		Score:     score,
		Total:     len(submissions),
		Completed: true,
	}
	completedAt := now
	result.CompletedAt = &completedAt
	if err := s.QuizRepo.Create(result); err != nil {
		return nil, err
	}

	xp := score * xpPerCorrectAnswer
	if xp > 0 {
		s.UserRepo.UpdateXP(userID, xp)
	}

	return &QuizResultView{
		ResultID: result.ID,
		Score:    score,
		Total:    len(submissions),
		XPEarned: xp,
		Grades:   grades,
	}, nil
}

func (s *QuizService) History(userID uint, limit int) ([]model.QuizResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.QuizRepo.ListByUser(userID, limit)
}
