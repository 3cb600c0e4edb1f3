package service

import (
	"devlingo_backend/internal/assessment"
	"devlingo_backend/internal/model"
	"devlingo_backend/internal/util"
	"devlingo_backend/pkg/logger"
	"encoding/json"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// examPlan describes one simulated test: section order and the
// threshold table that converts the final breakdown into a CEFR level.
type examPlan struct {
	Sections   []string
	SeedLevel  assessment.Level
	Table      assessment.ThresholdTable
	PerSection int // question cap per section
}

func planFor(examType string) (examPlan, error) {
	switch examType {
	case model.ExamTypeTOEIC:
		return examPlan{
			Sections:   []string{assessment.SectionGrammar, assessment.SectionListening},
			SeedLevel:  assessment.LevelB1,
			Table:      assessment.TOEICTable(),
			PerSection: 20,
		}, nil
	case model.ExamTypeTOEFL:
		return examPlan{
			Sections:   []string{assessment.SectionReading, assessment.SectionListening, assessment.SectionGrammar},
			SeedLevel:  assessment.LevelB1,
			Table:      assessment.TOEFLTable(),
			PerSection: 15,
		}, nil
	case model.ExamTypeEFSET:
		return examPlan{
			Sections:   []string{assessment.SectionReading, assessment.SectionListening},
			SeedLevel:  assessment.LevelA2,
			Table:      assessment.EFSETTable(),
			PerSection: 15,
		}, nil
	default:
		return examPlan{}, util.ErrUnknownExamType
	}
}

// ExamQuestionView is the next adaptive question handed to the client.
// swagger:model ExamQuestionView
type ExamQuestionView struct {
	QuestionID  uint     `json:"questionId"`
	Section     string   `json:"section"`
	Level       string   `json:"level"`
	Prompt      string   `json:"prompt"`
	Options     []string `json:"options,omitempty"`
	Passage     string   `json:"passage,omitempty"`
	AudioURL    string   `json:"audioUrl,omitempty"`
	SectionDone bool     `json:"sectionDone"`
	ExamDone    bool     `json:"examDone"`
}

// ExamAnswerOutcome reports grading plus the flow position after one
// submitted answer.
// swagger:model ExamAnswerOutcome
type ExamAnswerOutcome struct {
	Correct      bool   `json:"correct"`
	CurrentLevel string `json:"currentLevel"`
	Section      string `json:"section"`
	SectionDone  bool   `json:"sectionDone"`
	ExamDone     bool   `json:"examDone"`
	AwardedLevel string `json:"awardedLevel,omitempty"`
}

// ExamResultView is the completed attempt summary.
// swagger:model ExamResultView
type ExamResultView struct {
	AttemptID    string                             `json:"attemptId"`
	ExamType     string                             `json:"examType"`
	Sections     map[string]assessment.SectionScore `json:"sections"`
	TotalScore   float64                            `json:"totalScore"`
	TotalMax     float64                            `json:"totalMax"`
	Percentage   float64                            `json:"percentage"`
	AwardedLevel string                             `json:"awardedLevel"`
}

// Narrow views of the repositories the exam flow touches, so the flow
// can be exercised against in-memory stores.
type examAttemptStore interface {
	CreateAttempt(a *model.ExamAttempt) error
	FindAttemptByID(id string) (*model.ExamAttempt, error)
	UpdateAttempt(a *model.ExamAttempt) error
	ListByUser(userID uint, limit int) ([]model.ExamAttempt, error)
	FindInProgress(userID uint, examType string) (*model.ExamAttempt, error)
}

type examQuestionSource interface {
	QuestionsByLevel(skill, level string) ([]model.ExerciseQuestion, error)
	FindQuestionByID(id uint) (*model.ExerciseQuestion, error)
	FindByID(id uint) (*model.Exercise, error)
}

type examResponseStore interface {
	Create(resp *model.UserResponse) error
	ListByAttempt(attemptID string) ([]model.UserResponse, error)
}

type examProfileStore interface {
	UpdateCurrentLevel(userID uint, level string) error
}

// ExamService drives the standardized-test simulations: section by
// section, one adaptive question at a time, CEFR level awarded at the
// end from the per-test threshold table.
type ExamService struct {
	ExamRepo     examAttemptStore
	ExerciseRepo examQuestionSource
	ResponseRepo examResponseStore
	UserRepo     examProfileStore
}

func NewExamService(
	examRepo examAttemptStore,
	exerciseRepo examQuestionSource,
	responseRepo examResponseStore,
	userRepo examProfileStore,
) *ExamService {
	return &ExamService{
		ExamRepo:     examRepo,
		ExerciseRepo: exerciseRepo,
		ResponseRepo: responseRepo,
		UserRepo:     userRepo,
	}
}

// StartExam opens a new attempt, or resumes the in-progress one for
// the same exam type instead of stacking attempts.
func (s *ExamService) StartExam(userID uint, examType string) (*model.ExamAttempt, error) {
	plan, err := planFor(examType)
	if err != nil {
		return nil, err
	}

	if existing, err := s.ExamRepo.FindInProgress(userID, examType); err == nil {
		return existing, nil
	}

	scores := map[string]assessment.SectionScore{}
	raw, _ := json.Marshal(scores)

	attempt := &model.ExamAttempt{
		UserID:         userID,
		ExamType:       examType,
		Status:         model.AttemptInProgress,
		CurrentSection: plan.Sections[0],
		CurrentLevel:   string(plan.SeedLevel),
		SectionScores:  raw,
		StartedAt:      time.Now(),
	}
	if err := s.ExamRepo.CreateAttempt(attempt); err != nil {
		return nil, err
	}
	return attempt, nil
}

// NextQuestion picks the next unanswered question at the attempt's
// current adaptive level. An exhausted pool is not an error: it closes
// the section (and, after the last section, the exam).
func (s *ExamService) NextQuestion(userID uint, attemptID string) (*ExamQuestionView, error) {
	attempt, plan, err := s.loadOpenAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}

	answered, err := s.answeredQuestionIDs(attemptID)
	if err != nil {
		return nil, err
	}

	q, ex := s.pickQuestion(attempt, answered)
	if q == nil || s.sectionQuota(answered, attempt.CurrentSection, plan) {
		done, err := s.advanceSection(attempt, plan)
		if err != nil {
			return nil, err
		}
		if done {
			return &ExamQuestionView{ExamDone: true}, nil
		}
		// retry once in the new section
		q, ex = s.pickQuestion(attempt, answered)
		if q == nil {
			// next section empty too; let the client call again,
			// each call advances one section
			return &ExamQuestionView{Section: attempt.CurrentSection, SectionDone: true}, nil
		}
	}

	view := &ExamQuestionView{
		QuestionID: q.ID,
		Section:    attempt.CurrentSection,
		Level:      attempt.CurrentLevel,
		Prompt:     q.Prompt,
		Options:    q.OptionList(),
	}
	if ex != nil {
		view.Passage = ex.Passage
		view.AudioURL = ex.AudioURL
	}
	return view, nil
}

// SubmitAnswer grades one answer, applies the question's adaptive
// annotation to the level pointer and accumulates the section score.
func (s *ExamService) SubmitAnswer(userID uint, attemptID string, questionID uint, answer string, timeSpentSec int) (*ExamAnswerOutcome, error) {
	attempt, plan, err := s.loadOpenAttempt(userID, attemptID)
	if err != nil {
		return nil, err
	}

	q, err := s.ExerciseRepo.FindQuestionByID(questionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}

	// Only questions from the attempt's current section may be
	// submitted; anything else would credit points learned elsewhere
	// (e.g. a graded quiz) to the exam.
	parent, err := s.ExerciseRepo.FindByID(q.ExerciseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrExerciseNotFound
		}
		return nil, err
	}
	if parent.Skill != attempt.CurrentSection {
		return nil, util.ErrQuestionNotInSection
	}

	tracker := assessment.NewAdaptiveTracker(assessment.ParseLevel(attempt.CurrentLevel))
	newLevel, correct := tracker.Submit(q.AcceptedAnswers(), answer, q.Transition())
	attempt.CurrentLevel = string(newLevel)

	scores, err := decodeSectionScores(attempt.SectionScores)
	if err != nil {
		return nil, err
	}
	sec := scores[attempt.CurrentSection]
	sec.Max += float64(q.Points)
	if correct {
		sec.Score += float64(q.Points)
	}
	scores[attempt.CurrentSection] = sec
	attempt.SectionScores, _ = json.Marshal(scores)

	resp := &model.UserResponse{
		UserID:       userID,
		ExerciseID:   q.ExerciseID,
		QuestionID:   q.ID,
		AttemptID:    attempt.ID,
		Answer:       answer,
		IsCorrect:    correct,
		TimeSpentSec: timeSpentSec,
		AnsweredAt:   time.Now(),
	}
	if err := s.ResponseRepo.Create(resp); err != nil {
		return nil, err
	}

	outcome := &ExamAnswerOutcome{
		Correct:      correct,
		CurrentLevel: attempt.CurrentLevel,
		Section:      attempt.CurrentSection,
	}

	answered, err := s.answeredQuestionIDs(attemptID)
	if err != nil {
		return nil, err
	}
	nextQ, _ := s.pickQuestion(attempt, answered)
	if nextQ == nil || s.sectionQuota(answered, attempt.CurrentSection, plan) {
		done, err := s.advanceSection(attempt, plan)
		if err != nil {
			return nil, err
		}
		outcome.SectionDone = true
		if done {
			outcome.ExamDone = true
			outcome.AwardedLevel = attempt.AwardedLevel
			return outcome, nil
		}
	}

	if err := s.ExamRepo.UpdateAttempt(attempt); err != nil {
		return nil, err
	}
	return outcome, nil
}

// Result returns the summary of a completed attempt.
func (s *ExamService) Result(userID uint, attemptID string) (*ExamResultView, error) {
	attempt, err := s.ExamRepo.FindAttemptByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrAttemptNotFound
		}
		return nil, err
	}
	if attempt.UserID != userID {
		return nil, util.ErrPermissionDenied
	}

	scores, err := decodeSectionScores(attempt.SectionScores)
	if err != nil {
		return nil, err
	}
	breakdown := assessment.NewScoreBreakdown(scores)

	return &ExamResultView{
		AttemptID:    attempt.ID,
		ExamType:     attempt.ExamType,
		Sections:     scores,
		TotalScore:   breakdown.Total,
		TotalMax:     breakdown.TotalMax,
		Percentage:   breakdown.Percentage(),
		AwardedLevel: attempt.AwardedLevel,
	}, nil
}

func (s *ExamService) History(userID uint, limit int) ([]model.ExamAttempt, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.ExamRepo.ListByUser(userID, limit)
}

// Abandon marks an in-progress attempt completed without awarding a
// level.
func (s *ExamService) Abandon(userID uint, attemptID string) error {
	attempt, _, err := s.loadOpenAttempt(userID, attemptID)
	if err != nil {
		return err
	}
	now := time.Now()
	attempt.Status = model.AttemptCompleted
	attempt.CompletedAt = &now
	return s.ExamRepo.UpdateAttempt(attempt)
}

func (s *ExamService) loadOpenAttempt(userID uint, attemptID string) (*model.ExamAttempt, examPlan, error) {
	attempt, err := s.ExamRepo.FindAttemptByID(attemptID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, examPlan{}, util.ErrAttemptNotFound
		}
		return nil, examPlan{}, err
	}
	if attempt.UserID != userID {
		return nil, examPlan{}, util.ErrPermissionDenied
	}
	if attempt.Status != model.AttemptInProgress {
		return nil, examPlan{}, util.ErrAttemptCompleted
	}
	plan, err := planFor(attempt.ExamType)
	if err != nil {
		return nil, examPlan{}, err
	}
	return attempt, plan, nil
}

func (s *ExamService) answeredQuestionIDs(attemptID string) (map[uint]bool, error) {
	responses, err := s.ResponseRepo.ListByAttempt(attemptID)
	if err != nil {
		return nil, err
	}
	answered := make(map[uint]bool, len(responses))
	for _, r := range responses {
		answered[r.QuestionID] = true
	}
	return answered, nil
}

// selectQuestion returns the first question of the pool not yet
// answered. Nil means the pool is exhausted.
func selectQuestion(pool []model.ExerciseQuestion, answered map[uint]bool) *model.ExerciseQuestion {
	for i := range pool {
		if !answered[pool[i].ID] {
			return &pool[i]
		}
	}
	return nil
}

// pickQuestion returns the first unanswered question of the current
// section at the current adaptive level, with its parent exercise for
// passage/audio context. Nil means the pool at this level is exhausted.
func (s *ExamService) pickQuestion(attempt *model.ExamAttempt, answered map[uint]bool) (*model.ExerciseQuestion, *model.Exercise) {
	pool, err := s.ExerciseRepo.QuestionsByLevel(attempt.CurrentSection, attempt.CurrentLevel)
	if err != nil {
		return nil, nil
	}
	q := selectQuestion(pool, answered)
	if q == nil {
		return nil, nil
	}
	ex, err := s.ExerciseRepo.FindByID(q.ExerciseID)
	if err != nil {
		return q, nil
	}
	return q, ex
}

// sectionQuota reports whether the current section already got its
// question budget.
func (s *ExamService) sectionQuota(answered map[uint]bool, section string, plan examPlan) bool {
	if plan.PerSection <= 0 {
		return false
	}
	count := 0
	for id := range answered {
		q, err := s.ExerciseRepo.FindQuestionByID(id)
		if err != nil {
			continue
		}
		ex, err := s.ExerciseRepo.FindByID(q.ExerciseID)
		if err != nil {
			continue
		}
		if ex.Skill == section {
			count++
		}
	}
	return count >= plan.PerSection
}

// advanceSection moves to the next section, re-seeding the adaptive
// pointer. On the last section it finalizes the attempt: the threshold
// table awards the level and the user's profile level is updated.
func (s *ExamService) advanceSection(attempt *model.ExamAttempt, plan examPlan) (done bool, err error) {
	idx := -1
	for i, sec := range plan.Sections {
		if sec == attempt.CurrentSection {
			idx = i
			break
		}
	}

	if idx >= 0 && idx < len(plan.Sections)-1 {
		attempt.CurrentSection = plan.Sections[idx+1]
		attempt.CurrentLevel = string(plan.SeedLevel)
		return false, s.ExamRepo.UpdateAttempt(attempt)
	}

	// last section: finalize
	scores, err := decodeSectionScores(attempt.SectionScores)
	if err != nil {
		return false, err
	}
	breakdown := assessment.NewScoreBreakdown(scores)
	awarded := assessment.Estimate(breakdown, plan.Table)

	now := time.Now()
	attempt.Status = model.AttemptCompleted
	attempt.CompletedAt = &now
	attempt.TotalScore = breakdown.Total
	attempt.TotalMax = breakdown.TotalMax
	attempt.AwardedLevel = string(awarded)
	if err := s.ExamRepo.UpdateAttempt(attempt); err != nil {
		return false, err
	}

	if err := s.UserRepo.UpdateCurrentLevel(attempt.UserID, string(awarded)); err != nil {
		logger.Log.Warn("Failed to update user level after exam",
			zap.Uint("userId", attempt.UserID), zap.Error(err))
	}
	return true, nil
}

func decodeSectionScores(raw json.RawMessage) (map[string]assessment.SectionScore, error) {
	scores := map[string]assessment.SectionScore{}
	if len(raw) == 0 {
		return scores, nil
	}
	if err := json.Unmarshal(raw, &scores); err != nil {
		return nil, err
	}
	return scores, nil
}
