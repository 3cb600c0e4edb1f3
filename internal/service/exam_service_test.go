package service

import (
	"devlingo_backend/internal/assessment"
	"devlingo_backend/internal/model"
	"devlingo_backend/internal/util"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestPlanForKnownExamTypes(t *testing.T) {
	toeic, err := planFor(model.ExamTypeTOEIC)
	require.NoError(t, err)
	assert.Equal(t, []string{assessment.SectionGrammar, assessment.SectionListening}, toeic.Sections)
	assert.Equal(t, assessment.LevelB1, toeic.SeedLevel)

	toefl, err := planFor(model.ExamTypeTOEFL)
	require.NoError(t, err)
	assert.Contains(t, toefl.Sections, assessment.SectionReading)

	efset, err := planFor(model.ExamTypeEFSET)
	require.NoError(t, err)
	assert.Equal(t, assessment.LevelA2, efset.SeedLevel)
}

func TestPlanForUnknownExamType(t *testing.T) {
	_, err := planFor("ielts")
	assert.ErrorIs(t, err, util.ErrUnknownExamType)
}

func TestDecodeSectionScoresEmpty(t *testing.T) {
	scores, err := decodeSectionScores(nil)
	require.NoError(t, err)
	assert.Empty(t, scores)
}

func TestDecodeSectionScoresRoundTrip(t *testing.T) {
	orig := map[string]assessment.SectionScore{
		assessment.SectionGrammar:   {Score: 27, Max: 36},
		assessment.SectionListening: {Score: 30, Max: 36},
	}
	raw, err := json.Marshal(orig)
	require.NoError(t, err)

	scores, err := decodeSectionScores(raw)
	require.NoError(t, err)
	assert.Equal(t, orig, scores)

	breakdown := assessment.NewScoreBreakdown(scores)
	assert.InDelta(t, 79.17, breakdown.Percentage(), 0.01)
}

// In-memory stores backing the exam flow tests.

type fakeAttemptStore struct {
	attempts map[string]*model.ExamAttempt
}

func newFakeAttemptStore() *fakeAttemptStore {
	return &fakeAttemptStore{attempts: map[string]*model.ExamAttempt{}}
}

func (f *fakeAttemptStore) CreateAttempt(a *model.ExamAttempt) error {
	if a.ID == "" {
		a.ID = model.GenerateUUID()
	}
	f.attempts[a.ID] = a
	return nil
}

func (f *fakeAttemptStore) FindAttemptByID(id string) (*model.ExamAttempt, error) {
	a, ok := f.attempts[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return a, nil
}

func (f *fakeAttemptStore) UpdateAttempt(a *model.ExamAttempt) error {
	f.attempts[a.ID] = a
	return nil
}

func (f *fakeAttemptStore) ListByUser(userID uint, limit int) ([]model.ExamAttempt, error) {
	var out []model.ExamAttempt
	for _, a := range f.attempts {
		if a.UserID == userID {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (f *fakeAttemptStore) FindInProgress(userID uint, examType string) (*model.ExamAttempt, error) {
	for _, a := range f.attempts {
		if a.UserID == userID && a.ExamType == examType && a.Status == model.AttemptInProgress {
			return a, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

type fakeExerciseStore struct {
	exercises map[uint]*model.Exercise
	questions []model.ExerciseQuestion
}

func newFakeExerciseStore() *fakeExerciseStore {
	return &fakeExerciseStore{exercises: map[uint]*model.Exercise{}}
}

func (f *fakeExerciseStore) addExercise(id uint, skill, level string, qs ...model.ExerciseQuestion) {
	ex := model.Exercise{
		Type:      model.TypeMultipleChoice,
		CEFRLevel: level,
		Skill:     skill,
		IsActive:  true,
	}
	ex.ID = id
	f.exercises[id] = &ex
	for i := range qs {
		qs[i].ExerciseID = id
		f.questions = append(f.questions, qs[i])
	}
}

func (f *fakeExerciseStore) QuestionsByLevel(skill, level string) ([]model.ExerciseQuestion, error) {
	var pool []model.ExerciseQuestion
	for _, q := range f.questions {
		ex := f.exercises[q.ExerciseID]
		if ex != nil && ex.Skill == skill && ex.CEFRLevel == level && ex.IsActive {
			pool = append(pool, q)
		}
	}
	return pool, nil
}

func (f *fakeExerciseStore) FindQuestionByID(id uint) (*model.ExerciseQuestion, error) {
	for i := range f.questions {
		if f.questions[i].ID == id {
			return &f.questions[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeExerciseStore) FindByID(id uint) (*model.Exercise, error) {
	ex, ok := f.exercises[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return ex, nil
}

type fakeResponseStore struct {
	responses []model.UserResponse
}

func (f *fakeResponseStore) Create(resp *model.UserResponse) error {
	f.responses = append(f.responses, *resp)
	return nil
}

func (f *fakeResponseStore) ListByAttempt(attemptID string) ([]model.UserResponse, error) {
	var out []model.UserResponse
	for _, r := range f.responses {
		if r.AttemptID == attemptID {
			out = append(out, r)
		}
	}
	return out, nil
}

type fakeProfileStore struct {
	levels map[uint]string
}

func (f *fakeProfileStore) UpdateCurrentLevel(userID uint, level string) error {
	f.levels[userID] = level
	return nil
}

type examFixture struct {
	svc       *ExamService
	attempts  *fakeAttemptStore
	exercises *fakeExerciseStore
	responses *fakeResponseStore
	profiles  *fakeProfileStore
}

func newExamFixture() *examFixture {
	f := &examFixture{
		attempts:  newFakeAttemptStore(),
		exercises: newFakeExerciseStore(),
		responses: &fakeResponseStore{},
		profiles:  &fakeProfileStore{levels: map[uint]string{}},
	}
	f.svc = NewExamService(f.attempts, f.exercises, f.responses, f.profiles)
	return f
}

func (f *examFixture) openAttempt(examType, section, level string) *model.ExamAttempt {
	a := &model.ExamAttempt{
		UserID:         7,
		ExamType:       examType,
		Status:         model.AttemptInProgress,
		CurrentSection: section,
		CurrentLevel:   level,
		SectionScores:  json.RawMessage(`{}`),
		StartedAt:      time.Now(),
	}
	a.ID = model.GenerateUUID()
	f.attempts.attempts[a.ID] = a
	return a
}

func mcq(id uint, answer, next, wrong string) model.ExerciseQuestion {
	q := model.ExerciseQuestion{
		Prompt:        "Pick the word that completes the sentence.",
		Options:       `["alpha","beta"]`,
		CorrectAnswer: `"` + answer + `"`,
		Points:        1,
		NextLevel:     next,
		WrongLevel:    wrong,
	}
	q.ID = id
	return q
}

func TestSelectQuestionSkipsAnswered(t *testing.T) {
	pool := []model.ExerciseQuestion{mcq(1, "alpha", "", ""), mcq(2, "alpha", "", "")}

	q := selectQuestion(pool, map[uint]bool{1: true})
	require.NotNil(t, q)
	assert.Equal(t, uint(2), q.ID)

	assert.Nil(t, selectQuestion(pool, map[uint]bool{1: true, 2: true}))
	assert.Nil(t, selectQuestion(nil, nil))
}

func TestSubmitAnswerGradesSectionQuestion(t *testing.T) {
	f := newExamFixture()
	f.exercises.addExercise(1, assessment.SectionGrammar, "B1", mcq(10, "alpha", "B2", "A2"))
	f.exercises.addExercise(2, assessment.SectionGrammar, "B2", mcq(20, "alpha", "C1", "B1"))
	a := f.openAttempt(model.ExamTypeTOEIC, assessment.SectionGrammar, "B1")

	outcome, err := f.svc.SubmitAnswer(7, a.ID, 10, " Alpha ", 5)
	require.NoError(t, err)

	assert.True(t, outcome.Correct)
	assert.Equal(t, "B2", outcome.CurrentLevel)
	assert.False(t, outcome.SectionDone)
	assert.False(t, outcome.ExamDone)

	require.Len(t, f.responses.responses, 1)
	assert.True(t, f.responses.responses[0].IsCorrect)
	assert.Equal(t, a.ID, f.responses.responses[0].AttemptID)

	scores, err := decodeSectionScores(a.SectionScores)
	require.NoError(t, err)
	assert.Equal(t, assessment.SectionScore{Score: 1, Max: 1}, scores[assessment.SectionGrammar])
}

func TestSubmitAnswerRejectsQuestionOutsideSection(t *testing.T) {
	f := newExamFixture()
	f.exercises.addExercise(1, assessment.SectionGrammar, "B1", mcq(10, "alpha", "B2", "A2"))
	f.exercises.addExercise(2, assessment.SectionReading, "B1", mcq(20, "alpha", "B2", "A2"))
	a := f.openAttempt(model.ExamTypeTOEIC, assessment.SectionGrammar, "B1")

	// Question 20 is gradeable in a reading quiz; replaying it here must
	// not credit points to the grammar section.
	_, err := f.svc.SubmitAnswer(7, a.ID, 20, "alpha", 5)
	assert.ErrorIs(t, err, util.ErrQuestionNotInSection)

	assert.Empty(t, f.responses.responses)
	assert.Equal(t, "B1", a.CurrentLevel)
	scores, decErr := decodeSectionScores(a.SectionScores)
	require.NoError(t, decErr)
	assert.Empty(t, scores)
}

func TestNextQuestionClosesSectionOnEmptyPool(t *testing.T) {
	f := newExamFixture()
	// no grammar questions at all; the listening section has one
	f.exercises.addExercise(3, assessment.SectionListening, "B1", mcq(30, "alpha", "B2", "A2"))
	a := f.openAttempt(model.ExamTypeTOEIC, assessment.SectionGrammar, "B1")

	view, err := f.svc.NextQuestion(7, a.ID)
	require.NoError(t, err)

	assert.False(t, view.ExamDone)
	assert.Equal(t, assessment.SectionListening, view.Section)
	assert.Equal(t, uint(30), view.QuestionID)
	assert.Equal(t, assessment.SectionListening, a.CurrentSection)
	assert.Equal(t, "B1", a.CurrentLevel)
}

func TestNextQuestionFinalizesWhenLastSectionExhausted(t *testing.T) {
	f := newExamFixture()
	a := f.openAttempt(model.ExamTypeTOEIC, assessment.SectionListening, "B2")
	scores := map[string]assessment.SectionScore{
		assessment.SectionGrammar:   {Score: 18, Max: 20},
		assessment.SectionListening: {Score: 16, Max: 20},
	}
	raw, err := json.Marshal(scores)
	require.NoError(t, err)
	a.SectionScores = raw

	view, err := f.svc.NextQuestion(7, a.ID)
	require.NoError(t, err)

	assert.True(t, view.ExamDone)
	assert.Equal(t, model.AttemptCompleted, a.Status)
	assert.Equal(t, 34.0, a.TotalScore)
	assert.Equal(t, 40.0, a.TotalMax)
	// 85% with grammar 90% and listening 80% meets the combined rule
	assert.Equal(t, "C1", a.AwardedLevel)
	assert.Equal(t, "C1", f.profiles.levels[7])
}
