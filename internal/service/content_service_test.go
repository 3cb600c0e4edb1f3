package service

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mcqBankExercise() BankExercise {
	return BankExercise{
		Type:      "multiple_choice",
		Title:     "Standup vocabulary",
		CEFRLevel: "B1",
		Skill:     "vocabulary",
		Questions: []BankQuestion{
			{
				Prompt:      "What do you call the short daily team meeting?",
				Options:     []string{"standup", "retrospective", "deployment"},
				Answer:      json.RawMessage(`"standup"`),
				Explanation: "A standup is the short daily sync where everyone reports progress.",
				NextLevel:   "B2",
				WrongLevel:  "A2",
			},
		},
	}
}

func TestBuildExerciseMapsFields(t *testing.T) {
	s := &ContentService{}

	ex, err := s.buildExercise(mcqBankExercise())
	require.NoError(t, err)

	assert.Equal(t, "multiple_choice", ex.Type)
	assert.Equal(t, "import", ex.Source)
	assert.True(t, ex.IsActive)
	require.Len(t, ex.Questions, 1)

	q := ex.Questions[0]
	assert.Equal(t, []string{"standup", "retrospective", "deployment"}, q.OptionList())
	assert.Equal(t, []string{"standup"}, q.AcceptedAnswers())
	assert.Equal(t, 1, q.Points)
	assert.Equal(t, "B2", q.NextLevel)
	assert.Equal(t, "A2", q.WrongLevel)
}

func TestBuildExerciseAcceptsAnswerArray(t *testing.T) {
	s := &ContentService{}
	be := mcqBankExercise()
	be.Type = "fill_blank"
	be.Questions[0].Options = nil
	be.Questions[0].Answer = json.RawMessage(`["standup", "daily standup"]`)

	ex, err := s.buildExercise(be)
	require.NoError(t, err)
	assert.Equal(t, []string{"standup", "daily standup"}, ex.Questions[0].AcceptedAnswers())
}

func TestBuildExerciseRejectsMalformedAnswer(t *testing.T) {
	s := &ContentService{}
	be := mcqBankExercise()
	be.Questions[0].Answer = json.RawMessage(`{"value": "standup"}`)

	_, err := s.buildExercise(be)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "string or string array")
}

func TestBuildExerciseRejectsMissingType(t *testing.T) {
	s := &ContentService{}
	be := mcqBankExercise()
	be.Type = ""

	_, err := s.buildExercise(be)
	require.Error(t, err)
}

func TestValidateExercisePassesCleanContent(t *testing.T) {
	s := &ContentService{}

	result := s.ValidateExercise(mcqBankExercise())
	assert.True(t, result.Valid, result.Reason)
}

func TestValidateExerciseFlagsPlaceholderOption(t *testing.T) {
	s := &ContentService{}
	be := mcqBankExercise()
	be.Questions[0].Options = []string{"standup", "Other 1", "Other 2"}

	result := s.ValidateExercise(be)
	assert.False(t, result.Valid)
}

func TestValidateExerciseFlagsAnswerOutsideOptions(t *testing.T) {
	s := &ContentService{}
	be := mcqBankExercise()
	be.Questions[0].Answer = json.RawMessage(`"retro"`)

	result := s.ValidateExercise(be)
	assert.False(t, result.Valid)
}

func TestReadBankSourceMissingFile(t *testing.T) {
	s := &ContentService{}

	_, err := s.readBankSource("/nonexistent/bank.json")
	require.Error(t, err)
}
