package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func cleanQuestion() QuestionContent {
	return QuestionContent{
		Prompt:      "Which HTTP status code indicates a resource was not found?",
		Options:     []string{"200", "301", "404", "500"},
		Answer:      []string{"404"},
		Explanation: "404 Not Found means the server cannot locate the requested resource.",
	}
}

func TestValidateAcceptsCleanExercise(t *testing.T) {
	ex := ExerciseContent{
		Type:      TypeMultipleChoice,
		Questions: []QuestionContent{cleanQuestion()},
	}

	res := Validate(ex)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Reason)
}

func TestValidateRejectsZeroQuestions(t *testing.T) {
	res := Validate(ExerciseContent{Type: TypeReading})
	assert.False(t, res.Valid)
	assert.Equal(t, "exercise has no questions", res.Reason)
}

func TestValidateRejectsPlaceholderOptions(t *testing.T) {
	placeholders := []string{
		"Other 1",
		"other 3",
		"Alternative answer 2",
		"Incorrect statement 4",
		"Primary use of goroutines",
		"Correct statement about channels",
		"Explanation about interfaces",
	}

	for _, opt := range placeholders {
		t.Run(opt, func(t *testing.T) {
			q := cleanQuestion()
			q.Options = append(q.Options, opt)
			res := Validate(ExerciseContent{Type: TypeMultipleChoice, Questions: []QuestionContent{q}})
			assert.False(t, res.Valid, "option %q should be rejected", opt)
		})
	}
}

func TestValidateAllowsOrdinaryOptionsContainingKeywords(t *testing.T) {
	// "other" as a real word mid-option must not trip the "other N" rule.
	q := cleanQuestion()
	q.Options = []string{"the other branch", "404", "301", "500"}
	q.Answer = []string{"404"}

	res := Validate(ExerciseContent{Type: TypeMultipleChoice, Questions: []QuestionContent{q}})
	assert.True(t, res.Valid, "got reason: %s", res.Reason)
}

func TestValidateRejectsPlaceholderAnswer(t *testing.T) {
	q := cleanQuestion()
	q.Options = append(q.Options, "Primary use of Docker containers")
	q.Answer = []string{"Primary use of Docker containers"}

	res := Validate(ExerciseContent{Type: TypeMultipleChoice, Questions: []QuestionContent{q}})
	assert.False(t, res.Valid)
}

func TestValidateRejectsPlaceholderExplanation(t *testing.T) {
	tests := []string{
		"Explanation about the correct answer",
		"This is correct because it is the right option",
	}

	for _, expl := range tests {
		q := cleanQuestion()
		q.Explanation = expl
		res := Validate(ExerciseContent{Type: TypeFillBlank, Questions: []QuestionContent{q}})
		assert.False(t, res.Valid, "explanation %q should be rejected", expl)
	}
}

func TestValidateRejectsShortPrompt(t *testing.T) {
	q := cleanQuestion()
	q.Prompt = "  Go?    "

	res := Validate(ExerciseContent{Type: TypeFillBlank, Questions: []QuestionContent{q}})
	assert.False(t, res.Valid)
	assert.Equal(t, "question prompt is empty or too short", res.Reason)
}

func TestValidateRejectsAnswerOutsideOptions(t *testing.T) {
	q := cleanQuestion()
	q.Answer = []string{"403"}

	res := Validate(ExerciseContent{Type: TypeMultipleChoice, Questions: []QuestionContent{q}})
	assert.False(t, res.Valid)
	assert.Equal(t, "correct answer is not among the options", res.Reason)
}

func TestValidateRejectsMultipleChoiceWithoutOptions(t *testing.T) {
	q := cleanQuestion()
	q.Options = nil

	res := Validate(ExerciseContent{Type: TypeMultipleChoice, Questions: []QuestionContent{q}})
	assert.False(t, res.Valid)
	assert.Equal(t, "multiple-choice question has no options", res.Reason)
}

func TestValidateAnswerMembershipIsCaseInsensitive(t *testing.T) {
	q := cleanQuestion()
	q.Options = []string{"Goroutine scheduling", "Garbage collection", "Channel buffering", "Stack growth"}
	q.Answer = []string{"garbage collection"}

	res := Validate(ExerciseContent{Type: TypeMultipleChoice, Questions: []QuestionContent{q}})
	assert.True(t, res.Valid, "got reason: %s", res.Reason)
}

func TestValidateFillBlankNeedsNoOptions(t *testing.T) {
	q := QuestionContent{
		Prompt: "The ___ keyword starts a new goroutine in Go.",
		Answer: []string{"go"},
	}

	res := Validate(ExerciseContent{Type: TypeFillBlank, Questions: []QuestionContent{q}})
	assert.True(t, res.Valid, "got reason: %s", res.Reason)
}

func TestValidateOneBadQuestionRejectsWholeExercise(t *testing.T) {
	bad := cleanQuestion()
	bad.Options = append(bad.Options, "Other 1")

	ex := ExerciseContent{
		Type:      TypeMultipleChoice,
		Questions: []QuestionContent{cleanQuestion(), bad},
	}
	assert.False(t, Validate(ex).Valid)
}
