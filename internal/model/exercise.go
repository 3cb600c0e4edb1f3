package model

import (
	"encoding/json"

	"devlingo_backend/internal/assessment"
)

// Exercise types as stored in the bank. The first four mirror the
// validator's content types; speaking prompts carry no questions and
// bypass the validator.
const (
	TypeMultipleChoice = "multiple_choice"
	TypeFillBlank      = "fill_blank"
	TypeListening      = "listening"
	TypeReading        = "reading"
	TypeSpeakingPrompt = "speaking_prompt"
)

// Exercise is one learning exercise from the bank. Records are created
// by the offline generation pipeline or bulk-imported from static JSON,
// gated by the content validator at import time, and never mutated by
// quiz attempts.
// swagger:model Exercise
type Exercise struct {
	BaseModel
	Type        string `gorm:"size:50;not null;index" json:"type"` // multiple_choice, fill_blank, listening, reading
	Title       string `gorm:"size:255" json:"title"`
	CEFRLevel   string `gorm:"size:4;index" json:"cefrLevel"`
	Skill       string `gorm:"size:50;index" json:"skill"` // grammar, vocabulary, listening, reading
	Passage     string `gorm:"type:text" json:"passage,omitempty"`  // reading comprehension text
	AudioURL    string `gorm:"size:255" json:"audioUrl,omitempty"`  // listening comprehension audio
	GrammarTags string `gorm:"size:255" json:"grammarTags,omitempty"`
	VocabTags   string `gorm:"size:255" json:"vocabTags,omitempty"`
	Source      string `gorm:"size:50;default:'import'" json:"source"` // import, generated
	IsActive    bool   `gorm:"default:true" json:"isActive"`

	Questions []ExerciseQuestion `gorm:"foreignKey:ExerciseID" json:"questions,omitempty"`
}

func (Exercise) TableName() string {
	return "exercises"
}

// ExerciseQuestion is one question inside an exercise. Options and
// CorrectAnswer are stored as JSON strings; CorrectAnswer is either a
// plain string or an array of acceptable strings. NextLevel/WrongLevel
// are the authored adaptive annotations consumed by the exam flow.
// swagger:model ExerciseQuestion
type ExerciseQuestion struct {
	BaseModel
	ExerciseID    uint   `gorm:"index;type:bigint unsigned" json:"exerciseId"`
	Prompt        string `gorm:"type:text;not null" json:"prompt"`
	Options       string `gorm:"type:json" json:"options,omitempty"`
	CorrectAnswer string `gorm:"type:json" json:"correctAnswer"`
	Explanation   string `gorm:"type:text" json:"explanation,omitempty"`
	Points        int    `gorm:"default:1" json:"points"`
	Order         int    `gorm:"default:0" json:"order"`
	NextLevel     string `gorm:"size:4" json:"nextLevel,omitempty"`
	WrongLevel    string `gorm:"size:4" json:"wrongLevel,omitempty"`
}

func (ExerciseQuestion) TableName() string {
	return "exercise_questions"
}

// OptionList decodes the stored options JSON. Malformed JSON yields nil.
func (q *ExerciseQuestion) OptionList() []string {
	if q.Options == "" {
		return nil
	}
	var opts []string
	if err := json.Unmarshal([]byte(q.Options), &opts); err != nil {
		return nil
	}
	return opts
}

// AcceptedAnswers decodes the stored answer JSON, accepting both the
// plain-string and string-array forms.
func (q *ExerciseQuestion) AcceptedAnswers() []string {
	return DecodeAnswerJSON(q.CorrectAnswer)
}

// Transition exposes the adaptive annotations as assessment data.
func (q *ExerciseQuestion) Transition() assessment.Transition {
	return assessment.Transition{
		Next:  assessment.ParseLevel(q.NextLevel),
		Wrong: assessment.ParseLevel(q.WrongLevel),
	}
}

// Content converts the persisted exercise into the validator's view.
func (e *Exercise) Content() assessment.ExerciseContent {
	content := assessment.ExerciseContent{Type: e.Type}
	for _, q := range e.Questions {
		content.Questions = append(content.Questions, assessment.QuestionContent{
			Prompt:      q.Prompt,
			Options:     q.OptionList(),
			Answer:      q.AcceptedAnswers(),
			Explanation: q.Explanation,
		})
	}
	return content
}

// DecodeAnswerJSON parses a correct-answer JSON value that may be a
// string or an array of acceptable strings. Anything else yields nil.
func DecodeAnswerJSON(raw string) []string {
	if raw == "" {
		return nil
	}
	var single string
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		return []string{single}
	}
	var many []string
	if err := json.Unmarshal([]byte(raw), &many); err == nil {
		return many
	}
	return nil
}
