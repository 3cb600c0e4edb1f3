package assessment

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ExerciseContent is the validator's view of one exercise: a type tag
// and its questions. Persistence concerns live in internal/model; the
// validator only inspects content quality.
type ExerciseContent struct {
	Type      string
	Questions []QuestionContent
}

type QuestionContent struct {
	Prompt      string
	Options     []string
	Answer      []string // accepted answer values; one entry for plain answers
	Explanation string
}

const (
	TypeMultipleChoice = "multiple_choice"
	TypeFillBlank      = "fill_blank"
	TypeListening      = "listening"
	TypeReading        = "reading"
)

// ValidationResult carries the verdict and, when invalid, the first
// matched rule's reason.
type ValidationResult struct {
	Valid  bool
	Reason string
}

const minPromptLength = 10

// Generated exercise content occasionally retains unfilled template
// placeholders. These rules are a data-quality gate, evaluated in
// sequence; first match rejects the record.
type placeholderRule struct {
	pattern *regexp.Regexp
	reason  string
}

var optionRules = []placeholderRule{
	{regexp.MustCompile(`(?i)^primary use of\b`), "option is a 'primary use of' placeholder"},
	{regexp.MustCompile(`(?i)^alternative answer \d+$`), "option is an 'alternative answer N' placeholder"},
	{regexp.MustCompile(`(?i)^incorrect statement \d+$`), "option is an 'incorrect statement N' placeholder"},
	{regexp.MustCompile(`(?i)^correct statement about\b`), "option is a 'correct statement about' placeholder"},
	{regexp.MustCompile(`(?i)^explanation about\b`), "option is an 'explanation about' placeholder"},
	{regexp.MustCompile(`(?i)^other \d+$`), "option is an 'other N' placeholder"},
}

var answerRules = []placeholderRule{
	{regexp.MustCompile(`(?i)^primary use of`), "answer is a 'primary use of' placeholder"},
	{regexp.MustCompile(`(?i)^correct statement about`), "answer is a 'correct statement about' placeholder"},
	{regexp.MustCompile(`(?i)^explanation about`), "answer is an 'explanation about' placeholder"},
}

var explanationRules = []placeholderRule{
	{regexp.MustCompile(`(?i)^explanation about\b`), "explanation is an 'explanation about' placeholder"},
	{regexp.MustCompile(`(?i)^this is correct because\b`), "explanation is a 'this is correct because' placeholder"},
}

// Validate inspects one exercise record and returns accept/reject.
// Malformed records (no questions, missing fields) are invalid rather
// than an error; the function never raises. A collection filtered
// through Validate is guaranteed free of the defects listed in the
// rules above.
func Validate(ex ExerciseContent) ValidationResult {
	if len(ex.Questions) == 0 {
		return ValidationResult{Valid: false, Reason: "exercise has no questions"}
	}

	for _, q := range ex.Questions {
		if r := validateQuestion(ex.Type, q); !r.Valid {
			return r
		}
	}
	return ValidationResult{Valid: true}
}

func validateQuestion(exType string, q QuestionContent) ValidationResult {
	prompt := strings.TrimSpace(q.Prompt)
	if utf8.RuneCountInString(prompt) < minPromptLength {
		return ValidationResult{Valid: false, Reason: "question prompt is empty or too short"}
	}

	for _, opt := range q.Options {
		for _, rule := range optionRules {
			if rule.pattern.MatchString(strings.TrimSpace(opt)) {
				return ValidationResult{Valid: false, Reason: rule.reason}
			}
		}
	}

	for _, ans := range q.Answer {
		for _, rule := range answerRules {
			if rule.pattern.MatchString(strings.TrimSpace(ans)) {
				return ValidationResult{Valid: false, Reason: rule.reason}
			}
		}
	}

	if q.Explanation != "" {
		for _, rule := range explanationRules {
			if rule.pattern.MatchString(strings.TrimSpace(q.Explanation)) {
				return ValidationResult{Valid: false, Reason: rule.reason}
			}
		}
	}

	if exType == TypeMultipleChoice {
		if len(q.Options) == 0 {
			return ValidationResult{Valid: false, Reason: "multiple-choice question has no options"}
		}
		if !answerInOptions(q.Answer, q.Options) {
			return ValidationResult{Valid: false, Reason: "correct answer is not among the options"}
		}
	}

	return ValidationResult{Valid: true}
}

func answerInOptions(answers, options []string) bool {
	for _, a := range answers {
		if AnswerMatches(options, a) {
			return true
		}
	}
	return false
}
