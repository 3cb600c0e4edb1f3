package assessment

import "strings"

// Level is a CEFR proficiency label. The platform places learners
// between A1 and C1; C2 is not awarded by any test flow.
type Level string

const (
	LevelA1 Level = "A1"
	LevelA2 Level = "A2"
	LevelB1 Level = "B1"
	LevelB2 Level = "B2"
	LevelC1 Level = "C1"
)

var levelRank = map[Level]int{
	LevelA1: 1,
	LevelA2: 2,
	LevelB1: 3,
	LevelB2: 4,
	LevelC1: 5,
}

// Rank returns the ordinal position of a level, 0 for unknown labels.
func (l Level) Rank() int {
	return levelRank[l]
}

// Valid reports whether l is one of the known CEFR labels.
func (l Level) Valid() bool {
	_, ok := levelRank[l]
	return ok
}

// ParseLevel normalizes a level string ("b1", " B1 ") to a Level.
// Unknown input yields an empty Level.
func ParseLevel(s string) Level {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if l.Valid() {
		return l
	}
	return ""
}

// AnswerMatches reports whether a submitted answer matches any of the
// accepted answer values, comparing case-insensitively after trimming.
func AnswerMatches(accepted []string, submitted string) bool {
	s := strings.TrimSpace(submitted)
	for _, a := range accepted {
		if strings.EqualFold(strings.TrimSpace(a), s) {
			return true
		}
	}
	return false
}
