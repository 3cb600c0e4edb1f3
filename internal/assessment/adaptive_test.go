package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTrackerMovesUpOnCorrectAnswer(t *testing.T) {
	tr := NewAdaptiveTracker(LevelB1)

	level, correct := tr.Submit([]string{"deployment"}, "deployment", Transition{Next: LevelB2, Wrong: LevelA2})

	assert.True(t, correct)
	assert.Equal(t, LevelB2, level)
	assert.Equal(t, LevelB2, tr.Current())
}

func TestTrackerMovesDownOnWrongAnswer(t *testing.T) {
	tr := NewAdaptiveTracker(LevelB1)

	level, correct := tr.Submit([]string{"deployment"}, "deplyoment", Transition{Next: LevelB2, Wrong: LevelA2})

	assert.False(t, correct)
	assert.Equal(t, LevelA2, level)
}

func TestTrackerHoldsWithoutAnnotations(t *testing.T) {
	tr := NewAdaptiveTracker(LevelB2)

	level, correct := tr.Submit([]string{"yes"}, "yes", Transition{})
	assert.True(t, correct)
	assert.Equal(t, LevelB2, level)

	level, correct = tr.Submit([]string{"yes"}, "no", Transition{})
	assert.False(t, correct)
	assert.Equal(t, LevelB2, level)
}

func TestTrackerPartialAnnotations(t *testing.T) {
	// Only a wrong-transition authored: correct answers hold the level.
	tr := NewAdaptiveTracker(LevelB1)
	level, _ := tr.Submit([]string{"stack"}, "stack", Transition{Wrong: LevelA2})
	assert.Equal(t, LevelB1, level)

	// Only a next-transition authored: wrong answers hold the level.
	tr = NewAdaptiveTracker(LevelB1)
	level, _ = tr.Submit([]string{"stack"}, "heap", Transition{Next: LevelB2})
	assert.Equal(t, LevelB1, level)
}

func TestTrackerComparisonIsCaseInsensitiveAndTrimmed(t *testing.T) {
	tr := NewAdaptiveTracker(LevelA2)

	_, correct := tr.Submit([]string{"Continuous Integration"}, "  continuous integration ", Transition{Next: LevelB1})
	assert.True(t, correct)
	assert.Equal(t, LevelB1, tr.Current())
}

func TestTrackerAcceptsAnyListedAnswer(t *testing.T) {
	tr := NewAdaptiveTracker(LevelB1)

	_, correct := tr.Submit([]string{"cannot", "can not", "can't"}, "can't", Transition{Next: LevelB2})
	assert.True(t, correct)
}

func TestTrackerDefaultsAndReset(t *testing.T) {
	// Unknown seed falls back to B1.
	tr := NewAdaptiveTracker(Level("D7"))
	assert.Equal(t, LevelB1, tr.Current())

	// Reset re-seeds for a new section; invalid levels are ignored.
	tr.Reset(LevelC1)
	assert.Equal(t, LevelC1, tr.Current())
	tr.Reset(Level(""))
	assert.Equal(t, LevelC1, tr.Current())
}

func TestTrackerIgnoresInvalidTransitionTargets(t *testing.T) {
	tr := NewAdaptiveTracker(LevelB1)

	level := tr.Apply(true, Transition{Next: Level("Z9")})
	assert.Equal(t, LevelB1, level)
}
