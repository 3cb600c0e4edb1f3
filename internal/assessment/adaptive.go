package assessment

// Transition is a question's authored difficulty annotation: the level
// to move to on a correct answer and on a wrong one. Empty fields mean
// "hold the current level". Transitions are data attached per question,
// never computed.
type Transition struct {
	Next  Level
	Wrong Level
}

// AdaptiveTracker carries the difficulty pointer through one adaptive
// test section. State is per-section: discard the tracker (or Reset it)
// when a new section begins.
type AdaptiveTracker struct {
	current Level
}

func NewAdaptiveTracker(initial Level) *AdaptiveTracker {
	if !initial.Valid() {
		initial = LevelB1
	}
	return &AdaptiveTracker{current: initial}
}

func (t *AdaptiveTracker) Current() Level {
	return t.current
}

// Reset re-seeds the tracker for a new section.
func (t *AdaptiveTracker) Reset(level Level) {
	if level.Valid() {
		t.current = level
	}
}

// Submit grades a submitted answer against the question's accepted
// values (case-insensitive, trimmed) and applies the question's
// transition annotation. Missing annotations hold the level steady;
// there is no error path.
func (t *AdaptiveTracker) Submit(accepted []string, submitted string, tr Transition) (Level, bool) {
	correct := AnswerMatches(accepted, submitted)
	t.Apply(correct, tr)
	return t.current, correct
}

// Apply moves the level pointer for an already-graded answer.
func (t *AdaptiveTracker) Apply(correct bool, tr Transition) Level {
	if correct {
		if tr.Next.Valid() {
			t.current = tr.Next
		}
	} else {
		if tr.Wrong.Valid() {
			t.current = tr.Wrong
		}
	}
	return t.current
}
