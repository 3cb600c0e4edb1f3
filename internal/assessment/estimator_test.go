package assessment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func singleSection(score, max float64) ScoreBreakdown {
	return NewScoreBreakdown(map[string]SectionScore{
		SectionGrammar: {Score: score, Max: max},
	})
}

func TestEstimateStandardBuckets(t *testing.T) {
	table := StandardTable()

	tests := []struct {
		name    string
		percent float64
		want    Level
	}{
		{"far below B1", 10, LevelA2},
		{"just below B1", 49.9, LevelA2},
		{"B1 boundary inclusive", 50, LevelB1},
		{"mid B1", 60, LevelB1},
		{"just below B2", 69.9, LevelB1},
		{"B2 boundary inclusive", 70, LevelB2},
		{"just below C1", 84.9, LevelB2},
		{"C1 boundary inclusive", 85, LevelC1},
		{"full score", 100, LevelC1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Estimate(singleSection(tt.percent, 100), table)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEstimateMonotonic(t *testing.T) {
	table := StandardTable()

	prev := 0
	for pct := 0.0; pct <= 100.0; pct += 0.5 {
		level := Estimate(singleSection(pct, 100), table)
		rank := level.Rank()
		assert.GreaterOrEqual(t, rank, prev, "level dropped at %.1f%%", pct)
		prev = rank
	}
}

func TestEstimateZeroMaxPoints(t *testing.T) {
	b := NewScoreBreakdown(map[string]SectionScore{
		SectionReading: {Score: 0, Max: 0},
	})

	assert.Equal(t, 0.0, b.Percentage())
	assert.Equal(t, LevelA2, Estimate(b, StandardTable()))
	assert.Equal(t, LevelA1, Estimate(b, EFSETTable()))
}

func TestEstimateZeroMaxSectionContributesNothing(t *testing.T) {
	b := NewScoreBreakdown(map[string]SectionScore{
		SectionReading:  {Score: 9, Max: 10},
		SectionSpeaking: {Score: 0, Max: 0},
	})

	assert.Equal(t, 0.0, b.SectionPercentage(SectionSpeaking))
	assert.Equal(t, 90.0, b.Percentage())
}

func TestEstimateTOEICCombinedRule(t *testing.T) {
	table := TOEICTable()

	// 90% overall but listening below its 80% minimum: C1 is withheld,
	// the next band that matches is B2.
	b := NewScoreBreakdown(map[string]SectionScore{
		SectionGrammar:   {Score: 95, Max: 100},
		SectionListening: {Score: 75, Max: 100},
		SectionReading:   {Score: 100, Max: 100},
	})
	assert.Equal(t, LevelB2, Estimate(b, table))

	// Same overall with sectional minima met.
	b = NewScoreBreakdown(map[string]SectionScore{
		SectionGrammar:   {Score: 90, Max: 100},
		SectionListening: {Score: 85, Max: 100},
		SectionReading:   {Score: 95, Max: 100},
	})
	assert.Equal(t, LevelC1, Estimate(b, table))
}

func TestEstimateEndToEndScenario(t *testing.T) {
	// reading 10/12, listening 9/12, writing 8/12 -> 27/36 = 75% -> B2.
	b := NewScoreBreakdown(map[string]SectionScore{
		SectionReading:   {Score: 10, Max: 12},
		SectionListening: {Score: 9, Max: 12},
		SectionWriting:   {Score: 8, Max: 12},
	})

	assert.InDelta(t, 75.0, b.Percentage(), 0.001)
	assert.Equal(t, LevelB2, Estimate(b, StandardTable()))
}

func TestScoreBreakdownTotals(t *testing.T) {
	b := NewScoreBreakdown(map[string]SectionScore{
		SectionReading:   {Score: 3, Max: 5},
		SectionListening: {Score: 4, Max: 5},
	})

	assert.Equal(t, 7.0, b.Total)
	assert.Equal(t, 10.0, b.TotalMax)
}

func TestEstimateUnorderedTable(t *testing.T) {
	// Thresholds declared out of order still evaluate highest-first.
	table := ThresholdTable{
		Thresholds: []Threshold{
			{MinPercent: 50, Level: LevelB1},
			{MinPercent: 85, Level: LevelC1},
			{MinPercent: 70, Level: LevelB2},
		},
		Floor: LevelA2,
	}

	assert.Equal(t, LevelC1, Estimate(singleSection(90, 100), table))
	assert.Equal(t, LevelB2, Estimate(singleSection(75, 100), table))
}
