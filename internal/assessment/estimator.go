package assessment

import "sort"

// SectionScore is one test section's earned points against its maximum.
type SectionScore struct {
	Score float64 `json:"score"`
	Max   float64 `json:"max"`
}

// ScoreBreakdown holds the per-section point totals of a completed
// assessment plus precomputed totals. Build it with NewScoreBreakdown
// so the totals always equal the section sums; it is not mutated after
// creation.
type ScoreBreakdown struct {
	Sections map[string]SectionScore `json:"sections"`
	Total    float64                 `json:"total"`
	TotalMax float64                 `json:"totalMax"`
}

func NewScoreBreakdown(sections map[string]SectionScore) ScoreBreakdown {
	b := ScoreBreakdown{Sections: make(map[string]SectionScore, len(sections))}
	for name, s := range sections {
		b.Sections[name] = s
		b.Total += s.Score
		b.TotalMax += s.Max
	}
	return b
}

// Percentage returns the overall score as 0-100. A zero maximum yields
// 0 rather than a division error.
func (b ScoreBreakdown) Percentage() float64 {
	if b.TotalMax <= 0 {
		return 0
	}
	return b.Total / b.TotalMax * 100
}

// SectionPercentage returns one section's score as 0-100. Unknown or
// zero-max sections contribute 0.
func (b ScoreBreakdown) SectionPercentage(name string) float64 {
	s, ok := b.Sections[name]
	if !ok || s.Max <= 0 {
		return 0
	}
	return s.Score / s.Max * 100
}

// Threshold gates a level behind a minimum overall percentage and,
// optionally, per-section minimum percentages. Boundaries are
// inclusive: percentage == MinPercent meets the threshold.
type Threshold struct {
	MinPercent    float64
	Level         Level
	SectionMinima map[string]float64
}

// ThresholdTable is an ordered level ruleset, evaluated from the
// highest threshold down; the first threshold met wins. Each test type
// carries its own table — variants are intentional calibration, not
// candidates for unification.
type ThresholdTable struct {
	Thresholds []Threshold
	Floor      Level
}

// Estimate buckets a score breakdown into a CEFR level. It is a pure
// function of its inputs and always returns a level; when nothing
// matches (including the zero-max case) the table's floor applies.
func Estimate(b ScoreBreakdown, table ThresholdTable) Level {
	pct := b.Percentage()

	ordered := make([]Threshold, len(table.Thresholds))
	copy(ordered, table.Thresholds)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].MinPercent > ordered[j].MinPercent
	})

	for _, t := range ordered {
		if pct < t.MinPercent {
			continue
		}
		met := true
		for section, min := range t.SectionMinima {
			if b.SectionPercentage(section) < min {
				met = false
				break
			}
		}
		if met {
			return t.Level
		}
	}
	return table.Floor
}

// StandardTable is the default bucketing used by quizzes and the
// general placement test: >=85 C1, >=70 B2, >=50 B1, otherwise A2.
func StandardTable() ThresholdTable {
	return ThresholdTable{
		Thresholds: []Threshold{
			{MinPercent: 85, Level: LevelC1},
			{MinPercent: 70, Level: LevelB2},
			{MinPercent: 50, Level: LevelB1},
		},
		Floor: LevelA2,
	}
}

// TOEICTable adds the combined rule observed in the TOEIC simulation:
// C1 additionally requires grammar >= 70% and listening >= 80%.
func TOEICTable() ThresholdTable {
	return ThresholdTable{
		Thresholds: []Threshold{
			{MinPercent: 85, Level: LevelC1, SectionMinima: map[string]float64{
				SectionGrammar:   70,
				SectionListening: 80,
			}},
			{MinPercent: 70, Level: LevelB2},
			{MinPercent: 50, Level: LevelB1},
		},
		Floor: LevelA2,
	}
}

// TOEFLTable mirrors the standard buckets with a slightly stricter B2
// band and a reading minimum on C1.
func TOEFLTable() ThresholdTable {
	return ThresholdTable{
		Thresholds: []Threshold{
			{MinPercent: 85, Level: LevelC1, SectionMinima: map[string]float64{
				SectionReading: 75,
			}},
			{MinPercent: 72, Level: LevelB2},
			{MinPercent: 50, Level: LevelB1},
		},
		Floor: LevelA2,
	}
}

// EFSETTable supports an A1 floor below the A2 band.
func EFSETTable() ThresholdTable {
	return ThresholdTable{
		Thresholds: []Threshold{
			{MinPercent: 85, Level: LevelC1},
			{MinPercent: 70, Level: LevelB2},
			{MinPercent: 50, Level: LevelB1},
			{MinPercent: 30, Level: LevelA2},
		},
		Floor: LevelA1,
	}
}

// Section names shared by the exam flows and threshold tables.
const (
	SectionReading   = "reading"
	SectionListening = "listening"
	SectionWriting   = "writing"
	SectionSpeaking  = "speaking"
	SectionGrammar   = "grammar"
)
