package model

import (
	"encoding/json"
	"time"
)

const (
	ExamTypeTOEIC = "toeic"
	ExamTypeTOEFL = "toefl"
	ExamTypeEFSET = "efset"
)

const (
	AttemptInProgress = "in_progress"
	AttemptCompleted  = "completed"
)

// ExamAttempt is one run of a standardized-test simulation. The
// adaptive level pointer of the current section is persisted on the row
// so the flow stays stateless between requests; it is reset when a new
// section starts and becomes meaningless once the attempt completes.
// swagger:model ExamAttempt
type ExamAttempt struct {
	UUIDBase
	UserID         uint            `gorm:"index;type:bigint unsigned" json:"userId"`
	ExamType       string          `gorm:"size:20;not null;index" json:"examType"`
	Status         string          `gorm:"size:20;default:'in_progress'" json:"status"`
	CurrentSection string          `gorm:"size:50" json:"currentSection"`
	CurrentLevel   string          `gorm:"size:4" json:"currentLevel"` // adaptive pointer
	SectionScores  json.RawMessage `gorm:"type:json" json:"sectionScores,omitempty"`
	TotalScore     float64         `gorm:"default:0" json:"totalScore"`
	TotalMax       float64         `gorm:"default:0" json:"totalMax"`
	AwardedLevel   string          `gorm:"size:4" json:"awardedLevel,omitempty"`
	StartedAt      time.Time       `json:"startedAt"`
	CompletedAt    *time.Time      `json:"completedAt,omitempty"`
}

func (ExamAttempt) TableName() string {
	return "exam_attempts"
}
