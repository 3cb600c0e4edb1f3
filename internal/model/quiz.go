package model

import "time"

// QuizResult stores one completed quiz round.
// swagger:model QuizResult
type QuizResult struct {
	BaseModel
	UserID      uint       `gorm:"index;type:bigint unsigned" json:"userId"`
	Skill       string     `gorm:"size:50" json:"skill"`
	CEFRLevel   string     `gorm:"size:4" json:"cefrLevel"` // level of the exercises served
	Score       int        `gorm:"not null" json:"score"`
	Total       int        `gorm:"not null" json:"total"`
	Completed   bool       `gorm:"default:false" json:"completed"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

func (QuizResult) TableName() string {
	return "quiz_results"
}
