package model

import "time"

// UserResponse is one answer event. Rows are appended on each submit
// and never mutated; the only deletion is the full history clear.
// swagger:model UserResponse
type UserResponse struct {
	BaseModel
	UserID       uint      `gorm:"index;type:bigint unsigned" json:"userId"`
	ExerciseID   uint      `gorm:"index;type:bigint unsigned" json:"exerciseId"`
	QuestionID   uint      `gorm:"index;type:bigint unsigned" json:"questionId"`
	AttemptID    string    `gorm:"size:36;index" json:"attemptId,omitempty"` // exam attempt, empty for quizzes
	Answer       string    `gorm:"type:text" json:"answer"`
	IsCorrect    bool      `gorm:"default:false" json:"isCorrect"`
	TimeSpentSec int       `gorm:"default:0" json:"timeSpentSec"`
	AnsweredAt   time.Time `json:"answeredAt"`
}

func (UserResponse) TableName() string {
	return "user_responses"
}
