package model

// SpeakingAttempt is one speaking-practice recording: the vendor
// transcript with its confidence plus the AI feedback text.
// swagger:model SpeakingAttempt
type SpeakingAttempt struct {
	BaseModel
	UserID     uint   `gorm:"index;type:bigint unsigned" json:"userId"`
	PromptText string `gorm:"type:text" json:"promptText"`
	AudioURL   string `gorm:"size:255" json:"audioUrl"`
	Language   string `gorm:"size:10;default:'en-US'" json:"language"`
	Transcript string `gorm:"type:text" json:"transcript"`
	Confidence int    `gorm:"default:0" json:"confidence"` // 0-100 from the STT vendor
	Feedback   string `gorm:"type:text" json:"feedback,omitempty"`
}

func (SpeakingAttempt) TableName() string {
	return "speaking_attempts"
}
