package model

import (
	"time"
)

type UserRole string

const (
	Student UserRole = "student"
	Editor  UserRole = "editor"
	Admin   UserRole = "admin"
)

// swagger:model User
type User struct {
	BaseModel
	Name          string    `gorm:"size:100;not null" json:"name"`
	Email         string    `gorm:"size:100;unique;not null" json:"email"`
	Password      string    `gorm:"size:100;not null" json:"-"`
	Role          UserRole  `gorm:"type:enum('student','editor','admin');default:'student'" json:"role"`
	EmailVerified bool      `gorm:"default:false" json:"emailVerified"`
	NativeLang    string    `gorm:"size:10;default:'zh'" json:"nativeLang"`
	CurrentLevel  string    `gorm:"size:4;default:'A2'" json:"currentLevel"` // latest awarded CEFR level
	XP            int       `gorm:"default:0" json:"xp"`
	Disabled      bool      `gorm:"default:false" json:"disabled"`
	LastLogin     time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastLogin"`
	LastSeen      time.Time `gorm:"default:CURRENT_TIMESTAMP(3)" json:"lastSeen"`
}

func (User) TableName() string {
	return "users"
}
