package repository

import (
	"devlingo_backend/internal/model"

	"gorm.io/gorm"
)

type SpeakingRepository struct {
	DB *gorm.DB
}

func NewSpeakingRepository(db *gorm.DB) *SpeakingRepository {
	return &SpeakingRepository{DB: db}
}

func (r *SpeakingRepository) Create(a *model.SpeakingAttempt) error {
	return r.DB.Create(a).Error
}

func (r *SpeakingRepository) FindByID(id uint) (*model.SpeakingAttempt, error) {
	var a model.SpeakingAttempt
	err := r.DB.First(&a, id).Error
	return &a, err
}

func (r *SpeakingRepository) ListByUser(userID uint, limit int) ([]model.SpeakingAttempt, error) {
	var attempts []model.SpeakingAttempt
	err := r.DB.Where("user_id = ?", userID).Order("created_at desc").Limit(limit).Find(&attempts).Error
	return attempts, err
}

func (r *SpeakingRepository) DeleteAllByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.SpeakingAttempt{}).Error
}
