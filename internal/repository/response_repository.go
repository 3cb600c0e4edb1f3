package repository

import (
	"devlingo_backend/internal/model"

	"gorm.io/gorm"
)

type ResponseRepository struct {
	DB *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{DB: db}
}

func (r *ResponseRepository) Create(resp *model.UserResponse) error {
	return r.DB.Create(resp).Error
}

func (r *ResponseRepository) CreateBatch(resps []model.UserResponse) error {
	if len(resps) == 0 {
		return nil
	}
	return r.DB.Create(&resps).Error
}

func (r *ResponseRepository) ListByUser(userID uint, page, limit int) ([]model.UserResponse, int64, error) {
	var resps []model.UserResponse
	var total int64
	query := r.DB.Model(&model.UserResponse{}).Where("user_id = ?", userID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("answered_at desc").Offset(offset).Limit(limit).Find(&resps).Error
	return resps, total, err
}

func (r *ResponseRepository) ListByAttempt(attemptID string) ([]model.UserResponse, error) {
	var resps []model.UserResponse
	err := r.DB.Where("attempt_id = ?", attemptID).Order("answered_at asc").Find(&resps).Error
	return resps, err
}

func (r *ResponseRepository) CountCorrectByUser(userID uint) (total int64, correct int64, err error) {
	if err = r.DB.Model(&model.UserResponse{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return
	}
	err = r.DB.Model(&model.UserResponse{}).Where("user_id = ? AND is_correct = ?", userID, true).Count(&correct).Error
	return
}

// DeleteAllByUser is the full history clear; responses are otherwise
// append-only.
func (r *ResponseRepository) DeleteAllByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.UserResponse{}).Error
}
