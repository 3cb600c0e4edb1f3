package repository

import (
	"devlingo_backend/internal/model"

	"gorm.io/gorm"
)

type ExamRepository struct {
	DB *gorm.DB
}

func NewExamRepository(db *gorm.DB) *ExamRepository {
	return &ExamRepository{DB: db}
}

func (r *ExamRepository) CreateAttempt(a *model.ExamAttempt) error {
	return r.DB.Create(a).Error
}

func (r *ExamRepository) FindAttemptByID(id string) (*model.ExamAttempt, error) {
	var a model.ExamAttempt
	err := r.DB.Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *ExamRepository) UpdateAttempt(a *model.ExamAttempt) error {
	return r.DB.Save(a).Error
}

func (r *ExamRepository) ListByUser(userID uint, limit int) ([]model.ExamAttempt, error) {
	var attempts []model.ExamAttempt
	err := r.DB.Where("user_id = ?", userID).Order("started_at desc").Limit(limit).Find(&attempts).Error
	return attempts, err
}

func (r *ExamRepository) FindInProgress(userID uint, examType string) (*model.ExamAttempt, error) {
	var a model.ExamAttempt
	err := r.DB.Where("user_id = ? AND exam_type = ? AND status = ?", userID, examType, model.AttemptInProgress).
		Order("started_at desc").First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *ExamRepository) DeleteAllByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.ExamAttempt{}).Error
}
