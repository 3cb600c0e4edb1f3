package repository

import (
	"devlingo_backend/internal/model"

	"gorm.io/gorm"
)

type QuizRepository struct {
	DB *gorm.DB
}

func NewQuizRepository(db *gorm.DB) *QuizRepository {
	return &QuizRepository{DB: db}
}

func (r *QuizRepository) Create(result *model.QuizResult) error {
	return r.DB.Create(result).Error
}

func (r *QuizRepository) FindByID(id uint) (*model.QuizResult, error) {
	var res model.QuizResult
	err := r.DB.First(&res, id).Error
	return &res, err
}

func (r *QuizRepository) ListByUser(userID uint, limit int) ([]model.QuizResult, error) {
	var results []model.QuizResult
	err := r.DB.Where("user_id = ?", userID).Order("created_at desc").Limit(limit).Find(&results).Error
	return results, err
}

// SkillTotals aggregates quiz scores per skill.
type SkillTotals struct {
	Skill string `json:"skill"`
	Score int    `json:"score"`
	Total int    `json:"total"`
}

func (r *QuizRepository) TotalsBySkill(userID uint) ([]SkillTotals, error) {
	var totals []SkillTotals
	err := r.DB.Model(&model.QuizResult{}).
		Select("skill, SUM(score) as score, SUM(total) as total").
		Where("user_id = ? AND skill != ''", userID).
		Group("skill").
		Scan(&totals).Error
	return totals, err
}

func (r *QuizRepository) DeleteAllByUser(userID uint) error {
	return r.DB.Where("user_id = ?", userID).Delete(&model.QuizResult{}).Error
}
