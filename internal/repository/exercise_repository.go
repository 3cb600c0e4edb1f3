package repository

import (
	"devlingo_backend/internal/model"

	"gorm.io/gorm"
)

type ExerciseRepository struct {
	DB *gorm.DB
}

func NewExerciseRepository(db *gorm.DB) *ExerciseRepository {
	return &ExerciseRepository{DB: db}
}

func (r *ExerciseRepository) Create(ex *model.Exercise) error {
	return r.DB.Create(ex).Error
}

func (r *ExerciseRepository) FindByID(id uint) (*model.Exercise, error) {
	var ex model.Exercise
	err := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc")
	}).First(&ex, id).Error
	return &ex, err
}

// ListByTypeAndLevel serves quiz rounds: active exercises of one type,
// optionally narrowed to a CEFR level, questions preloaded in order.
func (r *ExerciseRepository) ListByTypeAndLevel(exType, level string, limit int) ([]model.Exercise, error) {
	var exs []model.Exercise
	query := r.DB.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc")
	}).Where("is_active = ?", true)
	if exType != "" {
		query = query.Where("type = ?", exType)
	}
	if level != "" {
		query = query.Where("cefr_level = ?", level)
	}
	err := query.Order("RAND()").Limit(limit).Find(&exs).Error
	return exs, err
}

func (r *ExerciseRepository) List(page, limit int, exType, level, skill string) ([]model.Exercise, int64, error) {
	var exs []model.Exercise
	var total int64
	query := r.DB.Model(&model.Exercise{})
	if exType != "" {
		query = query.Where("type = ?", exType)
	}
	if level != "" {
		query = query.Where("cefr_level = ?", level)
	}
	if skill != "" {
		query = query.Where("skill = ?", skill)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Preload("Questions", func(db *gorm.DB) *gorm.DB {
		return db.Order("`order` asc")
	}).Order("created_at desc").Offset(offset).Limit(limit).Find(&exs).Error
	return exs, total, err
}

// QuestionsByLevel returns the adaptive question pool for one skill at
// one difficulty level. An empty result is a valid outcome the exam
// flow handles by completing the section.
func (r *ExerciseRepository) QuestionsByLevel(skill, level string) ([]model.ExerciseQuestion, error) {
	var qs []model.ExerciseQuestion
	err := r.DB.
		Joins("JOIN exercises ON exercises.id = exercise_questions.exercise_id").
		Where("exercises.is_active = ? AND exercises.cefr_level = ?", true, level).
		Where("exercises.skill = ?", skill).
		Order("`exercise_questions`.`order` asc").
		Find(&qs).Error
	return qs, err
}

func (r *ExerciseRepository) FindQuestionByID(id uint) (*model.ExerciseQuestion, error) {
	var q model.ExerciseQuestion
	err := r.DB.First(&q, id).Error
	return &q, err
}

func (r *ExerciseRepository) Update(ex *model.Exercise) error {
	return r.DB.Save(ex).Error
}

func (r *ExerciseRepository) Delete(id uint) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("exercise_id = ?", id).Delete(&model.ExerciseQuestion{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Exercise{}, id).Error
	})
}

func (r *ExerciseRepository) CountBySource(source string) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Exercise{}).Where("source = ?", source).Count(&count).Error
	return count, err
}
