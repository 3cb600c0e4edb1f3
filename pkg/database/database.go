package database

import (
	"devlingo_backend/internal/config"
	"devlingo_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.Database.User,
		cfg.Database.Password,
		cfg.Database.Host,
		cfg.Database.Port,
		cfg.Database.DBName,
		cfg.Database.Charset,
		cfg.Database.ParseTime,
	)

	logMode := logger.Info
	if cfg.Server.Mode == "release" {
		logMode = logger.Warn
	}

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logMode),
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")

	// release 模式默认不自动迁移，需 -migrate / -migrate-only 显式开启
	if cfg.Server.Mode == "release" && !cfg.ForceMigrate {
		return db, nil
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Exercise{},
		&model.ExerciseQuestion{},
		&model.UserResponse{},
		&model.QuizResult{},
		&model.ExamAttempt{},
		&model.SpeakingAttempt{},
	)

	if err != nil {
		return nil, err
	}

	log.Println("Database migration completed")

	// 默认口语练习题目（空库时插入，方便前端首次联调）
	var spCount int64
	db.Model(&model.Exercise{}).Where("type = ?", model.TypeSpeakingPrompt).Count(&spCount)
	if spCount == 0 {
		defaultPrompts := []model.Exercise{
			{
				Type:      model.TypeSpeakingPrompt,
				Title:     "Describe your current project",
				CEFRLevel: "B1",
				Skill:     "speaking",
				Passage:   "Describe the project you are currently working on. What technologies does it use, and what is your role in the team?",
				Source:    "seed",
				IsActive:  true,
			},
			{
				Type:      model.TypeSpeakingPrompt,
				Title:     "Explain a bug you fixed",
				CEFRLevel: "B2",
				Skill:     "speaking",
				Passage:   "Think of a difficult bug you fixed recently. Explain how you found it and how you solved it.",
				Source:    "seed",
				IsActive:  true,
			},
			{
				Type:      model.TypeSpeakingPrompt,
				Title:     "Introduce yourself at a standup",
				CEFRLevel: "A2",
				Skill:     "speaking",
				Passage:   "Imagine it is your first daily standup at a new company. Introduce yourself and say what you will work on today.",
				Source:    "seed",
				IsActive:  true,
			},
		}
		for _, p := range defaultPrompts {
			db.Create(&p)
		}
	}

	return db, nil
}
