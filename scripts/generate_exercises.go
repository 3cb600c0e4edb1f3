// 手动触发 AI 题目生成脚本
//
// 生成接口已暴露在编辑端 API 中，此脚本用于离线批量扩充题库，
// 例如首次部署后为每个等级预生成一批练习。
//
// 用法: go run scripts/generate_exercises.go -skill grammar -level B1 -count 10

package main

import (
	"context"
	"devlingo_backend/internal/config"
	"devlingo_backend/internal/repository"
	"devlingo_backend/internal/service"
	"devlingo_backend/pkg/database"
	"devlingo_backend/pkg/logger"
	"flag"
	"log"
)

func main() {
	skill := flag.String("skill", "grammar", "技能: grammar/vocabulary/reading")
	level := flag.String("level", "B1", "CEFR等级: A1/A2/B1/B2/C1")
	count := flag.Int("count", 5, "生成数量")
	flag.Parse()

	cfg, err := config.LoadConfig("configs")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	logger.InitLogger(cfg)

	db, err := database.InitDB(cfg)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	exerciseRepo := repository.NewExerciseRepository(db)
	generation := service.NewGenerationService(exerciseRepo, cfg.AI)

	log.Printf("生成 %d 道 %s 练习 (等级 %s)...", *count, *skill, *level)
	report, err := generation.Generate(context.Background(), *skill, *level, *count)
	if err != nil {
		log.Fatalf("生成失败: %v", err)
	}

	log.Printf("完成！入库 %d 条，拒绝 %d 条", report.Imported, report.Rejected)
	for _, reason := range report.Reasons {
		log.Printf("  拒绝: %s", reason)
	}
}
