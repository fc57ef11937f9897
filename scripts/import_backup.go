// 手动导入备份文件脚本
//
// 服务运行时可以走 /api/import 接口，此脚本用于服务停机时
// 直接向数据库恢复数据，例如迁移部署或灾难恢复。
//
// 用法: go run scripts/import_backup.go <backup.json>

package main

import (
	"log"
	"os"

	"gopkg.in/yaml.v3"

	"quiz_master_backend/internal/config"
	"quiz_master_backend/internal/repository"
	"quiz_master_backend/internal/service"
	"quiz_master_backend/pkg/database"
	"quiz_master_backend/pkg/logger"
)

func main() {
	if len(os.Args) < 2 {
		log.Fatal("用法: go run scripts/import_backup.go <backup.json>")
	}

	data, err := os.ReadFile("configs/config.yaml")
	if err != nil {
		log.Fatalf("无法读取配置文件: %v", err)
	}

	var cfg config.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Fatalf("解析配置文件失败: %v", err)
	}

	logger.InitLogger(&cfg)

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	backup, err := os.ReadFile(os.Args[1])
	if err != nil {
		log.Fatalf("无法读取备份文件: %v", err)
	}

	repo := repository.NewQuestionRepository(db)
	scheduler := service.NewSchedulerService()
	selector := service.NewSelectorService()
	analytics := service.NewAnalyticsService()
	questions := service.NewQuestionService(repo, scheduler, selector, analytics, 0)
	storage := service.NewStorageService(&cfg)
	export := service.NewExportService(repo, questions, storage)

	imported, err := export.Import(backup)
	if err != nil {
		log.Fatalf("导入失败: %v", err)
	}
	log.Printf("完成！共导入 %d 条题目", imported)
}
