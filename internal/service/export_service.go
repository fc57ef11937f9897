package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/repository"
	"quiz_master_backend/internal/util"
	"quiz_master_backend/pkg/logger"
)

// 备份文件格式版本，导入时校验
const backupVersion = 1

type backupEnvelope struct {
	Version    int              `json:"version"`
	ExportedAt time.Time        `json:"exportedAt"`
	Questions  []model.Question `json:"questions"`
}

// ExportService 题库的 JSON 导出导入和远端备份
type ExportService struct {
	Repo      *repository.QuestionRepository
	Questions *QuestionService
	Storage   *StorageService
}

func NewExportService(repo *repository.QuestionRepository, questions *QuestionService, storage *StorageService) *ExportService {
	return &ExportService{Repo: repo, Questions: questions, Storage: storage}
}

// Export 全量导出为带版本号的 JSON
func (s *ExportService) Export() ([]byte, error) {
	questions, err := s.Repo.FindAll()
	if err != nil {
		return nil, err
	}
	env := backupEnvelope{
		Version:    backupVersion,
		ExportedAt: time.Now().UTC(),
		Questions:  questions,
	}
	return json.MarshalIndent(env, "", "  ")
}

// Import 从备份恢复。逐条入库，调度状态原样保留；
// 返回成功导入的条数。
func (s *ExportService) Import(data []byte) (int, error) {
	var env backupEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return 0, util.ErrInvalidBackup
	}
	if env.Version != backupVersion || env.Questions == nil {
		return 0, util.ErrInvalidBackup
	}

	imported := 0
	for i := range env.Questions {
		q := env.Questions[i]
		q.ID = 0 // 让数据库重新分配
		if err := s.Repo.Create(&q); err != nil {
			logger.Log.Warn("备份条目导入失败", zap.Int("index", i), zap.Error(err))
			continue
		}
		imported++
	}

	s.Questions.Cache.Invalidate()
	logger.Log.Info("备份导入完成",
		zap.Int("imported", imported),
		zap.Int("total", len(env.Questions)))
	return imported, nil
}

// Backup 导出后上传到存储后端，返回访问地址
func (s *ExportService) Backup(ctx context.Context) (string, error) {
	data, err := s.Export()
	if err != nil {
		return "", err
	}

	filename := fmt.Sprintf("quiz-backup-%s-%s.json",
		time.Now().UTC().Format("20060102"), uuid.New().String()[:8])
	url, err := s.Storage.Upload(ctx, filename, bytes.NewReader(data), int64(len(data)), "application/json")
	if err != nil {
		return "", err
	}

	logger.Log.Info("备份已上传", zap.String("file", filename), zap.Int("bytes", len(data)))
	return url, nil
}
