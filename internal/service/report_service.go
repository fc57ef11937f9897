package service

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"quiz_master_backend/internal/config"
	"quiz_master_backend/pkg/logger"
)

// Notifier 报告投递接口，消息通道本身由外部实现
type Notifier interface {
	Notify(text string) error
}

// LogNotifier 没配 webhook 时退化为写日志
type LogNotifier struct{}

func (LogNotifier) Notify(text string) error {
	logger.Log.Info("每日学习报告", zap.String("report", text))
	return nil
}

// WebhookNotifier 把报告以 JSON 文本推给配置的地址
type WebhookNotifier struct {
	URL    string
	Client *http.Client
}

func (n *WebhookNotifier) Notify(text string) error {
	payload, err := json.Marshal(map[string]string{"text": text})
	if err != nil {
		return err
	}
	resp, err := n.Client.Post(n.URL, "application/json", bytes.NewReader(payload))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("webhook 返回 %d", resp.StatusCode)
	}
	return nil
}

// ReportService 每天定点生成并推送学习报告
type ReportService struct {
	Questions *QuestionService
	Notifier  Notifier
	cfg       *config.ReportConfig
	cron      *cron.Cron
}

func NewReportService(questions *QuestionService, cfg *config.ReportConfig) *ReportService {
	var notifier Notifier = LogNotifier{}
	if cfg.WebhookURL != "" {
		notifier = &WebhookNotifier{
			URL:    cfg.WebhookURL,
			Client: &http.Client{Timeout: 10 * time.Second},
		}
	}
	return &ReportService{
		Questions: questions,
		Notifier:  notifier,
		cfg:       cfg,
	}
}

// Start 注册定时任务，时间取配置的时分
func (s *ReportService) Start() error {
	if !s.cfg.Enabled {
		return nil
	}

	s.cron = cron.New()
	spec := fmt.Sprintf("%d %d * * *", s.cfg.Minute, s.cfg.Hour)
	if _, err := s.cron.AddFunc(spec, s.push); err != nil {
		return err
	}
	s.cron.Start()
	logger.Log.Info("每日报告任务已注册",
		zap.Int("hour", s.cfg.Hour),
		zap.Int("minute", s.cfg.Minute))
	return nil
}

func (s *ReportService) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *ReportService) push() {
	text, err := s.Compose()
	if err != nil {
		logger.Log.Error("生成每日报告失败", zap.Error(err))
		return
	}
	if err := s.Notifier.Notify(text); err != nil {
		logger.Log.Error("推送每日报告失败", zap.Error(err))
	}
}

// Compose 把全量报告拼成一段可读文本
func (s *ReportService) Compose() (string, error) {
	report, err := s.Questions.Report()
	if err != nil {
		return "", err
	}
	level, err := s.Questions.Level()
	if err != nil {
		return "", err
	}

	var b strings.Builder
	b.WriteString("📊 تقرير اليوم\n")
	fmt.Fprintf(&b, "الأسئلة: %d | المراجعات: %d\n", report.TotalQuestions, report.TotalReviews)
	fmt.Fprintf(&b, "النتيجة المتوقعة: %.1f%%\n", report.Prediction.Overall)
	fmt.Fprintf(&b, "سلسلة الأيام: %d 🔥\n", report.StreakDays)
	fmt.Fprintf(&b, "المستوى: %s %s\n", level.Name, level.Badge)
	fmt.Fprintf(&b, "قوي: %d | ضعيف: %d\n", report.StrongCount, report.WeakCount)
	if report.DueToday > 0 {
		fmt.Fprintf(&b, "مستحق اليوم: %d سؤال", report.DueToday)
	}
	return b.String(), nil
}
