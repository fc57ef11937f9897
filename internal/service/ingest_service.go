package service

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/util"
	"quiz_master_backend/pkg/logger"
	"quiz_master_backend/pkg/monitoring"
)

// 消息里出现任一标记就视为用户自报的薄弱点，拉丁字母不分大小写
var errorMarkerRe = regexp.MustCompile(`(?i)#(خطأ|غلط|weak|ضعيف)`)

const weakTag = "weak"

// 选项行前缀字母，按位置对应选项下标
var pollOptionLabels = []string{"أ", "ب", "ج", "د", "هـ", "و"}

// IngestService 把外部渠道的原始内容转成入库题目。
// 文本解析交给 ExtractorService，落库走 QuestionService。
type IngestService struct {
	Extractor *ExtractorService
	Questions *QuestionService
}

func NewIngestService(extractor *ExtractorService, questions *QuestionService) *IngestService {
	return &IngestService{Extractor: extractor, Questions: questions}
}

// IngestMessage 处理一条自由文本消息。转发和带错误标记的内容都未经人工
// 核对，统一升为 urgent；错误标记额外打上 weak 标签。
func (s *IngestService) IngestMessage(raw string, forwarded bool, sourceChannel string) (*model.Question, error) {
	isWeak := errorMarkerRe.MatchString(raw)
	if isWeak {
		raw = errorMarkerRe.ReplaceAllString(raw, "")
	}

	cleaned := s.Extractor.Clean(raw)
	ext := s.Extractor.Extract(cleaned)
	if strings.TrimSpace(ext.Text) == "" {
		return nil, util.ErrEmptyQuestionText
	}

	q := &model.Question{
		Text:          ext.Text,
		Options:       model.StringList(ext.Options),
		CorrectIndex:  ext.CorrectIndex,
		Explanation:   ext.Explanation,
		Priority:      model.PriorityNormal,
		SourceChannel: sourceChannel,
		AutoCaptured:  forwarded,
	}
	if forwarded || isWeak {
		q.Priority = model.PriorityUrgent
	}
	if isWeak {
		q.Tags = model.StringList{weakTag}
	}

	if _, err := s.Questions.Create(q); err != nil {
		return nil, err
	}

	monitoring.IngestCounter.WithLabelValues("message").Inc()
	logger.Log.Info("消息入库",
		zap.Uint("id", q.ID),
		zap.Bool("weak", isWeak),
		zap.Int("options", len(q.Options)))
	return q, nil
}

// IngestPoll 把投票转成带字母前缀选项的题目入库。
// 投票都是从频道自动抓的，未经核对，一律 urgent。
func (s *IngestService) IngestPoll(question string, options []string, correctOption int, caption string) (*model.Question, error) {
	if strings.TrimSpace(question) == "" {
		return nil, util.ErrEmptyQuestionText
	}
	if correctOption < -1 || correctOption >= len(options) {
		correctOption = -1
	}

	isWeak := errorMarkerRe.MatchString(caption)
	if isWeak {
		caption = errorMarkerRe.ReplaceAllString(caption, "")
	}

	labelled := make(model.StringList, 0, len(options))
	for i, opt := range options {
		label := fmt.Sprintf("%d", i+1)
		if i < len(pollOptionLabels) {
			label = pollOptionLabels[i]
		}
		labelled = append(labelled, fmt.Sprintf("%s) %s", label, strings.TrimSpace(opt)))
	}

	q := &model.Question{
		Text:         strings.TrimSpace(question),
		Options:      labelled,
		CorrectIndex: correctOption,
		Explanation:  strings.TrimSpace(caption),
		Priority:     model.PriorityUrgent,
		AutoCaptured: true,
	}
	if isWeak {
		q.Tags = model.StringList{weakTag}
	}
	if _, err := s.Questions.Create(q); err != nil {
		return nil, err
	}

	monitoring.IngestCounter.WithLabelValues("poll").Inc()
	return q, nil
}

// IngestCaption 媒体消息只按文字说明入库，不做任何图像识别。
// 同样属于自动采集，进 urgent 队列。
func (s *IngestService) IngestCaption(caption, mediaType, mediaID string) (*model.Question, error) {
	cleaned := s.Extractor.Clean(caption)
	ext := s.Extractor.Extract(cleaned)
	if strings.TrimSpace(ext.Text) == "" {
		return nil, util.ErrEmptyQuestionText
	}

	q := &model.Question{
		Text:         ext.Text,
		Options:      model.StringList(ext.Options),
		CorrectIndex: ext.CorrectIndex,
		Explanation:  ext.Explanation,
		Priority:     model.PriorityUrgent,
		MediaType:    mediaType,
		MediaID:      mediaID,
		AutoCaptured: true,
	}
	if _, err := s.Questions.Create(q); err != nil {
		return nil, err
	}

	monitoring.IngestCounter.WithLabelValues("caption").Inc()
	return q, nil
}
