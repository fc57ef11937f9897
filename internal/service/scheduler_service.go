package service

import (
	"math"
	"time"

	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/util"
)

const (
	MinEaseFactor     = 1.3
	InitialEaseFactor = 2.5
	easyBonus         = 1.3
	qualityFailureMax = 2 // 0-2 算失败
)

// EasePolicy 易度系数的边界策略。不同部署版本对上限 2.5 的取舍不一致，
// 这里做成可替换策略，默认只保底不封顶。
type EasePolicy func(float64) float64

// FloorEase 规范策略：仅保证不低于 1.3
func FloorEase(ef float64) float64 {
	if ef < MinEaseFactor {
		return MinEaseFactor
	}
	return ef
}

// CappedEase 备选策略：在 1.3 之上再封顶 2.5
func CappedEase(ef float64) float64 {
	ef = FloorEase(ef)
	if ef > InitialEaseFactor {
		return InitialEaseFactor
	}
	return ef
}

// SchedulerService SM-2 变体调度器。Review 是纯值变换：
// 入参 Question 不被修改，所有派生字段要么全部更新要么全部不更新。
type SchedulerService struct {
	Ease EasePolicy
}

func NewSchedulerService() *SchedulerService {
	return &SchedulerService{Ease: FloorEase}
}

// Review 把一次复习结果应用到题目上。quality 取值 [0,5]，
// 越界时原样返回并报 ErrInvalidQuality。
func (s *SchedulerService) Review(q model.Question, quality int, now time.Time) (model.Question, error) {
	if quality < 0 || quality > 5 {
		return q, util.ErrInvalidQuality
	}

	now = now.UTC()

	// 复制追加，避免和调用方持有的快照共享底层数组
	q.ReviewDates = append(append(model.StringList{}, q.ReviewDates...), now.Format(time.RFC3339))
	q.TotalReviews++

	if quality <= qualityFailureMax {
		q.Repetitions = 0
		q.Interval = 1
		q.Streak = 0
		q.WrongCount++
	} else {
		q.Repetitions++
		q.Streak++
		q.CorrectCount++

		switch q.Repetitions {
		case 1:
			q.Interval = 1
		case 2:
			q.Interval = 6
		default:
			q.Interval = math.Round(q.Interval * q.EaseFactor)
		}
		if quality == 5 {
			q.Interval = q.Interval * easyBonus
		}
	}

	fq := float64(quality)
	q.EaseFactor = s.easePolicy()(q.EaseFactor + 0.1 - (5-fq)*(0.08+(5-fq)*0.02))

	days := q.Interval
	if days < 1 {
		days = 1
	}
	q.NextReview = now.Add(time.Duration(days * 24 * float64(time.Hour)))
	q.LastReview = &now

	q.Priority = reclassifyPriority(q)

	return q, nil
}

func (s *SchedulerService) easePolicy() EasePolicy {
	if s.Ease == nil {
		return FloorEase
	}
	return s.Ease
}

// reclassifyPriority 复习后的优先级再分类。三个阈值按固定顺序判定，
// 重复施加是幂等的。
func reclassifyPriority(q model.Question) model.Priority {
	switch {
	case q.WrongCount >= 3:
		return model.PriorityUrgent
	case q.CorrectCount >= 5 && q.Priority == model.PriorityUrgent:
		return model.PriorityNormal
	case q.CorrectCount >= 10 && q.Priority == model.PriorityNormal:
		return model.PriorityLow
	default:
		return q.Priority
	}
}

// QualityFromAnswer 交互式作答：选对计 5，选错计 0
func QualityFromAnswer(correct bool) int {
	if correct {
		return 5
	}
	return 0
}

// QualityFromLabel 用户侧评分按钮到 quality 的映射
func QualityFromLabel(label string) int {
	switch label {
	case "again":
		return 0
	case "hard":
		return 3
	case "easy":
		return 5
	default: // good
		return 4
	}
}
