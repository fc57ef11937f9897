package service

import (
	"math/rand"
	"sort"
	"time"

	"quiz_master_backend/internal/model"
)

// weakRatioThreshold weak 模式的错误率门槛
const weakRatioThreshold = 0.3

// SelectorStrategy 从候选池中挑出下一题。候选池已按模式过滤且非空。
type SelectorStrategy func(candidates []model.Question, now time.Time) *model.Question

// SelectorService 按复习模式从题库快照中选出下一题
type SelectorService struct {
	Strategy SelectorStrategy
}

func NewSelectorService() *SelectorService {
	return &SelectorService{Strategy: RankedStrategy}
}

// Next 过滤 + 排除 + 策略选择。候选池为空时返回 nil。
func (s *SelectorService) Next(questions []model.Question, mode model.ReviewMode, tag string, excludeID uint, now time.Time) *model.Question {
	candidates := filterByMode(questions, mode, tag, now)

	if excludeID != 0 {
		kept := candidates[:0]
		for _, q := range candidates {
			if q.ID != excludeID {
				kept = append(kept, q)
			}
		}
		candidates = kept
	}

	if len(candidates) == 0 {
		return nil
	}

	strategy := s.Strategy
	if strategy == nil {
		strategy = RankedStrategy
	}
	return strategy(candidates, now)
}

func filterByMode(questions []model.Question, mode model.ReviewMode, tag string, now time.Time) []model.Question {
	out := make([]model.Question, 0, len(questions))
	for _, q := range questions {
		switch mode {
		case model.ModeDue:
			if !q.IsDue(now) {
				continue
			}
		case model.ModeWeak:
			if q.TotalReviews == 0 || q.WrongRatio() <= weakRatioThreshold {
				continue
			}
		case model.ModeTag:
			if !q.HasTag(tag) {
				continue
			}
		}
		out = append(out, q)
	}
	return out
}

// RankedStrategy 规范策略：到期优先，其次错误率降序，最后按 id 降序
// 保证确定性
func RankedStrategy(candidates []model.Question, now time.Time) *model.Question {
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]

		aDue, bDue := a.IsDue(now), b.IsDue(now)
		if aDue != bDue {
			return aDue
		}

		ar, br := a.WrongRatio(), b.WrongRatio()
		if ar != br {
			return ar > br
		}

		return a.ID > b.ID
	})
	return &candidates[0]
}

// LeastReviewedStrategy 备选策略：在复习次数最少的题目中均匀随机，
// 用于 all 模式下摊平从未复习题目的覆盖
func LeastReviewedStrategy(candidates []model.Question, now time.Time) *model.Question {
	minReviews := candidates[0].TotalReviews
	for _, q := range candidates[1:] {
		if q.TotalReviews < minReviews {
			minReviews = q.TotalReviews
		}
	}

	pool := make([]int, 0, len(candidates))
	for i, q := range candidates {
		if q.TotalReviews == minReviews {
			pool = append(pool, i)
		}
	}

	return &candidates[pool[rand.Intn(len(pool))]]
}
