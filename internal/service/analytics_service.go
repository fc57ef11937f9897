package service

import (
	"math"
	"sort"
	"time"

	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/util"
)

// StreakFunc 连续天数的计算口径（见 CalculateStreak / MaxRunStreak）
type StreakFunc func(reviewDates []string, today time.Time) int

// AnalyticsService 在题库快照上计算预测、连续天数和等级。
// 所有聚合对空集返回零值而不是报错。
type AnalyticsService struct {
	Streak StreakFunc
}

func NewAnalyticsService() *AnalyticsService {
	return &AnalyticsService{Streak: CalculateStreak}
}

// levelTable 等级阈值表（累计复习次数升序）
var levelTable = []struct {
	Threshold int
	Name      string
	Badge     string
}{
	{0, "مبتدئ", "🌱"},
	{10, "نشيط", "🌿"},
	{25, "مجتهد", "🍀"},
	{50, "خبير", "🏅"},
	{100, "محترف", "👑"},
	{250, "أسطورة", "🔥"},
	{500, "عبقري", "💎"},
}

// PredictScore 按标签加权的成绩预测。无标签题目归入一个伪标签桶；
// 权重取 log1p(复习次数)，复习多的标签占比大但不线性碾压。
func (s *AnalyticsService) PredictScore(questions []model.Question) model.ScorePrediction {
	byTag := make(map[string]model.TagScore)
	type bucket struct{ correct, total int }
	tagData := make(map[string]*bucket)
	untagged := &bucket{}

	totalReviewed := 0
	for _, q := range questions {
		totalReviewed += q.TotalReviews
		if q.TotalReviews == 0 {
			continue
		}
		if len(q.Tags) == 0 {
			untagged.correct += q.CorrectCount
			untagged.total += q.TotalReviews
			continue
		}
		for _, tag := range q.Tags {
			b, ok := tagData[tag]
			if !ok {
				b = &bucket{}
				tagData[tag] = b
			}
			b.correct += q.CorrectCount
			b.total += q.TotalReviews
		}
	}

	var weightedSum, totalWeight float64
	for tag, b := range tagData {
		if b.total == 0 {
			continue
		}
		rate := float64(b.correct) / float64(b.total)
		weight := math.Log1p(float64(b.total))
		byTag[tag] = model.TagScore{
			Score:   round1(rate * 100),
			Correct: b.correct,
			Total:   b.total,
		}
		weightedSum += rate * weight
		totalWeight += weight
	}

	if untagged.total > 0 {
		rate := float64(untagged.correct) / float64(untagged.total)
		weight := math.Log1p(float64(untagged.total))
		weightedSum += rate * weight
		totalWeight += weight
	}

	overall := 0.0
	if totalWeight > 0 {
		overall = round1(weightedSum / totalWeight * 100)
	}

	return model.ScorePrediction{
		Overall:       overall,
		ByTag:         byTag,
		Confidence:    confidence(totalReviewed),
		TotalReviewed: totalReviewed,
	}
}

func confidence(totalReviewed int) string {
	switch {
	case totalReviewed >= 200:
		return "high"
	case totalReviewed >= 50:
		return "medium"
	default:
		return "low"
	}
}

// CalculateStreak 规范口径：从今天往回数，有复习记录的连续天数，
// 遇到第一个空档即中断。它驱动每日提醒，所以必须以今天收尾。
func CalculateStreak(reviewDates []string, today time.Time) int {
	if len(reviewDates) == 0 {
		return 0
	}

	days := make(map[string]bool, len(reviewDates))
	for _, d := range reviewDates {
		if len(d) >= 10 {
			days[d[:10]] = true
		}
	}

	streak := 0
	day := today.UTC()
	for days[day.Format(util.DateFormat)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// MaxRunStreak 备选口径：历史上最长的连续复习天数，与今天无关
func MaxRunStreak(reviewDates []string, _ time.Time) int {
	if len(reviewDates) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(reviewDates))
	var days []time.Time
	for _, d := range reviewDates {
		if len(d) < 10 {
			continue
		}
		key := d[:10]
		if seen[key] {
			continue
		}
		seen[key] = true
		t, err := time.Parse(util.DateFormat, key)
		if err != nil {
			continue
		}
		days = append(days, t)
	}
	if len(days) == 0 {
		return 0
	}

	sort.Slice(days, func(i, j int) bool { return days[i].Before(days[j]) })

	maxRun, run := 1, 1
	for i := 1; i < len(days); i++ {
		if days[i].Sub(days[i-1]) == 24*time.Hour {
			run++
			if run > maxRun {
				maxRun = run
			}
		} else {
			run = 1
		}
	}
	return maxRun
}

// LevelInfo 按累计复习次数查表。xp 为当前等级内的进度。
func (s *AnalyticsService) LevelInfo(totalReviews int) model.LevelInfo {
	idx := 0
	for i, lvl := range levelTable {
		if totalReviews >= lvl.Threshold {
			idx = i
		}
	}

	current := levelTable[idx]
	nextThreshold := current.Threshold + 100 // 最高级之后每 100 次一档
	if idx+1 < len(levelTable) {
		nextThreshold = levelTable[idx+1].Threshold
	}

	return model.LevelInfo{
		Level:        idx + 1,
		Name:         current.Name,
		Badge:        current.Badge,
		XP:           totalReviews - current.Threshold,
		XPNeeded:     nextThreshold - current.Threshold,
		TotalReviews: totalReviews,
	}
}

// FullReport 每日报告使用的聚合视图
func (s *AnalyticsService) FullReport(questions []model.Question, now time.Time) model.FullReport {
	if len(questions) == 0 {
		return model.FullReport{
			Level:      s.LevelInfo(0),
			Prediction: s.PredictScore(nil),
		}
	}

	totalReviews := 0
	autoCaptured := 0
	strong := 0
	due := 0
	var allDates []string
	for _, q := range questions {
		totalReviews += q.TotalReviews
		allDates = append(allDates, q.ReviewDates...)
		if q.AutoCaptured {
			autoCaptured++
		}
		if q.EaseFactor >= InitialEaseFactor && q.CorrectCount >= 3 {
			strong++
		}
		if q.IsDue(now) {
			due++
		}
	}

	weak := 0
	for _, q := range questions {
		if q.TotalReviews > 0 && q.WrongRatio() > weakRatioThreshold {
			weak++
		}
	}

	streakFn := s.Streak
	if streakFn == nil {
		streakFn = CalculateStreak
	}

	return model.FullReport{
		TotalQuestions: len(questions),
		TotalReviews:   totalReviews,
		StreakDays:     streakFn(allDates, now),
		Level:          s.LevelInfo(totalReviews),
		StrongCount:    strong,
		WeakCount:      weak,
		DueToday:       due,
		Prediction:     s.PredictScore(questions),
		AutoCaptured:   autoCaptured,
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
