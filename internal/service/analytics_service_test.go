package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"quiz_master_backend/internal/model"
)

var reportNow = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func day(offset int) string {
	return reportNow.AddDate(0, 0, offset).Format("2006-01-02") + "T09:00:00Z"
}

func TestCalculateStreak(t *testing.T) {
	assert.Equal(t, 0, CalculateStreak(nil, reportNow))
	assert.Equal(t, 0, CalculateStreak([]string{}, reportNow))

	// 连续三天且以今天收尾
	dates := []string{day(0), day(-1), day(-2)}
	assert.Equal(t, 3, CalculateStreak(dates, reportNow))

	// 同一天多条记录只算一天
	dates = append(dates, day(0), day(-1))
	assert.Equal(t, 3, CalculateStreak(dates, reportNow))

	// 空档中断
	gapped := []string{day(0), day(-1), day(-3), day(-4)}
	assert.Equal(t, 2, CalculateStreak(gapped, reportNow))

	// 今天没复习就是 0，即使昨天有长串
	stale := []string{day(-1), day(-2), day(-3)}
	assert.Equal(t, 0, CalculateStreak(stale, reportNow))
}

func TestMaxRunStreak(t *testing.T) {
	assert.Equal(t, 0, MaxRunStreak(nil, reportNow))

	// 历史最长串与今天无关
	dates := []string{day(-10), day(-9), day(-8), day(-7), day(-1), day(0)}
	assert.Equal(t, 4, MaxRunStreak(dates, reportNow))
}

func TestPredictScoreWeighting(t *testing.T) {
	s := NewAnalyticsService()

	questions := []model.Question{
		{Tags: model.StringList{"فيزياء"}, TotalReviews: 20, CorrectCount: 20},
		{Tags: model.StringList{"كيمياء"}, TotalReviews: 20, CorrectCount: 0},
	}

	p := s.PredictScore(questions)

	// 两个标签复习量相同，整体应落在中点
	assert.InDelta(t, 50.0, p.Overall, 0.1)
	assert.Equal(t, 100.0, p.ByTag["فيزياء"].Score)
	assert.Equal(t, 0.0, p.ByTag["كيمياء"].Score)
	assert.Equal(t, 40, p.TotalReviewed)

	// 把高分标签的复习量放大，整体预测应被拉高
	questions[0].TotalReviews = 200
	questions[0].CorrectCount = 200
	p = s.PredictScore(questions)
	assert.Greater(t, p.Overall, 50.0)
}

func TestPredictScoreUntaggedBucket(t *testing.T) {
	s := NewAnalyticsService()

	questions := []model.Question{
		{TotalReviews: 10, CorrectCount: 10},
	}

	p := s.PredictScore(questions)

	// 无标签题参与整体预测但不出现在分标签表里
	assert.Equal(t, 100.0, p.Overall)
	assert.Empty(t, p.ByTag)
}

func TestPredictScoreEmpty(t *testing.T) {
	s := NewAnalyticsService()

	p := s.PredictScore(nil)
	assert.Equal(t, 0.0, p.Overall)
	assert.Equal(t, "low", p.Confidence)
	assert.Equal(t, 0, p.TotalReviewed)
}

func TestPredictConfidence(t *testing.T) {
	s := NewAnalyticsService()

	mk := func(total int) []model.Question {
		return []model.Question{{TotalReviews: total, CorrectCount: total}}
	}

	assert.Equal(t, "low", s.PredictScore(mk(49)).Confidence)
	assert.Equal(t, "medium", s.PredictScore(mk(50)).Confidence)
	assert.Equal(t, "medium", s.PredictScore(mk(199)).Confidence)
	assert.Equal(t, "high", s.PredictScore(mk(200)).Confidence)
}

func TestLevelInfo(t *testing.T) {
	s := NewAnalyticsService()

	lvl := s.LevelInfo(0)
	assert.Equal(t, 1, lvl.Level)
	assert.Equal(t, "مبتدئ", lvl.Name)
	assert.Equal(t, 10, lvl.XPNeeded)

	lvl = s.LevelInfo(9)
	assert.Equal(t, 1, lvl.Level)
	assert.Equal(t, 9, lvl.XP)

	lvl = s.LevelInfo(10)
	assert.Equal(t, 2, lvl.Level)
	assert.Equal(t, "نشيط", lvl.Name)
	assert.Equal(t, 0, lvl.XP)

	lvl = s.LevelInfo(260)
	assert.Equal(t, 6, lvl.Level)
	assert.Equal(t, "أسطورة", lvl.Name)
	assert.Equal(t, 10, lvl.XP)
	assert.Equal(t, 250, lvl.XPNeeded)

	// 最高级之后每 100 次一档
	lvl = s.LevelInfo(640)
	assert.Equal(t, 7, lvl.Level)
	assert.Equal(t, "عبقري", lvl.Name)
	assert.Equal(t, 140, lvl.XP)
	assert.Equal(t, 100, lvl.XPNeeded)
}

func TestFullReportEmpty(t *testing.T) {
	s := NewAnalyticsService()

	r := s.FullReport(nil, reportNow)
	assert.Equal(t, 0, r.TotalQuestions)
	assert.Equal(t, 0, r.TotalReviews)
	assert.Equal(t, 0, r.StreakDays)
	assert.Equal(t, 1, r.Level.Level)
	assert.Equal(t, 0.0, r.Prediction.Overall)
}

func TestFullReport(t *testing.T) {
	s := NewAnalyticsService()

	questions := []model.Question{
		{
			EaseFactor:   2.6,
			TotalReviews: 5,
			CorrectCount: 5,
			NextReview:   reportNow.Add(-time.Hour),
			ReviewDates:  model.StringList{day(0), day(-1)},
			AutoCaptured: true,
		},
		{
			EaseFactor:   1.5,
			TotalReviews: 10,
			CorrectCount: 4,
			WrongCount:   6,
			NextReview:   reportNow.Add(72 * time.Hour),
		},
	}

	r := s.FullReport(questions, reportNow)

	assert.Equal(t, 2, r.TotalQuestions)
	assert.Equal(t, 15, r.TotalReviews)
	assert.Equal(t, 2, r.StreakDays)
	assert.Equal(t, 1, r.StrongCount)
	assert.Equal(t, 1, r.WeakCount)
	assert.Equal(t, 1, r.DueToday)
	assert.Equal(t, 1, r.AutoCaptured)
	assert.Equal(t, 2, r.Level.Level)
}
