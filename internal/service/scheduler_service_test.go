package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/util"
)

func newScheduledQuestion() model.Question {
	return model.Question{
		ID:         1,
		Text:       "سؤال للاختبار",
		EaseFactor: InitialEaseFactor,
		Priority:   model.PriorityNormal,
	}
}

func TestReviewSuccessIntervalProgression(t *testing.T) {
	s := NewSchedulerService()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	q := newScheduledQuestion()
	var err error

	// quality 4 时易度系数保持 2.5，间隔应走 1 → 6 → round(6*2.5)
	q, err = s.Review(q, 4, now)
	require.NoError(t, err)
	assert.Equal(t, 1.0, q.Interval)
	assert.Equal(t, 1, q.Repetitions)

	q, err = s.Review(q, 4, now.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 6.0, q.Interval)

	q, err = s.Review(q, 4, now.AddDate(0, 0, 7))
	require.NoError(t, err)
	assert.Equal(t, 15.0, q.Interval)

	assert.Equal(t, InitialEaseFactor, q.EaseFactor)
	assert.Equal(t, 3, q.CorrectCount)
	assert.Equal(t, 3, q.Streak)
	assert.Len(t, q.ReviewDates, 3)
}

func TestReviewFailureResets(t *testing.T) {
	s := NewSchedulerService()
	now := time.Now().UTC()

	q := newScheduledQuestion()
	q.Repetitions = 4
	q.Interval = 30
	q.Streak = 4
	q.CorrectCount = 4

	q, err := s.Review(q, 1, now)
	require.NoError(t, err)

	assert.Equal(t, 0, q.Repetitions)
	assert.Equal(t, 1.0, q.Interval)
	assert.Equal(t, 0, q.Streak)
	assert.Equal(t, 1, q.WrongCount)
	assert.Equal(t, 4, q.CorrectCount)
	// 失败仍计一次复习并压低易度系数
	assert.Equal(t, 1, q.TotalReviews)
	assert.Less(t, q.EaseFactor, InitialEaseFactor)
	// 明天重试
	assert.Equal(t, now.Add(24*time.Hour).Unix(), q.NextReview.Unix())
}

func TestReviewEasyBonus(t *testing.T) {
	s := NewSchedulerService()
	now := time.Now().UTC()

	q, err := s.Review(newScheduledQuestion(), 5, now)
	require.NoError(t, err)

	assert.InDelta(t, 1.3, q.Interval, 1e-9)
	assert.InDelta(t, 2.6, q.EaseFactor, 1e-9)
}

func TestReviewEaseFloor(t *testing.T) {
	s := NewSchedulerService()
	now := time.Now().UTC()

	q := newScheduledQuestion()
	q.EaseFactor = 1.35

	// quality 3 每次降 0.14，必须停在 1.3 而不是继续下探
	q, err := s.Review(q, 3, now)
	require.NoError(t, err)
	assert.Equal(t, MinEaseFactor, q.EaseFactor)

	q, err = s.Review(q, 3, now)
	require.NoError(t, err)
	assert.Equal(t, MinEaseFactor, q.EaseFactor)
}

func TestReviewCappedEasePolicy(t *testing.T) {
	s := &SchedulerService{Ease: CappedEase}
	now := time.Now().UTC()

	q, err := s.Review(newScheduledQuestion(), 5, now)
	require.NoError(t, err)
	assert.Equal(t, InitialEaseFactor, q.EaseFactor)
}

func TestReviewInvalidQualityLeavesQuestionUnchanged(t *testing.T) {
	s := NewSchedulerService()
	now := time.Now().UTC()

	orig := newScheduledQuestion()
	orig.TotalReviews = 7

	for _, quality := range []int{-1, 6, 100} {
		got, err := s.Review(orig, quality, now)
		assert.ErrorIs(t, err, util.ErrInvalidQuality)
		assert.Equal(t, orig, got)
	}
}

func TestReviewDoesNotMutateInput(t *testing.T) {
	s := NewSchedulerService()
	now := time.Now().UTC()

	orig := newScheduledQuestion()
	orig.ReviewDates = model.StringList{"2026-02-01T10:00:00Z"}
	before := orig

	updated, err := s.Review(orig, 4, now)
	require.NoError(t, err)

	assert.Equal(t, before, orig)
	assert.Len(t, updated.ReviewDates, 2)
	assert.Len(t, orig.ReviewDates, 1)
}

func TestReclassifyPriority(t *testing.T) {
	s := NewSchedulerService()
	now := time.Now().UTC()

	// 三次答错后升为 urgent
	q := newScheduledQuestion()
	q.WrongCount = 2
	q, err := s.Review(q, 0, now)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityUrgent, q.Priority)

	// urgent 且答对满5次降回 normal
	q = newScheduledQuestion()
	q.Priority = model.PriorityUrgent
	q.CorrectCount = 4
	q, err = s.Review(q, 4, now)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityNormal, q.Priority)

	// normal 且答对满10次降为 low
	q = newScheduledQuestion()
	q.CorrectCount = 9
	q, err = s.Review(q, 4, now)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityLow, q.Priority)

	// 错误阈值优先于答对阈值
	q = newScheduledQuestion()
	q.Priority = model.PriorityUrgent
	q.WrongCount = 3
	q.CorrectCount = 5
	q, err = s.Review(q, 4, now)
	require.NoError(t, err)
	assert.Equal(t, model.PriorityUrgent, q.Priority)
}

func TestQualityMappings(t *testing.T) {
	assert.Equal(t, 5, QualityFromAnswer(true))
	assert.Equal(t, 0, QualityFromAnswer(false))

	assert.Equal(t, 0, QualityFromLabel("again"))
	assert.Equal(t, 3, QualityFromLabel("hard"))
	assert.Equal(t, 4, QualityFromLabel("good"))
	assert.Equal(t, 5, QualityFromLabel("easy"))
	assert.Equal(t, 4, QualityFromLabel("unknown"))
}
