package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"quiz_master_backend/internal/model"
)

func newTestRepo(t *testing.T) *QuestionRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// :memory: 数据库按连接隔离，必须固定单连接
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&model.Question{}))
	return NewQuestionRepository(db)
}

func TestCreateSetsDefaults(t *testing.T) {
	repo := newTestRepo(t)

	q := &model.Question{Text: "سؤال جديد", EaseFactor: 2.5}
	require.NoError(t, repo.Create(q))
	assert.NotZero(t, q.ID)
	assert.False(t, q.CreatedAt.IsZero())
	// 新题立即到期
	assert.Equal(t, q.CreatedAt, q.NextReview)
}

func TestFindByIDNotFound(t *testing.T) {
	repo := newTestRepo(t)

	_, err := repo.FindByID(42)
	assert.True(t, IsNotFound(err))
}

func TestUpdateRoundTrip(t *testing.T) {
	repo := newTestRepo(t)

	q := &model.Question{
		Text:       "سؤال",
		Options:    model.StringList{"أ) نعم", "ب) لا"},
		Tags:       model.StringList{"فقه"},
		EaseFactor: 2.5,
		Priority:   model.PriorityNormal,
	}
	require.NoError(t, repo.Create(q))

	q.EaseFactor = 2.36
	q.TotalReviews = 3
	q.ReviewDates = model.StringList{"2026-03-01T10:00:00Z"}
	require.NoError(t, repo.Update(q))

	got, err := repo.FindByID(q.ID)
	require.NoError(t, err)
	assert.Equal(t, 2.36, got.EaseFactor)
	assert.Equal(t, 3, got.TotalReviews)
	assert.Equal(t, model.StringList{"أ) نعم", "ب) لا"}, got.Options)
	assert.Equal(t, model.StringList{"2026-03-01T10:00:00Z"}, got.ReviewDates)
}

func TestDeleteReportsExistence(t *testing.T) {
	repo := newTestRepo(t)

	q := &model.Question{Text: "سؤال"}
	require.NoError(t, repo.Create(q))

	ok, err := repo.Delete(q.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Delete(q.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFindDueOrdering(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC()

	mk := func(text string, next time.Time) {
		require.NoError(t, repo.Create(&model.Question{Text: text, NextReview: next}))
	}
	mk("متأخر جدا", now.Add(-48*time.Hour))
	mk("متأخر", now.Add(-time.Hour))
	mk("غير مستحق", now.Add(24*time.Hour))

	due, err := repo.FindDue(now, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, "متأخر جدا", due[0].Text)
	assert.Equal(t, "متأخر", due[1].Text)

	due, err = repo.FindDue(now, 1)
	require.NoError(t, err)
	assert.Len(t, due, 1)
}

func TestFindWeakestSkipsUnreviewed(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Create(&model.Question{Text: "لم يراجع", EaseFactor: 1.3}))
	require.NoError(t, repo.Create(&model.Question{Text: "ضعيف", EaseFactor: 1.4, TotalReviews: 5, WrongCount: 4}))
	require.NoError(t, repo.Create(&model.Question{Text: "قوي", EaseFactor: 2.8, TotalReviews: 5}))

	weakest, err := repo.FindWeakest(10)
	require.NoError(t, err)
	require.Len(t, weakest, 2)
	assert.Equal(t, "ضعيف", weakest[0].Text)
}

func TestSearch(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Create(&model.Question{Text: "ما هي عاصمة فرنسا؟"}))
	require.NoError(t, repo.Create(&model.Question{Text: "ما هي عاصمة ألمانيا؟"}))
	require.NoError(t, repo.Create(&model.Question{Text: "كم عدد الكواكب؟"}))

	got, err := repo.Search("عاصمة", 10)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = repo.Search("المحيطات", 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFindByTagAndAllTags(t *testing.T) {
	repo := newTestRepo(t)

	require.NoError(t, repo.Create(&model.Question{Text: "س1", Tags: model.StringList{"نحو", "صرف"}}))
	require.NoError(t, repo.Create(&model.Question{Text: "س2", Tags: model.StringList{"نحو"}}))
	require.NoError(t, repo.Create(&model.Question{Text: "س3"}))

	tagged, err := repo.FindByTag("نحو")
	require.NoError(t, err)
	assert.Len(t, tagged, 2)

	tagged, err = repo.FindByTag("بلاغة")
	require.NoError(t, err)
	assert.Empty(t, tagged)

	tags, err := repo.AllTags()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"نحو", "صرف"}, tags)
}

func TestStats(t *testing.T) {
	repo := newTestRepo(t)
	now := time.Now().UTC()

	require.NoError(t, repo.Create(&model.Question{
		Text: "س1", Priority: model.PriorityUrgent, EaseFactor: 2.0,
		TotalReviews: 4, NextReview: now.Add(-time.Hour), AutoCaptured: true,
	}))
	require.NoError(t, repo.Create(&model.Question{
		Text: "س2", Priority: model.PriorityNormal, EaseFactor: 3.0,
		TotalReviews: 6, NextReview: now.Add(time.Hour),
	}))

	stats, err := repo.Stats(now)
	require.NoError(t, err)

	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Due)
	assert.Equal(t, 10, stats.TotalReviews)
	assert.Equal(t, 1, stats.AutoCaptured)
	assert.Equal(t, 1, stats.ByPriority[model.PriorityUrgent])
	assert.Equal(t, 1, stats.ByPriority[model.PriorityNormal])
	assert.Equal(t, 0, stats.ByPriority[model.PriorityLow])
	assert.Equal(t, 2.5, stats.AvgEase)
}

func TestStatsEmptyStore(t *testing.T) {
	repo := newTestRepo(t)

	stats, err := repo.Stats(time.Now().UTC())
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Due)
	assert.Equal(t, 2.5, stats.AvgEase)
}
