package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz_master_backend/internal/config"
	"quiz_master_backend/internal/model"
	"quiz_master_backend/internal/util"
)

func newTestExportService(t *testing.T) (*ExportService, *QuestionService) {
	t.Helper()
	questions := newTestQuestionService(t)
	storage := &StorageService{Provider: &LocalStorageProvider{
		Config: &config.StorageConfig{LocalPath: t.TempDir()},
	}}
	return NewExportService(questions.Repo, questions, storage), questions
}

func TestExportImportRoundTrip(t *testing.T) {
	export, questions := newTestExportService(t)

	_, err := questions.Create(&model.Question{
		Text:         "سؤال أول",
		Options:      model.StringList{"أ) نعم", "ب) لا"},
		CorrectIndex: 0,
		Tags:         model.StringList{"فقه"},
	})
	require.NoError(t, err)

	id2, err := questions.Create(&model.Question{Text: "سؤال ثاني"})
	require.NoError(t, err)
	_, err = questions.SubmitReview(id2, 4)
	require.NoError(t, err)

	data, err := export.Export()
	require.NoError(t, err)

	var env map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &env))
	assert.Contains(t, env, "version")
	assert.Contains(t, env, "questions")

	// 导入到一套新库
	restore, restoreQuestions := newTestExportService(t)
	imported, err := restore.Import(data)
	require.NoError(t, err)
	assert.Equal(t, 2, imported)

	all, err := restoreQuestions.Repo.FindAll()
	require.NoError(t, err)
	require.Len(t, all, 2)

	// 调度状态原样保留
	assert.Equal(t, 1, all[1].TotalReviews)
	assert.Equal(t, 1.0, all[1].Interval)
	assert.Len(t, all[1].ReviewDates, 1)
	assert.Equal(t, model.StringList{"فقه"}, all[0].Tags)
}

func TestImportRejectsInvalidPayload(t *testing.T) {
	export, _ := newTestExportService(t)

	cases := [][]byte{
		[]byte("not json"),
		[]byte(`{"version": 99, "questions": []}`),
		[]byte(`{"version": 1}`),
		[]byte(`{}`),
	}
	for _, data := range cases {
		_, err := export.Import(data)
		assert.ErrorIs(t, err, util.ErrInvalidBackup)
	}
}

func TestBackupUploadsExport(t *testing.T) {
	export, questions := newTestExportService(t)

	_, err := questions.Create(&model.Question{Text: "سؤال"})
	require.NoError(t, err)

	url, err := export.Backup(context.Background())
	require.NoError(t, err)
	assert.Contains(t, url, "quiz-backup-")
	assert.Contains(t, url, ".json")
}

func TestExportedAtIsSet(t *testing.T) {
	export, _ := newTestExportService(t)

	data, err := export.Export()
	require.NoError(t, err)

	var env struct {
		ExportedAt time.Time `json:"exportedAt"`
	}
	require.NoError(t, json.Unmarshal(data, &env))
	assert.WithinDuration(t, time.Now(), env.ExportedAt, time.Minute)
}
