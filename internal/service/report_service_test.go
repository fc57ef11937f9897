package service

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"quiz_master_backend/internal/config"
	"quiz_master_backend/internal/model"
)

func TestComposeReport(t *testing.T) {
	questions := newTestQuestionService(t)

	id, err := questions.Create(&model.Question{Text: "سؤال"})
	require.NoError(t, err)
	_, err = questions.SubmitReview(id, 5)
	require.NoError(t, err)

	s := NewReportService(questions, &config.ReportConfig{Enabled: true, Hour: 21})

	text, err := s.Compose()
	require.NoError(t, err)

	assert.Contains(t, text, "تقرير اليوم")
	assert.Contains(t, text, "الأسئلة: 1")
	assert.Contains(t, text, "المراجعات: 1")
	assert.Contains(t, text, "سلسلة الأيام: 1")
	assert.Contains(t, text, "مبتدئ")
}

func TestNotifierSelection(t *testing.T) {
	questions := newTestQuestionService(t)

	s := NewReportService(questions, &config.ReportConfig{})
	assert.IsType(t, LogNotifier{}, s.Notifier)

	s = NewReportService(questions, &config.ReportConfig{WebhookURL: "http://example.com/hook"})
	assert.IsType(t, &WebhookNotifier{}, s.Notifier)
}

func TestWebhookNotifier(t *testing.T) {
	var got map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := &WebhookNotifier{URL: srv.URL, Client: &http.Client{Timeout: time.Second}}
	require.NoError(t, n.Notify("مرحبا"))
	assert.Equal(t, "مرحبا", got["text"])
}

func TestWebhookNotifierErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := &WebhookNotifier{URL: srv.URL, Client: &http.Client{Timeout: time.Second}}
	assert.Error(t, n.Notify("مرحبا"))
}
