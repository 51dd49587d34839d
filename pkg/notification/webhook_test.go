package notification

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleEntry() *model.LabourLog {
	return &model.LabourLog{
		ID:            "log-1",
		RequestID:     "req-1",
		CoordinatorID: "coord-1",
		ActorType:     model.ActorCoordinator,
		ActorID:       "coord-1",
		EventType:     model.EventReplacementMade,
		EventData:     model.EventData{WorkerID: "w-2", PreviousWorkerID: "w-1", Reason: "sick"},
		Timestamp:     time.Date(2025, 3, 10, 7, 0, 0, 0, time.UTC),
	}
}

func TestSend_PostsJSON(t *testing.T) {
	var got EventNotification
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(config.NotificationConfig{WebhookURL: srv.URL})
	require.True(t, n.Enabled())
	require.NoError(t, n.Send(context.Background(), sampleEntry()))

	assert.Equal(t, model.EventReplacementMade, got.EventType)
	assert.Equal(t, "req-1", got.RequestID)
	assert.Equal(t, "Worker w-1 replaced by w-2", got.Summary)
}

func TestSend_Non2xxIsError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(config.NotificationConfig{WebhookURL: srv.URL, Timeout: time.Second})
	err := n.Deliver(context.Background(), sampleEntry())
	assert.Error(t, err)
}

func TestSend_DisabledIsNoop(t *testing.T) {
	t.Setenv("LABOURHUB_WEBHOOK_URL", "")
	n := NewWebhookNotifier(config.NotificationConfig{})
	assert.False(t, n.Enabled())
	assert.NoError(t, n.Send(context.Background(), sampleEntry()))
}

func TestSummaries(t *testing.T) {
	rating := 4
	tests := []struct {
		entry *model.LabourLog
		want  string
	}{
		{&model.LabourLog{EventType: model.EventWorkerCancelled, EventData: model.EventData{WorkerID: "w-1"}}, "Worker w-1 cancelled: -"},
		{&model.LabourLog{EventType: model.EventFeedbackSubmitted, EventData: model.EventData{Rating: &rating}}, "Farmer rated the work 4/5"},
		{&model.LabourLog{EventType: model.EventRequestCancelled, ActorType: model.ActorFarmer, EventData: model.EventData{Reason: "rain"}}, "Request cancelled by farmer: rain"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, BuildNotification(tt.entry).Summary)
	}
}
