package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"labourhub/internal/model"
	"labourhub/pkg/config"
	"labourhub/pkg/logger"
)

// WebhookNotifier posts accountability events to an external notification service.
// Delivery mechanics (SMS, push) live behind the webhook.
type WebhookNotifier struct {
	webhookURL string
	client     *http.Client
}

// NewWebhookNotifier creates a new webhook notifier
func NewWebhookNotifier(cfg config.NotificationConfig) *WebhookNotifier {
	// Priority: config file > environment variable
	webhookURL := cfg.WebhookURL
	if webhookURL == "" {
		webhookURL = os.Getenv("LABOURHUB_WEBHOOK_URL")
		if webhookURL != "" {
			logger.Info("Using notification webhook URL from environment variable")
		}
	}
	if webhookURL == "" {
		logger.Warn("notification webhook URL not configured, event notifications will be disabled")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = config.DefaultNotificationTimeout
	}
	return &WebhookNotifier{
		webhookURL: webhookURL,
		client:     &http.Client{Timeout: timeout},
	}
}

// EventNotification body posted to the webhook
type EventNotification struct {
	EventType     model.EventType `json:"event_type"`
	RequestID     string          `json:"request_id"`
	CoordinatorID string          `json:"coordinator_id,omitempty"`
	ActorType     model.ActorType `json:"actor_type"`
	ActorID       string          `json:"actor_id,omitempty"`
	Data          model.EventData `json:"data"`
	Summary       string          `json:"summary"`
	Timestamp     time.Time       `json:"timestamp"`
}

// Enabled reports whether a webhook is configured
func (n *WebhookNotifier) Enabled() bool {
	return n.webhookURL != ""
}

// Name implements interfaces.EventSink
func (n *WebhookNotifier) Name() string {
	return "webhook"
}

// Deliver implements interfaces.EventSink
func (n *WebhookNotifier) Deliver(ctx context.Context, entry *model.LabourLog) error {
	return n.Send(ctx, entry)
}

// Send posts one entry
func (n *WebhookNotifier) Send(ctx context.Context, entry *model.LabourLog) error {
	if n.webhookURL == "" {
		logger.DebugCtx(ctx, "webhook URL not configured, skipping notification")
		return nil
	}

	payload, err := json.Marshal(BuildNotification(entry))
	if err != nil {
		return fmt.Errorf("failed to marshal notification: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.webhookURL, bytes.NewBuffer(payload))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status code: %d", resp.StatusCode)
	}

	logger.DebugCtx(ctx, "notification sent for request %s, event %s", entry.RequestID, entry.EventType)
	return nil
}

// BuildNotification renders a log entry for external consumers
func BuildNotification(entry *model.LabourLog) *EventNotification {
	return &EventNotification{
		EventType:     entry.EventType,
		RequestID:     entry.RequestID,
		CoordinatorID: entry.CoordinatorID,
		ActorType:     entry.ActorType,
		ActorID:       entry.ActorID,
		Data:          entry.EventData,
		Summary:       summarize(entry),
		Timestamp:     entry.Timestamp,
	}
}

func summarize(entry *model.LabourLog) string {
	d := entry.EventData
	switch entry.EventType {
	case model.EventRequestCreated:
		return "New labour request created"
	case model.EventCoordinatorAssigned:
		return fmt.Sprintf("Request routed to coordinator %s", entry.CoordinatorID)
	case model.EventCoordinatorAccepted:
		return "Coordinator accepted the request"
	case model.EventCoordinatorDeclined:
		return fmt.Sprintf("Coordinator declined the request: %s", orDash(d.Reason))
	case model.EventWorkerAssigned:
		return fmt.Sprintf("Worker %s assigned", d.WorkerID)
	case model.EventWorkerConfirmed:
		return fmt.Sprintf("Worker %s confirmed", d.WorkerID)
	case model.EventWorkerCancelled:
		return fmt.Sprintf("Worker %s cancelled: %s", d.WorkerID, orDash(d.Reason))
	case model.EventReplacementSuggested:
		return "Replacement candidates proposed"
	case model.EventReplacementMade:
		return fmt.Sprintf("Worker %s replaced by %s", d.PreviousWorkerID, d.WorkerID)
	case model.EventWorkStarted:
		return "Work started"
	case model.EventWorkCompleted:
		return "Work completed"
	case model.EventRequestCancelled:
		return fmt.Sprintf("Request cancelled by %s: %s", entry.ActorType, orDash(d.Reason))
	case model.EventRequestFailed:
		return fmt.Sprintf("Request failed: %s", orDash(d.Reason))
	case model.EventFeedbackSubmitted:
		if d.Rating != nil {
			return fmt.Sprintf("Farmer rated the work %d/5", *d.Rating)
		}
		return "Farmer submitted feedback"
	}
	return string(entry.EventType)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
