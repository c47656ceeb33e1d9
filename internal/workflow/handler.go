package workflow

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/converso/chat-api/internal/domain"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// WebhookPayload is what the worker delivers to the downstream processor
type WebhookPayload struct {
	Workflow  string             `json:"workflow"`
	TriggerID string             `json:"trigger_id"`
	SessionID string             `json:"session_id"`
	Message   domain.MessageView `json:"message"`
}

// Handler consumes workflow tasks and delivers webhook payloads downstream.
// A non-nil return makes asynq retry the task per queue policy.
type Handler struct {
	messages   domain.MessageRepository
	sessions   domain.SessionRepository
	webhookURL string
	httpClient *http.Client
}

// NewHandler creates a worker-side task handler
func NewHandler(messages domain.MessageRepository, sessions domain.SessionRepository, webhookURL string) *Handler {
	return &Handler{
		messages:   messages,
		sessions:   sessions,
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// Register attaches the task handlers to the mux
func (h *Handler) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeChatWorkflow, h.ProcessTask)
	mux.HandleFunc(TypeSuggestionWorkflow, h.ProcessTask)
}

// ProcessTask loads the message referenced by the task and posts its payload
// to the configured webhook.
func (h *Handler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var p TaskPayload
	if err := json.Unmarshal(task.Payload(), &p); err != nil {
		return fmt.Errorf("failed to unmarshal task payload: %w", err)
	}

	message, err := h.messages.Get(ctx, p.MessageID)
	if err != nil {
		return fmt.Errorf("failed to load message %s: %w", p.MessageID, err)
	}

	session, err := h.sessions.Get(ctx, message.Session)
	if err != nil {
		return fmt.Errorf("failed to load session for message %s: %w", p.MessageID, err)
	}

	payload := WebhookPayload{
		Workflow:  task.Type(),
		TriggerID: p.TriggerID,
		SessionID: session.SessionID,
		Message:   domain.NewMessageView(message, session.SessionID),
	}

	if err := h.deliver(ctx, payload); err != nil {
		return err
	}

	log.Info().
		Str("trigger_id", p.TriggerID).
		Str("type", task.Type()).
		Str("message_id", p.MessageID).
		Msg("workflow payload delivered")
	return nil
}

func (h *Handler) deliver(ctx context.Context, payload WebhookPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, h.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build webhook request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("webhook delivery failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook returned status %d", resp.StatusCode)
	}
	return nil
}
