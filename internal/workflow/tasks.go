package workflow

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// Task types routed through the queue. The worker registers one handler per
// type; both carry the same payload.
const (
	TypeChatWorkflow       = "workflow:chat"
	TypeSuggestionWorkflow = "workflow:suggestion"
)

// TaskPayload identifies the message a workflow run should process.
// TriggerID correlates the enqueue site with worker logs.
type TaskPayload struct {
	TriggerID string `json:"trigger_id"`
	MessageID string `json:"message_id"`
	SessionID string `json:"session_id"`
}

func marshalPayload(messageID, sessionID string) ([]byte, error) {
	p := TaskPayload{
		TriggerID: uuid.NewString(),
		MessageID: messageID,
		SessionID: sessionID,
	}
	data, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal task payload: %w", err)
	}
	return data, nil
}
