package workflow

import (
	"context"
	"fmt"

	"github.com/converso/chat-api/internal/config"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"
)

// Dispatcher starts asynchronous workflows keyed by message and session ids.
// Callers treat triggering as fire-and-forget: completion is never awaited.
type Dispatcher interface {
	TriggerChatWorkflow(ctx context.Context, messageID, sessionID string) error
	TriggerSuggestionWorkflow(ctx context.Context, messageID, sessionID string) error
}

// AsynqDispatcher enqueues workflow tasks on a Redis-backed asynq queue
type AsynqDispatcher struct {
	client   *asynq.Client
	queue    string
	maxRetry int
}

// NewAsynqDispatcher creates a dispatcher connected to the configured Redis
func NewAsynqDispatcher(redisCfg config.RedisConfig, wfCfg config.WorkflowConfig) *AsynqDispatcher {
	client := asynq.NewClient(asynq.RedisClientOpt{
		Addr:     redisCfg.Addr(),
		Password: redisCfg.Password,
		DB:       redisCfg.DB,
	})
	return &AsynqDispatcher{
		client:   client,
		queue:    wfCfg.Queue,
		maxRetry: wfCfg.MaxRetry,
	}
}

func (d *AsynqDispatcher) TriggerChatWorkflow(ctx context.Context, messageID, sessionID string) error {
	return d.enqueue(ctx, TypeChatWorkflow, messageID, sessionID)
}

func (d *AsynqDispatcher) TriggerSuggestionWorkflow(ctx context.Context, messageID, sessionID string) error {
	return d.enqueue(ctx, TypeSuggestionWorkflow, messageID, sessionID)
}

func (d *AsynqDispatcher) enqueue(ctx context.Context, taskType, messageID, sessionID string) error {
	payload, err := marshalPayload(messageID, sessionID)
	if err != nil {
		return err
	}

	info, err := d.client.EnqueueContext(ctx, asynq.NewTask(taskType, payload),
		asynq.Queue(d.queue),
		asynq.MaxRetry(d.maxRetry),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue %s: %w", taskType, err)
	}

	log.Debug().
		Str("task_id", info.ID).
		Str("type", taskType).
		Str("message_id", messageID).
		Msg("workflow task enqueued")
	return nil
}

// Close releases the underlying client connection
func (d *AsynqDispatcher) Close() error {
	return d.client.Close()
}
