package workflow

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/converso/chat-api/internal/domain"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type stubMessageRepo struct {
	message *domain.ChatMessage
}

func (r *stubMessageRepo) Insert(ctx context.Context, m *domain.ChatMessage) error { return nil }
func (r *stubMessageRepo) Update(ctx context.Context, m *domain.ChatMessage) error { return nil }

func (r *stubMessageRepo) Get(ctx context.Context, ref string) (*domain.ChatMessage, error) {
	if r.message != nil && r.message.ID.Hex() == ref {
		return r.message, nil
	}
	return nil, domain.ErrMessageNotFound
}

func (r *stubMessageRepo) List(ctx context.Context, f domain.MessageFilter, limit int64) ([]domain.ChatMessage, error) {
	return nil, nil
}

func (r *stubMessageRepo) DistinctSessionIDs(ctx context.Context, sender string) ([]primitive.ObjectID, error) {
	return nil, nil
}

type stubSessionRepo struct {
	session *domain.ChatSession
}

func (r *stubSessionRepo) Insert(ctx context.Context, s *domain.ChatSession) error { return nil }
func (r *stubSessionRepo) Update(ctx context.Context, s *domain.ChatSession) error { return nil }

func (r *stubSessionRepo) Get(ctx context.Context, id primitive.ObjectID) (*domain.ChatSession, error) {
	if r.session != nil && r.session.ID == id {
		return r.session, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (r *stubSessionRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	return nil, domain.ErrSessionNotFound
}

func (r *stubSessionRepo) Count(ctx context.Context, f domain.SessionFilter) (int64, error) {
	return 0, nil
}

func (r *stubSessionRepo) Page(ctx context.Context, f domain.SessionFilter, skip, limit int64) ([]domain.ChatSession, error) {
	return nil, nil
}

func TestMarshalPayload(t *testing.T) {
	data, err := marshalPayload("msg-1", "sess-1")
	require.NoError(t, err)

	var p TaskPayload
	require.NoError(t, json.Unmarshal(data, &p))
	assert.Equal(t, "msg-1", p.MessageID)
	assert.Equal(t, "sess-1", p.SessionID)
	assert.NotEmpty(t, p.TriggerID)
}

func TestHandler_ProcessTask_DeliversWebhook(t *testing.T) {
	session := &domain.ChatSession{ID: primitive.NewObjectID(), SessionID: "ext-5", Active: true}
	message := &domain.ChatMessage{
		ID:      primitive.NewObjectID(),
		Session: session.ID,
		Text:    "hello",
		Sender:  "user-1",
	}

	var received WebhookPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&received)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	h := NewHandler(&stubMessageRepo{message: message}, &stubSessionRepo{session: session}, server.URL)

	payload, err := marshalPayload(message.ID.Hex(), session.SessionID)
	require.NoError(t, err)

	err = h.ProcessTask(context.Background(), asynq.NewTask(TypeChatWorkflow, payload))
	require.NoError(t, err)

	assert.Equal(t, TypeChatWorkflow, received.Workflow)
	assert.Equal(t, "ext-5", received.SessionID)
	assert.Equal(t, message.ID.Hex(), received.Message.ID)
	assert.Equal(t, "hello", received.Message.Text)
}

func TestHandler_ProcessTask_WebhookFailureIsRetriable(t *testing.T) {
	session := &domain.ChatSession{ID: primitive.NewObjectID(), SessionID: "ext-5"}
	message := &domain.ChatMessage{ID: primitive.NewObjectID(), Session: session.ID, Text: "hi"}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	h := NewHandler(&stubMessageRepo{message: message}, &stubSessionRepo{session: session}, server.URL)

	payload, err := marshalPayload(message.ID.Hex(), session.SessionID)
	require.NoError(t, err)

	err = h.ProcessTask(context.Background(), asynq.NewTask(TypeChatWorkflow, payload))
	assert.Error(t, err)
}

func TestHandler_ProcessTask_UnknownMessage(t *testing.T) {
	h := NewHandler(&stubMessageRepo{}, &stubSessionRepo{}, "http://localhost:0")

	payload, err := marshalPayload(primitive.NewObjectID().Hex(), "ext-1")
	require.NoError(t, err)

	err = h.ProcessTask(context.Background(), asynq.NewTask(TypeChatWorkflow, payload))
	assert.ErrorIs(t, err, domain.ErrMessageNotFound)
}
