package service

import (
	"context"

	"github.com/converso/chat-api/internal/domain"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MockSessionRepository mocks the SessionRepository interface
type MockSessionRepository struct {
	mock.Mock
}

func (m *MockSessionRepository) Insert(ctx context.Context, session *domain.ChatSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

func (m *MockSessionRepository) Get(ctx context.Context, id primitive.ObjectID) (*domain.ChatSession, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) GetBySessionID(ctx context.Context, sessionID string) (*domain.ChatSession, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) Count(ctx context.Context, filter domain.SessionFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSessionRepository) Page(ctx context.Context, filter domain.SessionFilter, skip, limit int64) ([]domain.ChatSession, error) {
	args := m.Called(ctx, filter, skip, limit)
	return args.Get(0).([]domain.ChatSession), args.Error(1)
}

func (m *MockSessionRepository) Update(ctx context.Context, session *domain.ChatSession) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// MockMessageRepository mocks the MessageRepository interface
type MockMessageRepository struct {
	mock.Mock
}

func (m *MockMessageRepository) Insert(ctx context.Context, message *domain.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) Get(ctx context.Context, ref string) (*domain.ChatMessage, error) {
	args := m.Called(ctx, ref)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ChatMessage), args.Error(1)
}

func (m *MockMessageRepository) Update(ctx context.Context, message *domain.ChatMessage) error {
	args := m.Called(ctx, message)
	return args.Error(0)
}

func (m *MockMessageRepository) List(ctx context.Context, filter domain.MessageFilter, limit int64) ([]domain.ChatMessage, error) {
	args := m.Called(ctx, filter, limit)
	return args.Get(0).([]domain.ChatMessage), args.Error(1)
}

func (m *MockMessageRepository) DistinctSessionIDs(ctx context.Context, sender string) ([]primitive.ObjectID, error) {
	args := m.Called(ctx, sender)
	return args.Get(0).([]primitive.ObjectID), args.Error(1)
}

// MockDispatcher mocks the workflow.Dispatcher interface
type MockDispatcher struct {
	mock.Mock
}

func (m *MockDispatcher) TriggerChatWorkflow(ctx context.Context, messageID, sessionID string) error {
	args := m.Called(ctx, messageID, sessionID)
	return args.Error(0)
}

func (m *MockDispatcher) TriggerSuggestionWorkflow(ctx context.Context, messageID, sessionID string) error {
	args := m.Called(ctx, messageID, sessionID)
	return args.Error(0)
}
