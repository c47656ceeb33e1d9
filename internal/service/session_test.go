package service

import (
	"context"
	"testing"
	"time"

	"github.com/converso/chat-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestSessionService_CreateSession(t *testing.T) {
	mockSessionRepo := new(MockSessionRepository)
	svc := NewSessionService(mockSessionRepo, nil)

	ctx := context.Background()
	mockSessionRepo.On("Insert", ctx, mock.AnythingOfType("*domain.ChatSession")).Return(nil)

	session, err := svc.CreateSession(ctx)
	assert.NoError(t, err)
	assert.True(t, session.Active)
	assert.False(t, session.HasHandover)
	assert.NotNil(t, session.Participants)

	mockSessionRepo.AssertExpectations(t)
}

func TestSessionService_ListSessions_InvalidDateRange(t *testing.T) {
	mockSessionRepo := new(MockSessionRepository)
	mockMessageRepo := new(MockMessageRepository)
	svc := NewSessionService(mockSessionRepo, mockMessageRepo)

	ctx := context.Background()
	start := time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC)
	end := start.Add(-24 * time.Hour)
	active := true

	// Other filters must not mask the range check
	_, err := svc.ListSessions(ctx, ListSessionsParams{
		StartDate: &start,
		EndDate:   &end,
		Active:    &active,
		UserID:    "user-1",
		Skip:      0,
		Limit:     10,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDateRange)

	mockSessionRepo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
	mockMessageRepo.AssertNotCalled(t, "DistinctSessionIDs", mock.Anything, mock.Anything)
}

func TestSessionService_ListSessions_SenderWithNoMessages(t *testing.T) {
	mockSessionRepo := new(MockSessionRepository)
	mockMessageRepo := new(MockMessageRepository)
	svc := NewSessionService(mockSessionRepo, mockMessageRepo)

	ctx := context.Background()
	mockMessageRepo.On("DistinctSessionIDs", ctx, "ghost").Return([]primitive.ObjectID{}, nil)

	page, err := svc.ListSessions(ctx, ListSessionsParams{UserID: "ghost", Limit: 10})
	assert.NoError(t, err)
	assert.Empty(t, page.Sessions)
	assert.Equal(t, int64(0), page.Total)

	// Short-circuit: the session collection is never queried
	mockSessionRepo.AssertNotCalled(t, "Count", mock.Anything, mock.Anything)
	mockSessionRepo.AssertNotCalled(t, "Page", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestSessionService_ListSessions_SenderRestrictsIDs(t *testing.T) {
	mockSessionRepo := new(MockSessionRepository)
	mockMessageRepo := new(MockMessageRepository)
	svc := NewSessionService(mockSessionRepo, mockMessageRepo)

	ctx := context.Background()
	ids := []primitive.ObjectID{primitive.NewObjectID(), primitive.NewObjectID()}
	mockMessageRepo.On("DistinctSessionIDs", ctx, "user-1").Return(ids, nil)

	matchIDs := mock.MatchedBy(func(f domain.SessionFilter) bool {
		return len(f.IDs) == 2 && f.IDs[0] == ids[0] && f.IDs[1] == ids[1]
	})
	mockSessionRepo.On("Count", ctx, matchIDs).Return(int64(2), nil)
	mockSessionRepo.On("Page", ctx, matchIDs, int64(0), int64(10)).Return([]domain.ChatSession{}, nil)

	page, err := svc.ListSessions(ctx, ListSessionsParams{UserID: "user-1", Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(2), page.Total)

	mockSessionRepo.AssertExpectations(t)
}

func TestSessionService_ListSessions_TotalIndependentOfPagination(t *testing.T) {
	mockSessionRepo := new(MockSessionRepository)
	svc := NewSessionService(mockSessionRepo, new(MockMessageRepository))

	ctx := context.Background()
	now := time.Now().UTC()

	// 15 matching sessions, second page of 10 holds the remaining 5
	remaining := make([]domain.ChatSession, 5)
	for i := range remaining {
		remaining[i] = domain.ChatSession{
			ID:        primitive.NewObjectID(),
			UpdatedAt: now.Add(-time.Duration(10+i) * time.Minute),
			CreatedAt: now.Add(-time.Hour),
			Active:    true,
		}
	}

	mockSessionRepo.On("Count", ctx, mock.Anything).Return(int64(15), nil)
	mockSessionRepo.On("Page", ctx, mock.Anything, int64(10), int64(10)).Return(remaining, nil)

	page, err := svc.ListSessions(ctx, ListSessionsParams{Skip: 10, Limit: 10})
	assert.NoError(t, err)
	assert.Equal(t, int64(15), page.Total)
	assert.Len(t, page.Sessions, 5)

	mockSessionRepo.AssertExpectations(t)
}

func TestSessionService_ListSessions_SummaryMapping(t *testing.T) {
	mockSessionRepo := new(MockSessionRepository)
	svc := NewSessionService(mockSessionRepo, new(MockMessageRepository))

	ctx := context.Background()
	client := primitive.NewObjectID()

	withRefs := domain.ChatSession{
		ID:           primitive.NewObjectID(),
		SessionID:    "ext-42",
		Client:       &client,
		Active:       true,
		HasHandover:  true,
		Participants: []string{"user-1", "agent-7"},
	}
	bare := domain.ChatSession{
		ID:     primitive.NewObjectID(),
		Active: false,
	}

	mockSessionRepo.On("Count", ctx, mock.Anything).Return(int64(2), nil)
	mockSessionRepo.On("Page", ctx, mock.Anything, int64(0), int64(10)).
		Return([]domain.ChatSession{withRefs, bare}, nil)

	page, err := svc.ListSessions(ctx, ListSessionsParams{Limit: 10})
	assert.NoError(t, err)
	assert.Len(t, page.Sessions, 2)

	first := page.Sessions[0]
	assert.Equal(t, withRefs.ID.Hex(), first.ID)
	assert.Equal(t, "ext-42", first.SessionID)
	assert.NotNil(t, first.Client)
	assert.Equal(t, client.Hex(), *first.Client)
	assert.Nil(t, first.ClientChannel)
	assert.True(t, first.Handover)
	assert.Equal(t, []string{"user-1", "agent-7"}, first.Participants)

	second := page.Sessions[1]
	assert.Equal(t, "", second.SessionID) // missing external id maps to empty string
	assert.Nil(t, second.Client)
	assert.Nil(t, second.ClientChannel)
}

func TestSessionService_ListSessions_DateFiltersForwarded(t *testing.T) {
	mockSessionRepo := new(MockSessionRepository)
	svc := NewSessionService(mockSessionRepo, new(MockMessageRepository))

	ctx := context.Background()
	start := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 5, 31, 23, 59, 59, 0, time.UTC)

	matchRange := mock.MatchedBy(func(f domain.SessionFilter) bool {
		return f.UpdatedAfter != nil && f.UpdatedAfter.Equal(start) &&
			f.UpdatedBefore != nil && f.UpdatedBefore.Equal(end)
	})
	mockSessionRepo.On("Count", ctx, matchRange).Return(int64(0), nil)
	mockSessionRepo.On("Page", ctx, matchRange, int64(0), int64(10)).Return([]domain.ChatSession{}, nil)

	_, err := svc.ListSessions(ctx, ListSessionsParams{StartDate: &start, EndDate: &end, Limit: 10})
	assert.NoError(t, err)

	mockSessionRepo.AssertExpectations(t)
}
