package service

import (
	"context"
	"fmt"
	"time"

	"github.com/converso/chat-api/internal/domain"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SessionService handles session creation, lookup and listing
type SessionService struct {
	sessionRepo domain.SessionRepository
	messageRepo domain.MessageRepository
}

// NewSessionService creates a new session service
func NewSessionService(sessionRepo domain.SessionRepository, messageRepo domain.MessageRepository) *SessionService {
	return &SessionService{sessionRepo: sessionRepo, messageRepo: messageRepo}
}

// CreateSession starts a new, empty session
func (s *SessionService) CreateSession(ctx context.Context) (*domain.ChatSession, error) {
	session := &domain.ChatSession{
		Active:       true,
		Participants: []string{},
	}
	if err := s.sessionRepo.Insert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// GetSession looks a session up by its document id
func (s *SessionService) GetSession(ctx context.Context, id primitive.ObjectID) (*domain.ChatSession, error) {
	return s.sessionRepo.Get(ctx, id)
}

// ListSessionsParams mirrors the optional listing filters plus pagination.
// Nil fields do not constrain the result set.
type ListSessionsParams struct {
	Client        *primitive.ObjectID
	ClientChannel *primitive.ObjectID
	UserID        string // sender of at least one message in the session
	SessionID     string // case-insensitive partial match on the external id
	Active        *bool
	Handover      *bool
	StartDate     *time.Time
	EndDate       *time.Time
	Skip          int64
	Limit         int64
}

// ListSessions returns one page of session summaries ordered by update time
// descending, plus the total count matching the filter before pagination.
func (s *SessionService) ListSessions(ctx context.Context, p ListSessionsParams) (*domain.SessionPage, error) {
	if p.StartDate != nil && p.EndDate != nil && p.EndDate.Before(*p.StartDate) {
		return nil, domain.ErrInvalidDateRange
	}

	filter := domain.SessionFilter{
		Client:           p.Client,
		ClientChannel:    p.ClientChannel,
		Active:           p.Active,
		Handover:         p.Handover,
		UpdatedAfter:     p.StartDate,
		UpdatedBefore:    p.EndDate,
		SessionIDPattern: p.SessionID,
	}

	// The sender filter lives in the messages collection. Resolve it first;
	// a sender with no messages short-circuits to an empty page.
	if p.UserID != "" {
		ids, err := s.messageRepo.DistinctSessionIDs(ctx, p.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve sessions for user %s: %w", p.UserID, err)
		}
		if len(ids) == 0 {
			return &domain.SessionPage{Sessions: []domain.SessionSummary{}, Total: 0}, nil
		}
		filter.IDs = ids
	}

	total, err := s.sessionRepo.Count(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to count sessions: %w", err)
	}

	sessions, err := s.sessionRepo.Page(ctx, filter, p.Skip, p.Limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list sessions: %w", err)
	}

	summaries := make([]domain.SessionSummary, 0, len(sessions))
	for i := range sessions {
		summaries = append(summaries, newSummary(&sessions[i]))
	}

	return &domain.SessionPage{Sessions: summaries, Total: total}, nil
}

func newSummary(s *domain.ChatSession) domain.SessionSummary {
	summary := domain.SessionSummary{
		ID:           s.ID.Hex(),
		CreatedAt:    s.CreatedAt,
		UpdatedAt:    s.UpdatedAt,
		SessionID:    s.SessionID, // empty string when the external id is absent
		Active:       s.Active,
		Participants: s.Participants,
		Handover:     s.HasHandover,
	}
	if s.Client != nil {
		hex := s.Client.Hex()
		summary.Client = &hex
	}
	if s.ClientChannel != nil {
		hex := s.ClientChannel.Hex()
		summary.ClientChannel = &hex
	}
	return summary
}
