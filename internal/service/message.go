package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/converso/chat-api/internal/domain"
	"github.com/converso/chat-api/internal/workflow"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageService handles message creation, listing and updates, and decides
// which workflow to start for a freshly created message.
type MessageService struct {
	messageRepo domain.MessageRepository
	sessionRepo domain.SessionRepository
	dispatcher  workflow.Dispatcher
}

// NewMessageService creates a new message service
func NewMessageService(messageRepo domain.MessageRepository, sessionRepo domain.SessionRepository, dispatcher workflow.Dispatcher) *MessageService {
	return &MessageService{
		messageRepo: messageRepo,
		sessionRepo: sessionRepo,
		dispatcher:  dispatcher,
	}
}

// CreateMessage stores a message, creating its session on first contact, and
// starts at most one workflow depending on the config flags: the chat
// workflow when AI is enabled without suggestion mode, the suggestion
// workflow when suggestion mode is on without AI. Both flags set, or neither,
// starts nothing.
func (s *MessageService) CreateMessage(ctx context.Context, in domain.MessageCreate) (*domain.MessageView, error) {
	session, err := s.getOrCreateSession(ctx, in.SessionID, in.ClientID, in.ClientChannel)
	if err != nil {
		return nil, err
	}

	message, err := s.insertMessage(ctx, session, in, false)
	if err != nil {
		return nil, err
	}

	// Fire-and-forget: a trigger failure never fails the request.
	switch {
	case in.Config.AIEnabled && !in.Config.SuggestionMode:
		if err := s.dispatcher.TriggerChatWorkflow(ctx, message.ID.Hex(), session.SessionID); err != nil {
			log.Error().Err(err).Str("message_id", message.ID.Hex()).Msg("failed to trigger chat workflow")
		}
	case !in.Config.AIEnabled && in.Config.SuggestionMode:
		if err := s.dispatcher.TriggerSuggestionWorkflow(ctx, message.ID.Hex(), session.SessionID); err != nil {
			log.Error().Err(err).Str("message_id", message.ID.Hex()).Msg("failed to trigger suggestion workflow")
		}
	}

	view := domain.NewMessageView(message, session.SessionID)
	return &view, nil
}

// CreateBulkMessages stores a batch of messages in one session and always
// starts the chat workflow exactly once, for the most recently created
// message of the batch.
func (s *MessageService) CreateBulkMessages(ctx context.Context, in domain.BulkMessageCreate) ([]domain.MessageView, error) {
	session, err := s.getOrCreateSession(ctx, in.SessionID, in.ClientID, in.ClientChannel)
	if err != nil {
		return nil, err
	}

	views := make([]domain.MessageView, 0, len(in.Messages))
	var latest *domain.ChatMessage
	for _, msgIn := range in.Messages {
		message, err := s.insertMessage(ctx, session, msgIn, true)
		if err != nil {
			return nil, err
		}
		if latest == nil || message.CreatedAt.After(latest.CreatedAt) {
			latest = message
		}
		views = append(views, domain.NewMessageView(message, session.SessionID))
	}

	if latest != nil {
		if err := s.dispatcher.TriggerChatWorkflow(ctx, latest.ID.Hex(), session.SessionID); err != nil {
			log.Error().Err(err).Str("message_id", latest.ID.Hex()).Msg("failed to trigger chat workflow")
		}
	}

	return views, nil
}

// ListMessages returns messages ordered by creation time descending.
// sessionID resolves against the external session id; lastN caps the result
// when positive.
func (s *MessageService) ListMessages(ctx context.Context, sessionID, userID string, lastN int64) ([]domain.MessageView, error) {
	filter := domain.MessageFilter{Sender: userID}

	// Memoizes external ids when messages span several sessions.
	externalIDs := map[primitive.ObjectID]string{}

	if sessionID != "" {
		session, err := s.sessionRepo.GetBySessionID(ctx, sessionID)
		if err != nil {
			return nil, err
		}
		filter.Session = &session.ID
		externalIDs[session.ID] = session.SessionID
	}

	messages, err := s.messageRepo.List(ctx, filter, lastN)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	views := make([]domain.MessageView, 0, len(messages))
	for i := range messages {
		m := &messages[i]
		external, ok := externalIDs[m.Session]
		if !ok {
			session, err := s.sessionRepo.Get(ctx, m.Session)
			if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
				return nil, err
			}
			if session != nil {
				external = session.SessionID
			}
			externalIDs[m.Session] = external
		}
		views = append(views, domain.NewMessageView(m, external))
	}
	return views, nil
}

// UpdateMessage edits a message looked up by document id or external id
func (s *MessageService) UpdateMessage(ctx context.Context, ref string, in domain.MessageCreate) (*domain.MessageView, error) {
	message, err := s.messageRepo.Get(ctx, ref)
	if err != nil {
		return nil, err
	}

	message.Text = in.Text
	message.Sender = in.Sender
	message.SenderName = in.SenderName
	message.Edit = true
	if in.Attachments != nil {
		message.Attachments = in.Attachments
	}
	if in.Data != nil {
		message.Data = in.Data
	}

	if err := s.messageRepo.Update(ctx, message); err != nil {
		return nil, err
	}

	session, err := s.sessionRepo.Get(ctx, message.Session)
	if err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, err
	}
	external := ""
	if session != nil {
		external = session.SessionID
	}

	view := domain.NewMessageView(message, external)
	return &view, nil
}

func (s *MessageService) getOrCreateSession(ctx context.Context, sessionID, clientID, clientChannel string) (*domain.ChatSession, error) {
	session, err := s.sessionRepo.GetBySessionID(ctx, sessionID)
	if err == nil {
		return session, nil
	}
	if !errors.Is(err, domain.ErrSessionNotFound) {
		return nil, err
	}

	session = &domain.ChatSession{
		SessionID:    sessionID,
		Active:       true,
		Participants: []string{},
	}
	if clientID != "" {
		oid, err := primitive.ObjectIDFromHex(clientID)
		if err != nil {
			return nil, fmt.Errorf("invalid client id %q: %w", clientID, err)
		}
		session.Client = &oid
	}
	if clientChannel != "" {
		oid, err := primitive.ObjectIDFromHex(clientChannel)
		if err != nil {
			return nil, fmt.Errorf("invalid client channel %q: %w", clientChannel, err)
		}
		session.ClientChannel = &oid
	}

	if err := s.sessionRepo.Insert(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

func (s *MessageService) insertMessage(ctx context.Context, session *domain.ChatSession, in domain.MessageCreate, honorCreatedAt bool) (*domain.ChatMessage, error) {
	message := &domain.ChatMessage{
		ExternalID:  in.ExternalID,
		Sender:      in.Sender,
		SenderName:  in.SenderName,
		SenderType:  in.SenderType,
		Session:     session.ID,
		Text:        in.Text,
		Attachments: in.Attachments,
		Data:        in.Data,
		Category:    in.Category,
		Config:      in.Config,
	}
	if honorCreatedAt && in.CreatedAt != nil {
		message.CreatedAt = in.CreatedAt.UTC()
	}

	if err := s.messageRepo.Insert(ctx, message); err != nil {
		return nil, fmt.Errorf("failed to create message: %w", err)
	}
	return message, nil
}
