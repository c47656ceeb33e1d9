package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatSession represents a conversation stored in the chat_sessions collection.
// Sessions are created empty when a conversation starts; message handling
// mutates the active/handover/participants fields.
type ChatSession struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	SessionID     string              `bson:"session_id,omitempty" json:"session_id"` // external id, optional
	Client        *primitive.ObjectID `bson:"client,omitempty" json:"client,omitempty"`
	ClientChannel *primitive.ObjectID `bson:"client_channel,omitempty" json:"client_channel,omitempty"`
	Active        bool                `bson:"active" json:"active"`
	Participants  []string            `bson:"participants" json:"participants"`
	HasHandover   bool                `bson:"has_handover" json:"handover"`
	CreatedAt     time.Time           `bson:"created_at" json:"created_at"`
	UpdatedAt     time.Time           `bson:"updated_at" json:"updated_at"`
}

// SessionFilter narrows a session query. Nil or zero fields do not constrain
// the result set; present fields combine conjunctively.
type SessionFilter struct {
	Client           *primitive.ObjectID
	ClientChannel    *primitive.ObjectID
	Active           *bool
	Handover         *bool
	UpdatedAfter     *time.Time
	UpdatedBefore    *time.Time
	SessionIDPattern string               // case-insensitive regex on the external session id
	IDs              []primitive.ObjectID // restrict to these ids when non-nil
}

// SessionSummary is the listing projection of a session.
type SessionSummary struct {
	ID            string    `json:"id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
	SessionID     string    `json:"session_id"`
	Active        bool      `json:"active"`
	Client        *string   `json:"client"`
	ClientChannel *string   `json:"client_channel"`
	Participants  []string  `json:"participants"`
	Handover      bool      `json:"handover"`
}

// SessionPage is one page of summaries plus the total count matching the
// filter before pagination.
type SessionPage struct {
	Sessions []SessionSummary `json:"sessions"`
	Total    int64            `json:"total"`
}

// SessionRepository defines the interface for session storage
type SessionRepository interface {
	Insert(ctx context.Context, session *ChatSession) error
	Get(ctx context.Context, id primitive.ObjectID) (*ChatSession, error)
	GetBySessionID(ctx context.Context, sessionID string) (*ChatSession, error)
	Count(ctx context.Context, filter SessionFilter) (int64, error)
	// Page returns sessions matching filter ordered by updated_at descending.
	Page(ctx context.Context, filter SessionFilter, skip, limit int64) ([]ChatSession, error)
	Update(ctx context.Context, session *ChatSession) error
}
