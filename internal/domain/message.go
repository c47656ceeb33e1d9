package domain

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MessageCategory classifies a message
type MessageCategory string

const (
	CategoryMessage MessageCategory = "message"
	CategoryError   MessageCategory = "error"
	CategoryInfo    MessageCategory = "info"
	CategoryWarning MessageCategory = "warning"
)

// SenderType represents the kind of entity that sent a message
type SenderType string

const (
	SenderUser      SenderType = "user"
	SenderAssistant SenderType = "assistant"
	SenderSystem    SenderType = "system"
)

// Attachment is a file, image or carousel attached to a message
type Attachment struct {
	FileName string         `bson:"file_name,omitempty" json:"file_name,omitempty"`
	FileType string         `bson:"file_type,omitempty" json:"file_type,omitempty"`
	FileSize int64          `bson:"file_size,omitempty" json:"file_size,omitempty"`
	FileURL  string         `bson:"file_url,omitempty" json:"file_url,omitempty"`
	Type     string         `bson:"type,omitempty" json:"type,omitempty"` // "file", "image", "carousel"
	Carousel map[string]any `bson:"carousel,omitempty" json:"carousel,omitempty"`
}

// MessageConfig carries the per-message processing flags. The two flags are
// independent; workflow dispatch only happens when exactly one of them is set.
type MessageConfig struct {
	AIEnabled      bool `bson:"ai_enabled" json:"ai_enabled"`
	SuggestionMode bool `bson:"suggestion_mode" json:"suggestion_mode"`
}

// ChatMessage represents a message stored in the chat_messages collection
type ChatMessage struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ExternalID      string             `bson:"external_id,omitempty" json:"external_id,omitempty"` // id known to other systems
	Sender          string             `bson:"sender,omitempty" json:"sender"`
	SenderName      string             `bson:"sender_name,omitempty" json:"sender_name"`
	SenderType      SenderType         `bson:"sender_type" json:"sender_type"`
	Session         primitive.ObjectID `bson:"session" json:"session"`
	Text            string             `bson:"text" json:"text"`
	Attachments     []Attachment       `bson:"attachments,omitempty" json:"attachments,omitempty"`
	Data            map[string]any     `bson:"data,omitempty" json:"data,omitempty"`
	Category        MessageCategory    `bson:"category" json:"category"`
	Config          MessageConfig      `bson:"config" json:"config"`
	ConfidenceScore float64            `bson:"confidence_score" json:"confidence_score"`
	Edit            bool               `bson:"edit" json:"edit"`
	CreatedAt       time.Time          `bson:"created_at" json:"created_at"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updated_at"`
}

// MessageView is the wire projection of a message. SessionID is the external
// session id, not the document reference.
type MessageView struct {
	ID          string          `json:"id"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
	Sender      string          `json:"sender"`
	SenderName  string          `json:"sender_name"`
	SessionID   string          `json:"session_id"`
	Text        string          `json:"text"`
	Attachments []Attachment    `json:"attachments,omitempty"`
	Category    MessageCategory `json:"category"`
	Edit        bool            `json:"edit"`
}

// NewMessageView projects a stored message onto its wire shape. sessionID is
// the external id of the session the message belongs to.
func NewMessageView(m *ChatMessage, sessionID string) MessageView {
	return MessageView{
		ID:          m.ID.Hex(),
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
		Sender:      m.Sender,
		SenderName:  m.SenderName,
		SessionID:   sessionID,
		Text:        m.Text,
		Attachments: m.Attachments,
		Category:    m.Category,
		Edit:        m.Edit,
	}
}

// MessageFilter narrows a message query
type MessageFilter struct {
	Session *primitive.ObjectID
	Sender  string
}

// MessageRepository defines the interface for message storage
type MessageRepository interface {
	Insert(ctx context.Context, message *ChatMessage) error
	// Get resolves ref as an ObjectID hex when it parses as one, otherwise
	// as an external id.
	Get(ctx context.Context, ref string) (*ChatMessage, error)
	Update(ctx context.Context, message *ChatMessage) error
	// List returns messages matching filter ordered by created_at descending.
	// limit <= 0 means no limit.
	List(ctx context.Context, filter MessageFilter, limit int64) ([]ChatMessage, error)
	// DistinctSessionIDs returns the distinct session references across all
	// messages from the given sender.
	DistinctSessionIDs(ctx context.Context, sender string) ([]primitive.ObjectID, error)
}
