package domain

import "time"

// MessageCreate is the body of the single and bulk message creation
// endpoints. Client references arrive as ObjectID hex strings.
type MessageCreate struct {
	ClientID      string          `json:"client_id" validate:"omitempty,len=24,hexadecimal"`
	ClientChannel string          `json:"client_channel" validate:"omitempty,len=24,hexadecimal"`
	SessionID     string          `json:"session_id"`
	Text          string          `json:"text" validate:"required"`
	Sender        string          `json:"sender"`
	SenderName    string          `json:"sender_name"`
	SenderType    SenderType      `json:"sender_type" validate:"omitempty,oneof=user assistant system"`
	ExternalID    string          `json:"external_id"`
	Attachments   []Attachment    `json:"attachments"`
	Data          map[string]any  `json:"data"`
	Category      MessageCategory `json:"category" validate:"omitempty,oneof=message error info warning"`
	Config        MessageConfig   `json:"config"`
	CreatedAt     *time.Time      `json:"created_at"` // honored by bulk creation only
}

// BulkMessageCreate creates several messages in one session at once
type BulkMessageCreate struct {
	ClientID      string          `json:"client_id" validate:"omitempty,len=24,hexadecimal"`
	ClientChannel string          `json:"client_channel" validate:"omitempty,len=24,hexadecimal"`
	SessionID     string          `json:"session_id"`
	Messages      []MessageCreate `json:"messages" validate:"required,min=1,dive"`
}
