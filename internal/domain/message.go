package domain

import (
	"errors"
	"time"
)

const MaxContentLen = 4096

var (
	ErrEmptyContent   = errors.New("message content is empty")
	ErrContentTooLong = errors.New("message content too long")
)

// TimeLayout is the wire format for message timestamps. No zone suffix;
// values are always UTC.
const TimeLayout = "2006-01-02T15:04:05.999999"

type MessageID int64

type Message struct {
	ID        MessageID
	ChatID    ChatID
	SenderID  UserID
	Content   string
	CreatedAt time.Time
	EditedAt  *time.Time
}

// MessagePublic is the serializable projection broadcast to chat members.
type MessagePublic struct {
	ID        MessageID   `json:"id"`
	ChatID    ChatID      `json:"chat_id"`
	SenderID  UserID      `json:"sender_id"`
	Sender    *UserPublic `json:"sender"`
	Content   string      `json:"content"`
	CreatedAt string      `json:"created_at"`
	EditedAt  *string     `json:"edited_at"`
}

// NewMessagePublic assembles the projection. Sender may be nil when the
// account can not be resolved anymore.
func NewMessagePublic(m Message, sender *UserPublic) MessagePublic {
	pub := MessagePublic{
		ID:        m.ID,
		ChatID:    m.ChatID,
		SenderID:  m.SenderID,
		Sender:    sender,
		Content:   m.Content,
		CreatedAt: m.CreatedAt.UTC().Format(TimeLayout),
	}
	if m.EditedAt != nil {
		edited := m.EditedAt.UTC().Format(TimeLayout)
		pub.EditedAt = &edited
	}
	return pub
}

// ValidateContent applies the rules CreateMessage enforces; exposed so
// callers can pre-check without a round trip.
func ValidateContent(content string) error {
	if content == "" {
		return ErrEmptyContent
	}
	if len(content) > MaxContentLen {
		return ErrContentTooLong
	}
	return nil
}
