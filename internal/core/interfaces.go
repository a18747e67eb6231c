package core

import (
	"context"

	"github.com/avdeenko/chatline/internal/domain"
)

// Frame is a raw wire payload.
type Frame []byte

// Conn abstracts one live duplex transport session.
// Owned by the adapter; the adapter must Close() it. The registry and the
// broadcaster only hold it for lookup and send, never lifecycle control.
type Conn interface {
	TrySend(Frame) error
	Close()
}

// TokenDecoder validates an opaque credential and yields the user behind it.
type TokenDecoder interface {
	DecodeToken(token string) (domain.UserID, error)
}

// ChatStore answers membership questions.
type ChatStore interface {
	// GetMembership returns the chat when it exists and the user is a
	// member; otherwise an error wrapping domain.ErrChatNotFound.
	GetMembership(ctx context.Context, chatID domain.ChatID, userID domain.UserID) (domain.Chat, error)
}

// MessageStore persists messages. Persistence success is the authoritative
// "message exists" event.
type MessageStore interface {
	CreateMessage(ctx context.Context, chatID domain.ChatID, senderID domain.UserID, content string) (domain.Message, error)
}

// UserStore resolves public projections of accounts.
type UserStore interface {
	LookupUser(ctx context.Context, userID domain.UserID) (domain.UserPublic, error)
}
