package core

import "github.com/avdeenko/chatline/internal/domain"

// Inbound frame kinds. Anything else is a valid frame that produces no
// action.
const (
	FrameMessage = "message"
	FrameTyping  = "typing"
)

// InboundFrame is the tagged object clients send over the socket.
type InboundFrame struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

// NewMessageEnvelope fans a freshly created message out to a chat.
type NewMessageEnvelope struct {
	Type    string               `json:"type"`
	Message domain.MessagePublic `json:"message"`
}

func NewMessage(m domain.MessagePublic) NewMessageEnvelope {
	return NewMessageEnvelope{Type: "new_message", Message: m}
}

// TypingEnvelope is ephemeral; it is never persisted.
type TypingEnvelope struct {
	Type     string        `json:"type"`
	UserID   domain.UserID `json:"user_id"`
	UserName string        `json:"user_name"`
}

func Typing(userID domain.UserID, userName string) TypingEnvelope {
	return TypingEnvelope{Type: "typing", UserID: userID, UserName: userName}
}

// ErrorEnvelope goes back to the originating connection only.
type ErrorEnvelope struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

func Error(msg string) ErrorEnvelope {
	return ErrorEnvelope{Type: "error", Message: msg}
}
