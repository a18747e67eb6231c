package domain

import "errors"

// ErrChatNotFound covers both "no such chat" and "not a member"; callers
// must not be able to distinguish the two.
var ErrChatNotFound = errors.New("chat not found or access denied")

type ChatID int64

type Chat struct {
	ID   ChatID
	Name string
}
