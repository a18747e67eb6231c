package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewMessagePublicFormatsTimestamps(t *testing.T) {
	req := require.New(t)
	created := time.Date(2026, 3, 14, 9, 26, 53, 589793000, time.UTC)
	edited := created.Add(time.Minute)

	pub := NewMessagePublic(Message{
		ID:        3,
		ChatID:    7,
		SenderID:  1,
		Content:   "pi day",
		CreatedAt: created,
		EditedAt:  &edited,
	}, nil)

	req.Equal("2026-03-14T09:26:53.589793", pub.CreatedAt)
	req.NotNil(pub.EditedAt)
	req.Equal("2026-03-14T09:27:53.589793", *pub.EditedAt)
	req.Nil(pub.Sender)
}

func TestValidateContent(t *testing.T) {
	req := require.New(t)
	req.NoError(ValidateContent("hi"))
	req.ErrorIs(ValidateContent(""), ErrEmptyContent)
	req.ErrorIs(ValidateContent(strings.Repeat("a", MaxContentLen+1)), ErrContentTooLong)
}

func TestDisplayNameFallback(t *testing.T) {
	req := require.New(t)
	req.Equal("Alice", UserPublic{Email: "a@x.io", FullName: "Alice"}.DisplayName())
	req.Equal("a@x.io", UserPublic{Email: "a@x.io"}.DisplayName())
}
