package store

import (
	"context"
	"fmt"
	"time"

	"github.com/avdeenko/chatline/internal/domain"
)

// CreateMessage persists one message. Content rules are enforced here:
// a rejected message is never visible to anyone.
func (s *Store) CreateMessage(ctx context.Context, chatID domain.ChatID, senderID domain.UserID, content string) (domain.Message, error) {
	if err := domain.ValidateContent(content); err != nil {
		return domain.Message{}, err
	}

	now := time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (chat_id, sender_id, content, created_at) VALUES (?, ?, ?, ?)`,
		int64(chatID), int64(senderID), content, now.UnixMicro())
	if err != nil {
		return domain.Message{}, fmt.Errorf("create message: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Message{}, fmt.Errorf("create message: %w", err)
	}

	return domain.Message{
		ID:        domain.MessageID(id),
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: now,
	}, nil
}

// CountMessages reports how many messages a chat holds. Used by tests to
// assert that ephemeral frames leave no rows behind.
func (s *Store) CountMessages(ctx context.Context, chatID domain.ChatID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE chat_id = ?`, int64(chatID)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count messages: %w", err)
	}
	return n, nil
}
