package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeenko/chatline/internal/domain"
)

// GetMembership returns the chat only when it exists and userID is a
// member. Absent chat and non-member collapse into the same error so the
// existence of a chat leaks nothing.
func (s *Store) GetMembership(ctx context.Context, chatID domain.ChatID, userID domain.UserID) (domain.Chat, error) {
	const q = `
		SELECT c.id, c.name FROM chats c
		JOIN chat_members m ON m.chat_id = c.id
		WHERE c.id = ? AND m.user_id = ?`
	var chat domain.Chat
	err := s.db.QueryRowContext(ctx, q, int64(chatID), int64(userID)).Scan(&chat.ID, &chat.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Chat{}, domain.ErrChatNotFound
	}
	if err != nil {
		return domain.Chat{}, fmt.Errorf("get membership: %w", err)
	}
	return chat, nil
}

// CreateChat inserts a chat and enrolls the given members.
func (s *Store) CreateChat(ctx context.Context, name string, members ...domain.UserID) (domain.Chat, error) {
	res, err := s.db.ExecContext(ctx, `INSERT INTO chats (name) VALUES (?)`, name)
	if err != nil {
		return domain.Chat{}, fmt.Errorf("create chat: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.Chat{}, fmt.Errorf("create chat: %w", err)
	}
	chat := domain.Chat{ID: domain.ChatID(id), Name: name}
	for _, uid := range members {
		if err := s.AddMember(ctx, chat.ID, uid); err != nil {
			return domain.Chat{}, err
		}
	}
	return chat, nil
}

func (s *Store) AddMember(ctx context.Context, chatID domain.ChatID, userID domain.UserID) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO chat_members (chat_id, user_id) VALUES (?, ?)`,
		int64(chatID), int64(userID))
	if err != nil {
		return fmt.Errorf("add member: %w", err)
	}
	return nil
}
