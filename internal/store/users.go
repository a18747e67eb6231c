package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/avdeenko/chatline/internal/domain"
)

func (s *Store) LookupUser(ctx context.Context, userID domain.UserID) (domain.UserPublic, error) {
	var u domain.UserPublic
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, full_name FROM users WHERE id = ?`, int64(userID)).
		Scan(&u.ID, &u.Email, &u.FullName)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserPublic{}, domain.ErrUserNotFound
	}
	if err != nil {
		return domain.UserPublic{}, fmt.Errorf("lookup user: %w", err)
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, email, fullName string) (domain.User, error) {
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO users (email, full_name) VALUES (?, ?)`, email, fullName)
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}
	return domain.User{ID: domain.UserID(id), Email: email, FullName: fullName}, nil
}
