// Package store is the persistence collaborator: users, chats, membership
// and messages on a single sqlite database. Every call borrows a connection
// from the shared pool for its own duration; nothing is held open per chat
// connection.
package store

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	email           TEXT NOT NULL UNIQUE,
	full_name       TEXT NOT NULL DEFAULT '',
	hashed_password TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS chats (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS chat_members (
	chat_id INTEGER NOT NULL REFERENCES chats(id),
	user_id INTEGER NOT NULL REFERENCES users(id),
	PRIMARY KEY (chat_id, user_id)
);

CREATE TABLE IF NOT EXISTS messages (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	chat_id    INTEGER NOT NULL REFERENCES chats(id),
	sender_id  INTEGER NOT NULL REFERENCES users(id),
	content    TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	edited_at  INTEGER
);

CREATE INDEX IF NOT EXISTS idx_messages_chat ON messages(chat_id, id);
`

type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// sqlite serializes writers; a single pooled connection avoids
	// SQLITE_BUSY under concurrent senders.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	log.Info().Str("module", "store").Str("path", path).Msg("database ready")
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
