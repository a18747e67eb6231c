package app

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/avdeenko/chatline/internal/core"
	"github.com/avdeenko/chatline/internal/domain"
)

// fakeConn records every frame it is handed. With fail set it refuses all
// sends, imitating a broken transport.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	fail   bool
	closed bool
}

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail || c.closed {
		return errors.New("connection closed")
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	c.closed = true
	c.mu.Unlock()
}

func (c *fakeConn) frameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.frames)
}

// envelopes decodes recorded frames into generic maps for assertions.
func (c *fakeConn) envelopes() []map[string]any {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]map[string]any, 0, len(c.frames))
	for _, f := range c.frames {
		var m map[string]any
		if err := json.Unmarshal(f, &m); err != nil {
			panic(err)
		}
		out = append(out, m)
	}
	return out
}

// gatedConn blocks every send until the gate channel is closed.
type gatedConn struct {
	fakeConn
	gate chan struct{}
}

func (c *gatedConn) TrySend(f core.Frame) error {
	<-c.gate
	return c.fakeConn.TrySend(f)
}

type fakeChatStore struct {
	members map[domain.ChatID][]domain.UserID
}

func (s *fakeChatStore) GetMembership(_ context.Context, chatID domain.ChatID, userID domain.UserID) (domain.Chat, error) {
	for _, uid := range s.members[chatID] {
		if uid == userID {
			return domain.Chat{ID: chatID, Name: "test chat"}, nil
		}
	}
	return domain.Chat{}, domain.ErrChatNotFound
}

type fakeMessageStore struct {
	mu      sync.Mutex
	nextID  domain.MessageID
	created []domain.Message
}

func (s *fakeMessageStore) CreateMessage(_ context.Context, chatID domain.ChatID, senderID domain.UserID, content string) (domain.Message, error) {
	if err := domain.ValidateContent(content); err != nil {
		return domain.Message{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	m := domain.Message{
		ID:        s.nextID,
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	s.created = append(s.created, m)
	return m, nil
}

func (s *fakeMessageStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

type fakeUserStore struct {
	users map[domain.UserID]domain.UserPublic
}

func (s *fakeUserStore) LookupUser(_ context.Context, userID domain.UserID) (domain.UserPublic, error) {
	u, ok := s.users[userID]
	if !ok {
		return domain.UserPublic{}, domain.ErrUserNotFound
	}
	return u, nil
}
