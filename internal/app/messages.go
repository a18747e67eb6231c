package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avdeenko/chatline/internal/core"
	"github.com/avdeenko/chatline/internal/domain"
)

// chatLocks hands out one mutex per chat id so creation-and-broadcast is
// serialized per chat: two messages persisted in some order are always
// delivered in that order. Entries live for the process lifetime; the map
// is bounded by the number of chats ever written to.
type chatLocks struct {
	mu sync.Mutex
	m  map[domain.ChatID]*sync.Mutex
}

func (cl *chatLocks) get(chatID domain.ChatID) *sync.Mutex {
	cl.mu.Lock()
	defer cl.mu.Unlock()
	if cl.m == nil {
		cl.m = make(map[domain.ChatID]*sync.Mutex)
	}
	l, ok := cl.m[chatID]
	if !ok {
		l = &sync.Mutex{}
		cl.m[chatID] = l
	}
	return l
}

// MessageService is the single entry point for creating a message, used by
// both the socket path and the REST path so persist-then-broadcast
// semantics stay uniform.
type MessageService struct {
	chats    core.ChatStore
	messages core.MessageStore
	users    core.UserStore
	bc       *Broadcaster
	locks    chatLocks
}

func NewMessageService(chats core.ChatStore, messages core.MessageStore, users core.UserStore, bc *Broadcaster) *MessageService {
	return &MessageService{chats: chats, messages: messages, users: users, bc: bc}
}

// Create validates membership, persists the message and broadcasts it to
// the chat before returning. Nothing is broadcast when persistence fails.
func (s *MessageService) Create(ctx context.Context, chatID domain.ChatID, senderID domain.UserID, content string) (domain.MessagePublic, error) {
	if _, err := s.chats.GetMembership(ctx, chatID, senderID); err != nil {
		return domain.MessagePublic{}, err
	}

	lock := s.locks.get(chatID)
	lock.Lock()
	defer lock.Unlock()

	pub, err := s.persist(ctx, chatID, senderID, content)
	if err != nil {
		return domain.MessagePublic{}, err
	}
	s.bc.Broadcast(chatID, core.NewMessage(pub))
	return pub, nil
}

// CreateDetached is the REST flavor: it returns as soon as the message is
// durable, and fans out from a detached goroutine so response latency does
// not depend on how many connections are subscribed. The chat lock is held
// until that goroutine finishes, which keeps delivery order equal to
// creation order; broadcast failure is logged and dropped, never surfaced
// to the caller and never rolled back into persistence.
func (s *MessageService) CreateDetached(ctx context.Context, chatID domain.ChatID, senderID domain.UserID, content string) (domain.MessagePublic, error) {
	if _, err := s.chats.GetMembership(ctx, chatID, senderID); err != nil {
		return domain.MessagePublic{}, err
	}

	lock := s.locks.get(chatID)
	lock.Lock()

	pub, err := s.persist(ctx, chatID, senderID, content)
	if err != nil {
		lock.Unlock()
		return domain.MessagePublic{}, err
	}

	go func() {
		defer lock.Unlock()
		defer func() {
			if r := recover(); r != nil {
				log.Error().Str("module", "app.messages").Any("panic", r).Msg("detached broadcast panicked")
			}
		}()
		s.bc.Broadcast(chatID, core.NewMessage(pub))
	}()
	return pub, nil
}

func (s *MessageService) persist(ctx context.Context, chatID domain.ChatID, senderID domain.UserID, content string) (domain.MessagePublic, error) {
	m, err := s.messages.CreateMessage(ctx, chatID, senderID, content)
	if err != nil {
		return domain.MessagePublic{}, err
	}

	var sender *domain.UserPublic
	if u, err := s.users.LookupUser(ctx, senderID); err == nil {
		sender = &u
	} else {
		log.Warn().Err(err).Str("module", "app.messages").
			Int64("user_id", int64(senderID)).Msg("sender projection unavailable")
	}
	return domain.NewMessagePublic(m, sender), nil
}
