package app

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/avdeenko/chatline/internal/core"
	"github.com/avdeenko/chatline/internal/domain"
)

type owner struct {
	chatID domain.ChatID
	userID domain.UserID
}

// Registry is the in-memory index of live connections, keyed both by chat
// and by user. It is constructed once at process start and injected into
// every handler; there is no ambient global instance.
type Registry struct {
	mu     sync.RWMutex
	byChat map[domain.ChatID]map[core.Conn]struct{}
	byUser map[domain.UserID]map[core.Conn]struct{}
	owners map[core.Conn]owner
}

func NewRegistry() *Registry {
	return &Registry{
		byChat: make(map[domain.ChatID]map[core.Conn]struct{}),
		byUser: make(map[domain.UserID]map[core.Conn]struct{}),
		owners: make(map[core.Conn]owner),
	}
}

// Register adds conn to both indexes, creating the sets on first use.
func (r *Registry) Register(chatID domain.ChatID, userID domain.UserID, conn core.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.byChat[chatID] == nil {
		r.byChat[chatID] = make(map[core.Conn]struct{})
	}
	r.byChat[chatID][conn] = struct{}{}
	if r.byUser[userID] == nil {
		r.byUser[userID] = make(map[core.Conn]struct{})
	}
	r.byUser[userID][conn] = struct{}{}
	r.owners[conn] = owner{chatID: chatID, userID: userID}
	log.Info().Str("module", "app.registry").
		Int64("chat_id", int64(chatID)).Int64("user_id", int64(userID)).
		Int("chat_conns", len(r.byChat[chatID])).Msg("registered connection")
}

// Deregister removes conn from both indexes and prunes sets that become
// empty. Deregistering an absent connection is a no-op.
func (r *Registry) Deregister(chatID domain.ChatID, userID domain.UserID, conn core.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.remove(chatID, userID, conn)
}

// Prune drops a connection discovered dead mid-broadcast. The registry
// remembers which sets it lives in, so callers only need the conn.
func (r *Registry) Prune(conn core.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.owners[conn]
	if !ok {
		return
	}
	r.remove(o.chatID, o.userID, conn)
	log.Warn().Str("module", "app.registry").
		Int64("chat_id", int64(o.chatID)).Int64("user_id", int64(o.userID)).
		Msg("pruned dead connection")
}

// remove must run under the write lock.
func (r *Registry) remove(chatID domain.ChatID, userID domain.UserID, conn core.Conn) {
	if set, ok := r.byChat[chatID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(r.byChat, chatID)
		}
	}
	if set, ok := r.byUser[userID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(r.byUser, userID)
		}
	}
	delete(r.owners, conn)
}

// SnapshotForChat returns a point-in-time copy of the chat's connections.
// Callers iterate the copy while sends may block or fail; the live set is
// never exposed.
func (r *Registry) SnapshotForChat(chatID domain.ChatID) []core.Conn {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := r.byChat[chatID]
	out := make([]core.Conn, 0, len(set))
	for conn := range set {
		out = append(out, conn)
	}
	return out
}

// UserConnCount reports how many live connections a user holds across all
// chats.
func (r *Registry) UserConnCount(userID domain.UserID) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.byUser[userID])
}
