package app

import (
	"encoding/json"

	"github.com/rs/zerolog/log"

	"github.com/avdeenko/chatline/internal/core"
	"github.com/avdeenko/chatline/internal/domain"
)

// Broadcaster fans an envelope out to every connection registered for a
// chat at call time. Connections that join after the snapshot is taken do
// not receive the envelope; connections that fail mid-pass are pruned, not
// retried.
type Broadcaster struct {
	reg *Registry
}

func NewBroadcaster(reg *Registry) *Broadcaster {
	return &Broadcaster{reg: reg}
}

// Broadcast serializes v once and attempts delivery to the snapshot. Send
// failures are isolated per connection and never reach the caller.
func (b *Broadcaster) Broadcast(chatID domain.ChatID, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Msg("marshal envelope")
		return
	}

	conns := b.reg.SnapshotForChat(chatID)
	if len(conns) == 0 {
		log.Debug().Str("module", "app.broadcast").Int64("chat_id", int64(chatID)).Msg("no live connections")
		return
	}

	var failed []core.Conn
	for _, conn := range conns {
		if err := conn.TrySend(core.Frame(data)); err != nil {
			log.Warn().Err(err).Str("module", "app.broadcast").
				Int64("chat_id", int64(chatID)).Msg("send failed")
			failed = append(failed, conn)
		}
	}
	for _, conn := range failed {
		b.reg.Prune(conn)
	}
	log.Debug().Str("module", "app.broadcast").Int64("chat_id", int64(chatID)).
		Int("sent", len(conns)-len(failed)).Int("failed", len(failed)).Msg("broadcast done")
}

// SendTo delivers an envelope to a single connection, for errors scoped to
// the originating client.
func (b *Broadcaster) SendTo(conn core.Conn, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Str("module", "app.broadcast").Msg("marshal envelope")
		return
	}
	if err := conn.TrySend(core.Frame(data)); err != nil {
		log.Warn().Err(err).Str("module", "app.broadcast").Msg("personal send failed")
		b.reg.Prune(conn)
	}
}
