package ws

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/avdeenko/chatline/internal/config"
	"github.com/avdeenko/chatline/internal/domain"
)

type Controller struct {
	deps       Deps
	upgrader   websocket.Upgrader
	readLimit  int64
	pingPeriod time.Duration
	sendBuffer int
}

func NewController(deps Deps, cfg *config.Config) *Controller {
	return &Controller{
		deps: deps,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		readLimit:  cfg.ReadLimit,
		pingPeriod: cfg.PingPeriod,
		sendBuffer: cfg.SendBuffer,
	}
}

// HandleChat upgrades the request and runs the connection's protocol:
// handshake against the token from the query string, then the receive
// loop until disconnect.
func (ctl *Controller) HandleChat(ctx context.Context, c *gin.Context) {
	chatID, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
	if err != nil || chatID <= 0 {
		c.String(http.StatusBadRequest, "invalid chat id")
		return
	}
	token := c.Query("token")

	sock, err := ctl.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("upgrade failed")
		return
	}

	conn := NewChatConn(sock, ctl.sendBuffer)
	sess := NewSession(ctl.deps, domain.ChatID(chatID), conn, conn)
	log.Info().Str("module", "ws").Str("conn", conn.ID()).
		Int64("chat_id", chatID).Msg("new connection")

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go func() {
		defer cancel()
		if err := sess.Handshake(ctx, token); err != nil {
			log.Info().Err(err).Str("module", "ws").Str("conn", conn.ID()).Msg("handshake failed")
			return
		}
		ctl.readPump(ctx, sess, conn)
	}()
}
