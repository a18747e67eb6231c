package ws

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

const writeWait = 5 * time.Second

func (ctl *Controller) writePump(ctx context.Context, c *ChatConn) {
	ticker := time.NewTicker(ctl.pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			log.Debug().Str("module", "ws").Str("conn", c.ID()).Msg("writePump ctx done")
			return
		case data, ok := <-c.send:
			if !ok {
				log.Debug().Str("module", "ws").Str("conn", c.ID()).Msg("writePump channel closed")
				return
			}
			if err := c.ws.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				log.Error().Err(err).Str("module", "ws").Str("conn", c.ID()).Msg("writePump set deadline")
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Error().Err(err).Str("module", "ws").Str("conn", c.ID()).Msg("writePump write error")
				return
			}
		case <-ticker.C:
			if err := c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				log.Debug().Err(err).Str("module", "ws").Str("conn", c.ID()).Msg("writePump ping failed")
				return
			}
		}
	}
}

// readPump feeds inbound frames to the session until the transport drops,
// then tears the session down. One broken connection never disturbs the
// others; everything here is scoped to this conn.
func (ctl *Controller) readPump(ctx context.Context, sess *Session, c *ChatConn) {
	defer func() {
		sess.Teardown()
		c.Close()
		log.Info().Str("module", "ws").Str("conn", c.ID()).Msg("readPump closed")
	}()

	c.ws.SetReadLimit(ctl.readLimit)
	pongWait := ctl.pingPeriod + writeWait
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		select {
		case <-ctx.Done():
			return
		default:
			_, data, err := c.ws.ReadMessage()
			if err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					log.Info().Err(err).Str("module", "ws").Str("conn", c.ID()).Msg("readPump read error")
				}
				return
			}
			sess.HandleFrame(ctx, data)
		}
	}
}
