// Package http wires the gin surface: the websocket endpoint and the REST
// message-create route that shares the same persist-then-broadcast path.
package http

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/avdeenko/chatline/internal/adapters/ws"
	"github.com/avdeenko/chatline/internal/app"
	"github.com/avdeenko/chatline/internal/config"
	"github.com/avdeenko/chatline/internal/core"
)

func SetupRouter(ctx context.Context, cfg *config.Config, gate core.TokenDecoder, ctl *ws.Controller, msgs *app.MessageService) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())

	r.GET("/ws/:chat_id", func(c *gin.Context) {
		ctl.HandleChat(ctx, c)
	})

	api := r.Group("/api")
	api.Use(TokenAuthMiddleware(gate))
	api.POST("/messages/:chat_id", CreateMessageHandler(msgs))

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
