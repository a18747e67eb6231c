package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	router "github.com/avdeenko/chatline/internal/adapters/http"
	"github.com/avdeenko/chatline/internal/adapters/ws"
	"github.com/avdeenko/chatline/internal/app"
	"github.com/avdeenko/chatline/internal/auth"
	"github.com/avdeenko/chatline/internal/config"
	"github.com/avdeenko/chatline/internal/store"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Initialize zerolog global logger early so config.Load can use it.
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Error().Err(err).Msg("failed to load config")
	}

	db, err := store.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open database")
	}
	defer db.Close()

	gate := auth.New(cfg.Secret, cfg.TokenTTL)
	registry := app.NewRegistry()
	broadcaster := app.NewBroadcaster(registry)
	messages := app.NewMessageService(db, db, db, broadcaster)

	ctl := ws.NewController(ws.Deps{
		Gate:     gate,
		Chats:    db,
		Users:    db,
		Registry: registry,
		Bcast:    broadcaster,
		Messages: messages,
		Limiter:  ws.NewMessageRateLimiter(cfg.MsgRateLimit, cfg.MsgRateWindow),
	}, cfg)

	r := router.SetupRouter(ctx, cfg, gate, ctl, messages)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("chatline server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
