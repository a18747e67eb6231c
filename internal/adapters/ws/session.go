package ws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/avdeenko/chatline/internal/app"
	"github.com/avdeenko/chatline/internal/core"
	"github.com/avdeenko/chatline/internal/domain"
)

// Handshake rejection reasons; clients match on the exact strings.
const (
	ReasonTokenRequired = "Token required"
	ReasonInvalidToken  = "Invalid token"
	ReasonAccessDenied  = "Chat not found or access denied"
)

type sessionState int

const (
	stateConnecting sessionState = iota
	stateAuthenticating
	stateAuthorizing
	stateActive
	stateClosed
)

// Deps bundles the collaborators a session needs. Everything is injected;
// the session holds no globals.
type Deps struct {
	Gate     core.TokenDecoder
	Chats    core.ChatStore
	Users    core.UserStore
	Registry *app.Registry
	Bcast    *app.Broadcaster
	Messages *app.MessageService
	Limiter  *MessageRateLimiter
}

// rejecter closes the transport with a policy-violation code and reason.
// ChatConn implements it; tests substitute a recorder.
type rejecter interface {
	CloseWithReason(code int, reason string)
}

// Session is the per-connection state machine. It is decoupled from the
// live socket: frames are pushed in through Handshake/HandleFrame, output
// goes through the injected conn, so the whole protocol is testable with
// synthetic frames.
type Session struct {
	deps Deps
	conn core.Conn
	rej  rejecter

	state    sessionState
	chatID   domain.ChatID
	userID   domain.UserID
	userName string
}

func NewSession(deps Deps, chatID domain.ChatID, conn core.Conn, rej rejecter) *Session {
	return &Session{
		deps:   deps,
		conn:   conn,
		rej:    rej,
		state:  stateConnecting,
		chatID: chatID,
	}
}

// Handshake walks Connecting → Authenticating → Authorizing → Active. Any
// failure closes the connection with code 1008 and the exact reason, and
// leaves the session terminally Closed.
func (s *Session) Handshake(ctx context.Context, token string) error {
	s.state = stateAuthenticating
	if token == "" {
		return s.reject(ReasonTokenRequired)
	}

	userID, err := s.deps.Gate.DecodeToken(token)
	if err != nil {
		log.Info().Err(err).Str("module", "ws").Msg("token rejected")
		return s.reject(ReasonInvalidToken)
	}

	s.state = stateAuthorizing
	if _, err := s.deps.Chats.GetMembership(ctx, s.chatID, userID); err != nil {
		return s.reject(ReasonAccessDenied)
	}

	s.userID = userID
	if u, err := s.deps.Users.LookupUser(ctx, userID); err == nil {
		s.userName = u.DisplayName()
	}

	s.deps.Registry.Register(s.chatID, s.userID, s.conn)
	s.state = stateActive
	log.Info().Str("module", "ws").
		Int64("chat_id", int64(s.chatID)).Int64("user_id", int64(s.userID)).
		Msg("session active")
	return nil
}

func (s *Session) reject(reason string) error {
	s.rej.CloseWithReason(websocket.ClosePolicyViolation, reason)
	s.state = stateClosed
	return fmt.Errorf("handshake rejected: %s", reason)
}

// HandleFrame processes one inbound frame in Active state. Unrecognized
// frame types are valid frames that produce no action; whether that is
// forward compatibility or a missing validation is deliberately left as
// observed.
func (s *Session) HandleFrame(ctx context.Context, data []byte) {
	if s.state != stateActive {
		return
	}
	var frame core.InboundFrame
	if err := json.Unmarshal(data, &frame); err != nil {
		log.Error().Err(err).Str("module", "ws").Msg("bad json frame")
		return
	}

	switch frame.Type {
	case core.FrameMessage:
		s.handleMessage(ctx, frame.Content)
	case core.FrameTyping:
		s.handleTyping()
	default:
		log.Debug().Str("module", "ws").Str("type", frame.Type).Msg("ignoring unknown frame type")
	}
}

// handleMessage persists and fans out. Failures go back to this connection
// only and the loop continues; a bad message is never fatal to the
// session.
func (s *Session) handleMessage(ctx context.Context, content string) {
	if s.deps.Limiter != nil && !s.deps.Limiter.Allow(s.userID) {
		s.deps.Bcast.SendTo(s.conn, core.Error("too many messages, slow down"))
		return
	}
	if _, err := s.deps.Messages.Create(ctx, s.chatID, s.userID, content); err != nil {
		log.Info().Err(err).Str("module", "ws").
			Int64("chat_id", int64(s.chatID)).Msg("message rejected")
		s.deps.Bcast.SendTo(s.conn, core.Error(err.Error()))
	}
}

// handleTyping fans an ephemeral notification out; nothing is persisted
// and no acknowledgment goes back.
func (s *Session) handleTyping() {
	s.deps.Bcast.Broadcast(s.chatID, core.Typing(s.userID, s.userName))
}

// Teardown deregisters an Active session. Closed is terminal: a client
// that reconnects starts a fresh handshake and receives no backlog.
func (s *Session) Teardown() {
	if s.state == stateActive {
		s.deps.Registry.Deregister(s.chatID, s.userID, s.conn)
		log.Info().Str("module", "ws").
			Int64("chat_id", int64(s.chatID)).Int64("user_id", int64(s.userID)).
			Msg("session closed")
	}
	s.state = stateClosed
}
