package http

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/avdeenko/chatline/internal/app"
	"github.com/avdeenko/chatline/internal/core"
	"github.com/avdeenko/chatline/internal/domain"
)

const userIDKey = "user_id"

// TokenAuthMiddleware resolves the bearer token into a user id, or stops
// the request with 401.
func TokenAuthMiddleware(gate core.TokenDecoder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token := strings.TrimPrefix(header, "Bearer ")
		if token == "" || token == header {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Not authenticated"})
			return
		}
		userID, err := gate.DecodeToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token"})
			return
		}
		c.Set(userIDKey, int64(userID))
		c.Next()
	}
}

type createMessageRequest struct {
	Content string `json:"content" binding:"required"`
}

// CreateMessageHandler is the REST flavor of message creation. The
// response is written as soon as the message is durable; fan-out happens
// detached and its outcome never reaches this caller.
func CreateMessageHandler(msgs *app.MessageService) gin.HandlerFunc {
	return func(c *gin.Context) {
		chatID, err := strconv.ParseInt(c.Param("chat_id"), 10, 64)
		if err != nil || chatID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "Invalid chat id"})
			return
		}
		userID := domain.UserID(c.GetInt64(userIDKey))

		var req createMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
			return
		}

		pub, err := msgs.CreateDetached(c.Request.Context(), domain.ChatID(chatID), userID, req.Content)
		switch {
		case err == nil:
			c.JSON(http.StatusOK, pub)
		case errors.Is(err, domain.ErrChatNotFound):
			c.JSON(http.StatusNotFound, gin.H{"detail": "Chat not found"})
		case errors.Is(err, domain.ErrEmptyContent), errors.Is(err, domain.ErrContentTooLong):
			c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		default:
			log.Error().Err(err).Str("module", "adapters.http").Msg("create message")
			c.JSON(http.StatusInternalServerError, gin.H{"detail": "Internal server error"})
		}
	}
}
