package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	gorillaws "github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/librekpi/backend/internal/config"
	"github.com/librekpi/backend/internal/logger"
	"github.com/librekpi/backend/internal/middleware"
	"github.com/librekpi/backend/internal/model"
	"github.com/librekpi/backend/internal/response"
	"github.com/librekpi/backend/internal/websocket"
)

// WSHandler streams live feedback events to moderators over WebSocket.
type WSHandler struct {
	rdb      *redis.Client
	upgrader gorillaws.Upgrader
	log      zerolog.Logger
}

// NewWSHandler creates a new WebSocket handler.
func NewWSHandler(rdb *redis.Client, cfg *config.Config, log zerolog.Logger) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		upgrader: buildUpgrader(cfg.AllowedOrigins),
		log:      logger.Component(log, "ws_handler"),
	}
}

// buildUpgrader restricts WebSocket upgrades to the configured origins.
// An empty list allows all origins, matching the CORS behavior.
func buildUpgrader(allowedOrigins []string) gorillaws.Upgrader {
	return gorillaws.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(origin, allowed) {
					return true
				}
			}
			return false
		},
	}
}

// ModerationStream godoc
// GET /ws/v1/moderation/stream?token=...
//
// Subscribes the connection to the feedback event channel and relays
// every event as a typed frame. The client may send ping actions to
// keep the connection alive.
func (h *WSHandler) ModerationStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}
	if !model.HasPermission(claims.Permissions, model.PermFeedbackModerate) {
		response.Fail(c, http.StatusForbidden, response.ErrPermissionDenied)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Str("user_id", claims.UserID).Logger()
	wsLog.Info().Msg("moderation stream opened")

	ctx := c.Request.Context()
	pubsub := h.rdb.Subscribe(ctx, config.CacheKey.FeedbackChannel())
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		wsLog.Error().Err(err).Msg("feedback channel subscription failed")
		websocket.WriteError(conn, "subscription failed")
		return
	}

	// All writes happen in this goroutine. The reader only parses
	// client actions and forwards them, so the connection has a single
	// writer as gorilla requires.
	actions := make(chan websocket.RequestEnvelope)
	done := make(chan struct{})
	quit := make(chan struct{})
	defer close(quit)
	go h.readActions(conn, actions, done, quit, wsLog)

	events := pubsub.Channel()
	for {
		select {
		case msg, open := <-events:
			if !open {
				wsLog.Warn().Msg("feedback channel closed")
				return
			}
			var event model.FeedbackEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				wsLog.Warn().Err(err).Msg("malformed feedback event dropped")
				continue
			}
			if err := websocket.WriteFrame(conn, websocket.FeedbackFrame{
				Event:   websocket.EventFeedback,
				Payload: event,
			}); err != nil {
				wsLog.Debug().Err(err).Msg("write failed, closing stream")
				return
			}

		case req := <-actions:
			switch req.Action {
			case websocket.ActionPing:
				if err := websocket.WriteFrame(conn, websocket.PongFrame{Event: websocket.EventPong}); err != nil {
					return
				}
			default:
				websocket.WriteError(conn, "unknown action")
			}

		case <-done:
			wsLog.Info().Msg("moderation stream closed")
			return

		case <-ctx.Done():
			return
		}
	}
}

// readActions pumps client frames into the actions channel until the
// connection drops, then closes done. The quit channel unblocks a
// pending send when the writer loop has already returned.
func (h *WSHandler) readActions(conn *gorillaws.Conn, actions chan<- websocket.RequestEnvelope, done chan<- struct{}, quit <-chan struct{}, wsLog zerolog.Logger) {
	defer close(done)
	for {
		req, err := websocket.ReadEnvelope(conn)
		if err != nil {
			if gorillaws.IsUnexpectedCloseError(err, gorillaws.CloseGoingAway, gorillaws.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("unexpected websocket close")
			}
			return
		}
		select {
		case actions <- req:
		case <-quit:
			return
		}
	}
}
