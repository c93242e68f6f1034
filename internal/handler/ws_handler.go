package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/studyflow/planner-backend/internal/config"
	"github.com/studyflow/planner-backend/internal/logger"
	"github.com/studyflow/planner-backend/internal/middleware"
	ws "github.com/studyflow/planner-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler streams plan-change notifications to connected clients over
// WebSocket. Events originate from PlanService publishes on Redis PubSub,
// so any number of backend instances can feed any number of clients.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      logger.Component(log, "ws_handler"),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// PlanStream godoc
// WS /ws/v1/plan/stream
// Upgrades to WebSocket and forwards plan-change events. Clients are
// expected to refetch GET /api/v1/plan when an event arrives.
func (h *WSHandler) PlanStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	raw, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	// Wrap serializes writes: the fan-out loop below and the reader
	// goroutine's replies would otherwise race on the connection.
	conn := ws.Wrap(raw)
	defer conn.Close()

	wsLog := h.log.With().Int("user_id", claims.UserID).Logger()
	wsLog.Info().Msg("Plan stream connected")

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	sub := h.rdb.Subscribe(ctx, config.CacheKey.PlanUpdatesChannel())
	defer sub.Close()

	// Reader goroutine: pings keep the read deadline fresh; any error
	// (including client close) tears the stream down.
	go func() {
		defer cancel()
		for {
			var msg ws.RequestEnvelope
			if err := conn.ReadJSON(&msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}

			switch msg.Action {
			case ws.ActionPing:
				conn.WriteTyped(ws.PongResponse{Event: ws.EventPong})
			default:
				conn.WriteError("unknown action: " + string(msg.Action))
			}
		}
	}()

	events := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-events:
			if !ok {
				return
			}
			if err := conn.WriteTyped(ws.PlanChangedResponse{
				Event:   ws.EventPlanChanged,
				Payload: []byte(msg.Payload),
			}); err != nil {
				wsLog.Debug().Err(err).Msg("Plan stream write failed")
				return
			}
		}
	}
}
