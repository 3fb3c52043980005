package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"gridwatch/backend/internal/model"
	"gridwatch/backend/internal/service"
	"gridwatch/backend/internal/util"
	"gridwatch/backend/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// FleetHandler serves reconstructed fleets
type FleetHandler struct {
	fleetService *service.FleetService
	upgrader     websocket.Upgrader
	log          *logger.Logger
}

// NewFleetHandler creates a new fleet handler. allowedOrigins gates the WebSocket handshake;
// "*" allows any origin.
func NewFleetHandler(fleetService *service.FleetService, allowedOrigins []string) *FleetHandler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}

	return &FleetHandler{
		fleetService: fleetService,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || allowed["*"] || allowed[origin]
			},
		},
		log: logger.GetLogger().Component("fleet_stream"),
	}
}

// GetFleet handles GET /api/v1/fleet
func (h *FleetHandler) GetFleet(c *gin.Context) {
	result, err := h.fleetService.GetFleet(c.Request.Context(), c.GetString(util.ContextUserID))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, result, result.Message)
}

// GetFleetBot handles GET /api/v1/fleet/bots/:id
func (h *FleetHandler) GetFleetBot(c *gin.Context) {
	result, err := h.fleetService.GetFleetBot(c.Request.Context(), c.GetString(util.ContextUserID), c.Param("id"))
	if err != nil {
		util.SendError(c, err)
		return
	}

	util.SendSuccessWithMessage(c, result, result.Message)
}

// Stream handles GET /api/v1/fleet/stream. It pushes a fleet_update right away and then
// once per the caller's refresh interval until the client goes away.
func (h *FleetHandler) Stream(c *gin.Context) {
	userID := c.GetString(util.ContextUserID)

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warnf("Failed to upgrade websocket: %v", err)
		return
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pings := make(chan struct{}, 1)
	go h.readPump(conn, cancel, pings)

	interval := h.fleetService.StreamInterval(ctx, userID)
	h.log.WithField("user_id", userID).Infof("fleet stream opened, interval %s", interval)

	push := time.NewTicker(interval)
	defer push.Stop()
	keepalive := time.NewTicker(pingPeriod)
	defer keepalive.Stop()

	if err := h.pushFleet(ctx, conn, userID); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case <-push.C:
			if err := h.pushFleet(ctx, conn, userID); err != nil {
				return
			}
		case <-pings:
			if err := writeJSON(conn, model.NewWSMessage(model.MessageTypePong, nil)); err != nil {
				return
			}
		case <-keepalive.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *FleetHandler) pushFleet(ctx context.Context, conn *websocket.Conn, userID string) error {
	result, err := h.fleetService.GetFleet(ctx, userID)
	if err != nil {
		code, message := util.ErrCodeInternal, "Failed to load fleet"
		if appErr := util.GetAppError(err); appErr != nil {
			code, message = appErr.Code, appErr.Message
		}
		return writeJSON(conn, model.NewWSMessage(model.MessageTypeError, model.WSErrorPayload{Code: code, Message: message}))
	}
	return writeJSON(conn, model.NewWSMessage(model.MessageTypeFleetUpdate, result))
}

// readPump owns the read side: it tracks pongs, forwards application pings and
// cancels the stream once the peer is gone.
func (h *FleetHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc, pings chan<- struct{}) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.log.Warnf("fleet stream read error: %v", err)
			}
			return
		}

		var msg model.WSMessage
		if json.Unmarshal(data, &msg) == nil && msg.Type == model.MessageTypePing {
			select {
			case pings <- struct{}{}:
			default:
			}
		}
	}
}

func writeJSON(conn *websocket.Conn, msg model.WSMessage) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(msg)
}
