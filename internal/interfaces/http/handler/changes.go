package handler

import (
	"net/http"
	"slices"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/simpro/backend/internal/domain/snapshot"
)

const (
	changeWriteWait    = 10 * time.Second
	changePongWait     = 60 * time.Second
	changePingInterval = changePongWait * 9 / 10
)

// ChangeHandler streams the change feed of an account over a websocket, so
// clients can refresh their views when another session writes
type ChangeHandler struct {
	BaseHandler
	feed     snapshot.ChangeFeed
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

// NewChangeHandler creates a new ChangeHandler. allowedOrigins follows the
// CORS whitelist; "*" accepts any origin.
func NewChangeHandler(feed snapshot.ChangeFeed, allowedOrigins []string, logger *zap.Logger) *ChangeHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChangeHandler{
		feed:   feed,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || slices.Contains(allowedOrigins, "*") || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// Stream upgrades the request and forwards every change of the account as a
// JSON text message until either side goes away
func (h *ChangeHandler) Stream(c *gin.Context) {
	accountID, ok := h.account(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	sub, err := h.feed.Subscribe(ctx, accountID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	defer sub.Close()

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("Websocket upgrade failed", zap.String("account_id", accountID.String()), zap.Error(err))
		return
	}
	defer conn.Close()

	log := h.logger.With(zap.String("account_id", accountID.String()))
	log.Debug("Change stream opened")

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		_ = conn.SetReadDeadline(time.Now().Add(changePongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(changePongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					log.Warn("Unexpected websocket close", zap.Error(err))
				}
				return
			}
		}
	}()

	ticker := time.NewTicker(changePingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-ctx.Done():
			return
		case change, ok := <-sub.Changes():
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "feed closed"),
					time.Now().Add(changeWriteWait))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(changeWriteWait))
			if err := conn.WriteJSON(change); err != nil {
				log.Warn("Failed to write change", zap.Error(err))
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(changeWriteWait)); err != nil {
				return
			}
		}
	}
}
