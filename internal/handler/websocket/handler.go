// Package websocket upgrades authenticated HTTP requests into hub clients.
package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/JBSiena/PulseChat/internal/hub"
	"github.com/JBSiena/PulseChat/internal/service"
)

// WebSocketHandler handles the /ws upgrade. There is one connection per
// client regardless of room count; rooms are joined afterwards with
// join_room events over the socket.
type WebSocketHandler struct {
	upgrader    websocket.Upgrader
	hub         *hub.Hub
	authService *service.AuthService
}

// NewWebSocketHandler creates a WebSocketHandler.
func NewWebSocketHandler(h *hub.Hub, authService *service.AuthService) *WebSocketHandler {
	if h == nil {
		panic("Hub cannot be nil for WebSocketHandler")
	}
	if authService == nil {
		panic("AuthService cannot be nil for WebSocketHandler")
	}

	upgrader := websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			// TODO: restrict to the configured frontend origin once deployed.
			return true
		},
	}

	return &WebSocketHandler{
		upgrader:    upgrader,
		hub:         h,
		authService: authService,
	}
}

// HandleConnection authenticates the caller, upgrades the connection and
// hands it to the Hub. The session snapshot taken here stays fixed for the
// connection's lifetime; a renamed user reconnects to pick up the new name.
func (h *WebSocketHandler) HandleConnection(c *gin.Context) {
	userIDAny, exists := c.Get("user_id")
	if !exists {
		logrus.Warn("WS Handler: User ID not found in context")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}
	userID, ok := userIDAny.(uint)
	if !ok {
		logrus.Error("WS Handler: User ID in context is not uint")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	logCtx := logrus.WithField("user_id", userID)

	session, err := h.authService.SessionFromUserID(c.Request.Context(), userID)
	if err != nil {
		logCtx.WithError(err).Warn("WS Handler: Failed to build session for token user")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error, only log here.
		logCtx.WithError(err).Error("WS Handler: Failed to upgrade connection")
		return
	}
	logCtx.Info("WS Handler: Connection upgraded to WebSocket")

	client := hub.NewClient(h.hub, conn, session)
	if !h.hub.Register(client) {
		logCtx.Error("WS Handler: Hub channel full, dropping connection")
		client.CloseConn()
		return
	}

	client.Run()
}
