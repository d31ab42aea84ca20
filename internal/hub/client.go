package hub

import (
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"github.com/JBSiena/PulseChat/internal/domain"
)

// Client is one live websocket connection. The session record is bound once
// at registration, after the handshake token verified, and never mutated;
// the subscription set lives in the Hub's registry, not here.
type Client struct {
	hub     *Hub
	conn    *websocket.Conn
	session *domain.Session
	send    chan []byte
}

// NewClient creates a Client for an upgraded connection.
func NewClient(hub *Hub, conn *websocket.Conn, session *domain.Session) *Client {
	return &Client{
		hub:     hub,
		conn:    conn,
		session: session,
		send:    make(chan []byte, 256),
	}
}

// Run starts the read and write pumps.
func (c *Client) Run() {
	go c.WritePump()
	go c.ReadPump()
}

// Session returns the immutable identity of the connection.
func (c *Client) Session() *domain.Session { return c.session }

// UserID returns the connection's user id.
func (c *Client) UserID() uint { return c.session.UserID }

// CloseConn closes the underlying websocket connection.
func (c *Client) CloseConn() { c.conn.Close() }

// ReadPump pumps frames from the websocket into the Hub's message channel.
// It runs in its own goroutine; exiting triggers the unregister path.
func (c *Client) ReadPump() {
	defer func() {
		unregisterMsg := HubMessage{Type: hubMsgUnregister, Client: c}
		select {
		case c.hub.messageChan <- unregisterMsg:
		case <-time.After(1 * time.Second):
			logrus.WithField("user_id", c.UserID()).Warn("Timeout sending unregister message to Hub channel")
		}
		c.conn.Close()
		logrus.WithField("user_id", c.UserID()).Info("readPump exited, unregistered client")
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		messageType, message, err := c.conn.ReadMessage()
		if err != nil {
			logCtx := logrus.WithField("user_id", c.UserID())
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logCtx.WithError(err).Warn("WebSocket read error (unexpected close)")
			} else {
				logCtx.Debug("WebSocket connection closed normally or read error")
			}
			break
		}

		if messageType != websocket.TextMessage {
			logrus.WithField("user_id", c.UserID()).Debugf("Ignoring non-text message type: %d", messageType)
			continue
		}

		eventMsg := HubMessage{
			Type:    hubMsgEvent,
			Client:  c,
			RawData: message,
		}
		select {
		case c.hub.messageChan <- eventMsg:
		default:
			logrus.WithField("user_id", c.UserID()).Warn("Hub message channel full, dropping client event")
		}
	}
}

// WritePump pumps frames from the send channel to the websocket and keeps
// the connection alive with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
		logrus.WithField("user_id", c.UserID()).Info("writePump exited")
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The Hub closed the channel during unregister.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				logrus.WithField("user_id", c.UserID()).WithError(err).Warn("Failed to write message to websocket")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				logrus.WithField("user_id", c.UserID()).WithError(err).Warn("Failed to send ping message")
				return
			}
			_ = c.conn.SetWriteDeadline(time.Time{})
		}
	}
}
