// Package hub implements the broadcast fan-out: the registry of live
// connections, their room subscriptions, and the dispatch of inbound realtime
// events to the owning services.
package hub

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/JBSiena/PulseChat/internal/repository"
	"github.com/JBSiena/PulseChat/internal/service"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 16 * 1024
)

// Internal hub message types.
const (
	hubMsgRegister   = "register"
	hubMsgUnregister = "unregister"
	hubMsgEvent      = "event"
)

// HubMessage is what flows through the Hub's internal channel: connection
// lifecycle requests and raw inbound event frames.
type HubMessage struct {
	Type    string
	Client  *Client
	RawData []byte
}

// Hub maintains the live connection registry and routes every inbound event.
// Subscriptions are a pure fan-out list: nothing is persisted, and a
// reconnecting client rebuilds its set by re-issuing join_room events.
type Hub struct {
	messageChan chan HubMessage

	// rooms maps room key -> subscribed clients; clientRooms is the reverse
	// index used to clean up on disconnect. Both are guarded by roomsMu.
	rooms       map[string]map[*Client]bool
	clientRooms map[*Client]map[string]bool
	roomsMu     sync.RWMutex

	chatService    *service.ChatService
	channelService *service.ChannelService
	readService    *service.ReadService
	presenceRepo   repository.PresenceRepository
}

// NewHub creates a Hub.
func NewHub(
	chatService *service.ChatService,
	channelService *service.ChannelService,
	readService *service.ReadService,
	presenceRepo repository.PresenceRepository,
) *Hub {
	if chatService == nil || channelService == nil || readService == nil {
		panic("services cannot be nil for Hub")
	}
	if presenceRepo == nil {
		panic("PresenceRepository cannot be nil for Hub")
	}
	return &Hub{
		messageChan:    make(chan HubMessage, 512),
		rooms:          make(map[string]map[*Client]bool),
		clientRooms:    make(map[*Client]map[string]bool),
		chatService:    chatService,
		channelService: channelService,
		readService:    readService,
		presenceRepo:   presenceRepo,
	}
}

// Run is the Hub's main loop. It should run in its own goroutine and exits
// when the message channel closes.
func (h *Hub) Run() {
	log := logrus.WithField("component", "hub")
	log.Info("Hub is running...")

	for msg := range h.messageChan {
		switch msg.Type {
		case hubMsgRegister:
			h.registerClient(msg.Client)
		case hubMsgUnregister:
			h.unregisterClient(msg.Client)
		case hubMsgEvent:
			// Events are handled concurrently so one slow database write
			// never blocks the registry. Ordering across rooms is carried by
			// message ids, not by dispatch order.
			go h.dispatchEvent(msg.Client, msg.RawData)
		default:
			log.Warnf("Received unknown hub message type: %s", msg.Type)
		}
	}
	log.Info("Hub is shutting down...")
}

// QueueMessage enqueues a message without blocking. Returns false when the
// channel is full.
func (h *Hub) QueueMessage(msg HubMessage) bool {
	select {
	case h.messageChan <- msg:
		return true
	default:
		logrus.WithField("message_type", msg.Type).Warn("Hub message channel full, dropping message")
		return false
	}
}

// Register queues the connection for registration. Returns false when the
// hub channel is full and the caller should drop the connection.
func (h *Hub) Register(client *Client) bool {
	return h.QueueMessage(HubMessage{Type: hubMsgRegister, Client: client})
}

// registerClient adds the connection to the registry. Room subscriptions are
// added later, one join_room event at a time.
func (h *Hub) registerClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to register a nil client")
		return
	}
	h.roomsMu.Lock()
	h.clientRooms[client] = make(map[string]bool)
	h.roomsMu.Unlock()

	logrus.WithField("user_id", client.UserID()).Info("Client registered to Hub")
}

// unregisterClient drops the connection and all of its subscriptions.
func (h *Hub) unregisterClient(client *Client) {
	if client == nil {
		logrus.Error("Hub: attempted to unregister a nil client")
		return
	}
	logCtx := logrus.WithField("user_id", client.UserID())

	h.roomsMu.Lock()
	subscribed, known := h.clientRooms[client]
	var roomKeys []string
	if known {
		for room := range subscribed {
			roomKeys = append(roomKeys, room)
			if roomClients, ok := h.rooms[room]; ok {
				delete(roomClients, client)
				if len(roomClients) == 0 {
					delete(h.rooms, room)
				}
			}
		}
		delete(h.clientRooms, client)

		select {
		case <-client.send:
			logCtx.Warn("Client send channel already closed or has data during unregister")
		default:
			close(client.send)
		}
	}
	h.roomsMu.Unlock()

	if !known {
		logCtx.Warn("Client not found in registry during unregister")
		return
	}

	// Presence is live-only state; failures here are logged and dropped.
	ctx := context.Background()
	for _, room := range roomKeys {
		if err := h.presenceRepo.Leave(ctx, room, client.UserID()); err != nil {
			logCtx.WithError(err).WithField("room", room).Warn("Failed to clear presence")
		}
	}
	logCtx.Info("Client unregistered from Hub")
}

// subscribe adds the client to a room's fan-out list. Idempotent: joining a
// room twice is a no-op. Returns false when the client already was a
// subscriber.
func (h *Hub) subscribe(client *Client, roomKey string) bool {
	h.roomsMu.Lock()
	defer h.roomsMu.Unlock()

	subscribed, ok := h.clientRooms[client]
	if !ok {
		// Raced with unregister; the connection is gone.
		return false
	}
	if subscribed[roomKey] {
		return false
	}
	subscribed[roomKey] = true
	if h.rooms[roomKey] == nil {
		h.rooms[roomKey] = make(map[*Client]bool)
	}
	h.rooms[roomKey][client] = true
	return true
}

// broadcast sends payload to every subscriber of the room. exclude, when
// non-nil, is skipped (join/typing notify others only); include, when
// non-nil, receives the payload even without a subscription, which is how a
// caller gets the echo of its own action in a room it never joined.
func (h *Hub) broadcast(roomKey string, payload []byte, exclude, include *Client) {
	// Sends happen under the read lock: unregister closes the send channel
	// under the write lock, so a send can never hit a closed channel.
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()

	includeSeen := false
	for client := range h.rooms[roomKey] {
		if client == exclude {
			continue
		}
		if client == include {
			includeSeen = true
		}
		h.trySend(client, payload, roomKey)
	}
	if include != nil && !includeSeen && include != exclude {
		// Echo to the actor even without a subscription, as long as the
		// connection is still registered.
		if _, ok := h.clientRooms[include]; ok {
			h.trySend(include, payload, roomKey)
		}
	}
}

// sendTo delivers payload to a single client, non-blocking.
func (h *Hub) sendTo(client *Client, payload []byte) {
	h.roomsMu.RLock()
	defer h.roomsMu.RUnlock()
	if _, ok := h.clientRooms[client]; !ok {
		return
	}
	h.trySend(client, payload, "")
}

// trySend is a non-blocking send; callers hold at least the read lock. A
// full channel means a slow or dead client: skip it and let its pumps handle
// the disconnect.
func (h *Hub) trySend(client *Client, payload []byte, roomKey string) {
	select {
	case client.send <- payload:
	default:
		logrus.WithFields(logrus.Fields{
			"room":             roomKey,
			"receiver_user_id": client.UserID(),
		}).Warn("Client send channel full, dropping frame")
	}
}
