package hub

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/JBSiena/PulseChat/internal/domain"
	"github.com/JBSiena/PulseChat/internal/repository/mocks"
)

// newTestHub builds a Hub with only the registry wired; event dispatch is
// not exercised here.
func newTestHub(presenceRepo *mocks.PresenceRepository) *Hub {
	return &Hub{
		messageChan:  make(chan HubMessage, 16),
		rooms:        make(map[string]map[*Client]bool),
		clientRooms:  make(map[*Client]map[string]bool),
		presenceRepo: presenceRepo,
	}
}

func newTestClient(h *Hub, userID uint, name string) *Client {
	return NewClient(h, nil, &domain.Session{UserID: userID, DisplayName: name})
}

func TestHub_SubscribeIdempotent(t *testing.T) {
	h := newTestHub(new(mocks.PresenceRepository))
	client := newTestClient(h, 1, "alice")
	h.registerClient(client)

	assert.True(t, h.subscribe(client, "channel:10"))
	assert.False(t, h.subscribe(client, "channel:10"), "joining twice is a no-op")
	assert.Len(t, h.rooms["channel:10"], 1)
}

func TestHub_SubscribeUnregisteredClient(t *testing.T) {
	h := newTestHub(new(mocks.PresenceRepository))
	client := newTestClient(h, 1, "alice")

	assert.False(t, h.subscribe(client, "channel:10"), "a raced unregister leaves nothing to subscribe")
	assert.Empty(t, h.rooms)
}

func TestHub_BroadcastExcludesSender(t *testing.T) {
	h := newTestHub(new(mocks.PresenceRepository))
	alice := newTestClient(h, 1, "alice")
	bob := newTestClient(h, 2, "bob")
	h.registerClient(alice)
	h.registerClient(bob)
	h.subscribe(alice, "channel:10")
	h.subscribe(bob, "channel:10")

	h.broadcast("channel:10", []byte("joined"), alice, nil)

	select {
	case got := <-bob.send:
		assert.Equal(t, "joined", string(got))
	default:
		t.Fatal("bob should have received the frame")
	}
	select {
	case <-alice.send:
		t.Fatal("excluded sender must not receive the frame")
	default:
	}
}

func TestHub_BroadcastEchoesToUnsubscribedSender(t *testing.T) {
	h := newTestHub(new(mocks.PresenceRepository))
	alice := newTestClient(h, 1, "alice")
	bob := newTestClient(h, 2, "bob")
	h.registerClient(alice)
	h.registerClient(bob)
	// Bob is subscribed to the dm room, Alice sends without joining it.
	h.subscribe(bob, "dm:1:2")

	h.broadcast("dm:1:2", []byte("hello"), nil, alice)

	select {
	case got := <-alice.send:
		assert.Equal(t, "hello", string(got), "the sender gets the echo even without a subscription")
	default:
		t.Fatal("alice should have received the echo")
	}
	select {
	case got := <-bob.send:
		assert.Equal(t, "hello", string(got))
	default:
		t.Fatal("bob should have received the frame")
	}
}

func TestHub_BroadcastIncludeNotDuplicated(t *testing.T) {
	h := newTestHub(new(mocks.PresenceRepository))
	alice := newTestClient(h, 1, "alice")
	h.registerClient(alice)
	h.subscribe(alice, "channel:10")

	// Subscribed and included: exactly one copy.
	h.broadcast("channel:10", []byte("once"), nil, alice)

	<-alice.send
	select {
	case <-alice.send:
		t.Fatal("included subscriber must receive exactly one copy")
	default:
	}
}

func TestHub_UnregisterCleansSubscriptionsAndPresence(t *testing.T) {
	presenceRepo := new(mocks.PresenceRepository)
	presenceRepo.On("Leave", mock.Anything, "channel:10", uint(1)).Return(nil).Once()
	presenceRepo.On("Leave", mock.Anything, "dm:1:2", uint(1)).Return(nil).Once()

	h := newTestHub(presenceRepo)
	alice := newTestClient(h, 1, "alice")
	h.registerClient(alice)
	h.subscribe(alice, "channel:10")
	h.subscribe(alice, "dm:1:2")

	h.unregisterClient(alice)

	assert.Empty(t, h.rooms, "empty rooms are pruned from the registry")
	assert.NotContains(t, h.clientRooms, alice)
	_, open := <-alice.send
	assert.False(t, open, "the send channel is closed on unregister")

	// Frames addressed to a gone client are dropped, not delivered.
	h.broadcast("channel:10", []byte("late"), nil, alice)
	h.sendTo(alice, []byte("late"))

	presenceRepo.AssertExpectations(t)
}

func TestHub_QueueMessageNonBlocking(t *testing.T) {
	h := newTestHub(new(mocks.PresenceRepository))
	h.messageChan = make(chan HubMessage, 1)

	require.True(t, h.QueueMessage(HubMessage{Type: hubMsgRegister}))
	assert.False(t, h.QueueMessage(HubMessage{Type: hubMsgRegister}), "a full channel drops instead of blocking")
}
