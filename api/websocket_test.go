package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"catalog/core"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	hub := NewHub(zap.NewNop().Sugar(), context.Background())
	go hub.Start()
	t.Cleanup(hub.Stop)
	return hub
}

// dialTestHub spins up a websocket endpoint backed by hub and connects one
// subscriber to it.
func dialTestHub(t *testing.T, hub *Hub) *websocket.Conn {
	t.Helper()
	logger := zap.NewNop().Sugar()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		serveWs(hub, logger, w, r)
	}))
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func waitForClientCount(t *testing.T, hub *Hub, want int) {
	t.Helper()
	require.Eventually(t, func() bool {
		return hub.ClientCount() == want
	}, 2*time.Second, 10*time.Millisecond, "expected %d connected clients", want)
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := newTestHub(t)

	conn := dialTestHub(t, hub)
	waitForClientCount(t, hub, 1)

	conn.Close()
	waitForClientCount(t, hub, 0)
}

func TestHub_BroadcastReachesSubscriber(t *testing.T) {
	hub := newTestHub(t)
	conn := dialTestHub(t, hub)
	waitForClientCount(t, hub, 1)

	product := &core.Product{
		ID:          primitive.NewObjectID(),
		Name:        "Hammer",
		About:       "Steel",
		Price:       9.99,
		CategoryIDs: []primitive.ObjectID{},
	}
	hub.Broadcast(core.ChangeEvent{Action: core.ActionCreated, Product: product})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg WebSocketMessage
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "products", msg.Type)
	assert.False(t, msg.Timestamp.IsZero())

	// Data round-trips through interface{}, re-decode it into the event shape
	dataJSON, err := json.Marshal(msg.Data)
	require.NoError(t, err)
	var event core.ChangeEvent
	require.NoError(t, json.Unmarshal(dataJSON, &event))
	assert.Equal(t, core.ActionCreated, event.Action)
	require.NotNil(t, event.Product)
	assert.Equal(t, product.ID, event.Product.ID)
}

func TestHub_BroadcastDeleteCarriesIDOnly(t *testing.T) {
	hub := newTestHub(t)
	conn := dialTestHub(t, hub)
	waitForClientCount(t, hub, 1)

	id := primitive.NewObjectID().Hex()
	hub.Broadcast(core.ChangeEvent{Action: core.ActionDeleted, ID: id})

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string           `json:"type"`
		Data core.ChangeEvent `json:"data"`
	}
	require.NoError(t, json.Unmarshal(raw, &msg))
	assert.Equal(t, "products", msg.Type)
	assert.Equal(t, core.ActionDeleted, msg.Data.Action)
	assert.Equal(t, id, msg.Data.ID)
	assert.Nil(t, msg.Data.Product)
}

func TestHub_BroadcastFansOutToAllSubscribers(t *testing.T) {
	hub := newTestHub(t)
	first := dialTestHub(t, hub)
	second := dialTestHub(t, hub)
	waitForClientCount(t, hub, 2)

	hub.Broadcast(core.ChangeEvent{Action: core.ActionUpdated, ID: primitive.NewObjectID().Hex()})

	for _, conn := range []*websocket.Conn{first, second} {
		conn.SetReadDeadline(time.Now().Add(2 * time.Second))
		_, raw, err := conn.ReadMessage()
		require.NoError(t, err)
		assert.Contains(t, string(raw), `"type":"products"`)
	}
}

func TestHub_BroadcastWithoutSubscribersDoesNotBlock(t *testing.T) {
	hub := newTestHub(t)

	done := make(chan struct{})
	go func() {
		hub.Broadcast(core.ChangeEvent{Action: core.ActionDeleted, ID: primitive.NewObjectID().Hex()})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("broadcast must not block when nobody is connected")
	}
}

func TestHub_StopDisconnectsSubscribers(t *testing.T) {
	hub := NewHub(zap.NewNop().Sugar(), context.Background())
	go hub.Start()

	conn := dialTestHub(t, hub)
	waitForClientCount(t, hub, 1)

	hub.Stop()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, _, err := conn.ReadMessage()
	assert.Error(t, err, "connection must be closed once the hub stops")
	assert.Equal(t, 0, hub.ClientCount())
}
