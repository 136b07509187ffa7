package ws

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// newGymServer 每个连接按 gymOwnerIDs 依次分配业主
func newGymServer(t *testing.T, hub *Hub, gymOwnerIDs ...int64) string {
	t.Helper()
	var next int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		i := atomic.AddInt32(&next, 1) - 1
		client := &Client{GymOwnerID: gymOwnerIDs[int(i)%len(gymOwnerIDs)], Conn: conn}
		hub.Register(client)

		go func() {
			defer hub.Unregister(client)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()
	}))
	t.Cleanup(server.Close)
	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestHub_Empty(t *testing.T) {
	hub := NewHub()
	assert.Equal(t, 0, hub.ConnectionCount())
	assert.False(t, hub.IsOnline(123))
	assert.NoError(t, hub.SendToGym(123, &Message{Type: "test"}))
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub := NewHub()
	url := newGymServer(t, hub, 1, 1, 2)

	first := dial(t, url)
	dial(t, url)
	dial(t, url)

	require.Eventually(t, func() bool { return hub.ConnectionCount() == 3 }, time.Second, 10*time.Millisecond)
	assert.True(t, hub.IsOnline(1))
	assert.True(t, hub.IsOnline(2))
	assert.False(t, hub.IsOnline(3))

	first.Close()
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 2 }, time.Second, 10*time.Millisecond)
	assert.True(t, hub.IsOnline(1))
}

func TestHub_DispatchOnlyToOwningGym(t *testing.T) {
	hub := NewHub()
	url := newGymServer(t, hub, 10, 20)

	mine := dial(t, url)
	other := dial(t, url)
	require.Eventually(t, func() bool { return hub.ConnectionCount() == 2 }, time.Second, 10*time.Millisecond)

	hub.Dispatch(&pubsub.Event{Type: pubsub.EventMemberCheckedIn, GymOwnerID: 10, MemberCode: "MEM-0001"})

	mine.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := mine.ReadMessage()
	require.NoError(t, err)

	var msg struct {
		Type string       `json:"type"`
		Data pubsub.Event `json:"data"`
	}
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, pubsub.EventMemberCheckedIn, msg.Type)
	assert.Equal(t, "MEM-0001", msg.Data.MemberCode)

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err = other.ReadMessage()
	assert.Error(t, err)
}

func TestHub_RunForwardsRedisEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	hub := NewHub()
	url := newGymServer(t, hub, 7)
	conn := dial(t, url)
	require.Eventually(t, func() bool { return hub.IsOnline(7) }, time.Second, 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx, pubsub.NewSubscriber(rdb))

	publisher := pubsub.NewPublisher(rdb)
	require.Eventually(t, func() bool {
		n, _ := rdb.PubSubNumSub(ctx, pubsub.ChannelGymEvents).Result()
		return n[pubsub.ChannelGymEvents] > 0
	}, time.Second, 10*time.Millisecond)
	require.NoError(t, publisher.Publish(ctx, &pubsub.Event{Type: pubsub.EventPaymentReceived, GymOwnerID: 7, Amount: 1500}))

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Contains(t, string(data), pubsub.EventPaymentReceived)
	assert.Contains(t, string(data), "Payment received")
}
