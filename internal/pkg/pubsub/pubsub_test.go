package pubsub

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr: mr.Addr(),
	})

	return client, mr
}

func TestEventMessages(t *testing.T) {
	events := []string{EventMemberCheckedIn, EventMemberCheckedOut, EventPaymentReceived, EventMembersExpired}

	for _, e := range events {
		msg, ok := EventMessages[e]
		assert.True(t, ok, "Event %s should have message", e)
		assert.NotEmpty(t, msg)
	}
}

func TestEvent_JSON(t *testing.T) {
	event := &Event{
		Type:       EventMemberCheckedIn,
		GymOwnerID: 1,
		MemberID:   2,
		MemberCode: "MEM-0002",
	}

	data, err := json.Marshal(event)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Contains(t, raw, "gym_owner_id")
	assert.Contains(t, raw, "member_code")
	// 零值字段省略
	assert.NotContains(t, raw, "payment_id")
	assert.NotContains(t, raw, "amount")
}

func TestPublisherSubscriber(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	publisher := NewPublisher(client)
	subscriber := NewSubscriber(client)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan *Event, 1)
	go func() {
		subscriber.Subscribe(ctx, func(e *Event) {
			received <- e
		})
	}()

	// 等待订阅建立
	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(ChannelGymEvents)[ChannelGymEvents] > 0
	}, 2*time.Second, 10*time.Millisecond)

	err := publisher.Publish(ctx, &Event{
		Type:       EventPaymentReceived,
		GymOwnerID: 9,
		PaymentID:  77,
		Amount:     1500,
	})
	require.NoError(t, err)

	select {
	case e := <-received:
		assert.Equal(t, int64(9), e.GymOwnerID)
		assert.Equal(t, int64(77), e.PaymentID)
		assert.Equal(t, EventMessages[EventPaymentReceived], e.Message)
		assert.False(t, e.Timestamp.IsZero())
	case <-ctx.Done():
		t.Fatal("Timeout waiting for event")
	}
}

func TestSubscriber_StopsOnCancel(t *testing.T) {
	client, mr := setupTestRedis(t)
	defer mr.Close()
	defer client.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- NewSubscriber(client).Subscribe(ctx, func(*Event) {})
	}()

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}

func TestNopPublisher(t *testing.T) {
	var p EventPublisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), &Event{Type: EventMemberCheckedIn}))
}
