package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	ChannelGymEvents = "gym_events"
)

// 事件类型
const (
	EventMemberCheckedIn  = "member_checked_in"
	EventMemberCheckedOut = "member_checked_out"
	EventPaymentReceived  = "payment_received"
	EventMembersExpired   = "members_expired"
)

// Event 推送给健身房管理端的实时事件
type Event struct {
	Type       string                 `json:"type"`
	GymOwnerID int64                  `json:"gym_owner_id"`
	MemberID   int64                  `json:"member_id,omitempty"`
	MemberCode string                 `json:"member_code,omitempty"`
	MemberName string                 `json:"member_name,omitempty"`
	PaymentID  int64                  `json:"payment_id,omitempty"`
	Amount     float64                `json:"amount,omitempty"`
	Message    string                 `json:"message,omitempty"`
	Data       map[string]interface{} `json:"data,omitempty"`
	Timestamp  time.Time              `json:"timestamp"`
}

// 事件对应的默认消息
var EventMessages = map[string]string{
	EventMemberCheckedIn:  "Member checked in",
	EventMemberCheckedOut: "Member checked out",
	EventPaymentReceived:  "Payment received",
	EventMembersExpired:   "Memberships expired",
}

// EventPublisher 事件发布接口，服务层依赖它而非具体实现
type EventPublisher interface {
	Publish(ctx context.Context, event *Event) error
}

// Publisher Redis 发布者
type Publisher struct {
	client *redis.Client
}

// NewPublisher 创建发布者
func NewPublisher(client *redis.Client) *Publisher {
	return &Publisher{client: client}
}

// Publish 发布事件
func (p *Publisher) Publish(ctx context.Context, event *Event) error {
	if event.Message == "" {
		event.Message = EventMessages[event.Type]
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	return p.client.Publish(ctx, ChannelGymEvents, data).Err()
}

// NopPublisher 丢弃所有事件
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, *Event) error { return nil }

// Subscriber Redis 订阅者
type Subscriber struct {
	client *redis.Client
}

// NewSubscriber 创建订阅者
func NewSubscriber(client *redis.Client) *Subscriber {
	return &Subscriber{client: client}
}

// Subscribe 订阅事件，直到 ctx 结束
func (s *Subscriber) Subscribe(ctx context.Context, handler func(*Event)) error {
	pubsub := s.client.Subscribe(ctx, ChannelGymEvents)
	defer pubsub.Close()

	ch := pubsub.Channel()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}

			var event Event
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue // 忽略解析错误
			}

			handler(&event)
		}
	}
}
