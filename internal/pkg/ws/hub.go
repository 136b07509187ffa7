package ws

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/pubsub"
)

// Hub 按健身房业主分组的管理端连接
type Hub struct {
	// 同一业主可以有多个连接（前台、手机、多标签页）
	clients map[int64]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	GymOwnerID int64
	Conn       *websocket.Conn
	mu         sync.Mutex // 写锁，防止并发写入
}

type Message struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[int64]map[*Client]struct{}),
	}
}

// Run 订阅 Redis 事件频道并转发给对应业主，直到 ctx 结束
func (h *Hub) Run(ctx context.Context, sub *pubsub.Subscriber) error {
	return sub.Subscribe(ctx, h.Dispatch)
}

// Dispatch 把一个事件推送给所属业主的全部连接
func (h *Hub) Dispatch(event *pubsub.Event) {
	if event == nil || event.GymOwnerID == 0 {
		return
	}
	if err := h.SendToGym(event.GymOwnerID, &Message{Type: event.Type, Data: event}); err != nil {
		logging.Warn().Err(err).Str("type", event.Type).Msg("failed to dispatch gym event")
	}
}

func (h *Hub) Register(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.clients[client.GymOwnerID] == nil {
		h.clients[client.GymOwnerID] = make(map[*Client]struct{})
	}
	h.clients[client.GymOwnerID][client] = struct{}{}

	logging.Debug().
		Int64("gym_owner_id", client.GymOwnerID).
		Int("gym_conns", len(h.clients[client.GymOwnerID])).
		Msg("websocket connected")
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if conns, ok := h.clients[client.GymOwnerID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.clients, client.GymOwnerID)
		}
	}
	logging.Debug().Int64("gym_owner_id", client.GymOwnerID).Msg("websocket disconnected")
}

// SendToGym 向指定业主的所有连接发送消息
func (h *Hub) SendToGym(gymOwnerID int64, msg *Message) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	h.mu.RLock()
	conns, ok := h.clients[gymOwnerID]
	if !ok {
		h.mu.RUnlock()
		return nil
	}
	// 复制一份引用，避免长时间持锁
	clients := make([]*Client, 0, len(conns))
	for c := range conns {
		clients = append(clients, c)
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.mu.Lock()
		err := c.Conn.WriteMessage(websocket.TextMessage, data)
		c.mu.Unlock()
		if err != nil {
			logging.Warn().Err(err).Int64("gym_owner_id", gymOwnerID).Msg("websocket write failed")
		}
	}
	return nil
}

// IsOnline 业主是否有在线连接
func (h *Hub) IsOnline(gymOwnerID int64) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns, ok := h.clients[gymOwnerID]
	return ok && len(conns) > 0
}

// ConnectionCount 在线连接数
func (h *Hub) ConnectionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	total := 0
	for _, conns := range h.clients {
		total += len(conns)
	}
	return total
}
