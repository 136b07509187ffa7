package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/api/middleware"
	"github.com/qs3c/gym_go_server/internal/pkg/jwt"
	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/pkg/ws"
)

type WebSocketHandler struct {
	hub       *ws.Hub
	resolver  middleware.GymOwnerResolver
	jwtSecret string
	upgrader  websocket.Upgrader
}

func NewWebSocketHandler(hub *ws.Hub, resolver middleware.GymOwnerResolver, jwtSecret string, cors config.CORSConfig) *WebSocketHandler {
	allowOrigin := middleware.OriginMatcher(cors)

	return &WebSocketHandler{
		hub:       hub,
		resolver:  resolver,
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// 非浏览器客户端不带 Origin
				origin := r.Header.Get("Origin")
				return origin == "" || allowOrigin(origin)
			},
		},
	}
}

// Handle 管理端实时事件连接
// GET /api/v1/ws?token=xxx
func (h *WebSocketHandler) Handle(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.AuthError(c, "Missing token")
		return
	}

	claims, err := jwt.ParseToken(token, h.jwtSecret)
	if err != nil {
		response.AuthError(c, "Token is invalid or expired")
		return
	}

	owner, err := h.resolver.GetGymOwnerByUserID(claims.UserID)
	if err != nil || owner == nil || !owner.IsActive {
		response.PermissionError(c, "Gym owner profile not found")
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Warn().Err(err).Msg("failed to upgrade websocket connection")
		return
	}

	client := &ws.Client{
		GymOwnerID: owner.ID,
		Conn:       conn,
	}
	h.hub.Register(client)

	// 只读不处理，用于感知断开
	go func() {
		defer h.hub.Unregister(client)
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
