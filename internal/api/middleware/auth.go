package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/qs3c/gym_go_server/internal/model"
	"github.com/qs3c/gym_go_server/internal/pkg/jwt"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
)

const (
	UserIDKey     = "userID"
	GymOwnerIDKey = "gymOwnerID"
)

// GymOwnerResolver 根据登录用户查找所属健身房
type GymOwnerResolver interface {
	GetGymOwnerByUserID(userID int64) (*model.GymOwner, error)
}

// Auth JWT 认证中间件
func Auth(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AuthError(c, "Authentication credentials were not provided")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			response.AuthError(c, "Invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := jwt.ParseToken(tokenString, jwtSecret)
		if err != nil {
			response.AuthError(c, "Token is invalid or expired")
			c.Abort()
			return
		}

		c.Set(UserIDKey, claims.UserID)
		c.Next()
	}
}

// RequireGymOwner 要求当前用户是健身房业主，并把 gym_owner_id 放入上下文
// 必须挂在 Auth 之后
func RequireGymOwner(resolver GymOwnerResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := GetUserID(c)
		if !ok {
			response.AuthError(c, "")
			c.Abort()
			return
		}

		owner, err := resolver.GetGymOwnerByUserID(userID)
		if err != nil || owner == nil {
			response.PermissionError(c, "Gym owner profile not found")
			c.Abort()
			return
		}
		if !owner.IsActive {
			response.PermissionError(c, "Gym account is inactive")
			c.Abort()
			return
		}

		c.Set(GymOwnerIDKey, owner.ID)
		c.Next()
	}
}

// GetUserID 从上下文获取用户 ID
func GetUserID(c *gin.Context) (int64, bool) {
	userID, exists := c.Get(UserIDKey)
	if !exists {
		return 0, false
	}
	id, ok := userID.(int64)
	return id, ok
}

// GetGymOwnerID 从上下文获取健身房业主 ID
func GetGymOwnerID(c *gin.Context) (int64, bool) {
	v, exists := c.Get(GymOwnerIDKey)
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}
