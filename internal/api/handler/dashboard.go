package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"gorm.io/gorm"

	"github.com/qs3c/gym_go_server/internal/pkg/logging"
	"github.com/qs3c/gym_go_server/internal/pkg/response"
	"github.com/qs3c/gym_go_server/internal/service"
)

type DashboardHandler struct {
	dashboardService *service.DashboardService
}

func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Stats GET /api/v1/dashboard/stats
func (h *DashboardHandler) Stats(c *gin.Context) {
	gymOwnerID, ok := currentGym(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.Stats(gymOwnerID)
	if err != nil {
		handleError(c, err)
		return
	}
	response.Success(c, stats)
}

// HealthHandler 存活与就绪探针
type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Live GET /health
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready GET /ready，数据库和 Redis 都可用才算就绪
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	checks := gin.H{"database": "ok", "redis": "ok"}
	ready := true

	if err := h.pingDB(ctx); err != nil {
		logging.Warn().Err(err).Msg("database not ready")
		checks["database"] = err.Error()
		ready = false
	}
	if h.rdb != nil {
		if err := h.rdb.Ping(ctx).Err(); err != nil {
			logging.Warn().Err(err).Msg("redis not ready")
			checks["redis"] = err.Error()
			ready = false
		}
	}

	status := http.StatusOK
	checks["status"] = "ready"
	if !ready {
		status = http.StatusServiceUnavailable
		checks["status"] = "not_ready"
	}
	c.JSON(status, checks)
}

func (h *HealthHandler) pingDB(ctx context.Context) error {
	sqlDB, err := h.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
