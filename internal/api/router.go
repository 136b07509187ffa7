package api

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/qs3c/gym_go_server/config"
	"github.com/qs3c/gym_go_server/internal/api/handler"
	"github.com/qs3c/gym_go_server/internal/api/middleware"
)

// Handlers 路由需要的全部 handler
type Handlers struct {
	Auth         *handler.AuthHandler
	Member       *handler.MemberHandler
	Trainer      *handler.TrainerHandler
	Equipment    *handler.EquipmentHandler
	Plan         *handler.PlanHandler
	Payment      *handler.PaymentHandler
	Attendance   *handler.AttendanceHandler
	Notification *handler.NotificationHandler
	Dashboard    *handler.DashboardHandler
	Health       *handler.HealthHandler
	WebSocket    *handler.WebSocketHandler
}

type Router struct {
	h        Handlers
	resolver middleware.GymOwnerResolver
	limiter  *middleware.RateLimiter
	cfg      *config.Config
}

func NewRouter(h Handlers, resolver middleware.GymOwnerResolver, limiter *middleware.RateLimiter, cfg *config.Config) *Router {
	return &Router{
		h:        h,
		resolver: resolver,
		limiter:  limiter,
		cfg:      cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	if r.cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID(), middleware.RequestLogger())
	engine.Use(middleware.CORS(r.cfg.CORS))

	// 运维接口
	engine.GET("/health", r.h.Health.Live)
	engine.GET("/ready", r.h.Health.Ready)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	limited := middleware.RateLimit(r.limiter)

	api := engine.Group("/api/v1")
	{
		// WebSocket，token 走 query
		api.GET("/ws", r.h.WebSocket.Handle)

		// 公开接口 - 认证
		auth := api.Group("/auth")
		{
			auth.POST("/register", limited, r.h.Auth.Register)
			auth.POST("/login", limited, r.h.Auth.Login)
			auth.POST("/google", limited, r.h.Auth.GoogleLogin)
			auth.GET("/google/url", r.h.Auth.GoogleURL)
			auth.GET("/google/callback", limited, r.h.Auth.GoogleCallback)
			auth.POST("/qr/verify", limited, r.h.Auth.VerifyQR)
		}

		// 公开接口 - 会员扫码签到
		api.POST("/attendance/qr-checkin/:token", limited, r.h.Attendance.QRCheckIn)

		// 需要登录且是健身房业主
		gym := api.Group("")
		gym.Use(middleware.Auth(r.cfg.JWT.Secret), middleware.RequireGymOwner(r.resolver))
		{
			account := gym.Group("/auth")
			{
				account.POST("/logout", r.h.Auth.Logout)
				account.GET("/profile", r.h.Auth.GetProfile)
				account.PUT("/profile", r.h.Auth.UpdateProfile)
				account.POST("/change-password", r.h.Auth.ChangePassword)
				account.POST("/upload-picture", r.h.Auth.UploadPicture)
				account.POST("/qr/regenerate", r.h.Auth.RegenerateQR)
			}
			gym.GET("/gym/qr-code", r.h.Auth.GetQRCode)

			members := gym.Group("/members")
			{
				members.POST("", r.h.Member.Create)
				members.GET("", r.h.Member.List)
				members.GET("/active", r.h.Member.ListActive)
				members.GET("/expiring", r.h.Member.ListExpiring)
				members.GET("/:id", r.h.Member.Get)
				members.PUT("/:id", r.h.Member.Update)
				members.DELETE("/:id", r.h.Member.Delete)
				members.GET("/:id/bmi", r.h.Member.BMI)
				members.GET("/:id/attendance", r.h.Member.Attendance)
				members.GET("/:id/payments", r.h.Member.Payments)
				members.POST("/:id/upload-picture", r.h.Member.UploadPicture)
			}

			trainers := gym.Group("/trainers")
			{
				trainers.POST("", r.h.Trainer.Create)
				trainers.GET("", r.h.Trainer.List)
				trainers.GET("/available", r.h.Trainer.ListAvailable)
				trainers.GET("/:id", r.h.Trainer.Get)
				trainers.PUT("/:id", r.h.Trainer.Update)
				trainers.DELETE("/:id", r.h.Trainer.Delete)
				trainers.GET("/:id/members", r.h.Trainer.Members)
				trainers.POST("/:id/associate", r.h.Trainer.Associate)
				trainers.POST("/:id/unassociate", r.h.Trainer.Unassociate)
			}

			associations := gym.Group("/associations")
			{
				associations.GET("", r.h.Trainer.ListAssociations)
				associations.GET("/active", r.h.Trainer.ListActiveAssociations)
			}

			equipment := gym.Group("/equipment")
			{
				equipment.POST("", r.h.Equipment.Create)
				equipment.GET("", r.h.Equipment.List)
				equipment.GET("/working", r.h.Equipment.ListWorking)
				equipment.GET("/by-type", r.h.Equipment.ByType)
				equipment.GET("/maintenance-due", r.h.Equipment.MaintenanceDue)
				equipment.GET("/:id", r.h.Equipment.Get)
				equipment.PUT("/:id", r.h.Equipment.Update)
				equipment.DELETE("/:id", r.h.Equipment.Delete)
			}

			plans := gym.Group("/subscription-plans")
			{
				plans.POST("", r.h.Plan.CreatePlan)
				plans.GET("", r.h.Plan.ListPlans)
				plans.GET("/active", r.h.Plan.ListActivePlans)
				plans.GET("/:id", r.h.Plan.GetPlan)
				plans.PUT("/:id", r.h.Plan.UpdatePlan)
				plans.DELETE("/:id", r.h.Plan.DeletePlan)
			}

			subs := gym.Group("/member-subscriptions")
			{
				subs.POST("", r.h.Plan.CreateSubscription)
				subs.GET("", r.h.Plan.ListSubscriptions)
				subs.GET("/active", r.h.Plan.ListActiveSubscriptions)
				subs.GET("/expiring-soon", r.h.Plan.ListExpiringSubscriptions)
				subs.GET("/:id", r.h.Plan.GetSubscription)
				subs.PUT("/:id", r.h.Plan.UpdateSubscription)
				subs.DELETE("/:id", r.h.Plan.DeleteSubscription)
			}

			payments := gym.Group("/payments")
			{
				payments.POST("", r.h.Payment.Create)
				payments.GET("", r.h.Payment.List)
				payments.GET("/monthly-revenue", r.h.Payment.MonthlyRevenue)
				payments.GET("/revenue-analytics", r.h.Payment.RevenueAnalytics)
				payments.GET("/:id", r.h.Payment.Get)
				payments.PUT("/:id", r.h.Payment.Update)
				payments.DELETE("/:id", r.h.Payment.Delete)
			}

			attendance := gym.Group("/attendance")
			{
				attendance.GET("", r.h.Attendance.List)
				attendance.POST("/check-in", r.h.Attendance.CheckIn)
				attendance.POST("/check-out", r.h.Attendance.CheckOut)
				attendance.GET("/today", r.h.Attendance.Today)
				attendance.GET("/analytics", r.h.Attendance.Analytics)
			}

			notifications := gym.Group("/notifications")
			{
				notifications.GET("", r.h.Notification.List)
				notifications.GET("/unread-count", r.h.Notification.UnreadCount)
				notifications.POST("/read-all", r.h.Notification.MarkAllRead)
				notifications.POST("/check-expiring", r.h.Notification.CheckExpiring)
				notifications.POST("/:id/read", r.h.Notification.MarkRead)
			}

			gym.GET("/dashboard/stats", r.h.Dashboard.Stats)
		}
	}

	return engine
}
