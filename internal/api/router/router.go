package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"union-officer/backend/config"
	"union-officer/backend/internal/api/handler"
	"union-officer/backend/internal/api/middleware"
	"union-officer/backend/internal/model"
	"union-officer/backend/pkg/jwt"
	"union-officer/backend/pkg/redis"
)

// Pinger checks a backing store for /health.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Setup builds the Gin engine. rdb may be nil.
func Setup(cfg *config.Config, h *handler.Handler, jwtMgr *jwt.Manager, rdb *redis.Client, db Pinger, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()

	// ── global middleware ──
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS(cfg.Server.CORS.AllowOrigins))
	r.Use(middleware.BodyLimit(cfg.Server.MaxBodyBytes, cfg.Storage.MaxUploadBytes))

	// ── health ──
	r.GET("/health", healthHandler(db, rdb))

	authn := middleware.JWTAuth(jwtMgr, rdb, logger)
	limited := middleware.RateLimit(rdb, cfg.Server.RateLimit.Requests, cfg.Server.RateLimit.Window)
	adminOnly := middleware.RoleAuth(model.RoleAdmin)

	// ── auth ──
	auth := r.Group("/auth")
	{
		auth.POST("/register", limited, h.Auth.Register)
		auth.POST("/login", limited, h.Auth.Login)
		auth.POST("/verify-email", h.Auth.VerifyEmail)
		auth.POST("/resend-verification", limited, h.Auth.ResendVerification)
		auth.POST("/forgot-password", limited, h.Auth.ForgotPassword)
		auth.POST("/reset-password", limited, h.Auth.ResetPassword)

		auth.GET("/me", authn, h.Auth.Me)
		auth.POST("/logout", authn, h.Auth.Logout)
		auth.POST("/change-password", authn, h.Auth.ChangePassword)
	}

	// ── self-service profile ──
	profile := r.Group("/api/v1/profile", authn)
	{
		profile.GET("/me", h.Profile.GetMine)
		profile.POST("/me", h.Profile.CreateMine)
		profile.PATCH("/me", h.Profile.UpdateMine)
	}

	// ── own CV ──
	me := r.Group("/me", authn)
	{
		me.POST("/cv", h.CV.Upload)
		me.GET("/cv", h.CV.ListMine)
		me.GET("/cv/:id/download", h.CV.DownloadMine)
	}

	// ── admin (ADMIN, UNIT_ADMIN scoped in the service layer) ──
	admin := r.Group("/admin", authn, middleware.RoleAuth(model.RoleAdmin, model.RoleUnitAdmin))
	{
		officers := admin.Group("/officers")
		{
			officers.GET("", h.Officer.List)
			officers.POST("", adminOnly, h.Officer.Create)
			officers.GET("/export", h.Officer.Export)
			officers.POST("/import", adminOnly, h.Officer.Import)
			officers.POST("/seed", adminOnly, h.Officer.Seed)
			officers.GET("/:id", h.Officer.Get)
			officers.PATCH("/:id", h.Officer.Update)
			officers.DELETE("/:id", adminOnly, h.Officer.Delete)
			officers.PATCH("/:id/status", h.Officer.UpdateStatus)
			officers.GET("/:id/history", h.Officer.History)
		}

		admin.GET("/dashboard/stats", h.Dashboard.Stats)

		cv := admin.Group("/cv")
		{
			cv.GET("/user/:userId", h.CV.ListByUser)
			cv.GET("/:id/download", h.CV.Download)
		}
	}

	return r
}

func healthHandler(db Pinger, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status := http.StatusOK
		body := gin.H{"status": "ok", "database": "up", "redis": "disabled"}

		if err := db.Ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			body["status"] = "degraded"
			body["database"] = "down"
		}
		if rdb != nil {
			body["redis"] = "up"
			if err := rdb.Ping(ctx); err != nil {
				body["redis"] = "down"
			}
		}

		c.JSON(status, body)
	}
}
