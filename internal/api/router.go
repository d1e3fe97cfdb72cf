package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/rentora/rentora/internal/dbpool"
	"github.com/rentora/rentora/internal/domain"
	"github.com/rentora/rentora/internal/escrow"
	"github.com/rentora/rentora/internal/middleware"
	"github.com/rentora/rentora/internal/ws"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Pool        *dbpool.Pool
	Hub         *ws.Hub
	Ledger      *escrow.Ledger
	Properties  domain.PropertyService
	Leases      domain.LeaseService
	Admin       domain.AdminService
	Audit       domain.AuditService
	PartyLookup domain.PartyLookup
	CORSOrigins []string
	Version     string
}

// Router-level limits.
const (
	maxBodySize = 10 << 20 // 10 MB
	rateLimit   = 100      // requests per second per IP
	rateBurst   = 200      // token bucket burst size
)

// setupMiddleware configures all middleware on the Gin engine.
func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     deps.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization"},
		MaxAge:           1 * time.Hour,
		AllowCredentials: false,
	}))
	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	// Metrics endpoint (unauthenticated, like health).
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// registerRoutes sets up all API route handlers on the given router group.
func registerRoutes(ctx context.Context, api *gin.RouterGroup, deps *RouterDeps) {
	log := deps.Log

	health := NewHealthHandler(deps.Pool, deps.Hub, log, deps.Version)
	properties := NewPropertyHandler(deps.Properties, log)
	leases := NewLeaseHandler(deps.Leases, log)
	admin := NewAdminHandler(deps.Admin, log)
	audit := NewAuditHandler(deps.Audit, log)
	stats := NewStatsHandler(deps.Pool, deps.Ledger, log)

	// Health and readiness are unauthenticated.
	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	// All other API routes require authentication.
	bfGuard := middleware.NewBruteForceGuard(ctx, log)
	api.Use(middleware.BruteForceMiddleware(bfGuard))
	api.Use(middleware.AuthMiddleware(middleware.NewCachedPartyLookup(ctx, deps.PartyLookup), log, bfGuard))

	// Properties.
	api.GET("/properties", properties.List)
	api.POST("/properties", properties.Create)
	api.GET("/properties/:id", properties.Get)
	api.PUT("/properties/:id/condition", properties.UpdateCondition)
	api.GET("/properties/:id/quote", properties.Quote)

	// Lease lifecycle.
	api.POST("/properties/:id/lease/apply", leases.Apply)
	api.POST("/properties/:id/lease/confirm", leases.Confirm)
	api.POST("/properties/:id/lease/pay", leases.Pay)
	api.POST("/properties/:id/lease/extend", leases.Extend)
	api.POST("/properties/:id/lease/terminate", leases.Terminate)
	api.POST("/properties/:id/lease/claim-default", leases.ClaimDefault)
	api.POST("/leases/switch", leases.Switch)

	// Admin.
	api.GET("/admin/config", admin.GetConfig)
	api.PUT("/admin/grace-period", admin.SetGracePeriod)

	// Audit.
	api.GET("/audit", audit.Query)

	// Stats.
	api.GET("/stats", stats.GetStats)

	// WebSocket endpoint.
	api.GET("/ws", wsHandler(ctx, log, deps.Hub, deps.CORSOrigins, deps.PartyLookup))
}

// NewRouter creates and configures the Gin engine with all middleware and routes.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(ctx, r.Group("/api/v1"), deps)

	return r
}
