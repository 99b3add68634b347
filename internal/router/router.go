// Package router builds the echo instance and registers the API routes.
package router

import (
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/JoyalGJ/PG-Management/internal/config"
	"github.com/JoyalGJ/PG-Management/internal/handler"
	"github.com/JoyalGJ/PG-Management/internal/middleware"
	"github.com/JoyalGJ/PG-Management/internal/validator"
)

// Handlers bundles every handler the routes point to.
type Handlers struct {
	Health      *handler.HealthHandler
	Rooms       *handler.RoomHandler
	Tenants     *handler.TenantHandler
	Ledger      *handler.LedgerHandler
	Payments    *handler.PaymentHandler
	Maintenance *handler.MaintenanceHandler
}

// Options configures the middleware stack of New.  A nil Redis client
// turns caching and rate limiting into pass-throughs.
type Options struct {
	Log       *zap.Logger
	Redis     *redis.Client
	Cache     config.CacheConfig
	RateLimit config.RateLimitConfig
}

// APIPrefix is the mount point of the versioned API.  Only routes under
// it are served from the response cache.
const APIPrefix = "/v1"

// New returns an echo instance with the validator and the middleware
// chain installed: request id, access log, rate limit, then cache.
func New(opts Options) *echo.Echo {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = validator.New()
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(middleware.NewTokenBucket(opts.RateLimit, opts.Redis, log))
	e.Use(under(APIPrefix, middleware.NewRedisCache(opts.Cache, opts.Redis, log)))
	return e
}

// under applies mw to requests whose path lies below prefix and lets
// everything else, such as /healthz, bypass it.
func under(prefix string, mw echo.MiddlewareFunc) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		wrapped := mw(next)
		return func(c echo.Context) error {
			p := c.Request().URL.Path
			if p == prefix || strings.HasPrefix(p, prefix+"/") {
				return wrapped(c)
			}
			return next(c)
		}
	}
}

// RegisterRoutes mounts the health check and the /v1 API on e.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", h.Health.Health)

	v1 := e.Group(APIPrefix)

	rooms := v1.Group("/rooms")
	rooms.GET("", h.Rooms.List)
	rooms.POST("", h.Rooms.Create)
	rooms.POST("/reconcile", h.Rooms.Reconcile)
	rooms.GET("/:id", h.Rooms.Get)
	rooms.PUT("/:id", h.Rooms.Update)
	rooms.PATCH("/:id", h.Rooms.Update)
	rooms.DELETE("/:id", h.Rooms.Delete)

	tenants := v1.Group("/tenants")
	tenants.GET("", h.Tenants.List)
	tenants.POST("", h.Tenants.Register)
	tenants.GET("/:id", h.Tenants.Get)
	tenants.PUT("/:id", h.Tenants.Edit)
	tenants.PATCH("/:id", h.Tenants.Edit)
	tenants.DELETE("/:id", h.Tenants.Remove)
	tenants.POST("/:id/reactivate", h.Tenants.Reactivate)
	tenants.GET("/:id/ledger", h.Tenants.LedgerRows)

	v1.GET("/ledger", h.Ledger.Rows)
	v1.GET("/ledger/summary", h.Ledger.Summary)

	v1.GET("/payments", h.Payments.List)
	v1.POST("/payments", h.Payments.MarkPaid)

	v1.GET("/maintenance", h.Maintenance.List)
	v1.POST("/maintenance", h.Maintenance.Open)
	v1.POST("/maintenance/:id/resolve", h.Maintenance.Resolve)
}
