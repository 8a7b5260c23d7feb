package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/karsvo/villa-rental-api/internal/config"
	"github.com/karsvo/villa-rental-api/internal/handler"
	"github.com/karsvo/villa-rental-api/internal/middleware"
	"github.com/karsvo/villa-rental-api/internal/model"
)

// RegisterRoutes wires every endpoint of the API onto the Echo instance.
//
// Authorization layout: both auth endpoints are public, listing either
// resource requires any valid token, and every other operation requires the
// admin role. GETs on both resources flow through the redis response cache.
//
// The rate limiter is attached per group, after JWTAuth on the API groups,
// so the per-user key strategies see the authenticated username. The health
// probe is exempt. A nil redis client turns both the cache and the limiter
// into pass-throughs.
func RegisterRoutes(e *echo.Echo, cfg config.Config, rdb *redis.Client,
	villas *handler.VillaHandler, numbers *handler.VillaNumberHandler, users *handler.UserHandler) {

	// Health check for load balancers and monitoring.
	e.GET("/healthz", handler.Health)

	limiter := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)

	// Login and registration issue tokens, so they sit outside the JWT gate;
	// their traffic is anonymous and rate-limited by IP.
	auth := e.Group("/api/UsersAuth", limiter)
	auth.POST("/login", users.Login)
	auth.POST("/register", users.Register)

	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)
	adminOnly := middleware.RequireRole(model.RoleAdmin)

	v := e.Group("/api/VillaAPI", middleware.JWTAuth(cfg.JWTSecret), limiter)
	v.GET("", villas.List, cache)
	v.GET("/:id", villas.GetByID, adminOnly, cache)
	v.POST("", villas.Create, adminOnly)
	v.PUT("/:id", villas.Update, adminOnly)
	v.PATCH("/:id", villas.PartialUpdate, adminOnly)
	v.DELETE("/:id", villas.Delete, adminOnly)

	n := e.Group("/api/VillaNumberAPI", middleware.JWTAuth(cfg.JWTSecret), limiter)
	n.GET("", numbers.List, cache)
	n.GET("/:villaNo", numbers.GetByNumber, cache)
	n.POST("", numbers.Create, adminOnly)
	n.PUT("/:villaNo", numbers.Update, adminOnly)
	n.PATCH("/:villaNo", numbers.PartialUpdate, adminOnly)
	n.DELETE("/:villaNo", numbers.Delete, adminOnly)
}
