// Package router wires HTTP routes to handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/Vaishnavi024/escrow-marketplace/internal/config"
	"github.com/Vaishnavi024/escrow-marketplace/internal/handler"
	"github.com/Vaishnavi024/escrow-marketplace/internal/middleware"
)

// RegisterRoutes registers routes that require no authentication.
func RegisterRoutes(e *echo.Echo) {
	// Used by load balancers and monitoring to verify the service is up.
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the account/token endpoints. Register, login,
// refresh and logout need no session; /v1/me requires a valid access
// token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	auth := e.Group("/v1")
	auth.Use(middleware.JWTAuth(jwtSecret))
	auth.GET("/me", a.Me)
}

// RegisterMarket registers the escrow marketplace endpoints. Every
// route runs behind JWT authentication and the per-address rate
// limiter. Item details additionally sit behind the Redis response
// cache since they are repeatable reads.
func RegisterMarket(e *echo.Echo, m *handler.MarketHandler, jwtSecret string, rdb *redis.Client) {
	rl := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewItemDetailsCache(config.LoadCacheConfig(), rdb)

	g := e.Group("/v1/market")
	g.Use(middleware.JWTAuth(jwtSecret))
	g.Use(rl)

	g.POST("/items", m.ListItem)
	g.GET("/items/:name", m.GetItemDetails, cache)
	g.POST("/items/:name/buy", m.BuyItem)
	g.POST("/items/:name/confirm", m.ConfirmReceipt)
	g.POST("/items/:name/dispute", m.RaiseDispute)
	g.POST("/withdraw", m.WithdrawFunds)
	g.GET("/balance", m.Balance)
	g.GET("/withdrawals", m.Withdrawals)
}
