package routes

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"friendgraph-api/config"
	"friendgraph-api/controllers"
	"friendgraph-api/middleware"
	"friendgraph-api/services"
)

type Services struct {
	Friends *services.FriendService
	Stats   *services.StatsService
}

// NewRouter builds the engine with the global middleware chain and all routes.
// Background work started for the routes stops when ctx is done.
func NewRouter(ctx context.Context, cfg *config.Config, svc Services, gatherer prometheus.Gatherer, log *zap.Logger) *gin.Engine {
	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		middleware.Recovery(log),
		middleware.RequestLogger(log),
		middleware.CORSMiddleware(cfg.CORSAllowedOrigins),
		middleware.SecurityHeaders(),
		middleware.ErrorHandler(log),
	)

	SetupRoutes(ctx, r, cfg, svc, gatherer, log)
	return r
}

func SetupRoutes(ctx context.Context, r *gin.Engine, cfg *config.Config, svc Services, gatherer prometheus.Gatherer, log *zap.Logger) {
	friendController := controllers.NewFriendController(svc.Friends, log)
	statsController := controllers.NewStatsController(svc.Stats, log)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	// API version 1
	v1 := r.Group("/api/v1")
	v1.Use(
		middleware.RateLimit(ctx, cfg.RateLimitPerMinute, cfg.RateLimitBurst),
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.ValidateJSON(),
	)
	{
		friends := v1.Group("/friends")
		{
			friends.POST("", friendController.AddFriend)
			friends.GET("", friendController.GetFriends)
			friends.GET("/requests", friendController.GetFriendRequests)
			friends.PATCH("/:friendship_id", friendController.ConfirmFriendRequest)
			friends.DELETE("/:friendship_id", friendController.RemoveFriend)
		}

		stats := v1.Group("/stats")
		{
			stats.GET("", statsController.GetStats)
			stats.GET("/users", statsController.GetUserStats)
			stats.GET("/friendships", statsController.GetFriendshipStats)
		}
	}
}
