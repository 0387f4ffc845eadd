package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"attendance-backend/config"
	"attendance-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(handler *Handler, srv *config.ServerConfig) *gin.Engine {
	r := gin.Default()

	rateLimiter := mw.RateLimiter(rate.Limit(srv.RateLimitPerSec), srv.RateLimitBurst)

	cacheTTL := time.Duration(srv.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(cacheTTL, 2*cacheTTL)
	caching := mw.Cache(cacheStore, cacheTTL)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.POST("/attendance/location", handler.RecordLocation)
		api.GET("/attendance/details", handler.GetAttendanceDetails)

		api.POST("/users", handler.CreateUser)
		api.PUT("/locations", handler.PutLocation)
		api.GET("/locations", caching, handler.ListLocations)

		api.GET("/subscriptions", handler.GetSubscription)
		api.PUT("/subscriptions", handler.PutSubscription)
		api.DELETE("/subscriptions", handler.DeleteSubscription)
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)
	}

	return r
}
