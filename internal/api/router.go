package api

import (
	"time"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"laundry-cycle-backend/config"
	"laundry-cycle-backend/internal/auth"
	"laundry-cycle-backend/internal/events"
	"laundry-cycle-backend/internal/laundry"
	"laundry-cycle-backend/internal/mw"
	"laundry-cycle-backend/internal/store"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(cfg *config.Config, m *laundry.Manager, s store.Store, bus *events.Bus, resolver auth.Resolver) *gin.Engine {
	r := gin.Default()

	webpushOptions := &webpush.Options{
		VAPIDPublicKey:  cfg.Push.PublicKey,
		VAPIDPrivateKey: cfg.Push.PrivateKey,
		Subscriber:      cfg.Push.Subject,
		TTL:             cfg.Push.TTL,
	}
	handler := NewHandler(m, s, bus, webpushOptions)

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.Server.RateLimitPerSec), cfg.Server.RateLimitBurst, cfg.Server.RequestIPHeader)

	// readiness labels move with the clock, so entries live briefly even without changes
	ttl := time.Duration(cfg.Server.CacheTTLSeconds) * time.Second
	cacheStore := cache.New(ttl, 10*time.Minute)
	mw.FlushOnChange(cacheStore, bus)
	caching := mw.Cache(cacheStore, ttl)

	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/vapid_public_key", handler.GetVAPIDPublicKey)

		staff := api.Group("")
		staff.Use(mw.Actor(resolver))

		staff.GET("/loads", caching, handler.ListLoads)
		staff.POST("/loads", handler.CreateLoad)
		staff.GET("/loads/:id", handler.GetLoad)
		staff.PATCH("/loads/:id", handler.AdvanceLoad)

		staff.GET("/machines", caching, handler.GetMachines)
		staff.GET("/dryers", handler.GetDryers)
		staff.PUT("/dryers/:number/duration", handler.PutDryerDuration)

		staff.GET("/events", handler.StreamEvents)

		staff.GET("/subscriptions", handler.GetSubscription)
		staff.PUT("/subscriptions", handler.PutSubscription)
		staff.DELETE("/subscriptions", handler.DeleteSubscription)
	}

	return r
}
