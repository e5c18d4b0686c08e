package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/LewF-Dev/local-help-platform/internal/api/handlers"
	"github.com/LewF-Dev/local-help-platform/internal/api/middleware"
	"github.com/LewF-Dev/local-help-platform/internal/cache"
	"github.com/LewF-Dev/local-help-platform/internal/config"
	"github.com/LewF-Dev/local-help-platform/internal/email"
	"github.com/LewF-Dev/local-help-platform/internal/models"
	"github.com/LewF-Dev/local-help-platform/internal/services"
)

// Services bundles what the public API needs.
type Services struct {
	Users         services.IUserService
	Search        services.ISearchService
	Enquiries     services.IEnquiryService
	Providers     services.IProviderService
	Subscriptions services.ISubscriptionService
}

// SetupRouter configures and returns the main Gin engine. ctx bounds the
// rate limiter's background cleanup.
func SetupRouter(ctx context.Context, cfg *config.Config, svc Services) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	rateLimiter := middleware.NewRateLimiterMiddleware(ctx, cfg)

	// Apply global middleware first (order matters)
	r.Use(middleware.CORSMiddleware())
	r.Use(rateLimiter.Limit())

	authHandler := handlers.NewRestAuthHandler(svc.Users)
	searchHandler := handlers.NewRestSearchHandler(svc.Search)
	providerHandler := handlers.NewRestProviderHandler(svc.Providers)
	enquiryHandler := handlers.NewRestEnquiryHandler(svc.Enquiries, svc.Providers)
	tradeHandler := handlers.NewRestTradeHandler(svc.Providers, svc.Subscriptions)
	adminHandler := handlers.NewRestAdminHandler(svc.Providers)

	requireAuth := middleware.AuthMiddleware(cfg.JwtSecret)

	v1 := r.Group("/v1")
	{
		v1.GET("/ping", func(c *gin.Context) {
			c.String(http.StatusOK, "pong")
		})

		v1.POST("/auth/register", authHandler.Register)
		v1.POST("/auth/login", authHandler.Login)

		v1.GET("/search", searchHandler.Search)
		v1.GET("/providers/:id", providerHandler.GetProvider)

		enquiries := v1.Group("/enquiries", requireAuth)
		{
			enquiries.POST("", enquiryHandler.Submit)
			enquiries.GET("", enquiryHandler.List)
			enquiries.PATCH("/:id", middleware.RequireRole(models.RoleTrade), enquiryHandler.UpdateStatus)
		}

		trades := v1.Group("/trades", requireAuth, middleware.RequireRole(models.RoleTrade))
		{
			trades.GET("/profile", tradeHandler.GetProfile)
			trades.PATCH("/profile", tradeHandler.UpdateProfile)
			trades.POST("/profile/photo", tradeHandler.RequestPhotoUpload)
			trades.PUT("/profile/photo", tradeHandler.ConfirmPhoto)
			trades.POST("/subscription", tradeHandler.ActivateSubscription)
			trades.DELETE("/subscription", tradeHandler.CancelSubscription)
		}

		admin := v1.Group("/admin", requireAuth, middleware.AdminMiddleware())
		{
			admin.GET("/trades", adminHandler.ListTrades)
			admin.POST("/trades/:id/verify", adminHandler.Verify)
			admin.DELETE("/trades/:id/verify", adminHandler.Unverify)
		}
	}

	return r
}

// SetupServiceRouter configures the internal service API used by test harnesses.
func SetupServiceRouter(cfg *config.Config, rdb redis.Cmdable, shutdownChan chan<- struct{}) *gin.Engine {
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	r.POST("/api", func(c *gin.Context) {
		var req struct {
			Method    string          `json:"method"`
			Arguments json.RawMessage `json:"arguments"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid request format"})
			return
		}

		switch req.Method {
		case "shutdown":
			log.Println("Received shutdown command via Service API")
			c.JSON(http.StatusOK, gin.H{"success": true, "result": "Shutdown initiated"})
			select {
			case shutdownChan <- struct{}{}:
				log.Println("Shutdown signal sent successfully.")
			default:
				log.Println("Shutdown channel already signaled or blocked.")
			}

		case "getTestEmail":
			var args []string // ["template_id", "email"]
			if err := json.Unmarshal(req.Arguments, &args); err != nil || len(args) != 2 {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Invalid arguments: expected JSON array [templateID, email]"})
				return
			}
			redisKey := email.MockEmailKey(args[1], args[0])

			ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
			defer cancel()
			raw, err := cache.WaitAndTake(ctx, rdb, redisKey, 10, 200*time.Millisecond)
			if err != nil {
				if errors.Is(err, cache.ErrKeyNotFound) {
					c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Test email not found in Redis for key %s", redisKey)})
					return
				}
				log.Printf("Service API: Error getting key %s from Redis: %v", redisKey, err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Redis error"})
				return
			}

			var captured email.CapturedEmail
			if err := json.Unmarshal([]byte(raw), &captured); err != nil {
				log.Printf("Service API: Error unmarshalling email data from key %s: %v", redisKey, err)
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Failed to parse stored email data"})
				return
			}
			c.JSON(http.StatusOK, gin.H{"success": true, "data": captured})

		default:
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": fmt.Sprintf("Unknown service method: %s", req.Method)})
		}
	})
	return r
}
