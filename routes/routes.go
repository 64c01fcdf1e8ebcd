package routes

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/superkingsely080296-boop/Comms-API-master/configs"
	"github.com/superkingsely080296-boop/Comms-API-master/controllers"
	"github.com/superkingsely080296-boop/Comms-API-master/middlewares"
	"github.com/superkingsely080296-boop/Comms-API-master/repository"
	"github.com/superkingsely080296-boop/Comms-API-master/services"
	"github.com/superkingsely080296-boop/Comms-API-master/ws"
)

func RegisterRoutes(r *gin.Engine, cfg *configs.Config, log *logrus.Logger) {
	r.Use(middlewares.CORSMiddleware())
	r.GET("/health", func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) })

	db := configs.DB()

	// Repositories
	sessionRepo := repository.NewSessionRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	businessRepo := repository.NewBusinessRepository(db)

	// External collaborators
	provider := services.NewHTTPProvider(cfg.ProviderBaseURL, cfg.ProviderToken, nil)
	gateway := services.NewWhatsAppGateway(cfg.WhatsAppAPIBase, cfg.WhatsAppToken, nil)

	// Live order feed for the admin dashboard
	hub := ws.NewOrderFeedHub()
	go hub.Run()

	// Services
	cart := services.NewCartManager()
	pricing := services.NewPricingService()
	validate := services.NewValidationService()
	sessions := services.NewSessionService(sessionRepo, log, cfg.SessionIdleTTL, cfg.SweepInterval)
	sessions.StartSweeper(context.Background())

	state := services.NewOrderStateService(provider, provider, cart, pricing, validate, orderRepo, hub, log)
	ui := services.NewOrderUIService(provider, gateway, cart, businessRepo, log)
	flow := services.NewOrderFlowService(sessions, state, ui, validate, cfg.ProviderTimeout, log)
	auth := services.NewAuthService(cfg.AdminUser, cfg.AdminPassHash, cfg.JWTSecret, cfg.JWTTTL)

	// Controllers
	webhookCtrl := controllers.NewWebhookController(flow, messageRepo, cfg.WebhookVerifyToken, log)
	authCtrl := controllers.NewAuthController(auth)
	adminCtrl := controllers.NewAdminController(orderRepo, sessions, businessRepo)

	// Webhook (public, verified by the provider handshake)
	r.GET("/webhook", webhookCtrl.Verify)
	r.POST("/webhook", webhookCtrl.Receive)

	// Auth (public)
	r.POST("/auth/login", authCtrl.Login)

	// Admin (admin only)
	admin := r.Group("/admin", middlewares.AuthMiddleware(cfg.JWTSecret, "admin"))
	{
		admin.GET("/orders", adminCtrl.ListOrders)
		admin.GET("/orders/:id", adminCtrl.GetOrder)
		admin.GET("/sessions", adminCtrl.ListSessions)
		admin.GET("/businesses", adminCtrl.ListBusinesses)
		admin.PUT("/businesses", adminCtrl.UpsertBusiness)
	}

	// Live order feed. Browsers cannot set headers on websocket upgrades,
	// so the token rides in the query string.
	r.GET("/ws/orders", middlewares.WSAuthMiddleware(cfg.JWTSecret, "admin"), hub.HandleWebSocket)
}
