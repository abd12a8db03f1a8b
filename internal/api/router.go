package api

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/GaiKT/rentflow/internal/app"
	iauth "github.com/GaiKT/rentflow/internal/auth"
	"github.com/GaiKT/rentflow/internal/cache"
	"github.com/GaiKT/rentflow/internal/documents"
	"github.com/GaiKT/rentflow/internal/handlers"
	"github.com/GaiKT/rentflow/internal/middleware"
	"github.com/GaiKT/rentflow/internal/notifications"
	"github.com/GaiKT/rentflow/internal/reminder"
	"github.com/GaiKT/rentflow/internal/services"
)

// Dependencies bundles the shared components the router wires into handlers.
type Dependencies struct {
	DB       *gorm.DB
	JWT      *iauth.JWTService
	Config   *app.Config
	Hub      *notifications.Hub
	Store    cache.Store
	Runner   *reminder.Runner
	Reporter *reminder.Reporter
}

// NewRouter builds the Gin engine, wires middleware and registers all routes.
func NewRouter(deps Dependencies) (*gin.Engine, error) {
	if deps.DB == nil {
		return nil, fmt.Errorf("database handle must be provided")
	}
	if deps.JWT == nil {
		return nil, fmt.Errorf("jwt service must be provided")
	}
	if deps.Config == nil {
		return nil, fmt.Errorf("config must be provided")
	}

	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.Logger())
	r.Use(middleware.Metrics())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORS())

	// Basic rate limiting: 120 requests/minute per IP+path, shared across
	// instances when a cache store is available.
	rateStore := middleware.NewCacheRateStore(deps.Store)
	if rateStore == nil {
		rateStore = middleware.NewMemoryRateStore()
	}
	r.Use(middleware.RateLimit(rateStore, 120, time.Minute))

	r.NoRoute(middleware.NotFoundHandler)

	// Health and metrics endpoints (public)
	r.GET("/health", handlers.Health(deps.DB))
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	activity, err := services.NewActivityService(deps.DB)
	if err != nil {
		return nil, err
	}

	authHandler, err := handlers.NewAuthHandler(deps.DB, deps.JWT, activity)
	if err != nil {
		return nil, err
	}

	// Public auth routes
	auth := r.Group("/api/auth")
	{
		auth.POST("/register", authHandler.Register)
		auth.POST("/login", authHandler.Login)
		auth.POST("/refresh", authHandler.Refresh)
	}

	requireAuth := middleware.Auth(deps.JWT)

	api := r.Group("/api")
	api.Use(requireAuth)

	// Authenticated auth routes
	api.GET("/auth/me", authHandler.Me)
	api.PUT("/auth/me", authHandler.UpdateProfile)
	api.POST("/auth/logout", authHandler.Logout)
	api.POST("/auth/change-password", authHandler.ChangePassword)

	if err := registerResourceRoutes(api, deps, activity); err != nil {
		return nil, err
	}

	return r, nil
}

func registerResourceRoutes(api *gin.RouterGroup, deps Dependencies, activity *services.ActivityService) error {
	roomHandler, err := handlers.NewRoomHandler(deps.DB, activity)
	if err != nil {
		return err
	}
	rooms := api.Group("/rooms")
	{
		rooms.GET("", roomHandler.List)
		rooms.POST("", roomHandler.Create)
		rooms.GET("/:id", roomHandler.Get)
		rooms.PUT("/:id", roomHandler.Update)
		rooms.DELETE("/:id", roomHandler.Delete)
	}

	contractHandler, err := handlers.NewContractHandler(deps.DB, deps.Hub, activity)
	if err != nil {
		return err
	}
	contracts := api.Group("/contracts")
	{
		contracts.GET("", contractHandler.List)
		contracts.POST("", contractHandler.Create)
		contracts.GET("/:id", contractHandler.Get)
		contracts.PUT("/:id", contractHandler.Update)
		contracts.POST("/:id/activate", contractHandler.Activate)
		contracts.POST("/:id/terminate", contractHandler.Terminate)
	}

	invoiceHandler, err := handlers.NewInvoiceHandler(deps.DB, deps.Hub, activity)
	if err != nil {
		return err
	}
	renderer, err := documents.NewRenderer(documents.Config{
		BusinessName:    deps.Config.Documents.BusinessName,
		BusinessAddress: deps.Config.Documents.BusinessAddress,
		FooterNote:      deps.Config.Documents.FooterNote,
	})
	if err != nil {
		return err
	}
	documentHandler, err := handlers.NewDocumentHandler(deps.DB, renderer)
	if err != nil {
		return err
	}
	invoices := api.Group("/invoices")
	{
		invoices.GET("", invoiceHandler.List)
		invoices.POST("", invoiceHandler.Create)
		invoices.GET("/:id", invoiceHandler.Get)
		invoices.POST("/:id/pay", invoiceHandler.Pay)
		invoices.POST("/:id/cancel", invoiceHandler.Cancel)
		invoices.GET("/:id/document", documentHandler.InvoiceDocument)
	}

	receiptHandler, err := handlers.NewReceiptHandler(deps.DB)
	if err != nil {
		return err
	}
	receipts := api.Group("/receipts")
	{
		receipts.GET("", receiptHandler.List)
		receipts.GET("/:id", receiptHandler.Get)
		receipts.GET("/:id/document", documentHandler.ReceiptDocument)
	}

	notificationHandler, err := handlers.NewNotificationHandler(deps.DB, deps.Hub)
	if err != nil {
		return err
	}
	notificationRoutes := api.Group("/notifications")
	{
		notificationRoutes.GET("", notificationHandler.List)
		notificationRoutes.GET("/stream", notificationHandler.Stream)
		notificationRoutes.GET("/unread-count", notificationHandler.UnreadCount)
		notificationRoutes.POST("/read-all", notificationHandler.MarkAllRead)
		notificationRoutes.POST("/:id/read", notificationHandler.MarkRead)
		notificationRoutes.POST("/:id/unread", notificationHandler.MarkUnread)
		notificationRoutes.DELETE("/:id", notificationHandler.Delete)
	}

	activityHandler, err := handlers.NewActivityHandler(deps.DB)
	if err != nil {
		return err
	}
	api.GET("/activity", activityHandler.List)

	if deps.Runner != nil {
		reminderHandler := handlers.NewReminderHandler(deps.Runner, deps.Reporter)
		reminders := api.Group("/reminders")
		{
			reminders.POST("/run", reminderHandler.Run)
			reminders.POST("/report", reminderHandler.GenerateReport)
		}
	}

	return nil
}
