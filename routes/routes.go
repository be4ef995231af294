package routes

import (
	"net/http"
	"time"

	"servilink/handlers"
	"servilink/middleware"
	"servilink/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterSessionRoutes sets up the session lifecycle endpoints.
func RegisterSessionRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("", middleware.RequireRole(models.RoleSeeker), hb.Session.CreateSession)
		api.POST("/requests", middleware.RequireRole(models.RoleSeeker), hb.Session.CreateServiceRequest)
		api.GET("", hb.Session.ListMySessions)
		api.GET("/:sessionID", hb.Session.GetSession)
		api.PATCH("/:sessionID", hb.Session.UpdateSession)
		api.POST("/:sessionID/cancel", hb.Session.CancelSession)
		api.POST("/:sessionID/confirm", hb.Session.ConfirmSession)
		api.POST("/:sessionID/rate", hb.Session.RateSession)
	}
}

// RegisterTrackingRoutes sets up the live location tracking endpoints.
func RegisterTrackingRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/sessions/:sessionID/tracking")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.POST("/start", hb.Tracking.StartTracking)
		api.POST("/location", hb.Tracking.UpdateLocation)
		api.POST("/arrived", hb.Tracking.MarkArrived)
		api.POST("/service-started", hb.Tracking.MarkServiceStarted)
		api.POST("/complete", hb.Tracking.CompleteService)
		api.POST("/stop", hb.Tracking.StopTracking)
		api.GET("", hb.Tracking.GetActiveTracking)
	}
}

// RegisterAvailabilityRoutes sets up the provider schedule endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	api.Use(middleware.JWTAuthMiddleware())
	{
		api.PUT("", middleware.RequireRole(models.RoleProvider), hb.Availability.SetDaySchedule)
		api.GET("", middleware.RequireRole(models.RoleProvider), hb.Availability.GetWeeklySchedule)
		api.DELETE("/:day", middleware.RequireRole(models.RoleProvider), hb.Availability.RemoveDaySchedule)
		api.GET("/providers/:providerID", hb.Availability.GetWeeklySchedule)
		api.GET("/providers/:providerID/check", hb.Availability.CheckAvailability)
	}
}

// RegisterWalletRoutes sets up the provider earnings endpoints.
func RegisterWalletRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/wallet")
	api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleProvider))
	{
		api.GET("", hb.Wallet.GetWallet)
		api.GET("/earnings", hb.Wallet.ListEarnings)
	}
}

// RegisterAdminRoutes sets up the assignment desk and pricing configuration.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/admin")
	api.Use(middleware.JWTAuthMiddleware(), middleware.RequireRole(models.RoleAdmin))
	{
		api.GET("/sessions/pending", hb.Admin.ListPendingAssignments)
		api.GET("/providers/search", hb.Admin.SearchProviders)
		api.POST("/sessions/:sessionID/assign", hb.Admin.AssignProvider)
		api.POST("/sessions/:sessionID/reject", hb.Admin.RejectServiceRequest)
		api.POST("/sessions/:sessionID/reopen", hb.Admin.ReopenForAssignment)
		api.GET("/session-config", hb.Admin.GetSessionConfig)
		api.PUT("/session-config/pricing", hb.Admin.UpdateCategoryPricing)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm ServiLink"})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterSessionRoutes(r, hb)
	RegisterTrackingRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterWalletRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
