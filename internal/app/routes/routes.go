package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/eldenheights/ehsas/internal/app/controllers"
	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/middleware"
	"github.com/eldenheights/ehsas/internal/pkg/ratelimit"
)

// Controllers groups the handlers mounted under /api
type Controllers struct {
	Alumni    *controllers.AlumniController
	Auth      *controllers.AuthController
	Events    *controllers.EventController
	Spotlight *controllers.SpotlightController
	Admin     *controllers.AdminController
	Health    *controllers.HealthController
}

// SetupRouter configures all application routes
func SetupRouter(
	router *gin.Engine,
	ctrl Controllers,
	authMiddleware *middleware.AuthMiddleware,
	limiter ratelimit.Limiter,
	log zerolog.Logger,
) {
	router.HandleMethodNotAllowed = true
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, dto.NewErrorResponse(dto.ErrorCodeMethodNotAllowed, "Method Not Allowed"))
	})
	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(dto.ErrorCodeResourceNotFound, "Not Found"))
	})

	api := router.Group("/api")
	admin := authMiddleware.AdminRequired()

	api.GET("/health", ctrl.Health.Health)

	// --- Alumni ---
	alumni := api.Group("/alumni")
	{
		alumni.POST("/register", middleware.RateLimit(limiter, "register", log), ctrl.Alumni.Register)
		alumni.GET("", ctrl.Alumni.Directory)

		alumni.GET("/pending", admin, ctrl.Alumni.ListPending)
		alumni.GET("/all", admin, ctrl.Alumni.ListAll)
		alumni.PUT("/:id/approve", admin, ctrl.Alumni.Approve)
		alumni.PUT("/:id/reject", admin, ctrl.Alumni.Reject)
	}

	// --- Auth ---
	api.POST("/auth/admin/login", middleware.RateLimit(limiter, "login", log), ctrl.Auth.Login)

	// --- Events ---
	events := api.Group("/events")
	{
		events.GET("", ctrl.Events.List)
		events.GET("/:id", ctrl.Events.Get)
		events.POST("", admin, ctrl.Events.Create)
		events.PUT("/:id", admin, ctrl.Events.Update)
		events.DELETE("/:id", admin, ctrl.Events.Delete)
	}

	// --- Spotlight ---
	spotlight := api.Group("/spotlight")
	{
		spotlight.GET("", ctrl.Spotlight.List)
		spotlight.GET("/:id", ctrl.Spotlight.Get)
		spotlight.POST("", admin, ctrl.Spotlight.Create)
		spotlight.PUT("/:id", admin, ctrl.Spotlight.Update)
		spotlight.DELETE("/:id", admin, ctrl.Spotlight.Delete)
	}

	// --- Admin dashboard ---
	dashboard := api.Group("/admin", admin)
	{
		dashboard.GET("/stats", ctrl.Admin.Stats)
		dashboard.GET("/notifications", ctrl.Admin.Notifications)
		dashboard.PUT("/notifications/:id/read", ctrl.Admin.MarkNotificationRead)
	}
}
