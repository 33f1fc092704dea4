package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/services"
	"github.com/eldenheights/ehsas/internal/middleware"
	"github.com/eldenheights/ehsas/internal/pkg/helpers"
)

// AdminController serves the admin dashboard
type AdminController struct {
	statsService        services.StatsService
	notificationService services.NotificationService
}

// NewAdminController creates a new AdminController
func NewAdminController(statsService services.StatsService, notificationService services.NotificationService) *AdminController {
	return &AdminController{
		statsService:        statsService,
		notificationService: notificationService,
	}
}

// Stats returns dashboard figures
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.StatsResponse
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/stats [get]
func (c *AdminController) Stats(ctx *gin.Context) {
	stats, err := c.statsService.Get(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, stats)
}

// Notifications lists in-app notifications
// @Summary List notifications
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum entries (default 50, max 100)"
// @Success 200 {array} models.Notification "Newest first"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/notifications [get]
func (c *AdminController) Notifications(ctx *gin.Context) {
	limit := helpers.ClampLimit(ctx.Query("limit"), services.DefaultNotificationLimit, services.MaxNotificationLimit)
	list, err := c.notificationService.List(ctx.Request.Context(), limit)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// MarkNotificationRead marks a notification as read
// @Summary Mark notification read
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path string true "Notification ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Notification not found"
// @Router /admin/notifications/{id}/read [put]
func (c *AdminController) MarkNotificationRead(ctx *gin.Context) {
	if err := c.notificationService.MarkRead(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Notification marked as read"})
}
