package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/services"
	"github.com/eldenheights/ehsas/internal/middleware"
	"github.com/eldenheights/ehsas/internal/pkg/helpers"
)

// EventController handles society events
type EventController struct {
	eventService services.EventService
}

// NewEventController creates a new EventController
func NewEventController(eventService services.EventService) *EventController {
	return &EventController{eventService: eventService}
}

// List returns events
// @Summary List events
// @Tags events
// @Produce json
// @Param active_only query bool false "Only active events (default true)"
// @Success 200 {array} models.Event "Events ordered by date"
// @Router /events [get]
func (c *EventController) List(ctx *gin.Context) {
	events, err := c.eventService.List(ctx.Request.Context(), helpers.ParseBoolDefault(ctx.Query("active_only"), true))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, events)
}

// Get returns one event
// @Summary Get event by ID
// @Description Inactive events are reported as not found unless active_only=false.
// @Tags events
// @Produce json
// @Param id path string true "Event ID"
// @Param active_only query bool false "Hide an inactive event" default(true)
// @Success 200 {object} models.Event
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [get]
func (c *EventController) Get(ctx *gin.Context) {
	event, err := c.eventService.Get(ctx.Request.Context(), ctx.Param("id"), helpers.ParseBoolDefault(ctx.Query("active_only"), true))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, event)
}

// Create adds an event
// @Summary Create event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEventRequest true "Event"
// @Success 201 {object} models.Event
// @Failure 400 {object} dto.ErrorResponse "Invalid data"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /events [post]
func (c *EventController) Create(ctx *gin.Context) {
	var req dto.CreateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, event)
}

// Update changes an event
// @Summary Update event
// @Description Only fields present in the body are changed.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Param request body dto.UpdateEventRequest true "Fields to change"
// @Success 200 {object} models.Event
// @Failure 400 {object} dto.ErrorResponse "Invalid data"
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [put]
func (c *EventController) Update(ctx *gin.Context) {
	var req dto.UpdateEventRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	event, err := c.eventService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, event)
}

// Delete removes an event
// @Summary Delete event
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param id path string true "Event ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Event not found"
// @Router /events/{id} [delete]
func (c *EventController) Delete(ctx *gin.Context) {
	if err := c.eventService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Event deleted successfully"})
}
