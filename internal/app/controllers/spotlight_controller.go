package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/services"
	"github.com/eldenheights/ehsas/internal/middleware"
	"github.com/eldenheights/ehsas/internal/pkg/helpers"
)

// SpotlightController handles spotlight alumni entries
type SpotlightController struct {
	spotlightService services.SpotlightService
}

// NewSpotlightController creates a new SpotlightController
func NewSpotlightController(spotlightService services.SpotlightService) *SpotlightController {
	return &SpotlightController{spotlightService: spotlightService}
}

// List returns spotlight entries
// @Summary List spotlight alumni
// @Tags spotlight
// @Produce json
// @Param featured_only query bool false "Only featured entries (default true)"
// @Success 200 {array} models.Spotlight
// @Router /spotlight [get]
func (c *SpotlightController) List(ctx *gin.Context) {
	entries, err := c.spotlightService.List(ctx.Request.Context(), helpers.ParseBoolDefault(ctx.Query("featured_only"), true))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entries)
}

// Get returns one spotlight entry
// @Summary Get spotlight entry by ID
// @Tags spotlight
// @Produce json
// @Param id path string true "Spotlight ID"
// @Param featured_only query bool false "Hide an unfeatured entry" default(true)
// @Success 200 {object} models.Spotlight
// @Failure 404 {object} dto.ErrorResponse "Spotlight alumni not found"
// @Router /spotlight/{id} [get]
func (c *SpotlightController) Get(ctx *gin.Context) {
	entry, err := c.spotlightService.Get(ctx.Request.Context(), ctx.Param("id"), helpers.ParseBoolDefault(ctx.Query("featured_only"), true))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entry)
}

// Create adds a spotlight entry
// @Summary Create spotlight entry
// @Tags spotlight
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSpotlightRequest true "Spotlight entry"
// @Success 201 {object} models.Spotlight
// @Failure 400 {object} dto.ErrorResponse "Invalid data or unknown category"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /spotlight [post]
func (c *SpotlightController) Create(ctx *gin.Context) {
	var req dto.CreateSpotlightRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	entry, err := c.spotlightService.Create(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, entry)
}

// Update changes a spotlight entry
// @Summary Update spotlight entry
// @Description Only fields present in the body are changed.
// @Tags spotlight
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spotlight ID"
// @Param request body dto.UpdateSpotlightRequest true "Fields to change"
// @Success 200 {object} models.Spotlight
// @Failure 400 {object} dto.ErrorResponse "Invalid data"
// @Failure 404 {object} dto.ErrorResponse "Spotlight alumni not found"
// @Router /spotlight/{id} [put]
func (c *SpotlightController) Update(ctx *gin.Context) {
	var req dto.UpdateSpotlightRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	entry, err := c.spotlightService.Update(ctx.Request.Context(), ctx.Param("id"), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, entry)
}

// Delete removes a spotlight entry
// @Summary Delete spotlight entry
// @Tags spotlight
// @Produce json
// @Security BearerAuth
// @Param id path string true "Spotlight ID"
// @Success 200 {object} dto.SuccessResponse
// @Failure 404 {object} dto.ErrorResponse "Spotlight alumni not found"
// @Router /spotlight/{id} [delete]
func (c *SpotlightController) Delete(ctx *gin.Context) {
	if err := c.spotlightService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.SuccessResponse{Message: "Spotlight alumni deleted successfully"})
}
