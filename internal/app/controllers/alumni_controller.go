package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/eldenheights/ehsas/internal/app/models/dto"
	"github.com/eldenheights/ehsas/internal/app/services"
	"github.com/eldenheights/ehsas/internal/middleware"
)

const registrationMessage = "Registration submitted successfully. You will receive confirmation once approved."

// AlumniController handles registration, the public directory and registration review
type AlumniController struct {
	membershipService services.MembershipService
	directoryService  services.DirectoryService
}

// NewAlumniController creates a new AlumniController
func NewAlumniController(membershipService services.MembershipService, directoryService services.DirectoryService) *AlumniController {
	return &AlumniController{
		membershipService: membershipService,
		directoryService:  directoryService,
	}
}

// Register handles alumni registration
// @Summary Register as an alumnus
// @Description Submits a registration for admin review. The operator inbox is notified by email.
// @Tags alumni
// @Accept json
// @Produce json
// @Param request body dto.RegisterAlumniRequest true "Registration form"
// @Success 201 {object} dto.RegisterAlumniResponse "Registration submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid data or email already registered"
// @Failure 429 {object} dto.ErrorResponse "Too many requests"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /alumni/register [post]
func (c *AlumniController) Register(ctx *gin.Context) {
	var req dto.RegisterAlumniRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	result, err := c.membershipService.Register(ctx.Request.Context(), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.RegisterAlumniResponse{
		ID:        result.Alumni.ID,
		Message:   registrationMessage,
		EmailSent: result.EmailSent,
	})
}

// Directory lists approved alumni
// @Summary Search the alumni directory
// @Description Lists approved alumni. Contact and address details are never included.
// @Tags alumni
// @Produce json
// @Param batch query int false "Year of leaving"
// @Param profession query string false "Profession contains (case-insensitive)"
// @Param city query string false "City contains (case-insensitive)"
// @Success 200 {array} dto.PublicAlumni "Approved alumni"
// @Failure 400 {object} dto.ErrorResponse "Invalid batch"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /alumni [get]
func (c *AlumniController) Directory(ctx *gin.Context) {
	query := dto.DirectoryQuery{
		Batch:      ctx.Query("batch"),
		Profession: ctx.Query("profession"),
		City:       ctx.Query("city"),
	}

	list, err := c.directoryService.Search(ctx.Request.Context(), query)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// ListPending lists registrations awaiting review
// @Summary List pending registrations
// @Tags alumni
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Alumni "Pending registrations, newest first"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /alumni/pending [get]
func (c *AlumniController) ListPending(ctx *gin.Context) {
	list, err := c.membershipService.ListPending(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// ListAll lists every registration
// @Summary List all registrations
// @Tags alumni
// @Produce json
// @Security BearerAuth
// @Param status query string false "pending, approved or rejected"
// @Success 200 {array} models.Alumni "Registrations, newest first"
// @Failure 400 {object} dto.ErrorResponse "Unknown status"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /alumni/all [get]
func (c *AlumniController) ListAll(ctx *gin.Context) {
	list, err := c.membershipService.ListAll(ctx.Request.Context(), ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, list)
}

// Approve approves a pending registration
// @Summary Approve a registration
// @Description Issues the next membership ID for the applicant's batch and emails it to them.
// @Tags alumni
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alumni ID"
// @Success 200 {object} dto.ReviewResponse "Approved"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Alumni not found"
// @Failure 409 {object} dto.ErrorResponse "Registration is not pending"
// @Router /alumni/{id}/approve [put]
func (c *AlumniController) Approve(ctx *gin.Context) {
	result, err := c.membershipService.Approve(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ehsasID := ""
	if result.Alumni.EhsasID != nil {
		ehsasID = *result.Alumni.EhsasID
	}
	ctx.JSON(http.StatusOK, dto.ReviewResponse{
		Message:   "Alumni approved with EHSAS ID: " + ehsasID,
		EhsasID:   ehsasID,
		EmailSent: result.EmailSent,
	})
}

// Reject rejects a pending registration
// @Summary Reject a registration
// @Tags alumni
// @Produce json
// @Security BearerAuth
// @Param id path string true "Alumni ID"
// @Success 200 {object} dto.ReviewResponse "Rejected"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Failure 404 {object} dto.ErrorResponse "Alumni not found"
// @Failure 409 {object} dto.ErrorResponse "Registration is not pending"
// @Router /alumni/{id}/reject [put]
func (c *AlumniController) Reject(ctx *gin.Context) {
	result, err := c.membershipService.Reject(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.ReviewResponse{
		Message:   "Alumni rejected",
		EmailSent: result.EmailSent,
	})
}
