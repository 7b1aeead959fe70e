package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
	"github.com/campora/campora/internal/pkg/helpers"
)

// AdmissionController handles admissions applications
type AdmissionController struct {
	admissionService *services.AdmissionService
}

// NewAdmissionController creates a new AdmissionController
func NewAdmissionController(admissionService *services.AdmissionService) *AdmissionController {
	return &AdmissionController{admissionService: admissionService}
}

// Submit files a new application
// @Summary Submit an application
// @Description Files an admissions application for a department and academic year
// @Tags admissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateApplicationRequest true "Application"
// @Success 201 {object} dto.APIResponse{data=models.Application} "Application submitted"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 404 {object} dto.ErrorResponse "Department or academic year not found"
// @Router /admissions/applications [post]
func (c *AdmissionController) Submit(ctx *gin.Context) {
	var req dto.CreateApplicationRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	app, err := c.admissionService.Submit(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, app)
}

// Get retrieves an application
// @Summary Get application by ID
// @Tags admissions
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Application"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Router /admissions/applications/{id} [get]
func (c *AdmissionController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	app, err := c.admissionService.Get(ctx, middleware.CurrentTenantID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, app)
}

// List retrieves applications with optional filters
// @Summary List applications
// @Tags admissions
// @Produce json
// @Security BearerAuth
// @Param status query string false "Filter by status"
// @Param academicYearId query int false "Filter by academic year"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Applications"
// @Router /admissions/applications [get]
func (c *AdmissionController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	apps, pagination, err := c.admissionService.List(ctx,
		middleware.CurrentTenantID(ctx), ctx.Query("status"), queryID(ctx, "academicYearId"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondPaged(ctx, apps, pagination)
}

// Decide moves an application through its state machine
// @Summary Decide an application
// @Description Moves an application to UNDER_REVIEW, ACCEPTED, REJECTED or WAITLISTED. Acceptance provisions the student account.
// @Tags admissions
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Param request body dto.ApplicationDecisionRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.Application} "Application updated"
// @Failure 404 {object} dto.ErrorResponse "Application not found"
// @Failure 409 {object} dto.ErrorResponse "Invalid status transition"
// @Router /admissions/applications/{id}/decision [put]
func (c *AdmissionController) Decide(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.ApplicationDecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	app, err := c.admissionService.Decide(ctx, middleware.CurrentTenantID(ctx), id, &req, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, app)
}
