package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
)

// TenantController handles campus administration
type TenantController struct {
	tenantService *services.TenantService
}

// NewTenantController creates a new TenantController
func NewTenantController(tenantService *services.TenantService) *TenantController {
	return &TenantController{tenantService: tenantService}
}

// Create registers a new campus
// @Summary Create a campus
// @Description Registers a new campus with a unique code
// @Tags tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateTenantRequest true "Campus information"
// @Success 201 {object} dto.APIResponse{data=models.Tenant} "Campus created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Code already exists"
// @Router /tenants [post]
func (c *TenantController) Create(ctx *gin.Context) {
	var req dto.CreateTenantRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	tenant, err := c.tenantService.Create(ctx, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, tenant)
}

// List retrieves all campuses
// @Summary List campuses
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Tenant} "Campuses"
// @Router /tenants [get]
func (c *TenantController) List(ctx *gin.Context) {
	tenants, err := c.tenantService.List(ctx)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, tenants)
}

// Get retrieves one campus
// @Summary Get campus by ID
// @Tags tenants
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campus ID"
// @Success 200 {object} dto.APIResponse{data=models.Tenant} "Campus"
// @Failure 404 {object} dto.ErrorResponse "Campus not found"
// @Router /tenants/{id} [get]
func (c *TenantController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	tenant, err := c.tenantService.Get(ctx, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, tenant)
}

// SetActive enables or disables a campus
// @Summary Enable or disable a campus
// @Description A disabled campus rejects all logins
// @Tags tenants
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Campus ID"
// @Param request body dto.SetTenantActiveRequest true "Active flag"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Campus not found"
// @Router /tenants/{id}/active [put]
func (c *TenantController) SetActive(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.SetTenantActiveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	if err := c.tenantService.SetActive(ctx, id, req.Active); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Campus updated"})
}
