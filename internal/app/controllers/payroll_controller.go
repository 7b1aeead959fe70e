package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
)

// PayrollController handles payroll runs
type PayrollController struct {
	payrollService *services.PayrollService
}

// NewPayrollController creates a new PayrollController
func NewPayrollController(payrollService *services.PayrollService) *PayrollController {
	return &PayrollController{payrollService: payrollService}
}

// CreateRun starts a payroll run for a month
// @Summary Create a payroll run
// @Description Generates a draft run with one payslip per employee, deducting unpaid leave days
// @Tags payroll
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreatePayrollRunRequest true "Run month"
// @Success 201 {object} dto.APIResponse{data=models.PayrollRun} "Run created"
// @Failure 409 {object} dto.ErrorResponse "Run already exists for that month"
// @Router /payroll/runs [post]
func (c *PayrollController) CreateRun(ctx *gin.Context) {
	var req dto.CreatePayrollRunRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	run, err := c.payrollService.CreateRun(ctx,
		middleware.CurrentTenantID(ctx), &req, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, run)
}

// GetRun retrieves a payroll run with its payslips
// @Summary Get payroll run by ID
// @Tags payroll
// @Produce json
// @Security BearerAuth
// @Param id path int true "Run ID"
// @Success 200 {object} dto.APIResponse{data=models.PayrollRun} "Run"
// @Failure 404 {object} dto.ErrorResponse "Run not found"
// @Router /payroll/runs/{id} [get]
func (c *PayrollController) GetRun(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	run, err := c.payrollService.GetRun(ctx, middleware.CurrentTenantID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, run)
}

// ListRuns retrieves all payroll runs, newest first
// @Summary List payroll runs
// @Tags payroll
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.PayrollRun} "Runs"
// @Router /payroll/runs [get]
func (c *PayrollController) ListRuns(ctx *gin.Context) {
	runs, err := c.payrollService.ListRuns(ctx, middleware.CurrentTenantID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, runs)
}

// FinalizeRun locks a draft payroll run
// @Summary Finalize a payroll run
// @Tags payroll
// @Produce json
// @Security BearerAuth
// @Param id path int true "Run ID"
// @Success 200 {object} dto.APIResponse{data=models.PayrollRun} "Run finalized"
// @Failure 404 {object} dto.ErrorResponse "Run not found"
// @Failure 409 {object} dto.ErrorResponse "Run already finalized"
// @Router /payroll/runs/{id}/finalize [post]
func (c *PayrollController) FinalizeRun(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	run, err := c.payrollService.FinalizeRun(ctx, middleware.CurrentTenantID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, run)
}
