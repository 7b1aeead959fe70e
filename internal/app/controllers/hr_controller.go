package controllers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
)

// HRController handles employees and leave management
type HRController struct {
	hrService *services.HRService
}

// NewHRController creates a new HRController
func NewHRController(hrService *services.HRService) *HRController {
	return &HRController{hrService: hrService}
}

// CreateEmployee registers a staff record
// @Summary Create an employee
// @Tags hr
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateEmployeeRequest true "Employee"
// @Success 201 {object} dto.APIResponse{data=models.Employee} "Employee created"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Failure 409 {object} dto.ErrorResponse "Staff number already exists"
// @Router /hr/employees [post]
func (c *HRController) CreateEmployee(ctx *gin.Context) {
	var req dto.CreateEmployeeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	employee, err := c.hrService.CreateEmployee(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, employee)
}

// GetEmployee retrieves an employee
// @Summary Get employee by ID
// @Tags hr
// @Produce json
// @Security BearerAuth
// @Param employeeId path int true "Employee ID"
// @Success 200 {object} dto.APIResponse{data=models.Employee} "Employee"
// @Failure 404 {object} dto.ErrorResponse "Employee not found"
// @Router /hr/employees/{employeeId} [get]
func (c *HRController) GetEmployee(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "employeeId")
	if !ok {
		return
	}

	employee, err := c.hrService.GetEmployee(ctx, middleware.CurrentTenantID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, employee)
}

// ListEmployees retrieves all employees
// @Summary List employees
// @Tags hr
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Employee} "Employees"
// @Router /hr/employees [get]
func (c *HRController) ListEmployees(ctx *gin.Context) {
	employees, err := c.hrService.ListEmployees(ctx, middleware.CurrentTenantID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, employees)
}

// CreateLeaveType defines a leave type
// @Summary Create a leave type
// @Tags hr
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLeaveTypeRequest true "Leave type"
// @Success 201 {object} dto.APIResponse{data=models.LeaveType} "Leave type created"
// @Failure 409 {object} dto.ErrorResponse "Code already exists"
// @Router /hr/leave-types [post]
func (c *HRController) CreateLeaveType(ctx *gin.Context) {
	var req dto.CreateLeaveTypeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	leaveType, err := c.hrService.CreateLeaveType(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, leaveType)
}

// ListLeaveTypes retrieves the leave types
// @Summary List leave types
// @Tags hr
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.LeaveType} "Leave types"
// @Router /hr/leave-types [get]
func (c *HRController) ListLeaveTypes(ctx *gin.Context) {
	leaveTypes, err := c.hrService.ListLeaveTypes(ctx, middleware.CurrentTenantID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, leaveTypes)
}

// RequestLeave files a leave request for the caller
// @Summary Request leave
// @Description Files a request for the employee behind the calling user; paid types are checked against the remaining balance
// @Tags hr
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateLeaveRequest true "Leave request"
// @Success 201 {object} dto.APIResponse{data=models.LeaveRequest} "Request filed"
// @Failure 404 {object} dto.ErrorResponse "Employee or leave type not found"
// @Failure 409 {object} dto.ErrorResponse "Overlapping request or insufficient balance"
// @Router /hr/leave-requests [post]
func (c *HRController) RequestLeave(ctx *gin.Context) {
	var req dto.CreateLeaveRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	request, err := c.hrService.RequestLeave(ctx,
		middleware.CurrentTenantID(ctx), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, request)
}

// ListLeaveRequests retrieves leave requests with optional filters
// @Summary List leave requests
// @Tags hr
// @Produce json
// @Security BearerAuth
// @Param employeeId query int false "Filter by employee"
// @Param status query string false "Filter by status"
// @Success 200 {object} dto.APIResponse{data=[]models.LeaveRequest} "Requests"
// @Router /hr/leave-requests [get]
func (c *HRController) ListLeaveRequests(ctx *gin.Context) {
	requests, err := c.hrService.ListLeaveRequests(ctx,
		middleware.CurrentTenantID(ctx), queryID(ctx, "employeeId"), ctx.Query("status"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, requests)
}

// DecideLeave approves or rejects a pending request
// @Summary Decide a leave request
// @Tags hr
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Param request body dto.LeaveDecisionRequest true "Decision"
// @Success 200 {object} dto.APIResponse{data=models.LeaveRequest} "Request decided"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Failure 409 {object} dto.ErrorResponse "Request is not pending"
// @Router /hr/leave-requests/{id}/decision [put]
func (c *HRController) DecideLeave(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	var req dto.LeaveDecisionRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	request, err := c.hrService.DecideLeave(ctx,
		middleware.CurrentTenantID(ctx), id, req.Approve, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, request)
}

// CancelLeave cancels the caller's own request
// @Summary Cancel a leave request
// @Description Cancels the caller's own pending or approved request, crediting approved days back
// @Tags hr
// @Produce json
// @Security BearerAuth
// @Param id path int true "Request ID"
// @Success 200 {object} dto.APIResponse{data=models.LeaveRequest} "Request cancelled"
// @Failure 403 {object} dto.ErrorResponse "Request belongs to another employee"
// @Failure 404 {object} dto.ErrorResponse "Request not found"
// @Router /hr/leave-requests/{id}/cancel [post]
func (c *HRController) CancelLeave(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	request, err := c.hrService.CancelLeave(ctx,
		middleware.CurrentTenantID(ctx), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, request)
}

// Balance retrieves an employee's leave balance for one type and year
// @Summary Get leave balance
// @Tags hr
// @Produce json
// @Security BearerAuth
// @Param employeeId path int true "Employee ID"
// @Param leaveTypeId query int true "Leave type ID"
// @Param year query int false "Year (defaults to the current year)"
// @Success 200 {object} dto.APIResponse{data=models.LeaveBalance} "Balance"
// @Failure 404 {object} dto.ErrorResponse "Employee or leave type not found"
// @Router /hr/employees/{employeeId}/leave-balance [get]
func (c *HRController) Balance(ctx *gin.Context) {
	employeeID, ok := parseIDParam(ctx, "employeeId")
	if !ok {
		return
	}

	year, err := strconv.Atoi(ctx.Query("year"))
	if err != nil || year < 2000 {
		year = time.Now().Year()
	}

	balance, err := c.hrService.Balance(ctx,
		middleware.CurrentTenantID(ctx), employeeID, queryID(ctx, "leaveTypeId"), year)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, balance)
}
