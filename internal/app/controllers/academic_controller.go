package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
)

// AcademicController handles academic years, semesters, registration periods
// and departments
type AcademicController struct {
	academicService *services.AcademicService
}

// NewAcademicController creates a new AcademicController
func NewAcademicController(academicService *services.AcademicService) *AcademicController {
	return &AcademicController{academicService: academicService}
}

// CreateAcademicYear defines a new academic year
// @Summary Create an academic year
// @Description Creates an academic year; dates must not overlap an existing year
// @Tags academic
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateAcademicYearRequest true "Academic year"
// @Success 201 {object} dto.APIResponse{data=models.AcademicYear} "Academic year created"
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Dates overlap an existing year"
// @Router /academic-years [post]
func (c *AcademicController) CreateAcademicYear(ctx *gin.Context) {
	var req dto.CreateAcademicYearRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	year, err := c.academicService.CreateAcademicYear(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, year)
}

// ListAcademicYears retrieves all academic years
// @Summary List academic years
// @Tags academic
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.AcademicYear} "Academic years"
// @Router /academic-years [get]
func (c *AcademicController) ListAcademicYears(ctx *gin.Context) {
	years, err := c.academicService.ListAcademicYears(ctx, middleware.CurrentTenantID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, years)
}

// SetCurrentAcademicYear marks one year as current
// @Summary Set the current academic year
// @Tags academic
// @Produce json
// @Security BearerAuth
// @Param id path int true "Academic year ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Updated"
// @Failure 404 {object} dto.ErrorResponse "Academic year not found"
// @Router /academic-years/{id}/current [put]
func (c *AcademicController) SetCurrentAcademicYear(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.academicService.SetCurrentAcademicYear(ctx, middleware.CurrentTenantID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Current academic year updated"})
}

// CreateSemester adds a semester to an academic year
// @Summary Create a semester
// @Description Creates a semester; its dates must fall inside the academic year
// @Tags academic
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateSemesterRequest true "Semester"
// @Success 201 {object} dto.APIResponse{data=models.Semester} "Semester created"
// @Failure 400 {object} dto.ErrorResponse "Dates outside the academic year"
// @Failure 409 {object} dto.ErrorResponse "Term already exists for the year"
// @Router /semesters [post]
func (c *AcademicController) CreateSemester(ctx *gin.Context) {
	var req dto.CreateSemesterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	semester, err := c.academicService.CreateSemester(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, semester)
}

// ListSemesters retrieves semesters, optionally for one academic year
// @Summary List semesters
// @Tags academic
// @Produce json
// @Security BearerAuth
// @Param academicYearId query int false "Filter by academic year"
// @Success 200 {object} dto.APIResponse{data=[]models.Semester} "Semesters"
// @Router /semesters [get]
func (c *AcademicController) ListSemesters(ctx *gin.Context) {
	semesters, err := c.academicService.ListSemesters(ctx, middleware.CurrentTenantID(ctx), queryID(ctx, "academicYearId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, semesters)
}

// CurrentSemester retrieves the semester covering today
// @Summary Get the current semester
// @Tags academic
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Semester} "Current semester"
// @Failure 404 {object} dto.ErrorResponse "No current academic year or semester"
// @Router /semesters/current [get]
func (c *AcademicController) CurrentSemester(ctx *gin.Context) {
	semester, err := c.academicService.CurrentSemester(ctx, middleware.CurrentTenantID(ctx), time.Now())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, semester)
}

// CreateRegistrationPeriod opens an enrollment window
// @Summary Create a registration period
// @Tags academic
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRegistrationPeriodRequest true "Registration period"
// @Success 201 {object} dto.APIResponse{data=models.RegistrationPeriod} "Registration period created"
// @Failure 400 {object} dto.ErrorResponse "Start must precede end"
// @Failure 409 {object} dto.ErrorResponse "Kind already exists for the semester"
// @Router /registration-periods [post]
func (c *AcademicController) CreateRegistrationPeriod(ctx *gin.Context) {
	var req dto.CreateRegistrationPeriodRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	period, err := c.academicService.CreateRegistrationPeriod(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, period)
}

// CreateDepartment registers a department
// @Summary Create a department
// @Tags academic
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateDepartmentRequest true "Department"
// @Success 201 {object} dto.APIResponse{data=models.Department} "Department created"
// @Failure 409 {object} dto.ErrorResponse "Code already exists"
// @Router /departments [post]
func (c *AcademicController) CreateDepartment(ctx *gin.Context) {
	var req dto.CreateDepartmentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	department, err := c.academicService.CreateDepartment(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, department)
}

// ListDepartments retrieves all departments
// @Summary List departments
// @Tags academic
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Department} "Departments"
// @Router /departments [get]
func (c *AcademicController) ListDepartments(ctx *gin.Context) {
	departments, err := c.academicService.ListDepartments(ctx, middleware.CurrentTenantID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, departments)
}
