package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
	"github.com/campora/campora/internal/pkg/helpers"
)

// StudentController handles student records
type StudentController struct {
	studentService *services.StudentService
}

// NewStudentController creates a new StudentController
func NewStudentController(studentService *services.StudentService) *StudentController {
	return &StudentController{studentService: studentService}
}

// Get retrieves a student
// @Summary Get student by ID
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{studentId} [get]
func (c *StudentController) Get(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	student, err := c.studentService.Get(ctx, middleware.CurrentTenantID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, student)
}

// GetMe retrieves the caller's own student record
// @Summary Get own student record
// @Tags students
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Student} "Student"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/me [get]
func (c *StudentController) GetMe(ctx *gin.Context) {
	student, err := c.studentService.GetByUser(ctx, middleware.CurrentTenantID(ctx), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, student)
}

// List retrieves students with optional filters
// @Summary List students
// @Tags students
// @Produce json
// @Security BearerAuth
// @Param departmentId query int false "Filter by department"
// @Param standing query string false "Filter by standing"
// @Param studentNumber query string false "Filter by student number"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Students"
// @Router /students [get]
func (c *StudentController) List(ctx *gin.Context) {
	var query dto.ListStudentsQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		bindError(ctx, err)
		return
	}

	page, size := helpers.ParsePaginationParams(ctx)
	students, pagination, err := c.studentService.List(ctx,
		middleware.CurrentTenantID(ctx), &query, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondPaged(ctx, students, pagination)
}

// UpdateStanding changes a student's academic standing
// @Summary Update student standing
// @Tags students
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param request body dto.UpdateStandingRequest true "New standing"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Standing updated"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{studentId}/standing [put]
func (c *StudentController) UpdateStanding(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	var req dto.UpdateStandingRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	err := c.studentService.UpdateStanding(ctx, middleware.CurrentTenantID(ctx), id, models.StudentStanding(req.Standing))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Standing updated"})
}
