package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
)

// EnrollmentController handles section enrollment
type EnrollmentController struct {
	enrollmentService *services.EnrollmentService
	studentService    *services.StudentService
}

// NewEnrollmentController creates a new EnrollmentController
func NewEnrollmentController(enrollmentService *services.EnrollmentService, studentService *services.StudentService) *EnrollmentController {
	return &EnrollmentController{
		enrollmentService: enrollmentService,
		studentService:    studentService,
	}
}

// Enroll registers a student into a section
// @Summary Enroll in a section
// @Description Registers a student into a section; requires an open registration period, met prerequisites and free capacity. Students may only enroll themselves.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.EnrollRequest true "Enrollment"
// @Success 201 {object} dto.APIResponse{data=models.Enrollment} "Enrolled"
// @Failure 403 {object} dto.ErrorResponse "Students may only enroll themselves"
// @Failure 404 {object} dto.ErrorResponse "Student or section not found"
// @Failure 409 {object} dto.ErrorResponse "Registration closed, capacity reached, prerequisite not met or already enrolled"
// @Router /enrollments [post]
func (c *EnrollmentController) Enroll(ctx *gin.Context) {
	var req dto.EnrollRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	tenantID := middleware.CurrentTenantID(ctx)
	if !c.callerMayActFor(ctx, tenantID, req.StudentID) {
		return
	}

	enrollment, err := c.enrollmentService.Enroll(ctx, tenantID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, enrollment)
}

// Drop withdraws a student from a section
// @Summary Drop an enrollment
// @Description Drops an active enrollment while a registration or drop-add window is open
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Dropped"
// @Failure 404 {object} dto.ErrorResponse "Enrollment not found"
// @Failure 409 {object} dto.ErrorResponse "No open window"
// @Router /enrollments/{id} [delete]
func (c *EnrollmentController) Drop(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	tenantID := middleware.CurrentTenantID(ctx)
	enrollment, err := c.enrollmentService.Get(ctx, tenantID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	if !c.callerMayActFor(ctx, tenantID, enrollment.StudentID) {
		return
	}

	if err := c.enrollmentService.Drop(ctx, tenantID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Enrollment dropped"})
}

// ListForSection retrieves a section's roster
// @Summary List section enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Roster"
// @Router /sections/{sectionId}/enrollments [get]
func (c *EnrollmentController) ListForSection(ctx *gin.Context) {
	sectionID, ok := parseIDParam(ctx, "sectionId")
	if !ok {
		return
	}

	enrollments, err := c.enrollmentService.ListForSection(ctx, middleware.CurrentTenantID(ctx), sectionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, enrollments)
}

// ListForStudent retrieves a student's enrollments
// @Summary List student enrollments
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Param semesterId query int false "Filter by semester"
// @Success 200 {object} dto.APIResponse{data=[]models.Enrollment} "Enrollments"
// @Router /students/{studentId}/enrollments [get]
func (c *EnrollmentController) ListForStudent(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	enrollments, err := c.enrollmentService.ListForStudent(ctx,
		middleware.CurrentTenantID(ctx), studentID, queryID(ctx, "semesterId"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, enrollments)
}

// callerMayActFor ensures a student caller only acts on their own record.
// Staff roles pass through. Writes the error response on failure.
func (c *EnrollmentController) callerMayActFor(ctx *gin.Context, tenantID, studentID int64) bool {
	if middleware.CurrentRole(ctx) != models.RoleStudent {
		return true
	}

	student, err := c.studentService.GetByUser(ctx, tenantID, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return false
	}
	if student.ID != studentID {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied")
		errorDetail = errorDetail.WithDetails("Students may only manage their own enrollments")
		ctx.JSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
		return false
	}
	return true
}
