package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
)

// GradeController handles grade components, entries and transcripts
type GradeController struct {
	gradeService   *services.GradeService
	studentService *services.StudentService
}

// NewGradeController creates a new GradeController
func NewGradeController(gradeService *services.GradeService, studentService *services.StudentService) *GradeController {
	return &GradeController{
		gradeService:   gradeService,
		studentService: studentService,
	}
}

// AddComponent adds a weighted assessment to a section
// @Summary Add a grade component
// @Description Adds a weighted component; section weights may not exceed 100
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Param request body dto.CreateGradeComponentRequest true "Component"
// @Success 201 {object} dto.APIResponse{data=models.GradeComponent} "Component created"
// @Failure 409 {object} dto.ErrorResponse "Weights would exceed 100 or name exists"
// @Router /sections/{sectionId}/grade-components [post]
func (c *GradeController) AddComponent(ctx *gin.Context) {
	sectionID, ok := parseIDParam(ctx, "sectionId")
	if !ok {
		return
	}

	var req dto.CreateGradeComponentRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	component, err := c.gradeService.AddComponent(ctx, middleware.CurrentTenantID(ctx), sectionID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, component)
}

// ListComponents retrieves a section's grade components
// @Summary List grade components
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=[]models.GradeComponent} "Components"
// @Router /sections/{sectionId}/grade-components [get]
func (c *GradeController) ListComponents(ctx *gin.Context) {
	sectionID, ok := parseIDParam(ctx, "sectionId")
	if !ok {
		return
	}

	components, err := c.gradeService.ListComponents(ctx, middleware.CurrentTenantID(ctx), sectionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, components)
}

// RecordGrade records one student's score for a component
// @Summary Record a grade
// @Description Upserts a score; only the section's instructor may grade
// @Tags grades
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param componentId path int true "Component ID"
// @Param request body dto.RecordGradeRequest true "Score"
// @Success 200 {object} dto.APIResponse{data=models.GradeEntry} "Grade recorded"
// @Failure 400 {object} dto.ErrorResponse "Score exceeds component maximum"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the section instructor"
// @Router /grade-components/{componentId}/entries [put]
func (c *GradeController) RecordGrade(ctx *gin.Context) {
	componentID, ok := parseIDParam(ctx, "componentId")
	if !ok {
		return
	}

	var req dto.RecordGradeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	entry, err := c.gradeService.RecordGrade(ctx,
		middleware.CurrentTenantID(ctx), componentID, &req, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, entry)
}

// FinalizeSection computes and posts final grades for a section
// @Summary Finalize section grades
// @Description Computes weighted final scores and letter grades for all active enrollments. Weights must total 100 and every entry must be recorded.
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Section finalized"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the section instructor"
// @Failure 409 {object} dto.ErrorResponse "Weights incomplete or entries missing"
// @Router /sections/{sectionId}/finalize [post]
func (c *GradeController) FinalizeSection(ctx *gin.Context) {
	sectionID, ok := parseIDParam(ctx, "sectionId")
	if !ok {
		return
	}

	err := c.gradeService.FinalizeSection(ctx,
		middleware.CurrentTenantID(ctx), sectionID, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Section finalized"})
}

// Transcript retrieves a student's transcript
// @Summary Get student transcript
// @Description Full academic record grouped by semester with per-semester and cumulative GPA
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Param studentId path int true "Student ID"
// @Success 200 {object} dto.APIResponse{data=models.Transcript} "Transcript"
// @Failure 404 {object} dto.ErrorResponse "Student not found"
// @Router /students/{studentId}/transcript [get]
func (c *GradeController) Transcript(ctx *gin.Context) {
	studentID, ok := parseIDParam(ctx, "studentId")
	if !ok {
		return
	}

	transcript, err := c.gradeService.Transcript(ctx, middleware.CurrentTenantID(ctx), studentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, transcript)
}

// MyTranscript retrieves the calling student's own transcript
// @Summary Get own transcript
// @Tags grades
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=models.Transcript} "Transcript"
// @Router /students/me/transcript [get]
func (c *GradeController) MyTranscript(ctx *gin.Context) {
	tenantID := middleware.CurrentTenantID(ctx)
	student, err := c.studentService.GetByUser(ctx, tenantID, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	transcript, err := c.gradeService.Transcript(ctx, tenantID, student.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, transcript)
}
