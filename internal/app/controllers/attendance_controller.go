package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
)

// AttendanceController handles attendance recording and reports
type AttendanceController struct {
	attendanceService *services.AttendanceService
}

// NewAttendanceController creates a new AttendanceController
func NewAttendanceController(attendanceService *services.AttendanceService) *AttendanceController {
	return &AttendanceController{attendanceService: attendanceService}
}

// BulkRecord records attendance for one section meeting
// @Summary Record attendance
// @Description Upserts attendance statuses for a section meeting date; only the section's instructor may record
// @Tags attendance
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Param request body dto.BulkAttendanceRequest true "Attendance entries"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Attendance recorded"
// @Failure 400 {object} dto.ErrorResponse "Entry does not belong to the section"
// @Failure 403 {object} dto.ErrorResponse "Caller is not the section instructor"
// @Router /sections/{sectionId}/attendance [post]
func (c *AttendanceController) BulkRecord(ctx *gin.Context) {
	sectionID, ok := parseIDParam(ctx, "sectionId")
	if !ok {
		return
	}

	var req dto.BulkAttendanceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	err := c.attendanceService.BulkRecord(ctx,
		middleware.CurrentTenantID(ctx), sectionID, &req, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Attendance recorded"})
}

// SectionReport summarizes attendance per enrollment
// @Summary Get section attendance report
// @Description Per-student totals, absence rate and over-threshold flag
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceSummary} "Report"
// @Router /sections/{sectionId}/attendance/report [get]
func (c *AttendanceController) SectionReport(ctx *gin.Context) {
	sectionID, ok := parseIDParam(ctx, "sectionId")
	if !ok {
		return
	}

	report, err := c.attendanceService.SectionReport(ctx, middleware.CurrentTenantID(ctx), sectionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, report)
}

// NotifyFlagged notifies students whose absence rate exceeds the threshold
// @Summary Notify flagged students
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Notices sent"
// @Router /sections/{sectionId}/attendance/notify [post]
func (c *AttendanceController) NotifyFlagged(ctx *gin.Context) {
	sectionID, ok := parseIDParam(ctx, "sectionId")
	if !ok {
		return
	}

	notified, err := c.attendanceService.NotifyFlagged(ctx, middleware.CurrentTenantID(ctx), sectionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, gin.H{"notified": notified})
}

// ListForEnrollment retrieves one enrollment's attendance records
// @Summary List enrollment attendance
// @Tags attendance
// @Produce json
// @Security BearerAuth
// @Param enrollmentId path int true "Enrollment ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AttendanceRecord} "Records"
// @Router /enrollments/{enrollmentId}/attendance [get]
func (c *AttendanceController) ListForEnrollment(ctx *gin.Context) {
	enrollmentID, ok := parseIDParam(ctx, "enrollmentId")
	if !ok {
		return
	}

	records, err := c.attendanceService.ListForEnrollment(ctx, middleware.CurrentTenantID(ctx), enrollmentID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, records)
}
