package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
)

// ScheduleController handles rooms, schedule slots and timetables
type ScheduleController struct {
	scheduleService *services.ScheduleService
	studentService  *services.StudentService
}

// NewScheduleController creates a new ScheduleController
func NewScheduleController(scheduleService *services.ScheduleService, studentService *services.StudentService) *ScheduleController {
	return &ScheduleController{
		scheduleService: scheduleService,
		studentService:  studentService,
	}
}

// CreateRoom registers a room
// @Summary Create a room
// @Tags scheduling
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateRoomRequest true "Room"
// @Success 201 {object} dto.APIResponse{data=models.Room} "Room created"
// @Failure 409 {object} dto.ErrorResponse "Code already exists"
// @Router /rooms [post]
func (c *ScheduleController) CreateRoom(ctx *gin.Context) {
	var req dto.CreateRoomRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	room, err := c.scheduleService.CreateRoom(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, room)
}

// ListRooms retrieves all rooms
// @Summary List rooms
// @Tags scheduling
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.Room} "Rooms"
// @Router /rooms [get]
func (c *ScheduleController) ListRooms(ctx *gin.Context) {
	rooms, err := c.scheduleService.ListRooms(ctx, middleware.CurrentTenantID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, rooms)
}

// CreateSlot books a weekly meeting for a section
// @Summary Create a schedule slot
// @Description Books a weekly meeting; rejected on any room, instructor or section conflict
// @Tags scheduling
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateScheduleSlotRequest true "Slot"
// @Success 201 {object} dto.APIResponse{data=models.ScheduleSlot} "Slot created"
// @Failure 400 {object} dto.ErrorResponse "Invalid time interval"
// @Failure 409 {object} dto.ErrorResponse "Room, instructor or section conflict"
// @Router /schedule-slots [post]
func (c *ScheduleController) CreateSlot(ctx *gin.Context) {
	var req dto.CreateScheduleSlotRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	slot, err := c.scheduleService.CreateSlot(ctx, middleware.CurrentTenantID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusCreated, slot)
}

// DeleteSlot removes a schedule slot
// @Summary Delete a schedule slot
// @Tags scheduling
// @Produce json
// @Security BearerAuth
// @Param id path int true "Slot ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Slot deleted"
// @Failure 404 {object} dto.ErrorResponse "Slot not found"
// @Router /schedule-slots/{id} [delete]
func (c *ScheduleController) DeleteSlot(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.scheduleService.DeleteSlot(ctx, middleware.CurrentTenantID(ctx), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Slot deleted"})
}

// SectionTimetable retrieves a section's weekly meetings
// @Summary Get section timetable
// @Tags scheduling
// @Produce json
// @Security BearerAuth
// @Param sectionId path int true "Section ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleSlot} "Timetable"
// @Router /sections/{sectionId}/timetable [get]
func (c *ScheduleController) SectionTimetable(ctx *gin.Context) {
	sectionID, ok := parseIDParam(ctx, "sectionId")
	if !ok {
		return
	}

	slots, err := c.scheduleService.SectionTimetable(ctx, middleware.CurrentTenantID(ctx), sectionID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, slots)
}

// RoomTimetable retrieves a room's weekly meetings for a semester
// @Summary Get room timetable
// @Tags scheduling
// @Produce json
// @Security BearerAuth
// @Param roomId path int true "Room ID"
// @Param semesterId query int true "Semester ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleSlot} "Timetable"
// @Router /rooms/{roomId}/timetable [get]
func (c *ScheduleController) RoomTimetable(ctx *gin.Context) {
	roomID, ok := parseIDParam(ctx, "roomId")
	if !ok {
		return
	}

	slots, err := c.scheduleService.RoomTimetable(ctx,
		middleware.CurrentTenantID(ctx), queryID(ctx, "semesterId"), roomID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, slots)
}

// MyTimetable retrieves the calling student's weekly timetable for a semester
// @Summary Get own timetable
// @Tags scheduling
// @Produce json
// @Security BearerAuth
// @Param semesterId query int true "Semester ID"
// @Success 200 {object} dto.APIResponse{data=[]models.ScheduleSlot} "Timetable"
// @Router /students/me/timetable [get]
func (c *ScheduleController) MyTimetable(ctx *gin.Context) {
	tenantID := middleware.CurrentTenantID(ctx)
	student, err := c.studentService.GetByUser(ctx, tenantID, middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	slots, err := c.scheduleService.StudentTimetable(ctx, tenantID, queryID(ctx, "semesterId"), student.ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, slots)
}
