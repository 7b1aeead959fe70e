package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/services"
	"github.com/campora/campora/internal/middleware"
	"github.com/campora/campora/internal/pkg/helpers"
)

// NotificationController handles the caller's notifications and preferences
type NotificationController struct {
	notificationService *services.NotificationService
}

// NewNotificationController creates a new NotificationController
func NewNotificationController(notificationService *services.NotificationService) *NotificationController {
	return &NotificationController{notificationService: notificationService}
}

// List retrieves the caller's in-app notifications
// @Summary List notifications
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param unreadOnly query bool false "Only unread notifications"
// @Param page query int false "Page number (1-based)"
// @Param size query int false "Page size"
// @Success 200 {object} dto.APIResponse{data=dto.PagedResponse} "Notifications"
// @Router /notifications [get]
func (c *NotificationController) List(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	unreadOnly := ctx.Query("unreadOnly") == "true"

	notifications, pagination, err := c.notificationService.List(ctx,
		middleware.CurrentTenantID(ctx), middleware.CurrentUserID(ctx), unreadOnly, page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respondPaged(ctx, notifications, pagination)
}

// MarkRead marks one notification as read
// @Summary Mark notification as read
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Param id path int true "Notification ID"
// @Success 200 {object} dto.APIResponse{data=dto.SuccessResponse} "Marked read"
// @Failure 404 {object} dto.ErrorResponse "Notification not found or already read"
// @Router /notifications/{id}/read [put]
func (c *NotificationController) MarkRead(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}

	err := c.notificationService.MarkRead(ctx,
		middleware.CurrentTenantID(ctx), middleware.CurrentUserID(ctx), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, dto.SuccessResponse{Message: "Notification marked as read"})
}

// ListPreferences retrieves the caller's category preferences
// @Summary List notification preferences
// @Tags notifications
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=[]models.NotificationPreference} "Preferences"
// @Router /notifications/preferences [get]
func (c *NotificationController) ListPreferences(ctx *gin.Context) {
	prefs, err := c.notificationService.ListPreferences(ctx,
		middleware.CurrentTenantID(ctx), middleware.CurrentUserID(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, prefs)
}

// UpdatePreference sets the caller's channel flags for one category
// @Summary Update a notification preference
// @Tags notifications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpdatePreferenceRequest true "Preference"
// @Success 200 {object} dto.APIResponse{data=models.NotificationPreference} "Preference saved"
// @Router /notifications/preferences [put]
func (c *NotificationController) UpdatePreference(ctx *gin.Context) {
	var req dto.UpdatePreferenceRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		bindError(ctx, err)
		return
	}

	pref, err := c.notificationService.UpdatePreference(ctx,
		middleware.CurrentTenantID(ctx), middleware.CurrentUserID(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	respond(ctx, http.StatusOK, pref)
}
