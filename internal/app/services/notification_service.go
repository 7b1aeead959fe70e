package services

import (
	"context"
	"time"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/pkg/email"
	"github.com/campora/campora/internal/pkg/helpers"
	"github.com/campora/campora/internal/pkg/logger"
	"github.com/campora/campora/internal/pkg/sms"
)

// NotificationStore is the persistence surface the dispatcher needs
type NotificationStore interface {
	Create(ctx context.Context, n *models.Notification) error
	GetPreference(ctx context.Context, tenantID, userID int64, category models.NotificationCategory) (*models.NotificationPreference, error)
	ListForUser(ctx context.Context, tenantID, userID int64, unreadOnly bool, offset uint64, limit int) ([]*models.Notification, int64, error)
	MarkRead(ctx context.Context, tenantID, userID, id int64, at time.Time) error
	ListPreferences(ctx context.Context, tenantID, userID int64) ([]*models.NotificationPreference, error)
	UpsertPreference(ctx context.Context, pref *models.NotificationPreference) error
}

// NotificationService dispatches messages across in-app, email and SMS
// channels, gated by per-category user preferences.
type NotificationService struct {
	store       NotificationStore
	emailSender email.Sender
	smsSender   sms.Sender
}

// NewNotificationService creates a new notification service
func NewNotificationService(store NotificationStore, emailSender email.Sender, smsSender sms.Sender) *NotificationService {
	return &NotificationService{
		store:       store,
		emailSender: emailSender,
		smsSender:   smsSender,
	}
}

// Dispatch delivers one message to a user. The in-app copy is always stored;
// email and SMS are gated by the user's preference for the category. A channel
// the user disabled is recorded as SKIPPED, a sender failure as FAILED. There
// is no retry.
func (s *NotificationService) Dispatch(ctx context.Context, user *models.User, category models.NotificationCategory, subject, body string) error {
	now := time.Now()

	inApp := &models.Notification{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Channel:  models.ChannelInApp,
		Category: category,
		Subject:  subject,
		Body:     body,
		Status:   models.NotificationSent,
		SentAt:   &now,
	}
	if err := s.store.Create(ctx, inApp); err != nil {
		return err
	}

	pref, err := s.store.GetPreference(ctx, user.TenantID, user.ID, category)
	if err != nil {
		return err
	}
	sendEmail, sendSMS := channelFlags(pref)

	emailStatus := models.NotificationSkipped
	var emailSentAt *time.Time
	if sendEmail {
		if err := s.emailSender.Send(user.Email, user.FullName(), subject, body); err != nil {
			logger.Warn().Err(err).Int64("userId", user.ID).Str("category", string(category)).Msg("Email delivery failed")
			emailStatus = models.NotificationFailed
		} else {
			emailStatus = models.NotificationSent
			emailSentAt = &now
		}
	}
	emailRecord := &models.Notification{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Channel:  models.ChannelEmail,
		Category: category,
		Subject:  subject,
		Body:     body,
		Status:   emailStatus,
		SentAt:   emailSentAt,
	}
	if err := s.store.Create(ctx, emailRecord); err != nil {
		return err
	}

	smsStatus := models.NotificationSkipped
	var smsSentAt *time.Time
	if sendSMS && user.Phone != nil {
		if err := s.smsSender.Send(*user.Phone, subject+": "+body); err != nil {
			logger.Warn().Err(err).Int64("userId", user.ID).Str("category", string(category)).Msg("SMS delivery failed")
			smsStatus = models.NotificationFailed
		} else {
			smsStatus = models.NotificationSent
			smsSentAt = &now
		}
	}
	smsRecord := &models.Notification{
		TenantID: user.TenantID,
		UserID:   user.ID,
		Channel:  models.ChannelSMS,
		Category: category,
		Subject:  subject,
		Body:     body,
		Status:   smsStatus,
		SentAt:   smsSentAt,
	}
	return s.store.Create(ctx, smsRecord)
}

// channelFlags resolves a preference row to delivery flags. A user who never
// set a preference gets email on and SMS off.
func channelFlags(pref *models.NotificationPreference) (sendEmail, sendSMS bool) {
	if pref == nil {
		return true, false
	}
	return pref.Email, pref.SMS
}

// List retrieves a user's in-app notifications
func (s *NotificationService) List(ctx context.Context, tenantID, userID int64, unreadOnly bool, page, size int) ([]*models.Notification, dto.PaginationInfo, error) {
	offset, limit := helpers.CalculateOffsetLimit(page, size)
	notifications, total, err := s.store.ListForUser(ctx, tenantID, userID, unreadOnly, offset, limit)
	if err != nil {
		return nil, dto.PaginationInfo{}, err
	}
	return notifications, helpers.NewPaginationInfo(total, page, size), nil
}

// MarkRead marks one of the caller's in-app notifications as read
func (s *NotificationService) MarkRead(ctx context.Context, tenantID, userID, id int64) error {
	return s.store.MarkRead(ctx, tenantID, userID, id, time.Now())
}

// ListPreferences retrieves the caller's category preferences
func (s *NotificationService) ListPreferences(ctx context.Context, tenantID, userID int64) ([]*models.NotificationPreference, error) {
	return s.store.ListPreferences(ctx, tenantID, userID)
}

// UpdatePreference sets the caller's channel flags for one category
func (s *NotificationService) UpdatePreference(ctx context.Context, tenantID, userID int64, req *dto.UpdatePreferenceRequest) (*models.NotificationPreference, error) {
	pref := &models.NotificationPreference{
		TenantID: tenantID,
		UserID:   userID,
		Category: models.NotificationCategory(req.Category),
		Email:    req.Email,
		SMS:      req.SMS,
	}
	if err := s.store.UpsertPreference(ctx, pref); err != nil {
		return nil, err
	}
	return pref, nil
}
