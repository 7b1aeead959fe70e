package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campora/campora/internal/app/models"
)

type fakeNotificationStore struct {
	notifications []*models.Notification
	preferences   map[models.NotificationCategory]*models.NotificationPreference
}

func newFakeNotificationStore() *fakeNotificationStore {
	return &fakeNotificationStore{
		preferences: make(map[models.NotificationCategory]*models.NotificationPreference),
	}
}

func (f *fakeNotificationStore) Create(_ context.Context, n *models.Notification) error {
	n.ID = int64(len(f.notifications) + 1)
	f.notifications = append(f.notifications, n)
	return nil
}

func (f *fakeNotificationStore) GetPreference(_ context.Context, _, _ int64, category models.NotificationCategory) (*models.NotificationPreference, error) {
	return f.preferences[category], nil
}

func (f *fakeNotificationStore) ListForUser(_ context.Context, _, _ int64, _ bool, _ uint64, _ int) ([]*models.Notification, int64, error) {
	return f.notifications, int64(len(f.notifications)), nil
}

func (f *fakeNotificationStore) MarkRead(_ context.Context, _, _, _ int64, _ time.Time) error {
	return nil
}

func (f *fakeNotificationStore) ListPreferences(_ context.Context, _, _ int64) ([]*models.NotificationPreference, error) {
	return nil, nil
}

func (f *fakeNotificationStore) UpsertPreference(_ context.Context, pref *models.NotificationPreference) error {
	f.preferences[pref.Category] = pref
	return nil
}

type fakeEmailSender struct {
	sent []string
	err  error
}

func (f *fakeEmailSender) Send(toEmail, _, _, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, toEmail)
	return nil
}

type fakeSMSSender struct {
	sent []string
	err  error
}

func (f *fakeSMSSender) Send(toPhone, _ string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, toPhone)
	return nil
}

func testUser() *models.User {
	phone := "+15550001111"
	return &models.User{
		ID:        42,
		TenantID:  1,
		Email:     "student@campus.edu",
		FirstName: "Ada",
		LastName:  "Lovelace",
		Phone:     &phone,
	}
}

func byChannel(notifications []*models.Notification, channel models.NotificationChannel) *models.Notification {
	for _, n := range notifications {
		if n.Channel == channel {
			return n
		}
	}
	return nil
}

func TestDispatchDefaultPreference(t *testing.T) {
	store := newFakeNotificationStore()
	emails := &fakeEmailSender{}
	texts := &fakeSMSSender{}
	svc := NewNotificationService(store, emails, texts)

	err := svc.Dispatch(context.Background(), testUser(), models.CategoryGrades, "Grades posted", "Your final grades are available.")
	require.NoError(t, err)
	require.Len(t, store.notifications, 3)

	inApp := byChannel(store.notifications, models.ChannelInApp)
	require.NotNil(t, inApp)
	assert.Equal(t, models.NotificationSent, inApp.Status)
	assert.NotNil(t, inApp.SentAt)

	// default preference: email on, SMS off
	email := byChannel(store.notifications, models.ChannelEmail)
	require.NotNil(t, email)
	assert.Equal(t, models.NotificationSent, email.Status)
	assert.Equal(t, []string{"student@campus.edu"}, emails.sent)

	sms := byChannel(store.notifications, models.ChannelSMS)
	require.NotNil(t, sms)
	assert.Equal(t, models.NotificationSkipped, sms.Status)
	assert.Empty(t, texts.sent)
}

func TestDispatchRespectsPreference(t *testing.T) {
	store := newFakeNotificationStore()
	store.preferences[models.CategoryBilling] = &models.NotificationPreference{
		Category: models.CategoryBilling,
		Email:    false,
		SMS:      true,
	}
	emails := &fakeEmailSender{}
	texts := &fakeSMSSender{}
	svc := NewNotificationService(store, emails, texts)

	err := svc.Dispatch(context.Background(), testUser(), models.CategoryBilling, "Invoice issued", "A new invoice is due.")
	require.NoError(t, err)

	assert.Equal(t, models.NotificationSkipped, byChannel(store.notifications, models.ChannelEmail).Status)
	assert.Empty(t, emails.sent)
	assert.Equal(t, models.NotificationSent, byChannel(store.notifications, models.ChannelSMS).Status)
	assert.Equal(t, []string{"+15550001111"}, texts.sent)
}

func TestDispatchSMSSkippedWithoutPhone(t *testing.T) {
	store := newFakeNotificationStore()
	store.preferences[models.CategoryGrades] = &models.NotificationPreference{
		Category: models.CategoryGrades,
		Email:    true,
		SMS:      true,
	}
	texts := &fakeSMSSender{}
	svc := NewNotificationService(store, &fakeEmailSender{}, texts)

	user := testUser()
	user.Phone = nil
	err := svc.Dispatch(context.Background(), user, models.CategoryGrades, "Grades posted", "body")
	require.NoError(t, err)

	assert.Equal(t, models.NotificationSkipped, byChannel(store.notifications, models.ChannelSMS).Status)
	assert.Empty(t, texts.sent)
}

func TestDispatchSenderFailureRecordedNoRetry(t *testing.T) {
	store := newFakeNotificationStore()
	emails := &fakeEmailSender{err: errors.New("smtp down")}
	svc := NewNotificationService(store, emails, &fakeSMSSender{})

	err := svc.Dispatch(context.Background(), testUser(), models.CategoryEnrollment, "Enrolled", "body")
	require.NoError(t, err)

	email := byChannel(store.notifications, models.ChannelEmail)
	require.NotNil(t, email)
	assert.Equal(t, models.NotificationFailed, email.Status)
	assert.Nil(t, email.SentAt)

	// the in-app copy is unaffected by the channel failure
	assert.Equal(t, models.NotificationSent, byChannel(store.notifications, models.ChannelInApp).Status)
}

func TestChannelFlags(t *testing.T) {
	sendEmail, sendSMS := channelFlags(nil)
	assert.True(t, sendEmail)
	assert.False(t, sendSMS)

	sendEmail, sendSMS = channelFlags(&models.NotificationPreference{Email: false, SMS: true})
	assert.False(t, sendEmail)
	assert.True(t, sendSMS)
}
