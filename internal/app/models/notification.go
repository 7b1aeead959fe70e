package models

import "time"

// NotificationChannel is the delivery channel.
type NotificationChannel string

const (
	ChannelEmail NotificationChannel = "EMAIL"
	ChannelSMS   NotificationChannel = "SMS"
	ChannelInApp NotificationChannel = "IN_APP"
)

// NotificationCategory groups notifications for preference gating.
type NotificationCategory string

const (
	CategoryEnrollment NotificationCategory = "ENROLLMENT"
	CategoryGrades     NotificationCategory = "GRADES"
	CategoryBilling    NotificationCategory = "BILLING"
	CategoryLibrary    NotificationCategory = "LIBRARY"
	CategoryAttendance NotificationCategory = "ATTENDANCE"
)

// NotificationStatus is the delivery outcome.
type NotificationStatus string

const (
	NotificationPending NotificationStatus = "PENDING"
	NotificationSent    NotificationStatus = "SENT"
	NotificationFailed  NotificationStatus = "FAILED"
	NotificationSkipped NotificationStatus = "SKIPPED" // channel disabled by preference
)

// Notification is one message to one recipient over one channel.
type Notification struct {
	ID        int64                `json:"id" db:"id"`
	TenantID  int64                `json:"tenantId" db:"tenant_id"`
	UserID    int64                `json:"userId" db:"user_id"`
	Channel   NotificationChannel  `json:"channel" db:"channel"`
	Category  NotificationCategory `json:"category" db:"category"`
	Subject   string               `json:"subject" db:"subject"`
	Body      string               `json:"body" db:"body"`
	Status    NotificationStatus   `json:"status" db:"status"`
	SentAt    *time.Time           `json:"sentAt,omitempty" db:"sent_at"`
	ReadAt    *time.Time           `json:"readAt,omitempty" db:"read_at"` // in-app only
	CreatedAt time.Time            `json:"createdAt" db:"created_at"`
}

// NotificationPreference gates email/SMS delivery per category. In-app
// notifications are always delivered.
type NotificationPreference struct {
	ID       int64                `json:"id" db:"id"`
	TenantID int64                `json:"tenantId" db:"tenant_id"`
	UserID   int64                `json:"userId" db:"user_id"`
	Category NotificationCategory `json:"category" db:"category"`
	Email    bool                 `json:"email" db:"email"`
	SMS      bool                 `json:"sms" db:"sms"`
}
