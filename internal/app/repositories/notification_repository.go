package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/pkg/apperrors"
)

// NotificationRepository handles notifications and delivery preferences
type NotificationRepository struct {
	db *pgxpool.Pool
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create stores a notification record
func (r *NotificationRepository) Create(ctx context.Context, n *models.Notification) error {
	query := `
		INSERT INTO notifications (tenant_id, user_id, channel, category, subject, body, status, sent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		n.TenantID, n.UserID, n.Channel, n.Category, n.Subject, n.Body, n.Status, n.SentAt,
	).Scan(&n.ID, &n.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating notification: %w", err)
	}

	return nil
}

// ListForUser retrieves a user's in-app notifications, newest first
func (r *NotificationRepository) ListForUser(ctx context.Context, tenantID, userID int64, unreadOnly bool, offset uint64, limit int) ([]*models.Notification, int64, error) {
	where := ` WHERE tenant_id = $1 AND user_id = $2 AND channel = 'IN_APP'`
	if unreadOnly {
		where += ` AND read_at IS NULL`
	}

	var total int64
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM notifications`+where, tenantID, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting notifications: %w", err)
	}

	query := `
		SELECT id, tenant_id, user_id, channel, category, subject, body, status, sent_at, read_at, created_at
		FROM notifications` + where + `
		ORDER BY created_at DESC
		OFFSET $3 LIMIT $4
	`

	rows, err := r.db.Query(ctx, query, tenantID, userID, offset, limit)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notifications []*models.Notification
	for rows.Next() {
		var n models.Notification
		err := rows.Scan(
			&n.ID, &n.TenantID, &n.UserID, &n.Channel, &n.Category,
			&n.Subject, &n.Body, &n.Status, &n.SentAt, &n.ReadAt, &n.CreatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		notifications = append(notifications, &n)
	}
	return notifications, total, rows.Err()
}

// MarkRead marks an in-app notification as read by its recipient
func (r *NotificationRepository) MarkRead(ctx context.Context, tenantID, userID, id int64, at time.Time) error {
	cmdTag, err := r.db.Exec(ctx, `
		UPDATE notifications
		SET read_at = $1
		WHERE tenant_id = $2 AND user_id = $3 AND id = $4 AND channel = 'IN_APP' AND read_at IS NULL
	`, at, tenantID, userID, id)
	if err != nil {
		return fmt.Errorf("error marking notification read: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}
	return nil
}

// GetPreference retrieves a user's preference for one category. Returns nil
// when the user never set one; the caller applies the default.
func (r *NotificationRepository) GetPreference(ctx context.Context, tenantID, userID int64, category models.NotificationCategory) (*models.NotificationPreference, error) {
	query := `
		SELECT id, tenant_id, user_id, category, email, sms
		FROM notification_preferences
		WHERE tenant_id = $1 AND user_id = $2 AND category = $3
	`

	var pref models.NotificationPreference
	err := r.db.QueryRow(ctx, query, tenantID, userID, category).Scan(
		&pref.ID, &pref.TenantID, &pref.UserID, &pref.Category, &pref.Email, &pref.SMS,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error retrieving notification preference: %w", err)
	}
	return &pref, nil
}

// ListPreferences retrieves all of a user's category preferences
func (r *NotificationRepository) ListPreferences(ctx context.Context, tenantID, userID int64) ([]*models.NotificationPreference, error) {
	query := `
		SELECT id, tenant_id, user_id, category, email, sms
		FROM notification_preferences
		WHERE tenant_id = $1 AND user_id = $2
		ORDER BY category
	`

	rows, err := r.db.Query(ctx, query, tenantID, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var prefs []*models.NotificationPreference
	for rows.Next() {
		var pref models.NotificationPreference
		if err := rows.Scan(&pref.ID, &pref.TenantID, &pref.UserID, &pref.Category, &pref.Email, &pref.SMS); err != nil {
			return nil, err
		}
		prefs = append(prefs, &pref)
	}
	return prefs, rows.Err()
}

// UpsertPreference stores or replaces a user's preference for one category
func (r *NotificationRepository) UpsertPreference(ctx context.Context, pref *models.NotificationPreference) error {
	query := `
		INSERT INTO notification_preferences (tenant_id, user_id, category, email, sms)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, user_id, category)
		DO UPDATE SET email = EXCLUDED.email, sms = EXCLUDED.sms
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		pref.TenantID, pref.UserID, pref.Category, pref.Email, pref.SMS,
	).Scan(&pref.ID)
	if err != nil {
		return fmt.Errorf("error saving notification preference: %w", err)
	}

	return nil
}
