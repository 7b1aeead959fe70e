package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/pkg/apperrors"
)

const applicationColumns = `id, tenant_id, reference, first_name, last_name, email, phone, department_id, academic_year_id, status, decision_notes, decided_by, decided_at, created_at`

// ApplicationRepository handles database operations for admissions applications
type ApplicationRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewApplicationRepository creates a new application repository
func NewApplicationRepository(db *pgxpool.Pool) *ApplicationRepository {
	return &ApplicationRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

func scanApplication(row pgx.Row) (*models.Application, error) {
	var app models.Application
	err := row.Scan(
		&app.ID,
		&app.TenantID,
		&app.Reference,
		&app.FirstName,
		&app.LastName,
		&app.Email,
		&app.Phone,
		&app.DepartmentID,
		&app.AcademicYearID,
		&app.Status,
		&app.DecisionNotes,
		&app.DecidedBy,
		&app.DecidedAt,
		&app.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &app, nil
}

// Create stores a new application
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	query := `
		INSERT INTO applications (tenant_id, reference, first_name, last_name, email, phone, department_id, academic_year_id, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`

	err := r.db.QueryRow(ctx, query,
		app.TenantID, app.Reference, app.FirstName, app.LastName, app.Email,
		app.Phone, app.DepartmentID, app.AcademicYearID, app.Status,
	).Scan(&app.ID, &app.CreatedAt)
	if err != nil {
		return fmt.Errorf("error creating application: %w", err)
	}

	return nil
}

// GetByID retrieves an application by ID within a tenant
func (r *ApplicationRepository) GetByID(ctx context.Context, tenantID, id int64) (*models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM applications WHERE tenant_id = $1 AND id = $2`, applicationColumns)

	app, err := scanApplication(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrApplicationNotFound
		}
		return nil, fmt.Errorf("error retrieving application: %w", err)
	}
	return app, nil
}

// List retrieves applications with optional status and year filters
func (r *ApplicationRepository) List(ctx context.Context, tenantID int64, status string, academicYearID int64, offset uint64, limit int) ([]*models.Application, int64, error) {
	where := squirrel.And{squirrel.Eq{"tenant_id": tenantID}}
	if status != "" {
		where = append(where, squirrel.Eq{"status": status})
	}
	if academicYearID > 0 {
		where = append(where, squirrel.Eq{"academic_year_id": academicYearID})
	}

	sql, args, err := r.sb.Select("COUNT(*)").From("applications").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build application count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting applications: %w", err)
	}

	sql, args, err = r.sb.Select(applicationColumns).From("applications").
		Where(where).
		OrderBy("created_at DESC").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build application list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var apps []*models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, 0, err
		}
		apps = append(apps, app)
	}

	return apps, total, rows.Err()
}

const updateApplicationStatusQuery = `
	UPDATE applications
	SET status = $1, decision_notes = $2, decided_by = $3, decided_at = $4
	WHERE tenant_id = $5 AND id = $6 AND status = $7
`

// UpdateStatus moves an application to a new status, recording the decision.
// The current status is part of the predicate so a concurrent decision cannot
// overwrite this one.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, tenantID, id int64, from, to models.ApplicationStatus, notes *string, decidedBy int64) error {
	cmdTag, err := r.db.Exec(ctx, updateApplicationStatusQuery, to, notes, decidedBy, time.Now(), tenantID, id, from)
	if err != nil {
		return fmt.Errorf("error updating application status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}

	return nil
}

// UpdateStatusTx is UpdateStatus inside a caller-managed transaction.
func (r *ApplicationRepository) UpdateStatusTx(ctx context.Context, tx pgx.Tx, tenantID, id int64, from, to models.ApplicationStatus, notes *string, decidedBy int64) error {
	cmdTag, err := tx.Exec(ctx, updateApplicationStatusQuery, to, notes, decidedBy, time.Now(), tenantID, id, from)
	if err != nil {
		return fmt.Errorf("error updating application status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrInvalidTransition
	}

	return nil
}
