package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/dberrors"
)

// AcademicRepository handles academic years, semesters, registration periods
// and departments.
type AcademicRepository struct {
	db *pgxpool.Pool
}

// NewAcademicRepository creates a new academic repository
func NewAcademicRepository(db *pgxpool.Pool) *AcademicRepository {
	return &AcademicRepository{db: db}
}

// CreateAcademicYear stores a new academic year
func (r *AcademicRepository) CreateAcademicYear(ctx context.Context, year *models.AcademicYear) error {
	query := `
		INSERT INTO academic_years (tenant_id, code, start_date, end_date, is_current)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		year.TenantID, year.Code, year.StartDate, year.EndDate, year.IsCurrent,
	).Scan(&year.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "academic_years_tenant_id_code_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating academic year: %w", err)
	}

	return nil
}

// GetAcademicYearByID retrieves an academic year by ID within a tenant
func (r *AcademicRepository) GetAcademicYearByID(ctx context.Context, tenantID, id int64) (*models.AcademicYear, error) {
	query := `
		SELECT id, tenant_id, code, start_date, end_date, is_current
		FROM academic_years
		WHERE tenant_id = $1 AND id = $2
	`

	var year models.AcademicYear
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&year.ID, &year.TenantID, &year.Code, &year.StartDate, &year.EndDate, &year.IsCurrent,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAcademicYearNotFound
		}
		return nil, fmt.Errorf("error retrieving academic year: %w", err)
	}
	return &year, nil
}

// GetCurrentAcademicYear retrieves the tenant's current academic year
func (r *AcademicRepository) GetCurrentAcademicYear(ctx context.Context, tenantID int64) (*models.AcademicYear, error) {
	query := `
		SELECT id, tenant_id, code, start_date, end_date, is_current
		FROM academic_years
		WHERE tenant_id = $1 AND is_current = true
	`

	var year models.AcademicYear
	err := r.db.QueryRow(ctx, query, tenantID).Scan(
		&year.ID, &year.TenantID, &year.Code, &year.StartDate, &year.EndDate, &year.IsCurrent,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrAcademicYearNotFound
		}
		return nil, fmt.Errorf("error retrieving current academic year: %w", err)
	}
	return &year, nil
}

// ListAcademicYears retrieves all academic years of a tenant, newest first
func (r *AcademicRepository) ListAcademicYears(ctx context.Context, tenantID int64) ([]*models.AcademicYear, error) {
	query := `
		SELECT id, tenant_id, code, start_date, end_date, is_current
		FROM academic_years
		WHERE tenant_id = $1
		ORDER BY start_date DESC
	`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var years []*models.AcademicYear
	for rows.Next() {
		var year models.AcademicYear
		if err := rows.Scan(&year.ID, &year.TenantID, &year.Code, &year.StartDate, &year.EndDate, &year.IsCurrent); err != nil {
			return nil, err
		}
		years = append(years, &year)
	}
	return years, rows.Err()
}

// SetCurrentAcademicYear marks one year as current and clears the flag on the
// rest of the tenant's years. Runs inside the caller's transaction scope.
func (r *AcademicRepository) SetCurrentAcademicYear(ctx context.Context, tx pgx.Tx, tenantID, id int64) error {
	if _, err := tx.Exec(ctx, `UPDATE academic_years SET is_current = false WHERE tenant_id = $1`, tenantID); err != nil {
		return fmt.Errorf("error clearing current academic year: %w", err)
	}

	cmdTag, err := tx.Exec(ctx, `UPDATE academic_years SET is_current = true WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	if err != nil {
		return fmt.Errorf("error setting current academic year: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrAcademicYearNotFound
	}
	return nil
}

// CreateSemester stores a new semester
func (r *AcademicRepository) CreateSemester(ctx context.Context, semester *models.Semester) error {
	query := `
		INSERT INTO semesters (tenant_id, academic_year_id, term, start_date, end_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		semester.TenantID, semester.AcademicYearID, semester.Term, semester.StartDate, semester.EndDate,
	).Scan(&semester.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "semesters_tenant_id_academic_year_id_term_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating semester: %w", err)
	}

	return nil
}

// GetSemesterByID retrieves a semester with its academic year
func (r *AcademicRepository) GetSemesterByID(ctx context.Context, tenantID, id int64) (*models.Semester, error) {
	query := `
		SELECT s.id, s.tenant_id, s.academic_year_id, s.term, s.start_date, s.end_date,
		       y.id, y.tenant_id, y.code, y.start_date, y.end_date, y.is_current
		FROM semesters s
		JOIN academic_years y ON y.id = s.academic_year_id
		WHERE s.tenant_id = $1 AND s.id = $2
	`

	var semester models.Semester
	var year models.AcademicYear
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&semester.ID, &semester.TenantID, &semester.AcademicYearID, &semester.Term, &semester.StartDate, &semester.EndDate,
		&year.ID, &year.TenantID, &year.Code, &year.StartDate, &year.EndDate, &year.IsCurrent,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSemesterNotFound
		}
		return nil, fmt.Errorf("error retrieving semester: %w", err)
	}
	semester.AcademicYear = &year
	return &semester, nil
}

// ListSemesters retrieves the semesters of an academic year
func (r *AcademicRepository) ListSemesters(ctx context.Context, tenantID, academicYearID int64) ([]*models.Semester, error) {
	query := `
		SELECT id, tenant_id, academic_year_id, term, start_date, end_date
		FROM semesters
		WHERE tenant_id = $1 AND academic_year_id = $2
		ORDER BY start_date
	`

	rows, err := r.db.Query(ctx, query, tenantID, academicYearID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var semesters []*models.Semester
	for rows.Next() {
		var s models.Semester
		if err := rows.Scan(&s.ID, &s.TenantID, &s.AcademicYearID, &s.Term, &s.StartDate, &s.EndDate); err != nil {
			return nil, err
		}
		semesters = append(semesters, &s)
	}
	return semesters, rows.Err()
}

// CreateRegistrationPeriod stores a new registration window for a semester
func (r *AcademicRepository) CreateRegistrationPeriod(ctx context.Context, period *models.RegistrationPeriod) error {
	query := `
		INSERT INTO registration_periods (tenant_id, semester_id, kind, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		period.TenantID, period.SemesterID, period.Kind, period.StartsAt, period.EndsAt,
	).Scan(&period.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "registration_periods_tenant_id_semester_id_kind_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating registration period: %w", err)
	}

	return nil
}

// ListRegistrationPeriods retrieves the registration windows of a semester
func (r *AcademicRepository) ListRegistrationPeriods(ctx context.Context, tenantID, semesterID int64) ([]*models.RegistrationPeriod, error) {
	query := `
		SELECT id, tenant_id, semester_id, kind, starts_at, ends_at
		FROM registration_periods
		WHERE tenant_id = $1 AND semester_id = $2
		ORDER BY starts_at
	`

	rows, err := r.db.Query(ctx, query, tenantID, semesterID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var periods []*models.RegistrationPeriod
	for rows.Next() {
		var p models.RegistrationPeriod
		if err := rows.Scan(&p.ID, &p.TenantID, &p.SemesterID, &p.Kind, &p.StartsAt, &p.EndsAt); err != nil {
			return nil, err
		}
		periods = append(periods, &p)
	}
	return periods, rows.Err()
}

// CreateDepartment stores a new department
func (r *AcademicRepository) CreateDepartment(ctx context.Context, dept *models.Department) error {
	query := `
		INSERT INTO departments (tenant_id, code, name)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query, dept.TenantID, dept.Code, dept.Name).Scan(&dept.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "departments_tenant_id_code_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating department: %w", err)
	}

	return nil
}

// GetDepartmentByID retrieves a department by ID within a tenant
func (r *AcademicRepository) GetDepartmentByID(ctx context.Context, tenantID, id int64) (*models.Department, error) {
	query := `SELECT id, tenant_id, code, name FROM departments WHERE tenant_id = $1 AND id = $2`

	var dept models.Department
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(&dept.ID, &dept.TenantID, &dept.Code, &dept.Name)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrDepartmentNotFound
		}
		return nil, fmt.Errorf("error retrieving department: %w", err)
	}
	return &dept, nil
}

// ListDepartments retrieves all departments of a tenant
func (r *AcademicRepository) ListDepartments(ctx context.Context, tenantID int64) ([]*models.Department, error) {
	query := `SELECT id, tenant_id, code, name FROM departments WHERE tenant_id = $1 ORDER BY code`

	rows, err := r.db.Query(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var depts []*models.Department
	for rows.Next() {
		var d models.Department
		if err := rows.Scan(&d.ID, &d.TenantID, &d.Code, &d.Name); err != nil {
			return nil, err
		}
		depts = append(depts, &d)
	}
	return depts, rows.Err()
}
