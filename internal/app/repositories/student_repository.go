package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/dberrors"
)

// StudentRepository handles database operations for students
type StudentRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewStudentRepository creates a new student repository
func NewStudentRepository(db *pgxpool.Pool) *StudentRepository {
	return &StudentRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create stores a new student record. The user row must already exist.
func (r *StudentRepository) Create(ctx context.Context, tx pgx.Tx, student *models.Student) error {
	query := `
		INSERT INTO students (tenant_id, user_id, student_number, department_id, enrollment_year, standing)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		student.TenantID, student.UserID, student.StudentNumber,
		student.DepartmentID, student.EnrollmentYear, student.Standing,
	).Scan(&student.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "students_tenant_id_student_number_key") {
			return apperrors.ErrStudentNumberExists
		}
		return fmt.Errorf("error creating student: %w", err)
	}

	return nil
}

// GetByID retrieves a student with user and department relations
func (r *StudentRepository) GetByID(ctx context.Context, tenantID, id int64) (*models.Student, error) {
	query := `
		SELECT s.id, s.tenant_id, s.user_id, s.student_number, s.department_id, s.enrollment_year, s.standing,
		       u.id, u.first_name, u.last_name, u.email,
		       d.id, d.tenant_id, d.code, d.name
		FROM students s
		JOIN users u ON u.id = s.user_id
		JOIN departments d ON d.id = s.department_id
		WHERE s.tenant_id = $1 AND s.id = $2
	`

	return r.scanStudentWithRelations(r.db.QueryRow(ctx, query, tenantID, id))
}

// GetByUserID retrieves the student record linked to a user account
func (r *StudentRepository) GetByUserID(ctx context.Context, tenantID, userID int64) (*models.Student, error) {
	query := `
		SELECT s.id, s.tenant_id, s.user_id, s.student_number, s.department_id, s.enrollment_year, s.standing,
		       u.id, u.first_name, u.last_name, u.email,
		       d.id, d.tenant_id, d.code, d.name
		FROM students s
		JOIN users u ON u.id = s.user_id
		JOIN departments d ON d.id = s.department_id
		WHERE s.tenant_id = $1 AND s.user_id = $2
	`

	return r.scanStudentWithRelations(r.db.QueryRow(ctx, query, tenantID, userID))
}

func (r *StudentRepository) scanStudentWithRelations(row pgx.Row) (*models.Student, error) {
	var student models.Student
	var user models.User
	var dept models.Department
	err := row.Scan(
		&student.ID, &student.TenantID, &student.UserID, &student.StudentNumber,
		&student.DepartmentID, &student.EnrollmentYear, &student.Standing,
		&user.ID, &user.FirstName, &user.LastName, &user.Email,
		&dept.ID, &dept.TenantID, &dept.Code, &dept.Name,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrStudentNotFound
		}
		return nil, fmt.Errorf("error retrieving student: %w", err)
	}
	student.User = &user
	student.Department = &dept
	return &student, nil
}

// List retrieves students with optional department, standing and student
// number filters
func (r *StudentRepository) List(ctx context.Context, tenantID int64, departmentID int64, standing, studentNumber string, offset uint64, limit int) ([]*models.Student, int64, error) {
	where := squirrel.And{squirrel.Eq{"s.tenant_id": tenantID}}
	if departmentID > 0 {
		where = append(where, squirrel.Eq{"s.department_id": departmentID})
	}
	if standing != "" {
		where = append(where, squirrel.Eq{"s.standing": standing})
	}
	if studentNumber != "" {
		where = append(where, squirrel.Eq{"s.student_number": studentNumber})
	}

	sql, args, err := r.sb.Select("COUNT(*)").From("students s").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build student count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting students: %w", err)
	}

	sql, args, err = r.sb.Select(
		"s.id", "s.tenant_id", "s.user_id", "s.student_number", "s.department_id", "s.enrollment_year", "s.standing",
		"u.id", "u.first_name", "u.last_name", "u.email",
		"d.id", "d.tenant_id", "d.code", "d.name",
	).From("students s").
		Join("users u ON u.id = s.user_id").
		Join("departments d ON d.id = s.department_id").
		Where(where).
		OrderBy("s.student_number").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build student list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var students []*models.Student
	for rows.Next() {
		student, err := r.scanStudentWithRelations(rows)
		if err != nil {
			return nil, 0, err
		}
		students = append(students, student)
	}

	return students, total, rows.Err()
}

// UpdateStanding changes a student's academic standing
func (r *StudentRepository) UpdateStanding(ctx context.Context, tenantID, id int64, standing models.StudentStanding) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE students SET standing = $1 WHERE tenant_id = $2 AND id = $3`,
		standing, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("error updating student standing: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrStudentNotFound
	}
	return nil
}

// NextSerial returns the next per-tenant serial for student number generation
// within the given enrollment year.
func (r *StudentRepository) NextSerial(ctx context.Context, tx pgx.Tx, tenantID int64, enrollmentYear int) (int, error) {
	var count int
	err := tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM students WHERE tenant_id = $1 AND enrollment_year = $2`,
		tenantID, enrollmentYear,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("error counting students for serial: %w", err)
	}
	return count + 1, nil
}
