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

// GradeRepository handles grade components, entries and transcript rows
type GradeRepository struct {
	db *pgxpool.Pool
}

// NewGradeRepository creates a new grade repository
func NewGradeRepository(db *pgxpool.Pool) *GradeRepository {
	return &GradeRepository{db: db}
}

// CreateComponent stores a weighted assessment item for a section
func (r *GradeRepository) CreateComponent(ctx context.Context, component *models.GradeComponent) error {
	query := `
		INSERT INTO grade_components (tenant_id, section_id, name, weight, max_score)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		component.TenantID, component.SectionID, component.Name, component.Weight, component.MaxScore,
	).Scan(&component.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "grade_components_tenant_id_section_id_name_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating grade component: %w", err)
	}

	return nil
}

// GetComponentByID retrieves a grade component
func (r *GradeRepository) GetComponentByID(ctx context.Context, tenantID, id int64) (*models.GradeComponent, error) {
	query := `
		SELECT id, tenant_id, section_id, name, weight, max_score
		FROM grade_components
		WHERE tenant_id = $1 AND id = $2
	`

	var c models.GradeComponent
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&c.ID, &c.TenantID, &c.SectionID, &c.Name, &c.Weight, &c.MaxScore,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving grade component: %w", err)
	}
	return &c, nil
}

// ListComponents retrieves the grade components of a section
func (r *GradeRepository) ListComponents(ctx context.Context, tenantID, sectionID int64) ([]*models.GradeComponent, error) {
	query := `
		SELECT id, tenant_id, section_id, name, weight, max_score
		FROM grade_components
		WHERE tenant_id = $1 AND section_id = $2
		ORDER BY id
	`

	rows, err := r.db.Query(ctx, query, tenantID, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var components []*models.GradeComponent
	for rows.Next() {
		var c models.GradeComponent
		if err := rows.Scan(&c.ID, &c.TenantID, &c.SectionID, &c.Name, &c.Weight, &c.MaxScore); err != nil {
			return nil, err
		}
		components = append(components, &c)
	}
	return components, rows.Err()
}

// SumWeights returns the total weight of a section's components
func (r *GradeRepository) SumWeights(ctx context.Context, tenantID, sectionID int64) (float64, error) {
	var total float64
	err := r.db.QueryRow(ctx,
		`SELECT COALESCE(SUM(weight), 0) FROM grade_components WHERE tenant_id = $1 AND section_id = $2`,
		tenantID, sectionID,
	).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("error summing component weights: %w", err)
	}
	return total, nil
}

// UpsertEntry records a score, replacing any previous score for the same
// component and enrollment.
func (r *GradeRepository) UpsertEntry(ctx context.Context, entry *models.GradeEntry) error {
	query := `
		INSERT INTO grade_entries (tenant_id, component_id, enrollment_id, score, graded_by)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (tenant_id, component_id, enrollment_id)
		DO UPDATE SET score = EXCLUDED.score, graded_by = EXCLUDED.graded_by, graded_at = now()
		RETURNING id, graded_at
	`

	err := r.db.QueryRow(ctx, query,
		entry.TenantID, entry.ComponentID, entry.EnrollmentID, entry.Score, entry.GradedBy,
	).Scan(&entry.ID, &entry.GradedAt)
	if err != nil {
		return fmt.Errorf("error recording grade entry: %w", err)
	}

	return nil
}

// ListEntriesForEnrollment retrieves all of an enrollment's scores
func (r *GradeRepository) ListEntriesForEnrollment(ctx context.Context, tenantID, enrollmentID int64) ([]*models.GradeEntry, error) {
	query := `
		SELECT id, tenant_id, component_id, enrollment_id, score, graded_by, graded_at
		FROM grade_entries
		WHERE tenant_id = $1 AND enrollment_id = $2
		ORDER BY component_id
	`

	rows, err := r.db.Query(ctx, query, tenantID, enrollmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*models.GradeEntry
	for rows.Next() {
		var e models.GradeEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.ComponentID, &e.EnrollmentID, &e.Score, &e.GradedBy, &e.GradedAt); err != nil {
			return nil, err
		}
		entries = append(entries, &e)
	}
	return entries, rows.Err()
}

// transcriptRow is one completed enrollment joined up to its semester and year.
type transcriptRow struct {
	SemesterID   int64
	AcademicYear string
	Term         models.Term
	CourseCode   string
	CourseTitle  string
	Credits      int
	LetterGrade  string
	GradePoints  float64
}

// ListTranscriptRows retrieves the graded enrollments of a student ordered by
// semester start date, for transcript assembly.
func (r *GradeRepository) ListTranscriptRows(ctx context.Context, tenantID, studentID int64) ([]models.TranscriptSemester, error) {
	query := `
		SELECT sem.id, y.code, sem.term, c.code, c.title, c.credits, e.letter_grade, e.grade_points
		FROM enrollments e
		JOIN sections s ON s.id = e.section_id
		JOIN courses c ON c.id = s.course_id
		JOIN semesters sem ON sem.id = s.semester_id
		JOIN academic_years y ON y.id = sem.academic_year_id
		WHERE e.tenant_id = $1 AND e.student_id = $2
		  AND e.status = 'COMPLETED' AND e.letter_grade IS NOT NULL
		ORDER BY sem.start_date, c.code
	`

	rows, err := r.db.Query(ctx, query, tenantID, studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var semesters []models.TranscriptSemester
	for rows.Next() {
		var row transcriptRow
		err := rows.Scan(
			&row.SemesterID, &row.AcademicYear, &row.Term,
			&row.CourseCode, &row.CourseTitle, &row.Credits, &row.LetterGrade, &row.GradePoints,
		)
		if err != nil {
			return nil, err
		}

		line := models.TranscriptLine{
			CourseCode:  row.CourseCode,
			CourseTitle: row.CourseTitle,
			Credits:     row.Credits,
			LetterGrade: row.LetterGrade,
			GradePoints: row.GradePoints,
		}

		if n := len(semesters); n > 0 && semesters[n-1].SemesterID == row.SemesterID {
			semesters[n-1].Lines = append(semesters[n-1].Lines, line)
			continue
		}
		semesters = append(semesters, models.TranscriptSemester{
			SemesterID:   row.SemesterID,
			AcademicYear: row.AcademicYear,
			Term:         row.Term,
			Lines:        []models.TranscriptLine{line},
		})
	}
	return semesters, rows.Err()
}
