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

// CourseRepository handles courses, sections and enrollments
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateCourse stores a course and its prerequisite links in one transaction
func (r *CourseRepository) CreateCourse(ctx context.Context, tx pgx.Tx, course *models.Course) error {
	query := `
		INSERT INTO courses (tenant_id, department_id, code, title, credits)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := tx.QueryRow(ctx, query,
		course.TenantID, course.DepartmentID, course.Code, course.Title, course.Credits,
	).Scan(&course.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "courses_tenant_id_code_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		return fmt.Errorf("error creating course: %w", err)
	}

	for _, prereqID := range course.Prerequisites {
		_, err := tx.Exec(ctx,
			`INSERT INTO course_prerequisites (tenant_id, course_id, prerequisite_id) VALUES ($1, $2, $3)`,
			course.TenantID, course.ID, prereqID,
		)
		if err != nil {
			if dberrors.IsForeignKeyViolation(err) {
				return apperrors.ErrCourseNotFound
			}
			return fmt.Errorf("error linking prerequisite: %w", err)
		}
	}

	return nil
}

// GetCourseByID retrieves a course with its prerequisite ids
func (r *CourseRepository) GetCourseByID(ctx context.Context, tenantID, id int64) (*models.Course, error) {
	query := `
		SELECT id, tenant_id, department_id, code, title, credits
		FROM courses
		WHERE tenant_id = $1 AND id = $2
	`

	var course models.Course
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&course.ID, &course.TenantID, &course.DepartmentID, &course.Code, &course.Title, &course.Credits,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}

	rows, err := r.db.Query(ctx,
		`SELECT prerequisite_id FROM course_prerequisites WHERE tenant_id = $1 AND course_id = $2`,
		tenantID, id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var prereqID int64
		if err := rows.Scan(&prereqID); err != nil {
			return nil, err
		}
		course.Prerequisites = append(course.Prerequisites, prereqID)
	}
	return &course, rows.Err()
}

// ListCourses retrieves courses with an optional department filter
func (r *CourseRepository) ListCourses(ctx context.Context, tenantID, departmentID int64, offset uint64, limit int) ([]*models.Course, int64, error) {
	where := squirrel.And{squirrel.Eq{"tenant_id": tenantID}}
	if departmentID > 0 {
		where = append(where, squirrel.Eq{"department_id": departmentID})
	}

	sql, args, err := r.sb.Select("COUNT(*)").From("courses").Where(where).ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build course count query: %w", err)
	}

	var total int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("error counting courses: %w", err)
	}

	sql, args, err = r.sb.Select("id", "tenant_id", "department_id", "code", "title", "credits").
		From("courses").
		Where(where).
		OrderBy("code").
		Offset(offset).
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build course list query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		var course models.Course
		if err := rows.Scan(&course.ID, &course.TenantID, &course.DepartmentID, &course.Code, &course.Title, &course.Credits); err != nil {
			return nil, 0, err
		}
		courses = append(courses, &course)
	}

	return courses, total, rows.Err()
}

// CreateSection stores a section of a course in a semester
func (r *CourseRepository) CreateSection(ctx context.Context, section *models.Section) error {
	query := `
		INSERT INTO sections (tenant_id, course_id, semester_id, instructor_id, number, capacity)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		section.TenantID, section.CourseID, section.SemesterID,
		section.InstructorID, section.Number, section.Capacity,
	).Scan(&section.ID)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "sections_tenant_id_course_id_semester_id_number_key") {
			return apperrors.ErrResourceAlreadyExists
		}
		if dberrors.IsForeignKeyViolation(err) {
			return apperrors.ErrCourseNotFound
		}
		return fmt.Errorf("error creating section: %w", err)
	}

	return nil
}

const sectionSelect = `
	SELECT s.id, s.tenant_id, s.course_id, s.semester_id, s.instructor_id, s.number, s.capacity,
	       c.id, c.tenant_id, c.department_id, c.code, c.title, c.credits,
	       (SELECT COUNT(*) FROM enrollments e WHERE e.section_id = s.id AND e.status = 'ENROLLED')
	FROM sections s
	JOIN courses c ON c.id = s.course_id
`

func scanSection(row pgx.Row) (*models.Section, error) {
	var section models.Section
	var course models.Course
	err := row.Scan(
		&section.ID, &section.TenantID, &section.CourseID, &section.SemesterID,
		&section.InstructorID, &section.Number, &section.Capacity,
		&course.ID, &course.TenantID, &course.DepartmentID, &course.Code, &course.Title, &course.Credits,
		&section.Enrolled,
	)
	if err != nil {
		return nil, err
	}
	section.Course = &course
	return &section, nil
}

// GetSectionByID retrieves a section with its course and current enrolled count
func (r *CourseRepository) GetSectionByID(ctx context.Context, tenantID, id int64) (*models.Section, error) {
	query := sectionSelect + ` WHERE s.tenant_id = $1 AND s.id = $2`

	section, err := scanSection(r.db.QueryRow(ctx, query, tenantID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrSectionNotFound
		}
		return nil, fmt.Errorf("error retrieving section: %w", err)
	}
	return section, nil
}

// ListSections retrieves the sections of a semester, optionally filtered by course
func (r *CourseRepository) ListSections(ctx context.Context, tenantID, semesterID, courseID int64) ([]*models.Section, error) {
	query := sectionSelect + ` WHERE s.tenant_id = $1 AND s.semester_id = $2`
	args := []interface{}{tenantID, semesterID}
	if courseID > 0 {
		query += ` AND s.course_id = $3`
		args = append(args, courseID)
	}
	query += ` ORDER BY c.code, s.number`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

// ListInstructorSections retrieves the sections taught by an instructor in a semester
func (r *CourseRepository) ListInstructorSections(ctx context.Context, tenantID, semesterID, instructorID int64) ([]*models.Section, error) {
	query := sectionSelect + ` WHERE s.tenant_id = $1 AND s.semester_id = $2 AND s.instructor_id = $3 ORDER BY c.code, s.number`

	rows, err := r.db.Query(ctx, query, tenantID, semesterID, instructorID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sections []*models.Section
	for rows.Next() {
		section, err := scanSection(rows)
		if err != nil {
			return nil, err
		}
		sections = append(sections, section)
	}
	return sections, rows.Err()
}

// CountEnrolled returns the number of active enrollments in a section,
// locking the section row so concurrent enrollments serialize on capacity.
func (r *CourseRepository) CountEnrolled(ctx context.Context, tx pgx.Tx, tenantID, sectionID int64) (int, int, error) {
	var capacity int
	err := tx.QueryRow(ctx,
		`SELECT capacity FROM sections WHERE tenant_id = $1 AND id = $2 FOR UPDATE`,
		tenantID, sectionID,
	).Scan(&capacity)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, 0, apperrors.ErrSectionNotFound
		}
		return 0, 0, fmt.Errorf("error locking section: %w", err)
	}

	var enrolled int
	err = tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM enrollments WHERE section_id = $1 AND status = 'ENROLLED'`,
		sectionID,
	).Scan(&enrolled)
	if err != nil {
		return 0, 0, fmt.Errorf("error counting enrollments: %w", err)
	}

	return enrolled, capacity, nil
}

// CreateEnrollment registers a student in a section
func (r *CourseRepository) CreateEnrollment(ctx context.Context, tx pgx.Tx, enrollment *models.Enrollment) error {
	query := `
		INSERT INTO enrollments (tenant_id, student_id, section_id, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, enrolled_at
	`

	err := tx.QueryRow(ctx, query,
		enrollment.TenantID, enrollment.StudentID, enrollment.SectionID, enrollment.Status,
	).Scan(&enrollment.ID, &enrollment.EnrolledAt)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "enrollments_tenant_id_student_id_section_id_key") {
			return apperrors.ErrAlreadyEnrolled
		}
		return fmt.Errorf("error creating enrollment: %w", err)
	}

	return nil
}

// GetEnrollmentByID retrieves an enrollment with its section and course
func (r *CourseRepository) GetEnrollmentByID(ctx context.Context, tenantID, id int64) (*models.Enrollment, error) {
	query := `
		SELECT e.id, e.tenant_id, e.student_id, e.section_id, e.status,
		       e.final_score, e.letter_grade, e.grade_points, e.enrolled_at,
		       s.id, s.tenant_id, s.course_id, s.semester_id, s.instructor_id, s.number, s.capacity,
		       c.id, c.tenant_id, c.department_id, c.code, c.title, c.credits
		FROM enrollments e
		JOIN sections s ON s.id = e.section_id
		JOIN courses c ON c.id = s.course_id
		WHERE e.tenant_id = $1 AND e.id = $2
	`

	var enrollment models.Enrollment
	var section models.Section
	var course models.Course
	err := r.db.QueryRow(ctx, query, tenantID, id).Scan(
		&enrollment.ID, &enrollment.TenantID, &enrollment.StudentID, &enrollment.SectionID, &enrollment.Status,
		&enrollment.FinalScore, &enrollment.LetterGrade, &enrollment.GradePoints, &enrollment.EnrolledAt,
		&section.ID, &section.TenantID, &section.CourseID, &section.SemesterID,
		&section.InstructorID, &section.Number, &section.Capacity,
		&course.ID, &course.TenantID, &course.DepartmentID, &course.Code, &course.Title, &course.Credits,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}
	section.Course = &course
	enrollment.Section = &section
	return &enrollment, nil
}

// GetActiveEnrollment finds a student's ENROLLED record in a section
func (r *CourseRepository) GetActiveEnrollment(ctx context.Context, tenantID, studentID, sectionID int64) (*models.Enrollment, error) {
	query := `
		SELECT id, tenant_id, student_id, section_id, status, final_score, letter_grade, grade_points, enrolled_at
		FROM enrollments
		WHERE tenant_id = $1 AND student_id = $2 AND section_id = $3 AND status = 'ENROLLED'
	`

	var e models.Enrollment
	err := r.db.QueryRow(ctx, query, tenantID, studentID, sectionID).Scan(
		&e.ID, &e.TenantID, &e.StudentID, &e.SectionID, &e.Status,
		&e.FinalScore, &e.LetterGrade, &e.GradePoints, &e.EnrolledAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrEnrollmentNotFound
		}
		return nil, fmt.Errorf("error retrieving enrollment: %w", err)
	}
	return &e, nil
}

// ListSectionEnrollments retrieves all enrollments of a section with students
func (r *CourseRepository) ListSectionEnrollments(ctx context.Context, tenantID, sectionID int64) ([]*models.Enrollment, error) {
	query := `
		SELECT e.id, e.tenant_id, e.student_id, e.section_id, e.status,
		       e.final_score, e.letter_grade, e.grade_points, e.enrolled_at,
		       st.id, st.tenant_id, st.user_id, st.student_number, st.department_id, st.enrollment_year, st.standing,
		       u.id, u.first_name, u.last_name, u.email
		FROM enrollments e
		JOIN students st ON st.id = e.student_id
		JOIN users u ON u.id = st.user_id
		WHERE e.tenant_id = $1 AND e.section_id = $2
		ORDER BY st.student_number
	`

	rows, err := r.db.Query(ctx, query, tenantID, sectionID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		var student models.Student
		var user models.User
		err := rows.Scan(
			&e.ID, &e.TenantID, &e.StudentID, &e.SectionID, &e.Status,
			&e.FinalScore, &e.LetterGrade, &e.GradePoints, &e.EnrolledAt,
			&student.ID, &student.TenantID, &student.UserID, &student.StudentNumber,
			&student.DepartmentID, &student.EnrollmentYear, &student.Standing,
			&user.ID, &user.FirstName, &user.LastName, &user.Email,
		)
		if err != nil {
			return nil, err
		}
		student.User = &user
		e.Student = &student
		enrollments = append(enrollments, &e)
	}
	return enrollments, rows.Err()
}

// ListStudentEnrollments retrieves a student's enrollments, optionally for one semester
func (r *CourseRepository) ListStudentEnrollments(ctx context.Context, tenantID, studentID, semesterID int64) ([]*models.Enrollment, error) {
	query := `
		SELECT e.id, e.tenant_id, e.student_id, e.section_id, e.status,
		       e.final_score, e.letter_grade, e.grade_points, e.enrolled_at,
		       s.id, s.tenant_id, s.course_id, s.semester_id, s.instructor_id, s.number, s.capacity,
		       c.id, c.tenant_id, c.department_id, c.code, c.title, c.credits
		FROM enrollments e
		JOIN sections s ON s.id = e.section_id
		JOIN courses c ON c.id = s.course_id
		WHERE e.tenant_id = $1 AND e.student_id = $2
	`
	args := []interface{}{tenantID, studentID}
	if semesterID > 0 {
		query += ` AND s.semester_id = $3`
		args = append(args, semesterID)
	}
	query += ` ORDER BY e.enrolled_at`

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var enrollments []*models.Enrollment
	for rows.Next() {
		var e models.Enrollment
		var section models.Section
		var course models.Course
		err := rows.Scan(
			&e.ID, &e.TenantID, &e.StudentID, &e.SectionID, &e.Status,
			&e.FinalScore, &e.LetterGrade, &e.GradePoints, &e.EnrolledAt,
			&section.ID, &section.TenantID, &section.CourseID, &section.SemesterID,
			&section.InstructorID, &section.Number, &section.Capacity,
			&course.ID, &course.TenantID, &course.DepartmentID, &course.Code, &course.Title, &course.Credits,
		)
		if err != nil {
			return nil, err
		}
		section.Course = &course
		e.Section = &section
		enrollments = append(enrollments, &e)
	}
	return enrollments, rows.Err()
}

// UpdateEnrollmentStatus moves an enrollment to DROPPED or COMPLETED
func (r *CourseRepository) UpdateEnrollmentStatus(ctx context.Context, tenantID, id int64, status models.EnrollmentStatus) error {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE enrollments SET status = $1 WHERE tenant_id = $2 AND id = $3`,
		status, tenantID, id,
	)
	if err != nil {
		return fmt.Errorf("error updating enrollment status: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}

// SetFinalGrade records the computed final score, letter and grade points
func (r *CourseRepository) SetFinalGrade(ctx context.Context, tx pgx.Tx, tenantID, id int64, score float64, letter string, points float64) error {
	cmdTag, err := tx.Exec(ctx, `
		UPDATE enrollments
		SET final_score = $1, letter_grade = $2, grade_points = $3, status = 'COMPLETED'
		WHERE tenant_id = $4 AND id = $5
	`, score, letter, points, tenantID, id)
	if err != nil {
		return fmt.Errorf("error setting final grade: %w", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrEnrollmentNotFound
	}
	return nil
}

// CompletedCourseIDs returns the course ids a student has passed. A course
// counts as completed when the enrollment is COMPLETED with a passing letter,
// DD or better.
func (r *CourseRepository) CompletedCourseIDs(ctx context.Context, tenantID, studentID int64) (map[int64]bool, error) {
	query := `
		SELECT DISTINCT s.course_id
		FROM enrollments e
		JOIN sections s ON s.id = e.section_id
		WHERE e.tenant_id = $1 AND e.student_id = $2
		  AND e.status = 'COMPLETED' AND e.letter_grade IS NOT NULL AND e.letter_grade <> ALL($3)
	`

	rows, err := r.db.Query(ctx, query, tenantID, studentID, models.FailingLetters)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	completed := make(map[int64]bool)
	for rows.Next() {
		var courseID int64
		if err := rows.Scan(&courseID); err != nil {
			return nil, err
		}
		completed[courseID] = true
	}
	return completed, rows.Err()
}
