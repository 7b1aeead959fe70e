package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/campora/campora/internal/app/models"
	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/app/repositories"
	"github.com/campora/campora/internal/cache"
	"github.com/campora/campora/internal/db"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/logger"
)

// GradeService manages grade components, score entry, final grade computation
// and transcripts.
type GradeService struct {
	pool          *pgxpool.Pool
	gradeRepo     *repositories.GradeRepository
	courseRepo    *repositories.CourseRepository
	studentRepo   *repositories.StudentRepository
	notifications *NotificationService
	cache         cache.Store
}

// NewGradeService creates a new grade service
func NewGradeService(
	pool *pgxpool.Pool,
	gradeRepo *repositories.GradeRepository,
	courseRepo *repositories.CourseRepository,
	studentRepo *repositories.StudentRepository,
	notifications *NotificationService,
	store cache.Store,
) *GradeService {
	return &GradeService{
		pool:          pool,
		gradeRepo:     gradeRepo,
		courseRepo:    courseRepo,
		studentRepo:   studentRepo,
		notifications: notifications,
		cache:         store,
	}
}

// AddComponent adds a weighted assessment to a section. The new weight may not
// push the section total past 100.
func (s *GradeService) AddComponent(ctx context.Context, tenantID, sectionID int64, req *dto.CreateGradeComponentRequest) (*models.GradeComponent, error) {
	if _, err := s.courseRepo.GetSectionByID(ctx, tenantID, sectionID); err != nil {
		return nil, err
	}

	total, err := s.gradeRepo.SumWeights(ctx, tenantID, sectionID)
	if err != nil {
		return nil, err
	}
	if total+req.Weight > 100+weightTolerance {
		return nil, apperrors.NewCustomError(apperrors.ErrComponentWeightsInvalid,
			fmt.Sprintf("component weights would total %.1f", total+req.Weight))
	}

	component := &models.GradeComponent{
		TenantID:  tenantID,
		SectionID: sectionID,
		Name:      req.Name,
		Weight:    req.Weight,
		MaxScore:  req.MaxScore,
	}
	if err := s.gradeRepo.CreateComponent(ctx, component); err != nil {
		return nil, err
	}
	return component, nil
}

// ListComponents retrieves a section's components
func (s *GradeService) ListComponents(ctx context.Context, tenantID, sectionID int64) ([]*models.GradeComponent, error) {
	return s.gradeRepo.ListComponents(ctx, tenantID, sectionID)
}

// RecordGrade records one student's score for a component. Only the section's
// instructor may grade.
func (s *GradeService) RecordGrade(ctx context.Context, tenantID, componentID int64, req *dto.RecordGradeRequest, gradedBy int64) (*models.GradeEntry, error) {
	component, err := s.gradeRepo.GetComponentByID(ctx, tenantID, componentID)
	if err != nil {
		return nil, err
	}
	if req.Score > component.MaxScore {
		return nil, apperrors.ErrScoreExceedsMax
	}

	section, err := s.courseRepo.GetSectionByID(ctx, tenantID, component.SectionID)
	if err != nil {
		return nil, err
	}
	if section.InstructorID != gradedBy {
		return nil, apperrors.NewForbiddenError("only the section instructor can record grades")
	}

	enrollment, err := s.courseRepo.GetEnrollmentByID(ctx, tenantID, req.EnrollmentID)
	if err != nil {
		return nil, err
	}
	if enrollment.SectionID != component.SectionID {
		return nil, apperrors.NewBadRequestError("enrollment does not belong to the component's section")
	}
	if enrollment.Status != models.EnrollmentEnrolled {
		return nil, apperrors.NewConflictError("enrollment is not active")
	}

	entry := &models.GradeEntry{
		TenantID:     tenantID,
		ComponentID:  componentID,
		EnrollmentID: req.EnrollmentID,
		Score:        req.Score,
		GradedBy:     gradedBy,
	}
	if err := s.gradeRepo.UpsertEntry(ctx, entry); err != nil {
		return nil, err
	}

	s.forgetTranscript(ctx, tenantID, enrollment.StudentID)
	return entry, nil
}

// FinalizeSection computes and stores the final grade for every active
// enrollment of a section. Weights must total 100 and every enrollment must
// have a score for every component.
func (s *GradeService) FinalizeSection(ctx context.Context, tenantID, sectionID, requestedBy int64) error {
	section, err := s.courseRepo.GetSectionByID(ctx, tenantID, sectionID)
	if err != nil {
		return err
	}
	if section.InstructorID != requestedBy {
		return apperrors.NewForbiddenError("only the section instructor can finalize grades")
	}

	components, err := s.gradeRepo.ListComponents(ctx, tenantID, sectionID)
	if err != nil {
		return err
	}
	if !WeightsComplete(components) {
		return apperrors.ErrComponentWeightsInvalid
	}

	enrollments, err := s.courseRepo.ListSectionEnrollments(ctx, tenantID, sectionID)
	if err != nil {
		return err
	}

	type result struct {
		enrollment *models.Enrollment
		score      float64
		letter     string
		points     float64
	}
	var results []result
	for _, enrollment := range enrollments {
		if enrollment.Status != models.EnrollmentEnrolled {
			continue
		}
		entries, err := s.gradeRepo.ListEntriesForEnrollment(ctx, tenantID, enrollment.ID)
		if err != nil {
			return err
		}
		if len(entries) < len(components) {
			return apperrors.NewCustomError(apperrors.ErrGradesIncomplete,
				fmt.Sprintf("enrollment %d is missing grade entries", enrollment.ID))
		}
		score := FinalScore(components, entries)
		letter := LetterFor(score)
		results = append(results, result{
			enrollment: enrollment,
			score:      score,
			letter:     letter,
			points:     PointsFor(letter),
		})
	}

	err = db.WithTransaction(ctx, s.pool, func(ctx context.Context, tx pgx.Tx) error {
		for _, r := range results {
			if err := s.courseRepo.SetFinalGrade(ctx, tx, tenantID, r.enrollment.ID, r.score, r.letter, r.points); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	logger.Info().
		Int64("tenantId", tenantID).
		Int64("sectionId", sectionID).
		Int("graded", len(results)).
		Msg("Section grades finalized")

	for _, r := range results {
		s.forgetTranscript(ctx, tenantID, r.enrollment.StudentID)
		if r.enrollment.Student == nil || r.enrollment.Student.User == nil {
			continue
		}
		subject := "Final grade posted"
		body := fmt.Sprintf("Your final grade for %s is %s.", section.Course.Code, r.letter)
		if err := s.notifications.Dispatch(ctx, r.enrollment.Student.User, models.CategoryGrades, subject, body); err != nil {
			logger.Warn().Err(err).Int64("enrollmentId", r.enrollment.ID).Msg("Failed to send grade notification")
		}
	}

	return nil
}

// Transcript assembles a student's full academic record. Cached until the
// student's grades change.
func (s *GradeService) Transcript(ctx context.Context, tenantID, studentID int64) (*models.Transcript, error) {
	student, err := s.studentRepo.GetByID(ctx, tenantID, studentID)
	if err != nil {
		return nil, err
	}

	var transcript models.Transcript
	key := cache.Key(tenantID, "transcript", fmt.Sprint(studentID))
	err = s.cache.Remember(ctx, key, cache.ClassTranscript, &transcript, func() (interface{}, error) {
		semesters, err := s.gradeRepo.ListTranscriptRows(ctx, tenantID, studentID)
		if err != nil {
			return nil, err
		}
		for i := range semesters {
			semesters[i].GPA, semesters[i].Credits = SemesterGPA(semesters[i].Lines)
		}
		gpa, credits := CumulativeGPA(semesters)
		return &models.Transcript{
			StudentID:     studentID,
			StudentNumber: student.StudentNumber,
			Semesters:     semesters,
			CumulativeGPA: gpa,
			TotalCredits:  credits,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	return &transcript, nil
}

func (s *GradeService) forgetTranscript(ctx context.Context, tenantID, studentID int64) {
	_ = s.cache.Forget(ctx, cache.Key(tenantID, "transcript", fmt.Sprint(studentID)))
}
