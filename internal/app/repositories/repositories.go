package repositories

import "github.com/jackc/pgx/v5/pgxpool"

// Repositories bundles all repository instances for dependency injection
type Repositories struct {
	Tenant       *TenantRepository
	User         *UserRepository
	Token        *TokenRepository
	Application  *ApplicationRepository
	Academic     *AcademicRepository
	Student      *StudentRepository
	Course       *CourseRepository
	Grade        *GradeRepository
	Schedule     *ScheduleRepository
	Attendance   *AttendanceRepository
	Finance      *FinanceRepository
	Payroll      *PayrollRepository
	Notification *NotificationRepository
	Library      *LibraryRepository
	HR           *HRRepository
}

// NewRepositories creates all repositories over one connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Tenant:       NewTenantRepository(db),
		User:         NewUserRepository(db),
		Token:        NewTokenRepository(db),
		Application:  NewApplicationRepository(db),
		Academic:     NewAcademicRepository(db),
		Student:      NewStudentRepository(db),
		Course:       NewCourseRepository(db),
		Grade:        NewGradeRepository(db),
		Schedule:     NewScheduleRepository(db),
		Attendance:   NewAttendanceRepository(db),
		Finance:      NewFinanceRepository(db),
		Payroll:      NewPayrollRepository(db),
		Notification: NewNotificationRepository(db),
		Library:      NewLibraryRepository(db),
		HR:           NewHRRepository(db),
	}
}
