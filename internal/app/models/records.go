package models

import "time"

// StudentStanding is the student's academic standing.
type StudentStanding string

const (
	StandingEnrolled  StudentStanding = "ENROLLED"
	StandingOnLeave   StudentStanding = "ON_LEAVE"
	StandingGraduated StudentStanding = "GRADUATED"
	StandingWithdrawn StudentStanding = "WITHDRAWN"
)

// Student defines the student model based on the 'students' table
type Student struct {
	ID             int64           `json:"id" db:"id"`
	TenantID       int64           `json:"tenantId" db:"tenant_id"`
	UserID         int64           `json:"userId" db:"user_id"`
	StudentNumber  string          `json:"studentNumber" db:"student_number"`
	DepartmentID   int64           `json:"departmentId" db:"department_id"`
	EnrollmentYear int             `json:"enrollmentYear" db:"enrollment_year"`
	Standing       StudentStanding `json:"standing" db:"standing"`
	User           *User           `json:"user,omitempty"`       // relation, no db tag
	Department     *Department     `json:"department,omitempty"` // relation, no db tag
}

// Course is a catalogue entry.
type Course struct {
	ID            int64       `json:"id" db:"id"`
	TenantID      int64       `json:"tenantId" db:"tenant_id"`
	DepartmentID  int64       `json:"departmentId" db:"department_id"`
	Code          string      `json:"code" db:"code"`
	Title         string      `json:"title" db:"title"`
	Credits       int         `json:"credits" db:"credits"`
	Prerequisites []int64     `json:"prerequisites,omitempty"` // course ids, stored in course_prerequisites
	Department    *Department `json:"department,omitempty"`    // relation, no db tag
}

// Section is a course offering in a semester.
type Section struct {
	ID           int64   `json:"id" db:"id"`
	TenantID     int64   `json:"tenantId" db:"tenant_id"`
	CourseID     int64   `json:"courseId" db:"course_id"`
	SemesterID   int64   `json:"semesterId" db:"semester_id"`
	InstructorID int64   `json:"instructorId" db:"instructor_id"` // user id with INSTRUCTOR role
	Number       int     `json:"number" db:"number"`              // section 1, 2, ...
	Capacity     int     `json:"capacity" db:"capacity"`
	Course       *Course `json:"course,omitempty"` // relation, no db tag
	Enrolled     int     `json:"enrolled"`         // computed, no db tag
}

// EnrollmentStatus tracks a student's registration in a section.
type EnrollmentStatus string

const (
	EnrollmentEnrolled  EnrollmentStatus = "ENROLLED"
	EnrollmentDropped   EnrollmentStatus = "DROPPED"
	EnrollmentCompleted EnrollmentStatus = "COMPLETED"
)

// FailingLetters are the letter grades below DD. A completed enrollment with
// one of these does not satisfy a prerequisite.
var FailingLetters = []string{"FD", "FF"}

// Enrollment is a student's registration record in a section.
type Enrollment struct {
	ID          int64            `json:"id" db:"id"`
	TenantID    int64            `json:"tenantId" db:"tenant_id"`
	StudentID   int64            `json:"studentId" db:"student_id"`
	SectionID   int64            `json:"sectionId" db:"section_id"`
	Status      EnrollmentStatus `json:"status" db:"status"`
	FinalScore  *float64         `json:"finalScore,omitempty" db:"final_score"`
	LetterGrade *string          `json:"letterGrade,omitempty" db:"letter_grade"`
	GradePoints *float64         `json:"gradePoints,omitempty" db:"grade_points"`
	EnrolledAt  time.Time        `json:"enrolledAt" db:"enrolled_at"`
	Section     *Section         `json:"section,omitempty"` // relation, no db tag
	Student     *Student         `json:"student,omitempty"` // relation, no db tag
}

// GradeComponent is a weighted assessment item of a section.
type GradeComponent struct {
	ID        int64   `json:"id" db:"id"`
	TenantID  int64   `json:"tenantId" db:"tenant_id"`
	SectionID int64   `json:"sectionId" db:"section_id"`
	Name      string  `json:"name" db:"name"` // e.g. "Midterm", "Quiz 1"
	Weight    float64 `json:"weight" db:"weight"` // percent, section weights total 100
	MaxScore  float64 `json:"maxScore" db:"max_score"`
}

// GradeEntry is one student's score for a component.
type GradeEntry struct {
	ID           int64     `json:"id" db:"id"`
	TenantID     int64     `json:"tenantId" db:"tenant_id"`
	ComponentID  int64     `json:"componentId" db:"component_id"`
	EnrollmentID int64     `json:"enrollmentId" db:"enrollment_id"`
	Score        float64   `json:"score" db:"score"`
	GradedBy     int64     `json:"gradedBy" db:"graded_by"`
	GradedAt     time.Time `json:"gradedAt" db:"graded_at"`
}

// TranscriptLine is one course result on a transcript.
type TranscriptLine struct {
	CourseCode  string  `json:"courseCode"`
	CourseTitle string  `json:"courseTitle"`
	Credits     int     `json:"credits"`
	LetterGrade string  `json:"letterGrade"`
	GradePoints float64 `json:"gradePoints"`
}

// TranscriptSemester groups transcript lines for one semester.
type TranscriptSemester struct {
	SemesterID   int64            `json:"semesterId"`
	AcademicYear string           `json:"academicYear"`
	Term         Term             `json:"term"`
	Lines        []TranscriptLine `json:"lines"`
	GPA          float64          `json:"gpa"`
	Credits      int              `json:"credits"`
}

// Transcript is the full academic record of a student.
type Transcript struct {
	StudentID     int64                `json:"studentId"`
	StudentNumber string               `json:"studentNumber"`
	Semesters     []TranscriptSemester `json:"semesters"`
	CumulativeGPA float64              `json:"cumulativeGpa"`
	TotalCredits  int                  `json:"totalCredits"`
}
