package dto

// Tenancy

// CreateTenantRequest registers a new campus.
type CreateTenantRequest struct {
	Name string `json:"name" binding:"required,min=2,max=120"`
	Code string `json:"code" binding:"required,shortcode"`
}

// Admissions

// CreateApplicationRequest submits an admissions application.
type CreateApplicationRequest struct {
	FirstName      string  `json:"firstName" binding:"required,min=2,max=100"`
	LastName       string  `json:"lastName" binding:"required,min=2,max=100"`
	Email          string  `json:"email" binding:"required,email"`
	Phone          *string `json:"phone,omitempty" binding:"omitempty,phone"`
	DepartmentID   int64   `json:"departmentId" binding:"required,gt=0"`
	AcademicYearID int64   `json:"academicYearId" binding:"required,gt=0"`
}

// ApplicationDecisionRequest moves an application through its state machine.
type ApplicationDecisionRequest struct {
	Status string  `json:"status" binding:"required,oneof=UNDER_REVIEW ACCEPTED REJECTED WAITLISTED"`
	Notes  *string `json:"notes,omitempty"`
}

// Academic structure

// CreateAcademicYearRequest defines a new academic year.
type CreateAcademicYearRequest struct {
	Code      string `json:"code" binding:"required,academicyear"`
	StartDate string `json:"startDate" binding:"required"` // 2006-01-02
	EndDate   string `json:"endDate" binding:"required"`
	IsCurrent bool   `json:"isCurrent"`
}

// CreateSemesterRequest adds a semester to an academic year.
type CreateSemesterRequest struct {
	AcademicYearID int64  `json:"academicYearId" binding:"required,gt=0"`
	Term           string `json:"term" binding:"required,oneof=FALL SPRING SUMMER"`
	StartDate      string `json:"startDate" binding:"required"`
	EndDate        string `json:"endDate" binding:"required"`
}

// CreateRegistrationPeriodRequest opens an enrollment window.
type CreateRegistrationPeriodRequest struct {
	SemesterID int64  `json:"semesterId" binding:"required,gt=0"`
	Kind       string `json:"kind" binding:"required,oneof=REGULAR LATE DROP_ADD"`
	StartsAt   string `json:"startsAt" binding:"required"` // RFC 3339
	EndsAt     string `json:"endsAt" binding:"required"`
}

// CreateDepartmentRequest registers a department.
type CreateDepartmentRequest struct {
	Code string `json:"code" binding:"required,shortcode"`
	Name string `json:"name" binding:"required,min=2,max=150"`
}

// UpdateStandingRequest changes a student's academic standing.
type UpdateStandingRequest struct {
	Standing string `json:"standing" binding:"required,oneof=ENROLLED ON_LEAVE GRADUATED WITHDRAWN"`
}

// ListStudentsQuery filters the student list.
type ListStudentsQuery struct {
	DepartmentID  int64  `form:"departmentId" binding:"omitempty,gt=0"`
	Standing      string `form:"standing" binding:"omitempty,oneof=ENROLLED ON_LEAVE GRADUATED WITHDRAWN"`
	StudentNumber string `form:"studentNumber" binding:"omitempty,studentnumber"`
}

// SetTenantActiveRequest enables or disables a campus.
type SetTenantActiveRequest struct {
	Active bool `json:"active"`
}

// Records

// CreateCourseRequest adds a catalogue entry.
type CreateCourseRequest struct {
	DepartmentID  int64   `json:"departmentId" binding:"required,gt=0"`
	Code          string  `json:"code" binding:"required,shortcode"`
	Title         string  `json:"title" binding:"required,min=2,max=200"`
	Credits       int     `json:"credits" binding:"required,gt=0,lte=30"`
	Prerequisites []int64 `json:"prerequisites,omitempty"`
}

// CreateSectionRequest opens a course offering for a semester.
type CreateSectionRequest struct {
	CourseID     int64 `json:"courseId" binding:"required,gt=0"`
	SemesterID   int64 `json:"semesterId" binding:"required,gt=0"`
	InstructorID int64 `json:"instructorId" binding:"required,gt=0"`
	Number       int   `json:"number" binding:"required,gt=0"`
	Capacity     int   `json:"capacity" binding:"required,gt=0"`
}

// EnrollRequest registers a student into a section.
type EnrollRequest struct {
	StudentID int64 `json:"studentId" binding:"required,gt=0"`
	SectionID int64 `json:"sectionId" binding:"required,gt=0"`
}

// Grades

// CreateGradeComponentRequest adds a weighted assessment to a section.
type CreateGradeComponentRequest struct {
	Name     string  `json:"name" binding:"required,min=2,max=100"`
	Weight   float64 `json:"weight" binding:"required,gt=0,lte=100"`
	MaxScore float64 `json:"maxScore" binding:"required,gt=0"`
}

// RecordGradeRequest records one student's score for a component.
type RecordGradeRequest struct {
	EnrollmentID int64   `json:"enrollmentId" binding:"required,gt=0"`
	Score        float64 `json:"score" binding:"gte=0"`
}

// Scheduling

// CreateRoomRequest registers a room.
type CreateRoomRequest struct {
	Code     string `json:"code" binding:"required,shortcode"`
	Building string `json:"building" binding:"required,min=1,max=100"`
	Capacity int    `json:"capacity" binding:"required,gt=0"`
	Kind     string `json:"kind" binding:"required,oneof=CLASSROOM LAB AUDITORIUM"`
}

// CreateScheduleSlotRequest books a weekly meeting for a section.
type CreateScheduleSlotRequest struct {
	SectionID   int64 `json:"sectionId" binding:"required,gt=0"`
	RoomID      int64 `json:"roomId" binding:"required,gt=0"`
	DayOfWeek   int   `json:"dayOfWeek" binding:"required,gte=1,lte=7"`
	StartMinute int   `json:"startMinute" binding:"gte=0,lt=1440"`
	EndMinute   int   `json:"endMinute" binding:"required,gt=0,lte=1440"`
}

// Attendance

// AttendanceEntry is one enrollment's status in a bulk submission.
type AttendanceEntry struct {
	EnrollmentID int64  `json:"enrollmentId" binding:"required,gt=0"`
	Status       string `json:"status" binding:"required,oneof=PRESENT ABSENT LATE EXCUSED"`
}

// BulkAttendanceRequest records attendance for one section meeting.
type BulkAttendanceRequest struct {
	Date    string            `json:"date" binding:"required"` // 2006-01-02
	Entries []AttendanceEntry `json:"entries" binding:"required,min=1,dive"`
}

// Finance

// CreateFeeScheduleRequest sets tuition for a (year, department) pair.
type CreateFeeScheduleRequest struct {
	AcademicYearID int64  `json:"academicYearId" binding:"required,gt=0"`
	DepartmentID   int64  `json:"departmentId" binding:"required,gt=0"`
	TuitionAmount  string `json:"tuitionAmount" binding:"required"` // decimal string
}

// CreateInvoiceRequest issues a tuition invoice.
type CreateInvoiceRequest struct {
	StudentID  int64  `json:"studentId" binding:"required,gt=0"`
	SemesterID int64  `json:"semesterId" binding:"required,gt=0"`
	Amount     string `json:"amount,omitempty"` // decimal; defaults to the fee schedule
	DueDate    string `json:"dueDate" binding:"required"`
}

// RecordPaymentRequest settles part of an invoice.
type RecordPaymentRequest struct {
	Amount string `json:"amount" binding:"required"`
	Method string `json:"method" binding:"required,oneof=CASH BANK_TRANSFER CARD"`
}

// VoidPaymentRequest voids a payment with a reason.
type VoidPaymentRequest struct {
	Reason string `json:"reason" binding:"required,min=3,max=500"`
}

// CreatePayrollRunRequest starts a payroll run for a month.
type CreatePayrollRunRequest struct {
	Year  int `json:"year" binding:"required,gte=2000,lte=2100"`
	Month int `json:"month" binding:"required,gte=1,lte=12"`
}

// Notifications

// UpdatePreferenceRequest sets channel flags for one category.
type UpdatePreferenceRequest struct {
	Category string `json:"category" binding:"required,oneof=ENROLLMENT GRADES BILLING LIBRARY ATTENDANCE"`
	Email    bool   `json:"email"`
	SMS      bool   `json:"sms"`
}

// Library

// CreateBookRequest adds a catalogue entry.
type CreateBookRequest struct {
	ISBN        string `json:"isbn" binding:"required,min=10,max=17"`
	Title       string `json:"title" binding:"required,min=1,max=250"`
	Author      string `json:"author" binding:"required,min=1,max=150"`
	TotalCopies int    `json:"totalCopies" binding:"required,gt=0"`
}

// BorrowRequest loans a book to a member.
type BorrowRequest struct {
	BookID   int64 `json:"bookId" binding:"required,gt=0"`
	MemberID int64 `json:"memberId" binding:"required,gt=0"`
}

// HR

// CreateEmployeeRequest registers a staff member.
type CreateEmployeeRequest struct {
	UserID        int64  `json:"userId" binding:"required,gt=0"`
	StaffNumber   string `json:"staffNumber" binding:"required,min=3,max=20"`
	Position      string `json:"position" binding:"required,min=2,max=100"`
	HireDate      string `json:"hireDate" binding:"required"`
	MonthlySalary string `json:"monthlySalary" binding:"required"` // decimal string
}

// CreateLeaveTypeRequest defines a leave type.
type CreateLeaveTypeRequest struct {
	Code            string `json:"code" binding:"required,shortcode"`
	Name            string `json:"name" binding:"required,min=2,max=100"`
	EntitlementDays int    `json:"entitlementDays" binding:"gte=0,lte=365"`
	Paid            bool   `json:"paid"`
}

// CreateLeaveRequest files a leave request.
type CreateLeaveRequest struct {
	LeaveTypeID int64   `json:"leaveTypeId" binding:"required,gt=0"`
	StartDate   string  `json:"startDate" binding:"required"`
	EndDate     string  `json:"endDate" binding:"required"`
	Reason      *string `json:"reason,omitempty"`
}

// LeaveDecisionRequest approves or rejects a pending request.
type LeaveDecisionRequest struct {
	Approve bool `json:"approve"`
}
