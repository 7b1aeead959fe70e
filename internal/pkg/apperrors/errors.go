package apperrors

import "errors"

// Common errors
var (
	// Resource errors
	ErrResourceNotFound      = errors.New("resource not found")
	ErrResourceAlreadyExists = errors.New("resource already exists")
	ErrConflict              = errors.New("conflict")

	// Authentication errors
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("invalid token")
	ErrTokenNotFound      = errors.New("token not found")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrAccountDisabled    = errors.New("account is disabled")

	// Authorization errors
	ErrPermissionDenied = errors.New("permission denied")

	// Validation errors
	ErrValidationFailed = errors.New("validation failed")
	ErrBadRequest       = errors.New("bad request")

	// User errors
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
)

// Tenancy errors
var (
	ErrTenantNotFound = errors.New("tenant not found")
	ErrTenantDisabled = errors.New("tenant is disabled")
)

// Admissions errors
var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidTransition   = errors.New("invalid application status transition")
)

// Academic errors
var (
	ErrStudentNotFound          = errors.New("student not found")
	ErrStudentNumberExists      = errors.New("student number already exists")
	ErrCourseNotFound           = errors.New("course not found")
	ErrSectionNotFound          = errors.New("section not found")
	ErrSectionFull              = errors.New("section capacity reached")
	ErrAlreadyEnrolled          = errors.New("student already enrolled in section")
	ErrEnrollmentNotFound       = errors.New("enrollment not found")
	ErrRegistrationClosed       = errors.New("no open registration period")
	ErrPrerequisiteNotMet       = errors.New("course prerequisite not met")
	ErrSemesterNotFound         = errors.New("semester not found")
	ErrNoCurrentAcademicYear    = errors.New("no current academic year")
	ErrComponentWeightsInvalid  = errors.New("grade component weights must total 100")
	ErrScoreExceedsMax          = errors.New("score exceeds component maximum")
	ErrGradesIncomplete         = errors.New("grade entries incomplete for section")
	ErrDepartmentNotFound       = errors.New("department not found")
	ErrDepartmentAlreadyExists  = errors.New("department with this code already exists")
	ErrAcademicYearNotFound     = errors.New("academic year not found")
	ErrAcademicYearOverlap      = errors.New("academic year dates overlap an existing year")
	ErrSemesterOutsideYear      = errors.New("semester dates fall outside the academic year")
	ErrRegistrationPeriodInvert = errors.New("registration period start must precede end")
)

// Scheduling errors
var (
	ErrRoomNotFound        = errors.New("room not found")
	ErrRoomConflict        = errors.New("room is occupied in that interval")
	ErrInstructorConflict  = errors.New("instructor is scheduled in that interval")
	ErrSectionSlotConflict = errors.New("section already meets in that interval")
	ErrInvalidTimeInterval = errors.New("invalid time interval")
	ErrRoomTooSmall        = errors.New("room capacity below section capacity")
)

// Finance errors
var (
	ErrInvoiceNotFound      = errors.New("invoice not found")
	ErrInvoiceNotPayable    = errors.New("invoice cannot accept payments")
	ErrPaymentNotFound      = errors.New("payment not found")
	ErrPaymentAlreadyVoided = errors.New("payment already voided")
	ErrOverpayment          = errors.New("payment exceeds outstanding balance")
	ErrFeeScheduleNotFound  = errors.New("fee schedule not found")
	ErrPayrollRunExists     = errors.New("payroll run already exists for that month")
	ErrPayrollRunNotFound   = errors.New("payroll run not found")
	ErrPayrollRunFinalized  = errors.New("payroll run already finalized")
)

// Library errors
var (
	ErrBookNotFound     = errors.New("book not found")
	ErrNoCopiesLeft     = errors.New("no copies available")
	ErrLoanNotFound     = errors.New("loan not found")
	ErrLoanReturned     = errors.New("loan already returned")
	ErrMemberHasOverdue = errors.New("member has an overdue loan")
)

// HR errors
var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrLeaveBalanceExceeded = errors.New("insufficient leave balance")
	ErrLeaveOverlap         = errors.New("overlapping approved leave")
	ErrLeaveNotPending      = errors.New("leave request is not pending")
)

// CustomError represents application-specific errors with additional context
type CustomError struct {
	Err     error
	Message string
	Code    string
	Details map[string]interface{}
}

// Error implements error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}

// NewCustomError creates a CustomError with an underlying sentinel
func NewCustomError(err error, message string) *CustomError {
	return &CustomError{
		Err:     err,
		Message: message,
	}
}

// WithDetails adds context details to the error
func (e *CustomError) WithDetails(details map[string]interface{}) *CustomError {
	e.Details = details
	return e
}

// WithCode adds an error code
func (e *CustomError) WithCode(code string) *CustomError {
	e.Code = code
	return e
}

// NewNotFoundError creates a resource-not-found error with a message
func NewNotFoundError(message string) error {
	return &CustomError{Err: ErrResourceNotFound, Message: message}
}

// NewConflictError creates a conflict error with a message
func NewConflictError(message string) error {
	return &CustomError{Err: ErrConflict, Message: message}
}

// NewForbiddenError creates a permission-denied error with a message
func NewForbiddenError(message string) error {
	return &CustomError{Err: ErrPermissionDenied, Message: message}
}

// NewBadRequestError creates a bad-request error with a message
func NewBadRequestError(message string) error {
	return &CustomError{Err: ErrBadRequest, Message: message}
}
