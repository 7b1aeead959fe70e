package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/campora/campora/internal/app/models/dto"
	"github.com/campora/campora/internal/pkg/apperrors"
	"github.com/campora/campora/internal/pkg/logger"
)

// sentinelMapping binds one application error to its HTTP response.
type sentinelMapping struct {
	sentinel error
	status   int
	code     dto.ErrorCode
	message  string
}

// mappings is consulted in order; the first match wins.
var mappings = []sentinelMapping{
	// authentication
	{apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials, "Invalid credentials"},
	{apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken, "Token expired"},
	{apperrors.ErrTokenInvalid, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Invalid token"},
	{apperrors.ErrTokenNotFound, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound, "Token not found"},
	{apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken, "Token revoked"},
	{apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Account is disabled"},
	{apperrors.ErrTenantDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled, "Campus is disabled"},
	{apperrors.ErrPermissionDenied, http.StatusForbidden, dto.ErrorCodeForbidden, "Permission denied"},

	// business rules
	{apperrors.ErrRegistrationClosed, http.StatusConflict, dto.ErrorCodeRegistrationClosed, "No open registration period"},
	{apperrors.ErrSectionFull, http.StatusConflict, dto.ErrorCodeCapacityReached, "Section capacity reached"},
	{apperrors.ErrPrerequisiteNotMet, http.StatusConflict, dto.ErrorCodeValidationFailed, "Course prerequisite not met"},
	{apperrors.ErrRoomConflict, http.StatusConflict, dto.ErrorCodeScheduleConflict, "Room is occupied in that interval"},
	{apperrors.ErrInstructorConflict, http.StatusConflict, dto.ErrorCodeScheduleConflict, "Instructor is scheduled in that interval"},
	{apperrors.ErrSectionSlotConflict, http.StatusConflict, dto.ErrorCodeScheduleConflict, "Section already meets in that interval"},
	{apperrors.ErrRoomTooSmall, http.StatusConflict, dto.ErrorCodeScheduleConflict, "Room capacity below section capacity"},
	{apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeResourceConflict, "Invalid application status transition"},
	{apperrors.ErrAcademicYearOverlap, http.StatusConflict, dto.ErrorCodeResourceConflict, "Academic year dates overlap an existing year"},
	{apperrors.ErrComponentWeightsInvalid, http.StatusConflict, dto.ErrorCodeValidationFailed, "Grade component weights must total 100"},
	{apperrors.ErrGradesIncomplete, http.StatusConflict, dto.ErrorCodeResourceConflict, "Grade entries incomplete for section"},
	{apperrors.ErrScoreExceedsMax, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Score exceeds component maximum"},
	{apperrors.ErrInvoiceNotPayable, http.StatusConflict, dto.ErrorCodeResourceConflict, "Invoice cannot accept payments"},
	{apperrors.ErrOverpayment, http.StatusConflict, dto.ErrorCodeInsufficientFunds, "Payment exceeds outstanding balance"},
	{apperrors.ErrPaymentAlreadyVoided, http.StatusConflict, dto.ErrorCodeResourceConflict, "Payment already voided"},
	{apperrors.ErrPayrollRunFinalized, http.StatusConflict, dto.ErrorCodeResourceConflict, "Payroll run already finalized"},
	{apperrors.ErrNoCopiesLeft, http.StatusConflict, dto.ErrorCodeResourceConflict, "No copies available"},
	{apperrors.ErrLoanReturned, http.StatusConflict, dto.ErrorCodeResourceConflict, "Loan already returned"},
	{apperrors.ErrMemberHasOverdue, http.StatusConflict, dto.ErrorCodeResourceConflict, "Member has an overdue loan"},
	{apperrors.ErrLeaveBalanceExceeded, http.StatusConflict, dto.ErrorCodeBalanceExceeded, "Insufficient leave balance"},
	{apperrors.ErrLeaveOverlap, http.StatusConflict, dto.ErrorCodeResourceConflict, "Overlapping leave request"},
	{apperrors.ErrLeaveNotPending, http.StatusConflict, dto.ErrorCodeResourceConflict, "Leave request is not pending"},

	// duplicates
	{apperrors.ErrEmailAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Email already exists"},
	{apperrors.ErrStudentNumberExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Student number already exists"},
	{apperrors.ErrAlreadyEnrolled, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Student already enrolled in section"},
	{apperrors.ErrDepartmentAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Department with this code already exists"},
	{apperrors.ErrPayrollRunExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Payroll run already exists for that month"},
	{apperrors.ErrResourceAlreadyExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists, "Resource already exists"},
	{apperrors.ErrConflict, http.StatusConflict, dto.ErrorCodeResourceConflict, "Conflict"},

	// not found
	{apperrors.ErrUserNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "User not found"},
	{apperrors.ErrTenantNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Campus not found"},
	{apperrors.ErrApplicationNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Application not found"},
	{apperrors.ErrStudentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Student not found"},
	{apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Course not found"},
	{apperrors.ErrSectionNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Section not found"},
	{apperrors.ErrEnrollmentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Enrollment not found"},
	{apperrors.ErrSemesterNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Semester not found"},
	{apperrors.ErrNoCurrentAcademicYear, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "No current academic year"},
	{apperrors.ErrAcademicYearNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Academic year not found"},
	{apperrors.ErrDepartmentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Department not found"},
	{apperrors.ErrRoomNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Room not found"},
	{apperrors.ErrInvoiceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Invoice not found"},
	{apperrors.ErrPaymentNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Payment not found"},
	{apperrors.ErrFeeScheduleNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Fee schedule not found"},
	{apperrors.ErrPayrollRunNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Payroll run not found"},
	{apperrors.ErrBookNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Book not found"},
	{apperrors.ErrLoanNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Loan not found"},
	{apperrors.ErrEmployeeNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Employee not found"},
	{apperrors.ErrLeaveTypeNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Leave type not found"},
	{apperrors.ErrLeaveRequestNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Leave request not found"},
	{apperrors.ErrResourceNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound, "Resource not found"},

	// validation
	{apperrors.ErrValidationFailed, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Validation failed"},
	{apperrors.ErrInvalidTimeInterval, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Invalid time interval"},
	{apperrors.ErrSemesterOutsideYear, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Semester dates fall outside the academic year"},
	{apperrors.ErrRegistrationPeriodInvert, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Registration period start must precede end"},
	{apperrors.ErrBadRequest, http.StatusBadRequest, dto.ErrorCodeValidationFailed, "Bad request"},
}

// HandleAPIError maps an application error to its HTTP response
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range mappings {
		if errors.Is(err, m.sentinel) {
			message := m.message
			var custom *apperrors.CustomError
			if errors.As(err, &custom) && custom.Message != "" {
				message = custom.Message
			}
			c.JSON(m.status, dto.NewErrorResponse(dto.NewErrorDetail(m.code, message)))
			return
		}
	}

	logger.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
}
