package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/activitylog"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/attendance"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/employee"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/department"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/master/position"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/request"
	"github.com/cmlabs-hris/hrm-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/hrm-backend-go/internal/pkg/validator"
	"github.com/cmlabs-hris/hrm-backend-go/internal/repository"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrTokenRevoked):
		Unauthorized(w, "Token revoked")
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, auth.ErrEmailExists):
		ConflictWithCode(w, "EMAIL_EXISTS", "Email already registered")
	case errors.Is(err, auth.ErrUsernameExists):
		ConflictWithCode(w, "USERNAME_EXISTS", "Username already taken")

	// User domain errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrAdminPrivilegeRequired):
		Forbidden(w, "Admin privilege required")
	case errors.Is(err, user.ErrInsufficientPermissions):
		Forbidden(w, "Insufficient permissions")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmailExists):
		ConflictWithCode(w, "EMAIL_EXISTS", "Email already registered")
	case errors.Is(err, employee.ErrDepartmentNotFound):
		BadRequestWithCode(w, "UNKNOWN_DEPARTMENT", "Department does not exist")
	case errors.Is(err, employee.ErrPositionNotFound):
		BadRequestWithCode(w, "UNKNOWN_POSITION", "Position does not exist")

	// Master data errors
	case errors.Is(err, department.ErrDepartmentNotFound):
		NotFound(w, "Department not found")
	case errors.Is(err, department.ErrDepartmentNameExists):
		ConflictWithCode(w, "DUPLICATE_NAME", "Department with this name already exists")
	case errors.Is(err, department.ErrDepartmentInUse):
		ConflictWithCode(w, "IN_USE", "Department is still assigned to employees")
	case errors.Is(err, position.ErrPositionNotFound):
		NotFound(w, "Position not found")
	case errors.Is(err, position.ErrPositionNameExists):
		ConflictWithCode(w, "DUPLICATE_NAME", "Position with this name already exists")
	case errors.Is(err, position.ErrPositionInUse):
		ConflictWithCode(w, "IN_USE", "Position is still assigned to employees")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrNotToday):
		BadRequestWithCode(w, "NOT_TODAY", err.Error())
	case errors.Is(err, attendance.ErrInvalidDate):
		BadRequestWithCode(w, "INVALID_DATE", err.Error())
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		ConflictWithCode(w, "ALREADY_CHECKED_IN", err.Error())
	case errors.Is(err, attendance.ErrNotCheckedIn):
		ConflictWithCode(w, "NOT_CHECKED_IN", err.Error())
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		ConflictWithCode(w, "ALREADY_CHECKED_OUT", err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")

	// Request domain errors
	case errors.Is(err, request.ErrRequestNotFound):
		NotFound(w, "Request not found")
	case errors.Is(err, request.ErrForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, request.ErrRequestAlreadyProcessed):
		ConflictWithCode(w, "ALREADY_PROCESSED", "Request already processed")

	// Activity log errors
	case errors.Is(err, activitylog.ErrEmptyActivityType):
		BadRequest(w, err.Error(), nil)

	// Record store errors
	case errors.Is(err, repository.ErrConflict):
		ConflictWithCode(w, "CONFLICT_RETRY", "The record was changed by someone else, reload and try again")
	case errors.Is(err, repository.ErrUnavailable):
		ServiceUnavailable(w, "Record store is temporarily unavailable")
	case errors.Is(err, repository.ErrNotFound):
		NotFound(w, "Record not found")

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
