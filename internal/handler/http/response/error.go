package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/anpk/attendance-backend-go/internal/domain/access"
	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
	"github.com/anpk/attendance-backend-go/internal/domain/auth"
	"github.com/anpk/attendance-backend-go/internal/domain/common"
	"github.com/anpk/attendance-backend-go/internal/domain/correction"
	"github.com/anpk/attendance-backend-go/internal/domain/employee"
	"github.com/anpk/attendance-backend-go/internal/domain/site"
	"github.com/anpk/attendance-backend-go/internal/pkg/validator"
)

// Machine-readable error codes
const (
	CodeAttendanceNotFound        = "ATTENDANCE_NOT_FOUND"
	CodeCorrectionRequestNotFound = "CORRECTION_REQUEST_NOT_FOUND"
	CodeEmployeeNotFound          = "EMPLOYEE_NOT_FOUND"
	CodeSiteNotFound              = "SITE_NOT_FOUND"
	CodeEndpointNotFound          = "ENDPOINT_NOT_FOUND"

	CodeAlreadyCheckedIn        = "ALREADY_CHECKED_IN"
	CodeNotCheckedIn            = "NOT_CHECKED_IN"
	CodeAlreadyCheckedOut       = "ALREADY_CHECKED_OUT"
	CodePendingRequestExists    = "PENDING_REQUEST_EXISTS"
	CodeInvalidStatusTransition = "INVALID_STATUS_TRANSITION"

	CodeEmployeeInactive = "EMPLOYEE_INACTIVE"
	CodeSiteInactive     = "SITE_INACTIVE"
	CodeForbidden        = "FORBIDDEN"

	CodeOutOfCorrectionWindow  = "OUT_OF_CORRECTION_WINDOW"
	CodeInvalidTimeOrder       = "INVALID_TIME_ORDER"
	CodeExceedsMaxWorkDuration = "EXCEEDS_MAX_WORK_DURATION"
	CodeInvalidRequestPayload  = "INVALID_REQUEST_PAYLOAD"
	CodeInvalidMonthFormat     = "INVALID_MONTH_FORMAT"

	CodeMissingRequiredParam = "MISSING_REQUIRED_PARAM"
	CodeInvalidRequestParam  = "INVALID_REQUEST_PARAM"

	CodeUnauthorized     = "UNAUTHORIZED"
	CodeMethodNotAllowed = "METHOD_NOT_ALLOWED"
	CodeInternalError    = "INTERNAL_ERROR"
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
	// Denials share one public answer; the reason only goes to the log.
	case errors.Is(err, access.ErrForbidden):
		slog.Warn("access denied", "reason", err.Error())
		Forbidden(w)

	// Auth
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, err.Error())

	// 403
	case errors.Is(err, employee.ErrEmployeeInactive):
		Error(w, http.StatusForbidden, CodeEmployeeInactive, err.Error(), nil)
	case errors.Is(err, site.ErrSiteInactive):
		Error(w, http.StatusForbidden, CodeSiteInactive, err.Error(), nil)

	// 404
	case errors.Is(err, attendance.ErrAttendanceNotFound), errors.Is(err, attendance.ErrPhotoNotFound):
		Error(w, http.StatusNotFound, CodeAttendanceNotFound, err.Error(), nil)
	case errors.Is(err, correction.ErrCorrectionRequestNotFound):
		Error(w, http.StatusNotFound, CodeCorrectionRequestNotFound, err.Error(), nil)
	case errors.Is(err, employee.ErrEmployeeNotFound):
		Error(w, http.StatusNotFound, CodeEmployeeNotFound, err.Error(), nil)
	case errors.Is(err, site.ErrSiteNotFound):
		Error(w, http.StatusNotFound, CodeSiteNotFound, err.Error(), nil)

	// 409
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Error(w, http.StatusConflict, CodeAlreadyCheckedIn, err.Error(), nil)
	case errors.Is(err, attendance.ErrNotCheckedIn):
		Error(w, http.StatusConflict, CodeNotCheckedIn, err.Error(), nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Error(w, http.StatusConflict, CodeAlreadyCheckedOut, err.Error(), nil)
	case errors.Is(err, correction.ErrPendingRequestExists):
		Error(w, http.StatusConflict, CodePendingRequestExists, err.Error(), nil)
	case errors.Is(err, correction.ErrInvalidStatusTransition):
		Error(w, http.StatusConflict, CodeInvalidStatusTransition, err.Error(), nil)

	// 422
	case errors.Is(err, correction.ErrOutOfCorrectionWindow):
		Error(w, http.StatusUnprocessableEntity, CodeOutOfCorrectionWindow, err.Error(), nil)
	case errors.Is(err, correction.ErrInvalidTimeOrder):
		Error(w, http.StatusUnprocessableEntity, CodeInvalidTimeOrder, err.Error(), nil)
	case errors.Is(err, correction.ErrExceedsMaxWorkDuration):
		Error(w, http.StatusUnprocessableEntity, CodeExceedsMaxWorkDuration, err.Error(), nil)
	case errors.Is(err, attendance.ErrInvalidMonthFormat):
		Error(w, http.StatusUnprocessableEntity, CodeInvalidMonthFormat, err.Error(), nil)
	case errors.Is(err, common.ErrInvalidPayload):
		Error(w, http.StatusUnprocessableEntity, CodeInvalidRequestPayload, err.Error(), nil)

	// 400
	case errors.Is(err, common.ErrMissingRequiredParam):
		Error(w, http.StatusBadRequest, CodeMissingRequiredParam, err.Error(), nil)
	case errors.Is(err, common.ErrInvalidRequestParam):
		Error(w, http.StatusBadRequest, CodeInvalidRequestParam, err.Error(), nil)

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w)
	}
}
