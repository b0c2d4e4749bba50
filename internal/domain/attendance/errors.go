package attendance

import (
	"errors"
	"fmt"

	"github.com/anpk/attendance-backend-go/internal/domain/common"
)

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidMonthFormat = errors.New("month must be in YYYY-MM format")
	ErrPhotoNotFound      = errors.New("photo not found")

	ErrPhotoRequired    = fmt.Errorf("%w: attendance photo is required", common.ErrInvalidPayload)
	ErrPhotoTooLarge    = fmt.Errorf("%w: attendance photo exceeds the size limit", common.ErrInvalidPayload)
	ErrPhotoUnsupported = fmt.Errorf("%w: attendance photo must be jpg, jpeg, png, webp, heic or heif", common.ErrInvalidPayload)
	ErrInvalidDateRange = fmt.Errorf("%w: from must not be after to", common.ErrInvalidRequestParam)
)
