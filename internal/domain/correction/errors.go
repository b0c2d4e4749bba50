package correction

import (
	"errors"
	"fmt"

	"github.com/anpk/attendance-backend-go/internal/domain/common"
)

var (
	ErrCorrectionRequestNotFound = errors.New("correction request not found")
	ErrPendingRequestExists      = errors.New("a pending correction request already exists for this attendance")
	ErrInvalidStatusTransition   = errors.New("only PENDING requests can be processed")
	ErrOutOfCorrectionWindow     = errors.New("corrections are only allowed for the current month")
	ErrInvalidTimeOrder          = errors.New("check-in must be before check-out")
	ErrExceedsMaxWorkDuration    = errors.New("work duration cannot exceed 24 hours")

	ErrTypeUnresolvable     = fmt.Errorf("%w: type or at least one proposed time is required", common.ErrInvalidPayload)
	ErrInvalidType          = fmt.Errorf("%w: type must be CHECK_IN, CHECK_OUT or BOTH", common.ErrInvalidPayload)
	ErrReasonRequired       = fmt.Errorf("%w: reason is required", common.ErrInvalidPayload)
	ErrProposedInRequired   = fmt.Errorf("%w: proposed_check_in_at is required for this type", common.ErrInvalidPayload)
	ErrProposedOutRequired  = fmt.Errorf("%w: proposed_check_out_at is required for this type", common.ErrInvalidPayload)
	ErrIncompleteFinalPair  = fmt.Errorf("%w: both check-in and check-out are required after correction", common.ErrInvalidPayload)
	ErrRejectReasonRequired = fmt.Errorf("%w: reason is required to reject", common.ErrInvalidPayload)

	ErrInvalidStatus = fmt.Errorf("%w: status must be PENDING, APPROVED, REJECTED or CANCELED", common.ErrInvalidRequestParam)
	ErrInvalidScope  = fmt.Errorf("%w: scope must be requested_by_me or approvable", common.ErrInvalidRequestParam)
)
