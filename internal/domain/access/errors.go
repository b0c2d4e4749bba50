package access

import (
	"errors"
	"fmt"
)

// ErrForbidden is the only authorization failure callers ever see.
var ErrForbidden = errors.New("access denied")

// Internal denial reasons. They are always wrapped together with ErrForbidden
// so logs can tell them apart while responses cannot.
var (
	ErrActorNotFound   = errors.New("actor not found")
	ErrActorInactive   = errors.New("actor is inactive")
	ErrRoleNotAllowed  = errors.New("role not allowed")
	ErrSiteOutOfScope  = errors.New("site outside actor assignments")
	ErrSelfApproval    = errors.New("requester cannot process own request")
	ErrNotOwner        = errors.New("actor does not own the resource")
	ErrRequestNotOpen  = errors.New("request is no longer pending")
	ErrTargetForbidden = errors.New("target outside actor authority")
)

// Deny wraps reason so that errors.Is matches both ErrForbidden and reason.
func Deny(reason error) error {
	return fmt.Errorf("%w: %w", ErrForbidden, reason)
}
