package correction

import (
	"strings"
	"time"

	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
)

const MaxWorkDuration = 24 * time.Hour

// ResolveType returns the requested type, or infers it from which proposed values are present.
func ResolveType(requested *Type, proposedIn, proposedOut *time.Time) (Type, error) {
	if requested != nil {
		return *requested, nil
	}
	switch {
	case proposedIn != nil && proposedOut != nil:
		return TypeBoth, nil
	case proposedIn != nil:
		return TypeCheckIn, nil
	case proposedOut != nil:
		return TypeCheckOut, nil
	}
	return "", ErrTypeUnresolvable
}

// NormalizeReason trims the reason and rejects blank input.
func NormalizeReason(reason string) (string, error) {
	trimmed := strings.TrimSpace(reason)
	if trimmed == "" {
		return "", ErrReasonRequired
	}
	return trimmed, nil
}

// CheckFieldsForType enforces that every field the type touches is proposed.
func CheckFieldsForType(t Type, proposedIn, proposedOut *time.Time) error {
	if t.TouchesCheckIn() && proposedIn == nil {
		return ErrProposedInRequired
	}
	if t.TouchesCheckOut() && proposedOut == nil {
		return ErrProposedOutRequired
	}
	return nil
}

// ProspectivePair is the pair the attendance would show if this request were approved.
func ProspectivePair(t Type, proposedIn, proposedOut *time.Time, a attendance.Attendance, loc *time.Location) (*time.Time, *time.Time) {
	finalIn := inZone(a.CheckInAt, loc)
	finalOut := inZone(a.CheckOutAt, loc)
	if t.TouchesCheckIn() {
		finalIn = inZone(proposedIn, loc)
	}
	if t.TouchesCheckOut() {
		finalOut = inZone(proposedOut, loc)
	}
	return finalIn, finalOut
}

// ValidateFinalPair checks presence, order and maximum span of a Final pair.
func ValidateFinalPair(finalIn, finalOut *time.Time) error {
	if finalIn == nil || finalOut == nil {
		return ErrIncompleteFinalPair
	}
	if !finalIn.Before(*finalOut) {
		return ErrInvalidTimeOrder
	}
	if finalOut.Sub(*finalIn) > MaxWorkDuration {
		return ErrExceedsMaxWorkDuration
	}
	return nil
}

// NormalizeComment trims an optional approve comment; blank becomes nil.
func NormalizeComment(comment *string) *string {
	if comment == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*comment)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func inZone(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(loc)
	return &v
}
