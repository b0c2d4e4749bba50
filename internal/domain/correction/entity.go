package correction

import (
	"strings"
	"time"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
	StatusCanceled Status = "CANCELED"
)

// ParseStatus accepts any letter case and surrounding whitespace.
func ParseStatus(raw string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(raw)))
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusCanceled:
		return s, nil
	}
	return "", ErrInvalidStatus
}

func (s Status) IsTerminal() bool {
	return s == StatusApproved || s == StatusRejected || s == StatusCanceled
}

type Type string

const (
	TypeCheckIn  Type = "CHECK_IN"
	TypeCheckOut Type = "CHECK_OUT"
	TypeBoth     Type = "BOTH"
)

func ParseType(raw string) (Type, error) {
	t := Type(strings.ToUpper(strings.TrimSpace(raw)))
	switch t {
	case TypeCheckIn, TypeCheckOut, TypeBoth:
		return t, nil
	}
	return "", ErrInvalidType
}

func (t Type) TouchesCheckIn() bool {
	return t == TypeCheckIn || t == TypeBoth
}

func (t Type) TouchesCheckOut() bool {
	return t == TypeCheckOut || t == TypeBoth
}

// CorrectionRequest proposes new check-in and/or check-out instants for one attendance.
// Status only ever moves from PENDING to a terminal state, through resolve.
type CorrectionRequest struct {
	ID                 string
	AttendanceID       string
	Status             Status
	Type               Type
	RequestedBy        string
	RequestedAt        time.Time
	ProposedCheckInAt  *time.Time
	ProposedCheckOutAt *time.Time
	Reason             string

	ProcessedBy    *string
	ProcessedAt    *time.Time
	ApproveComment *string
	RejectReason   *string
	CanceledAt     *time.Time
}

// NewPending builds a PENDING request. Proposed values the type does not touch are dropped.
func NewPending(id, attendanceID string, typ Type, requestedBy string, requestedAt time.Time, proposedIn, proposedOut *time.Time, reason string) CorrectionRequest {
	r := CorrectionRequest{
		ID:           id,
		AttendanceID: attendanceID,
		Status:       StatusPending,
		Type:         typ,
		RequestedBy:  requestedBy,
		RequestedAt:  requestedAt,
		Reason:       reason,
	}
	if typ.TouchesCheckIn() {
		r.ProposedCheckInAt = proposedIn
	}
	if typ.TouchesCheckOut() {
		r.ProposedCheckOutAt = proposedOut
	}
	return r
}

func (r CorrectionRequest) IsPending() bool {
	return r.Status == StatusPending
}

// Resolution is the payload of the single terminal transition of a request.
type Resolution struct {
	To           Status
	At           time.Time
	By           string
	Comment      *string
	RejectReason *string
}

// resolve is the only place that moves a request out of PENDING.
func (r CorrectionRequest) resolve(res Resolution) (CorrectionRequest, error) {
	if r.Status != StatusPending {
		return r, ErrInvalidStatusTransition
	}

	next := r
	at := res.At
	switch res.To {
	case StatusCanceled:
		next.CanceledAt = &at
	case StatusApproved:
		by := res.By
		next.ProcessedBy = &by
		next.ProcessedAt = &at
		next.ApproveComment = res.Comment
		next.RejectReason = nil
	case StatusRejected:
		if res.RejectReason == nil {
			return r, ErrRejectReasonRequired
		}
		by := res.By
		next.ProcessedBy = &by
		next.ProcessedAt = &at
		next.RejectReason = res.RejectReason
		next.ApproveComment = nil
	default:
		return r, ErrInvalidStatusTransition
	}
	next.Status = res.To
	return next, nil
}

func (r CorrectionRequest) Cancel(at time.Time) (CorrectionRequest, error) {
	return r.resolve(Resolution{To: StatusCanceled, At: at})
}

func (r CorrectionRequest) Approve(by string, at time.Time, comment *string) (CorrectionRequest, error) {
	return r.resolve(Resolution{To: StatusApproved, At: at, By: by, Comment: comment})
}

func (r CorrectionRequest) Reject(by string, at time.Time, reason string) (CorrectionRequest, error) {
	return r.resolve(Resolution{To: StatusRejected, At: at, By: by, RejectReason: &reason})
}
