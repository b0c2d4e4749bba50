package correction

import (
	"time"

	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
)

// FinalSnapshot is the authoritative view of one attendance after folding in
// its latest approved correction.
type FinalSnapshot struct {
	AttendanceID               string
	WorkDate                   time.Time
	CheckInAt                  *time.Time
	CheckOutAt                 *time.Time
	IsCorrected                bool
	AppliedCorrectionRequestID *string
}

// Fold computes the Final values of a from the single latest approved request.
// A request that is not APPROVED or belongs to another attendance is ignored.
func Fold(a attendance.Attendance, latestApproved *CorrectionRequest) FinalSnapshot {
	snap := FinalSnapshot{
		AttendanceID: a.ID,
		WorkDate:     a.WorkDate,
		CheckInAt:    a.CheckInAt,
		CheckOutAt:   a.CheckOutAt,
	}
	if latestApproved == nil || latestApproved.Status != StatusApproved || latestApproved.AttendanceID != a.ID {
		return snap
	}

	if latestApproved.ProposedCheckInAt != nil {
		snap.CheckInAt = latestApproved.ProposedCheckInAt
	}
	if latestApproved.ProposedCheckOutAt != nil {
		snap.CheckOutAt = latestApproved.ProposedCheckOutAt
	}
	id := latestApproved.ID
	snap.IsCorrected = true
	snap.AppliedCorrectionRequestID = &id
	return snap
}

// EmptySnapshot describes a day without any attendance record.
func EmptySnapshot(workDate time.Time) FinalSnapshot {
	return FinalSnapshot{WorkDate: workDate}
}

// IsLaterApproval orders approved requests by processed-at, then id, descending.
func IsLaterApproval(a, b CorrectionRequest) bool {
	var at, bt time.Time
	if a.ProcessedAt != nil {
		at = *a.ProcessedAt
	}
	if b.ProcessedAt != nil {
		bt = *b.ProcessedAt
	}
	if !at.Equal(bt) {
		return at.After(bt)
	}
	return a.ID > b.ID
}

// LatestApproved picks the most recently processed APPROVED request, or nil.
func LatestApproved(requests []CorrectionRequest) *CorrectionRequest {
	var latest *CorrectionRequest
	for i := range requests {
		r := requests[i]
		if r.Status != StatusApproved {
			continue
		}
		if latest == nil || IsLaterApproval(r, *latest) {
			latest = &r
		}
	}
	return latest
}
