package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance records.
// Dates are civil dates; only their year, month and day fields are meaningful.
type AttendanceRepository interface {
	// Create inserts a new record. A second record for the same user and date
	// fails with ErrAlreadyCheckedIn.
	Create(ctx context.Context, attendance Attendance) (Attendance, error)

	// GetByID returns ErrAttendanceNotFound when no row matches.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// GetByUserAndDate returns nil when the user has no record on date.
	GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*Attendance, error)

	GetByPhotoPath(ctx context.Context, path string) (Attendance, error)

	// ListByUserInDateRange lists records with from <= work_date <= to ordered by work date.
	ListByUserInDateRange(ctx context.Context, userID string, from, to time.Time) ([]Attendance, error)

	ListByUsersInDateRange(ctx context.Context, userIDs []string, from, to time.Time) ([]Attendance, error)

	// CloseCheckOut sets the check-out instant of an open record.
	// Fails with ErrAlreadyCheckedOut when the record is already closed.
	CloseCheckOut(ctx context.Context, id string, at time.Time) (Attendance, error)
}
