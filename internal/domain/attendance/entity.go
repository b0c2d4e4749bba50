package attendance

import (
	"time"
)

const (
	StatusOpen   = "OPEN"
	StatusClosed = "CLOSED"
)

// Attendance is one raw check-in/check-out record per user and civil work date.
// Raw instants are never rewritten by corrections.
type Attendance struct {
	ID         string
	UserID     string
	WorkDate   time.Time
	CheckInAt  *time.Time
	CheckOutAt *time.Time
	PhotoPath  *string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (a Attendance) IsCheckedOut() bool {
	return a.CheckOutAt != nil
}

func (a Attendance) Status() string {
	if a.IsCheckedOut() {
		return StatusClosed
	}
	return StatusOpen
}

// WorkDateString formats the civil work date as YYYY-MM-DD.
func (a Attendance) WorkDateString() string {
	return a.WorkDate.Format(DateLayout)
}

const (
	DateLayout  = "2006-01-02"
	MonthLayout = "2006-01"
)
