package attendance

import (
	"bytes"
	"context"
	"io"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn opens today's record for the caller and stores the photo proof
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes today's record for the caller
	CheckOut(ctx context.Context, userID string) (AttendanceResponse, error)

	// Today returns the caller's Final snapshot for today, empty when there is no record
	Today(ctx context.Context, userID string) (AttendanceResponse, error)

	// ListMine lists the caller's records of one month (YYYY-MM, default current month)
	ListMine(ctx context.Context, userID string, month string) (MonthlyAttendanceResponse, error)

	// GetMine returns one of the caller's own records
	GetMine(ctx context.Context, userID string, id string) (AttendanceResponse, error)

	// OpenPhoto streams a stored proof photo to its owner or an authorized admin/manager
	OpenPhoto(ctx context.Context, actorID string, path string) (io.ReadCloser, string, error)

	// SiteReport aggregates Final values per employee of one site over a date range
	SiteReport(ctx context.Context, actorID string, filter ReportFilter) (SiteReportResponse, error)

	// ExportSiteReport renders SiteReport as an .xlsx workbook
	ExportSiteReport(ctx context.Context, actorID string, filter ReportFilter) (*bytes.Buffer, string, error)
}
