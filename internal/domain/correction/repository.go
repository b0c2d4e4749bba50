package correction

import "context"

type CorrectionRequestRepository interface {
	// Create inserts a PENDING request. A second PENDING request for the same
	// attendance fails with ErrPendingRequestExists.
	Create(ctx context.Context, r CorrectionRequest) (CorrectionRequest, error)

	// GetByID returns ErrCorrectionRequestNotFound when no row matches.
	GetByID(ctx context.Context, id string) (CorrectionRequest, error)

	ExistsPendingByAttendanceID(ctx context.Context, attendanceID string) (bool, error)

	// Paged listings, newest requested_at first.
	ListByRequester(ctx context.Context, requesterID string, status *Status, page, size int) ([]CorrectionRequest, int64, error)
	ListByStatus(ctx context.Context, status Status, page, size int) ([]CorrectionRequest, int64, error)
	ListByRequestersAndStatus(ctx context.Context, requesterIDs []string, status Status, page, size int) ([]CorrectionRequest, int64, error)

	// FindLatestApproved returns nil when the attendance has no approved request.
	FindLatestApproved(ctx context.Context, attendanceID string) (*CorrectionRequest, error)

	// FindLatestApprovedByAttendanceIDs keys the latest approved request by attendance id.
	FindLatestApprovedByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string]CorrectionRequest, error)

	// PendingAttendanceIDs returns the subset of attendanceIDs with a PENDING request.
	PendingAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string]bool, error)

	// SaveResolution persists a terminal transition only if the stored row is
	// still PENDING; otherwise it fails with ErrInvalidStatusTransition.
	SaveResolution(ctx context.Context, r CorrectionRequest) error
}
