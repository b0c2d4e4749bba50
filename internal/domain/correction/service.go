package correction

import (
	"context"

	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
)

// CorrectionService runs the correction request workflow.
type CorrectionService interface {
	Create(ctx context.Context, actorID string, req CreateCorrectionRequest) (CorrectionResponse, error)
	List(ctx context.Context, actorID string, filter ListFilter) (ListCorrectionResponse, error)
	Get(ctx context.Context, actorID string, requestID string, scope string) (CorrectionDetailResponse, error)
	Cancel(ctx context.Context, actorID string, requestID string) (CorrectionResponse, error)
	Approve(ctx context.Context, actorID string, requestID string, req ApproveRequest) (CorrectionResponse, error)
	Reject(ctx context.Context, actorID string, requestID string, req RejectRequest) (CorrectionResponse, error)
}

// FinalSynthesizer is the single source of Final values for attendance reads.
type FinalSynthesizer interface {
	Compute(ctx context.Context, a attendance.Attendance) (FinalSnapshot, error)
	ComputeAll(ctx context.Context, records []attendance.Attendance) (map[string]FinalSnapshot, error)
}
