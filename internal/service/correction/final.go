package correction

import (
	"context"
	"fmt"

	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
	"github.com/anpk/attendance-backend-go/internal/domain/correction"
)

type FinalSynthesizerImpl struct {
	correction.CorrectionRequestRepository
}

// Compute implements correction.FinalSynthesizer.
func (f *FinalSynthesizerImpl) Compute(ctx context.Context, a attendance.Attendance) (correction.FinalSnapshot, error) {
	latest, err := f.CorrectionRequestRepository.FindLatestApproved(ctx, a.ID)
	if err != nil {
		return correction.FinalSnapshot{}, fmt.Errorf("failed to compute final values of attendance %s: %w", a.ID, err)
	}
	return correction.Fold(a, latest), nil
}

// ComputeAll implements correction.FinalSynthesizer. The result is keyed by attendance id.
func (f *FinalSynthesizerImpl) ComputeAll(ctx context.Context, records []attendance.Attendance) (map[string]correction.FinalSnapshot, error) {
	snapshots := make(map[string]correction.FinalSnapshot, len(records))
	if len(records) == 0 {
		return snapshots, nil
	}

	ids := make([]string, 0, len(records))
	for _, a := range records {
		ids = append(ids, a.ID)
	}

	latest, err := f.CorrectionRequestRepository.FindLatestApprovedByAttendanceIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to compute final values: %w", err)
	}

	for _, a := range records {
		var applied *correction.CorrectionRequest
		if r, ok := latest[a.ID]; ok {
			applied = &r
		}
		snapshots[a.ID] = correction.Fold(a, applied)
	}
	return snapshots, nil
}

func NewFinalSynthesizer(correctionRepo correction.CorrectionRequestRepository) correction.FinalSynthesizer {
	return &FinalSynthesizerImpl{CorrectionRequestRepository: correctionRepo}
}
