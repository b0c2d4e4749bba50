package correction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anpk/attendance-backend-go/internal/domain/access"
	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
	"github.com/anpk/attendance-backend-go/internal/domain/common"
	"github.com/anpk/attendance-backend-go/internal/domain/correction"
	"github.com/anpk/attendance-backend-go/internal/domain/employee"
	"github.com/anpk/attendance-backend-go/internal/domain/site"
	"github.com/anpk/attendance-backend-go/internal/pkg/clock"
	"github.com/anpk/attendance-backend-go/internal/pkg/database"
	"github.com/google/uuid"
)

type CorrectionServiceImpl struct {
	tx     database.Transactor
	clock  clock.Clock
	policy access.Policy
	final  correction.FinalSynthesizer
	attendance.AttendanceRepository
	correction.CorrectionRequestRepository
	employee.EmployeeRepository
	site.AssignmentRepository
}

// Create implements correction.CorrectionService.
// Checks run in a fixed order and the first failure is returned.
func (s *CorrectionServiceImpl) Create(ctx context.Context, actorID string, req correction.CreateCorrectionRequest) (correction.CorrectionResponse, error) {
	if err := req.Validate(); err != nil {
		return correction.CorrectionResponse{}, err
	}

	loc := s.clock.Location()
	var created correction.CorrectionRequest

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		a, err := s.AttendanceRepository.GetByID(ctx, req.AttendanceID)
		if err != nil {
			return err
		}

		if err := s.policy.AuthorizeCreate(ctx, actorID, a.UserID); err != nil {
			return err
		}

		if !clock.SameCalendarMonth(a.WorkDate, clock.Today(s.clock)) {
			return correction.ErrOutOfCorrectionWindow
		}

		pending, err := s.CorrectionRequestRepository.ExistsPendingByAttendanceID(ctx, a.ID)
		if err != nil {
			return fmt.Errorf("failed to check pending correction: %w", err)
		}
		if pending {
			return correction.ErrPendingRequestExists
		}

		requestedType, err := req.ParsedType()
		if err != nil {
			return err
		}
		typ, err := correction.ResolveType(requestedType, req.ProposedCheckInAt, req.ProposedCheckOutAt)
		if err != nil {
			return err
		}

		reason, err := correction.NormalizeReason(req.Reason)
		if err != nil {
			return err
		}

		if err := correction.CheckFieldsForType(typ, req.ProposedCheckInAt, req.ProposedCheckOutAt); err != nil {
			return err
		}

		finalIn, finalOut := correction.ProspectivePair(typ, req.ProposedCheckInAt, req.ProposedCheckOutAt, a, loc)
		if err := correction.ValidateFinalPair(finalIn, finalOut); err != nil {
			return err
		}

		id, err := uuid.NewV7()
		if err != nil {
			return fmt.Errorf("failed to generate correction request id: %w", err)
		}

		created, err = s.CorrectionRequestRepository.Create(ctx, correction.NewPending(
			id.String(),
			a.ID,
			typ,
			actorID,
			s.clock.Now(),
			req.ProposedCheckInAt,
			req.ProposedCheckOutAt,
			reason,
		))
		return err
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	return correction.NewCorrectionResponse(created, loc), nil
}

// List implements correction.CorrectionService.
func (s *CorrectionServiceImpl) List(ctx context.Context, actorID string, filter correction.ListFilter) (correction.ListCorrectionResponse, error) {
	filter.Normalize()

	var (
		items []correction.CorrectionRequest
		total int64
		err   error
	)

	switch filter.Scope {
	case "":
		return correction.ListCorrectionResponse{}, fmt.Errorf("%w: scope", common.ErrMissingRequiredParam)

	case correction.ScopeRequestedByMe:
		var status *correction.Status
		if filter.Status != "" {
			parsed, err := correction.ParseStatus(filter.Status)
			if err != nil {
				return correction.ListCorrectionResponse{}, err
			}
			status = &parsed
		}
		items, total, err = s.CorrectionRequestRepository.ListByRequester(ctx, actorID, status, filter.Page, filter.Size)

	case correction.ScopeApprovable:
		// The approval inbox always lists PENDING requests.
		approver, err := s.policy.RequireApprover(ctx, actorID)
		if err != nil {
			return correction.ListCorrectionResponse{}, err
		}
		if approver.Role == employee.RoleAdmin {
			items, total, err = s.CorrectionRequestRepository.ListByStatus(ctx, correction.StatusPending, filter.Page, filter.Size)
			if err != nil {
				return correction.ListCorrectionResponse{}, fmt.Errorf("failed to list approvable requests: %w", err)
			}
			break
		}

		requesterIDs, err := s.approvableRequesters(ctx, approver.ID)
		if err != nil {
			return correction.ListCorrectionResponse{}, err
		}
		if len(requesterIDs) == 0 {
			return correction.EmptyPage(filter.Page, filter.Size), nil
		}
		items, total, err = s.CorrectionRequestRepository.ListByRequestersAndStatus(ctx, requesterIDs, correction.StatusPending, filter.Page, filter.Size)
		if err != nil {
			return correction.ListCorrectionResponse{}, fmt.Errorf("failed to list approvable requests: %w", err)
		}

	default:
		return correction.ListCorrectionResponse{}, correction.ErrInvalidScope
	}
	if err != nil {
		return correction.ListCorrectionResponse{}, fmt.Errorf("failed to list correction requests: %w", err)
	}

	loc := s.clock.Location()
	response := correction.ListCorrectionResponse{
		Items:      make([]correction.CorrectionResponse, 0, len(items)),
		Page:       filter.Page,
		Size:       filter.Size,
		TotalItems: total,
		TotalPages: common.TotalPages(total, filter.Size),
	}
	for _, r := range items {
		response.Items = append(response.Items, correction.NewCorrectionResponse(r, loc))
	}
	return response, nil
}

// approvableRequesters collects active employees of every site assigned to
// the manager, without the manager themself.
func (s *CorrectionServiceImpl) approvableRequesters(ctx context.Context, managerID string) ([]string, error) {
	siteIDs, err := s.AssignmentRepository.ListSiteIDs(ctx, managerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list manager sites: %w", err)
	}

	seen := make(map[string]bool)
	var ids []string
	for _, siteID := range siteIDs {
		userIDs, err := s.EmployeeRepository.ListActiveIDsBySite(ctx, siteID)
		if err != nil {
			return nil, fmt.Errorf("failed to list site employees: %w", err)
		}
		for _, id := range userIDs {
			if id == managerID || seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// Get implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Get(ctx context.Context, actorID string, requestID string, scope string) (correction.CorrectionDetailResponse, error) {
	scope = strings.TrimSpace(scope)
	switch scope {
	case "", correction.ScopeRequestedByMe, correction.ScopeApprovable:
	default:
		return correction.CorrectionDetailResponse{}, correction.ErrInvalidScope
	}

	var (
		request correction.CorrectionRequest
		record  attendance.Attendance
		snap    correction.FinalSnapshot
	)

	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		var err error
		request, err = s.CorrectionRequestRepository.GetByID(ctx, requestID)
		if err != nil {
			return err
		}

		if err := s.authorizeView(ctx, actorID, request, scope); err != nil {
			return err
		}

		record, err = s.AttendanceRepository.GetByID(ctx, request.AttendanceID)
		if err != nil {
			return err
		}

		snap, err = s.final.Compute(ctx, record)
		return err
	})
	if err != nil {
		return correction.CorrectionDetailResponse{}, err
	}

	loc := s.clock.Location()
	return correction.CorrectionDetailResponse{
		CorrectionResponse:         correction.NewCorrectionResponse(request, loc),
		WorkDate:                   record.WorkDateString(),
		OriginalCheckInAt:          inZone(record.CheckInAt, loc),
		OriginalCheckOutAt:         inZone(record.CheckOutAt, loc),
		CurrentCheckInAt:           inZone(snap.CheckInAt, loc),
		CurrentCheckOutAt:          inZone(snap.CheckOutAt, loc),
		IsCorrected:                snap.IsCorrected,
		AppliedCorrectionRequestID: snap.AppliedCorrectionRequestID,
	}, nil
}

func (s *CorrectionServiceImpl) authorizeView(ctx context.Context, actorID string, r correction.CorrectionRequest, scope string) error {
	switch scope {
	case correction.ScopeRequestedByMe:
		if r.RequestedBy != actorID {
			return access.Deny(access.ErrNotOwner)
		}
		return nil
	case correction.ScopeApprovable:
		if err := s.policy.AuthorizeApprover(ctx, actorID, r.RequestedBy); err != nil {
			return err
		}
		if !r.IsPending() {
			return access.Deny(access.ErrRequestNotOpen)
		}
		return nil
	default:
		if r.RequestedBy == actorID {
			return nil
		}
		return s.policy.AuthorizeApprover(ctx, actorID, r.RequestedBy)
	}
}

// Cancel implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Cancel(ctx context.Context, actorID string, requestID string) (correction.CorrectionResponse, error) {
	return s.transition(ctx, requestID, func(ctx context.Context, r correction.CorrectionRequest) (correction.CorrectionRequest, error) {
		if r.RequestedBy != actorID {
			return r, access.Deny(access.ErrNotOwner)
		}
		return r.Cancel(s.clock.Now())
	})
}

// Approve implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Approve(ctx context.Context, actorID string, requestID string, req correction.ApproveRequest) (correction.CorrectionResponse, error) {
	return s.transition(ctx, requestID, func(ctx context.Context, r correction.CorrectionRequest) (correction.CorrectionRequest, error) {
		if err := s.policy.AuthorizeApprover(ctx, actorID, r.RequestedBy); err != nil {
			return r, err
		}
		return r.Approve(actorID, s.clock.Now(), correction.NormalizeComment(req.Comment))
	})
}

// Reject implements correction.CorrectionService.
func (s *CorrectionServiceImpl) Reject(ctx context.Context, actorID string, requestID string, req correction.RejectRequest) (correction.CorrectionResponse, error) {
	return s.transition(ctx, requestID, func(ctx context.Context, r correction.CorrectionRequest) (correction.CorrectionRequest, error) {
		if err := s.policy.AuthorizeApprover(ctx, actorID, r.RequestedBy); err != nil {
			return r, err
		}
		if !r.IsPending() {
			return r, correction.ErrInvalidStatusTransition
		}
		reason := strings.TrimSpace(req.Reason)
		if reason == "" {
			return r, correction.ErrRejectReasonRequired
		}
		return r.Reject(actorID, s.clock.Now(), reason)
	})
}

// transition loads the request, applies step and persists the result with a
// compare-and-set on PENDING, all in one transaction.
func (s *CorrectionServiceImpl) transition(ctx context.Context, requestID string, step func(ctx context.Context, r correction.CorrectionRequest) (correction.CorrectionRequest, error)) (correction.CorrectionResponse, error) {
	var next correction.CorrectionRequest

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		current, err := s.CorrectionRequestRepository.GetByID(ctx, requestID)
		if err != nil {
			return err
		}

		next, err = step(ctx, current)
		if err != nil {
			return err
		}
		return s.CorrectionRequestRepository.SaveResolution(ctx, next)
	})
	if err != nil {
		return correction.CorrectionResponse{}, err
	}

	return correction.NewCorrectionResponse(next, s.clock.Location()), nil
}

func NewCorrectionService(
	tx database.Transactor,
	clk clock.Clock,
	policy access.Policy,
	final correction.FinalSynthesizer,
	attendanceRepo attendance.AttendanceRepository,
	correctionRepo correction.CorrectionRequestRepository,
	employeeRepo employee.EmployeeRepository,
	assignmentRepo site.AssignmentRepository,
) correction.CorrectionService {
	return &CorrectionServiceImpl{
		tx:                          tx,
		clock:                       clk,
		policy:                      policy,
		final:                       final,
		AttendanceRepository:        attendanceRepo,
		CorrectionRequestRepository: correctionRepo,
		EmployeeRepository:          employeeRepo,
		AssignmentRepository:        assignmentRepo,
	}
}

func inZone(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(loc)
	return &v
}
