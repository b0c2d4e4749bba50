package attendance

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/anpk/attendance-backend-go/internal/domain/access"
	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
	"github.com/anpk/attendance-backend-go/internal/domain/correction"
	"github.com/anpk/attendance-backend-go/internal/domain/employee"
	"github.com/anpk/attendance-backend-go/internal/domain/site"
	"github.com/anpk/attendance-backend-go/internal/pkg/clock"
	"github.com/anpk/attendance-backend-go/internal/pkg/database"
	"github.com/anpk/attendance-backend-go/internal/pkg/validator"
	"github.com/anpk/attendance-backend-go/internal/service/file"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

type AttendanceServiceImpl struct {
	tx            database.Transactor
	clock         clock.Clock
	policy        access.Policy
	final         correction.FinalSynthesizer
	fileService   file.FileService
	maxPhotoBytes int64
	attendance.AttendanceRepository
	correction.CorrectionRequestRepository
	employee.EmployeeRepository
	site.SiteRepository
}

// CheckIn implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(s.maxPhotoBytes); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.UserID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !emp.Active {
		return attendance.AttendanceResponse{}, employee.ErrEmployeeInactive
	}

	st, err := s.SiteRepository.GetByID(ctx, emp.SiteID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !st.Active {
		return attendance.AttendanceResponse{}, site.ErrSiteInactive
	}

	today := clock.Today(s.clock)
	existing, err := s.AttendanceRepository.GetByUserAndDate(ctx, emp.ID, today)
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check today's attendance: %w", err)
	}
	if existing != nil {
		if existing.IsCheckedOut() {
			return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.AttendanceResponse{}, attendance.ErrAlreadyCheckedIn
	}

	photoPath, err := s.fileService.UploadAttendancePhoto(ctx, emp.ID, today, req.File, req.FileHeader.Filename)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	id, err := uuid.NewV7()
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to generate attendance id: %w", err)
	}
	now := s.clock.Now()

	created, err := s.AttendanceRepository.Create(ctx, attendance.Attendance{
		ID:        id.String(),
		UserID:    emp.ID,
		WorkDate:  today,
		CheckInAt: &now,
		PhotoPath: &photoPath,
	})
	if err != nil {
		// A concurrent check-in won the unique key; drop the orphaned photo.
		if delErr := s.fileService.DeleteFile(ctx, photoPath); delErr != nil {
			slog.Warn("failed to delete orphaned attendance photo", "path", photoPath, "error", delErr)
		}
		return attendance.AttendanceResponse{}, err
	}

	return s.toResponse(ctx, created, correction.Fold(created, nil), false), nil
}

// CheckOut implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CheckOut(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	var (
		closed attendance.Attendance
		snap   correction.FinalSnapshot
	)

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		existing, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, clock.Today(s.clock))
		if err != nil {
			return fmt.Errorf("failed to load today's attendance: %w", err)
		}
		if existing == nil {
			return attendance.ErrNotCheckedIn
		}
		if existing.IsCheckedOut() {
			return attendance.ErrAlreadyCheckedOut
		}

		closed, err = s.AttendanceRepository.CloseCheckOut(ctx, existing.ID, s.clock.Now())
		if err != nil {
			return err
		}

		snap, err = s.final.Compute(ctx, closed)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return s.toResponse(ctx, closed, snap, false), nil
}

// Today implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Today(ctx context.Context, userID string) (attendance.AttendanceResponse, error) {
	today := clock.Today(s.clock)

	var response attendance.AttendanceResponse
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		record, err := s.AttendanceRepository.GetByUserAndDate(ctx, userID, today)
		if err != nil {
			return fmt.Errorf("failed to load today's attendance: %w", err)
		}
		if record == nil {
			response = attendance.AttendanceResponse{WorkDate: today.Format(attendance.DateLayout)}
			return nil
		}

		response, err = s.detail(ctx, *record)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return response, nil
}

// ListMine implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) ListMine(ctx context.Context, userID string, month string) (attendance.MonthlyAttendanceResponse, error) {
	ref := s.clock.Now()
	if month = strings.TrimSpace(month); month != "" {
		parsed, ok := validator.IsValidYearMonth(month)
		if !ok {
			return attendance.MonthlyAttendanceResponse{}, attendance.ErrInvalidMonthFormat
		}
		ref = time.Date(parsed.Year(), parsed.Month(), 1, 0, 0, 0, 0, s.clock.Location())
	}
	from, to := clock.MonthRange(ref, s.clock.Location())

	records, err := s.AttendanceRepository.ListByUserInDateRange(ctx, userID, from, to)
	if err != nil {
		return attendance.MonthlyAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	ids := make([]string, 0, len(records))
	for _, a := range records {
		ids = append(ids, a.ID)
	}

	var (
		snapshots map[string]correction.FinalSnapshot
		pending   map[string]bool
	)

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		var err error
		snapshots, err = s.final.ComputeAll(gCtx, records)
		return err
	})

	g.Go(func() error {
		var err error
		pending, err = s.CorrectionRequestRepository.PendingAttendanceIDs(gCtx, ids)
		return err
	})

	if err := g.Wait(); err != nil {
		return attendance.MonthlyAttendanceResponse{}, err
	}

	items := make([]attendance.AttendanceResponse, 0, len(records))
	for _, a := range records {
		items = append(items, s.toResponse(ctx, a, snapshots[a.ID], pending[a.ID]))
	}

	return attendance.MonthlyAttendanceResponse{
		Month: from.Format(attendance.MonthLayout),
		Items: items,
	}, nil
}

// GetMine implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetMine(ctx context.Context, userID string, id string) (attendance.AttendanceResponse, error) {
	var response attendance.AttendanceResponse
	err := s.tx.WithinReadOnlyTx(ctx, func(ctx context.Context) error {
		record, err := s.AttendanceRepository.GetByID(ctx, id)
		if err != nil {
			return err
		}
		// Other users' records are reported as missing.
		if record.UserID != userID {
			return attendance.ErrAttendanceNotFound
		}

		response, err = s.detail(ctx, record)
		return err
	})
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	return response, nil
}

// OpenPhoto implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) OpenPhoto(ctx context.Context, actorID string, path string) (io.ReadCloser, string, error) {
	record, err := s.AttendanceRepository.GetByPhotoPath(ctx, strings.TrimPrefix(path, "/"))
	if err != nil {
		return nil, "", err
	}

	if record.UserID != actorID {
		actor, err := s.policy.RequireAdminOrManager(ctx, actorID)
		if err != nil {
			return nil, "", err
		}
		owner, err := s.EmployeeRepository.GetByID(ctx, record.UserID)
		if err != nil {
			return nil, "", fmt.Errorf("failed to load photo owner: %w", err)
		}
		if err := s.policy.AuthorizeSite(ctx, actor, owner.SiteID); err != nil {
			return nil, "", err
		}
	}

	return s.fileService.OpenFile(ctx, *record.PhotoPath)
}

// detail computes the Final snapshot and pending flag of one record.
func (s *AttendanceServiceImpl) detail(ctx context.Context, a attendance.Attendance) (attendance.AttendanceResponse, error) {
	snap, err := s.final.Compute(ctx, a)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	pending, err := s.CorrectionRequestRepository.PendingAttendanceIDs(ctx, []string{a.ID})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to check pending corrections: %w", err)
	}

	return s.toResponse(ctx, a, snap, pending[a.ID]), nil
}

func (s *AttendanceServiceImpl) toResponse(ctx context.Context, a attendance.Attendance, snap correction.FinalSnapshot, pending bool) attendance.AttendanceResponse {
	loc := s.clock.Location()
	response := attendance.AttendanceResponse{
		ID:                         a.ID,
		WorkDate:                   a.WorkDateString(),
		CheckInAt:                  inZone(snap.CheckInAt, loc),
		CheckOutAt:                 inZone(snap.CheckOutAt, loc),
		Status:                     a.Status(),
		IsCorrected:                snap.IsCorrected,
		AppliedCorrectionRequestID: snap.AppliedCorrectionRequestID,
		HasPendingCorrection:       pending,
	}

	if a.PhotoPath != nil && *a.PhotoPath != "" {
		url, err := s.fileService.GetFileURL(ctx, *a.PhotoPath, 0)
		if err == nil {
			response.PhotoURL = &url
		}
	}
	return response
}

func inZone(t *time.Time, loc *time.Location) *time.Time {
	if t == nil {
		return nil
	}
	v := t.In(loc)
	return &v
}

func NewAttendanceService(
	tx database.Transactor,
	clk clock.Clock,
	policy access.Policy,
	final correction.FinalSynthesizer,
	fileService file.FileService,
	maxPhotoBytes int64,
	attendanceRepo attendance.AttendanceRepository,
	correctionRepo correction.CorrectionRequestRepository,
	employeeRepo employee.EmployeeRepository,
	siteRepo site.SiteRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		tx:                          tx,
		clock:                       clk,
		policy:                      policy,
		final:                       final,
		fileService:                 fileService,
		maxPhotoBytes:               maxPhotoBytes,
		AttendanceRepository:        attendanceRepo,
		CorrectionRequestRepository: correctionRepo,
		EmployeeRepository:          employeeRepo,
		SiteRepository:              siteRepo,
	}
}
