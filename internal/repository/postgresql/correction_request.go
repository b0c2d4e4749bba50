package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/anpk/attendance-backend-go/internal/domain/correction"
	"github.com/anpk/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const correctionColumns = `
	id, attendance_id, status, type, requested_by, requested_at,
	proposed_check_in_at, proposed_check_out_at, reason,
	processed_by, processed_at, approve_comment, reject_reason, canceled_at`

type correctionRequestRepositoryImpl struct {
	db *database.DB
}

func NewCorrectionRequestRepository(db *database.DB) correction.CorrectionRequestRepository {
	return &correctionRequestRepositoryImpl{db: db}
}

func scanCorrection(row pgx.Row) (correction.CorrectionRequest, error) {
	var c correction.CorrectionRequest
	err := row.Scan(
		&c.ID,
		&c.AttendanceID,
		&c.Status,
		&c.Type,
		&c.RequestedBy,
		&c.RequestedAt,
		&c.ProposedCheckInAt,
		&c.ProposedCheckOutAt,
		&c.Reason,
		&c.ProcessedBy,
		&c.ProcessedAt,
		&c.ApproveComment,
		&c.RejectReason,
		&c.CanceledAt,
	)
	return c, err
}

func collectCorrections(rows pgx.Rows) ([]correction.CorrectionRequest, error) {
	defer rows.Close()

	var requests []correction.CorrectionRequest
	for rows.Next() {
		c, err := scanCorrection(rows)
		if err != nil {
			return nil, err
		}
		requests = append(requests, c)
	}
	return requests, rows.Err()
}

// Create implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepositoryImpl) Create(ctx context.Context, c correction.CorrectionRequest) (correction.CorrectionRequest, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO correction_requests (
			id, attendance_id, status, type, requested_by, requested_at,
			proposed_check_in_at, proposed_check_out_at, reason
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + correctionColumns

	created, err := scanCorrection(q.QueryRow(ctx, query,
		c.ID,
		c.AttendanceID,
		string(c.Status),
		string(c.Type),
		c.RequestedBy,
		c.RequestedAt,
		c.ProposedCheckInAt,
		c.ProposedCheckOutAt,
		c.Reason,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "uk_correction_one_pending") {
			return correction.CorrectionRequest{}, correction.ErrPendingRequestExists
		}
		return correction.CorrectionRequest{}, fmt.Errorf("failed to create correction request: %w", err)
	}
	return created, nil
}

// GetByID implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepositoryImpl) GetByID(ctx context.Context, id string) (correction.CorrectionRequest, error) {
	if !isUUID(id) {
		return correction.CorrectionRequest{}, correction.ErrCorrectionRequestNotFound
	}
	q := GetQuerier(ctx, r.db)

	c, err := scanCorrection(q.QueryRow(ctx, `SELECT `+correctionColumns+` FROM correction_requests WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return correction.CorrectionRequest{}, correction.ErrCorrectionRequestNotFound
		}
		return correction.CorrectionRequest{}, fmt.Errorf("failed to get correction request %s: %w", id, err)
	}
	return c, nil
}

// ExistsPendingByAttendanceID implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepositoryImpl) ExistsPendingByAttendanceID(ctx context.Context, attendanceID string) (bool, error) {
	if !isUUID(attendanceID) {
		return false, nil
	}
	q := GetQuerier(ctx, r.db)

	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM correction_requests WHERE attendance_id = $1 AND status = 'PENDING')`
	if err := q.QueryRow(ctx, query, attendanceID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check pending correction: %w", err)
	}
	return exists, nil
}

// listPage runs the count and page queries for one WHERE clause. Args for the
// clause come first; LIMIT and OFFSET are appended.
func (r *correctionRequestRepositoryImpl) listPage(ctx context.Context, where string, args []interface{}, page, size int) ([]correction.CorrectionRequest, int64, error) {
	q := GetQuerier(ctx, r.db)

	var total int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM correction_requests WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count correction requests: %w", err)
	}
	if total == 0 {
		return []correction.CorrectionRequest{}, 0, nil
	}

	offset := (page - 1) * size
	query := fmt.Sprintf(`
		SELECT %s FROM correction_requests
		WHERE %s
		ORDER BY requested_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, correctionColumns, where, len(args)+1, len(args)+2)

	rows, err := q.Query(ctx, query, append(args, size, offset)...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list correction requests: %w", err)
	}
	items, err := collectCorrections(rows)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to scan correction requests: %w", err)
	}
	if items == nil {
		items = []correction.CorrectionRequest{}
	}
	return items, total, nil
}

// ListByRequester implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepositoryImpl) ListByRequester(ctx context.Context, requesterID string, status *correction.Status, page, size int) ([]correction.CorrectionRequest, int64, error) {
	where := `requested_by = $1`
	args := []interface{}{requesterID}
	if status != nil {
		where += ` AND status = $2`
		args = append(args, string(*status))
	}
	return r.listPage(ctx, where, args, page, size)
}

// ListByStatus implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepositoryImpl) ListByStatus(ctx context.Context, status correction.Status, page, size int) ([]correction.CorrectionRequest, int64, error) {
	return r.listPage(ctx, `status = $1`, []interface{}{string(status)}, page, size)
}

// ListByRequestersAndStatus implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepositoryImpl) ListByRequestersAndStatus(ctx context.Context, requesterIDs []string, status correction.Status, page, size int) ([]correction.CorrectionRequest, int64, error) {
	if len(requesterIDs) == 0 {
		return []correction.CorrectionRequest{}, 0, nil
	}
	return r.listPage(ctx, `requested_by = ANY($1) AND status = $2`, []interface{}{requesterIDs, string(status)}, page, size)
}

// FindLatestApproved implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepositoryImpl) FindLatestApproved(ctx context.Context, attendanceID string) (*correction.CorrectionRequest, error) {
	if !isUUID(attendanceID) {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + correctionColumns + `
		FROM correction_requests
		WHERE attendance_id = $1 AND status = 'APPROVED'
		ORDER BY processed_at DESC, id DESC
		LIMIT 1`

	c, err := scanCorrection(q.QueryRow(ctx, query, attendanceID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find latest approved correction: %w", err)
	}
	return &c, nil
}

// FindLatestApprovedByAttendanceIDs implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepositoryImpl) FindLatestApprovedByAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string]correction.CorrectionRequest, error) {
	latest := make(map[string]correction.CorrectionRequest)
	if len(attendanceIDs) == 0 {
		return latest, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT DISTINCT ON (attendance_id) ` + correctionColumns + `
		FROM correction_requests
		WHERE attendance_id = ANY($1) AND status = 'APPROVED'
		ORDER BY attendance_id, processed_at DESC, id DESC`

	rows, err := q.Query(ctx, query, attendanceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find latest approved corrections: %w", err)
	}
	items, err := collectCorrections(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to scan latest approved corrections: %w", err)
	}
	for _, c := range items {
		latest[c.AttendanceID] = c
	}
	return latest, nil
}

// PendingAttendanceIDs implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepositoryImpl) PendingAttendanceIDs(ctx context.Context, attendanceIDs []string) (map[string]bool, error) {
	pending := make(map[string]bool)
	if len(attendanceIDs) == 0 {
		return pending, nil
	}
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `SELECT attendance_id FROM correction_requests WHERE attendance_id = ANY($1) AND status = 'PENDING'`, attendanceIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending corrections: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		pending[id] = true
	}
	return pending, rows.Err()
}

// SaveResolution implements correction.CorrectionRequestRepository.
func (r *correctionRequestRepositoryImpl) SaveResolution(ctx context.Context, c correction.CorrectionRequest) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE correction_requests
		SET status = $2,
			processed_by = $3,
			processed_at = $4,
			approve_comment = $5,
			reject_reason = $6,
			canceled_at = $7
		WHERE id = $1 AND status = 'PENDING'`

	tag, err := q.Exec(ctx, query,
		c.ID,
		string(c.Status),
		c.ProcessedBy,
		c.ProcessedAt,
		c.ApproveComment,
		c.RejectReason,
		c.CanceledAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save correction resolution %s: %w", c.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return correction.ErrInvalidStatusTransition
	}
	return nil
}
