package postgresql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
	"github.com/anpk/attendance-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `id, user_id, work_date, check_in_at, check_out_at, photo_path, created_at, updated_at`

type attendanceRepositoryImpl struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepositoryImpl{db: db}
}

func scanAttendance(row pgx.Row) (attendance.Attendance, error) {
	var a attendance.Attendance
	err := row.Scan(
		&a.ID,
		&a.UserID,
		&a.WorkDate,
		&a.CheckInAt,
		&a.CheckOutAt,
		&a.PhotoPath,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	return a, err
}

func collectAttendances(rows pgx.Rows) ([]attendance.Attendance, error) {
	defer rows.Close()

	var records []attendance.Attendance
	for rows.Next() {
		a, err := scanAttendance(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, a)
	}
	return records, rows.Err()
}

// Create implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) Create(ctx context.Context, a attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendances (id, user_id, work_date, check_in_at, check_out_at, photo_path, created_at, updated_at)
		VALUES ($1, $2, $3::date, $4, $5, $6, NOW(), NOW())
		RETURNING ` + attendanceColumns

	created, err := scanAttendance(q.QueryRow(ctx, query,
		a.ID,
		a.UserID,
		a.WorkDate.Format(attendance.DateLayout),
		a.CheckInAt,
		a.CheckOutAt,
		a.PhotoPath,
	))
	if err != nil {
		if database.IsUniqueViolation(err, "uk_attendance_user_date") {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Attendance{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return created, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	if !isUUID(id) {
		return attendance.Attendance{}, attendance.ErrAttendanceNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE id = $1`

	a, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance %s: %w", id, err)
	}
	return a, nil
}

// GetByUserAndDate implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByUserAndDate(ctx context.Context, userID string, date time.Time) (*attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE user_id = $1 AND work_date = $2::date`

	a, err := scanAttendance(q.QueryRow(ctx, query, userID, date.Format(attendance.DateLayout)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance for user %s: %w", userID, err)
	}
	return &a, nil
}

// GetByPhotoPath implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) GetByPhotoPath(ctx context.Context, path string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendances WHERE photo_path = $1`

	a, err := scanAttendance(q.QueryRow(ctx, query, path))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrPhotoNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by photo: %w", err)
	}
	return a, nil
}

// ListByUserInDateRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByUserInDateRange(ctx context.Context, userID string, from, to time.Time) ([]attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = $1 AND work_date BETWEEN $2::date AND $3::date
		ORDER BY work_date ASC
	`

	rows, err := q.Query(ctx, query, userID, from.Format(attendance.DateLayout), to.Format(attendance.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances: %w", err)
	}
	return collectAttendances(rows)
}

// ListByUsersInDateRange implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) ListByUsersInDateRange(ctx context.Context, userIDs []string, from, to time.Time) ([]attendance.Attendance, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `
		FROM attendances
		WHERE user_id = ANY($1) AND work_date BETWEEN $2::date AND $3::date
		ORDER BY user_id, work_date ASC
	`

	rows, err := q.Query(ctx, query, userIDs, from.Format(attendance.DateLayout), to.Format(attendance.DateLayout))
	if err != nil {
		return nil, fmt.Errorf("failed to list attendances for users: %w", err)
	}
	return collectAttendances(rows)
}

// CloseCheckOut implements attendance.AttendanceRepository.
func (r *attendanceRepositoryImpl) CloseCheckOut(ctx context.Context, id string, at time.Time) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendances
		SET check_out_at = $2, updated_at = NOW()
		WHERE id = $1 AND check_out_at IS NULL
		RETURNING ` + attendanceColumns

	a, err := scanAttendance(q.QueryRow(ctx, query, id, at))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Attendance{}, fmt.Errorf("failed to check out attendance %s: %w", id, err)
	}
	return a, nil
}
