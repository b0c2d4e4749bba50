package attendance

import (
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/anpk/attendance-backend-go/internal/domain/common"
	"github.com/anpk/attendance-backend-go/internal/pkg/validator"
)

// ========================================
// CHECK-IN / CHECK-OUT
// ========================================

const MaxPhotoBytes = 5 << 20

var (
	allowedPhotoExts         = []string{".jpg", ".jpeg", ".png", ".webp", ".heic", ".heif"}
	allowedPhotoContentTypes = []string{"image/jpeg", "image/jpg", "image/png", "image/webp", "image/heic", "image/heif"}
)

type CheckInRequest struct {
	UserID     string                `json:"-"`
	File       multipart.File        `json:"-"`
	FileHeader *multipart.FileHeader `json:"-"`
}

// Validate checks presence, size and format of the photo. A non-positive
// maxBytes falls back to MaxPhotoBytes.
func (r *CheckInRequest) Validate(maxBytes int64) error {
	if maxBytes <= 0 {
		maxBytes = MaxPhotoBytes
	}
	if r.File == nil || r.FileHeader == nil || r.FileHeader.Size == 0 {
		return ErrPhotoRequired
	}
	if r.FileHeader.Size > maxBytes {
		return ErrPhotoTooLarge
	}

	ext := strings.ToLower(filepath.Ext(r.FileHeader.Filename))
	if !validator.IsInSlice(ext, allowedPhotoExts) {
		return ErrPhotoUnsupported
	}

	contentType := strings.ToLower(strings.TrimSpace(r.FileHeader.Header.Get("Content-Type")))
	if contentType != "" && !validator.IsInSlice(contentType, allowedPhotoContentTypes) {
		return ErrPhotoUnsupported
	}

	return nil
}

// ========================================
// READ MODELS
// ========================================

// AttendanceResponse carries Final (correction-aware) times in the business zone.
type AttendanceResponse struct {
	ID                         string     `json:"id,omitempty"`
	WorkDate                   string     `json:"work_date"`
	CheckInAt                  *time.Time `json:"check_in_at"`
	CheckOutAt                 *time.Time `json:"check_out_at"`
	Status                     string     `json:"status,omitempty"`
	IsCorrected                bool       `json:"is_corrected"`
	AppliedCorrectionRequestID *string    `json:"applied_correction_request_id"`
	HasPendingCorrection       bool       `json:"has_pending_correction"`
	PhotoURL                   *string    `json:"photo_url,omitempty"`
}

type MonthlyAttendanceResponse struct {
	Month string               `json:"month"`
	Items []AttendanceResponse `json:"items"`
}

// ========================================
// SITE REPORT
// ========================================

type ReportFilter struct {
	SiteID string
	From   string
	To     string
}

// Parse validates the filter and returns the inclusive civil date range.
func (f ReportFilter) Parse() (time.Time, time.Time, error) {
	if validator.IsEmpty(f.SiteID) || validator.IsEmpty(f.From) || validator.IsEmpty(f.To) {
		return time.Time{}, time.Time{}, common.ErrMissingRequiredParam
	}
	from, ok := validator.IsValidDate(strings.TrimSpace(f.From))
	if !ok {
		return time.Time{}, time.Time{}, common.ErrInvalidRequestParam
	}
	to, ok := validator.IsValidDate(strings.TrimSpace(f.To))
	if !ok {
		return time.Time{}, time.Time{}, common.ErrInvalidRequestParam
	}
	if from.After(to) {
		return time.Time{}, time.Time{}, ErrInvalidDateRange
	}
	return from, to, nil
}

type ReportItem struct {
	AttendanceID string     `json:"attendance_id"`
	WorkDate     string     `json:"work_date"`
	CheckInAt    *time.Time `json:"check_in_at"`
	CheckOutAt   *time.Time `json:"check_out_at"`
	WorkMinutes  *int64     `json:"work_minutes"`
	IsCorrected  bool       `json:"is_corrected"`
}

type ReportEmployee struct {
	UserID               string       `json:"user_id"`
	EmployeeCode         string       `json:"employee_code"`
	Name                 string       `json:"name"`
	Role                 string       `json:"role"`
	Active               bool         `json:"active"`
	SiteID               string       `json:"site_id"`
	TotalDays            int          `json:"total_days"`
	TotalWorkMinutes     int64        `json:"total_work_minutes"`
	MissingCheckoutCount int          `json:"missing_checkout_count"`
	CorrectedCount       int          `json:"corrected_count"`
	Items                []ReportItem `json:"items"`
}

type SiteReportResponse struct {
	SiteID         string           `json:"site_id"`
	SiteName       string           `json:"site_name"`
	From           string           `json:"from"`
	To             string           `json:"to"`
	TotalEmployees int              `json:"total_employees"`
	Employees      []ReportEmployee `json:"employees"`
}
