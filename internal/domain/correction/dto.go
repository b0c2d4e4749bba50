package correction

import (
	"strings"
	"time"

	"github.com/anpk/attendance-backend-go/internal/domain/common"
	"github.com/anpk/attendance-backend-go/internal/pkg/validator"
)

const (
	ScopeRequestedByMe = "requested_by_me"
	ScopeApprovable    = "approvable"
)

// ========================================
// REQUESTS
// ========================================

type CreateCorrectionRequest struct {
	AttendanceID       string     `json:"attendance_id"`
	Type               *string    `json:"type"`
	ProposedCheckInAt  *time.Time `json:"proposed_check_in_at"`
	ProposedCheckOutAt *time.Time `json:"proposed_check_out_at"`
	Reason             string     `json:"reason"`
}

// Validate only checks shape. Business rules run in a fixed order inside the service.
func (r *CreateCorrectionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.AttendanceID) {
		errs = append(errs, validator.ValidationError{
			Field:   "attendance_id",
			Message: "attendance_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParsedType returns the optional type as a Type.
func (r *CreateCorrectionRequest) ParsedType() (*Type, error) {
	if r.Type == nil || strings.TrimSpace(*r.Type) == "" {
		return nil, nil
	}
	t, err := ParseType(*r.Type)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

type ListFilter struct {
	Scope  string
	Status string
	Page   int
	Size   int
}

// Normalize applies pagination defaults and trims scope and status.
func (f *ListFilter) Normalize() {
	f.Scope = strings.TrimSpace(f.Scope)
	f.Status = strings.TrimSpace(f.Status)
	f.Page, f.Size = common.NormalizePage(f.Page, f.Size)
}

type ApproveRequest struct {
	Comment *string `json:"comment"`
}

type RejectRequest struct {
	Reason string `json:"reason"`
}

// ========================================
// RESPONSES
// ========================================

type CorrectionResponse struct {
	ID                 string     `json:"id"`
	AttendanceID       string     `json:"attendance_id"`
	Status             Status     `json:"status"`
	Type               Type       `json:"type"`
	RequestedBy        string     `json:"requested_by"`
	RequestedAt        time.Time  `json:"requested_at"`
	ProposedCheckInAt  *time.Time `json:"proposed_check_in_at"`
	ProposedCheckOutAt *time.Time `json:"proposed_check_out_at"`
	Reason             string     `json:"reason"`
	ProcessedBy        *string    `json:"processed_by"`
	ProcessedAt        *time.Time `json:"processed_at"`
	ApproveComment     *string    `json:"approve_comment"`
	RejectReason       *string    `json:"reject_reason"`
	CanceledAt         *time.Time `json:"canceled_at"`
}

func NewCorrectionResponse(r CorrectionRequest, loc *time.Location) CorrectionResponse {
	return CorrectionResponse{
		ID:                 r.ID,
		AttendanceID:       r.AttendanceID,
		Status:             r.Status,
		Type:               r.Type,
		RequestedBy:        r.RequestedBy,
		RequestedAt:        r.RequestedAt.In(loc),
		ProposedCheckInAt:  inZone(r.ProposedCheckInAt, loc),
		ProposedCheckOutAt: inZone(r.ProposedCheckOutAt, loc),
		Reason:             r.Reason,
		ProcessedBy:        r.ProcessedBy,
		ProcessedAt:        inZone(r.ProcessedAt, loc),
		ApproveComment:     r.ApproveComment,
		RejectReason:       r.RejectReason,
		CanceledAt:         inZone(r.CanceledAt, loc),
	}
}

// CorrectionDetailResponse adds the raw values of the attendance and its
// current Final values, which reflect the approved state rather than this request.
type CorrectionDetailResponse struct {
	CorrectionResponse
	WorkDate                   string     `json:"work_date"`
	OriginalCheckInAt          *time.Time `json:"original_check_in_at"`
	OriginalCheckOutAt         *time.Time `json:"original_check_out_at"`
	CurrentCheckInAt           *time.Time `json:"current_check_in_at"`
	CurrentCheckOutAt          *time.Time `json:"current_check_out_at"`
	IsCorrected                bool       `json:"is_corrected"`
	AppliedCorrectionRequestID *string    `json:"applied_correction_request_id"`
}

type ListCorrectionResponse struct {
	Items      []CorrectionResponse `json:"items"`
	Page       int                  `json:"page"`
	Size       int                  `json:"size"`
	TotalItems int64                `json:"total_items"`
	TotalPages int                  `json:"total_pages"`
}

func EmptyPage(page, size int) ListCorrectionResponse {
	return ListCorrectionResponse{Items: []CorrectionResponse{}, Page: page, Size: size}
}
