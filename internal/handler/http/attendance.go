package http

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
	"github.com/anpk/attendance-backend-go/internal/handler/http/middleware"
	"github.com/anpk/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

// multipartOverhead leaves room for form boundaries and headers around the photo.
const multipartOverhead = 1 << 20

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	Today(w http.ResponseWriter, r *http.Request)
	ListMine(w http.ResponseWriter, r *http.Request)
	GetMine(w http.ResponseWriter, r *http.Request)
	Photo(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
	maxPhotoBytes     int64
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService, maxPhotoBytes int64) AttendanceHandler {
	if maxPhotoBytes <= 0 {
		maxPhotoBytes = attendance.MaxPhotoBytes
	}
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
		maxPhotoBytes:     maxPhotoBytes,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxPhotoBytes+multipartOverhead)
	if err := r.ParseMultipartForm(h.maxPhotoBytes + multipartOverhead); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.HandleError(w, attendance.ErrPhotoTooLarge)
			return
		}
		slog.Debug("failed to parse multipart form", "error", err)
		response.HandleError(w, attendance.ErrPhotoRequired)
		return
	}

	req := attendance.CheckInRequest{UserID: middleware.ActorID(r.Context())}

	file, fileHeader, err := r.FormFile("photo")
	if err != nil && !errors.Is(err, http.ErrMissingFile) {
		slog.Error("failed to get file from form", "error", err)
	}
	if err == nil {
		defer file.Close()
		req.File = file
		req.FileHeader = fileHeader
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check-in successful", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.CheckOut(r.Context(), middleware.ActorID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Check-out successful", result)
}

// Today implements AttendanceHandler.
func (h *attendanceHandlerImpl) Today(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Today(r.Context(), middleware.ActorID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListMine implements AttendanceHandler.
func (h *attendanceHandlerImpl) ListMine(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ListMine(r.Context(), middleware.ActorID(r.Context()), r.URL.Query().Get("month"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// GetMine implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "attendanceID")

	result, err := h.attendanceService.GetMine(r.Context(), middleware.ActorID(r.Context()), id)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Photo implements AttendanceHandler.
func (h *attendanceHandlerImpl) Photo(w http.ResponseWriter, r *http.Request) {
	path := chi.URLParam(r, "*")

	body, contentType, err := h.attendanceService.OpenPhoto(r.Context(), middleware.ActorID(r.Context()), path)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer body.Close()

	response.Inline(w, contentType, body)
}
