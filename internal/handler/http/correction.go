package http

import (
	"net/http"

	"github.com/anpk/attendance-backend-go/internal/domain/correction"
	"github.com/anpk/attendance-backend-go/internal/handler/http/middleware"
	"github.com/anpk/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type CorrectionHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Cancel(w http.ResponseWriter, r *http.Request)
	Approve(w http.ResponseWriter, r *http.Request)
	Reject(w http.ResponseWriter, r *http.Request)
}

type correctionHandlerImpl struct {
	correctionService correction.CorrectionService
}

func NewCorrectionHandler(correctionService correction.CorrectionService) CorrectionHandler {
	return &correctionHandlerImpl{
		correctionService: correctionService,
	}
}

// Create implements CorrectionHandler.
func (h *correctionHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req correction.CreateCorrectionRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.correctionService.Create(r.Context(), middleware.ActorID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Correction request submitted", result)
}

// List implements CorrectionHandler.
func (h *correctionHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := correction.ListFilter{
		Scope:  r.URL.Query().Get("scope"),
		Status: r.URL.Query().Get("status"),
		Page:   queryInt(r, "page"),
		Size:   queryInt(r, "size"),
	}

	result, err := h.correctionService.List(r.Context(), middleware.ActorID(r.Context()), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMeta(w, result.Items, &response.Meta{
		Page:       result.Page,
		Size:       result.Size,
		TotalItems: result.TotalItems,
		TotalPages: result.TotalPages,
	})
}

// Get implements CorrectionHandler.
func (h *correctionHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	result, err := h.correctionService.Get(r.Context(), middleware.ActorID(r.Context()), requestID, r.URL.Query().Get("scope"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Cancel implements CorrectionHandler.
func (h *correctionHandlerImpl) Cancel(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	result, err := h.correctionService.Cancel(r.Context(), middleware.ActorID(r.Context()), requestID)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Correction request canceled", result)
}

// Approve implements CorrectionHandler.
func (h *correctionHandlerImpl) Approve(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	var req correction.ApproveRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.correctionService.Approve(r.Context(), middleware.ActorID(r.Context()), requestID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Correction request approved", result)
}

// Reject implements CorrectionHandler.
func (h *correctionHandlerImpl) Reject(w http.ResponseWriter, r *http.Request) {
	requestID := chi.URLParam(r, "requestID")

	// A missing reason is reported by the service after the status check.
	var req correction.RejectRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.correctionService.Reject(r.Context(), middleware.ActorID(r.Context()), requestID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Correction request rejected", result)
}
