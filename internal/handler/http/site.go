package http

import (
	"net/http"

	"github.com/anpk/attendance-backend-go/internal/domain/site"
	"github.com/anpk/attendance-backend-go/internal/handler/http/middleware"
	"github.com/anpk/attendance-backend-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type SiteHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)

	ListManagerSites(w http.ResponseWriter, r *http.Request)
	AssignManager(w http.ResponseWriter, r *http.Request)
	UnassignManager(w http.ResponseWriter, r *http.Request)
}

type siteHandlerImpl struct {
	siteService site.SiteService
}

func NewSiteHandler(siteService site.SiteService) SiteHandler {
	return &siteHandlerImpl{
		siteService: siteService,
	}
}

// List implements SiteHandler.
func (h *siteHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := h.siteService.List(r.Context(), middleware.ActorID(r.Context()))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Create implements SiteHandler.
func (h *siteHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req site.CreateSiteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.siteService.Create(r.Context(), middleware.ActorID(r.Context()), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Site created", result)
}

// Update implements SiteHandler.
func (h *siteHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	siteID := chi.URLParam(r, "siteID")

	var req site.UpdateSiteRequest
	if err := decodeJSON(r, &req); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.siteService.Update(r.Context(), middleware.ActorID(r.Context()), siteID, req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Site updated", result)
}

// ListManagerSites implements SiteHandler.
func (h *siteHandlerImpl) ListManagerSites(w http.ResponseWriter, r *http.Request) {
	result, err := h.siteService.ListManagerSites(r.Context(), middleware.ActorID(r.Context()), chi.URLParam(r, "managerID"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// AssignManager implements SiteHandler.
func (h *siteHandlerImpl) AssignManager(w http.ResponseWriter, r *http.Request) {
	managerID := chi.URLParam(r, "managerID")
	siteID := chi.URLParam(r, "siteID")

	if err := h.siteService.AssignManager(r.Context(), middleware.ActorID(r.Context()), managerID, siteID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Manager assigned to site", nil)
}

// UnassignManager implements SiteHandler.
func (h *siteHandlerImpl) UnassignManager(w http.ResponseWriter, r *http.Request) {
	managerID := chi.URLParam(r, "managerID")
	siteID := chi.URLParam(r, "siteID")

	if err := h.siteService.UnassignManager(r.Context(), middleware.ActorID(r.Context()), managerID, siteID); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Manager unassigned from site", nil)
}
