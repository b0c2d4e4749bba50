package http

import (
	"net/http"

	"github.com/anpk/attendance-backend-go/internal/domain/attendance"
	"github.com/anpk/attendance-backend-go/internal/handler/http/middleware"
	"github.com/anpk/attendance-backend-go/internal/handler/http/response"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ReportHandler interface {
	SiteReport(w http.ResponseWriter, r *http.Request)
	ExportSiteReport(w http.ResponseWriter, r *http.Request)
}

type reportHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewReportHandler(attendanceService attendance.AttendanceService) ReportHandler {
	return &reportHandlerImpl{
		attendanceService: attendanceService,
	}
}

func reportFilter(r *http.Request) attendance.ReportFilter {
	q := r.URL.Query()
	return attendance.ReportFilter{
		SiteID: q.Get("site_id"),
		From:   q.Get("from"),
		To:     q.Get("to"),
	}
}

// SiteReport implements ReportHandler.
func (h *reportHandlerImpl) SiteReport(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.SiteReport(r.Context(), middleware.ActorID(r.Context()), reportFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ExportSiteReport implements ReportHandler.
func (h *reportHandlerImpl) ExportSiteReport(w http.ResponseWriter, r *http.Request) {
	buf, filename, err := h.attendanceService.ExportSiteReport(r.Context(), middleware.ActorID(r.Context()), reportFilter(r))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Attachment(w, xlsxContentType, filename, buf)
}
