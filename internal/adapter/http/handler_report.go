package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/usecase"

	"github.com/gorilla/mux"
)

// ReportService is the report use case surface the handler needs
type ReportService interface {
	GenerateReport(ctx context.Context, req usecase.ReportRequest) (*usecase.ReportResponse, error)
}

// ReportHandler serves the response-time analytics endpoint
type ReportHandler struct {
	reports ReportService
}

// NewReportHandler creates a report handler
func NewReportHandler(reports ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// RegisterRoutes attaches the report routes to the router
func (h *ReportHandler) RegisterRoutes(router *mux.Router, auth *AuthMiddleware) {
	router.HandleFunc("/v1/reports/response-times", auth.RequireAuth(h.GetResponseTimes)).Methods("GET")
}

// GetResponseTimes handles GET /v1/reports/response-times?from=&to=
func (h *ReportHandler) GetResponseTimes(w http.ResponseWriter, r *http.Request) {
	from, err := parseEpochParam(r, "from")
	if err != nil {
		respondBadRequest(w, "query parameter 'from' must be epoch seconds")
		return
	}
	to, err := parseEpochParam(r, "to")
	if err != nil {
		respondBadRequest(w, "query parameter 'to' must be epoch seconds")
		return
	}

	report, err := h.reports.GenerateReport(r.Context(), usecase.ReportRequest{From: from, To: to})
	if err != nil {
		if errors.Is(err, domain.ErrMissingTimeWindow) || errors.Is(err, domain.ErrInvalidTimeWindow) {
			respondBadRequest(w, err.Error())
			return
		}
		respondInternalError(w, "Failed to generate report")
		return
	}

	respondSuccess(w, http.StatusOK, "Report generated", report)
}

func parseEpochParam(r *http.Request, name string) (int64, error) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return 0, strconv.ErrSyntax
	}
	return strconv.ParseInt(value, 10, 64)
}
