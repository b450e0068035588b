package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/usecase"

	"github.com/gorilla/mux"
)

// SettingsService is the settings use case surface the handler needs
type SettingsService interface {
	GetBusinessHours(ctx context.Context) (*usecase.BusinessHoursResponse, error)
	UpdateBusinessHours(ctx context.Context, req usecase.UpdateBusinessHoursRequest) (*usecase.BusinessHoursResponse, error)
}

// SettingsHandler serves the business-hours settings endpoints
type SettingsHandler struct {
	settings SettingsService
}

// NewSettingsHandler creates a settings handler
func NewSettingsHandler(settings SettingsService) *SettingsHandler {
	return &SettingsHandler{settings: settings}
}

// RegisterRoutes attaches the settings routes to the router
func (h *SettingsHandler) RegisterRoutes(router *mux.Router, auth *AuthMiddleware) {
	router.HandleFunc("/v1/settings/business-hours", auth.RequireAuth(h.Get)).Methods("GET")
	router.HandleFunc("/v1/settings/business-hours", auth.RequireAuth(h.Update)).Methods("PUT")
}

// Get handles GET /v1/settings/business-hours
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	hours, err := h.settings.GetBusinessHours(r.Context())
	if err != nil {
		respondInternalError(w, "Failed to load business hours")
		return
	}
	respondSuccess(w, http.StatusOK, "Business hours", hours)
}

// Update handles PUT /v1/settings/business-hours
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req usecase.UpdateBusinessHoursRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	hours, err := h.settings.UpdateBusinessHours(r.Context(), req)
	if err != nil {
		if isCalendarValidationError(err) {
			respondBadRequest(w, err.Error())
			return
		}
		respondInternalError(w, "Failed to save business hours")
		return
	}

	respondSuccess(w, http.StatusOK, "Business hours updated", hours)
}

func isCalendarValidationError(err error) bool {
	return errors.Is(err, domain.ErrInvalidStartHour) ||
		errors.Is(err, domain.ErrInvalidEndHour) ||
		errors.Is(err, domain.ErrInvalidHourRange) ||
		errors.Is(err, domain.ErrNoBusinessDays) ||
		errors.Is(err, domain.ErrInvalidSLAMinutes)
}
