package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/replywatch/replywatch/internal/usecase"

	"github.com/gorilla/mux"
)

// AuthService is the auth use case surface the handler needs
type AuthService interface {
	Login(ctx context.Context, req usecase.LoginRequest) (*usecase.LoginResponse, error)
}

// AuthHandler serves dashboard authentication
type AuthHandler struct {
	auth AuthService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(auth AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

// RegisterRoutes attaches the auth routes to the router
func (h *AuthHandler) RegisterRoutes(router *mux.Router) {
	router.HandleFunc("/v1/auth/login", h.Login).Methods("POST")
}

// Login handles POST /v1/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req usecase.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondBadRequest(w, "Invalid request body")
		return
	}

	resp, err := h.auth.Login(r.Context(), req)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			respondUnauthorized(w, err.Error())
			return
		}
		respondInternalError(w, "Login failed")
		return
	}

	respondSuccess(w, http.StatusOK, "Logged in", resp)
}
