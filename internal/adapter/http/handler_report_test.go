package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"

	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/ports"
	"github.com/replywatch/replywatch/internal/usecase"
)

type stubReportService struct {
	report *usecase.ReportResponse
	err    error
	gotReq usecase.ReportRequest
}

func (s *stubReportService) GenerateReport(_ context.Context, req usecase.ReportRequest) (*usecase.ReportResponse, error) {
	s.gotReq = req
	if s.err != nil {
		return nil, s.err
	}
	return s.report, nil
}

type stubTokenService struct {
	claims *ports.TokenClaims
	err    error
}

func (s *stubTokenService) GenerateAccessToken(ports.TokenClaims) (string, error) {
	return "", errors.New("not implemented")
}

func (s *stubTokenService) ValidateAccessToken(string) (*ports.TokenClaims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func newReportRouter(reports ReportService, tokens ports.TokenService) *mux.Router {
	router := mux.NewRouter()
	handler := NewReportHandler(reports)
	handler.RegisterRoutes(router, NewAuthMiddleware(tokens))
	return router
}

func validTokens() *stubTokenService {
	return &stubTokenService{claims: &ports.TokenClaims{UserID: "user-1", Email: "alice@example.com"}}
}

func TestReportHandler_GetResponseTimes(t *testing.T) {
	svc := &stubReportService{report: &usecase.ReportResponse{
		Overall:              usecase.MetricsBlock{Count: 2, Mean: 5.0},
		TotalEventsProcessed: 4,
		SLAMinutes:           10,
		Complete:             true,
	}}
	router := newReportRouter(svc, validTokens())

	req := httptest.NewRequest("GET", "/v1/reports/response-times?from=1000&to=2000", nil)
	req.Header.Set("Authorization", "Bearer token-abc")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, int64(1000), svc.gotReq.From)
	assert.Equal(t, int64(2000), svc.gotReq.To)

	var envelope Envelope
	assert.NoError(t, json.Unmarshal(rr.Body.Bytes(), &envelope))
	assert.True(t, envelope.Status)
}

func TestReportHandler_RequiresAuth(t *testing.T) {
	router := newReportRouter(&stubReportService{}, validTokens())

	req := httptest.NewRequest("GET", "/v1/reports/response-times?from=1000&to=2000", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestReportHandler_RejectsInvalidToken(t *testing.T) {
	router := newReportRouter(&stubReportService{}, &stubTokenService{err: errors.New("expired")})

	req := httptest.NewRequest("GET", "/v1/reports/response-times?from=1000&to=2000", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestReportHandler_RejectsBadWindowParams(t *testing.T) {
	router := newReportRouter(&stubReportService{}, validTokens())

	for _, query := range []string{"", "from=abc&to=2000", "from=1000", "to=2000"} {
		req := httptest.NewRequest("GET", "/v1/reports/response-times?"+query, nil)
		req.Header.Set("Authorization", "Bearer token-abc")
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code, "query %q", query)
	}
}

func TestReportHandler_MapsUseCaseErrors(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid window", domain.ErrInvalidTimeWindow, http.StatusBadRequest},
		{"missing window", domain.ErrMissingTimeWindow, http.StatusBadRequest},
		{"internal failure", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newReportRouter(&stubReportService{err: tc.err}, validTokens())

			req := httptest.NewRequest("GET", "/v1/reports/response-times?from=1000&to=2000", nil)
			req.Header.Set("Authorization", "Bearer token-abc")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			assert.Equal(t, tc.code, rr.Code)
		})
	}
}
