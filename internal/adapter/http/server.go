package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/replywatch/replywatch/internal/ports"
	"github.com/replywatch/replywatch/internal/service/logger"
)

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Host         string
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// Server is the dashboard HTTP server
type Server struct {
	server *http.Server
	logger logger.Logger
}

// NewServer assembles the router, middleware chain and handlers
func NewServer(
	config ServerConfig,
	reports ReportService,
	settings SettingsService,
	auth AuthService,
	tokens ports.TokenService,
	log logger.Logger,
) *Server {
	if log == nil {
		log = logger.NewNoop()
	}

	router := mux.NewRouter()

	authMiddleware := NewAuthMiddleware(tokens)
	NewAuthHandler(auth).RegisterRoutes(router)
	NewReportHandler(reports).RegisterRoutes(router, authMiddleware)
	NewSettingsHandler(settings).RegisterRoutes(router, authMiddleware)

	router.Use(correlationMiddleware)
	router.Use(loggingMiddleware(log))
	router.Use(corsMiddleware)
	router.Use(recoveryMiddleware(log))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")

	addr := config.Host + ":" + config.Port

	return &Server{
		server: &http.Server{
			Addr:         addr,
			Handler:      router,
			ReadTimeout:  config.ReadTimeout,
			WriteTimeout: config.WriteTimeout,
			IdleTimeout:  config.IdleTimeout,
		},
		logger: log,
	}
}

// Start begins serving requests
func (s *Server) Start() error {
	s.logger.Info(context.Background(), "starting HTTP server", map[string]interface{}{
		"addr": s.server.Addr,
	})
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info(ctx, "shutting down HTTP server", nil)
	return s.server.Shutdown(ctx)
}
