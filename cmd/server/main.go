package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"github.com/replywatch/replywatch/internal/adapter/cache"
	"github.com/replywatch/replywatch/internal/adapter/feed"
	httpadapter "github.com/replywatch/replywatch/internal/adapter/http"
	"github.com/replywatch/replywatch/internal/adapter/persistence"
	"github.com/replywatch/replywatch/internal/config"
	"github.com/replywatch/replywatch/internal/domain"
	"github.com/replywatch/replywatch/internal/ports"
	"github.com/replywatch/replywatch/internal/service/logger"
	"github.com/replywatch/replywatch/internal/service/password"
	"github.com/replywatch/replywatch/internal/service/token"
	"github.com/replywatch/replywatch/internal/usecase"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	structuredLogger := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		ServiceName: "replywatch",
	})
	structuredLogger.Info(ctx, "application starting", map[string]interface{}{
		"env": cfg.Environment,
	})

	location, err := time.LoadLocation(cfg.BusinessTimezone)
	if err != nil {
		structuredLogger.Warn(ctx, "unknown business timezone, falling back to UTC", map[string]interface{}{
			"timezone": cfg.BusinessTimezone,
		})
		location = time.UTC
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		structuredLogger.Error(ctx, "failed to ping database", err, nil)
		log.Fatalf("Failed to ping database: %v", err)
	}
	structuredLogger.Info(ctx, "database connection established", nil)

	var reportCache ports.ReportCache
	if cfg.CacheEnabled {
		redisCache, err := cache.NewRedisReportCache(cfg.RedisURL, structuredLogger)
		if err != nil {
			structuredLogger.Warn(ctx, "report cache unavailable, continuing without it", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redisCache.Close()
			reportCache = redisCache
		}
	}

	defaults := domain.BusinessHoursFromWeekdays(
		cfg.BusinessStartHour,
		cfg.BusinessEndHour,
		cfg.SLAMinutes,
		cfg.BusinessDays,
	)
	if err := defaults.Validate(); err != nil {
		structuredLogger.Warn(ctx, "invalid default business hours in config, using stock defaults", map[string]interface{}{
			"error": err.Error(),
		})
		defaults = domain.DefaultBusinessHours()
	}

	userRepo := persistence.NewPostgresUserRepository(db)
	settingsRepo := persistence.NewPostgresSettingsRepository(db, defaults)

	eventFeed := feed.NewClient(feed.Config{
		BaseURL:        cfg.CRMBaseURL,
		AccessToken:    cfg.CRMAccessToken,
		PageSize:       cfg.FeedPageSize,
		MaxPages:       cfg.FeedMaxPages,
		RequestTimeout: cfg.FeedRequestTimeout,
	}, structuredLogger)

	tokenService, err := token.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL)
	if err != nil {
		log.Fatalf("Failed to initialize token service: %v", err)
	}
	passwordService := password.NewBcryptPasswordService(10)

	reportUseCase := usecase.NewReportUseCase(
		eventFeed,
		settingsRepo,
		userRepo,
		reportCache,
		cfg.CacheTTL,
		location,
		cfg.ReportMaxConcurrency,
		structuredLogger,
	)
	settingsUseCase := usecase.NewSettingsUseCase(settingsRepo)
	authUseCase := usecase.NewAuthUseCase(userRepo, tokenService, passwordService, structuredLogger)

	server := httpadapter.NewServer(
		httpadapter.ServerConfig{
			Host:         cfg.ServerHost,
			Port:         cfg.ServerPort,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		reportUseCase,
		settingsUseCase,
		authUseCase,
		tokenService,
		structuredLogger,
	)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			structuredLogger.Error(ctx, "server failed", err, nil)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, shutdownCancel := context.WithTimeout(ctx, 30*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		structuredLogger.Error(ctx, "server forced to shutdown", err, nil)
	}
	structuredLogger.Info(ctx, "server exited", nil)
}
