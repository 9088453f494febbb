package main

import (
	"context"
	"errors"
	"log/slog"
	stdhttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/vncsmyrnk/escrutinio/internal/adapters/audit"
	"github.com/vncsmyrnk/escrutinio/internal/adapters/handler/http"
	"github.com/vncsmyrnk/escrutinio/internal/adapters/repository/postgres"
	"github.com/vncsmyrnk/escrutinio/internal/config"
	"github.com/vncsmyrnk/escrutinio/internal/core/ports"
	"github.com/vncsmyrnk/escrutinio/internal/core/services"
	"github.com/vncsmyrnk/escrutinio/internal/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := cfg.RequireSecret(); err != nil {
		return err
	}

	logger := logging.New(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)
	auditLog := logging.Audit(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, postgresConfig(cfg.Database))
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.MigrateOnStart {
		if err := postgres.Migrate(ctx, db); err != nil {
			return err
		}
		logger.Info("migrations applied")
	}

	var auditLogger ports.AuditLogger = audit.NewSlogLogger(auditLog)
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaLogger := audit.NewKafkaLogger(cfg.Kafka.Brokers, cfg.Kafka.AuditTopic, logger)
		defer kafkaLogger.Close()
		auditLogger = audit.Multi(auditLogger, kafkaLogger)
		logger.Info("publishing audit events to kafka", "topic", cfg.Kafka.AuditTopic)
	}

	// Repositories
	ledgerRepo := postgres.NewLedgerRepository(db)
	stationRepo := postgres.NewStationRepository(db)
	ballotRepo := postgres.NewBallotRepository(db)
	aggregationRepo := postgres.NewAggregationRepository(db)
	userRepo := postgres.NewUserRepository(db)
	authRepo := postgres.NewAuthRepository(db)

	// Services
	ballotSvc := services.NewBallotService(ballotRepo)
	submissionSvc := services.NewSubmissionService(ledgerRepo, auditLogger, logger)
	stationSvc := services.NewStationService(stationRepo, ledgerRepo)
	aggregationSvc := services.NewAggregationService(aggregationRepo, ballotSvc)
	userSvc := services.NewUserService(userRepo, cfg.Auth.OnlineWindow)
	authSvc := services.NewAuthService(userRepo, authRepo, auditLogger, services.AuthConfig{
		Secret:    []byte(cfg.Auth.JWTSecret),
		AccessTTL: cfg.Auth.JWTTTL,
	})

	handler := http.NewHandler(http.Handlers{
		Auth: http.NewAuthHandler(authSvc, http.CookieConfig{
			Domain:    cfg.Auth.CookieDomain,
			Secure:    cfg.Auth.CookieSecure,
			SameSite:  stdhttp.SameSiteLaxMode,
			AccessTTL: cfg.Auth.JWTTTL,
		}, logger),
		User:       http.NewUserHandler(userSvc, logger),
		Submission: http.NewSubmissionHandler(submissionSvc, logger),
		Station:    http.NewStationHandler(stationSvc, logger),
		Ballot:     http.NewBallotHandler(ballotSvc, logger),
		Panel:      http.NewPanelHandler(aggregationSvc, cfg.Panel.OfficeA, cfg.Panel.OfficeB, logger),
		Health:     http.NewHealthHandler(db, logger),
	}, authSvc, http.RouterConfig{
		AllowedOrigins: cfg.CORSOrigins,
		Logger:         logger,
		AuditLogger:    auditLog,
	})

	server := &stdhttp.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, stdhttp.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}
	logger.Info("gracefully shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}

func postgresConfig(c config.DatabaseConfig) postgres.Config {
	return postgres.Config{
		Host:         c.Host,
		Port:         c.Port,
		User:         c.User,
		Password:     c.Password,
		Name:         c.Name,
		SSLMode:      c.SSLMode,
		MaxOpenConns: c.MaxOpenConns,
		MaxIdleConns: c.MaxIdleConns,
	}
}
