package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/pkordes/tour-allocation/internal/config"
	"github.com/pkordes/tour-allocation/internal/handler"
	"github.com/pkordes/tour-allocation/internal/metrics"
	"github.com/pkordes/tour-allocation/internal/middleware"
	"github.com/pkordes/tour-allocation/internal/repo"
	"github.com/pkordes/tour-allocation/internal/service"
)

func serveCommand() *cobra.Command {
	var migrateFirst bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			if migrateFirst {
				if err := runMigrations(cmd.Context(), cfg.DatabaseURL, "up", logger); err != nil {
					return err
				}
			}
			return serve(cmd.Context(), cfg, logger)
		},
	}
	cmd.Flags().BoolVar(&migrateFirst, "migrate", false, "apply pending migrations before serving")
	return cmd
}

func serve(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Stores -------------------------------------------------------------
	// pgxpool.New does not open connections immediately; Ping verifies the
	// DB is reachable before accepting traffic.
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("create database pool: %w", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	logger.Info("database connection established")

	rdb, err := repo.NewRedisClient(ctx, cfg.RedisURL)
	if err != nil {
		return err
	}
	defer rdb.Close()
	logger.Info("redis connection established")

	// --- Metrics ------------------------------------------------------------
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// --- Services -----------------------------------------------------------
	tours := repo.NewTourRepo(pool)
	travelers := repo.NewTravelerRepo(pool)
	containers := repo.NewContainerRepo(pool)
	assignments := repo.NewAssignmentRepo(pool)
	nights := repo.NewNightRepo(pool)
	roster := repo.NewRosterRepo(rdb)

	server := handler.NewServer(
		service.NewTourService(tours, travelers, roster, logger),
		service.NewContainerService(tours, travelers, containers, assignments, nights, m, logger),
		service.NewContinuationService(tours, containers, nights, m, logger),
		service.NewAssignmentService(tours, travelers, containers, assignments, m, logger),
		service.NewRosterService(tours, travelers, containers, assignments, roster, m, logger),
		service.NewExportService(tours, travelers, containers, assignments),
		logger,
	)

	// --- Router -------------------------------------------------------------
	// Middleware is applied in order: RequestID, RealIP, Logger, Metrics,
	// Recoverer, CORS, body limit.
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewSlogLogger(logger))
	r.Use(middleware.NewMetricsHandler(m))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.NewCORSHandler(cfg.CORSOrigins))
	r.Use(middleware.NewMaxBodySizeHandler(cfg.MaxBodyBytes))

	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	r.Mount("/", server.Routes())

	// --- HTTP Server --------------------------------------------------------
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server starting", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
	}

	// Give in-flight requests up to 15 seconds to complete.
	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	logger.Info("server stopped")
	return nil
}
