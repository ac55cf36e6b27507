// Command web serves a parsed brokerage history export over a read-only
// JSON API: trade listing with filters, summary statistics, health and
// metrics endpoints.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"fidcli/internal/config"
	"fidcli/internal/dataprocessing"
	"fidcli/internal/infrastructure"
	"fidcli/internal/middleware"
	transporthttp "fidcli/internal/transport/http"
	"fidcli/pkg/contracts/domain"
)

func main() {
	var (
		filePath string
		addr     string
	)
	flag.StringVar(&filePath, "file", "", "history export file to serve")
	flag.StringVar(&addr, "addr", "", "listen address (overrides configured port)")
	flag.Parse()

	if filePath == "" {
		fmt.Fprintln(os.Stderr, "Usage: web -file <history_export.csv> [-addr :8080]")
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := infrastructure.InitializeLogger(cfg.Logging); err != nil {
		fmt.Fprintf(os.Stderr, "Error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer infrastructure.CloseLogFile()

	logger := slog.Default()

	parser := dataprocessing.NewParser(logger, cfg.Parser.LeadingLines)
	records, err := parser.ParseFile(filePath)
	if err != nil {
		logger.Error("failed to parse history file", slog.String("path", filePath), slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("serving history file", slog.String("path", filePath), slog.Int("records", len(records)))

	if addr == "" {
		addr = fmt.Sprintf(":%d", cfg.Server.Port)
	}

	srv := &http.Server{
		Addr:         addr,
		Handler:      newRouter(cfg, records, logger),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("server listening", slog.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server failed", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	<-done
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("shutdown failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func newRouter(cfg *config.Config, records []domain.TradeRecord, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.StructuredLogger)
	r.Use(middleware.Recoverer)
	if cfg.Server.RateLimit.Enabled {
		r.Use(middleware.RateLimiter(cfg.Server.RateLimit.RPS, cfg.Server.RateLimit.Burst))
	}

	r.Mount("/api", transporthttp.NewTradesHandler(records, logger).Routes())
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	return r
}
