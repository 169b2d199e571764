package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/miradorstack/broadcast-response/internal/api"
	"github.com/miradorstack/broadcast-response/internal/auth"
	"github.com/miradorstack/broadcast-response/internal/config"
	"github.com/miradorstack/broadcast-response/internal/engine"
	"github.com/miradorstack/broadcast-response/internal/metrics"
	"github.com/miradorstack/broadcast-response/internal/models"
	"github.com/miradorstack/broadcast-response/internal/notifications"
	"github.com/miradorstack/broadcast-response/internal/policy"
	"github.com/miradorstack/broadcast-response/internal/services"
	"github.com/miradorstack/broadcast-response/internal/utils"
)

func main() {
	var configPath string
	flag.StringVar(&configPath, "config", "", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		slog.Error("failed to load config",
			slog.String("path", configPath),
			slog.String("field", utils.FieldOf(err)),
			slog.Any("error", err))
		os.Exit(1)
	}

	logger := utils.NewLogger(cfg.Logging.Level, cfg.Logging.JSON)
	logger.Info("starting response engine", slog.String("address", cfg.Server.Address))

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		logger.Error("failed to register metrics", slog.Any("error", err))
		os.Exit(1)
	}

	policies, err := policy.NewHolder(cfg.StartupPolicy())
	if err != nil {
		logger.Error("invalid startup policy", slog.Any("error", err))
		os.Exit(1)
	}
	startup := policies.Load()
	logger.Info("attribution policy loaded",
		slog.Duration("window", startup.WindowDuration),
		slog.String("foreground_threshold", startup.ForegroundThreshold.String()))

	eng := engine.NewEngine(logger, policies)
	classifier := notifications.NewClassifier(logger, eng)
	authorizer := auth.NewAuthorizer(cfg.Auth.Enforce, cfg.Auth.PrivilegedCallers)
	if !cfg.Auth.Enforce {
		logger.Warn("caller checks disabled")
	}

	attributionService := services.NewAttributionService(logger, eng, classifier, authorizer)

	server, err := api.NewServer(cfg.Server, attributionService)
	if err != nil {
		logger.Error("failed to create gRPC server", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var background sync.WaitGroup
	if cfg.Tracker.SweepInterval > 0 {
		background.Add(1)
		go func() {
			defer background.Done()
			if err := eng.RunSweeper(ctx, cfg.Tracker.SweepInterval); err != nil {
				logger.Error("window sweeper exited", slog.Any("error", err))
			}
		}()
	}

	if cfg.Policy.OverridesPath != "" {
		background.Add(1)
		go func() {
			defer background.Done()
			apply := func(o models.PolicyOverrides) error {
				p, err := policies.Apply(o)
				if err != nil {
					return err
				}
				logger.Info("attribution policy updated",
					slog.Duration("window", p.WindowDuration),
					slog.String("foreground_threshold", p.ForegroundThreshold.String()))
				return nil
			}
			if err := config.WatchPolicyOverrides(ctx, cfg.Policy.OverridesPath, logger, apply); err != nil {
				logger.Error("policy watcher exited", slog.Any("error", err))
			}
		}()
	}

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = &http.Server{
			Addr:         cfg.Server.MetricsAddress,
			Handler:      mux,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 15 * time.Second,
		}
		go func() {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("metrics server exited", slog.Any("error", err))
				stop()
			}
		}()
	}

	go func() {
		if serveErr := server.Start(); serveErr != nil {
			logger.Error("gRPC server exited", slog.Any("error", serveErr))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
	defer cancel()
	server.Shutdown(shutdownCtx)

	if metricsServer != nil {
		metricsCtx, cancelMetrics := context.WithTimeout(context.Background(), 5*time.Second)
		if err := metricsServer.Shutdown(metricsCtx); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Warn("metrics server shutdown", slog.Any("error", err))
		}
		cancelMetrics()
	}

	background.Wait()
	logger.Info("response engine stopped",
		slog.Duration("latency_p95", attributionService.LatencyP95()),
		slog.Int("open_windows", eng.OpenWindows()))
}
