package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/miradorstack/spacex-dash/internal/api"
	"github.com/miradorstack/spacex-dash/internal/callbacks"
	"github.com/miradorstack/spacex-dash/internal/metrics"
	"github.com/miradorstack/spacex-dash/internal/web"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Load the dataset and serve the dashboard",
	Long: `Loads the launch records once, then serves the dashboard page over HTTP,
the Dashboard gRPC service and Prometheus metrics until interrupted.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := newLogger(cfg, os.Stdout)
	logger.Info("starting spacex-dash",
		slog.String("version", version),
		slog.String("http_address", cfg.Server.HTTPAddress),
		slog.String("grpc_address", cfg.Server.GRPCAddress),
	)

	if err := metrics.Register(prometheus.DefaultRegisterer); err != nil {
		return fmt.Errorf("register metrics: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	provider := newCacheProvider(cfg, logger)
	defer provider.Close()

	svc, err := loadDashboard(ctx, cfg, provider, logger)
	if err != nil {
		logger.Error("failed to load dataset", slog.Any("error", err))
		return err
	}

	registry := callbacks.NewRegistry()
	if err := callbacks.RegisterDashboard(registry, svc); err != nil {
		return fmt.Errorf("register callbacks: %w", err)
	}
	page := web.NewServer(logger, svc, registry, web.Options{
		Width:  cfg.Charts.Width,
		Height: cfg.Charts.Height,
	})
	httpServer := web.NewHTTPServer(cfg.Server.HTTPAddress, page, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	var grpcServer *api.Server
	if cfg.Server.GRPCAddress != "" {
		grpcServer, err = api.NewServer(cfg.Server, api.NewDashboardHandler(logger, svc))
		if err != nil {
			return fmt.Errorf("create gRPC server: %w", err)
		}
	}

	var metricsServer *http.Server
	if cfg.Server.MetricsAddress != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		metricsServer = web.NewHTTPServer(cfg.Server.MetricsAddress, mux, 5*time.Second, 15*time.Second)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("dashboard listening", slog.String("address", cfg.Server.HTTPAddress))
		return listen(httpServer)
	})
	if grpcServer != nil {
		g.Go(func() error {
			logger.Info("gRPC server listening", slog.String("address", grpcServer.Address()))
			if err := grpcServer.Start(); err != nil {
				return fmt.Errorf("gRPC server: %w", err)
			}
			return nil
		})
	}
	if metricsServer != nil {
		g.Go(func() error {
			logger.Info("metrics server listening", slog.String("address", cfg.Server.MetricsAddress))
			return listen(metricsServer)
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Warn("dashboard shutdown", slog.Any("error", err))
		}
		if grpcServer != nil {
			grpcServer.Shutdown(shutdownCtx)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				logger.Warn("metrics server shutdown", slog.Any("error", err))
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		logger.Error("server exited", slog.Any("error", err))
		return err
	}
	logger.Info("spacex-dash stopped")
	return nil
}

func listen(srv *http.Server) error {
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen on %s: %w", srv.Addr, err)
	}
	return nil
}
