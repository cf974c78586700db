package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/aretw0/plenum"
	"github.com/aretw0/plenum/internal/cli"
	httpAdapter "github.com/aretw0/plenum/pkg/adapters/http"
	"github.com/aretw0/plenum/pkg/domain"
	"github.com/aretw0/plenum/pkg/observability"
	"github.com/aretw0/plenum/pkg/persistence/middleware"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Exposes the parser over HTTP: POST /protocols parses and stores a protocol,
GET /protocols lists stored ids, GET /events streams section events and
GET /metrics serves Prometheus metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		port, _ := cmd.Flags().GetString("port")
		debug, _ := cmd.Flags().GetBool("debug")
		logger, err := cli.NewLogger(cmd.ErrOrStderr(), cfg, debug)
		if err != nil {
			return err
		}

		sc := cli.NewSignalContext(context.Background())
		defer sc.Cancel()

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

		b, err := cli.OpenBackend(sc, cfg.Store,
			middleware.NewLoggingMiddleware(logger),
			middleware.NewMetricsMiddleware(reg),
		)
		if err != nil {
			return err
		}
		defer b.Close()

		metrics := observability.NewMetrics(reg)
		streams := httpAdapter.NewStreamManager(logger)

		hooks := []domain.LifecycleHooks{metrics.Hooks(), streams.Hooks()}
		if debug {
			hooks = append(hooks, observability.LoggingHooks(logger))
		}
		parser, err := plenum.New(
			plenum.WithConfig(cfg),
			plenum.WithLogger(logger),
			plenum.WithLifecycleHooks(domain.ChainHooks(hooks...)),
		)
		if err != nil {
			return err
		}

		opts := []httpAdapter.Option{
			httpAdapter.WithLogger(logger),
			httpAdapter.WithStreams(streams),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		}
		if b.Locker != nil {
			opts = append(opts, httpAdapter.WithLocker(b.Locker))
		}

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           httpAdapter.NewHandler(parser, b.Store, opts...),
			ReadHeaderTimeout: 10 * time.Second,
		}

		serverErrors := make(chan error, 1)
		go func() {
			logger.Info("starting plenum server", "addr", srv.Addr, "store", cfg.Store.Backend)
			serverErrors <- srv.ListenAndServe()
		}()

		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sc.Done():
			logger.Info("start shutdown", "signal", sc.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				logger.Error("graceful shutdown did not complete", "error", err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			logger.Info("plenum server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
}
