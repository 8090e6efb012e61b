// Command platform-processor serves the platform processor API behind
// Azure AD bearer-token authentication.
package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/portalinsights/aadauth"
	"github.com/portalinsights/aadauth/config"
	"github.com/portalinsights/aadauth/internal/server"
	"github.com/portalinsights/aadauth/jwks"
	"github.com/portalinsights/aadauth/validator"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "platform-processor",
		Short:        "Azure GraphQL Platform Processor",
		Long:         `Platform processor API. Every protected route requires a bearer token issued by the configured Azure AD tenant.`,
		SilenceUsage: true,
		RunE:         runServe,
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE:  runServe,
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "check-config",
		Short: "Validate the environment configuration and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if _, err := server.LoadSettings(); err != nil {
				return err
			}
			cfg, err := config.FromEnv()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "issuer: %s\ndiscovery: %s\naudience: %s\nalgorithms: %v\n",
				cfg.Issuer(), cfg.DiscoveryURL(), cfg.ClientID(), cfg.Algorithms())
			return nil
		},
	})

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "platform-processor %s\n", server.Version)
		},
	})

	return rootCmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	settings, err := server.LoadSettings()
	if err != nil {
		return err
	}

	logger, err := newLogger(settings.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()
	sugar := logger.Sugar()

	// Missing identity-provider settings are fatal: no listener is opened.
	cfg, err := config.FromEnv()
	if err != nil {
		sugar.Errorw("invalid configuration", "error", err)
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := aadauth.NewPrometheusMetrics(registry)
	authLogger := aadauth.NewZapLogger(sugar)

	gate, err := newGate(cfg, settings, authLogger, metrics)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := &http.Server{
		Addr:    settings.ListenAddr,
		Handler: server.Router(gate, registry, nil),
	}

	sugar.Infow("starting server",
		"addr", settings.ListenAddr,
		"issuer", cfg.Issuer(),
		"audience", cfg.ClientID(),
	)
	if err := server.Serve(ctx, srv, settings.ShutdownTimeout); err != nil {
		sugar.Errorw("server stopped", "error", err)
		return err
	}
	sugar.Infow("server stopped")
	return nil
}

func newGate(cfg *config.Config, settings server.Settings, logger aadauth.Logger, metrics aadauth.Metrics) (*aadauth.Gate, error) {
	cache, err := jwks.New(cfg.DiscoveryURL(),
		jwks.WithHTTPClient(&http.Client{Timeout: settings.JWKSFetchTimeout}),
		jwks.WithLogger(logger),
		jwks.WithMetrics(metrics),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up key cache: %w", err)
	}

	v, err := validator.New(
		validator.WithKeySetProvider(cache),
		validator.WithConfig(cfg),
		validator.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to set up token validator: %w", err)
	}

	return aadauth.New(
		aadauth.WithVerifier(v),
		aadauth.WithConfig(cfg),
		aadauth.WithLogger(logger),
		aadauth.WithMetrics(metrics),
		aadauth.WithTracer(aadauth.NewOpenTelemetryTracer(otel.Tracer("github.com/portalinsights/aadauth"))),
	)
}

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	return zc.Build()
}
