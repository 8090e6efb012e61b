// Package server wires the authentication gate into the platform
// processor's HTTP surface.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joeshaw/envdecode"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/portalinsights/aadauth"
)

const (
	// ServiceName is reported by the health endpoints.
	ServiceName = "Azure GraphQL Platform Processor"
	// Version is the service version reported by the health endpoints and
	// the version command.
	Version = "1.0.0"
)

// Settings holds process-level settings that are not part of the identity
// provider configuration.
type Settings struct {
	ListenAddr       string        `env:"LISTEN_ADDR,default=:8000"`
	LogLevel         string        `env:"LOG_LEVEL,default=info"`
	JWKSFetchTimeout time.Duration `env:"JWKS_FETCH_TIMEOUT,default=30s"`
	ShutdownTimeout  time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

// LoadSettings reads Settings from the environment.
func LoadSettings() (Settings, error) {
	var s Settings
	if err := envdecode.Decode(&s); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return Settings{}, fmt.Errorf("could not read server settings: %w", err)
	}
	if s.JWKSFetchTimeout <= 0 {
		return Settings{}, fmt.Errorf("JWKS_FETCH_TIMEOUT must be positive, got %s", s.JWKSFetchTimeout)
	}
	return s, nil
}

// HealthStatus is the body served by the health endpoints.
type HealthStatus struct {
	Status    string `json:"status"`
	Service   string `json:"service"`
	Version   string `json:"version"`
	Timestamp string `json:"timestamp"`
}

// Router builds the HTTP handler. Health and metrics endpoints are public;
// everything mounted under the protected group goes through gate.
func Router(gate *aadauth.Gate, gatherer prometheus.Gatherer, now func() time.Time) http.Handler {
	if now == nil {
		now = time.Now
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"message": "Welcome to the " + ServiceName,
		})
	})

	health := func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthStatus{
			Status:    "healthy",
			Service:   ServiceName,
			Version:   Version,
			Timestamp: now().UTC().Format(time.RFC3339),
		})
	}
	r.Get("/healthcheck", health)
	r.Get("/health", health)
	r.Get("/status", health)

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Group(func(r chi.Router) {
		r.Use(gate.CheckAuth)
		r.Get("/me", func(w http.ResponseWriter, req *http.Request) {
			identity, err := aadauth.IdentityFrom(req.Context())
			if err != nil {
				gate.HandleError(w, req, err)
				return
			}
			writeJSON(w, http.StatusOK, identity)
		})
	})

	return r
}

// Serve runs srv until ctx is cancelled, then shuts it down within
// shutdownTimeout.
func Serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
