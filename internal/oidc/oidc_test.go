package oidc

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// setupTestServer creates a test HTTP server that returns the specified response code and body.
func setupTestServer(responseCode int, responseBody string, headers map[string]string) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for key, value := range headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(responseCode)
		_, _ = w.Write([]byte(responseBody))
	}))
}

func TestGetWellKnownEndpoints(t *testing.T) {
	tests := []struct {
		name         string
		responseCode int
		responseBody string
		headers      map[string]string
		expectError  bool
		wantJWKSURI  string
	}{
		{
			name:         "Successful 200 response with valid JSON",
			responseCode: http.StatusOK,
			responseBody: `{"issuer":"https://login.microsoftonline.com/t1/v2.0","jwks_uri":"https://login.microsoftonline.com/t1/discovery/v2.0/keys"}`,
			headers:      map[string]string{"Content-Type": "application/json"},
			wantJWKSURI:  "https://login.microsoftonline.com/t1/discovery/v2.0/keys",
		},
		{
			name:         "Extra fields are ignored",
			responseCode: http.StatusOK,
			responseBody: `{"jwks_uri":"https://example.com/keys","token_endpoint":"https://example.com/token","scopes_supported":["openid"]}`,
			wantJWKSURI:  "https://example.com/keys",
		},
		{
			name:         "404 Not Found response",
			responseCode: http.StatusNotFound,
			responseBody: `{"error": "not found"}`,
			expectError:  true,
		},
		{
			name:         "503 Service Unavailable response",
			responseCode: http.StatusServiceUnavailable,
			responseBody: `{"jwks_uri":"https://example.com/keys"}`,
			expectError:  true,
		},
		{
			name:         "Malformed JSON response",
			responseCode: http.StatusOK,
			responseBody: `{"jwks_uri": "https://example.com/jwks"`,
			expectError:  true,
		},
		{
			name:         "Empty response",
			responseCode: http.StatusOK,
			responseBody: ``,
			expectError:  true,
		},
		{
			name:         "Non-JSON response",
			responseCode: http.StatusOK,
			responseBody: `<html><body>Error</body></html>`,
			headers:      map[string]string{"Content-Type": "text/html"},
			expectError:  true,
		},
		{
			name:         "Missing jwks_uri",
			responseCode: http.StatusOK,
			responseBody: `{"issuer":"https://example.com"}`,
			expectError:  true,
		},
		{
			name:         "Relative jwks_uri",
			responseCode: http.StatusOK,
			responseBody: `{"jwks_uri":"/keys"}`,
			expectError:  true,
		},
		{
			name:         "Redirect response",
			responseCode: http.StatusFound,
			responseBody: "",
			expectError:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := setupTestServer(tt.responseCode, tt.responseBody, tt.headers)
			defer server.Close()

			endpoints, err := GetWellKnownEndpoints(context.Background(), &http.Client{}, server.URL)

			if tt.expectError {
				if err == nil {
					t.Errorf("Expected error but got none")
				}
				return
			}

			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if endpoints.JWKSURI != tt.wantJWKSURI {
				t.Errorf("Expected jwks_uri %q, got %q", tt.wantJWKSURI, endpoints.JWKSURI)
			}
		})
	}
}

func TestGetWellKnownEndpoints_MissingJWKSURI(t *testing.T) {
	server := setupTestServer(http.StatusOK, `{"issuer":"https://example.com"}`, nil)
	defer server.Close()

	_, err := GetWellKnownEndpoints(context.Background(), &http.Client{}, server.URL)
	if !errors.Is(err, ErrJWKSURIMissing) {
		t.Errorf("Expected ErrJWKSURIMissing, got: %v", err)
	}
}

// Simulate a timeout scenario
func TestGetWellKnownEndpoints_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(2 * time.Second)
	}))
	defer server.Close()

	client := &http.Client{Timeout: 100 * time.Millisecond}
	_, err := GetWellKnownEndpoints(context.Background(), client, server.URL)

	if err == nil || !strings.Contains(err.Error(), "could not get well known endpoints") {
		t.Errorf("Expected timeout error, got: %v", err)
	}
}

// Test invalid request creation
func TestGetWellKnownEndpoints_InvalidRequest(t *testing.T) {
	_, err := GetWellKnownEndpoints(context.Background(), &http.Client{}, "://bad")

	if err == nil || !strings.Contains(err.Error(), "could not build request to get well known endpoints") {
		t.Errorf("Expected request creation error, got: %v", err)
	}
}

func TestGetWellKnownEndpoints_CancelledContext(t *testing.T) {
	server := setupTestServer(http.StatusOK, `{"jwks_uri":"https://example.com/keys"}`, nil)
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := GetWellKnownEndpoints(ctx, &http.Client{}, server.URL)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got: %v", err)
	}
}
