package aadauth

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/portalinsights/aadauth/core"
)

func TestNoopTracer(t *testing.T) {
	tracer := &NoopTracer{}
	ctx := context.Background()
	gotCtx, span := tracer.StartSpan(ctx, "test_span")

	_, ok := span.(*NoopSpan)
	assert.True(t, ok, "Should return a NoopSpan")
	assert.Equal(t, ctx, gotCtx)

	// Test span methods - these should not panic
	span.SetTag("tag", "value")
	span.SetError(errors.New("failed"))
	span.Finish()
}

func TestOpenTelemetryTracer(t *testing.T) {
	tp := noop.NewTracerProvider()
	tracer := NewOpenTelemetryTracer(tp.Tracer("test"))

	_, span := tracer.StartSpan(context.Background(), "test_span")

	_, ok := span.(*OpenTelemetrySpan)
	assert.True(t, ok, "Should return an OpenTelemetrySpan")

	span.SetTag("tag", "value")
	span.SetError(errors.New("failed"))
	span.Finish()
}

type recordingTracer struct {
	names []string
	tags  map[string]any
	err   error
}

type recordingSpan struct{ tracer *recordingTracer }

func (r *recordingTracer) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	r.names = append(r.names, name)
	if r.tags == nil {
		r.tags = map[string]any{}
	}
	return ctx, &recordingSpan{tracer: r}
}

func (s *recordingSpan) Finish()                      {}
func (s *recordingSpan) SetTag(key string, value any) { s.tracer.tags[key] = value }
func (s *recordingSpan) SetError(err error)           { s.tracer.err = err }

func TestGate_Tracing(t *testing.T) {
	tracer := &recordingTracer{}
	gate, err := New(
		WithVerifier(verifierReturning(nil, core.NewAuthError(core.KindUnknownKey, "Unable to find a matching key to verify the token.", nil))),
		WithChallenge(testChallenge),
		WithTracer(tracer),
	)
	require.NoError(t, err)

	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.Header.Set("Authorization", "Bearer t")
	_, err = gate.Authenticate(request)
	require.Error(t, err)

	assert.Equal(t, []string{"aadauth.Authenticate"}, tracer.names)
	assert.Equal(t, "unknown_key", tracer.tags["aadauth.result"])
	assert.Error(t, tracer.err)
}
