package httpx

import (
	"bytes"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func TestLogging_OmitsQueryString(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	}))

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/receivers?token=abc123", nil))

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Contains(t, logs.String(), `"path":"/api/receivers"`)
	assert.Contains(t, logs.String(), `"status":202`)
	assert.NotContains(t, logs.String(), "abc123")
}

func TestRecover_ReturnsServerError(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))
	h := Recover(logger)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() {
		h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, logs.String(), "boom")
}

func TestMaxBody_RejectsOversizedJSON(t *testing.T) {
	h := MaxBody(16)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var dst map[string]any
		if !DecodeJSON(w, r, &dst) {
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}))

	rec := httptest.NewRecorder()
	big := `{"title":"` + strings.Repeat("x", 64) + `"}`
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/notify", strings.NewReader(big)))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/notify", strings.NewReader(`{"a":1}`)))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestDecodeJSON_RejectsTrailingData(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader(`{"a":1}{"b":2}`)))

	var dst map[string]any
	assert.False(t, DecodeJSON(rec, req, &dst))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestTracing_NamesSpanByRoute(t *testing.T) {
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/receivers/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	h := Tracing(tp)(mux)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/receivers/r-1", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)

	ended := spans.Ended()
	require.Len(t, ended, 1)
	assert.Equal(t, "GET /api/receivers/{id}", ended[0].Name())
	assert.Equal(t, "Error", ended[0].Status().Code.String())
}
