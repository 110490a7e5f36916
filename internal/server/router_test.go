package server_test

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aleister1102/urlstripper/internal/config"
	"github.com/aleister1102/urlstripper/internal/metrics"
	"github.com/aleister1102/urlstripper/internal/options"
	"github.com/aleister1102/urlstripper/internal/server"
	"github.com/aleister1102/urlstripper/internal/stripper"
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, maxBody int64) (*echo.Echo, *prometheus.Registry) {
	t.Helper()
	reg := prometheus.NewRegistry()
	collector := metrics.NewCollector()
	require.NoError(t, collector.Register(reg))

	provider := options.NewStatic(testQueryRules, "")
	s := stripper.New(provider, stripper.WithObserver(collector))
	router := server.NewRouter(
		server.NewStripHandler(s, zerolog.Nop()),
		server.NewRulesHandler(provider, zerolog.Nop()),
		server.RouterOptions{MaxBodyBytes: maxBody, Gatherer: reg, Logger: zerolog.Nop()},
	)
	return router, reg
}

func TestNewRouter_RegistersRoutes(t *testing.T) {
	e, _ := newTestRouter(t, 0)

	routes := e.Routes()
	assertRoute(t, routes, http.MethodGet, "/healthz")
	assertRoute(t, routes, http.MethodGet, "/metrics")
	assertRoute(t, routes, http.MethodPost, "/api/v1/strip")
	assertRoute(t, routes, http.MethodPost, "/api/v1/sanitize/text")
	assertRoute(t, routes, http.MethodPost, "/api/v1/sanitize")
	assertRoute(t, routes, http.MethodGet, "/api/v1/rules")
	assertRoute(t, routes, http.MethodPut, "/api/v1/rules")
}

func TestNewRouter_MetricsDisabled(t *testing.T) {
	router := server.NewRouter(
		newTestStripHandler(nil),
		server.NewRulesHandler(nil, zerolog.Nop()),
		server.RouterOptions{Logger: zerolog.Nop()},
	)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestNewRouter_EndToEnd(t *testing.T) {
	e, _ := newTestRouter(t, 0)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, newJSONRequest(http.MethodPost, "/api/v1/strip", map[string]string{"url": "https://x.test/?utm_source=a"}))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"output":"https://x.test/"`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `urlstripper_urls_processed_total{outcome="changed"} 1`)
	assert.Contains(t, rec.Body.String(), `urlstripper_params_removed_total 1`)

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewRouter_BodyLimit(t *testing.T) {
	e, _ := newTestRouter(t, 64)

	rec := httptest.NewRecorder()
	body := `{"text":"` + strings.Repeat("a", 200) + `"}`
	e.ServeHTTP(rec, newJSONRequestRaw(http.MethodPost, "/api/v1/sanitize/text", body))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestServer_ServeAndShutdown(t *testing.T) {
	router, _ := newTestRouter(t, 0)
	cfg := config.NewDefaultServerConfig()
	srv := server.NewServer(cfg, router, zerolog.Nop())

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, listener) }()

	url := "http://" + listener.Addr().String() + "/healthz"
	require.Eventually(t, func() bool {
		resp, err := http.Get(url)
		if err != nil {
			return false
		}
		defer resp.Body.Close()
		_, _ = io.Copy(io.Discard, resp.Body)
		return resp.StatusCode == http.StatusOK
	}, 3*time.Second, 20*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
