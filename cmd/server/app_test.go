package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/demobank/internal/infrastructure/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("STORAGE_BACKEND", config.BackendMemory)
	t.Setenv("REDIS_URL", "")
	t.Setenv("AUTH_ENABLED", "false")

	cfg, err := config.Load(writeEnvFile(t, ""))
	require.NoError(t, err)
	return cfg
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := t.TempDir() + "/test.env"
	require.NoError(t, writeFile(path, content))
	return path
}

func TestNewApp_MemoryBackend(t *testing.T) {
	cfg := testConfig(t)

	a, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer a.Close()

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/accounts?owner_id=demo-user-alice", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "acc-alice-checking")

	rec = httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestNewApp_WithRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig(t)
	cfg.RedisURL = "redis://" + mr.Addr()

	a, err := newApp(context.Background(), cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer a.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = a.dispatcher.Start(ctx)
	}()

	sub := subscribe(t, mr)
	defer sub.Close()

	body := `{"from_account_id":"acc-alice-checking","to_account_id":"acc-bob-checking","amount":"10"}`
	post := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/transfers", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "abc")
		rec := httptest.NewRecorder()
		a.handler.ServeHTTP(rec, req)
		return rec
	}

	first := post()
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	second := post()
	require.Equal(t, http.StatusCreated, second.Code)
	assert.Equal(t, "true", second.Header().Get("X-Idempotency-Replay"))

	msg, err := sub.ReceiveTimeout(context.Background(), 2*time.Second)
	require.NoError(t, err)
	assert.NotNil(t, msg)

	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"redis":"ok"`)

	cancel()
	<-done
}

func TestNewApp_RedisUnavailable(t *testing.T) {
	cfg := testConfig(t)
	cfg.RedisURL = "redis://127.0.0.1:1"

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := newApp(ctx, cfg, zerolog.Nop(), prometheus.NewRegistry())
	require.Error(t, err)
}
