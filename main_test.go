package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"fittrack-dashboard/config"
	"fittrack-dashboard/models"
)

func TestNewLogger(t *testing.T) {
	log, err := newLogger("warn")
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zap.InfoLevel))
	assert.True(t, log.Core().Enabled(zap.WarnLevel))

	_, err = newLogger("chatty")
	assert.Error(t, err)
}

func TestDefaultsCommand(t *testing.T) {
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs([]string{"defaults"})
	t.Cleanup(func() { rootCmd.SetArgs(nil); rootCmd.SetOut(nil) })

	require.NoError(t, rootCmd.Execute())

	var st models.AppState
	require.NoError(t, json.Unmarshal(out.Bytes(), &st))
	assert.Len(t, st.Activity, 4)
	assert.Equal(t, 8543, st.Overview.Steps)
	assert.NoError(t, st.Validate())
}

func TestNewServer(t *testing.T) {
	probe := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer probe.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Config{
		Port:         "0",
		StorageKey:   "fittrack.v4",
		ExportPrefix: "fittrack",
		SessionTTL:   time.Minute,
		MaxSessions:  4,
		ChartURL:     probe.URL,
		ChartTimeout: time.Second,
		CORSOrigins:  []string{"*"},
	}
	srv, err := newServer(ctx, cfg, zap.NewNop(), prometheus.NewRegistry())
	require.NoError(t, err)
	assert.Equal(t, ":0", srv.Addr)

	rec := httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, "ok", rec.Body.String())

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"steps":8543`)

	rec = httptest.NewRecorder()
	srv.Handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, rec.Body.String(), "go_goroutines")
	assert.Contains(t, rec.Body.String(), "fittrack_sessions_active 1")
}
