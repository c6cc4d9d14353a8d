package main

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"apod/server/internal/config"
)

func testConfig(t *testing.T, providerURL string) config.Config {
	t.Helper()
	dir := t.TempDir()
	return config.Config{
		APIKey:       "KEY",
		DataDir:      dir,
		DBPath:       filepath.Join(dir, "apod.db"),
		WallpaperDir: filepath.Join(dir, "wallpapers"),
		ProviderURL:  providerURL,
		ProviderQPS:  2,
		PollInterval: time.Hour,
		Location:     time.UTC,
		NodeID:       1,
	}
}

func TestApp_ProbeProvider(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	a, err := newApp(testConfig(t, srv.URL))
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.probeProvider(context.Background()))
}

func TestApp_ProbeProvider_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	a, err := newApp(testConfig(t, url))
	require.NoError(t, err)
	defer a.Close()

	require.Error(t, a.probeProvider(context.Background()))
}

func TestApp_WiresStore(t *testing.T) {
	a, err := newApp(testConfig(t, "http://127.0.0.1:0"))
	require.NoError(t, err)
	defer a.Close()

	require.NoError(t, a.repo.Ping(context.Background()))
	entries, err := a.apod.ListAll(context.Background())
	require.NoError(t, err)
	require.Empty(t, entries)
}
