package app_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"todoBoard/internal/app"
	"todoBoard/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			RequestTimeout:  5 * time.Second,
			ShutdownTimeout: 5 * time.Second,
			RateLimit:       1000,
		},
		Repository: config.RepositoryConfig{Type: config.RepositoryInMemory},
		CORS:       config.CORSConfig{AllowedOrigins: []string{"http://localhost:5173"}},
	}
}

func TestApp_Handler(t *testing.T) {
	a, err := app.New(testConfig()).Init(context.Background())
	require.NoError(t, err)

	srv := httptest.NewServer(a.Handler())
	t.Cleanup(srv.Close)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Request-ID"))

	resp, err = http.Post(srv.URL+"/api/todos", "application/json",
		bytes.NewBufferString(`{"text": "Buy milk", "deadline": "2099-01-01T00:00"}`))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/todos", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, "http://localhost:5173", resp.Header.Get("Access-Control-Allow-Origin"))
}

func TestApp_InitUnknownRepository(t *testing.T) {
	cfg := testConfig()
	cfg.Repository.Type = "sqlite"

	_, err := app.New(cfg).Init(context.Background())
	assert.Error(t, err)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	a, err := app.New(testConfig()).Init(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- a.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
