// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestNew(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{"/v1/analyze": okHandler}))
	require.NotNil(t, s)
	assert.NotNil(t, s.config)
	assert.NotNil(t, s.httpServer)
	assert.NotNil(t, s.rateLimiter)
	assert.Contains(t, s.config.Handlers, "/v1/analyze")
	assert.Contains(t, s.config.Handlers, "/")
	assert.Equal(t, "server", s.config.Name)
}

func TestOptions(t *testing.T) {
	s := New(WithName("mealwised"), WithVersion("v1.2.3"),
		WithHandler(map[string]http.HandlerFunc{"/a": okHandler}),
		WithHandler(map[string]http.HandlerFunc{"/b": okHandler}))

	assert.Equal(t, "mealwised", s.config.Name)
	assert.Equal(t, "v1.2.3", s.config.Version)
	assert.Contains(t, s.config.Handlers, "/a")
	assert.Contains(t, s.config.Handlers, "/b")
}

func TestWithConfig(t *testing.T) {
	cfg := NewConfig()
	cfg.Port = 9999
	cfg.Name = "custom"

	s := New(WithHandler(map[string]http.HandlerFunc{"/a": okHandler}), WithConfig(cfg))
	assert.Equal(t, 9999, s.config.Port)
	assert.Equal(t, ":9999", s.httpServer.Addr)
	assert.Contains(t, s.config.Handlers, "/a", "handlers added before WithConfig are kept")

	s = New(WithConfig(nil))
	assert.Equal(t, 8080, s.config.Port)
}

func TestHealthEndpoint(t *testing.T) {
	s := New()

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	w = httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/health", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestReadyEndpoint(t *testing.T) {
	s := New()

	tests := []struct {
		name   string
		ready  bool
		status int
		body   string
	}{
		{"ready", true, http.StatusOK, "ready"},
		{"not ready", false, http.StatusServiceUnavailable, "not_ready"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s.setReady(tt.ready)
			w := httptest.NewRecorder()
			s.handleReady(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.status, w.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.body, resp.Status)
		})
	}
}

func TestReadinessChecks(t *testing.T) {
	healthy := func(context.Context) error { return nil }
	failing := func(context.Context) error { return errors.New("reference table not loaded") }

	tests := []struct {
		name   string
		opts   []Option
		status int
		checks map[string]string
	}{
		{"no checks", nil, http.StatusOK, nil},
		{"nil check ignored", []Option{WithReadinessCheck("data", nil)}, http.StatusOK, nil},
		{"passing", []Option{WithReadinessCheck("data", healthy)}, http.StatusOK,
			map[string]string{"data": "ok"}},
		{"one failing", []Option{WithReadinessCheck("data", healthy), WithReadinessCheck("foods", failing)},
			http.StatusServiceUnavailable,
			map[string]string{"data": "ok", "foods": "reference table not loaded"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := New(tt.opts...)
			s.setReady(true)

			w := httptest.NewRecorder()
			s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

			assert.Equal(t, tt.status, w.Code)
			var resp HealthResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.checks, resp.Checks)
		})
	}
}

func TestMetricsEndpoint(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{"/v1/analyze": okHandler}))

	// one request so the route counters exist
	s.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/v1/analyze", nil))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "mealwise_http_requests_total")
	assert.Contains(t, w.Body.String(), `path="/v1/analyze"`)
}

func TestRateLimiting(t *testing.T) {
	cfg := NewConfig()
	cfg.RateLimit = 1
	cfg.RateLimitBurst = 1
	cfg.Handlers = map[string]http.HandlerFunc{"/test": okHandler}

	s := New(WithConfig(cfg))
	handler := s.withMiddleware("/test", s.config.Handlers["/test"])

	w1 := httptest.NewRecorder()
	handler(w1, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusOK, w1.Code)

	w2 := httptest.NewRecorder()
	handler(w2, httptest.NewRequest(http.MethodGet, "/test", nil))
	assert.Equal(t, http.StatusTooManyRequests, w2.Code)
	assert.Equal(t, "1", w2.Header().Get("Retry-After"))
}

func TestGracefulShutdown(t *testing.T) {
	cfg := NewConfig()
	cfg.Port = 0
	cfg.ShutdownTimeout = 100 * time.Millisecond

	s := New(WithConfig(cfg))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Start(ctx)
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-errChan:
		assert.NoError(t, err, "expected clean shutdown")
	case <-time.After(time.Second):
		t.Fatal("shutdown timed out")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.False(t, s.ready)
}

func TestIndexHandler(t *testing.T) {
	s := New(WithName("mealwised"), WithVersion("v0.1.0"),
		WithHandler(map[string]http.HandlerFunc{"/v1/foods": okHandler, "/v1/analyze": okHandler}))
	s.setReady(true)

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp IndexResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "mealwised", resp.Name)
	assert.Equal(t, "v0.1.0", resp.Version)
	assert.True(t, resp.Ready)
	assert.Equal(t, []string{"/health", "/metrics", "/ready", "/v1/analyze", "/v1/foods"}, resp.Routes)
}

func TestIndexHandlerErrors(t *testing.T) {
	s := New()

	t.Run("method not allowed", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{}")))
		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
		assert.Equal(t, http.MethodGet, w.Header().Get("Allow"))
	})

	t.Run("unknown path", func(t *testing.T) {
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
		assert.Equal(t, "NOT_FOUND", decodeError(t, w).Code)
	})
}

func TestCustomRootHandlerNotOverridden(t *testing.T) {
	s := New(WithHandler(map[string]http.HandlerFunc{
		"/": func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusTeapot)
		},
	}))

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusTeapot, w.Code)
}
