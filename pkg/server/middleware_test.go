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
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
)

func TestRequestIDMiddleware(t *testing.T) {
	s := New()

	tests := []struct {
		name     string
		provided string
		keep     bool
	}{
		{"generates when missing", "", false},
		{"keeps valid uuid", "550e8400-e29b-41d4-a716-446655440000", true},
		{"replaces invalid id", "not-a-valid-uuid", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := s.requestIDMiddleware(func(_ http.ResponseWriter, r *http.Request) {
				seen = RequestID(r.Context())
			})

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.provided != "" {
				req.Header.Set("X-Request-Id", tt.provided)
			}
			w := httptest.NewRecorder()
			handler(w, req)

			got := w.Header().Get("X-Request-Id")
			if got != seen {
				t.Fatalf("header %q and context %q differ", got, seen)
			}
			if _, err := uuid.Parse(got); err != nil {
				t.Fatalf("request ID %q is not a UUID", got)
			}
			if tt.keep && got != tt.provided {
				t.Fatalf("expected %q to be kept, got %q", tt.provided, got)
			}
			if !tt.keep && got == tt.provided {
				t.Fatalf("expected %q to be replaced", tt.provided)
			}
		})
	}
}

func TestVersionMiddleware(t *testing.T) {
	s := New()

	var seen string
	handler := s.versionMiddleware(func(_ http.ResponseWriter, r *http.Request) {
		seen = APIVersion(r.Context())
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept", "application/vnd.mealwise.v1+json")
	w := httptest.NewRecorder()
	handler(w, req)

	if got := w.Header().Get("X-API-Version"); got != "v1" {
		t.Errorf("expected X-API-Version v1, got %q", got)
	}
	if seen != "v1" {
		t.Errorf("expected v1 in context, got %q", seen)
	}
}

func TestRateLimitMiddleware_SetsHeaders(t *testing.T) {
	s := New()

	w := httptest.NewRecorder()
	s.rateLimitMiddleware(okHandler)(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	for _, h := range []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"} {
		if w.Header().Get(h) == "" {
			t.Errorf("expected %s header", h)
		}
	}
	if got := w.Header().Get("X-RateLimit-Limit"); got != "100" {
		t.Errorf("expected limit 100, got %q", got)
	}
}

func TestPanicRecoveryMiddleware(t *testing.T) {
	s := New()

	tests := []struct {
		name    string
		handler http.HandlerFunc
		want    int
	}{
		{"string panic", func(http.ResponseWriter, *http.Request) { panic("boom") }, http.StatusInternalServerError},
		{"error panic", func(http.ResponseWriter, *http.Request) { panic(errors.New("boom")) }, http.StatusInternalServerError},
		{"no panic", okHandler, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.panicRecoveryMiddleware(tt.handler)(w, httptest.NewRequest(http.MethodGet, "/", nil))
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestLoggingMiddleware_PassesStatus(t *testing.T) {
	s := New()

	w := httptest.NewRecorder()
	s.loggingMiddleware(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})(w, httptest.NewRequest(http.MethodGet, "/", nil))

	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestMiddlewareChain_SetsAllHeaders(t *testing.T) {
	s := New()

	var requestID string
	handler := s.withMiddleware("/v1/test", func(w http.ResponseWriter, r *http.Request) {
		requestID = RequestID(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	w := httptest.NewRecorder()
	handler(w, httptest.NewRequest(http.MethodGet, "/v1/test", nil))

	if requestID == "" {
		t.Error("expected request ID in handler context")
	}
	for _, h := range []string{"X-Request-Id", "X-API-Version", "X-RateLimit-Limit"} {
		if w.Header().Get(h) == "" {
			t.Errorf("expected %s header", h)
		}
	}
}

func TestResponseWriter_FirstStatusWins(t *testing.T) {
	rec := httptest.NewRecorder()
	rw := newResponseWriter(rec)

	rw.WriteHeader(http.StatusCreated)
	rw.WriteHeader(http.StatusInternalServerError)

	if rw.Status() != http.StatusCreated || rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got writer %d recorder %d", rw.Status(), rec.Code)
	}
	if rw.Unwrap() != rec {
		t.Fatal("Unwrap should return the underlying writer")
	}
}
