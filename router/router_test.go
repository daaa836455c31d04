// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haris-hm/gorkminion-voting-machine/auth"
	"github.com/haris-hm/gorkminion-voting-machine/ballot"
	"github.com/haris-hm/gorkminion-voting-machine/clock"
	"github.com/haris-hm/gorkminion-voting-machine/gateway"
	"github.com/haris-hm/gorkminion-voting-machine/ledger"
	"github.com/haris-hm/gorkminion-voting-machine/middleware"
	"github.com/haris-hm/gorkminion-voting-machine/session"
	"github.com/haris-hm/gorkminion-voting-machine/tally"
	"github.com/haris-hm/gorkminion-voting-machine/testutil"
)

var start = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func setupRouter(t *testing.T) *http.ServeMux {
	t.Helper()

	cfg := testutil.GetTestConfig()
	st := testutil.SetupTestStore(t)
	testutil.CreateTestBallot(t, st, "march-2025", 4, start, time.Hour)

	clk := clock.Fake(start)
	msgr := testutil.NewMessenger()
	registry := ballot.NewRegistry(st, clk, nil)
	l := ledger.New(st, clk, nil)

	return NewRouter(Deps{
		Registry:  registry,
		Creator:   ballot.NewCreator(registry, msgr, nil),
		Tabulator: tally.New(st),
		Ledger:    l,
		Sessions:  session.NewManager(l, registry, msgr, clk, cfg.SessionIdleTimeout, nil),
		Gateway:   gateway.NewHub(nil),
	}, cfg)
}

func TestHealthEndpoint(t *testing.T) {
	mux := setupRouter(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	if w.Body.String() != "OK" {
		t.Errorf("Expected body 'OK', got '%s'", w.Body.String())
	}
}

func TestRootEndpoint(t *testing.T) {
	mux := setupRouter(t)

	req := httptest.NewRequest("GET", "/", nil)
	w := httptest.NewRecorder()

	mux.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", w.Code)
	}

	expected := "gorkminion-voting-machine API v1"
	if w.Body.String() != expected {
		t.Errorf("Expected body '%s', got '%s'", expected, w.Body.String())
	}
}

func TestRouteExistence(t *testing.T) {
	mux := setupRouter(t)

	// 400, 401, 404 and 410 all mean the handler ran
	testCases := []struct {
		method string
		path   string
	}{
		{"GET", "/health"},
		{"GET", "/"},

		{"POST", "/ballots"},
		{"GET", "/ballots"},
		{"GET", "/ballots/march-2025"},
		{"GET", "/ballots/march-2025/results"},
		{"GET", "/ballots/march-2025/sequences"},

		{"POST", "/ballots/march-2025/vote"},
		{"POST", "/sessions/test-session/actions"},

		{"GET", "/gateway"},
	}

	for _, tc := range testCases {
		t.Run(tc.method+" "+tc.path, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code == http.StatusMethodNotAllowed {
				t.Errorf("Route %s %s returned 405, expected route handler to exist", tc.method, tc.path)
			}
		})
	}
}

func TestSpecificMethodRouting(t *testing.T) {
	mux := setupRouter(t)

	testCases := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{"POST to health endpoint", "POST", "/health", http.StatusMethodNotAllowed},
		{"DELETE a ballot", "DELETE", "/ballots/march-2025", http.StatusMethodNotAllowed},
		{"GET a vote", "GET", "/ballots/march-2025/vote", http.StatusMethodNotAllowed},
		{"unknown path", "GET", "/nowhere", http.StatusNotFound},
		{"PUT an action", "PUT", "/sessions/test-session/actions", http.StatusMethodNotAllowed},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(tc.method, tc.path, nil)
			w := httptest.NewRecorder()

			mux.ServeHTTP(w, req)

			if w.Code != tc.expectedStatus {
				t.Errorf("Expected %d for %s %s, got %d", tc.expectedStatus, tc.method, tc.path, w.Code)
			}
		})
	}
}

func TestPathParameterExtraction(t *testing.T) {
	mux := setupRouter(t)

	t.Run("ballot ID extraction", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ballots/march-2025", nil)
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 for a stored ballot, got %d. Body: %s", w.Code, w.Body.String())
		}
	})

	t.Run("admin key bound to ballot ID", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ballots/march-2025/sequences", nil)
		req.Header.Set("X-Admin-Key", auth.GenerateAdminKey("march-2025", testutil.GetTestConfig().AdminKeySalt))
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Errorf("Expected 200 with the ballot's admin key, got %d. Body: %s", w.Code, w.Body.String())
		}
	})

	t.Run("request id echoed", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/ballots", nil)
		req.Header.Set(middleware.RequestIDHeader, "req-123")
		w := httptest.NewRecorder()

		mux.ServeHTTP(w, req)

		if got := w.Header().Get(middleware.RequestIDHeader); got != "req-123" {
			t.Errorf("Expected request id req-123, got %q", got)
		}
	})
}
