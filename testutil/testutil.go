// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/haris-hm/gorkminion-voting-machine/cliparse"
	"github.com/haris-hm/gorkminion-voting-machine/db"
	"github.com/haris-hm/gorkminion-voting-machine/models"
	"github.com/haris-hm/gorkminion-voting-machine/store"
)

// SetupTestDB creates a fresh SQLite database file with the full schema. The
// file lives in the test's temp dir and is removed with it.
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	conn, err := db.Open("sqlite", filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// SetupTestStore returns a store over a fresh test database.
func SetupTestStore(t *testing.T) *store.Store {
	t.Helper()
	return store.New(SetupTestDB(t), nil)
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:               3318,
		DatabaseURL:        "test.db",
		DatabaseType:       "sqlite",
		AdminKeySalt:       "test-admin-salt",
		SweepInterval:      time.Minute,
		WarningWindow:      time.Hour,
		DefaultTTL:         24 * time.Hour,
		SessionIdleTimeout: 24 * time.Hour,
		ParticipantRoleID:  "role-participants",
	}
}

// TestOptions returns n options numbered from 1.
func TestOptions(n int) []models.Option {
	opts := make([]models.Option, n)
	for i := range opts {
		id := i + 1
		opts[i] = models.Option{
			ID:        id,
			Author:    fmt.Sprintf("author-%d", id),
			Title:     fmt.Sprintf("Icon %d", id),
			ThreadURL: fmt.Sprintf("https://chat.example/threads/%d", id),
			ImageURL:  fmt.Sprintf("https://cdn.example/icons/%d.png", id),
		}
	}
	return opts
}

// CreateTestBallot stores an open ballot with n options created at createdAt.
func CreateTestBallot(t *testing.T, st *store.Store, id string, n int, createdAt time.Time, ttl time.Duration) models.Ballot {
	t.Helper()

	b := models.Ballot{
		ID:             id,
		Options:        TestOptions(n),
		PostedLocation: models.MessageRef{ChannelID: "channel-ballots", MessageID: "msg-" + id},
		CreatedAt:      createdAt,
		TTL:            ttl,
		Winners:        []int{},
	}
	if err := st.UpsertBallot(context.Background(), b); err != nil {
		t.Fatalf("Failed to create test ballot: %v", err)
	}
	return b
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
