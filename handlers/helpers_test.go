// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/haris-hm/gorkminion-voting-machine/auth"
	"github.com/haris-hm/gorkminion-voting-machine/ballot"
	"github.com/haris-hm/gorkminion-voting-machine/cliparse"
	"github.com/haris-hm/gorkminion-voting-machine/clock"
	"github.com/haris-hm/gorkminion-voting-machine/ledger"
	"github.com/haris-hm/gorkminion-voting-machine/models"
	"github.com/haris-hm/gorkminion-voting-machine/session"
	"github.com/haris-hm/gorkminion-voting-machine/store"
	"github.com/haris-hm/gorkminion-voting-machine/tally"
	"github.com/haris-hm/gorkminion-voting-machine/testutil"
)

var start = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	cfg      cliparse.Config
	st       *store.Store
	clk      *clock.FakeClock
	msgr     *testutil.Messenger
	registry *ballot.Registry
	ballots  *BallotHandler
	voting   *VotingHandler
}

func setupEnv(t *testing.T) testEnv {
	t.Helper()

	cfg := testutil.GetTestConfig()
	st := testutil.SetupTestStore(t)
	clk := clock.Fake(start)
	msgr := testutil.NewMessenger()

	registry := ballot.NewRegistry(st, clk, nil)
	l := ledger.New(st, clk, nil)
	sessions := session.NewManager(l, registry, msgr, clk, cfg.SessionIdleTimeout, nil)

	return testEnv{
		cfg:      cfg,
		st:       st,
		clk:      clk,
		msgr:     msgr,
		registry: registry,
		ballots:  NewBallotHandler(registry, ballot.NewCreator(registry, msgr, nil), tally.New(st), l, cfg),
		voting:   NewVotingHandler(sessions),
	}
}

func (e testEnv) operatorHeaders() map[string]string {
	return map[string]string{"X-Admin-Key": auth.OperatorKey(e.cfg.AdminKeySalt)}
}

func createRequest(month string, images int) models.CreateBallotRequest {
	tag := fmt.Sprintf("%s 2025", month)
	req := models.CreateBallotRequest{
		Month:         month,
		Year:          2025,
		ChannelID:     "channel-ballots",
		AvailableTags: []string{tag},
	}
	for i := 1; i <= images; i++ {
		req.Threads = append(req.Threads, models.Thread{
			ID:          fmt.Sprint(i),
			OwnerID:     fmt.Sprintf("artist-%d", i),
			Name:        fmt.Sprintf("Icon %d", i),
			URL:         fmt.Sprintf("https://chat.example/t/%d", i),
			Tags:        []string{tag},
			Attachments: []models.Attachment{{URL: fmt.Sprintf("https://cdn.example/%d.png", i), ContentType: "image/png"}},
		})
	}
	return req
}

// serve runs one request against handler with path values set.
func serve(handler http.HandlerFunc, req *http.Request, pathValues map[string]string) *httptest.ResponseRecorder {
	for k, v := range pathValues {
		req.SetPathValue(k, v)
	}
	w := httptest.NewRecorder()
	handler(w, req)
	return w
}
