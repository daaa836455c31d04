// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haris-hm/gorkminion-voting-machine/chat"
	"github.com/haris-hm/gorkminion-voting-machine/models"
	"github.com/haris-hm/gorkminion-voting-machine/testutil"
)

func (e testEnv) begin(t *testing.T, ballotID, user string) models.SessionView {
	t.Helper()
	req := testutil.MakeRequest("POST", "/ballots/"+ballotID+"/vote", nil, map[string]string{"X-User-ID": user})
	w := serve(e.voting.BeginVoting, req, map[string]string{"id": ballotID})
	testutil.AssertStatus(t, w, http.StatusOK)
	var view models.SessionView
	testutil.AssertJSON(t, w, &view)
	return view
}

func (e testEnv) action(sid, user, customID string) *http.Request {
	req := testutil.MakeRequest("POST", "/sessions/"+sid+"/actions", models.SessionActionRequest{CustomID: customID}, map[string]string{"X-User-ID": user})
	req.SetPathValue("sid", sid)
	return req
}

func TestBeginVoting(t *testing.T) {
	env := setupEnv(t)
	testutil.CreateTestBallot(t, env.st, "march-2025", 4, start, time.Hour)
	testutil.CreateTestBallot(t, env.st, "february-2025", 4, start, time.Hour)
	if err := env.registry.Close(context.Background(), "february-2025", nil); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	tests := []struct {
		name           string
		ballotID       string
		user           string
		expectedStatus int
	}{
		{"missing user", "march-2025", "", http.StatusBadRequest},
		{"unknown ballot", "april-2025", "alice", http.StatusNotFound},
		{"closed ballot", "february-2025", "alice", http.StatusConflict},
		{"open ballot", "march-2025", "alice", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.user != "" {
				headers["X-User-ID"] = tt.user
			}
			req := testutil.MakeRequest("POST", "/ballots/"+tt.ballotID+"/vote", nil, headers)
			w := serve(env.voting.BeginVoting, req, map[string]string{"id": tt.ballotID})
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}
}

func TestHandleAction(t *testing.T) {
	env := setupEnv(t)
	testutil.CreateTestBallot(t, env.st, "march-2025", 4, start, time.Hour)
	view := env.begin(t, "march-2025", "alice")
	if view.SessionID == "" || view.State != "awaiting_start" {
		t.Fatalf("Unexpected begin view: %+v", view)
	}

	tests := []struct {
		name           string
		sid            string
		user           string
		customID       string
		expectedStatus int
	}{
		{"missing custom id", view.SessionID, "alice", "", http.StatusBadRequest},
		{"unknown session", "nope", "alice", "vote:start:march-2025", http.StatusGone},
		{"not the owner", view.SessionID, "bob", "vote:start:march-2025", http.StatusForbidden},
		{"unknown action", view.SessionID, "alice", "vote:dance:now", http.StatusBadRequest},
		{"start", view.SessionID, "alice", "vote:start:march-2025", http.StatusOK},
		{"vote", view.SessionID, "alice", "vote:option:1", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(env.voting.HandleAction, env.action(tt.sid, tt.user, tt.customID), nil)
			testutil.AssertStatus(t, w, tt.expectedStatus)
		})
	}

	t.Run("missing user", func(t *testing.T) {
		req := testutil.MakeRequest("POST", "/", models.SessionActionRequest{CustomID: "vote:page:next"}, nil)
		w := serve(env.voting.HandleAction, req, map[string]string{"sid": view.SessionID})
		testutil.AssertStatus(t, w, http.StatusBadRequest)
	})

	t.Run("rejected then gone", func(t *testing.T) {
		w := serve(env.voting.HandleAction, env.action(view.SessionID, "alice", "vote:option:1"), nil)
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.SessionView
		testutil.AssertJSON(t, w, &resp)
		if resp.State != "rejected" || resp.Message.Content != chat.RejectedText {
			t.Errorf("Unexpected view: %+v", resp)
		}

		w = serve(env.voting.HandleAction, env.action(view.SessionID, "alice", "vote:option:2"), nil)
		testutil.AssertStatus(t, w, http.StatusGone)
	})
}

func TestFullVotingWorkflow(t *testing.T) {
	env := setupEnv(t)

	// Create through the API
	req := testutil.MakeRequest("POST", "/ballots", createRequest("March", 5), env.operatorHeaders())
	testutil.AssertStatus(t, serve(env.ballots.CreateBallot, req, nil), http.StatusCreated)

	view := env.begin(t, "march-2025", "carol")
	steps := []struct {
		customID string
		state    string
		cards    int
	}{
		{"vote:start:march-2025", "browsing", 4},
		{"vote:page:next", "browsing", 1},
		{"vote:option:5", "browsing", 4},
		{"vote:option:1", "browsing", 3},
		{"vote:option:2", "browsing", 2},
		{"vote:option:3", "finished", 0},
	}
	for _, step := range steps {
		w := serve(env.voting.HandleAction, env.action(view.SessionID, "carol", step.customID), nil)
		testutil.AssertStatus(t, w, http.StatusOK)
		var resp models.SessionView
		testutil.AssertJSON(t, w, &resp)
		if resp.State != step.state || len(resp.Message.Cards) != step.cards {
			t.Fatalf("After %s: state %s with %d cards, want %s with %d", step.customID, resp.State, len(resp.Message.Cards), step.state, step.cards)
		}
	}

	again := env.begin(t, "march-2025", "carol")
	if again.SessionID != "" || again.Message.Content != chat.AlreadyVotedText {
		t.Errorf("Unexpected view after finishing: %+v", again)
	}

	if !env.msgr.Contains(chat.StartedVoting("carol")) || !env.msgr.Contains(chat.HasVoted("carol")) {
		t.Error("Expected started and voted announcements")
	}
}

// TestConcurrentVoters verifies that simultaneous voters on one ballot all
// land their points.
func TestConcurrentVoters(t *testing.T) {
	env := setupEnv(t)
	testutil.CreateTestBallot(t, env.st, "march-2025", 4, start, time.Hour)

	const numVoters = 8
	sessions := make([]string, numVoters)
	for i := range sessions {
		view := env.begin(t, "march-2025", userName(i))
		sessions[i] = view.SessionID
		w := serve(env.voting.HandleAction, env.action(view.SessionID, userName(i), "vote:start:march-2025"), nil)
		testutil.AssertStatus(t, w, http.StatusOK)
	}

	var successCount atomic.Int32
	var wg sync.WaitGroup
	for i := 0; i < numVoters; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			w := serve(env.voting.HandleAction, env.action(sessions[i], userName(i), "vote:option:2"), nil)
			if w.Code == http.StatusOK {
				successCount.Add(1)
			}
		}(i)
	}
	wg.Wait()

	if int(successCount.Load()) != numVoters {
		t.Errorf("Expected %d successful votes, got %d", numVoters, successCount.Load())
	}

	results, err := env.st.ListTallies(context.Background(), "march-2025")
	if err != nil {
		t.Fatalf("ListTallies failed: %v", err)
	}
	if results[0].OptionID != 2 || results[0].Points != numVoters*3 {
		t.Errorf("Expected option 2 with %d points, got %+v", numVoters*3, results[0])
	}
}

func userName(i int) string {
	return "voter-" + string(rune('a'+i))
}
