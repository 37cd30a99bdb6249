package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func attemptFixture(t *testing.T) (*Attempt, *fakeClock, *int) {
	t.Helper()

	submissions := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/test-submissions", func(w http.ResponseWriter, r *http.Request) {
		submissions++
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"correct_count": 1, "wrong_count": 1, "score": 50.0,
		})
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	session := NewSession(server.URL)
	session.Client.SetTokens("token", "refresh")

	test := TestView{ID: uuid.New(), Title: "sample"}
	test.Questions = append(test.Questions, struct {
		Text    string   `json:"text"`
		Options []string `json:"options"`
	}{Text: "q1", Options: []string{"a", "b"}})
	test.Questions = append(test.Questions, struct {
		Text    string   `json:"text"`
		Options []string `json:"options"`
	}{Text: "q2", Options: []string{"x", "y", "z"}})

	clock := &fakeClock{now: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)}
	attempt := NewAttempt(session, test, 10*time.Minute)
	attempt.now = clock.Now
	return attempt, clock, &submissions
}

func TestAttemptLifecycle(t *testing.T) {
	attempt, clock, submissions := attemptFixture(t)

	if attempt.State() != AttemptNotStarted {
		t.Fatal("new attempt must be NotStarted")
	}
	if err := attempt.Answer(0, 0); err != ErrAttemptNotStarted {
		t.Fatalf("answering before start: got %v", err)
	}
	if err := attempt.Submit(); err != ErrAttemptNotStarted {
		t.Fatalf("submitting before start: got %v", err)
	}

	if err := attempt.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := attempt.Start(); err != ErrAttemptAlreadyStarted {
		t.Fatalf("second start: got %v", err)
	}
	if err := attempt.Submit(); err != ErrNoAnswers {
		t.Fatalf("submit without answers: got %v", err)
	}

	if err := attempt.Answer(0, 1); err != nil {
		t.Fatalf("answer: %v", err)
	}
	// Changing an answer replaces the earlier choice.
	if err := attempt.Answer(0, 0); err != nil {
		t.Fatalf("re-answer: %v", err)
	}
	if sel, ok := attempt.Answered(0); !ok || sel != 0 {
		t.Fatalf("answer not replaced: %d %v", sel, ok)
	}

	clock.Advance(5 * time.Minute)
	if got := attempt.Remaining(); got != 5*time.Minute {
		t.Fatalf("remaining = %v, want 5m", got)
	}

	if err := attempt.Submit(); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if attempt.State() != AttemptSubmitted {
		t.Fatal("attempt must be Submitted after submit")
	}
	if attempt.Result == nil || attempt.Result.Score != 50 {
		t.Fatalf("result not recorded: %+v", attempt.Result)
	}
	if attempt.Result.AutoSubmit {
		t.Fatal("manual submit must not be flagged as auto")
	}

	if err := attempt.Submit(); err != ErrAttemptFinished {
		t.Fatalf("double submit: got %v", err)
	}
	if err := attempt.Answer(1, 0); err != ErrAttemptFinished {
		t.Fatalf("answer after submit: got %v", err)
	}
	if *submissions != 1 {
		t.Fatalf("server saw %d submissions, want 1", *submissions)
	}
}

func TestAttemptAutoSubmitsExactlyOnceOnExpiry(t *testing.T) {
	attempt, clock, submissions := attemptFixture(t)

	if err := attempt.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := attempt.Answer(0, 1); err != nil {
		t.Fatalf("answer: %v", err)
	}

	clock.Advance(11 * time.Minute)
	if !attempt.Expired() {
		t.Fatal("attempt should be expired")
	}
	if got := attempt.Remaining(); got != 0 {
		t.Fatalf("remaining after expiry = %v, want 0", got)
	}

	// The next interaction triggers the auto submit.
	if err := attempt.Answer(1, 0); err != ErrAttemptFinished {
		t.Fatalf("interaction after expiry: got %v", err)
	}
	if attempt.State() != AttemptSubmitted {
		t.Fatal("expiry must leave the attempt Submitted")
	}
	if attempt.Result == nil || !attempt.Result.AutoSubmit {
		t.Fatalf("auto submit not flagged: %+v", attempt.Result)
	}

	// Nothing fires twice.
	if err := attempt.Submit(); err != ErrAttemptFinished {
		t.Fatalf("submit after auto submit: got %v", err)
	}
	if *submissions != 1 {
		t.Fatalf("server saw %d submissions, want exactly 1", *submissions)
	}
}

func TestAttemptWithoutTimeLimitNeverExpires(t *testing.T) {
	attempt, clock, _ := attemptFixture(t)
	attempt.duration = 0

	if err := attempt.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	clock.Advance(48 * time.Hour)
	if attempt.Expired() {
		t.Fatal("attempt without a limit must not expire")
	}
	if err := attempt.Answer(0, 0); err != nil {
		t.Fatalf("answer: %v", err)
	}
}
