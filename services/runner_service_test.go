package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/akramjonkamolov673/cyberarena/models"
)

func fakePiston(t *testing.T, handler http.HandlerFunc) *Runner {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	runner := NewRunner()
	runner.BaseURL = server.URL
	return runner
}

// echoPiston runs a pretend interpreter that doubles the number on stdin.
func echoPiston(t *testing.T) *Runner {
	return fakePiston(t, func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Language string `json:"language"`
			Version  string `json:"version"`
			Files    []struct {
				Name    string `json:"name"`
				Content string `json:"content"`
			} `json:"files"`
			Stdin      string `json:"stdin"`
			RunTimeout int    `json:"run_timeout"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("undecodable execute payload: %v", err)
		}
		if req.Version != "latest" || req.RunTimeout != 10000 || len(req.Files) != 1 {
			t.Errorf("unexpected payload: %+v", req)
		}

		var n int
		fmt.Sscanf(req.Stdin, "%d", &n)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"run": map[string]string{"stdout": fmt.Sprintf("%d\n", n*2), "stderr": ""},
		})
	})
}

func TestRunAllGradesEveryCase(t *testing.T) {
	runner := echoPiston(t)

	cases := []models.TestCase{
		{Input: "2", ExpectedOutput: "4"},
		{Input: "3", ExpectedOutput: "7"},
		{Input: "5", ExpectedOutput: "10"},
	}
	results := runner.RunAll(context.Background(), "python", "src", cases)

	if len(results) != len(cases) {
		t.Fatalf("got %d results, want %d", len(results), len(cases))
	}
	wantPassed := []bool{true, false, true}
	for i, r := range results {
		if r.Input != cases[i].Input {
			t.Fatalf("result %d out of order: input %q, want %q", i, r.Input, cases[i].Input)
		}
		if r.Passed != wantPassed[i] {
			t.Fatalf("result %d: passed=%v, want %v (actual %q)", i, r.Passed, wantPassed[i], r.ActualOutput)
		}
	}
}

func TestRunAllTrimsBeforeComparing(t *testing.T) {
	runner := echoPiston(t)

	results := runner.RunAll(context.Background(), "python", "src", []models.TestCase{
		{Input: "5", ExpectedOutput: " 10 \n"},
	})
	if !results[0].Passed {
		t.Fatalf("trailing whitespace should not fail the case: %+v", results[0])
	}
}

func TestRunAllVacuousPassWithoutExpectedOutput(t *testing.T) {
	runner := echoPiston(t)

	results := runner.RunAll(context.Background(), "python", "src", []models.TestCase{
		{Input: "1"},
	})
	if !results[0].Passed {
		t.Fatalf("case without expected output must pass: %+v", results[0])
	}
}

func TestExecuteCapturesServiceErrors(t *testing.T) {
	runner := fakePiston(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte("rate limited"))
	})

	res := runner.Execute(context.Background(), "python", "main.py", "src", "")
	if res.Stderr != "rate limited" {
		t.Fatalf("service error should land in stderr, got %+v", res)
	}

	// A failing case must still produce a result row instead of aborting.
	results := runner.RunAll(context.Background(), "python", "src", []models.TestCase{
		{Input: "1", ExpectedOutput: "2"},
	})
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Passed || results[0].Error == "" {
		t.Fatalf("failed execution should be recorded on the row: %+v", results[0])
	}
}

func TestExecuteHandlesNonJSONResponse(t *testing.T) {
	runner := fakePiston(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("<html>bad gateway</html>"))
	})

	res := runner.Execute(context.Background(), "cpp", "main.cpp", "src", "")
	if res.Stderr == "" {
		t.Fatalf("non-JSON error body should land in stderr, got %+v", res)
	}
}

func TestPistonLanguageMapping(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"python", "python3"},
		{"cpp", "cpp"},
		{"javascript", "javascript"},
		{"unknown", "cpp"},
	}
	for _, tc := range tests {
		if got := PistonLanguage(tc.in); got != tc.want {
			t.Fatalf("PistonLanguage(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
