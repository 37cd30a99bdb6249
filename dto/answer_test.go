package dto

import (
	"reflect"
	"testing"

	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/google/uuid"
)

func TestAnswerIndexRoundTrip(t *testing.T) {
	for _, base := range []IndexBase{ZeroBased, OneBased} {
		for internal := 0; internal < 5; internal++ {
			wire := AnswerToWire(internal, base)
			if got := AnswerFromWire(wire, base); got != internal {
				t.Fatalf("base %d: round trip of %d gave %d", base, internal, got)
			}
		}
	}

	if AnswerToWire(0, OneBased) != 1 {
		t.Fatal("one-based wire index for option 0 must be 1")
	}
	if AnswerToWire(0, ZeroBased) != 0 {
		t.Fatal("zero-based wire index for option 0 must be 0")
	}
}

func TestAnswersFromWire(t *testing.T) {
	questions := []models.Question{
		{Text: "q1", Options: []string{"a", "b", "c"}, CorrectIndex: 0},
		{Text: "q2", Options: []string{"x", "y"}, CorrectIndex: 1},
	}

	rows := []AnswerWire{
		{QuestionIndex: 0, Selected: 3},
		{QuestionIndex: 1, Selected: 2},
	}
	got, err := AnswersFromWire(rows, OneBased, questions)
	if err != nil {
		t.Fatalf("AnswersFromWire: %v", err)
	}
	want := []models.Answer{
		{QuestionIndex: 0, Selected: 2},
		{QuestionIndex: 1, Selected: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestAnswersFromWireValidation(t *testing.T) {
	questions := []models.Question{
		{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 0},
	}

	tests := []struct {
		name string
		rows []AnswerWire
		base IndexBase
	}{
		{"question index out of range", []AnswerWire{{QuestionIndex: 5, Selected: 0}}, ZeroBased},
		{"negative question index", []AnswerWire{{QuestionIndex: -1, Selected: 0}}, ZeroBased},
		{"option out of range", []AnswerWire{{QuestionIndex: 0, Selected: 2}}, ZeroBased},
		{"one-based zero underflows", []AnswerWire{{QuestionIndex: 0, Selected: 0}}, OneBased},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := AnswersFromWire(tc.rows, tc.base, questions); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestBuildSubmissionDispatch(t *testing.T) {
	testID := uuid.New()
	challengeID := uuid.New()

	testReq, err := BuildSubmission(Submission{
		Kind:      KindTest,
		TestSetID: testID,
		Answers:   []models.Answer{{QuestionIndex: 0, Selected: 1}},
	})
	if err != nil {
		t.Fatalf("test submission: %v", err)
	}
	if testReq.Endpoint != "/api/test-submissions" {
		t.Fatalf("test endpoint = %q", testReq.Endpoint)
	}
	if testReq.Body["test"] != testID.String() {
		t.Fatalf("test body missing id: %+v", testReq.Body)
	}

	codeReq, err := BuildSubmission(Submission{
		Kind:        KindCode,
		ChallengeID: challengeID,
		Language:    "python",
		Source:      "print(1)",
	})
	if err != nil {
		t.Fatalf("code submission: %v", err)
	}
	if codeReq.Endpoint != "/api/submissions" {
		t.Fatalf("code endpoint = %q", codeReq.Endpoint)
	}
	if codeReq.Body["language"] != "python" {
		t.Fatalf("code body missing language: %+v", codeReq.Body)
	}
	if codeReq.Body["test_results"] == nil {
		t.Fatalf("code body must serialize empty results as a list: %+v", codeReq.Body)
	}

	textReq, err := BuildSubmission(Submission{
		Kind:          KindText,
		TestSetID:     testID,
		QuestionIndex: 2,
		Text:          "free-form answer",
	})
	if err != nil {
		t.Fatalf("text submission: %v", err)
	}
	if textReq.Endpoint != "/api/text-submissions" {
		t.Fatalf("text endpoint = %q", textReq.Endpoint)
	}
	if textReq.Body["test"] != testID.String() || textReq.Body["question_index"] != 2 {
		t.Fatalf("text body missing target: %+v", textReq.Body)
	}
	if textReq.Body["answer"] != "free-form answer" {
		t.Fatalf("text body missing answer: %+v", textReq.Body)
	}

	if _, err := BuildSubmission(Submission{Kind: "bogus"}); err == nil {
		t.Fatal("unknown kind must be rejected")
	}
}
