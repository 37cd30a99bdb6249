package models

import (
	"testing"
	"time"
)

func TestQuestionValidate(t *testing.T) {
	tests := []struct {
		name    string
		q       Question
		wantErr bool
	}{
		{"valid", Question{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 1}, false},
		{"empty text", Question{Options: []string{"a", "b"}, CorrectIndex: 0}, true},
		{"single option", Question{Text: "q", Options: []string{"a"}, CorrectIndex: 0}, true},
		{"index too high", Question{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 2}, true},
		{"negative index", Question{Text: "q", Options: []string{"a", "b"}, CorrectIndex: -1}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.q.Validate()
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestTestSetOpenAt(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	before := now.Add(-time.Hour)
	after := now.Add(time.Hour)

	tests := []struct {
		name string
		set  TestSet
		want bool
	}{
		{"no window", TestSet{}, true},
		{"inside window", TestSet{StartTime: &before, EndTime: &after}, true},
		{"not yet open", TestSet{StartTime: &after}, false},
		{"already closed", TestSet{EndTime: &before}, false},
		{"open ended", TestSet{StartTime: &before}, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.set.OpenAt(now); got != tc.want {
				t.Fatalf("OpenAt = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestStatusForScore(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{100, SubmissionStatusAccepted},
		{101, SubmissionStatusAccepted},
		{99.9, SubmissionStatusPartiallyAccepted},
		{1, SubmissionStatusPartiallyAccepted},
		{0, SubmissionStatusRejected},
	}
	for _, tc := range tests {
		if got := StatusForScore(tc.score); got != tc.want {
			t.Fatalf("StatusForScore(%v) = %q, want %q", tc.score, got, tc.want)
		}
	}
}
