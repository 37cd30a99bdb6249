package client

import (
	"testing"
	"time"

	"github.com/akramjonkamolov673/cyberarena/dto"
)

func TestNextDraft(t *testing.T) {
	start := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	end := start.Add(2 * time.Hour)

	saved := TestDraft{
		Title:         "Algebra 1",
		Description:   "weekly quiz",
		Questions:     []dto.QuestionWire{{Text: "q"}},
		IsPrivate:     true,
		StartTime:     &start,
		EndTime:       &end,
		AllowedGroups: []string{"g1"},
	}

	next := NextDraft(saved)

	if next.Title != "Algebra 1 (davomi)" {
		t.Fatalf("title = %q", next.Title)
	}
	if next.Questions != nil {
		t.Fatalf("questions must be cleared, got %d", len(next.Questions))
	}
	if next.Description != saved.Description || !next.IsPrivate {
		t.Fatal("settings must carry over")
	}
	if len(next.AllowedGroups) != 1 || next.AllowedGroups[0] != "g1" {
		t.Fatal("audience must carry over")
	}

	wantStart := end
	wantEnd := end.Add(2 * time.Hour)
	if !next.StartTime.Equal(wantStart) || !next.EndTime.Equal(wantEnd) {
		t.Fatalf("window not shifted by its length: %v-%v", next.StartTime, next.EndTime)
	}

	// Original draft untouched.
	if saved.Title != "Algebra 1" || len(saved.Questions) != 1 {
		t.Fatal("NextDraft must not mutate its input")
	}
}

func TestNextDraftDoesNotStackSuffix(t *testing.T) {
	next := NextDraft(TestDraft{Title: "Algebra 1 (davomi)"})
	if next.Title != "Algebra 1 (davomi)" {
		t.Fatalf("suffix must not repeat, got %q", next.Title)
	}
}

func TestNextDraftWithoutWindow(t *testing.T) {
	next := NextDraft(TestDraft{Title: "Open practice"})
	if next.StartTime != nil || next.EndTime != nil {
		t.Fatal("draft without a window must stay windowless")
	}
}
