package client

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/akramjonkamolov673/cyberarena/dto"
)

const continuationSuffix = " (davomi)"

// TestDraft is an authoring payload for a test set.
type TestDraft struct {
	Title         string             `json:"title"`
	Description   string             `json:"description"`
	Difficulty    string             `json:"difficulty,omitempty"`
	Questions     []dto.QuestionWire `json:"questions"`
	IsPrivate     bool               `json:"is_private"`
	StartTime     *time.Time         `json:"start_time,omitempty"`
	EndTime       *time.Time         `json:"end_time,omitempty"`
	AssignedUsers []string           `json:"assigned_users,omitempty"`
	AllowedGroups []string           `json:"allowed_groups,omitempty"`
}

// NextDraft prepares the follow-up session after saving a test: same
// audience and settings, the continuation marker on the title, the time
// window shifted forward by its own length, and no questions yet.
func NextDraft(saved TestDraft) TestDraft {
	next := saved
	next.Questions = nil

	if !strings.HasSuffix(next.Title, continuationSuffix) {
		next.Title += continuationSuffix
	}

	if saved.StartTime != nil && saved.EndTime != nil {
		span := saved.EndTime.Sub(*saved.StartTime)
		start := saved.StartTime.Add(span)
		end := saved.EndTime.Add(span)
		next.StartTime = &start
		next.EndTime = &end
	}
	return next
}

// SaveTest creates the test set and returns the stored view.
func (s *Session) SaveTest(draft TestDraft) (TestView, error) {
	var saved TestView
	err := s.Client.Post("/api/tests", draft, &saved)
	return saved, err
}

// SaveTestAndContinue creates the test set and hands back the draft for the
// next session in the series.
func (s *Session) SaveTestAndContinue(draft TestDraft) (TestView, TestDraft, error) {
	saved, err := s.SaveTest(draft)
	if err != nil {
		return TestView{}, TestDraft{}, err
	}
	return saved, NextDraft(draft), nil
}

// ListTests fetches every test set visible to the user.
func (s *Session) ListTests() ([]TestView, error) {
	var tests []TestView
	err := s.Client.Get("/api/tests", &tests)
	return tests, err
}

// GetTest fetches one test set.
func (s *Session) GetTest(id string) (TestView, error) {
	var test TestView
	err := s.Client.Get("/api/tests/"+id, &test)
	return test, err
}

// SubmitCode sends a code submission and returns the checked row.
func (s *Session) SubmitCode(sub dto.Submission) (map[string]interface{}, error) {
	if sub.Kind == "" {
		sub.Kind = dto.KindCode
	}
	req, err := dto.BuildSubmission(sub)
	if err != nil {
		return nil, err
	}
	var result map[string]interface{}
	if err := s.Client.Request(http.MethodPost, req.Endpoint, req.Body, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// RunCode executes source against a challenge without grading it.
func (s *Session) RunCode(challengeID, language, source, stdin string) (stdout, stderr string, err error) {
	var result struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
	}
	path := fmt.Sprintf("/api/challenges/%s/run", challengeID)
	payload := map[string]string{"language": language, "source": source, "stdin": stdin}
	if err := s.Client.Post(path, payload, &result); err != nil {
		return "", "", err
	}
	return result.Stdout, result.Stderr, nil
}
