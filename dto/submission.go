package dto

import (
	"fmt"

	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/google/uuid"
)

// SubmissionKind tags the variants of a submission. Each kind owns its
// endpoint and payload builder; adding a kind means adding a table entry,
// not another conditional.
type SubmissionKind string

const (
	KindTest SubmissionKind = "test"
	KindCode SubmissionKind = "code"
	KindText SubmissionKind = "text"
)

// Submission is the tagged union the client submits. Exactly the fields of
// the tagged kind are consulted.
type Submission struct {
	Kind SubmissionKind

	// test
	TestSetID uuid.UUID
	Answers   []models.Answer

	// code
	ChallengeID uuid.UUID
	Language    string
	Source      string
	TestResults []models.TestResult

	// text
	QuestionIndex int
	Text          string

	TimeSpentSeconds int
}

// WireRequest is a ready-to-send request produced by a payload builder.
type WireRequest struct {
	Endpoint string
	Body     map[string]interface{}
}

type payloadBuilder func(Submission) WireRequest

var submissionBuilders = map[SubmissionKind]payloadBuilder{
	KindTest: buildTestSubmission,
	KindCode: buildCodeSubmission,
	KindText: buildTextSubmission,
}

// BuildSubmission dispatches on the submission kind and returns the wire
// request for it.
func BuildSubmission(s Submission) (WireRequest, error) {
	build, ok := submissionBuilders[s.Kind]
	if !ok {
		return WireRequest{}, fmt.Errorf("unknown submission kind %q", s.Kind)
	}
	return build(s), nil
}

func buildTestSubmission(s Submission) WireRequest {
	return WireRequest{
		Endpoint: "/api/test-submissions",
		Body: map[string]interface{}{
			"test":       s.TestSetID.String(),
			"answers":    AnswersToWire(s.Answers, ZeroBased),
			"time_spent": s.TimeSpentSeconds,
		},
	}
}

func buildCodeSubmission(s Submission) WireRequest {
	results := s.TestResults
	if results == nil {
		results = []models.TestResult{}
	}
	return WireRequest{
		Endpoint: "/api/submissions",
		Body: map[string]interface{}{
			"challenge":    s.ChallengeID.String(),
			"language":     s.Language,
			"source":       s.Source,
			"test_results": results,
			"time_spent":   s.TimeSpentSeconds,
		},
	}
}

func buildTextSubmission(s Submission) WireRequest {
	return WireRequest{
		Endpoint: "/api/text-submissions",
		Body: map[string]interface{}{
			"test":           s.TestSetID.String(),
			"question_index": s.QuestionIndex,
			"answer":         s.Text,
			"time_spent":     s.TimeSpentSeconds,
		},
	}
}
