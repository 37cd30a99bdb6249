package services

import (
	"testing"

	"github.com/akramjonkamolov673/cyberarena/models"
)

func question(correct int, options ...string) models.Question {
	return models.Question{Text: "q", Options: options, CorrectIndex: correct}
}

func TestEvaluateTestSubmission(t *testing.T) {
	set := models.TestSet{Questions: models.QuestionList{
		question(1, "a", "b", "c"),
		question(0, "x", "y"),
		question(2, "p", "q", "r"),
	}}

	tests := []struct {
		name        string
		answers     []models.Answer
		wantCorrect int
		wantWrong   int
		wantScore   float64
	}{
		{
			name: "all correct",
			answers: []models.Answer{
				{QuestionIndex: 0, Selected: 1},
				{QuestionIndex: 1, Selected: 0},
				{QuestionIndex: 2, Selected: 2},
			},
			wantCorrect: 3, wantWrong: 0, wantScore: 100,
		},
		{
			name: "partially correct",
			answers: []models.Answer{
				{QuestionIndex: 0, Selected: 1},
				{QuestionIndex: 1, Selected: 1},
				{QuestionIndex: 2, Selected: 0},
			},
			wantCorrect: 1, wantWrong: 2, wantScore: 100.0 / 3,
		},
		{
			name:        "unanswered counts wrong",
			answers:     []models.Answer{{QuestionIndex: 0, Selected: 1}},
			wantCorrect: 1, wantWrong: 2, wantScore: 100.0 / 3,
		},
		{
			name:        "no answers",
			answers:     nil,
			wantCorrect: 0, wantWrong: 3, wantScore: 0,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			correct, wrong, score := EvaluateTestSubmission(set, tc.answers)
			if correct != tc.wantCorrect || wrong != tc.wantWrong {
				t.Fatalf("got correct=%d wrong=%d, want correct=%d wrong=%d", correct, wrong, tc.wantCorrect, tc.wantWrong)
			}
			if score != tc.wantScore {
				t.Fatalf("got score=%v, want %v", score, tc.wantScore)
			}
		})
	}
}

func TestEvaluateSkipsUnusableQuestions(t *testing.T) {
	// A question whose correct index cannot select an option is excluded from
	// the total instead of being counted wrong.
	set := models.TestSet{Questions: models.QuestionList{
		question(0, "a", "b"),
		question(5, "a", "b"),
		question(-1, "a", "b"),
	}}

	correct, wrong, score := EvaluateTestSubmission(set, []models.Answer{{QuestionIndex: 0, Selected: 0}})
	if correct != 1 || wrong != 0 {
		t.Fatalf("got correct=%d wrong=%d, want 1/0", correct, wrong)
	}
	if score != 100 {
		t.Fatalf("got score=%v, want 100", score)
	}

	allBroken := models.TestSet{Questions: models.QuestionList{question(9, "a")}}
	correct, wrong, score = EvaluateTestSubmission(allBroken, nil)
	if correct != 0 || wrong != 0 || score != 0 {
		t.Fatalf("empty grading set should yield zeros, got %d/%d/%v", correct, wrong, score)
	}
}

func TestScoreCodeResults(t *testing.T) {
	results := []models.TestResult{
		{Passed: true},
		{Passed: false},
		{Passed: true},
		{Passed: true},
	}

	passed, score := ScoreCodeResults(results, 100)
	if passed != 3 {
		t.Fatalf("got passed=%d, want 3", passed)
	}
	if score != 75 {
		t.Fatalf("got score=%v, want 75", score)
	}

	passed, score = ScoreCodeResults(results, 40)
	if passed != 3 || score != 30 {
		t.Fatalf("max_score scaling: got %d/%v, want 3/30", passed, score)
	}

	passed, score = ScoreCodeResults(nil, 100)
	if passed != 0 || score != 0 {
		t.Fatalf("empty results: got %d/%v, want 0/0", passed, score)
	}
}
