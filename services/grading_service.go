package services

import (
	"github.com/akramjonkamolov673/cyberarena/models"
)

// EvaluateTestSubmission grades answers against the set's questions.
// Questions whose correct index cannot index into their options are excluded
// from the total rather than counted wrong. Score is 0-100.
func EvaluateTestSubmission(set models.TestSet, answers []models.Answer) (correct, wrong int, score float64) {
	selected := make(map[int]int, len(answers))
	for _, a := range answers {
		selected[a.QuestionIndex] = a.Selected
	}

	total := 0
	for i, q := range set.Questions {
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			continue
		}
		total++
		if sel, ok := selected[i]; ok && sel == q.CorrectIndex {
			correct++
		}
	}

	if total == 0 {
		return 0, 0, 0
	}
	wrong = total - correct
	score = float64(correct) / float64(total) * 100
	return correct, wrong, score
}

// ScoreCodeResults turns per-case results into a submission score on the
// challenge's max-score scale.
func ScoreCodeResults(results []models.TestResult, maxScore int) (passed int, score float64) {
	for _, r := range results {
		if r.Passed {
			passed++
		}
	}
	if len(results) == 0 {
		return 0, 0
	}
	return passed, float64(passed) / float64(len(results)) * float64(maxScore)
}
