package dto

import (
	"fmt"

	"github.com/akramjonkamolov673/cyberarena/models"
)

// IndexBase names the option-index convention of a wire revision. Internal
// answers are always 0-based; conversion happens here and nowhere else.
type IndexBase int

const (
	ZeroBased IndexBase = 0
	OneBased  IndexBase = 1
)

// AnswerToWire converts a 0-based internal option index to the wire index
// of the given revision.
func AnswerToWire(internal int, base IndexBase) int {
	return internal + int(base)
}

// AnswerFromWire converts a wire option index back to the 0-based internal
// one. AnswerFromWire(AnswerToWire(x, b), b) == x for any base.
func AnswerFromWire(wire int, base IndexBase) int {
	return wire - int(base)
}

// AnswerWire is one answer row as submitted by a client.
type AnswerWire struct {
	QuestionIndex int `json:"question_index"`
	Selected      int `json:"selected"`
}

// AnswersFromWire normalizes a submitted answer sheet to internal indices
// and checks it against the set's questions.
func AnswersFromWire(rows []AnswerWire, base IndexBase, questions []models.Question) ([]models.Answer, error) {
	out := make([]models.Answer, 0, len(rows))
	for _, r := range rows {
		if r.QuestionIndex < 0 || r.QuestionIndex >= len(questions) {
			return nil, fmt.Errorf("answer references question %d of %d", r.QuestionIndex, len(questions))
		}
		sel := AnswerFromWire(r.Selected, base)
		q := questions[r.QuestionIndex]
		if sel < 0 || sel >= len(q.Options) {
			return nil, fmt.Errorf("answer for question %d selects option %d of %d", r.QuestionIndex, sel, len(q.Options))
		}
		out = append(out, models.Answer{QuestionIndex: r.QuestionIndex, Selected: sel})
	}
	return out, nil
}

// AnswersToWire renders internal answers in the given revision's base.
func AnswersToWire(answers []models.Answer, base IndexBase) []AnswerWire {
	out := make([]AnswerWire, len(answers))
	for i, a := range answers {
		out[i] = AnswerWire{QuestionIndex: a.QuestionIndex, Selected: AnswerToWire(a.Selected, base)}
	}
	return out
}
