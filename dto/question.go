// Package dto is the only place wire-format variance is allowed to exist.
// The backend went through several payload revisions (correct answer as a
// 0-based index, as an option id, or as per-option is_correct flags; answer
// indices 0- or 1-based). Everything past this package speaks the canonical
// models types; call sites never branch on shape.
package dto

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/akramjonkamolov673/cyberarena/models"
)

// OptionWire is an option as any known revision may send it.
type OptionWire struct {
	ID        *int   `json:"id,omitempty"`
	Text      string `json:"text"`
	IsCorrect *bool  `json:"is_correct,omitempty"`
}

// QuestionWire is a question as any known revision may send it. Options may
// be plain strings or OptionWire objects; the correct option may arrive as
// correct_answer (index or option id), as correct, or only as is_correct
// flags on the options.
type QuestionWire struct {
	ID            *int              `json:"id,omitempty"`
	Text          string            `json:"text"`
	Options       []json.RawMessage `json:"options"`
	CorrectAnswer *int              `json:"correct_answer,omitempty"`
	Correct       *int              `json:"correct,omitempty"`
}

var ErrNoCorrectOption = errors.New("question has no identifiable correct option")

func decodeOption(raw json.RawMessage) (OptionWire, error) {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return OptionWire{Text: s}, nil
	}
	var o OptionWire
	if err := json.Unmarshal(raw, &o); err != nil {
		return OptionWire{}, fmt.Errorf("undecodable option %s", string(raw))
	}
	return o, nil
}

// QuestionFromWire reconciles a wire question into the canonical form.
// Resolution order for the correct option: correct_answer matching an option
// id, correct_answer as in-range index, correct as in-range index, first
// option flagged is_correct.
func QuestionFromWire(w QuestionWire) (models.Question, error) {
	opts := make([]OptionWire, 0, len(w.Options))
	texts := make([]string, 0, len(w.Options))
	for _, raw := range w.Options {
		o, err := decodeOption(raw)
		if err != nil {
			return models.Question{}, err
		}
		opts = append(opts, o)
		texts = append(texts, o.Text)
	}

	idx := -1
	if w.CorrectAnswer != nil {
		for i, o := range opts {
			if o.ID != nil && *o.ID == *w.CorrectAnswer {
				idx = i
				break
			}
		}
		if idx == -1 && *w.CorrectAnswer >= 0 && *w.CorrectAnswer < len(opts) {
			idx = *w.CorrectAnswer
		}
	}
	if idx == -1 && w.Correct != nil && *w.Correct >= 0 && *w.Correct < len(opts) {
		idx = *w.Correct
	}
	if idx == -1 {
		for i, o := range opts {
			if o.IsCorrect != nil && *o.IsCorrect {
				idx = i
				break
			}
		}
	}
	if idx == -1 {
		return models.Question{}, ErrNoCorrectOption
	}

	q := models.Question{Text: w.Text, Options: texts, CorrectIndex: idx}
	if err := q.Validate(); err != nil {
		return models.Question{}, err
	}
	return q, nil
}

// QuestionToWire emits the current revision: string options plus a 0-based
// correct_answer index.
func QuestionToWire(q models.Question) QuestionWire {
	opts := make([]json.RawMessage, len(q.Options))
	for i, text := range q.Options {
		b, _ := json.Marshal(text)
		opts[i] = b
	}
	idx := q.CorrectIndex
	return QuestionWire{Text: q.Text, Options: opts, CorrectAnswer: &idx}
}

// QuestionToLegacyWire emits the flag revision: option objects carrying
// is_correct, no correct_answer field.
func QuestionToLegacyWire(q models.Question) QuestionWire {
	opts := make([]json.RawMessage, len(q.Options))
	for i, text := range q.Options {
		correct := i == q.CorrectIndex
		id := i + 1
		b, _ := json.Marshal(OptionWire{ID: &id, Text: text, IsCorrect: &correct})
		opts[i] = b
	}
	return QuestionWire{Text: q.Text, Options: opts}
}

// QuestionsFromWire decodes a list under either the `questions` or the
// legacy `tests` key of a test set payload.
func QuestionsFromWire(questions, tests []QuestionWire) ([]models.Question, error) {
	src := questions
	if len(src) == 0 {
		src = tests
	}
	out := make([]models.Question, 0, len(src))
	for i, w := range src {
		q, err := QuestionFromWire(w)
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i, err)
		}
		out = append(out, q)
	}
	return out, nil
}
