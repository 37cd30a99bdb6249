package dto

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/akramjonkamolov673/cyberarena/models"
)

func intp(i int) *int    { return &i }
func boolp(b bool) *bool { return &b }

func rawOptions(t *testing.T, values ...interface{}) []json.RawMessage {
	t.Helper()
	out := make([]json.RawMessage, len(values))
	for i, v := range values {
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatalf("marshal option %v: %v", v, err)
		}
		out[i] = b
	}
	return out
}

func TestQuestionFromWire(t *testing.T) {
	tests := []struct {
		name string
		wire QuestionWire
		want models.Question
	}{
		{
			name: "string options with index",
			wire: QuestionWire{
				Text:          "2+2?",
				Options:       rawOptions(t, "3", "4", "5"),
				CorrectAnswer: intp(1),
			},
			want: models.Question{Text: "2+2?", Options: []string{"3", "4", "5"}, CorrectIndex: 1},
		},
		{
			name: "correct_answer matches option id before index",
			wire: QuestionWire{
				Text: "q",
				Options: rawOptions(t,
					OptionWire{ID: intp(10), Text: "a"},
					OptionWire{ID: intp(11), Text: "b"},
					OptionWire{ID: intp(1), Text: "c"},
				),
				// 1 is both option c's id and a valid index; the id wins.
				CorrectAnswer: intp(1),
			},
			want: models.Question{Text: "q", Options: []string{"a", "b", "c"}, CorrectIndex: 2},
		},
		{
			name: "legacy correct field",
			wire: QuestionWire{
				Text:    "q",
				Options: rawOptions(t, "a", "b"),
				Correct: intp(0),
			},
			want: models.Question{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 0},
		},
		{
			name: "is_correct flags",
			wire: QuestionWire{
				Text: "q",
				Options: rawOptions(t,
					OptionWire{Text: "a", IsCorrect: boolp(false)},
					OptionWire{Text: "b", IsCorrect: boolp(true)},
				),
			},
			want: models.Question{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 1},
		},
		{
			name: "out of range correct_answer falls through to flags",
			wire: QuestionWire{
				Text: "q",
				Options: rawOptions(t,
					OptionWire{Text: "a", IsCorrect: boolp(true)},
					OptionWire{Text: "b"},
				),
				CorrectAnswer: intp(99),
			},
			want: models.Question{Text: "q", Options: []string{"a", "b"}, CorrectIndex: 0},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := QuestionFromWire(tc.wire)
			if err != nil {
				t.Fatalf("QuestionFromWire: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestQuestionFromWireErrors(t *testing.T) {
	_, err := QuestionFromWire(QuestionWire{
		Text:    "q",
		Options: rawOptions(t, "a", "b"),
	})
	if err != ErrNoCorrectOption {
		t.Fatalf("got %v, want ErrNoCorrectOption", err)
	}

	_, err = QuestionFromWire(QuestionWire{
		Text:          "",
		Options:       rawOptions(t, "a", "b"),
		CorrectAnswer: intp(0),
	})
	if err == nil {
		t.Fatal("expected validation error for empty text")
	}

	_, err = QuestionFromWire(QuestionWire{
		Text:          "q",
		Options:       rawOptions(t, "only one"),
		CorrectAnswer: intp(0),
	})
	if err == nil {
		t.Fatal("expected validation error for a single option")
	}
}

func TestQuestionWireRoundTrip(t *testing.T) {
	q := models.Question{Text: "q", Options: []string{"a", "b", "c"}, CorrectIndex: 2}

	for _, render := range []struct {
		name string
		emit func(models.Question) QuestionWire
	}{
		{"current", QuestionToWire},
		{"legacy", QuestionToLegacyWire},
	} {
		t.Run(render.name, func(t *testing.T) {
			got, err := QuestionFromWire(render.emit(q))
			if err != nil {
				t.Fatalf("round trip failed: %v", err)
			}
			if !reflect.DeepEqual(got, q) {
				t.Fatalf("round trip changed question: %+v != %+v", got, q)
			}
		})
	}
}

func TestQuestionsFromWireLegacyKey(t *testing.T) {
	wire := []QuestionWire{{
		Text:          "q",
		Options:       rawOptions(t, "a", "b"),
		CorrectAnswer: intp(0),
	}}

	fromQuestions, err := QuestionsFromWire(wire, nil)
	if err != nil {
		t.Fatalf("questions key: %v", err)
	}
	fromTests, err := QuestionsFromWire(nil, wire)
	if err != nil {
		t.Fatalf("tests key: %v", err)
	}
	if !reflect.DeepEqual(fromQuestions, fromTests) {
		t.Fatalf("keys decode differently: %+v != %+v", fromQuestions, fromTests)
	}
}
