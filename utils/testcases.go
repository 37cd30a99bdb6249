package utils

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/akramjonkamolov673/cyberarena/models"
)

// testCaseWire accepts every field alias teachers have pasted over the
// project's lifetime.
type testCaseWire struct {
	Input         *string `json:"input"`
	In            *string `json:"in"`
	Stdin         *string `json:"stdin"`
	Expected      *string `json:"expected_output"`
	ExpectedCamel *string `json:"expectedOutput"`
	Out           *string `json:"out"`
	Stdout        *string `json:"stdout"`
}

func firstSet(candidates ...*string) string {
	for _, c := range candidates {
		if c != nil {
			return *c
		}
	}
	return ""
}

// ParseTestCases decodes teacher-pasted test-case JSON. Field aliases are
// tolerated (input/in/stdin, expected_output/expectedOutput/out/stdout) and
// entries whose input is empty after trimming are dropped silently. Parsing
// an already-normalized blob yields the identical slice.
func ParseTestCases(raw string) ([]models.TestCase, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []models.TestCase{}, nil
	}

	var rows []testCaseWire
	if err := json.Unmarshal([]byte(raw), &rows); err != nil {
		return nil, fmt.Errorf("test cases must be a JSON array: %w", err)
	}

	out := make([]models.TestCase, 0, len(rows))
	for _, r := range rows {
		input := strings.TrimSpace(firstSet(r.Input, r.In, r.Stdin))
		if input == "" {
			continue
		}
		out = append(out, models.TestCase{
			Input:          input,
			ExpectedOutput: strings.TrimSpace(firstSet(r.Expected, r.ExpectedCamel, r.Out, r.Stdout)),
		})
	}
	return out, nil
}

// NormalizeTestCases applies the same trim-and-drop rules to already-decoded
// cases. Idempotent.
func NormalizeTestCases(cases []models.TestCase) []models.TestCase {
	out := make([]models.TestCase, 0, len(cases))
	for _, tc := range cases {
		input := strings.TrimSpace(tc.Input)
		if input == "" {
			continue
		}
		out = append(out, models.TestCase{
			Input:          input,
			ExpectedOutput: strings.TrimSpace(tc.ExpectedOutput),
		})
	}
	return out
}
