package services

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	config "github.com/akramjonkamolov673/cyberarena/configs"
	"github.com/akramjonkamolov673/cyberarena/models"
)

const defaultPistonURL = "https://emkc.org/api/v2/piston/execute"

type execFile struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

type execRequest struct {
	Language           string     `json:"language"`
	Version            string     `json:"version"`
	Files              []execFile `json:"files"`
	Stdin              string     `json:"stdin"`
	RunTimeout         int        `json:"run_timeout"`
	CompileTimeout     int        `json:"compile_timeout"`
	CompileMemoryLimit int64      `json:"compile_memory_limit"`
	RunMemoryLimit     int64      `json:"run_memory_limit"`
}

// ExecResult is the outcome of one execution. Transport failures and
// non-JSON responses end up in Stderr instead of an error so a bad case
// never aborts the rest of a batch.
type ExecResult struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
}

type pistonResponse struct {
	Stdout string `json:"stdout"`
	Stderr string `json:"stderr"`
	Output string `json:"output"`
	Run    *struct {
		Stdout string `json:"stdout"`
		Stderr string `json:"stderr"`
	} `json:"run"`
}

// Runner executes student code against the external execution service.
type Runner struct {
	BaseURL    string
	HTTPClient *http.Client

	RunTimeoutMS     int
	CompileTimeoutMS int
	MemoryLimitBytes int64
}

func NewRunner() *Runner {
	baseURL := config.Config("PISTON_URL")
	if baseURL == "" {
		baseURL = defaultPistonURL
	}
	return &Runner{
		BaseURL:          baseURL,
		HTTPClient:       &http.Client{Timeout: 30 * time.Second},
		RunTimeoutMS:     10000,
		CompileTimeoutMS: 10000,
		MemoryLimitBytes: 512000,
	}
}

// PistonLanguage maps a platform language name to the execution service's.
func PistonLanguage(lang string) string {
	switch lang {
	case "python":
		return "python3"
	case "cpp", "javascript", "java", "go":
		return lang
	default:
		return "cpp"
	}
}

// FileNameFor returns the source file name the execution service expects.
func FileNameFor(lang string) string {
	switch lang {
	case "python":
		return "main.py"
	case "javascript":
		return "main.js"
	case "java":
		return "Main.java"
	case "go":
		return "main.go"
	default:
		return "main.cpp"
	}
}

// Execute runs source once with the given stdin.
func (r *Runner) Execute(ctx context.Context, language, fileName, source, stdin string) ExecResult {
	body, err := json.Marshal(execRequest{
		Language:           PistonLanguage(language),
		Version:            "latest",
		Files:              []execFile{{Name: fileName, Content: source}},
		Stdin:              stdin,
		RunTimeout:         r.RunTimeoutMS,
		CompileTimeout:     r.CompileTimeoutMS,
		CompileMemoryLimit: r.MemoryLimitBytes,
		RunMemoryLimit:     r.MemoryLimitBytes,
	})
	if err != nil {
		return ExecResult{Stderr: err.Error()}
	}

	req, err := http.NewRequestWithContext(ctx, "POST", r.BaseURL, bytes.NewBuffer(body))
	if err != nil {
		return ExecResult{Stderr: err.Error()}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return ExecResult{Stderr: err.Error()}
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var parsed pistonResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		if resp.StatusCode >= 300 {
			return ExecResult{Stderr: strings.TrimSpace(string(raw))}
		}
		return ExecResult{Stdout: string(raw)}
	}
	if resp.StatusCode >= 300 {
		return ExecResult{Stderr: strings.TrimSpace(string(raw))}
	}

	res := ExecResult{Stdout: parsed.Stdout, Stderr: parsed.Stderr}
	if parsed.Run != nil {
		res.Stdout = parsed.Run.Stdout
		res.Stderr = parsed.Run.Stderr
	}
	if res.Stdout == "" && parsed.Output != "" {
		res.Stdout = parsed.Output
	}
	return res
}

// RunAll executes every test case sequentially, one request per case, and
// returns exactly one result row per case in input order. A case passes when
// trimmed stdout equals the trimmed expected output; a case without expected
// output passes vacuously. Errors are absorbed into the row.
func (r *Runner) RunAll(ctx context.Context, language, source string, cases []models.TestCase) []models.TestResult {
	fileName := FileNameFor(language)
	results := make([]models.TestResult, 0, len(cases))

	for _, tc := range cases {
		start := time.Now()
		run := r.Execute(ctx, language, fileName, source, tc.Input)
		elapsed := time.Since(start).Milliseconds()

		stdout := strings.TrimSpace(run.Stdout)
		expected := strings.TrimSpace(tc.ExpectedOutput)
		passed := true
		if expected != "" {
			passed = stdout == expected
		}

		results = append(results, models.TestResult{
			Input:          tc.Input,
			ExpectedOutput: tc.ExpectedOutput,
			ActualOutput:   stdout,
			Passed:         passed,
			ExecutionMS:    elapsed,
			Error:          strings.TrimSpace(run.Stderr),
		})
	}
	return results
}
