package client

import (
	"errors"
	"net/http"
	"time"

	"github.com/akramjonkamolov673/cyberarena/dto"
	"github.com/akramjonkamolov673/cyberarena/models"
	"github.com/google/uuid"
)

// AttemptState is the lifecycle of one test attempt.
type AttemptState int

const (
	AttemptNotStarted AttemptState = iota
	AttemptStarted
	AttemptSubmitted
)

var (
	ErrAttemptNotStarted     = errors.New("attempt not started")
	ErrAttemptAlreadyStarted = errors.New("attempt already started")
	ErrAttemptFinished       = errors.New("attempt already submitted")
	ErrNoAnswers             = errors.New("no answers recorded")
)

// TestView is a test set as served to a student: options without correct
// answers.
type TestView struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Difficulty  string    `json:"difficulty"`
	Questions   []struct {
		Text    string   `json:"text"`
		Options []string `json:"options"`
	} `json:"questions"`
	StartTime *time.Time `json:"start_time"`
	EndTime   *time.Time `json:"end_time"`
}

// Attempt drives one pass through a test set: start, answer, submit. The
// timer runs on the injected clock; once the duration elapses any interaction
// first submits whatever has been answered, exactly once.
type Attempt struct {
	session *Session
	test    TestView

	state     AttemptState
	duration  time.Duration
	startedAt time.Time
	answers   map[int]int

	now func() time.Time

	Result *AttemptResult
}

// AttemptResult is the graded sheet returned on submit.
type AttemptResult struct {
	CorrectCount int     `json:"correct_count"`
	WrongCount   int     `json:"wrong_count"`
	Score        float64 `json:"score"`
	AutoSubmit   bool    `json:"-"`
}

// NewAttempt prepares an attempt for the given test. A zero duration means
// no time limit.
func NewAttempt(session *Session, test TestView, duration time.Duration) *Attempt {
	return &Attempt{
		session:  session,
		test:     test,
		duration: duration,
		answers:  make(map[int]int),
		now:      time.Now,
	}
}

func (a *Attempt) State() AttemptState {
	return a.state
}

// Start begins the countdown. Starting twice is an error, not a reset.
func (a *Attempt) Start() error {
	switch a.state {
	case AttemptStarted:
		return ErrAttemptAlreadyStarted
	case AttemptSubmitted:
		return ErrAttemptFinished
	}
	a.state = AttemptStarted
	a.startedAt = a.now()
	return nil
}

// Remaining reports the time left, never negative. With no time limit it
// reports zero and Expired stays false.
func (a *Attempt) Remaining() time.Duration {
	if a.state != AttemptStarted || a.duration == 0 {
		return 0
	}
	left := a.duration - a.now().Sub(a.startedAt)
	if left < 0 {
		return 0
	}
	return left
}

func (a *Attempt) Expired() bool {
	return a.state == AttemptStarted && a.duration > 0 && a.now().Sub(a.startedAt) >= a.duration
}

// checkExpiry auto-submits when the timer has run out. The Submitted state
// guarantees this fires at most once.
func (a *Attempt) checkExpiry() error {
	if !a.Expired() {
		return nil
	}
	if err := a.submit(true); err != nil {
		return err
	}
	return ErrAttemptFinished
}

// Answer records the selected option (0-based) for a question. Answering the
// same question again replaces the earlier choice.
func (a *Attempt) Answer(questionIndex, selected int) error {
	if a.state == AttemptNotStarted {
		return ErrAttemptNotStarted
	}
	if a.state == AttemptSubmitted {
		return ErrAttemptFinished
	}
	if err := a.checkExpiry(); err != nil {
		return err
	}
	if questionIndex < 0 || questionIndex >= len(a.test.Questions) {
		return errors.New("question index out of range")
	}
	if selected < 0 || selected >= len(a.test.Questions[questionIndex].Options) {
		return errors.New("selected option out of range")
	}
	a.answers[questionIndex] = selected
	return nil
}

// Answered returns the current selection for a question.
func (a *Attempt) Answered(questionIndex int) (int, bool) {
	sel, ok := a.answers[questionIndex]
	return sel, ok
}

// Submit sends the answer sheet. At least one answer is required for a
// manual submit; the expiry auto-submit sends whatever is there. After the
// first submit, whether manual or automatic, the attempt is finished for
// good.
func (a *Attempt) Submit() error {
	if a.state == AttemptNotStarted {
		return ErrAttemptNotStarted
	}
	if a.state == AttemptSubmitted {
		return ErrAttemptFinished
	}
	if err := a.checkExpiry(); err != nil {
		return err
	}
	if len(a.answers) == 0 {
		return ErrNoAnswers
	}
	return a.submit(false)
}

func (a *Attempt) submit(auto bool) error {
	answers := make([]models.Answer, 0, len(a.answers))
	for i := 0; i < len(a.test.Questions); i++ {
		if sel, ok := a.answers[i]; ok {
			answers = append(answers, models.Answer{QuestionIndex: i, Selected: sel})
		}
	}

	req, err := dto.BuildSubmission(dto.Submission{
		Kind:             dto.KindTest,
		TestSetID:        a.test.ID,
		Answers:          answers,
		TimeSpentSeconds: int(a.now().Sub(a.startedAt).Seconds()),
	})
	if err != nil {
		return err
	}

	var result AttemptResult
	if err := a.session.Client.Request(http.MethodPost, req.Endpoint, req.Body, &result); err != nil {
		return err
	}
	result.AutoSubmit = auto
	a.state = AttemptSubmitted
	a.Result = &result
	return nil
}
