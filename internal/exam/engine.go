// Package exam drives one exam session: question-by-question answer
// collection, the countdown, and the single submission that ends it.
package exam

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/quizdeck/quizdeck/internal/api"
)

type State string

const (
	StateLoading    State = "loading"
	StateInProgress State = "in_progress"
	StateSubmitting State = "submitting"
	StateCompleted  State = "completed"
	StateError      State = "error"
)

var (
	ErrNotInProgress = errors.New("exam: not in progress")
	ErrSubmitPending = errors.New("exam: submission already in flight")
	ErrCanceled      = errors.New("exam: submission canceled")
)

// LoadFunc fetches the quiz definition for the session.
type LoadFunc func(ctx context.Context, quizID string) (api.Quiz, error)

// SubmitFunc posts the assembled submission and returns the scored result.
type SubmitFunc func(ctx context.Context, sub api.ExamSubmission) (api.ExamResult, error)

// ConfirmFunc asks the user a yes/no question. Injected so tests and
// non-interactive callers can decide without a terminal prompt.
type ConfirmFunc func(prompt string) bool

// AutoResult carries the outcome of a timeout-triggered submission to
// whoever is rendering the session.
type AutoResult struct {
	Result api.ExamResult
	Err    error
}

type Config struct {
	QuizID  string
	UserID  string
	Load    LoadFunc
	Submit  SubmitFunc
	Confirm ConfirmFunc

	// Now is the clock used for elapsed-time assembly. Defaults to time.Now.
	Now func() time.Time
	// TickInterval defaults to one second.
	TickInterval time.Duration
}

// Engine is the exam-taking state machine:
//
//	Loading -> InProgress -> Submitting -> Completed
//	    \__ Error              \__ back to InProgress on submit failure
//
// The countdown ticks once per interval while InProgress and triggers a
// single automatic submission when it reaches zero.
type Engine struct {
	mu sync.Mutex

	cfg   Config
	state State
	quiz  api.Quiz

	idx        int
	selections map[string]string // questionID -> answerID, last write wins
	remaining  int               // seconds
	startedAt  time.Time

	pending   bool // a submission request is in flight
	autoFired bool // the timeout submission was already attempted
	loadErr   error
	result    api.ExamResult

	stopCh   chan struct{}
	stopOnce sync.Once
	autoCh   chan AutoResult
}

func New(cfg Config) *Engine {
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = time.Second
	}
	if cfg.Confirm == nil {
		cfg.Confirm = func(string) bool { return true }
	}
	return &Engine{
		cfg:        cfg,
		state:      StateLoading,
		selections: map[string]string{},
		stopCh:     make(chan struct{}),
		autoCh:     make(chan AutoResult, 1),
	}
}

// Load fetches the quiz and seeds the session. On success the engine is
// InProgress at question 0 with a full clock; on failure it is in a terminal
// Error state and the caller should navigate back to the quiz list.
func (e *Engine) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.state != StateLoading {
		e.mu.Unlock()
		return fmt.Errorf("exam: load in state %s", e.state)
	}
	e.mu.Unlock()

	if e.cfg.QuizID == "" {
		return e.failLoad(errors.New("exam: missing quiz id"))
	}
	quiz, err := e.cfg.Load(ctx, e.cfg.QuizID)
	if err != nil {
		return e.failLoad(err)
	}
	if len(quiz.Questions) == 0 {
		return e.failLoad(errors.New("exam: quiz has no questions"))
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.quiz = quiz
	e.state = StateInProgress
	e.idx = 0
	e.remaining = quiz.DurationMinutes * 60
	e.startedAt = e.cfg.Now()
	return nil
}

func (e *Engine) failLoad(err error) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = StateError
	e.loadErr = err
	e.stopTimer()
	return err
}

// SelectAnswer records the answer for a question, overwriting any previous
// pick. No validation against question type: one selection per question.
func (e *Engine) SelectAnswer(questionID, answerID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress {
		return
	}
	for _, q := range e.quiz.Questions {
		if q.ID == questionID {
			e.selections[questionID] = answerID
			return
		}
	}
}

func (e *Engine) Next() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateInProgress && e.idx < len(e.quiz.Questions)-1 {
		e.idx++
	}
}

func (e *Engine) Previous() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateInProgress && e.idx > 0 {
		e.idx--
	}
}

// JumpTo moves directly to a question from the navigator grid. Out-of-range
// targets are ignored.
func (e *Engine) JumpTo(i int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state == StateInProgress && i >= 0 && i < len(e.quiz.Questions) {
		e.idx = i
	}
}

// Start runs the countdown in a goroutine until Stop or a terminal state.
func (e *Engine) Start(ctx context.Context) {
	go func() {
		t := time.NewTicker(e.cfg.TickInterval)
		defer t.Stop()
		for {
			select {
			case <-e.stopCh:
				return
			case <-ctx.Done():
				return
			case <-t.C:
				e.Tick(ctx)
			}
		}
	}()
}

// Stop cancels the countdown. Safe to call any number of times; always called
// when the session view goes away so no stale tick fires afterwards.
func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.stopTimer()
}

func (e *Engine) stopTimer() {
	e.stopOnce.Do(func() { close(e.stopCh) })
}

// Tick advances the countdown by one second. Reaching zero triggers the
// automatic submission, exactly once, and never while another submission is
// in flight.
func (e *Engine) Tick(ctx context.Context) {
	e.mu.Lock()
	if e.state != StateInProgress || e.pending {
		e.mu.Unlock()
		return
	}
	if e.remaining > 0 {
		e.remaining--
	}
	expired := e.remaining <= 0 && !e.autoFired
	if expired {
		e.autoFired = true
	}
	e.mu.Unlock()

	if expired {
		// Timeout submission skips the confirmation a user-initiated submit
		// would go through.
		res, err := e.submit(ctx)
		select {
		case e.autoCh <- AutoResult{Result: res, Err: err}:
		default:
		}
	}
}

// AutoSubmitted delivers the outcome of a timeout-triggered submission.
func (e *Engine) AutoSubmitted() <-chan AutoResult { return e.autoCh }

// Submit is the user-initiated submission. When unanswered questions remain
// the injected confirmation decides whether to proceed.
func (e *Engine) Submit(ctx context.Context) (api.ExamResult, error) {
	e.mu.Lock()
	if e.state != StateInProgress {
		st := e.state
		e.mu.Unlock()
		return api.ExamResult{}, fmt.Errorf("%w (state %s)", ErrNotInProgress, st)
	}
	if e.pending {
		e.mu.Unlock()
		return api.ExamResult{}, ErrSubmitPending
	}
	unanswered := len(e.quiz.Questions) - len(e.selections)
	e.mu.Unlock()

	if unanswered > 0 {
		prompt := fmt.Sprintf("You have %d unanswered question(s). Submit anyway?", unanswered)
		if !e.cfg.Confirm(prompt) {
			return api.ExamResult{}, ErrCanceled
		}
	}
	return e.submit(ctx)
}

// submit performs the one submission request. The pending flag re-checked
// under the lock is what makes "at most one submission" hold between the
// ticker goroutine and the caller.
func (e *Engine) submit(ctx context.Context) (api.ExamResult, error) {
	e.mu.Lock()
	if e.state != StateInProgress || e.pending {
		e.mu.Unlock()
		return api.ExamResult{}, ErrSubmitPending
	}
	e.pending = true
	e.state = StateSubmitting
	sub := e.buildSubmission()
	e.mu.Unlock()

	res, err := e.cfg.Submit(ctx, sub)

	e.mu.Lock()
	defer e.mu.Unlock()
	e.pending = false
	if err != nil {
		// Answers are preserved; the user may retry.
		e.state = StateInProgress
		return api.ExamResult{}, err
	}
	e.state = StateCompleted
	e.result = res
	e.stopTimer()
	return res, nil
}

// buildSubmission assembles the payload in question order. Unanswered
// questions are absent. Callers hold mu.
func (e *Engine) buildSubmission() api.ExamSubmission {
	answers := make([]api.AnswerPair, 0, len(e.selections))
	for _, q := range e.quiz.Questions {
		if aid, ok := e.selections[q.ID]; ok {
			answers = append(answers, api.AnswerPair{QuestionID: q.ID, SelectedAnswerID: aid})
		}
	}
	return api.ExamSubmission{
		UserID:    e.cfg.UserID,
		QuizID:    e.quiz.ID,
		Answers:   answers,
		TimeSpent: int(e.cfg.Now().Sub(e.startedAt).Seconds()),
	}
}
