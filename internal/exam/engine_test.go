package exam_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quizdeck/quizdeck/internal/api"
	"github.com/quizdeck/quizdeck/internal/exam"
)

func boolPtr(b bool) *bool { return &b }

func sampleQuiz() api.Quiz {
	return api.Quiz{
		ID:              "quiz-1",
		Title:           "Arithmetic",
		DurationMinutes: 1,
		Questions: []api.Question{
			{
				ID:      "q1",
				Content: "2+2?",
				Answers: []api.Answer{{ID: "a1", Content: "4", IsCorrect: boolPtr(true)}, {ID: "a2", Content: "5"}},
			},
			{
				ID:      "q2",
				Content: "3*3?",
				Answers: []api.Answer{{ID: "a3", Content: "9", IsCorrect: boolPtr(true)}, {ID: "a4", Content: "6"}},
			},
			{
				ID:      "q3",
				Content: "10/2?",
				Answers: []api.Answer{{ID: "a5", Content: "5", IsCorrect: boolPtr(true)}, {ID: "a6", Content: "2"}},
			},
		},
	}
}

func loadFixed(quiz api.Quiz) exam.LoadFunc {
	return func(ctx context.Context, quizID string) (api.Quiz, error) {
		return quiz, nil
	}
}

// submitRecorder counts calls and captures the last submission.
type submitRecorder struct {
	calls int
	last  api.ExamSubmission
	err   error
}

func (s *submitRecorder) fn(ctx context.Context, sub api.ExamSubmission) (api.ExamResult, error) {
	s.calls++
	s.last = sub
	if s.err != nil {
		return api.ExamResult{}, s.err
	}
	return api.ExamResult{ID: "r1", Score: 100, TotalQuestions: len(sub.Answers)}, nil
}

func newLoaded(t *testing.T, cfg exam.Config) *exam.Engine {
	t.Helper()
	if cfg.Load == nil {
		cfg.Load = loadFixed(sampleQuiz())
	}
	if cfg.QuizID == "" {
		cfg.QuizID = "quiz-1"
	}
	if cfg.UserID == "" {
		cfg.UserID = "user-1"
	}
	e := exam.New(cfg)
	if err := e.Load(context.Background()); err != nil {
		t.Fatalf("Load: %v", err)
	}
	return e
}

func TestLoadSeedsSession(t *testing.T) {
	e := newLoaded(t, exam.Config{})
	snap := e.Snapshot()
	if snap.State != exam.StateInProgress {
		t.Fatalf("state = %s, want in progress", snap.State)
	}
	if snap.Index != 0 || snap.Total != 3 {
		t.Fatalf("index/total = %d/%d", snap.Index, snap.Total)
	}
	if snap.Remaining != 60 {
		t.Fatalf("remaining = %d, want 60", snap.Remaining)
	}
}

func TestLoadFailure(t *testing.T) {
	boom := errors.New("backend down")
	e := exam.New(exam.Config{
		QuizID: "quiz-1",
		Load: func(ctx context.Context, quizID string) (api.Quiz, error) {
			return api.Quiz{}, boom
		},
	})
	if err := e.Load(context.Background()); !errors.Is(err, boom) {
		t.Fatalf("Load err = %v", err)
	}
	if e.State() != exam.StateError {
		t.Fatalf("state = %s, want error", e.State())
	}
	if snap := e.Snapshot(); !errors.Is(snap.LoadErr, boom) {
		t.Fatalf("LoadErr = %v", snap.LoadErr)
	}
}

func TestLoadRejectsEmptyQuiz(t *testing.T) {
	e := exam.New(exam.Config{
		QuizID: "quiz-1",
		Load: func(ctx context.Context, quizID string) (api.Quiz, error) {
			return api.Quiz{ID: "quiz-1", DurationMinutes: 5}, nil
		},
	})
	if err := e.Load(context.Background()); err == nil {
		t.Fatal("want error for quiz without questions")
	}
	if e.State() != exam.StateError {
		t.Fatalf("state = %s, want error", e.State())
	}
}

func TestNavigationClampsAtBounds(t *testing.T) {
	e := newLoaded(t, exam.Config{})

	e.Previous()
	if snap := e.Snapshot(); snap.Index != 0 {
		t.Fatalf("Previous at start moved to %d", snap.Index)
	}

	e.Next()
	e.Next()
	e.Next() // already at the last question
	if snap := e.Snapshot(); snap.Index != 2 {
		t.Fatalf("Next past end moved to %d", snap.Index)
	}

	e.JumpTo(99)
	e.JumpTo(-1)
	if snap := e.Snapshot(); snap.Index != 2 {
		t.Fatalf("out-of-range JumpTo moved to %d", snap.Index)
	}

	e.JumpTo(1)
	if snap := e.Snapshot(); snap.Index != 1 {
		t.Fatalf("JumpTo(1) landed on %d", snap.Index)
	}
}

func TestSelectAnswerOverwrites(t *testing.T) {
	e := newLoaded(t, exam.Config{})

	e.SelectAnswer("q1", "a1")
	e.SelectAnswer("q1", "a2")
	if aid, _ := e.Selection("q1"); aid != "a2" {
		t.Fatalf("selection = %s, want a2", aid)
	}

	e.SelectAnswer("nope", "a1")
	if snap := e.Snapshot(); snap.Answered != 1 {
		t.Fatalf("answered = %d after selecting unknown question", snap.Answered)
	}
}

func TestSubmissionOrderAndOmission(t *testing.T) {
	rec := &submitRecorder{}
	e := newLoaded(t, exam.Config{Submit: rec.fn})

	// Answer out of document order; q2 stays unanswered.
	e.SelectAnswer("q3", "a5")
	e.SelectAnswer("q1", "a1")

	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	want := []api.AnswerPair{
		{QuestionID: "q1", SelectedAnswerID: "a1"},
		{QuestionID: "q3", SelectedAnswerID: "a5"},
	}
	if len(rec.last.Answers) != len(want) {
		t.Fatalf("answers = %v", rec.last.Answers)
	}
	for i := range want {
		if rec.last.Answers[i] != want[i] {
			t.Fatalf("answers[%d] = %v, want %v", i, rec.last.Answers[i], want[i])
		}
	}
	if e.State() != exam.StateCompleted {
		t.Fatalf("state = %s, want completed", e.State())
	}
}

func TestSubmitZeroAnswers(t *testing.T) {
	rec := &submitRecorder{}
	e := newLoaded(t, exam.Config{
		Submit:  rec.fn,
		Confirm: func(string) bool { return true },
	})
	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rec.last.Answers == nil || len(rec.last.Answers) != 0 {
		t.Fatalf("answers = %#v, want empty non-nil slice", rec.last.Answers)
	}
}

func TestConfirmDeclinedKeepsSession(t *testing.T) {
	rec := &submitRecorder{}
	e := newLoaded(t, exam.Config{
		Submit:  rec.fn,
		Confirm: func(string) bool { return false },
	})
	e.SelectAnswer("q1", "a1")

	_, err := e.Submit(context.Background())
	if !errors.Is(err, exam.ErrCanceled) {
		t.Fatalf("err = %v, want ErrCanceled", err)
	}
	if rec.calls != 0 {
		t.Fatalf("submit called %d times after decline", rec.calls)
	}
	if e.State() != exam.StateInProgress {
		t.Fatalf("state = %s", e.State())
	}
	if aid, _ := e.Selection("q1"); aid != "a1" {
		t.Fatalf("selection lost: %s", aid)
	}
}

func TestConfirmSkippedWhenAllAnswered(t *testing.T) {
	rec := &submitRecorder{}
	asked := false
	e := newLoaded(t, exam.Config{
		Submit:  rec.fn,
		Confirm: func(string) bool { asked = true; return false },
	})
	e.SelectAnswer("q1", "a1")
	e.SelectAnswer("q2", "a3")
	e.SelectAnswer("q3", "a5")

	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if asked {
		t.Fatal("confirmation asked with no unanswered questions")
	}
}

func TestSubmitFailureRevertsToInProgress(t *testing.T) {
	rec := &submitRecorder{err: errors.New("network down")}
	e := newLoaded(t, exam.Config{Submit: rec.fn})
	e.SelectAnswer("q1", "a1")
	e.SelectAnswer("q2", "a3")
	e.SelectAnswer("q3", "a5")

	if _, err := e.Submit(context.Background()); err == nil {
		t.Fatal("want submit error")
	}
	if e.State() != exam.StateInProgress {
		t.Fatalf("state = %s, want in progress after failure", e.State())
	}
	if aid, _ := e.Selection("q2"); aid != "a3" {
		t.Fatal("answers not preserved across failed submit")
	}

	// Retry succeeds.
	rec.err = nil
	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("retry: %v", err)
	}
	if rec.calls != 2 {
		t.Fatalf("calls = %d", rec.calls)
	}
}

func TestCountdownAutoSubmitsExactlyOnce(t *testing.T) {
	quiz := sampleQuiz()
	quiz.DurationMinutes = 1 // 60 ticks
	rec := &submitRecorder{}
	e := newLoaded(t, exam.Config{Load: loadFixed(quiz), Submit: rec.fn})
	e.SelectAnswer("q1", "a1")

	ctx := context.Background()
	for i := 0; i < 59; i++ {
		e.Tick(ctx)
	}
	if snap := e.Snapshot(); snap.Remaining != 1 {
		t.Fatalf("remaining = %d, want 1", snap.Remaining)
	}
	if rec.calls != 0 {
		t.Fatal("submitted before the clock ran out")
	}

	e.Tick(ctx)
	if rec.calls != 1 {
		t.Fatalf("calls = %d, want 1", rec.calls)
	}
	select {
	case auto := <-e.AutoSubmitted():
		if auto.Err != nil {
			t.Fatalf("auto err = %v", auto.Err)
		}
	default:
		t.Fatal("no auto result delivered")
	}
	if e.State() != exam.StateCompleted {
		t.Fatalf("state = %s", e.State())
	}

	// Stray ticks after completion are no-ops.
	e.Tick(ctx)
	e.Tick(ctx)
	if rec.calls != 1 {
		t.Fatalf("calls = %d after extra ticks", rec.calls)
	}
}

func TestAutoSubmitFailureRetriesOnNextTick(t *testing.T) {
	quiz := sampleQuiz()
	rec := &submitRecorder{err: errors.New("down")}
	e := newLoaded(t, exam.Config{Load: loadFixed(quiz), Submit: rec.fn})

	ctx := context.Background()
	for i := 0; i < 60; i++ {
		e.Tick(ctx)
	}
	if rec.calls != 1 {
		t.Fatalf("calls = %d", rec.calls)
	}
	auto := <-e.AutoSubmitted()
	if auto.Err == nil {
		t.Fatal("want auto submit error")
	}
	if e.State() != exam.StateInProgress {
		t.Fatalf("state = %s, want in progress so the user can retry", e.State())
	}

	// The timeout attempt fires once only; recovery is manual.
	e.Tick(ctx)
	if rec.calls != 1 {
		t.Fatalf("calls = %d, auto submit fired twice", rec.calls)
	}
	rec.err = nil
	if _, err := e.Submit(ctx); err != nil && !errors.Is(err, exam.ErrCanceled) {
		t.Fatalf("manual retry: %v", err)
	}
}

func TestTickSkippedWhileSubmissionInFlight(t *testing.T) {
	var e *exam.Engine
	before := 0
	e = newLoaded(t, exam.Config{
		Submit: func(ctx context.Context, sub api.ExamSubmission) (api.ExamResult, error) {
			before = e.Snapshot().Remaining
			e.Tick(ctx) // ticker firing mid-submit
			return api.ExamResult{ID: "r1"}, nil
		},
		Confirm: func(string) bool { return true },
	})

	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if after := e.Snapshot().Remaining; after != before {
		t.Fatalf("clock moved during submission: %d -> %d", before, after)
	}
}

func TestTimeSpentUsesClock(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	rec := &submitRecorder{}
	e := newLoaded(t, exam.Config{
		Submit: rec.fn,
		Now:    func() time.Time { return now },
	})
	e.SelectAnswer("q1", "a1")
	e.SelectAnswer("q2", "a3")
	e.SelectAnswer("q3", "a5")

	now = now.Add(95 * time.Second)
	if _, err := e.Submit(context.Background()); err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if rec.last.TimeSpent != 95 {
		t.Fatalf("timeSpent = %d, want 95", rec.last.TimeSpent)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	e := newLoaded(t, exam.Config{TickInterval: time.Millisecond})
	e.Start(context.Background())
	e.Stop()
	e.Stop()
}
