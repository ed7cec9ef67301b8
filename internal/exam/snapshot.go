package exam

import "github.com/quizdeck/quizdeck/internal/api"

// QuestionStatus is the navigator-grid state of one question.
type QuestionStatus string

const (
	StatusActive     QuestionStatus = "active"
	StatusAnswered   QuestionStatus = "answered"
	StatusUnanswered QuestionStatus = "unanswered"
)

// Snapshot is a consistent read of the session for rendering.
type Snapshot struct {
	State     State
	QuizTitle string
	Index     int
	Total     int
	Remaining int // seconds
	Answered  int
	Statuses  []QuestionStatus
	LoadErr   error
}

func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	s := Snapshot{
		State:     e.state,
		QuizTitle: e.quiz.Title,
		Index:     e.idx,
		Total:     len(e.quiz.Questions),
		Remaining: e.remaining,
		Answered:  len(e.selections),
		LoadErr:   e.loadErr,
	}
	s.Statuses = make([]QuestionStatus, len(e.quiz.Questions))
	for i, q := range e.quiz.Questions {
		switch {
		case i == e.idx:
			s.Statuses[i] = StatusActive
		case e.selections[q.ID] != "":
			s.Statuses[i] = StatusAnswered
		default:
			s.Statuses[i] = StatusUnanswered
		}
	}
	return s
}

// CurrentQuestion returns the question at the current index.
func (e *Engine) CurrentQuestion() (api.Question, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateInProgress || e.idx >= len(e.quiz.Questions) {
		return api.Question{}, false
	}
	return e.quiz.Questions[e.idx], true
}

// Selection returns the recorded answer for a question, if any.
func (e *Engine) Selection(questionID string) (string, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	aid, ok := e.selections[questionID]
	return aid, ok
}

// Result returns the scored result once the session is Completed.
func (e *Engine) Result() (api.ExamResult, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != StateCompleted {
		return api.ExamResult{}, false
	}
	return e.result, true
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}
