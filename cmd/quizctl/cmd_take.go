package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v3"

	"github.com/quizdeck/quizdeck/internal/api"
	"github.com/quizdeck/quizdeck/internal/exam"
)

func (a *app) takeCommand() *cli.Command {
	return &cli.Command{
		Name:      "take",
		Usage:     "take a quiz interactively",
		ArgsUsage: "<quiz-id>",
		Action: func(ctx context.Context, cmd *cli.Command) error {
			user, err := a.requirePerm("exam:take")
			if err != nil {
				return err
			}
			quizID := cmd.Args().First()
			if quizID == "" {
				return fmt.Errorf("quiz id required")
			}
			return a.runExam(ctx, user, quizID)
		},
	}
}

// runExam drives one exam session: countdown in the background, commands on
// stdin, a single submission at the end no matter who triggers it.
func (a *app) runExam(ctx context.Context, user api.User, quizID string) error {
	lines := make(chan string)
	go func() {
		sc := bufio.NewScanner(os.Stdin)
		for sc.Scan() {
			lines <- strings.TrimSpace(sc.Text())
		}
		close(lines)
	}()

	eng := exam.New(exam.Config{
		QuizID: quizID,
		UserID: user.ID,
		Load:   a.svc.QuizForExam,
		Submit: a.svc.SubmitExam,
		Confirm: func(prompt string) bool {
			fmt.Fprintf(a.out, "%s [y/N] ", prompt)
			line, ok := <-lines
			return ok && strings.EqualFold(line, "y")
		},
	})

	if err := eng.Load(ctx); err != nil {
		fmt.Fprintln(a.out, "Could not load the quiz. Returning to the quiz list.")
		return err
	}
	eng.Start(ctx)
	defer eng.Stop()

	a.renderExam(eng)

	for {
		select {
		case auto := <-eng.AutoSubmitted():
			if auto.Err != nil {
				fmt.Fprintln(a.out, "Time is up, but the submission failed. Type `submit` to retry.")
				continue
			}
			fmt.Fprintln(a.out, "\nTime is up. Your answers were submitted automatically.")
			a.renderResult(auto.Result)
			return nil

		case line, ok := <-lines:
			if !ok {
				return fmt.Errorf("input closed; exam abandoned")
			}
			done, err := a.handleExamCommand(ctx, eng, line)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

// handleExamCommand applies one stdin command. done is true once a result was
// rendered and the session is over.
func (a *app) handleExamCommand(ctx context.Context, eng *exam.Engine, line string) (done bool, err error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		a.renderExam(eng)
		return false, nil
	}

	switch fields[0] {
	case "a", "answer":
		if len(fields) < 2 {
			fmt.Fprintln(a.out, "usage: a <answer-number>")
			return false, nil
		}
		n, convErr := strconv.Atoi(fields[1])
		q, ok := eng.CurrentQuestion()
		if convErr != nil || !ok || n < 1 || n > len(q.Answers) {
			fmt.Fprintln(a.out, "pick an answer number shown on screen")
			return false, nil
		}
		eng.SelectAnswer(q.ID, q.Answers[n-1].ID)
	case "n", "next":
		eng.Next()
	case "p", "prev":
		eng.Previous()
	case "g", "goto":
		if len(fields) < 2 {
			fmt.Fprintln(a.out, "usage: g <question-number>")
			return false, nil
		}
		if n, convErr := strconv.Atoi(fields[1]); convErr == nil {
			eng.JumpTo(n - 1)
		}
	case "submit":
		result, submitErr := eng.Submit(ctx)
		switch {
		case errors.Is(submitErr, exam.ErrCanceled):
			// kept working, fall through to re-render
		case submitErr != nil:
			fmt.Fprintln(a.out, "Failed to submit quiz. Please try again.")
		default:
			a.renderResult(result)
			return true, nil
		}
	case "q", "quit":
		return false, fmt.Errorf("exam abandoned")
	case "h", "help":
		fmt.Fprintln(a.out, "commands: a <n> answer, n next, p prev, g <n> goto, submit, quit")
	default:
		fmt.Fprintf(a.out, "unknown command %q (h for help)\n", fields[0])
	}

	a.renderExam(eng)
	return false, nil
}

func (a *app) renderExam(eng *exam.Engine) {
	snap := eng.Snapshot()
	if snap.State != exam.StateInProgress {
		return
	}

	fmt.Fprintf(a.out, "\n%s  |  %s  |  %d/%d answered\n",
		snap.QuizTitle, formatClock(snap.Remaining), snap.Answered, snap.Total)
	fmt.Fprintf(a.out, "%s\n", navigator(snap.Statuses))

	q, ok := eng.CurrentQuestion()
	if !ok {
		return
	}
	fmt.Fprintf(a.out, "\nQuestion %d of %d: %s\n", snap.Index+1, snap.Total, q.Content)
	selected, _ := eng.Selection(q.ID)
	for i, ans := range q.Answers {
		marker := " "
		if ans.ID == selected {
			marker = "*"
		}
		fmt.Fprintf(a.out, " %s %d. %s\n", marker, i+1, ans.Content)
	}
	fmt.Fprint(a.out, "> ")
}

func (a *app) renderResult(res api.ExamResult) {
	fmt.Fprintf(a.out, "\nResults for %s\n", res.QuizTitle)
	fmt.Fprintf(a.out, "Score: %.1f%%\n", res.Score)
	fmt.Fprintf(a.out, "Correct:   %d\nIncorrect: %d\nTotal:     %d\n",
		res.CorrectAnswers, res.IncorrectAnswers, res.TotalQuestions)
}

// formatClock renders remaining seconds as mm:ss.
func formatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}

// navigator renders the question grid: [3] current, [x] answered, [ ] open.
func navigator(statuses []exam.QuestionStatus) string {
	var b strings.Builder
	for i, st := range statuses {
		switch st {
		case exam.StatusActive:
			fmt.Fprintf(&b, "[%d]", i+1)
		case exam.StatusAnswered:
			b.WriteString("[x]")
		default:
			b.WriteString("[ ]")
		}
	}
	return b.String()
}
