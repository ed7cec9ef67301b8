package localapi_test

import (
	"testing"

	"github.com/quizdeck/quizdeck/internal/api"
	"github.com/quizdeck/quizdeck/internal/localapi"
)

func yes() *bool { b := true; return &b }

func gradedQuiz() api.Quiz {
	return api.Quiz{
		ID:    "q",
		Title: "Arithmetic",
		Questions: []api.Question{
			{ID: "q1", Answers: []api.Answer{{ID: "a1", IsCorrect: yes()}, {ID: "a2"}}},
			{ID: "q2", Answers: []api.Answer{{ID: "a3", IsCorrect: yes()}, {ID: "a4"}}},
			{ID: "q3", Answers: []api.Answer{{ID: "a5", IsCorrect: yes()}, {ID: "a6"}}},
		},
	}
}

func TestGradeCountsCorrectSelections(t *testing.T) {
	res := localapi.Grade(gradedQuiz(), []api.AnswerPair{
		{QuestionID: "q1", SelectedAnswerID: "a1"},
		{QuestionID: "q2", SelectedAnswerID: "a4"}, // wrong pick
	})
	if res.CorrectAnswers != 1 || res.IncorrectAnswers != 2 || res.TotalQuestions != 3 {
		t.Fatalf("result = %+v", res)
	}
	if res.Score != 33.33 {
		t.Fatalf("score = %v, want 33.33", res.Score)
	}
}

func TestGradeEmptySubmission(t *testing.T) {
	res := localapi.Grade(gradedQuiz(), nil)
	if res.Score != 0 || res.CorrectAnswers != 0 || res.IncorrectAnswers != 3 {
		t.Fatalf("result = %+v", res)
	}
}

func TestGradePerfectScore(t *testing.T) {
	res := localapi.Grade(gradedQuiz(), []api.AnswerPair{
		{QuestionID: "q1", SelectedAnswerID: "a1"},
		{QuestionID: "q2", SelectedAnswerID: "a3"},
		{QuestionID: "q3", SelectedAnswerID: "a5"},
	})
	if res.Score != 100 {
		t.Fatalf("score = %v", res.Score)
	}
}

func TestGradeUnknownAnswerIDIsWrong(t *testing.T) {
	res := localapi.Grade(gradedQuiz(), []api.AnswerPair{
		{QuestionID: "q1", SelectedAnswerID: "bogus"},
	})
	if res.CorrectAnswers != 0 {
		t.Fatalf("result = %+v", res)
	}
}

func TestGradeEmptyQuiz(t *testing.T) {
	res := localapi.Grade(api.Quiz{}, nil)
	if res.Score != 0 || res.TotalQuestions != 0 {
		t.Fatalf("result = %+v", res)
	}
}
