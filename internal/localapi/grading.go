package localapi

import (
	"math"

	"github.com/quizdeck/quizdeck/internal/api"
)

// Grade scores a submission against the full quiz (answers with correctness
// flags). A question counts as correct when the selected answer is one of its
// correct answers; unanswered questions count as incorrect. Score is 0-100.
func Grade(quiz api.Quiz, answers []api.AnswerPair) api.ExamResult {
	selected := make(map[string]string, len(answers))
	for _, a := range answers {
		selected[a.QuestionID] = a.SelectedAnswerID
	}

	correct := 0
	for _, q := range quiz.Questions {
		aid, ok := selected[q.ID]
		if !ok {
			continue
		}
		for _, ans := range q.Answers {
			if ans.ID == aid && ans.IsCorrect != nil && *ans.IsCorrect {
				correct++
				break
			}
		}
	}

	total := len(quiz.Questions)
	score := 0.0
	if total > 0 {
		score = math.Round(float64(correct)/float64(total)*10000) / 100
	}
	return api.ExamResult{
		Score:            score,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		IncorrectAnswers: total - correct,
	}
}
