package query

import (
	"context"
	"fmt"

	"github.com/quizdeck/quizdeck/internal/api"
)

// Service pairs the API client with the cache and applies the invalidation
// rules for each mutation.
type Service struct {
	api   *api.Client
	cache *Cache
}

func NewService(c *api.Client, cache *Cache) *Service {
	return &Service{api: c, cache: cache}
}

func quizzesKey(o api.ListOpts) string      { return fmt.Sprintf("quizzes:p%d:s%d", o.Page, o.Size) }
func quizKey(id string) string              { return "quiz:" + id }
func quizQuestionsKey(id string) string     { return "quiz-questions:" + id }
func questionKey(id string) string          { return "question:" + id }
func usersKey(o api.ListOpts) string        { return fmt.Sprintf("users:p%d:s%d", o.Page, o.Size) }
func userSubmissionsKey(uid string) string  { return "user-submissions:" + uid }
func quizSubmissionsKey(qid string) string  { return "quiz-submissions:" + qid }
func questionsKey(f api.QuestionFilter) string {
	return fmt.Sprintf("questions:p%d:s%d:c%s:t%s", f.Page, f.Size, f.Content, f.Type)
}

func (s *Service) Quizzes(ctx context.Context, opts api.ListOpts) (api.Page[api.Quiz], error) {
	return Fetch(ctx, s.cache, quizzesKey(opts), func(ctx context.Context) (api.Page[api.Quiz], error) {
		return s.api.ListQuizzes(ctx, opts)
	})
}

func (s *Service) Quiz(ctx context.Context, id string) (api.Quiz, error) {
	return Fetch(ctx, s.cache, quizKey(id), func(ctx context.Context) (api.Quiz, error) {
		return s.api.GetQuiz(ctx, id)
	})
}

// QuizForExam bypasses the cache: the exam engine must load a fresh,
// immutable copy of the quiz for its session.
func (s *Service) QuizForExam(ctx context.Context, id string) (api.Quiz, error) {
	return s.api.GetQuiz(ctx, id)
}

func (s *Service) Questions(ctx context.Context, f api.QuestionFilter) (api.Page[api.Question], error) {
	return Fetch(ctx, s.cache, questionsKey(f), func(ctx context.Context) (api.Page[api.Question], error) {
		return s.api.ListQuestions(ctx, f)
	})
}

func (s *Service) Question(ctx context.Context, id string) (api.Question, error) {
	return Fetch(ctx, s.cache, questionKey(id), func(ctx context.Context) (api.Question, error) {
		return s.api.GetQuestion(ctx, id)
	})
}

func (s *Service) Users(ctx context.Context, opts api.ListOpts) (api.Page[api.User], error) {
	return Fetch(ctx, s.cache, usersKey(opts), func(ctx context.Context) (api.Page[api.User], error) {
		return s.api.ListUsers(ctx, opts)
	})
}

func (s *Service) UserSubmissions(ctx context.Context, userID string) ([]api.ExamResult, error) {
	return Fetch(ctx, s.cache, userSubmissionsKey(userID), func(ctx context.Context) ([]api.ExamResult, error) {
		return s.api.UserSubmissions(ctx, userID)
	})
}

func (s *Service) QuizSubmissions(ctx context.Context, quizID string) ([]api.ExamResult, error) {
	return Fetch(ctx, s.cache, quizSubmissionsKey(quizID), func(ctx context.Context) ([]api.ExamResult, error) {
		return s.api.QuizSubmissions(ctx, quizID)
	})
}

// Mutations.

func (s *Service) CreateQuiz(ctx context.Context, in api.CreateQuizInput) (api.Quiz, error) {
	q, err := s.api.CreateQuiz(ctx, in)
	if err != nil {
		return api.Quiz{}, err
	}
	s.cache.Invalidate("quizzes:*")
	return q, nil
}

func (s *Service) UpdateQuiz(ctx context.Context, id string, in api.UpdateQuizInput) (api.Quiz, error) {
	q, err := s.api.UpdateQuiz(ctx, id, in)
	if err != nil {
		return api.Quiz{}, err
	}
	s.cache.Invalidate("quizzes:*", quizKey(id))
	return q, nil
}

func (s *Service) DeleteQuiz(ctx context.Context, id string) error {
	if err := s.api.DeleteQuiz(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate("quizzes:*", quizKey(id))
	return nil
}

func (s *Service) AddQuestionToQuiz(ctx context.Context, quizID, questionID string) error {
	if err := s.api.AddQuestionToQuiz(ctx, quizID, questionID); err != nil {
		return err
	}
	s.cache.Invalidate(quizKey(quizID), quizQuestionsKey(quizID))
	return nil
}

func (s *Service) RemoveQuestionFromQuiz(ctx context.Context, quizID, questionID string) error {
	if err := s.api.RemoveQuestionFromQuiz(ctx, quizID, questionID); err != nil {
		return err
	}
	s.cache.Invalidate(quizKey(quizID), quizQuestionsKey(quizID))
	return nil
}

func (s *Service) CreateQuestion(ctx context.Context, in api.CreateQuestionInput) (api.Question, error) {
	q, err := s.api.CreateQuestion(ctx, in)
	if err != nil {
		return api.Question{}, err
	}
	s.cache.Invalidate("questions:*")
	return q, nil
}

func (s *Service) UpdateQuestion(ctx context.Context, id string, in api.UpdateQuestionInput) (api.Question, error) {
	q, err := s.api.UpdateQuestion(ctx, id, in)
	if err != nil {
		return api.Question{}, err
	}
	s.cache.Invalidate("questions:*", questionKey(id))
	return q, nil
}

func (s *Service) DeleteQuestion(ctx context.Context, id string) error {
	if err := s.api.DeleteQuestion(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate("questions:*", questionKey(id))
	return nil
}

func (s *Service) UpdateUser(ctx context.Context, id string, u api.User) (api.User, error) {
	out, err := s.api.UpdateUser(ctx, id, u)
	if err != nil {
		return api.User{}, err
	}
	s.cache.Invalidate("users:*")
	return out, nil
}

func (s *Service) DeleteUser(ctx context.Context, id string) error {
	if err := s.api.DeleteUser(ctx, id); err != nil {
		return err
	}
	s.cache.Invalidate("users:*")
	return nil
}

func (s *Service) AssignRole(ctx context.Context, userID, role string) error {
	if err := s.api.AssignRole(ctx, userID, role); err != nil {
		return err
	}
	s.cache.Invalidate("users:*")
	return nil
}

func (s *Service) RevokeRole(ctx context.Context, userID, role string) error {
	if err := s.api.RevokeRole(ctx, userID, role); err != nil {
		return err
	}
	s.cache.Invalidate("users:*")
	return nil
}

func (s *Service) SubmitExam(ctx context.Context, sub api.ExamSubmission) (api.ExamResult, error) {
	res, err := s.api.SubmitExam(ctx, sub)
	if err != nil {
		return api.ExamResult{}, err
	}
	s.cache.Invalidate(userSubmissionsKey(sub.UserID), quizSubmissionsKey(sub.QuizID))
	return res, nil
}
