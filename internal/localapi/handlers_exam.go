package localapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdeck/quizdeck/internal/api"
)

// handleSubmitExam scores an exam submission and stores the result. The quiz
// is loaded with its correctness flags; missing answers grade as incorrect.
func (s *Server) handleSubmitExam(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	quizID := chi.URLParam(r, "quizID")
	if userIDFromContext(r.Context()) != userID && !s.isAdmin(r) {
		writeError(w, http.StatusForbidden, "cannot submit for another user")
		return
	}

	var req struct {
		Answers   []api.AnswerPair `json:"answers"`
		TimeSpent int              `json:"timeSpent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if req.Answers == nil {
		req.Answers = []api.AnswerPair{}
	}

	if _, err := s.store.GetUser(r.Context(), userID); err != nil {
		writeStoreErr(w, err)
		return
	}
	quiz, err := s.store.GetQuiz(r.Context(), quizID, false)
	if err != nil {
		writeStoreErr(w, err)
		return
	}

	result := Grade(quiz, req.Answers)
	result, err = s.store.SaveSubmission(r.Context(), userID, quiz, req.Answers, result, req.TimeSpent)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	s.log.Info("exam submitted", "quiz_id", quizID, "score", result.Score)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleQuizSubmissions(w http.ResponseWriter, r *http.Request) {
	out, err := s.store.QuizSubmissions(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetSubmission(w http.ResponseWriter, r *http.Request) {
	res, err := s.store.Submission(r.Context(), chi.URLParam(r, "submissionID"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleUserSubmissions(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if userIDFromContext(r.Context()) != userID && !s.isAdmin(r) {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	out, err := s.store.UserSubmissions(r.Context(), userID)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
