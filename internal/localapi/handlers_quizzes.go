package localapi

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/quizdeck/quizdeck/internal/api"
)

func pageParams(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	if page < 0 {
		page = 0
	}
	if size <= 0 || size > 100 {
		size = 10
	}
	return page, size
}

func (s *Server) handleListQuizzes(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	out, err := s.store.ListQuizzes(r.Context(), page, size)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetQuiz(w http.ResponseWriter, r *http.Request) {
	// Takers get the quiz without correctness flags; admins get the full
	// definition for the management screens.
	forExam := !s.isAdmin(r)
	q, err := s.store.GetQuiz(r.Context(), chi.URLParam(r, "quizID"), forExam)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleCreateQuiz(w http.ResponseWriter, r *http.Request) {
	var in api.CreateQuizInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if in.Title == "" || in.DurationMinutes <= 0 {
		writeError(w, http.StatusBadRequest, "title and a positive durationMinutes are required")
		return
	}
	q, err := s.store.CreateQuiz(r.Context(), in)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleUpdateQuiz(w http.ResponseWriter, r *http.Request) {
	var in api.UpdateQuizInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	q, err := s.store.UpdateQuiz(r.Context(), chi.URLParam(r, "quizID"), in)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleDeleteQuiz(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteQuiz(r.Context(), chi.URLParam(r, "quizID")); err != nil {
		writeStoreErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleQuizQuestions(w http.ResponseWriter, r *http.Request) {
	qs, err := s.store.QuizQuestions(r.Context(), chi.URLParam(r, "quizID"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	if !s.isAdmin(r) {
		for i := range qs {
			for j := range qs[i].Answers {
				qs[i].Answers[j].IsCorrect = nil
			}
		}
	}
	writeJSON(w, http.StatusOK, qs)
}

func (s *Server) handleAttachQuestion(w http.ResponseWriter, r *http.Request) {
	err := s.store.AttachQuestion(r.Context(), chi.URLParam(r, "quizID"), chi.URLParam(r, "questionID"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDetachQuestion(w http.ResponseWriter, r *http.Request) {
	err := s.store.DetachQuestion(r.Context(), chi.URLParam(r, "quizID"), chi.URLParam(r, "questionID"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
