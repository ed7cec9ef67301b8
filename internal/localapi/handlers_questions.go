package localapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdeck/quizdeck/internal/api"
)

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	q := r.URL.Query()
	out, err := s.store.ListQuestions(r.Context(), page, size, q.Get("content"), q.Get("type"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	q, err := s.store.GetQuestion(r.Context(), chi.URLParam(r, "questionID"))
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleCreateQuestion(w http.ResponseWriter, r *http.Request) {
	var in api.CreateQuestionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	if in.Content == "" || in.Type == "" {
		writeError(w, http.StatusBadRequest, "content and type are required")
		return
	}
	q, err := s.store.CreateQuestion(r.Context(), in)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, q)
}

func (s *Server) handleUpdateQuestion(w http.ResponseWriter, r *http.Request) {
	var in api.UpdateQuestionInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	q, err := s.store.UpdateQuestion(r.Context(), chi.URLParam(r, "questionID"), in)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, q)
}

func (s *Server) handleDeleteQuestion(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteQuestion(r.Context(), chi.URLParam(r, "questionID")); err != nil {
		writeStoreErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
