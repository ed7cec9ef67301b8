package localapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/quizdeck/quizdeck/internal/api"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	if req.Email == "" || len(req.Password) < 8 || req.FullName == "" {
		writeError(w, http.StatusBadRequest, "email, fullName and a password of at least 8 characters are required")
		return
	}
	if _, err := s.store.UserByEmail(r.Context(), req.Email); err == nil {
		writeError(w, http.StatusConflict, "email already registered")
		return
	} else if !errors.Is(err, ErrNotFound) {
		writeStoreErr(w, err)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	u, err := s.store.CreateUser(r.Context(), req.Email, req.FullName, req.Phone, string(hash), []string{"user"})
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	s.respondAuth(w, u)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	rec, err := s.store.UserByEmail(r.Context(), strings.TrimSpace(strings.ToLower(req.Email)))
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(rec.PasswordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "invalid credentials")
		return
	}
	s.respondAuth(w, rec.User)
}

func (s *Server) respondAuth(w http.ResponseWriter, u api.User) {
	access, err := s.auth.IssueAccess(u.ID, u.Email, u.Roles)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "issue token")
		return
	}
	refresh, err := s.auth.IssueRefresh(u.ID)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "issue token")
		return
	}
	writeJSON(w, http.StatusOK, api.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "Bearer",
		User:         u,
	})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refreshToken"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.RefreshToken == "" {
		writeError(w, http.StatusBadRequest, "refreshToken required")
		return
	}
	claims, err := s.auth.Parse(req.RefreshToken, "refresh")
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token")
		return
	}
	u, err := s.store.GetUser(r.Context(), claims.Sub)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return
	}
	access, err := s.auth.IssueAccess(u.ID, u.Email, u.Roles)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "issue token")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"accessToken": access})
}
