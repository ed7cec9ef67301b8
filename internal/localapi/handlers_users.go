package localapi

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quizdeck/quizdeck/internal/api"
	"github.com/quizdeck/quizdeck/internal/rbac"
)

func (s *Server) isAdmin(r *http.Request) bool {
	return s.checker.HasAny(rbac.RolesFromContext(r.Context()), "users:list")
}

func (s *Server) handleListUsers(w http.ResponseWriter, r *http.Request) {
	page, size := pageParams(r)
	out, err := s.store.ListUsers(r.Context(), page, size)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// handleUpdateUser lets admins edit anyone and users edit themselves.
func (s *Server) handleUpdateUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "userID")
	if !s.isAdmin(r) && userIDFromContext(r.Context()) != id {
		writeError(w, http.StatusForbidden, "forbidden")
		return
	}
	var in struct {
		FullName string `json:"fullName"`
		Phone    string `json:"phone"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, "bad json")
		return
	}
	u, err := s.store.UpdateUser(r.Context(), id, in.FullName, in.Phone)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) handleDeleteUser(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteUser(r.Context(), chi.URLParam(r, "userID")); err != nil {
		writeStoreErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListRoles(w http.ResponseWriter, r *http.Request) {
	roles := make([]api.Role, 0, len(rbac.RolePermissions))
	for name := range rbac.RolePermissions {
		roles = append(roles, api.Role{ID: name, Name: name})
	}
	writeJSON(w, http.StatusOK, roles)
}

func (s *Server) changeRole(w http.ResponseWriter, r *http.Request, add bool) {
	id := chi.URLParam(r, "userID")
	role := chi.URLParam(r, "role")
	if _, ok := rbac.RolePermissions[role]; !ok {
		writeError(w, http.StatusBadRequest, "unknown role")
		return
	}
	u, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		writeStoreErr(w, err)
		return
	}
	roles := []string{}
	for _, existing := range u.Roles {
		if existing != role {
			roles = append(roles, existing)
		}
	}
	if add {
		roles = append(roles, role)
	}
	if len(roles) == 0 {
		writeError(w, http.StatusBadRequest, "user must keep at least one role")
		return
	}
	if err := s.store.SetRoles(r.Context(), id, roles); err != nil {
		writeStoreErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleAssignRole(w http.ResponseWriter, r *http.Request) {
	s.changeRole(w, r, true)
}

func (s *Server) handleRevokeRole(w http.ResponseWriter, r *http.Request) {
	s.changeRole(w, r, false)
}
