package server

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/hoangnt/moneytalk/internal/auth"
	"github.com/hoangnt/moneytalk/internal/middleware"
	"github.com/hoangnt/moneytalk/internal/models"
)

type registerRequest struct {
	Username string `json:"username"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type authResponse struct {
	Token string         `json:"token"`
	User  models.Profile `json:"user"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.authenticator.Register(r.Context(), req.Username, req.Name, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUsernameTaken):
			writeError(w, http.StatusConflict, "username already taken")
		case errors.Is(err, auth.ErrWeakPassword), errors.Is(err, auth.ErrMissingFields):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("failed to register user", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to register")
		}
		return
	}

	s.issueToken(w, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.authenticator.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, "invalid username or password")
			return
		}
		slog.Error("failed to authenticate user", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to log in")
		return
	}

	s.issueToken(w, user)
}

func (s *Server) issueToken(w http.ResponseWriter, user *models.User) {
	token, err := s.jwt.Generate(user)
	if err != nil {
		slog.Error("failed to generate token", "username", user.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to issue token")
		return
	}
	writeJSON(w, http.StatusOK, authResponse{Token: token, User: user.Profile()})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}

type updateProfileRequest struct {
	Name     string `json:"name"`
	Avatar   string `json:"avatar"`
	Password string `json:"password"`
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req updateProfileRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}
	if req.Password != "" {
		if err := s.authenticator.ChangePassword(r.Context(), user, req.Password); err != nil {
			if errors.Is(err, auth.ErrWeakPassword) {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			slog.Error("failed to change password", "username", user.Username, "error", err)
			writeError(w, http.StatusInternalServerError, "failed to update profile")
			return
		}
	}

	if err := s.store.UpdateUser(r.Context(), user); err != nil {
		slog.Error("failed to update user", "username", user.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, user.Profile())
}

// currentUser loads the authenticated user's record. It writes the error
// response itself when the lookup fails.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	username := middleware.GetUsername(r.Context())
	user, err := s.store.GetUser(r.Context(), username)
	if err != nil {
		slog.Error("failed to load user", "username", username, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load user")
		return nil, false
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "unknown user")
		return nil, false
	}
	return user, true
}
