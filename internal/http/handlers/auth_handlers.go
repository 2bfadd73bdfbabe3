package handlers

import (
	"errors"
	"net/http"

	"github.com/momna763/Target-Lock/internal/auth"
	"github.com/momna763/Target-Lock/internal/models"
	"github.com/momna763/Target-Lock/internal/repo"
)

// Register godoc
// @Summary Register new user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 201 {object} RegisterResult
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 409 {object} ErrorResponse "User exists"
// @Router /api/auth/register [post]
func (s *Server) Register(w http.ResponseWriter, r *http.Request) {
	var creds CredentialsRequest
	if err := readJSON(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	user, token, err := s.auth.Register(r.Context(), creds.Username, creds.Password, models.RoleUser)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrCredentialsTooWeak):
			writeError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, auth.ErrUserExists):
			writeError(w, http.StatusConflict, err.Error())
		default:
			s.internalError(w, r, "failed to register user", err)
		}
		return
	}

	s.respond(w, r, http.StatusCreated, RegisterResult{Message: "user registered", Token: token, User: user})
}

// Login godoc
// @Summary Authenticate user and return JWT token
// @Tags auth
// @Accept json
// @Produce json
// @Param credentials body CredentialsRequest true "username and password"
// @Success 200 {object} LoginResult
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Router /api/auth/login [post]
func (s *Server) Login(w http.ResponseWriter, r *http.Request) {
	var creds CredentialsRequest
	if err := readJSON(w, r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, "invalid input")
		return
	}

	user, token, err := s.auth.Login(r.Context(), creds.Username, creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		s.internalError(w, r, "could not log in", err)
		return
	}

	s.respond(w, r, http.StatusOK, LoginResult{Token: token, User: user})
}

// Me godoc
// @Summary Current user profile
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.User
// @Failure 401 {object} ErrorResponse
// @Router /api/auth/me [get]
func (s *Server) Me(w http.ResponseWriter, r *http.Request) {
	id := identity(r)
	user, err := s.users.GetByID(r.Context(), id.UserID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			writeError(w, http.StatusUnauthorized, "user no longer exists")
			return
		}
		s.internalError(w, r, "could not fetch user", err)
		return
	}
	s.respond(w, r, http.StatusOK, user)
}

// ListUsers godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.User
// @Failure 403 {object} ErrorResponse "Forbidden"
// @Router /api/users [get]
func (s *Server) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := s.users.List(r.Context())
	if err != nil {
		s.internalError(w, r, "could not list users", err)
		return
	}
	s.respond(w, r, http.StatusOK, users)
}
