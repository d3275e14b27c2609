package handler

import (
	"errors"
	"net/http"
	"strings"
	"time"

	userdomain "vigat-bahee/internal/domain/user"
)

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Password string `json:"password"`
}

type loginRequest struct {
	Identifier string `json:"identifier"`
	Username   string `json:"username"`
	Email      string `json:"email"`
	Password   string `json:"password"`
}

type userResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

type sessionResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      userResponse `json:"user"`
}

func toUserResponse(user userdomain.User) userResponse {
	return userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
		FullName: user.FullName,
		Phone:    user.Phone,
	}
}

func (h *Handlers) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	user, err := h.Users.Register(r.Context(), userdomain.RegisterInput{
		Username: req.Username,
		Email:    req.Email,
		FullName: req.FullName,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		h.fail(w, "auth.register: register failed", err, "username", req.Username)
		return
	}

	h.writeSession(w, http.StatusCreated, *user)
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	identifier := firstNonEmpty(req.Identifier, req.Username, req.Email)
	user, err := h.Users.Authenticate(r.Context(), identifier, req.Password)
	if err != nil {
		h.fail(w, "auth.login: authenticate failed", err, "identifier", identifier)
		return
	}

	h.writeSession(w, http.StatusOK, *user)
}

func (h *Handlers) writeSession(w http.ResponseWriter, status int, user userdomain.User) {
	token, err := h.Tokens.Issue(user.ID, user.Username, user.Email)
	if err != nil {
		h.log.InternalError("auth: issue token failed", err, "user_id", user.ID)
		writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
		return
	}

	writeData(w, status, sessionResponse{
		Token:     token.Value,
		ExpiresAt: token.ExpiresAt,
		User:      toUserResponse(user),
	})
}

func (h *Handlers) AuthMe(w http.ResponseWriter, r *http.Request) {
	current, ok := currentUser(w, r)
	if !ok {
		return
	}

	user, err := h.Users.GetUser(r.Context(), current.ID)
	if err != nil {
		if errors.Is(err, userdomain.ErrUserNotFound) {
			// Mock users in AUTH_SKIP mode have no stored profile.
			writeData(w, http.StatusOK, userResponse{
				ID:       current.ID,
				Username: current.Username,
				Email:    current.Email,
				FullName: current.Name,
			})
			return
		}
		h.fail(w, "auth.me: get user failed", err, "user_id", current.ID)
		return
	}

	writeData(w, http.StatusOK, toUserResponse(*user))
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return ""
}
