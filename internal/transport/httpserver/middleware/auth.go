package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"vigat-bahee/internal/auth"
	"vigat-bahee/internal/config"
	"vigat-bahee/pkg/logger"
)

// TokenParser turns a bearer token into claims.
type TokenParser interface {
	Parse(value string) (*auth.Claims, error)
}

type JWTAuth struct {
	tokens   TokenParser
	log      logger.Logger
	skipAuth bool
	mockUser User
}

type contextKey int

const userKey contextKey = iota

type User struct {
	ID       string
	Username string
	Email    string
	Name     string
}

func NewJWTAuth(cfg config.AuthConfig, tokens TokenParser, log logger.Logger) *JWTAuth {
	return &JWTAuth{
		tokens:   tokens,
		log:      log,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:    strings.TrimSpace(cfg.MockUserID),
			Email: strings.TrimSpace(cfg.MockUserEmail),
			Name:  strings.TrimSpace(cfg.MockUserName),
		},
	}
}

func (a *JWTAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			user := a.mockUser
			if user.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
			return
		}

		if a.tokens == nil {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w, "invalid_token", "missing bearer token")
			return
		}

		claims, err := a.tokens.Parse(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				unauthorized(w, "token_expired", "token expired")
				return
			}
			a.log.Debug("auth: token rejected", "error", err, "path", r.URL.Path)
			unauthorized(w, "invalid_token", "invalid token")
			return
		}

		user := User{
			ID:       claims.UserID,
			Username: claims.Username,
			Email:    claims.Email,
			Name:     claims.Username,
		}
		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
	})
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter, code, message string) {
	writeError(w, http.StatusUnauthorized, code, message)
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	value := ctx.Value(userKey)
	user, ok := value.(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"code":    code,
		"message": message,
	})
}
