package user

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

type Service struct {
	repo     Repository
	cost     int
	cache    Cache
	cacheTTL time.Duration
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo, cost: bcrypt.DefaultCost, cache: noopCache{}}
}

// WithCache enables profile caching for GetUser. A nil cache or non-positive
// ttl leaves caching off.
func (s *Service) WithCache(cache Cache, ttl time.Duration) *Service {
	if cache == nil || ttl <= 0 {
		return s
	}
	s.cache = cache
	s.cacheTTL = ttl
	return s
}

// WithHashCost overrides the bcrypt cost. Tests use bcrypt.MinCost.
func (s *Service) WithHashCost(cost int) *Service {
	s.cost = cost
	return s
}

func (s *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, ErrUsernameRequired
	}
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < minPasswordLength {
		return nil, ErrPasswordTooShort
	}

	exists, err := s.repo.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.cost)
	if err != nil {
		return nil, err
	}

	user := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		FullName:     strings.TrimSpace(input.FullName),
		Phone:        strings.TrimSpace(input.Phone),
		PasswordHash: string(hash),
	}
	if err := s.repo.CreateUser(ctx, &user); err != nil {
		return nil, err
	}

	return &user, nil
}

func (s *Service) Authenticate(ctx context.Context, identifier, password string) (*User, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if strings.Contains(identifier, "@") {
		identifier = strings.ToLower(identifier)
	}

	user, err := s.repo.GetUserByLogin(ctx, identifier)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	return user, nil
}

func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	if strings.TrimSpace(id) == "" {
		return nil, ErrUserNotFound
	}
	if cached, ok := s.cache.GetByID(id); ok {
		return cached, nil
	}

	user, err := s.repo.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	s.cache.SetByID(id, user, s.cacheTTL)
	return user, nil
}
