package user

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

type fakeUserRepo struct {
	users map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*User)}
}

func (r *fakeUserRepo) CreateUser(ctx context.Context, user *User) error {
	copied := *user
	r.users[user.ID] = &copied
	return nil
}

func (r *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *fakeUserRepo) GetUserByLogin(ctx context.Context, identifier string) (*User, error) {
	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			copied := *user
			return &copied, nil
		}
	}
	return nil, ErrUserNotFound
}

func (r *fakeUserRepo) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	for _, user := range r.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func newTestService() *Service {
	return NewService(newFakeUserRepo()).WithHashCost(bcrypt.MinCost)
}

func TestRegisterHashesPassword(t *testing.T) {
	svc := newTestService()

	user, err := svc.Register(context.Background(), RegisterInput{
		Username: " ramesh ",
		Email:    "Ramesh@Example.com",
		FullName: "Ramesh Kumar",
		Password: "correct-horse",
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if user.Username != "ramesh" || user.Email != "ramesh@example.com" {
		t.Fatalf("unexpected user %+v", user)
	}
	if user.PasswordHash == "correct-horse" || user.PasswordHash == "" {
		t.Fatalf("expected hashed password")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Register(ctx, RegisterInput{Username: "ramesh", Email: "r@example.com", Password: "password1"}); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	_, err := svc.Register(ctx, RegisterInput{Username: "other", Email: "R@example.com", Password: "password1"})
	if !errors.Is(err, ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	cases := []struct {
		input RegisterInput
		want  error
	}{
		{RegisterInput{Email: "r@example.com", Password: "password1"}, ErrUsernameRequired},
		{RegisterInput{Username: "r", Password: "password1"}, ErrEmailRequired},
		{RegisterInput{Username: "r", Email: "not-an-email", Password: "password1"}, ErrInvalidEmail},
		{RegisterInput{Username: "r", Email: "r@example.com", Password: "short"}, ErrPasswordTooShort},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.input); !errors.Is(err, tc.want) {
			t.Fatalf("expected %v, got %v", tc.want, err)
		}
	}
}

func TestAuthenticate(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	registered, err := svc.Register(ctx, RegisterInput{Username: "ramesh", Email: "r@example.com", Password: "password1"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for _, identifier := range []string{"ramesh", "R@Example.com"} {
		user, err := svc.Authenticate(ctx, identifier, "password1")
		if err != nil {
			t.Fatalf("%s: expected no error, got %v", identifier, err)
		}
		if user.ID != registered.ID {
			t.Fatalf("%s: expected user %s, got %s", identifier, registered.ID, user.ID)
		}
	}

	if _, err := svc.Authenticate(ctx, "ramesh", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := svc.Authenticate(ctx, "nobody", "password1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestGetUser(t *testing.T) {
	svc := newTestService()
	if _, err := svc.GetUser(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
