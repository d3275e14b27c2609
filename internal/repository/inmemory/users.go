package inmemory

import (
	"context"
	"sync"
	"time"

	userdomain "vigat-bahee/internal/domain/user"
)

type UserRepository struct {
	mu    sync.RWMutex
	users map[string]userdomain.User
}

func NewUserRepository() *UserRepository {
	return &UserRepository{users: make(map[string]userdomain.User)}
}

func (r *UserRepository) CreateUser(ctx context.Context, user *userdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.users {
		if existing.Username == user.Username || existing.Email == user.Email {
			return userdomain.ErrUserExists
		}
	}
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	r.users[user.ID] = *user
	return nil
}

func (r *UserRepository) GetUserByID(ctx context.Context, id string) (*userdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	return &user, nil
}

func (r *UserRepository) GetUserByLogin(ctx context.Context, identifier string) (*userdomain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == identifier || user.Email == identifier {
			found := user
			return &found, nil
		}
	}
	return nil, userdomain.ErrUserNotFound
}

func (r *UserRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.users {
		if user.Username == username || user.Email == email {
			return true, nil
		}
	}
	return false, nil
}
