package user

import "context"

type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUserByID(ctx context.Context, id string) (*User, error)
	// GetUserByLogin matches the identifier against username or email.
	GetUserByLogin(ctx context.Context, identifier string) (*User, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}
