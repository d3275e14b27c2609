package user

import (
	"context"
	"errors"

	domain "vigat-bahee/internal/domain/user"
	"vigat-bahee/internal/repository/postgres/internal/sqlutil"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) CreateUser(ctx context.Context, user *domain.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if sqlutil.IsUniqueViolation(err) {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}

func (r *PostgresRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	if !sqlutil.ValidID(id) {
		return nil, domain.ErrUserNotFound
	}
	return r.first(ctx, "id = ?", id)
}

func (r *PostgresRepository) GetUserByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	return r.first(ctx, "username = ? OR email = ?", identifier, identifier)
}

func (r *PostgresRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("username = ? OR email = ?", username, email).
		Count(&count).Error
	return count > 0, err
}

func (r *PostgresRepository) first(ctx context.Context, query string, args ...interface{}) (*domain.User, error) {
	var user domain.User
	if err := r.db.WithContext(ctx).Where(query, args...).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
