package user

import (
	"context"
	"errors"
	"time"

	"vigat-bahee/internal/db"
	domain "vigat-bahee/internal/domain/user"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type MongoRepository struct {
	users *mongo.Collection
}

func NewMongo(database *mongo.Database) *MongoRepository {
	return &MongoRepository{users: database.Collection(db.CollectionUsers)}
}

func (r *MongoRepository) CreateUser(ctx context.Context, user *domain.User) error {
	now := time.Now().UTC()
	user.CreatedAt = now
	user.UpdatedAt = now
	if _, err := r.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrUserExists
		}
		return err
	}
	return nil
}

func (r *MongoRepository) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	return r.first(ctx, bson.M{"_id": id})
}

func (r *MongoRepository) GetUserByLogin(ctx context.Context, identifier string) (*domain.User, error) {
	return r.first(ctx, bson.M{"$or": bson.A{
		bson.M{"username": identifier},
		bson.M{"email": identifier},
	}})
}

func (r *MongoRepository) ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error) {
	count, err := r.users.CountDocuments(ctx, bson.M{"$or": bson.A{
		bson.M{"username": username},
		bson.M{"email": email},
	}})
	return count > 0, err
}

func (r *MongoRepository) first(ctx context.Context, filter bson.M) (*domain.User, error) {
	var user domain.User
	if err := r.users.FindOne(ctx, filter).Decode(&user); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}
