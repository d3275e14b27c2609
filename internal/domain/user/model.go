package user

import "time"

type User struct {
	ID           string    `gorm:"type:uuid;primaryKey" bson:"_id"`
	Username     string    `gorm:"type:text;not null;uniqueIndex" bson:"username"`
	Email        string    `gorm:"type:text;not null;uniqueIndex" bson:"email"`
	FullName     string    `gorm:"type:text" bson:"full_name"`
	Phone        string    `gorm:"type:text" bson:"phone"`
	PasswordHash string    `gorm:"type:text;not null" bson:"password_hash"`
	CreatedAt    time.Time `gorm:"autoCreateTime" bson:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" bson:"updated_at"`
}

func (User) TableName() string {
	return "users"
}

type RegisterInput struct {
	Username string
	Email    string
	FullName string
	Phone    string
	Password string
}
