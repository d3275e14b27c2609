package user

import "time"

// Cache holds profiles looked up by the /me endpoint.
type Cache interface {
	GetByID(id string) (*User, bool)
	SetByID(id string, user *User, ttl time.Duration)
	DeleteByID(id string)
}

type noopCache struct{}

func (noopCache) GetByID(string) (*User, bool) {
	return nil, false
}

func (noopCache) SetByID(string, *User, time.Duration) {}

func (noopCache) DeleteByID(string) {}
