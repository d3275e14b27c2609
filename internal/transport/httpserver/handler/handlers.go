package handler

import (
	"vigat-bahee/internal/auth"
	baheedomain "vigat-bahee/internal/domain/bahee"
	"vigat-bahee/internal/domain/tithi"
	userdomain "vigat-bahee/internal/domain/user"
	"vigat-bahee/pkg/logger"
)

// TokenIssuer signs access tokens after login.
type TokenIssuer interface {
	Issue(userID, username, email string) (auth.Token, error)
}

type Handlers struct {
	Bahee  *baheedomain.Service
	Users  *userdomain.Service
	Tithi  *tithi.Resolver
	Tokens TokenIssuer
	log    logger.Logger
}

func New(bahee *baheedomain.Service, users *userdomain.Service, resolver *tithi.Resolver, tokens TokenIssuer, log logger.Logger) *Handlers {
	return &Handlers{
		Bahee:  bahee,
		Users:  users,
		Tithi:  resolver,
		Tokens: tokens,
		log:    log,
	}
}
