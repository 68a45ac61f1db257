package service

import (
	"context"
	"fmt"

	"powgate/internal/entity"
)

// Auth exchanges credentials for a session token and the profile it
// belongs to. Errors from either step carry the server message when
// one was given.
type Auth struct {
	login   LoginAPI
	session SessionAPI
}

func NewAuth(login LoginAPI, session SessionAPI) *Auth {
	return &Auth{login: login, session: session}
}

func (a *Auth) Exchange(ctx context.Context, creds entity.Credentials) (string, entity.Profile, error) {
	token, err := a.login.Login(ctx, creds)
	if err != nil {
		return "", entity.Profile{}, fmt.Errorf("login: %w", err)
	}
	profile, err := a.session.CurrentUser(ctx, token)
	if err != nil {
		return "", entity.Profile{}, fmt.Errorf("fetch profile: %w", err)
	}
	return token, profile, nil
}
