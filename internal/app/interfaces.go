package app

import (
	"context"

	"powgate/internal/entity"
)

//go:generate mockgen -source=interfaces.go -destination=./app_mock.go -package=app

type Runner interface {
	Run(ctx context.Context, args []string) error
}

type SessionManager interface {
	Restore(ctx context.Context) entity.AuthState
	Login(ctx context.Context, creds entity.Credentials) (entity.Profile, error)
	Logout()
	Profile() (entity.Profile, bool)
}

type Registrar interface {
	Submit(ctx context.Context, creds entity.Credentials) error
}
