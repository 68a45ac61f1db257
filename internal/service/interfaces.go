package service

import (
	"context"

	"powgate/internal/entity"
)

//go:generate mockgen -source=interfaces.go -destination=./service_mock.go -package=service

// ChallengeAPI issues proof-of-work challenges.
type ChallengeAPI interface {
	FetchChallenge(ctx context.Context) (entity.Challenge, error)
}

// RegistrationAPI creates accounts from a solved challenge.
type RegistrationAPI interface {
	Register(ctx context.Context, req entity.RegistrationRequest, challengeToken string) error
}

// LoginAPI exchanges credentials for an access token.
type LoginAPI interface {
	Login(ctx context.Context, creds entity.Credentials) (string, error)
}

// SessionAPI resolves a bearer token to the current-user profile.
type SessionAPI interface {
	CurrentUser(ctx context.Context, token string) (entity.Profile, error)
}

// TokenStore is the injected persistence capability for the session
// token. Get returns an empty token, not an error, when nothing is
// stored; Clear is idempotent.
type TokenStore interface {
	Get() (string, error)
	Set(token string) error
	Clear() error
}

// Solver finds a nonce satisfying a challenge's difficulty target.
type Solver interface {
	Solve(ctx context.Context, challenge string, difficulty int) (entity.Solution, error)
}

// AuthFlow performs the two-step credential exchange: token from the
// login service, then the profile it resolves to.
type AuthFlow interface {
	Exchange(ctx context.Context, creds entity.Credentials) (string, entity.Profile, error)
}
