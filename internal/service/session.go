package service

import (
	"context"
	"log/slog"
	"sync"

	"powgate/internal/entity"
)

// Session owns the persisted token and the authentication state.
// Restore, Login and Logout are serialized: the token is single-writer
// and a concurrent pair must not overwrite each other's result.
type Session struct {
	log   *slog.Logger
	auth  AuthFlow
	api   SessionAPI
	store TokenStore

	opMu sync.Mutex // one auth operation in flight at a time

	mu      sync.RWMutex
	state   entity.AuthState
	profile entity.Profile
}

func NewSession(log *slog.Logger, auth AuthFlow, api SessionAPI, store TokenStore) *Session {
	return &Session{log: log, auth: auth, api: api, store: store}
}

func (s *Session) State() entity.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Profile returns the authenticated profile; ok is false while anonymous.
func (s *Session) Profile() (entity.Profile, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.profile, s.state == entity.StateAuthenticated
}

// Restore validates a previously persisted token. A rejected or
// unreadable token is discarded silently: this runs in the background
// on startup and must not leave a stale token behind.
func (s *Session) Restore(ctx context.Context) entity.AuthState {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	token, err := s.store.Get()
	if err != nil {
		s.log.Warn("token read failed", "err", err)
		s.set(entity.StateAnonymous, entity.Profile{})
		return entity.StateAnonymous
	}
	if token == "" {
		s.set(entity.StateAnonymous, entity.Profile{})
		return entity.StateAnonymous
	}

	profile, err := s.api.CurrentUser(ctx, token)
	if err != nil {
		if clearErr := s.store.Clear(); clearErr != nil {
			s.log.Warn("stale token clear failed", "err", clearErr)
		}
		s.log.Debug("stale session discarded", "err", err)
		s.set(entity.StateAnonymous, entity.Profile{})
		return entity.StateAnonymous
	}

	s.set(entity.StateAuthenticated, profile)
	s.log.Info("session restored", "username", profile.Username)
	return entity.StateAuthenticated
}

// Login exchanges credentials for a token, persists it and moves to
// Authenticated. On any failure the state is left as it was and the
// error is surfaced for display.
func (s *Session) Login(ctx context.Context, creds entity.Credentials) (entity.Profile, error) {
	if creds.Username == "" || creds.Password == "" {
		return entity.Profile{}, &entity.Error{Kind: entity.KindValidation, Detail: "username and password are required"}
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()

	prevState, prevProfile := s.snapshot()
	s.set(entity.StateAuthenticating, entity.Profile{})

	token, profile, err := s.auth.Exchange(ctx, creds)
	if err != nil {
		s.set(prevState, prevProfile)
		s.log.Warn("login failed", "username", creds.Username, "err", err)
		return entity.Profile{}, err
	}
	if err := s.store.Set(token); err != nil {
		// Never let persisted and in-memory state diverge.
		s.set(prevState, prevProfile)
		s.log.Error("token persist failed", "err", err)
		return entity.Profile{}, err
	}

	s.set(entity.StateAuthenticated, profile)
	s.log.Info("login succeeded", "username", profile.Username)
	return profile, nil
}

// Logout clears the persisted token and resets to Anonymous
// unconditionally. Idempotent; server-side invalidation is an
// external concern.
func (s *Session) Logout() {
	s.opMu.Lock()
	defer s.opMu.Unlock()

	if err := s.store.Clear(); err != nil {
		s.log.Warn("token clear failed", "err", err)
	}
	s.set(entity.StateAnonymous, entity.Profile{})
}

func (s *Session) set(state entity.AuthState, profile entity.Profile) {
	s.mu.Lock()
	s.state = state
	s.profile = profile
	s.mu.Unlock()
}

func (s *Session) snapshot() (entity.AuthState, entity.Profile) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state, s.profile
}
