package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/mock/gomock"

	"powgate/internal/adapter/storage"
	"powgate/internal/entity"
)

func TestRestore_NoPersistedToken_Anonymous(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := NewMockAuthFlow(ctrl)
	mockAPI := NewMockSessionAPI(ctrl)
	// Session service must not be called when nothing is stored.

	s := NewSession(loggerSilent(), mockAuth, mockAPI, storage.NewMemory())

	if got := s.Restore(context.Background()); got != entity.StateAnonymous {
		t.Fatalf("Restore() = %v; want %v", got, entity.StateAnonymous)
	}
	if got := s.State(); got != entity.StateAnonymous {
		t.Fatalf("State() = %v; want %v", got, entity.StateAnonymous)
	}
}

func TestRestore_RejectedToken_ClearedAndAnonymous(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := NewMockAuthFlow(ctrl)
	mockAPI := NewMockSessionAPI(ctrl)

	store := storage.NewMemory()
	if err := store.Set("stale-token"); err != nil {
		t.Fatalf("seed store: %v", err)
	}

	mockAPI.EXPECT().CurrentUser(gomock.Any(), "stale-token").
		Return(entity.Profile{}, &entity.Error{Kind: entity.KindUnauthorized, Status: 401})

	s := NewSession(loggerSilent(), mockAuth, mockAPI, store)

	if got := s.Restore(context.Background()); got != entity.StateAnonymous {
		t.Fatalf("Restore() = %v; want %v", got, entity.StateAnonymous)
	}
	// A failed validation must not leave the stale token behind.
	if tok, _ := store.Get(); tok != "" {
		t.Fatalf("persisted token = %q; want removed", tok)
	}
}

func TestRestore_ValidToken_Authenticated(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := NewMockAuthFlow(ctrl)
	mockAPI := NewMockSessionAPI(ctrl)

	store := storage.NewMemory()
	_ = store.Set("good-token")

	profile := entity.Profile{Username: "alice", DisplayName: "Alice"}
	mockAPI.EXPECT().CurrentUser(gomock.Any(), "good-token").Return(profile, nil)

	s := NewSession(loggerSilent(), mockAuth, mockAPI, store)

	if got := s.Restore(context.Background()); got != entity.StateAuthenticated {
		t.Fatalf("Restore() = %v; want %v", got, entity.StateAuthenticated)
	}
	got, ok := s.Profile()
	if !ok || got != profile {
		t.Fatalf("Profile() = %+v, %v; want %+v, true", got, ok, profile)
	}
	if tok, _ := store.Get(); tok != "good-token" {
		t.Fatalf("persisted token = %q; want untouched", tok)
	}
}

func TestLogin_Success_PersistsServerToken(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := NewMockAuthFlow(ctrl)
	mockAPI := NewMockSessionAPI(ctrl)

	store := storage.NewMemory()
	creds := entity.Credentials{Username: "alice", Password: "hunter2"}
	profile := entity.Profile{Username: "alice"}
	mockAuth.EXPECT().Exchange(gomock.Any(), creds).Return("access-token", profile, nil)

	s := NewSession(loggerSilent(), mockAuth, mockAPI, store)

	got, err := s.Login(context.Background(), creds)
	if err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
	if got != profile {
		t.Fatalf("Login() profile = %+v; want %+v", got, profile)
	}
	if s.State() != entity.StateAuthenticated {
		t.Fatalf("State() = %v; want %v", s.State(), entity.StateAuthenticated)
	}
	if tok, _ := store.Get(); tok != "access-token" {
		t.Fatalf("persisted token = %q; want %q", tok, "access-token")
	}
}

func TestLogin_AuthenticatingObservableDuringExchange(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := NewMockAuthFlow(ctrl)
	mockAPI := NewMockSessionAPI(ctrl)

	var s *Session
	creds := entity.Credentials{Username: "alice", Password: "hunter2"}
	mockAuth.EXPECT().Exchange(gomock.Any(), creds).DoAndReturn(
		func(ctx context.Context, c entity.Credentials) (string, entity.Profile, error) {
			if got := s.State(); got != entity.StateAuthenticating {
				t.Errorf("state during exchange = %v; want %v", got, entity.StateAuthenticating)
			}
			return "tok", entity.Profile{Username: "alice"}, nil
		})

	s = NewSession(loggerSilent(), mockAuth, mockAPI, storage.NewMemory())
	if _, err := s.Login(context.Background(), creds); err != nil {
		t.Fatalf("Login() unexpected error: %v", err)
	}
}

func TestLogin_Failure_StateUnchanged(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := NewMockAuthFlow(ctrl)
	mockAPI := NewMockSessionAPI(ctrl)

	store := storage.NewMemory()
	creds := entity.Credentials{Username: "alice", Password: "wrong"}
	authErr := &entity.Error{Kind: entity.KindServer, Status: 400, Detail: "invalid credentials"}
	mockAuth.EXPECT().Exchange(gomock.Any(), creds).Return("", entity.Profile{}, authErr)

	s := NewSession(loggerSilent(), mockAuth, mockAPI, store)

	_, err := s.Login(context.Background(), creds)
	if err == nil {
		t.Fatal("Login() expected error, got nil")
	}
	if got := entity.UserMessage(err, "fallback"); got != "invalid credentials" {
		t.Fatalf("user message = %q; want server detail", got)
	}
	if s.State() != entity.StateAnonymous {
		t.Fatalf("State() = %v; want %v", s.State(), entity.StateAnonymous)
	}
	if tok, _ := store.Get(); tok != "" {
		t.Fatalf("persisted token = %q; want empty", tok)
	}
}

func TestLogin_MissingCredentials_NoExchange(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := NewMockAuthFlow(ctrl)
	mockAPI := NewMockSessionAPI(ctrl)

	s := NewSession(loggerSilent(), mockAuth, mockAPI, storage.NewMemory())

	_, err := s.Login(context.Background(), entity.Credentials{Username: "alice"})
	if err == nil {
		t.Fatal("Login() expected validation error")
	}
	if kind, ok := entity.KindOf(err); !ok || kind != entity.KindValidation {
		t.Fatalf("error kind = %v (ok=%v); want validation", kind, ok)
	}
}

func TestLogin_PersistFailure_SurfacedAndAnonymous(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := NewMockAuthFlow(ctrl)
	mockAPI := NewMockSessionAPI(ctrl)
	mockStore := NewMockTokenStore(ctrl)

	creds := entity.Credentials{Username: "alice", Password: "hunter2"}
	mockAuth.EXPECT().Exchange(gomock.Any(), creds).Return("tok", entity.Profile{Username: "alice"}, nil)
	mockStore.EXPECT().Set("tok").Return(errors.New("disk full"))

	s := NewSession(loggerSilent(), mockAuth, mockAPI, mockStore)

	if _, err := s.Login(context.Background(), creds); err == nil {
		t.Fatal("Login() expected persist error")
	}
	if s.State() != entity.StateAnonymous {
		t.Fatalf("State() = %v; want %v", s.State(), entity.StateAnonymous)
	}
}

func TestLogout_Idempotent(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockAuth := NewMockAuthFlow(ctrl)
	mockAPI := NewMockSessionAPI(ctrl)

	store := storage.NewMemory()
	_ = store.Set("tok")
	profile := entity.Profile{Username: "alice"}
	mockAPI.EXPECT().CurrentUser(gomock.Any(), "tok").Return(profile, nil)

	s := NewSession(loggerSilent(), mockAuth, mockAPI, store)
	if got := s.Restore(context.Background()); got != entity.StateAuthenticated {
		t.Fatalf("Restore() = %v; want authenticated", got)
	}

	s.Logout()
	if s.State() != entity.StateAnonymous {
		t.Fatalf("State() after logout = %v; want %v", s.State(), entity.StateAnonymous)
	}
	if tok, _ := store.Get(); tok != "" {
		t.Fatalf("persisted token = %q; want cleared", tok)
	}

	// Second logout is a no-op producing the same state.
	s.Logout()
	if s.State() != entity.StateAnonymous {
		t.Fatalf("State() after second logout = %v; want %v", s.State(), entity.StateAnonymous)
	}
	if _, ok := s.Profile(); ok {
		t.Fatal("Profile() still present after logout")
	}
}
