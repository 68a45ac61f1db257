package service

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"powgate/internal/entity"
)

// Phase is the registration protocol's observable state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseFetchingChallenge
	PhaseSolving
	PhaseSubmitting
	PhaseSuccess
	PhaseFailed
)

func (p Phase) String() string {
	switch p {
	case PhaseFetchingChallenge:
		return "fetching_challenge"
	case PhaseSolving:
		return "solving"
	case PhaseSubmitting:
		return "submitting"
	case PhaseSuccess:
		return "success"
	case PhaseFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ErrInFlight rejects a submit while another one is between
// FetchingChallenge and Submitting. It guards against double
// submission of the same form, not cross-user contention.
var ErrInFlight = errors.New("registration already in progress")

const registrationFallback = "registration failed, please try again"

// Registration runs the challenge → solve → submit flow. One attempt
// at a time; a terminal phase is replaced by Idle when the next
// attempt begins.
type Registration struct {
	log    *slog.Logger
	api    ChallengeAPI
	reg    RegistrationAPI
	solver Solver

	mu      sync.Mutex
	phase   Phase
	failure string
}

func NewRegistration(log *slog.Logger, api ChallengeAPI, reg RegistrationAPI, solver Solver) *Registration {
	return &Registration{log: log, api: api, reg: reg, solver: solver}
}

func (r *Registration) Phase() Phase {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.phase
}

// Failure returns the user-facing message of the last failed attempt:
// the server detail verbatim when present, else a generic fallback.
func (r *Registration) Failure() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.failure
}

// Submit runs one registration attempt to a terminal phase. Any
// service failure is terminal for the attempt; there are no retries.
func (r *Registration) Submit(ctx context.Context, creds entity.Credentials) error {
	if creds.Username == "" || creds.Password == "" {
		return &entity.Error{Kind: entity.KindValidation, Detail: "username and password are required"}
	}
	if err := r.begin(); err != nil {
		return err
	}

	ch, err := r.api.FetchChallenge(ctx)
	if err != nil {
		return r.fail("fetch challenge", err)
	}
	r.log.Debug("challenge received", "difficulty", ch.Difficulty)

	r.setPhase(PhaseSolving)
	sol, err := r.solver.Solve(ctx, ch.Challenge, ch.Difficulty)
	if err != nil {
		return r.fail("solve", err)
	}
	r.log.Debug("challenge solved", "nonce", sol.Nonce)

	r.setPhase(PhaseSubmitting)
	req := entity.RegistrationRequest{
		Username: creds.Username,
		Password: creds.Password,
		Nonce:    strconv.FormatUint(sol.Nonce, 10),
		Hash:     sol.Digest,
		Active:   false,
	}
	if err := r.reg.Register(ctx, req, ch.Token); err != nil {
		return r.fail("register", err)
	}

	r.setPhase(PhaseSuccess)
	r.log.Info("registration succeeded", "username", creds.Username)
	return nil
}

func (r *Registration) begin() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	switch r.phase {
	case PhaseFetchingChallenge, PhaseSolving, PhaseSubmitting:
		return ErrInFlight
	}
	r.phase = PhaseFetchingChallenge
	r.failure = ""
	return nil
}

func (r *Registration) setPhase(p Phase) {
	r.mu.Lock()
	r.phase = p
	r.mu.Unlock()
}

func (r *Registration) fail(step string, err error) error {
	r.mu.Lock()
	r.phase = PhaseFailed
	r.failure = entity.UserMessage(err, registrationFallback)
	r.mu.Unlock()
	r.log.Warn("registration failed", "step", step, "err", err)
	return err
}
