// Package httpapi is the HTTP adapter for the challenge, registration,
// login and session services. It normalizes every failure into
// entity.Error so callers never probe response shapes themselves.
package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"powgate/internal/entity"
)

type Client struct {
	log     *slog.Logger
	baseURL string
	hc      *http.Client
}

func NewClient(log *slog.Logger, baseURL string, timeout time.Duration) *Client {
	return &Client{
		log:     log,
		baseURL: baseURL,
		hc:      &http.Client{Timeout: timeout},
	}
}

// FetchChallenge requests a fresh PoW challenge.
func (c *Client) FetchChallenge(ctx context.Context) (entity.Challenge, error) {
	var ch entity.Challenge
	if err := c.get(ctx, "/users/challenge", "", &ch); err != nil {
		return entity.Challenge{}, err
	}
	return ch, nil
}

// Register submits credentials plus the solved challenge. The challenge
// token travels as a query parameter, scoping the attempt server-side.
func (c *Client) Register(ctx context.Context, req entity.RegistrationRequest, challengeToken string) error {
	path := "/users/register?token=" + url.QueryEscape(challengeToken)
	return c.post(ctx, path, req, nil)
}

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, creds entity.Credentials) (string, error) {
	var out struct {
		AccessToken string `json:"access_token"`
	}
	if err := c.post(ctx, "/users/login", creds, &out); err != nil {
		return "", err
	}
	return out.AccessToken, nil
}

// CurrentUser resolves a bearer token to its profile. 401/403 come back
// as entity.KindUnauthorized so the session manager can discard the token.
func (c *Client) CurrentUser(ctx context.Context, token string) (entity.Profile, error) {
	var p entity.Profile
	if err := c.get(ctx, "/users/me", token, &p); err != nil {
		return entity.Profile{}, err
	}
	return p, nil
}

func (c *Client) get(ctx context.Context, path, token string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return fmt.Errorf("encode body: %w", err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	req.Header.Set("X-Request-ID", uuid.NewString())

	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.Debug("request failed", "method", req.Method, "path", req.URL.Path, "err", err)
		return &entity.Error{Kind: entity.KindNetwork, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &entity.Error{Kind: entity.KindNetwork, Err: err}
	}

	if resp.StatusCode >= 400 {
		return c.apiError(req, resp.StatusCode, data)
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decode %s %s response: %w", req.Method, req.URL.Path, err)
		}
	}
	return nil
}

// apiError extracts the structured detail field when the server sent
// one; a missing or unparseable body leaves Detail empty and the caller
// falls back to a generic message.
func (c *Client) apiError(req *http.Request, status int, body []byte) error {
	kind := entity.KindServer
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		kind = entity.KindUnauthorized
	}
	var payload struct {
		Detail string `json:"detail"`
	}
	_ = json.Unmarshal(body, &payload)
	c.log.Debug("request rejected",
		"method", req.Method,
		"path", req.URL.Path,
		"status", status,
		"detail", payload.Detail,
	)
	return &entity.Error{Kind: kind, Status: status, Detail: payload.Detail}
}
