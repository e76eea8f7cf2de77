// Package client is the auth side of the TaskMaster client: it talks to the auth API
// and keeps the session (token + user) in local storage.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskmaster/internal/domain/entity"
	"github.com/oksasatya/taskmaster/pkg/helpers"
	"github.com/oksasatya/taskmaster/pkg/storage"
	"github.com/oksasatya/taskmaster/pkg/validation"
)

const (
	TokenKey = "taskmaster_token"
	UserKey  = "taskmaster_user"
)

// View is a client screen subject to the auth gate.
type View string

const (
	ViewLogin     View = "login"
	ViewRegister  View = "register"
	ViewDashboard View = "dashboard"
)

// Session is the login response body.
type Session struct {
	Token     string            `json:"token"`
	ExpiresAt *time.Time        `json:"expiresAt,omitempty"`
	User      entity.PublicUser `json:"user"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
	Store   storage.Storage
	Logger  *logrus.Logger
}

type Option func(*Client)

func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.HTTP = hc } }

func New(baseURL string, store storage.Storage, logger *logrus.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	c := &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
		Store:   store,
		Logger:  logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Register checks the form locally (first failing rule wins) and then creates the account.
// Local failures come back as *validation.RuleError.
func (c *Client) Register(ctx context.Context, form validation.RegisterForm) (*entity.PublicUser, error) {
	if err := validation.First(form, validation.ClientRegisterRules); err != nil {
		return nil, err
	}
	body := map[string]string{
		"username": form.Username,
		"email":    form.Email,
		"password": form.Password,
	}
	var u entity.PublicUser
	if err := c.do(ctx, http.MethodPost, "/api/auth/register", "", body, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Login authenticates and stores the session locally.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	var s Session
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", "", body, &s); err != nil {
		return nil, err
	}
	if s.Token == "" {
		return nil, &APIError{Status: http.StatusBadGateway, Message: "Login response did not include a token"}
	}
	userJSON, err := json.Marshal(s.User)
	if err != nil {
		return nil, err
	}
	if err := c.Store.Set(ctx, TokenKey, s.Token); err != nil {
		return nil, err
	}
	if err := c.Store.Set(ctx, UserKey, string(userJSON)); err != nil {
		return nil, err
	}
	c.Logger.WithField("username", s.User.Username).Debug("session stored")
	return &s, nil
}

// Logout forgets the local session. The server keeps no state to revoke.
func (c *Client) Logout(ctx context.Context) error {
	if err := c.Store.Remove(ctx, TokenKey); err != nil {
		return err
	}
	return c.Store.Remove(ctx, UserKey)
}

func (c *Client) Token(ctx context.Context) string {
	v, ok, err := c.Store.Get(ctx, TokenKey)
	if err != nil {
		c.Logger.WithError(err).Warn("read token failed")
		return ""
	}
	if !ok {
		return ""
	}
	return v
}

// CurrentUser returns the stored user; unreadable data is logged and treated as absent.
func (c *Client) CurrentUser(ctx context.Context) *entity.PublicUser {
	raw, ok, err := c.Store.Get(ctx, UserKey)
	if err != nil {
		c.Logger.WithError(err).Warn("read user failed")
		return nil
	}
	if !ok || raw == "" {
		return nil
	}
	var u entity.PublicUser
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		c.Logger.WithError(err).Warn("stored user is not valid JSON")
		return nil
	}
	return &u
}

func (c *Client) IsAuthenticated(ctx context.Context) bool {
	return c.Token(ctx) != "" && c.CurrentUser(ctx) != nil
}

// Guard returns the view to show for a requested one. It only steers navigation;
// the API does its own checks.
func (c *Client) Guard(ctx context.Context, requested View) View {
	authed := c.IsAuthenticated(ctx)
	switch requested {
	case ViewLogin, ViewRegister:
		if authed {
			return ViewDashboard
		}
	case ViewDashboard:
		if !authed {
			return ViewLogin
		}
	}
	return requested
}

// Verify asks the API whether the stored token is still accepted.
func (c *Client) Verify(ctx context.Context) (*entity.PublicUser, error) {
	token := c.Token(ctx)
	if token == "" {
		return nil, &APIError{Status: http.StatusUnauthorized, Message: "Not logged in"}
	}
	var u entity.PublicUser
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		rdr = bytes.NewReader(raw)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, rdr)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.HTTP.Do(req)
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	defer func() { _ = res.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil {
		return &NetworkError{Op: method + " " + path, Err: err}
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		return apiError(res.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Join(errors.New("unexpected response from server"), err)
	}
	return nil
}

func apiError(status int, raw []byte) *APIError {
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		body.Message = http.StatusText(status)
	}
	return &APIError{Status: status, Message: body.Message}
}
