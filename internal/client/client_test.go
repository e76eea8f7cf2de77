package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/oksasatya/taskmaster/pkg/storage"
	"github.com/oksasatya/taskmaster/pkg/validation"
)

// fakeAPI answers like the auth API for a single account.
func fakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/api/auth/register", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		if in["email"] == "taken@example.com" {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"message":"Email already exists"}`))
			return
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"id": "u-1", "username": in["username"], "email": in["email"]})
	})
	mux.HandleFunc("/api/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var in map[string]string
		_ = json.NewDecoder(r.Body).Decode(&in)
		w.Header().Set("Content-Type", "application/json")
		if in["password"] != "Secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid credentials"}`))
			return
		}
		_, _ = w.Write([]byte(`{"token":"tok-123","user":{"id":"u-1","username":"alice","email":"alice@example.com"}}`))
	})
	mux.HandleFunc("/api/auth/me", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"Invalid or expired token"}`))
			return
		}
		_, _ = w.Write([]byte(`{"id":"u-1","username":"alice","email":"alice@example.com"}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestRegisterRunsLocalRulesFirst(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { calls++ }))
	defer srv.Close()
	c := New(srv.URL, storage.NewMemory(), nil)

	_, err := c.Register(context.Background(), validation.RegisterForm{
		Username: "alice", Email: "alice@example.com", Password: "abcd", ConfirmPassword: "abcd",
	})
	re, ok := validation.AsRuleError(err)
	if !ok || re.Message != "Password must contain at least one uppercase letter" {
		t.Fatalf("Expected the uppercase rule, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no request for an invalid form, got %d", calls)
	}
}

func TestRegister(t *testing.T) {
	c := New(fakeAPI(t).URL, storage.NewMemory(), nil)
	ctx := context.Background()

	u, err := c.Register(ctx, validation.RegisterForm{
		Username: "alice", Email: "alice@example.com", Password: "Secret1", ConfirmPassword: "Secret1",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Username != "alice" {
		t.Errorf("Unexpected user %+v", u)
	}
	if c.IsAuthenticated(ctx) {
		t.Error("Registering must not log the user in")
	}

	_, err = c.Register(ctx, validation.RegisterForm{
		Username: "bob", Email: "taken@example.com", Password: "Secret1", ConfirmPassword: "Secret1",
	})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusConflict || apiErr.Message != "Email already exists" {
		t.Fatalf("Expected a 409 APIError, got %v", err)
	}
}

func TestLoginStoresSessionAndLogoutClearsIt(t *testing.T) {
	store := storage.NewMemory()
	c := New(fakeAPI(t).URL, store, nil)
	ctx := context.Background()

	if _, err := c.Login(ctx, "alice@example.com", "wrong"); err == nil {
		t.Fatal("Expected wrong password to fail")
	} else if err.Error() != "Invalid credentials" {
		t.Errorf("Expected server message, got %q", err.Error())
	}
	if c.IsAuthenticated(ctx) {
		t.Fatal("Failed login must not store a session")
	}

	s, err := c.Login(ctx, "alice@example.com", "Secret1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if s.Token != "tok-123" || c.Token(ctx) != "tok-123" {
		t.Errorf("Expected stored token, got %q", c.Token(ctx))
	}
	if u := c.CurrentUser(ctx); u == nil || u.Username != "alice" {
		t.Errorf("Expected stored user, got %+v", u)
	}
	if got := c.Guard(ctx, ViewLogin); got != ViewDashboard {
		t.Errorf("Expected redirect to dashboard, got %s", got)
	}

	me, err := c.Verify(ctx)
	if err != nil || me.ID != "u-1" {
		t.Fatalf("Verify: %+v %v", me, err)
	}

	if err := c.Logout(ctx); err != nil {
		t.Fatalf("Logout: %v", err)
	}
	if c.IsAuthenticated(ctx) {
		t.Error("Expected logout to clear the session")
	}
	if got := c.Guard(ctx, ViewDashboard); got != ViewLogin {
		t.Errorf("Expected redirect to login, got %s", got)
	}
	if got := c.Guard(ctx, ViewRegister); got != ViewRegister {
		t.Errorf("Expected register to stay reachable, got %s", got)
	}
}

func TestCorruptStoredUserIsAbsent(t *testing.T) {
	store := storage.NewMemory()
	ctx := context.Background()
	_ = store.Set(ctx, TokenKey, "tok")
	_ = store.Set(ctx, UserKey, "{oops")
	c := New("http://unused", store, nil)

	if c.CurrentUser(ctx) != nil {
		t.Error("Expected nil user for corrupt data")
	}
	if c.IsAuthenticated(ctx) {
		t.Error("A token without a readable user is not a session")
	}
}

func TestNetworkError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := New(url, storage.NewMemory(), nil)
	_, err := c.Login(context.Background(), "alice@example.com", "Secret1")
	var netErr *NetworkError
	if !errors.As(err, &netErr) {
		t.Fatalf("Expected NetworkError, got %v", err)
	}
}

func TestAPIErrorFallsBackToStatusText(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("<html>bad gateway</html>"))
	}))
	defer srv.Close()

	c := New(srv.URL, storage.NewMemory(), nil)
	_, err := c.Login(context.Background(), "a@b.co", "x")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Message != "Bad Gateway" {
		t.Fatalf("Expected Bad Gateway APIError, got %v", err)
	}
}
