package application

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/oksasatya/taskmaster/internal/domain/entity"
	repo "github.com/oksasatya/taskmaster/internal/domain/repository"
	"github.com/oksasatya/taskmaster/internal/infrastructure/memory"
	"github.com/oksasatya/taskmaster/pkg/helpers"
	"github.com/oksasatya/taskmaster/pkg/mailer"
)

type recordingPublisher struct {
	jobs []any
	err  error
}

func (p *recordingPublisher) PublishJSON(_ context.Context, body any) error {
	p.jobs = append(p.jobs, body)
	return p.err
}

func newTestService(opts ...Option) *Service {
	helpers.PasswordCost = bcrypt.MinCost
	jwt := helpers.NewJWTManager("test-secret", time.Hour, "taskmaster-test")
	return NewService(memory.NewUserRepository(), jwt, nil, opts...)
}

func TestRegisterValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	cases := []struct {
		name, username, email, password, field string
	}{
		{"short username", "ab", "a@b.co", "Abcd", "username"},
		{"bad email", "alice", "not-an-email", "Abcd", "email"},
		{"short password", "alice", "a@b.co", "Abc", "password"},
		{"username checked first", "a", "bad", "x", "username"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Register(ctx, tc.username, tc.email, tc.password)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if ve.Field != tc.field {
				t.Errorf("Expected field %s, got %s", tc.field, ve.Field)
			}
			if StatusOf(err) != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", StatusOf(err))
			}
		})
	}
}

func TestRegisterStoresHashAndRejectsDuplicates(t *testing.T) {
	pub := &recordingPublisher{}
	svc := newTestService(WithJobs(pub), WithAppName("TaskMaster"))
	ctx := context.Background()

	u, err := svc.Register(ctx, "alice", "Alice@Example.com", "Secret1")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if u.Password == "Secret1" || !helpers.CompareHashAndPassword(u.Password, "Secret1") {
		t.Error("Expected the stored password to be a bcrypt hash of the input")
	}
	if u.Email != "alice@example.com" {
		t.Errorf("Expected normalized email, got %s", u.Email)
	}
	if len(pub.jobs) != 1 {
		t.Fatalf("Expected one welcome job, got %d", len(pub.jobs))
	}
	if job, ok := pub.jobs[0].(mailer.EmailJob); !ok || job.To != "alice@example.com" {
		t.Errorf("Unexpected job %+v", pub.jobs[0])
	}

	_, err = svc.Register(ctx, "alice2", "alice@example.com", "Secret1")
	var ce *ConflictError
	if !errors.As(err, &ce) || ce.Field != "email" {
		t.Fatalf("Expected email conflict, got %v", err)
	}
	if StatusOf(err) != http.StatusConflict {
		t.Errorf("Expected 409, got %d", StatusOf(err))
	}

	_, err = svc.Register(ctx, "alice", "other@example.com", "Secret1")
	if !errors.As(err, &ce) || ce.Field != "username" {
		t.Fatalf("Expected username conflict, got %v", err)
	}
}

// rejectingRepository stands in for a store whose column constraints refuse the row.
type rejectingRepository struct {
	*memory.UserRepository
}

func (r rejectingRepository) Create(context.Context, *entity.User) error {
	return fmt.Errorf("%w: value too long", repo.ErrInvalidUser)
}

func TestRegisterRejectedByStoreIsBadRequest(t *testing.T) {
	helpers.PasswordCost = bcrypt.MinCost
	jwt := helpers.NewJWTManager("test-secret", time.Hour, "taskmaster-test")
	svc := NewService(rejectingRepository{memory.NewUserRepository()}, jwt, nil)

	_, err := svc.Register(context.Background(), strings.Repeat("u", 65), "long@example.com", "Secret1")
	if StatusOf(err) != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d (%v)", StatusOf(err), err)
	}
}

func TestRegisterLongPassword(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	long := "Aa" + strings.Repeat("x", 80)
	if _, err := svc.Register(ctx, "carol", "carol@example.com", long); err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if _, err := svc.Login(ctx, "carol@example.com", long); err != nil {
		t.Errorf("Login failed: %v", err)
	}
}

func TestRegisterSurvivesPublisherFailure(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	svc := newTestService(WithJobs(pub))
	if _, err := svc.Register(context.Background(), "bob", "bob@example.com", "Secret1"); err != nil {
		t.Fatalf("Expected publisher failure to be swallowed, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()
	if _, err := svc.Register(ctx, "alice", "alice@example.com", "Secret1"); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	res, err := svc.Login(ctx, "alice@example.com", "Secret1")
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if res.Token == "" {
		t.Fatal("Expected a non-empty token")
	}
	if res.User.Username != "alice" || res.User.Email != "alice@example.com" {
		t.Errorf("Unexpected public user %+v", res.User)
	}
	if res.ExpiresAt == nil {
		t.Error("Expected an expiry for a token with TTL")
	}

	verified, err := svc.VerifyToken(ctx, res.Token)
	if err != nil {
		t.Fatalf("VerifyToken failed: %v", err)
	}
	if verified.ID != res.User.ID {
		t.Errorf("Expected %s, got %s", res.User.ID, verified.ID)
	}

	for _, tc := range []struct{ email, password string }{
		{"alice@example.com", "wrong"},
		{"nobody@example.com", "Secret1"},
	} {
		_, err := svc.Login(ctx, tc.email, tc.password)
		if !errors.Is(err, ErrInvalidCredentials) {
			t.Errorf("Expected ErrInvalidCredentials for %s, got %v", tc.email, err)
		}
		if StatusOf(err) != http.StatusUnauthorized {
			t.Errorf("Expected 401, got %d", StatusOf(err))
		}
	}

	if _, err := svc.Login(ctx, "", ""); StatusOf(err) != http.StatusBadRequest {
		t.Errorf("Expected 400 for empty credentials, got %v", err)
	}
}

func TestVerifyTokenRejectsGarbage(t *testing.T) {
	svc := newTestService()
	if _, err := svc.VerifyToken(context.Background(), "garbage"); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken, got %v", err)
	}
	// valid signature but unknown user
	tok, _, _ := svc.JWT.GenerateToken("ghost", "ghost", "sid")
	if _, err := svc.VerifyToken(context.Background(), tok); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Expected ErrInvalidToken for unknown user, got %v", err)
	}
}

func TestPublicUserHidesHash(t *testing.T) {
	u := &entity.User{ID: "1", Username: "alice", Email: "a@b.co", Password: "hash"}
	pub := u.Public()
	if pub.ID != "1" || pub.Username != "alice" {
		t.Errorf("Unexpected public user %+v", pub)
	}
}
