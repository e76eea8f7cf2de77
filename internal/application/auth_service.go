package application

import (
	"context"
	"errors"
	"expvar"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/taskmaster/internal/domain/entity"
	repo "github.com/oksasatya/taskmaster/internal/domain/repository"
	"github.com/oksasatya/taskmaster/pkg/helpers"
	"github.com/oksasatya/taskmaster/pkg/mailer"
	"github.com/oksasatya/taskmaster/pkg/mailer/templates"
	"github.com/oksasatya/taskmaster/pkg/validation"
)

// counters exposed on /api/debug/vars
var authStats = expvar.NewMap("auth")

// JobPublisher enqueues background jobs; *helpers.RabbitPublisher satisfies it.
type JobPublisher interface {
	PublishJSON(ctx context.Context, body any) error
}

type Service struct {
	Repo         repo.UserRepository
	JWT          *helpers.JWTManager
	Redis        *redis.Client
	Logger       *logrus.Logger
	ES           *elasticsearch.Client
	ESUsersIndex string
	Jobs         JobPublisher
	AppName      string
}

// Option configures the optional infrastructure of a Service.
type Option func(*Service)

func WithRedis(rdb *redis.Client) Option { return func(s *Service) { s.Redis = rdb } }

func WithElasticsearch(es *elasticsearch.Client, index string) Option {
	return func(s *Service) { s.ES, s.ESUsersIndex = es, index }
}

func WithJobs(p JobPublisher) Option { return func(s *Service) { s.Jobs = p } }

func WithAppName(name string) Option { return func(s *Service) { s.AppName = name } }

func NewService(repo repo.UserRepository, jwt *helpers.JWTManager, logger *logrus.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = helpers.NewDiscardLogger()
	}
	s := &Service{Repo: repo, JWT: jwt, Logger: logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type LoginResult struct {
	Token     string            `json:"token"`
	ExpiresAt *time.Time        `json:"expiresAt,omitempty"`
	User      entity.PublicUser `json:"user"`
}

func sessionKey(userID string) string {
	return "user:session:" + userID
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}

// Register validates input, enforces uniqueness and stores a bcrypt hash.
func (s *Service) Register(ctx context.Context, username, email, password string) (*entity.User, error) {
	in := validation.Credentials{
		Username: strings.TrimSpace(username),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: password,
	}
	if err := validation.First(in, validation.ServerRegisterRules); err != nil {
		authStats.Add("register_invalid", 1)
		re, _ := validation.AsRuleError(err)
		return nil, &ValidationError{Field: re.Field, Message: re.Message}
	}

	if err := s.ensureAvailable(ctx, in.Username, in.Email); err != nil {
		authStats.Add("register_conflict", 1)
		return nil, err
	}

	hash, err := helpers.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	u := &entity.User{Username: in.Username, Email: in.Email, Password: hash}
	if err := s.Repo.Create(ctx, u); err != nil {
		if cerr := conflictFrom(err); cerr != nil {
			authStats.Add("register_conflict", 1)
			return nil, cerr
		}
		if errors.Is(err, repo.ErrInvalidUser) {
			authStats.Add("register_invalid", 1)
			s.Logger.WithError(err).WithField("username", u.Username).Warn("credential store rejected user")
			return nil, &ValidationError{Field: "user", Message: "Invalid registration details"}
		}
		s.Logger.WithError(err).WithField("username", u.Username).Error("create user failed")
		return nil, err
	}
	authStats.Add("register_ok", 1)
	s.Logger.WithFields(logrus.Fields{"user_id": u.ID, "username": u.Username}).Info("user registered")

	s.indexUser(ctx, u)
	s.enqueueWelcome(ctx, u)
	return u, nil
}

func (s *Service) ensureAvailable(ctx context.Context, username, email string) error {
	if _, err := s.Repo.GetByUsername(ctx, username); err == nil {
		return conflictFrom(repo.ErrDuplicateUsername)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	if _, err := s.Repo.GetByEmail(ctx, email); err == nil {
		return conflictFrom(repo.ErrDuplicateEmail)
	} else if !errors.Is(err, repo.ErrNotFound) {
		return err
	}
	return nil
}

func conflictFrom(err error) error {
	switch {
	case errors.Is(err, repo.ErrDuplicateUsername):
		return &ConflictError{Field: "username", Message: "Username already exists"}
	case errors.Is(err, repo.ErrDuplicateEmail):
		return &ConflictError{Field: "email", Message: "Email already exists"}
	}
	return nil
}

// Authenticate validates email/password and returns the user without issuing tokens.
func (s *Service) Authenticate(ctx context.Context, email, password string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, &ValidationError{Field: "email", Message: "Email and password are required"}
	}
	u, err := s.Repo.GetByEmail(ctx, email)
	if err != nil || u == nil {
		if err != nil && !errors.Is(err, repo.ErrNotFound) {
			s.Logger.WithError(err).Error("lookup by email failed")
			return nil, err
		}
		return nil, ErrInvalidCredentials
	}
	if !helpers.CompareHashAndPassword(u.Password, password) {
		return nil, ErrInvalidCredentials
	}
	return u, nil
}

// IssueToken signs a session token and records the session in Redis when available.
func (s *Service) IssueToken(ctx context.Context, u *entity.User) (string, time.Time, error) {
	sid := uuid.NewString()
	token, exp, err := s.JWT.GenerateToken(u.ID, u.Username, sid)
	if err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Error("generate token failed")
		return "", time.Time{}, err
	}

	if s.Redis != nil {
		fields := map[string]any{
			"user_id":    u.ID,
			"username":   u.Username,
			"email":      u.Email,
			"sid":        sid,
			"created_at": nowRFC3339(),
		}
		key := sessionKey(u.ID)
		if rErr := helpers.RedisHSetWithTTL(ctx, s.Redis, key, fields, s.JWT.TTL); rErr != nil {
			s.Logger.WithError(rErr).WithField("key", key).Warn("redis pipeline failed")
		}
	}
	return token, exp, nil
}

func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	u, err := s.Authenticate(ctx, email, password)
	if err != nil {
		authStats.Add("login_failed", 1)
		return nil, err
	}
	token, exp, err := s.IssueToken(ctx, u)
	if err != nil {
		return nil, err
	}
	authStats.Add("login_ok", 1)
	res := &LoginResult{Token: token, User: u.Public()}
	if !exp.IsZero() {
		res.ExpiresAt = &exp
	}
	return res, nil
}

// VerifyToken parses a session token and resolves its user.
func (s *Service) VerifyToken(ctx context.Context, token string) (*entity.User, error) {
	claims, err := s.JWT.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}
	u, err := s.Profile(ctx, claims.UserID)
	if err != nil {
		return nil, ErrInvalidToken
	}
	return u, nil
}

func (s *Service) Profile(ctx context.Context, userID string) (*entity.User, error) {
	u, err := s.Repo.GetByID(ctx, userID)
	if err != nil || u == nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

func (s *Service) indexUser(ctx context.Context, u *entity.User) {
	if s.ES == nil || s.ESUsersIndex == "" {
		return
	}
	doc := map[string]any{
		"id":         u.ID,
		"username":   u.Username,
		"email":      u.Email,
		"created_at": u.CreatedAt.Format(time.RFC3339Nano),
	}
	if err := helpers.IndexDocument(ctx, s.ES, s.ESUsersIndex, u.ID, doc); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index failed")
	}
}

func (s *Service) enqueueWelcome(ctx context.Context, u *entity.User) {
	if s.Jobs == nil {
		return
	}
	job := mailer.EmailJob{
		To:       u.Email,
		Template: templates.Welcome,
		Data: templates.ToMap(templates.WelcomeData{
			AppName:  s.AppName,
			Username: u.Username,
			Email:    u.Email,
			JoinedAt: u.CreatedAt,
		}),
	}
	if err := s.Jobs.PublishJSON(ctx, job); err != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("failed to publish welcome email")
	}
}
