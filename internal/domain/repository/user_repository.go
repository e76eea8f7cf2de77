package repository

import (
	"context"
	"errors"

	"github.com/oksasatya/taskmaster/internal/domain/entity"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrDuplicateUsername = errors.New("username already taken")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrInvalidUser       = errors.New("user record rejected")
)

// UserRepository defines the credential store operations.
// Implementations return ErrNotFound for missing users and ErrDuplicateUsername /
// ErrDuplicateEmail when a uniqueness constraint rejects Create, and ErrInvalidUser
// when any other column constraint does.
type UserRepository interface {
	Create(ctx context.Context, u *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByUsername(ctx context.Context, username string) (*entity.User, error)
}
