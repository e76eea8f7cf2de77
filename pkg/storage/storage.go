// Package storage is the key-value store behind the client session and the per-user
// task collections. Values are opaque strings (JSON documents in practice).
package storage

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

// Storage is the minimal local-storage contract: string values by string key.
// A missing key is reported with ok == false, never as an error.
type Storage interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}

var ErrUnknownDriver = errors.New("unknown storage driver")

// Options selects and configures a backend for Open.
type Options struct {
	Driver         string // memory | file | redis | gcs
	DataDir        string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int
	GCSBucket      string
	GCSCredentials string
	Prefix         string
	Logger         *logrus.Logger
}

// Open builds the backend named by opts.Driver.
func Open(ctx context.Context, opts Options) (Storage, error) {
	switch opts.Driver {
	case "", "file":
		f, err := NewFile(opts.DataDir)
		if err != nil {
			return nil, err
		}
		if opts.Logger != nil {
			f.Logger = opts.Logger
		}
		return f, nil
	case "memory":
		return NewMemory(), nil
	case "redis":
		return NewRedis(ctx, opts.RedisAddr, opts.RedisPassword, opts.RedisDB, opts.Prefix)
	case "gcs":
		return NewGCS(ctx, opts.GCSCredentials, opts.GCSBucket, opts.Prefix)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, opts.Driver)
}

// Memory keeps values in process; used by tests and the "memory" driver.
type Memory struct {
	mu   sync.RWMutex
	data map[string]string
}

func NewMemory() *Memory { return &Memory{data: map[string]string{}} }

func (m *Memory) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *Memory) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	m.data[key] = value
	m.mu.Unlock()
	return nil
}

func (m *Memory) Remove(_ context.Context, key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Close releases backend resources when the backend holds any.
func Close(s Storage) error {
	if c, ok := s.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
