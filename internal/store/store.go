// Package store persists named profiles.
//
// Backends:
//   - file: one JSON file per profile in a directory, for CLI use
//   - redis: one key per profile, for shared deployments
//   - mongo: one document per profile
//
// Names are validated before any backend sees them, so a name can never
// address anything outside the store.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/lvillar/resumepdf/internal/config"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no profile has the requested name.
	ErrNotFound = errors.New("store: profile not found")

	// ErrInvalidName is returned for names that are empty, too long or
	// contain anything other than letters, digits, '.', '-' and '_'.
	ErrInvalidName = errors.New("store: invalid profile name")
)

// MaxNameLen is the longest accepted profile name.
const MaxNameLen = 128

// Store is the interface for profile storage backends.
type Store interface {
	// Save stores profile under name, replacing any previous profile.
	Save(ctx context.Context, name string, profile map[string]any) error

	// Load returns the profile stored under name or ErrNotFound.
	Load(ctx context.Context, name string) (map[string]any, error)

	// List returns every stored name in ascending order.
	List(ctx context.Context) ([]string, error)

	// Delete removes the profile stored under name or returns ErrNotFound.
	Delete(ctx context.Context, name string) error

	// Close releases backend connections.
	Close() error
}

// ValidateName checks that name is safe to use as a file name or key.
func ValidateName(name string) error {
	if name == "" || len(name) > MaxNameLen {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if strings.HasPrefix(name, ".") || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '_':
		default:
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	return nil
}

// NewName returns a fresh random profile name.
func NewName() string {
	return uuid.NewString()
}

// Open returns the backend selected by cfg.Store.Backend.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case config.BackendFile, "":
		dir, err := cfg.StoreDir()
		if err != nil {
			return nil, fmt.Errorf("store: profile dir: %w", err)
		}
		return NewFileStore(dir)
	case config.BackendRedis:
		return NewRedisStore(ctx, cfg.Store.Redis)
	case config.BackendMongo:
		return NewMongoStore(ctx, cfg.Store.Mongo)
	default:
		return nil, fmt.Errorf("store: unknown backend %q", cfg.Store.Backend)
	}
}
