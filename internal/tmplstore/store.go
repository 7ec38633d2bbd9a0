// Package tmplstore persists the user's edited letter template.
package tmplstore

import (
	"context"
	"errors"
	"fmt"

	"cigen/internal/config"
	"cigen/internal/letter"
	"cigen/internal/redisclient"
)

// ErrNotFound is returned by Load when no template has been saved.
var ErrNotFound = errors.New("no saved template")

// Store holds a single template body under a fixed key.
type Store interface {
	Load(ctx context.Context) (string, error)
	Save(ctx context.Context, body string) error
	// Reset removes the saved template so the default applies again.
	Reset(ctx context.Context) error
	Close() error
}

// Open returns the backend selected by cfg.Store.Backend.
func Open(cfg config.Config) (Store, error) {
	switch cfg.Store.Backend {
	case "", "file":
		return NewFileStore(cfg.Store.Path), nil
	case "redis":
		return NewRedisStore(redisclient.New(cfg.Redis), cfg.Store.Key), nil
	case "sqlite":
		return NewSQLiteStore(cfg.Store.Path, cfg.Store.Key)
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}

// LoadOrDefault returns the saved template, or the built-in letter when
// nothing was saved. The bool reports whether the saved one was used.
func LoadOrDefault(ctx context.Context, s Store) (string, bool, error) {
	body, err := s.Load(ctx)
	if errors.Is(err, ErrNotFound) {
		return letter.DefaultTemplate(), false, nil
	}
	if err != nil {
		return "", false, err
	}
	return body, true, nil
}
