// Package storage provides the durable key-value slot the plan is kept in.
package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Backend names a Store implementation.
type Backend string

const (
	BackendFile   Backend = "file"
	BackendSQLite Backend = "sqlite"
)

// ErrInvalidKey is returned for keys that cannot be stored.
var ErrInvalidKey = errors.New("invalid storage key")

// Store is a durable string slot keyed by name. Get reports ok=false when the
// key has never been written or was deleted.
type Store interface {
	Get(key string) (value string, ok bool, err error)
	Set(key, value string) error
	Delete(key string) error
	Close() error
}

// Locker is implemented by stores that can hold an exclusive lock across
// several calls, so a read-check-write sequence is not interleaved with
// another process. Get, Set and Delete stay usable while it is held.
type Locker interface {
	Lock() (unlock func(), err error)
}

// ParseBackend normalizes a backend name.
func ParseBackend(s string) (Backend, error) {
	switch Backend(strings.ToLower(strings.TrimSpace(s))) {
	case "", BackendFile:
		return BackendFile, nil
	case BackendSQLite:
		return BackendSQLite, nil
	default:
		return "", fmt.Errorf("unsupported storage backend: %s (supported: file, sqlite)", s)
	}
}

func checkKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}
