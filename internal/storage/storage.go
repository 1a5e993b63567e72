package storage

import (
	"errors"
	"fmt"
	"strings"
)

// Package storage provides the local key-value backends used to persist client credentials.

// ErrClosed is returned by backends after Close.
var ErrClosed = errors.New("storage is closed")

// Store persists string values under string keys.
type Store interface {
	Close() error
	// Get returns the value for key and whether it was present.
	Get(key string) (string, bool, error)
	Set(key, value string) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key string) error
}

const (
	TypeBBolt  = "bbolt"
	TypeMemory = "memory"
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))

	switch typ {
	case "", TypeMemory:
		return NewMemoryStore(), nil
	case TypeBBolt:
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}
