package secrets

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrNotFound is returned when a named secret is unset or empty.
var ErrNotFound = errors.New("secret not found")

// Store resolves named secrets such as API keys and signing keys.
type Store interface {
	Get(name string) (string, error)
}

type envStore struct{}

// NewEnvStore returns a Store backed by the process environment. When
// envFiles are given they are loaded first with godotenv; values already
// present in the environment win.
func NewEnvStore(envFiles ...string) (Store, error) {
	for _, file := range envFiles {
		if _, err := os.Stat(file); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", file, err)
		}
	}
	return &envStore{}, nil
}

// Get returns the value of the environment variable name
func (s *envStore) Get(name string) (string, error) {
	value := strings.TrimSpace(os.Getenv(name))
	if value == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return value, nil
}

// MapStore is an in-memory Store.
type MapStore map[string]string

// Get returns the value stored under name
func (m MapStore) Get(name string) (string, error) {
	value, ok := m[name]
	if !ok || strings.TrimSpace(value) == "" {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return value, nil
}
