package secret

import (
	"fmt"
	"sync"
)

var ErrSecretNotFound = fmt.Errorf("secret not found")

type Store interface {
	// Get retrieves a secret by its key.
	Get(key string) (string, error)
	// Set stores a secret with the given key and value.
	Set(key, value string) error

	Close() error
}

type InMemoryStore struct {
	mu      sync.RWMutex
	secrets map[string]string
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		secrets: make(map[string]string),
	}
}

// NewAPIKeyStore returns a store accepting the given keys as bearer tokens.
// Blank keys are skipped.
func NewAPIKeyStore(keys ...string) (*InMemoryStore, error) {
	store := NewInMemoryStore()
	for _, key := range keys {
		if key == "" {
			continue
		}
		if err := store.Set(key, key); err != nil {
			return nil, err
		}
	}

	if len(store.secrets) == 0 {
		return nil, fmt.Errorf("at least one API key is required")
	}
	return store, nil
}

func (s *InMemoryStore) Get(key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	value, exists := s.secrets[key]
	if !exists {
		return "", ErrSecretNotFound
	}
	return value, nil
}

func (s *InMemoryStore) Set(key, value string) error {
	if key == "" {
		return fmt.Errorf("key cannot be empty")
	}
	if value == "" {
		return fmt.Errorf("value cannot be empty")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.secrets[key] = value
	return nil
}

func (s *InMemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.secrets = make(map[string]string)
	return nil
}
