// Package middleware provides HTTP middleware components for the alembic API.
package middleware

import (
	"github.com/alembic-io/alembic/internal/apikey"
)

// MockKeyStore is a mock implementation of apikey.Store for testing.
type MockKeyStore struct {
	FindByKeyFunc func(key string) (*apikey.Key, bool)
	AddFunc       func(key *apikey.Key) error
}

// FindByKey implements apikey.Store.FindByKey.
func (m *MockKeyStore) FindByKey(key string) (*apikey.Key, bool) {
	if m.FindByKeyFunc != nil {
		return m.FindByKeyFunc(key)
	}

	return nil, false
}

// Add implements apikey.Store.Add.
func (m *MockKeyStore) Add(key *apikey.Key) error {
	if m.AddFunc != nil {
		return m.AddFunc(key)
	}

	return nil
}
