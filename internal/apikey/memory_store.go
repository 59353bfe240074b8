package apikey

import (
	"sync"
)

// InMemoryStore provides thread-safe in-memory storage for API keys. The
// plaintext key value is bcrypt-hashed on Add and never retained; lookups
// compare the provided key against every stored hash.
//
// Keys live for the process lifetime only, consistent with the rest of the
// pipeline's no-persistence model. The linear hash comparison in FindByKey
// is acceptable for the handful of keys a single-node deployment holds.
type InMemoryStore struct {
	// keysByID maps key IDs to Key structs whose Key field holds the bcrypt hash
	keysByID map[string]*Key
	// keysByClient maps client IDs to slices of Key structs for client filtering
	keysByClient map[string][]*Key
	// mutex protects concurrent access to both maps
	mutex sync.RWMutex
}

// NewInMemoryStore creates a new thread-safe in-memory key store.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		keysByID:     make(map[string]*Key),
		keysByClient: make(map[string][]*Key),
	}
}

// FindByKey retrieves the API key matching the provided plaintext value by
// bcrypt comparison against every stored hash. The returned copy carries a
// masked key so neither the plaintext nor the hash leaves the store.
func (s *InMemoryStore) FindByKey(key string) (*Key, bool) {
	if key == "" {
		return nil, false
	}

	s.mutex.RLock()
	defer s.mutex.RUnlock()

	for _, stored := range s.keysByID {
		if !CompareKeyHash(stored.Key, key) {
			continue
		}

		keyCopy := *stored
		keyCopy.Key = MaskKey(stored.Key)

		return &keyCopy, true
	}

	return nil, false
}

// Add hashes and stores a new API key. The Key field of apiKey must hold the
// plaintext value; only its bcrypt hash is kept.
func (s *InMemoryStore) Add(apiKey *Key) error {
	if apiKey == nil { // pragma: allowlist secret
		return ErrKeyNil
	}

	hash, err := HashKey(apiKey.Key)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	if _, exists := s.keysByID[apiKey.ID]; exists {
		return ErrKeyAlreadyExists
	}

	// Bcrypt salts make equal inputs hash differently, so duplicate key
	// values are detected by comparing against every stored hash.
	for _, existing := range s.keysByID {
		if CompareKeyHash(existing.Key, apiKey.Key) {
			return ErrKeyAlreadyExists
		}
	}

	keyCopy := *apiKey
	keyCopy.Key = hash

	s.keysByID[keyCopy.ID] = &keyCopy
	s.keysByClient[keyCopy.ClientID] = append(s.keysByClient[keyCopy.ClientID], &keyCopy)

	return nil
}

// Delete removes an API key by ID.
func (s *InMemoryStore) Delete(keyID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	existingKey, exists := s.keysByID[keyID]
	if !exists {
		return ErrKeyNotFound
	}

	delete(s.keysByID, keyID)

	s.removeFromClientMap(existingKey.ClientID, keyID)

	return nil
}

// ListByClient returns all API keys for a specific client.
func (s *InMemoryStore) ListByClient(clientID string) ([]*Key, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	keys, exists := s.keysByClient[clientID]
	if !exists {
		return []*Key{}, nil // Return empty slice for non-existent clients
	}

	// Return copies to prevent external modification
	result := make([]*Key, len(keys))
	for i, key := range keys {
		keyCopy := *key
		result[i] = &keyCopy
	}

	return result, nil
}

// removeFromClientMap removes a key from the client map by key ID.
// Caller must hold write lock.
func (s *InMemoryStore) removeFromClientMap(clientID, keyID string) {
	keys := s.keysByClient[clientID]
	for i, key := range keys {
		if key.ID == keyID {
			s.keysByClient[clientID] = append(keys[:i], keys[i+1:]...)

			break
		}
	}

	// Clean up empty client entries
	if len(s.keysByClient[clientID]) == 0 {
		delete(s.keysByClient, clientID)
	}
}
