package apikey

import (
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"
)

func testKey(t *testing.T, id, clientID string) *Key {
	t.Helper()

	return &Key{
		ID:        id,
		Key:       mustGenerateKey(t),
		ClientID:  clientID,
		Name:      "test key " + id,
		CreatedAt: time.Now(),
		Active:    true,
	}
}

func TestInMemoryStore_AddAndFind(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	store := NewInMemoryStore()
	key := testKey(t, "key-1", "client-a")

	if err := store.Add(key); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	found, ok := store.FindByKey(key.Key)
	if !ok {
		t.Fatal("FindByKey() did not find stored key")
	}

	if found.ID != "key-1" || found.ClientID != "client-a" {
		t.Errorf("FindByKey() = %+v, want key-1/client-a", found)
	}

	if _, ok := store.FindByKey("missing"); ok {
		t.Error("FindByKey() found a key never stored")
	}
}

func TestInMemoryStore_StoresHashedKeys(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	store := NewInMemoryStore()
	key := testKey(t, "key-1", "client-a")
	plaintext := key.Key

	if err := store.Add(key); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	// The store keeps only the bcrypt hash of the key value.
	stored := store.keysByID["key-1"]
	if !strings.HasPrefix(stored.Key, "$2") {
		t.Errorf("stored key = %q, want bcrypt hash", stored.Key)
	}

	if !CompareKeyHash(stored.Key, plaintext) {
		t.Error("stored hash does not verify against the plaintext key")
	}

	// Lookups return neither the plaintext nor the hash.
	found, ok := store.FindByKey(plaintext)
	if !ok {
		t.Fatal("FindByKey() did not find stored key")
	}

	if found.Key == plaintext || found.Key == stored.Key {
		t.Errorf("FindByKey() leaked key material: %q", found.Key)
	}
}

func TestInMemoryStore_AddRejectsDuplicatesAndNil(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	store := NewInMemoryStore()
	key := testKey(t, "key-1", "client-a")

	if err := store.Add(key); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	// Same ID, different key string.
	dupID := testKey(t, "key-1", "client-a")
	if err := store.Add(dupID); err != ErrKeyAlreadyExists {
		t.Errorf("Add() duplicate ID error = %v, want ErrKeyAlreadyExists", err)
	}

	// Different ID, same key string.
	dupKey := testKey(t, "key-2", "client-a")
	dupKey.Key = key.Key

	if err := store.Add(dupKey); err != ErrKeyAlreadyExists {
		t.Errorf("Add() duplicate key error = %v, want ErrKeyAlreadyExists", err)
	}

	if err := store.Add(nil); err != ErrKeyNil {
		t.Errorf("Add(nil) error = %v, want ErrKeyNil", err)
	}
}

func TestInMemoryStore_FindReturnsCopy(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	store := NewInMemoryStore()
	key := testKey(t, "key-1", "client-a")

	if err := store.Add(key); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	found, _ := store.FindByKey(key.Key)
	found.Active = false

	again, _ := store.FindByKey(key.Key)
	if !again.Active {
		t.Error("FindByKey() exposed internal state to mutation")
	}
}

func TestInMemoryStore_Delete(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	store := NewInMemoryStore()
	key := testKey(t, "key-1", "client-a")

	if err := store.Add(key); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	if err := store.Delete("key-1"); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if _, ok := store.FindByKey(key.Key); ok {
		t.Error("FindByKey() found a deleted key")
	}

	keys, err := store.ListByClient("client-a")
	if err != nil {
		t.Fatalf("ListByClient() error: %v", err)
	}

	if len(keys) != 0 {
		t.Errorf("ListByClient() after delete = %d keys, want 0", len(keys))
	}

	if err := store.Delete("key-1"); err != ErrKeyNotFound {
		t.Errorf("Delete() missing key error = %v, want ErrKeyNotFound", err)
	}
}

func TestInMemoryStore_ListByClient(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	store := NewInMemoryStore()

	for i := range 3 {
		if err := store.Add(testKey(t, fmt.Sprintf("a-%d", i), "client-a")); err != nil {
			t.Fatalf("Add() error: %v", err)
		}
	}

	if err := store.Add(testKey(t, "b-0", "client-b")); err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	aKeys, err := store.ListByClient("client-a")
	if err != nil {
		t.Fatalf("ListByClient() error: %v", err)
	}

	if len(aKeys) != 3 {
		t.Errorf("ListByClient(client-a) = %d keys, want 3", len(aKeys))
	}

	// Unknown clients get an empty slice, not an error.
	unknown, err := store.ListByClient("client-z")
	if err != nil {
		t.Fatalf("ListByClient() error: %v", err)
	}

	if len(unknown) != 0 {
		t.Errorf("ListByClient(client-z) = %d keys, want 0", len(unknown))
	}
}

func TestInMemoryStore_ConcurrentAccess(t *testing.T) {
	if !testing.Short() {
		t.Skip("skipping unit test in non-short mode")
	}

	// Kept small: every Add and FindByKey pays for bcrypt comparisons.
	const writers = 4

	store := NewInMemoryStore()

	var wg sync.WaitGroup

	for w := range writers {
		wg.Add(1)

		go func(w int) {
			defer wg.Done()

			key := testKey(t, fmt.Sprintf("key-%d", w), "shared-client")
			if err := store.Add(key); err != nil {
				t.Errorf("Add() error: %v", err)
			}

			if _, ok := store.FindByKey(key.Key); !ok {
				t.Errorf("FindByKey() missed key-%d after Add", w)
			}
		}(w)
	}

	wg.Wait()

	keys, err := store.ListByClient("shared-client")
	if err != nil {
		t.Fatalf("ListByClient() error: %v", err)
	}

	if len(keys) != writers {
		t.Errorf("ListByClient() = %d keys, want %d", len(keys), writers)
	}
}
