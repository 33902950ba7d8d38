package storage

import (
	"path/filepath"
	"testing"

	"github.com/guyghost/wakeve-auth/domain"
)

func storages(t *testing.T) map[string]domain.TokenStorage {
	t.Helper()
	fileStore, err := NewFileStorage(filepath.Join(t.TempDir(), "tokens.json"))
	if err != nil {
		t.Fatalf("creating file storage: %v", err)
	}
	return map[string]domain.TokenStorage{
		"memory": NewMemoryStorage(),
		"file":   fileStore,
	}
}

func TestTokenStorage_RoundTrip(t *testing.T) {
	for name, store := range storages(t) {
		t.Run(name, func(t *testing.T) {
			if err := store.StoreString(domain.StorageKeyAccessToken, "tok-1"); err != nil {
				t.Fatalf("StoreString failed: %v", err)
			}

			value, ok, err := store.GetString(domain.StorageKeyAccessToken)
			if err != nil || !ok || value != "tok-1" {
				t.Fatalf("GetString: value=%q ok=%v err=%v", value, ok, err)
			}

			contains, err := store.Contains(domain.StorageKeyAccessToken)
			if err != nil || !contains {
				t.Errorf("Contains: %v %v", contains, err)
			}

			if err := store.Remove(domain.StorageKeyAccessToken); err != nil {
				t.Fatalf("Remove failed: %v", err)
			}
			if _, ok, _ := store.GetString(domain.StorageKeyAccessToken); ok {
				t.Error("key should be gone after Remove")
			}
		})
	}
}

func TestTokenStorage_MissingKey(t *testing.T) {
	for name, store := range storages(t) {
		t.Run(name, func(t *testing.T) {
			if _, ok, err := store.GetString("missing"); ok || err != nil {
				t.Errorf("missing key: ok=%v err=%v", ok, err)
			}
			// Removing a missing key is not an error.
			if err := store.Remove("missing"); err != nil {
				t.Errorf("Remove of missing key: %v", err)
			}
		})
	}
}

func TestTokenStorage_ClearAll(t *testing.T) {
	for name, store := range storages(t) {
		t.Run(name, func(t *testing.T) {
			store.StoreString(domain.StorageKeyAccessToken, "tok-1")
			store.StoreString(domain.StorageKeyRefreshToken, "tok-2")

			if err := store.ClearAll(); err != nil {
				t.Fatalf("ClearAll failed: %v", err)
			}
			if _, ok, _ := store.GetString(domain.StorageKeyAccessToken); ok {
				t.Error("access token should be gone")
			}
			if _, ok, _ := store.GetString(domain.StorageKeyRefreshToken); ok {
				t.Error("refresh token should be gone")
			}
		})
	}
}

func TestFileStorage_PersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tokens.json")

	first, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("creating file storage: %v", err)
	}
	if err := first.StoreString(domain.StorageKeyUserID, "u-1"); err != nil {
		t.Fatalf("StoreString failed: %v", err)
	}

	second, err := NewFileStorage(path)
	if err != nil {
		t.Fatalf("reopening file storage: %v", err)
	}
	value, ok, err := second.GetString(domain.StorageKeyUserID)
	if err != nil || !ok || value != "u-1" {
		t.Errorf("persisted value lost: value=%q ok=%v err=%v", value, ok, err)
	}
}
