// Package guest manages local-only guest sessions. A guest identity exists
// solely in the device's token storage: it never touches the network and is
// never recorded in the server session store.
package guest

import (
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/guyghost/wakeve-auth/domain"
)

// GuestIDPrefix marks locally generated guest identifiers.
const GuestIDPrefix = "guest_"

// ServiceImpl implements domain.GuestService on top of a TokenStorage.
type ServiceImpl struct {
	storage domain.TokenStorage
	now     func() time.Time
}

// NewService creates a new guest service.
func NewService(storage domain.TokenStorage) domain.GuestService {
	return &ServiceImpl{storage: storage, now: time.Now}
}

// CreateGuestSession implements domain.GuestService. The generated user has
// no email or name (data minimization).
func (s *ServiceImpl) CreateGuestSession() domain.AuthResult {
	now := s.now()
	id := GuestIDPrefix + uuid.NewString()

	if err := s.storage.StoreString(domain.StorageKeyGuestID, id); err != nil {
		return domain.NewAuthFailure(domain.NewValidationError("storage", "could not persist guest session"))
	}
	if err := s.storage.StoreString(domain.StorageKeyGuestCreated, strconv.FormatInt(now.UnixMilli(), 10)); err != nil {
		return domain.NewAuthFailure(domain.NewValidationError("storage", "could not persist guest session"))
	}

	return domain.NewAuthGuest(domain.NewGuestUser(id, now))
}

// RestoreGuestSession implements domain.GuestService. Returns nil when no
// guest session has been stored.
func (s *ServiceImpl) RestoreGuestSession() *domain.AuthResult {
	user := s.CurrentGuestUser()
	if user == nil {
		return nil
	}
	result := domain.NewAuthGuest(*user)
	return &result
}

// HasGuestSession implements domain.GuestService.
func (s *ServiceImpl) HasGuestSession() bool {
	ok, err := s.storage.Contains(domain.StorageKeyGuestID)
	return err == nil && ok
}

// CurrentGuestUser implements domain.GuestService.
func (s *ServiceImpl) CurrentGuestUser() *domain.User {
	id, ok, err := s.storage.GetString(domain.StorageKeyGuestID)
	if err != nil || !ok || id == "" {
		return nil
	}

	createdAt := s.now()
	if raw, ok, err := s.storage.GetString(domain.StorageKeyGuestCreated); err == nil && ok {
		if ms, parseErr := strconv.ParseInt(raw, 10, 64); parseErr == nil {
			createdAt = time.UnixMilli(ms)
		}
	}

	user := domain.NewGuestUser(id, createdAt)
	return &user
}

// ConvertToAuthenticated implements domain.GuestService. Called once the
// caller holds a real authenticated session; clears the guest identity so
// the transition is one-way.
func (s *ServiceImpl) ConvertToAuthenticated(newUser domain.User) bool {
	if newUser.IsGuest {
		return false
	}
	return s.clearGuestData()
}

// EndGuestSession implements domain.GuestService.
func (s *ServiceImpl) EndGuestSession() bool {
	return s.clearGuestData()
}

func (s *ServiceImpl) clearGuestData() bool {
	if err := s.storage.Remove(domain.StorageKeyGuestID); err != nil {
		return false
	}
	if err := s.storage.Remove(domain.StorageKeyGuestCreated); err != nil {
		return false
	}
	return true
}
