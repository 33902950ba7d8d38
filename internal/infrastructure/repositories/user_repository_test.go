package repositories

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/guyghost/wakeve-auth/domain"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to connect database: %v", err)
	}

	if err := db.AutoMigrate(&DBUser{}, &DBSession{}); err != nil {
		t.Fatalf("failed to migrate database: %v", err)
	}

	return db
}

func TestUserRepositoryImpl_CreateAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	user := domain.NewAuthenticatedUser("u-1", "test@example.com", "Test User", domain.AuthMethodGoogle, time.Now())
	if err := repo.Create(ctx, &user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	byID, err := repo.FindByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if byID.Email != "test@example.com" || byID.AuthMethod != domain.AuthMethodGoogle {
		t.Errorf("unexpected user %+v", byID)
	}

	byEmail, err := repo.FindByEmail(ctx, "test@example.com")
	if err != nil {
		t.Fatalf("FindByEmail failed: %v", err)
	}
	if byEmail.ID != "u-1" {
		t.Errorf("unexpected user %+v", byEmail)
	}
}

func TestUserRepositoryImpl_FindMissing(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	if _, err := repo.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := repo.FindByEmail(ctx, "nobody@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserRepositoryImpl_Update(t *testing.T) {
	ctx := context.Background()
	repo := NewUserRepository(setupTestDB(t))

	created := time.Now().Add(-24 * time.Hour)
	user := domain.NewAuthenticatedUser("u-1", "test@example.com", "Test User", domain.AuthMethodGoogle, created)
	if err := repo.Create(ctx, &user); err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	updated := user.WithLastLogin(time.Now())
	if err := repo.Update(ctx, &updated); err != nil {
		t.Fatalf("Update failed: %v", err)
	}

	got, err := repo.FindByID(ctx, "u-1")
	if err != nil {
		t.Fatalf("FindByID failed: %v", err)
	}
	if got.LastLoginAt <= got.CreatedAt {
		t.Error("last-login time should advance past creation")
	}
}
