package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/guyghost/wakeve-auth/domain"
)

// UserRepositoryImpl implements domain.UserRepository using GORM
type UserRepositoryImpl struct {
	db *gorm.DB
}

// DBUser represents the database model for User (with GORM tags)
type DBUser struct {
	ID          string `gorm:"primaryKey;size:255"`
	Email       string `gorm:"index;size:255"`
	Name        string `gorm:"size:255"`
	AuthMethod  string `gorm:"index;size:16"`
	CreatedAt   int64
	LastLoginAt int64
	UpdatedAt   time.Time `gorm:"index"`
}

// TableName returns the table name for GORM
func (DBUser) TableName() string {
	return "users"
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *gorm.DB) domain.UserRepository {
	return &UserRepositoryImpl{db: db}
}

// Create implements domain.UserRepository
func (r *UserRepositoryImpl) Create(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Create(r.domainToDB(user)).Error
}

// FindByID implements domain.UserRepository
func (r *UserRepositoryImpl) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// FindByEmail implements domain.UserRepository
func (r *UserRepositoryImpl) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var dbUser DBUser
	err := r.db.WithContext(ctx).Where("email = ?", email).First(&dbUser).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return r.dbToDomain(&dbUser), nil
}

// Update implements domain.UserRepository
func (r *UserRepositoryImpl) Update(ctx context.Context, user *domain.User) error {
	return r.db.WithContext(ctx).Save(r.domainToDB(user)).Error
}

// domainToDB converts domain user to database user. Guest users never reach
// this layer; the guest service keeps them device-local.
func (r *UserRepositoryImpl) domainToDB(user *domain.User) *DBUser {
	return &DBUser{
		ID:          user.ID,
		Email:       user.Email,
		Name:        user.Name,
		AuthMethod:  string(user.AuthMethod),
		CreatedAt:   user.CreatedAt,
		LastLoginAt: user.LastLoginAt,
	}
}

// dbToDomain converts database user to domain user
func (r *UserRepositoryImpl) dbToDomain(dbUser *DBUser) *domain.User {
	return &domain.User{
		ID:          dbUser.ID,
		Email:       dbUser.Email,
		Name:        dbUser.Name,
		AuthMethod:  domain.AuthMethod(dbUser.AuthMethod),
		CreatedAt:   dbUser.CreatedAt,
		LastLoginAt: dbUser.LastLoginAt,
	}
}
