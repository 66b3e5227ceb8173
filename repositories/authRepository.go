package repositories

import (
	"GlobalDent/cache"
	"GlobalDent/models"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

const (
	UserCacheExpiry = 7 * 24 * time.Hour
)

type UserRepository interface {
	EmailExists(ctx context.Context, email string) (bool, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	UserExists(ctx context.Context, userID uint) (bool, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, userID uint) (*models.User, error)
	GetCredentials(ctx context.Context, email string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
	GetRoleByName(ctx context.Context, name string) (*models.Role, error)
	UpdateUserPassword(ctx context.Context, userID uint, hashedPassword string) error
	DeleteUserCache(ctx context.Context, userID uint) error
}

type userRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewUserRepository(db *gorm.DB, cache *cache.Cache) UserRepository {
	return &userRepository{db: db, cache: cache}
}

func (r *userRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check email existence: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) UsernameExists(ctx context.Context, username string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check username existence: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) UserExists(ctx context.Context, userID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check user existence: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select("id, username, email, role_id, created_at").
		Preload("Role", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, description")
		}).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) GetUserByID(ctx context.Context, userID uint) (*models.User, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cacheKey := r.getUserCacheKey(userID)
	var cached models.User
	if hit, err := r.cache.Get(ctx, cacheKey, &cached); err != nil {
		log.Warn().Err(err).Uint("user_id", userID).Msg("Failed to get user from cache")
	} else if hit {
		return &cached, nil
	}

	var user models.User
	err := r.db.WithContext(ctx).Select("id, username, email, role_id, created_at").
		Preload("Role", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, description")
		}).
		First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	if err := r.cache.Set(ctx, cacheKey, user, UserCacheExpiry); err != nil {
		log.Warn().Err(err).Uint("user_id", userID).Msg("Failed to set user in cache")
	}
	return &user, nil
}

// GetCredentials loads the user including the password hash. It is never cached.
func (r *userRepository) GetCredentials(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Select("id, username, email, password, role_id, created_at").
		Preload("Role", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, name, description")
		}).
		Where("email = ?", email).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) CreateUser(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Omit("Role").Create(user).Error
}

func (r *userRepository) GetRoleByName(ctx context.Context, name string) (*models.Role, error) {
	var role models.Role
	err := r.db.WithContext(ctx).Where("name = ?", name).First(&role).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *userRepository) UpdateUserPassword(ctx context.Context, userID uint, hashedPassword string) error {
	return r.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", userID).Update("password", hashedPassword).Error
}

func (r *userRepository) DeleteUserCache(ctx context.Context, userID uint) error {
	return r.cache.Delete(ctx, r.getUserCacheKey(userID))
}

func (r *userRepository) getUserCacheKey(userID uint) string {
	return fmt.Sprintf("user_cache:%d", userID)
}
