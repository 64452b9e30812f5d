package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"payhook/models"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserService struct {
	db        *gorm.DB
	saltRound int
}

func NewUserService(db *gorm.DB, saltRound int) *UserService {
	if saltRound < bcrypt.MinCost {
		saltRound = bcrypt.DefaultCost
	}
	return &UserService{db: db, saltRound: saltRound}
}

// UserUpdate carries the fields of a partial update; nil fields are left alone
type UserUpdate struct {
	Email    *string
	FullName *string
	Role     *models.Role
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Create hashes the password and stores a new user
func (s *UserService) Create(ctx context.Context, email, password, fullName string, role models.Role) (*models.User, error) {
	email = normalizeEmail(email)

	existing, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%s: %w", email, ErrEmailTaken)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.saltRound)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := models.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(fullName),
		Role:         role,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%s: %w", email, ErrEmailTaken)
		}
		return nil, storageErr("create user", err)
	}
	return &user, nil
}

// Authenticate returns the user when email and password match
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

// GetByEmail returns nil when no user has that email
func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("find user", err)
	}
	return &user, nil
}

func (s *UserService) GetByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Take(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", id, ErrUserNotFound)
	}
	if err != nil {
		return nil, storageErr("find user", err)
	}
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users := []models.User{}
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, storageErr("list users", err)
	}
	return users, nil
}

func (s *UserService) Update(ctx context.Context, id uint, upd UserUpdate) (*models.User, error) {
	user, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if upd.Email != nil {
		email := normalizeEmail(*upd.Email)
		if email != user.Email {
			other, err := s.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, fmt.Errorf("%s: %w", email, ErrEmailTaken)
			}
		}
		changes["email"] = email
	}
	if upd.FullName != nil {
		changes["full_name"] = strings.TrimSpace(*upd.FullName)
	}
	if upd.Role != nil {
		changes["role"] = *upd.Role
	}
	if len(changes) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(changes).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrEmailTaken
		}
		return nil, storageErr("update user", err)
	}
	return s.GetByID(ctx, id)
}

// Delete removes the user together with its payments and accounts
func (s *UserService) Delete(ctx context.Context, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&models.Payment{}).Error; err != nil {
			return storageErr("delete user payments", err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.Account{}).Error; err != nil {
			return storageErr("delete user accounts", err)
		}
		res := tx.Delete(&models.User{}, id)
		if res.Error != nil {
			return storageErr("delete user", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user %d: %w", id, ErrUserNotFound)
		}
		return nil
	})
}

// EnsureUser creates the user unless one with that email already exists
func (s *UserService) EnsureUser(ctx context.Context, email, password, fullName string, role models.Role) (*models.User, bool, error) {
	existing, err := s.GetByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}
	user, err := s.Create(ctx, email, password, fullName, role)
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}
