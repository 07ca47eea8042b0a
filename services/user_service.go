package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"nextmeal/models"
	"nextmeal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

type RegisterInput struct {
	ID                  string `json:"id" binding:"omitempty,max=64"` // optional; identity provider UUID
	Email               string `json:"email" binding:"required,email"`
	Password            string `json:"password"`
	FullName            string `json:"full_name"`
	DietaryPreferences  string `json:"dietary_preferences"`
	RegionalPreferences string `json:"regional_preferences"`
}

func (s *UserService) Get(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	if err := findOne(s.db.WithContext(ctx), &user, ErrUserNotFound, "id = ?", id); err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *UserService) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	email = strings.ToLower(strings.TrimSpace(email))
	if err := findOne(s.db.WithContext(ctx), &user, ErrUserNotFound, "email = ?", email); err != nil {
		return nil, err
	}
	return &user, nil
}

// findOne is First for lookups that are expected to miss: no row yields
// notFound instead of a logged gorm.ErrRecordNotFound.
func findOne(db *gorm.DB, dest any, notFound error, query any, args ...any) error {
	res := db.Where(query, args...).Limit(1).Find(dest)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return notFound
	}
	return nil
}

// Create rejects a duplicate id or email instead of returning the existing
// record. The primary key and the unique email index back the check under
// races.
func (s *UserService) Create(ctx context.Context, in RegisterInput) (*models.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = uuid.NewString()
	}
	if len(id) > 64 {
		return nil, ErrInvalidUserID
	}

	if _, err := s.Get(ctx, id); err == nil {
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}
	if _, err := s.GetByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user := models.User{
		ID:                  id,
		Email:               email,
		FullName:            strings.TrimSpace(in.FullName),
		DietaryPreferences:  strings.TrimSpace(in.DietaryPreferences),
		RegionalPreferences: strings.TrimSpace(in.RegionalPreferences),
		IsActive:            true,
	}
	if in.Password != "" {
		hashed, err := utils.HashPassword(in.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		user.Password = hashed
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// a concurrent insert won; the key it collided on picks the error
			if _, getErr := s.Get(ctx, id); getErr == nil {
				return nil, ErrUserExists
			}
			return nil, ErrEmailTaken
		}
		return nil, err
	}
	return &user, nil
}

// EnsureUser returns the user with id, creating a placeholder account when
// it does not exist yet.
func (s *UserService) EnsureUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.Get(ctx, id)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, err
	}

	user, err = s.Create(ctx, RegisterInput{ID: id, Email: placeholderEmail()})
	if errors.Is(err, ErrUserExists) || errors.Is(err, ErrEmailTaken) {
		// lost a race with a concurrent request for the same id
		return s.Get(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	log.Printf("lazily registered user %s", id)
	return user, nil
}

// placeholderEmail keeps the unique index satisfied until the account syncs
// its real address.
func placeholderEmail() string {
	return "pending+" + uuid.NewString() + "@pending.nextmeal.local"
}

func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.IsActive || !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}
