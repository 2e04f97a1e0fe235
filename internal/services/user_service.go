// internal/services/user_service.go
package services

import (
	"context"
	"strings"
	"unicode/utf8"

	apperrors "github.com/Corphon/DreamLogger/internal/errors"
	"github.com/Corphon/DreamLogger/internal/models"
	"github.com/Corphon/DreamLogger/internal/utils"
)

const minUsernameLength = 3

// UserStore registers usernames.
type UserStore interface {
	EnsureUser(ctx context.Context, username string) (*models.User, bool, error)
}

// UserService handles login. There are no passwords; a username is created on first use.
type UserService struct {
	store UserStore
}

func NewUserService(store UserStore) *UserService {
	return &UserService{store: store}
}

// ValidateUsername trims username and checks its length.
func ValidateUsername(username string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return "", apperrors.NewValidationError("Username is required", nil)
	}
	if utf8.RuneCountInString(username) < minUsernameLength {
		return "", apperrors.NewValidationError("Username must be at least 3 characters", nil)
	}
	return username, nil
}

// Login creates the user if needed. created reports whether this was the first login.
func (s *UserService) Login(ctx context.Context, username string) (*models.User, bool, error) {
	username, err := ValidateUsername(username)
	if err != nil {
		return nil, false, err
	}

	user, created, err := s.store.EnsureUser(ctx, username)
	if err != nil {
		return nil, false, err
	}

	if created {
		utils.GetLogger().Info("✅ Created new user", map[string]interface{}{"username": username})
	}
	return user, created, nil
}
