package service

import (
	"fmt"

	"github.com/resalelab/carprice/database"
	"github.com/resalelab/carprice/database/model"
	"github.com/resalelab/carprice/logger"
	"github.com/resalelab/carprice/util/crypto"
)

const maxUsernameLength = 64

// UserService is the credential store.
type UserService struct{}

// Find returns the user named username, or nil when there is none.
func (s *UserService) Find(username string) (*model.User, error) {
	db := database.GetDB()

	user := &model.User{}
	err := db.Model(model.User{}).
		Where("username = ?", username).
		First(user).
		Error
	if database.IsNotFound(err) {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("%w: find user: %v", ErrStorage, err)
	}
	return user, nil
}

// Create registers a new user. An existing user is never overwritten.
func (s *UserService) Create(username string, password string) error {
	if username == "" || password == "" {
		return ErrEmptyCredentials
	}
	if len(username) > maxUsernameLength {
		return ErrInvalidUsername
	}

	existing, err := s.Find(username)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrUserExists
	}

	hashedPassword, err := crypto.HashPasswordAsBcrypt(password)
	if err != nil {
		return err
	}

	db := database.GetDB()
	user := &model.User{
		Username:     username,
		PasswordHash: hashedPassword,
	}
	err = db.Model(model.User{}).Create(user).Error
	if database.IsDuplicate(err) {
		// lost a race with a concurrent signup
		return ErrUserExists
	} else if err != nil {
		return fmt.Errorf("%w: create user: %v", ErrStorage, err)
	}
	logger.Infof("user %q created", username)
	return nil
}

// Verify reports whether username exists and password matches its hash.
// Storage failures are returned rather than reported as a mismatch.
func (s *UserService) Verify(username string, password string) (bool, error) {
	user, err := s.Find(username)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, nil
	}
	return crypto.CheckPasswordHash(user.PasswordHash, password), nil
}
