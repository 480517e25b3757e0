package service

import (
	"errors"

	"github.com/resalelab/carprice/estimator"
)

var (
	ErrUserExists         = errors.New("username already exists")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrEmptyCredentials   = errors.New("username and password are required")
	ErrInvalidUsername    = errors.New("username is too long")

	// ErrModelUnavailable is estimator.ErrUnavailable so either can be
	// matched with errors.Is.
	ErrModelUnavailable = estimator.ErrUnavailable

	ErrStorage = errors.New("storage error")
)
