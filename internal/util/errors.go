package util

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailRegistered    = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrChallengeNotFound  = errors.New("challenge not found")
	ErrChallengeInactive  = errors.New("challenge is not active")
	ErrAlreadyCalculated  = errors.New("echo score already calculated today")
	ErrDuplicateSelection = errors.New("daily selection already exists")
)
