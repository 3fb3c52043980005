// Package repository provides data access for the application and interacts with Redis.
package repository

import "errors"

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already exists")
	ErrCredentialNotFound = errors.New("credentials not found")
	ErrSettingsNotFound   = errors.New("settings not found")
	ErrBotNotFound        = errors.New("bot not found")
)
