package model

import "library-backend/pkg/apperror"

var (
	ErrUserNotFound          = apperror.NotFound("USER_NOT_FOUND", "User not found")
	ErrUsernameAlreadyExists = apperror.Conflict("USERNAME_ALREADY_EXISTS", "Username is already taken")
	ErrEmailAlreadyExists    = apperror.Conflict("EMAIL_ALREADY_EXISTS", "Email is already registered")
	ErrInvalidCredentials    = apperror.Unauthorized("INVALID_CREDENTIALS", "Invalid username or password")
	ErrTooManyAttempts       = apperror.RateLimited("TOO_MANY_ATTEMPTS", "Too many login attempts, please try again later")
	ErrCannotDemoteSelf      = apperror.Validation("CANNOT_DEMOTE_SELF", "Staff cannot revoke their own staff role")
)
