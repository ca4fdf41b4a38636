package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/user/model"
)

// ServiceInterface - account operations
type ServiceInterface interface {
	// Register creates a non-staff borrower account
	Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error)
	GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserDTO, error)
	// SetStaff grants or revokes the staff role; actorID cannot revoke itself
	SetStaff(ctx context.Context, actorID, userID uuid.UUID, isStaff bool) (*model.UserDTO, error)
	// CreateStaff is used by libctl to bootstrap administrators
	CreateStaff(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error)
}

// TokenIssuer signs access tokens
type TokenIssuer interface {
	GenerateAccessToken(userID, username string, isStaff bool) (string, time.Time, error)
}

// LoginPolicy bounds failed login attempts per username
type LoginPolicy struct {
	MaxAttempts int
	Window      time.Duration
}
