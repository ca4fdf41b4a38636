package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domains/user/model"
	"library-backend/internal/domains/user/repository"
	"library-backend/internal/shared/middleware"
	"library-backend/pkg/cache"
)

const bcryptCost = 12

type userService struct {
	repo   repository.Repository
	tokens TokenIssuer
	cache  cache.Cache
	policy LoginPolicy
}

func NewUserService(repo repository.Repository, tokens TokenIssuer, c cache.Cache, policy LoginPolicy) ServiceInterface {
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 5
	}
	return &userService{
		repo:   repo,
		tokens: tokens,
		cache:  c,
		policy: policy,
	}
}

// ========================================
// AUTHENTICATION
// ========================================

func (s *userService) Register(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error) {
	return s.create(ctx, req, false)
}

func (s *userService) CreateStaff(ctx context.Context, req model.RegisterRequest) (*model.UserDTO, error) {
	return s.create(ctx, req, true)
}

func (s *userService) create(ctx context.Context, req model.RegisterRequest, isStaff bool) (*model.UserDTO, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByUsername(ctx, req.Username)
	if err != nil {
		return nil, fmt.Errorf("check username exists: %w", err)
	}
	if exists {
		return nil, model.ErrUsernameAlreadyExists
	}

	exists, err = s.repo.ExistsByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("check email exists: %w", err)
	}
	if exists {
		return nil, model.ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &model.User{
		ID:           uuid.New(),
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: string(hash),
		IsStaff:      isStaff,
	}
	// unique index vẫn là chốt chặn cuối khi hai request đăng ký cùng lúc
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}

	log.Info().
		Str("user_id", u.ID.String()).
		Str("username", u.Username).
		Bool("is_staff", isStaff).
		Msg("user created")

	dto := u.ToDTO()
	return &dto, nil
}

func failedLoginKey(username string) string {
	return "failed_login:" + strings.ToLower(strings.TrimSpace(username))
}

func (s *userService) Login(ctx context.Context, req model.LoginRequest) (*model.LoginResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	key := failedLoginKey(req.Username)
	var attempts int64
	if found, err := s.cache.Get(ctx, key, &attempts); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("read failed login counter")
	} else if found && attempts >= int64(s.policy.MaxAttempts) {
		return nil, model.ErrTooManyAttempts
	}

	u, err := s.repo.FindByUsername(ctx, strings.TrimSpace(req.Username))
	if err != nil {
		if errors.Is(err, model.ErrUserNotFound) {
			s.recordFailure(ctx, key)
			return nil, model.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("find user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		s.recordFailure(ctx, key)
		return nil, model.ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.GenerateAccessToken(u.ID.String(), u.Username, u.IsStaff)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}

	if err := s.cache.Delete(ctx, key); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("reset failed login counter")
	}
	if err := s.repo.UpdateLastLogin(ctx, u.ID); err != nil {
		log.Warn().Err(err).Str("user_id", u.ID.String()).Msg("update last login")
	}

	return &model.LoginResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresAt:   expiresAt,
		User:        u.ToDTO(),
	}, nil
}

// recordFailure bumps the counter; the window starts at the first failure
func (s *userService) recordFailure(ctx context.Context, key string) {
	n, err := s.cache.Increment(ctx, key)
	if err != nil {
		log.Warn().Err(err).Str("key", key).Msg("increment failed login counter")
		return
	}
	log.Info().
		Str("client_ip", middleware.GetClientIPFromContext(ctx)).
		Int64("attempts", n).
		Msg("Failed login attempt")

	if n == 1 {
		if err := s.cache.Expire(ctx, key, s.policy.Window); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("expire failed login counter")
		}
	}
}

// ========================================
// PROFILE & ROLES
// ========================================

func (s *userService) GetProfile(ctx context.Context, userID uuid.UUID) (*model.UserDTO, error) {
	u, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	dto := u.ToDTO()
	return &dto, nil
}

func (s *userService) SetStaff(ctx context.Context, actorID, userID uuid.UUID, isStaff bool) (*model.UserDTO, error) {
	if actorID == userID && !isStaff {
		return nil, model.ErrCannotDemoteSelf
	}
	if err := s.repo.SetStaff(ctx, userID, isStaff); err != nil {
		return nil, err
	}

	log.Info().
		Str("actor_id", actorID.String()).
		Str("user_id", userID.String()).
		Bool("is_staff", isStaff).
		Msg("staff role changed")

	return s.GetProfile(ctx, userID)
}
