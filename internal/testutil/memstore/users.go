package memstore

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/user/model"
)

// UserRepo implements the user repository over a Store
type UserRepo struct {
	s *Store
}

func (r *UserRepo) Create(ctx context.Context, u *model.User) error {
	defer r.s.lock(ctx)()
	for _, existing := range r.s.users {
		if strings.EqualFold(existing.Username, u.Username) {
			return model.ErrUsernameAlreadyExists
		}
		if existing.Email == u.Email {
			return model.ErrEmailAlreadyExists
		}
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	now := time.Now()
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	defer r.s.lock(ctx)()
	u, ok := r.s.users[id]
	if !ok {
		return nil, model.ErrUserNotFound
	}
	return &u, nil
}

func (r *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	defer r.s.lock(ctx)()
	for _, u := range r.s.users {
		if strings.EqualFold(u.Username, username) {
			return &u, nil
		}
	}
	return nil, model.ErrUserNotFound
}

func (r *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	return err == nil, nil
}

func (r *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	defer r.s.lock(ctx)()
	for _, u := range r.s.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) SetStaff(ctx context.Context, id uuid.UUID, isStaff bool) error {
	defer r.s.lock(ctx)()
	u, ok := r.s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	u.IsStaff = isStaff
	r.s.users[id] = u
	return nil
}

func (r *UserRepo) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	defer r.s.lock(ctx)()
	u, ok := r.s.users[id]
	if !ok {
		return model.ErrUserNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	r.s.users[id] = u
	return nil
}

// AddUser seeds a user and returns it
func (s *Store) AddUser(username string, isStaff bool) model.User {
	u := model.User{
		ID:       uuid.New(),
		Username: username,
		Email:    strings.ToLower(username) + "@example.com",
		IsStaff:  isStaff,
	}
	_ = s.Users().Create(context.Background(), &u)
	return u
}
