package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/user/model"
	"library-backend/internal/testutil/memstore"
	"library-backend/pkg/apperror"
)

type stubTokens struct{}

func (stubTokens) GenerateAccessToken(userID, username string, isStaff bool) (string, time.Time, error) {
	return "token-" + username, time.Now().Add(time.Hour), nil
}

func newTestService(t *testing.T) (ServiceInterface, *memstore.Cache) {
	t.Helper()
	store := memstore.New()
	c := memstore.NewCache()
	return NewUserService(store.Users(), stubTokens{}, c, LoginPolicy{MaxAttempts: 3, Window: time.Minute}), c
}

func register(t *testing.T, svc ServiceInterface, username string) *model.UserDTO {
	t.Helper()
	u, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return u
}

func TestRegister_CreatesNonStaffUser(t *testing.T) {
	svc, _ := newTestService(t)

	u := register(t, svc, "alice")
	assert.Equal(t, "alice", u.Username)
	assert.False(t, u.IsStaff)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "ALICE", Email: "other@example.com", Password: "secret123",
	})
	assert.ErrorIs(t, err, model.ErrUsernameAlreadyExists)
}

func TestRegister_RejectsWeakPassword(t *testing.T) {
	svc, _ := newTestService(t)

	_, err := svc.Register(context.Background(), model.RegisterRequest{
		Username: "bob", Email: "bob@example.com", Password: "short",
	})
	require.Error(t, err)
}

func TestLogin(t *testing.T) {
	svc, _ := newTestService(t)
	register(t, svc, "alice")

	res, err := svc.Login(context.Background(), model.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "token-alice", res.AccessToken)
	assert.Equal(t, "Bearer", res.TokenType)

	_, err = svc.Login(context.Background(), model.LoginRequest{Username: "alice", Password: "wrong-pass1"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), model.LoginRequest{Username: "nobody", Password: "secret123"})
	assert.ErrorIs(t, err, model.ErrInvalidCredentials)
}

func TestLogin_ThrottlesAfterRepeatedFailures(t *testing.T) {
	svc, c := newTestService(t)
	register(t, svc, "alice")
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "wrong-pass1"})
		assert.ErrorIs(t, err, model.ErrInvalidCredentials)
	}
	assert.True(t, c.Has(failedLoginKey("alice")))

	_, err := svc.Login(ctx, model.LoginRequest{Username: "Alice", Password: "secret123"})
	assert.ErrorIs(t, err, model.ErrTooManyAttempts)
	assert.True(t, apperror.IsKind(err, apperror.KindRateLimited))
}

func TestLogin_SuccessResetsCounter(t *testing.T) {
	svc, c := newTestService(t)
	register(t, svc, "alice")
	ctx := context.Background()

	_, _ = svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "wrong-pass1"})
	_, err := svc.Login(ctx, model.LoginRequest{Username: "alice", Password: "secret123"})
	require.NoError(t, err)
	assert.False(t, c.Has(failedLoginKey("alice")))
}

func TestSetStaff(t *testing.T) {
	svc, _ := newTestService(t)
	ctx := context.Background()

	admin, err := svc.CreateStaff(ctx, model.RegisterRequest{
		Username: "admin", Email: "admin@example.com", Password: "secret123",
	})
	require.NoError(t, err)
	assert.True(t, admin.IsStaff)

	alice := register(t, svc, "alice")

	updated, err := svc.SetStaff(ctx, admin.ID, alice.ID, true)
	require.NoError(t, err)
	assert.True(t, updated.IsStaff)

	_, err = svc.SetStaff(ctx, admin.ID, admin.ID, false)
	assert.ErrorIs(t, err, model.ErrCannotDemoteSelf)
}
