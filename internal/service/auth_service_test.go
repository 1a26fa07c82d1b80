package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	"github.com/gradegenie/gradegenie-api/internal/dto"
	"github.com/gradegenie/gradegenie-api/internal/repository"
)

func newAuthService(t *testing.T) AuthService {
	t.Helper()
	db := setupTestDB(t)
	users := repository.NewUserRepository(db)
	validate := validator.New(validator.WithRequiredStructEnabled())
	return NewAuthService(users, validate, "test-secret", time.Hour, testLogger())
}

func TestAuthServiceRegisterAndLogin(t *testing.T) {
	svc := newAuthService(t)

	registered, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Dana Reyes",
		Email:    "Dana.Reyes@Example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.NotZero(t, registered.User.ID)
	require.Equal(t, "dana.reyes@example.com", registered.User.Email)
	require.NotEmpty(t, registered.Token)

	token, err := jwt.Parse(registered.Token, func(t *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	loggedIn, err := svc.Login(context.Background(), dto.LoginRequest{
		Email:    "dana.reyes@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)
	require.Equal(t, registered.User.ID, loggedIn.User.ID)
}

func TestAuthServiceRejectsWrongPassword(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Dana Reyes",
		Email:    "dana@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "dana@example.com",
		Password: "wrong horse",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(context.Background(), dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "correct horse",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthServiceRejectsDuplicateEmail(t *testing.T) {
	svc := newAuthService(t)

	_, err := svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Dana Reyes",
		Email:    "dana@example.com",
		Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = svc.Register(context.Background(), dto.RegisterRequest{
		Name:     "Another Dana",
		Email:    "DANA@example.com",
		Password: "another horse",
	})
	require.ErrorIs(t, err, ErrEmailTaken)
}
