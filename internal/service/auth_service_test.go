package service

import (
	"context"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/widya-labs/pustaka-api/internal/dto"
	"github.com/widya-labs/pustaka-api/internal/models"
)

func newAuthUserRepo(t *testing.T) *stubUserRepo {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("rahasia123"), bcrypt.MinCost)
	require.NoError(t, err)

	return &stubUserRepo{users: map[uint]models.User{
		1: {ID: 1, NIS: "2514440", Name: "Siti", Role: models.RoleStudent, Class: "8A", PasswordHash: string(hash)},
	}}
}

func TestAuthLoginIssuesToken(t *testing.T) {
	users := newAuthUserRepo(t)
	svc := NewAuthService(users, validator.New(validator.WithRequiredStructEnabled()), "test-secret", time.Hour, zerolog.Nop())

	response, err := svc.Login(context.Background(), dto.LoginRequest{NIS: "2514440", Password: "rahasia123"})
	require.NoError(t, err)
	require.NotEmpty(t, response.Token)
	require.Equal(t, "Siti", response.User.Name)

	parsed, err := jwt.Parse(response.Token, func(token *jwt.Token) (interface{}, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)

	claims, ok := parsed.Claims.(jwt.MapClaims)
	require.True(t, ok)
	require.Equal(t, float64(1), claims["sub"])
	require.Equal(t, models.RoleStudent, claims["role"])
}

func TestAuthLoginWrongPassword(t *testing.T) {
	users := newAuthUserRepo(t)
	svc := NewAuthService(users, validator.New(validator.WithRequiredStructEnabled()), "test-secret", time.Hour, zerolog.Nop())

	_, err := svc.Login(context.Background(), dto.LoginRequest{NIS: "2514440", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthLoginUnknownNIS(t *testing.T) {
	users := newAuthUserRepo(t)
	svc := NewAuthService(users, validator.New(validator.WithRequiredStructEnabled()), "test-secret", time.Hour, zerolog.Nop())

	_, err := svc.Login(context.Background(), dto.LoginRequest{NIS: "0000000", Password: "rahasia123"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthChangePassword(t *testing.T) {
	users := newAuthUserRepo(t)
	svc := NewAuthService(users, validator.New(validator.WithRequiredStructEnabled()), "test-secret", time.Hour, zerolog.Nop())

	err := svc.ChangePassword(context.Background(), 1, dto.ChangePasswordRequest{
		CurrentPassword: "rahasia123",
		NewPassword:     "rahasia-baru-456",
	})
	require.NoError(t, err)

	updated := users.users[1]
	require.NoError(t, bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("rahasia-baru-456")))

	err = svc.ChangePassword(context.Background(), 1, dto.ChangePasswordRequest{
		CurrentPassword: "rahasia123",
		NewPassword:     "whatever-else-789",
	})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}
