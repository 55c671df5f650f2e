package service

import (
	"context"
	"testing"
	"time"

	"github.com/RenCostamagna/comidita-backend/internal/app/repository"
	"github.com/RenCostamagna/comidita-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupAuthServiceTest(t *testing.T) AuthService {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	return NewAuthService(userRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
}

func TestAuthService_Register_Success(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, tokens, err := authService.Register("nuevo@example.com", "password123", "Nuevo Usuario")
	require.NoError(t, err)
	require.NotNil(t, user)
	require.NotNil(t, tokens)

	assert.NotZero(t, user.ID)
	assert.Equal(t, "nuevo@example.com", user.Email)
	assert.Equal(t, "Nuevo Usuario", user.Name)
	assert.Equal(t, 1, user.Level)
	assert.Equal(t, 0, user.Points)
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register("dup@example.com", "password123", "Primero")
	require.NoError(t, err)

	_, _, err = authService.Register("dup@example.com", "otherpass", "Segundo")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login_Success(t *testing.T) {
	authService := setupAuthServiceTest(t)

	registered, _, err := authService.Register("login@example.com", "password123", "Login User")
	require.NoError(t, err)

	user, tokens, err := authService.Login("login@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)
	assert.NotEmpty(t, tokens.AccessToken)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Register("login2@example.com", "password123", "Login User")
	require.NoError(t, err)

	_, _, err = authService.Login("login2@example.com", "wrongpass")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, _, err := authService.Login("nadie@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Logout_InvalidToken(t *testing.T) {
	authService := setupAuthServiceTest(t)

	// Un token inválido no tiene nada que revocar
	err := authService.Logout(context.Background(), "not-a-token")
	assert.NoError(t, err)
}

func TestAuthService_GetUserByID_NotFound(t *testing.T) {
	authService := setupAuthServiceTest(t)

	_, err := authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_UpdateProfile(t *testing.T) {
	authService := setupAuthServiceTest(t)

	user, _, err := authService.Register("perfil@example.com", "password123", "Nombre Viejo")
	require.NoError(t, err)

	updated, err := authService.UpdateProfile(user.ID, "Nombre Nuevo", "https://cdn.example.com/avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "Nombre Nuevo", updated.Name)
	assert.Equal(t, "https://cdn.example.com/avatar.png", updated.AvatarURL)

	// Campos vacíos no pisan lo que ya hay
	unchanged, err := authService.UpdateProfile(user.ID, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Nombre Nuevo", unchanged.Name)
}
