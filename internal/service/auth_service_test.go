package service

import (
	"testing"
	"time"

	"bikeblog/internal/config"
	"bikeblog/internal/middleware/auth"
	"bikeblog/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAuthService() (AuthService, *MockUserRepository, *MockRefreshTokenRepository) {
	userRepo := new(MockUserRepository)
	refreshTokenRepo := new(MockRefreshTokenRepository)
	cfg := &config.Config{
		JWTSecret:       "test-secret",
		AccessTokenTTL:  15 * time.Minute,
		RefreshTokenTTL: 168 * time.Hour,
	}
	return NewAuthService(userRepo, refreshTokenRepo, cfg), userRepo, refreshTokenRepo
}

func TestRegister_NewUser(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("FindByUsername", "rider").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("FindByEmail", "rider@example.com").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("Create", mock.AnythingOfType("*models.User")).Return(nil)

	user, err := svc.Register("rider", "correct horse battery", "rider@example.com")

	require.NoError(t, err)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "rider", user.Username)
	// stored hash, never the plaintext
	assert.NotEqual(t, "correct horse battery", user.Password)
	assert.NoError(t, auth.VerifyPassword(user.Password, "correct horse battery"))
}

func TestRegister_DuplicateUsername(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("FindByUsername", "rider").Return(&models.User{ID: "u1", Username: "rider"}, nil)

	_, err := svc.Register("rider", "password123", "other@example.com")

	assert.ErrorIs(t, err, ErrNameInUse)
	userRepo.AssertNotCalled(t, "Create")
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("FindByUsername", "newrider").Return(nil, gorm.ErrRecordNotFound)
	userRepo.On("FindByEmail", "rider@example.com").Return(&models.User{ID: "u1"}, nil)

	_, err := svc.Register("newrider", "password123", "rider@example.com")

	assert.ErrorIs(t, err, ErrEmailInUse)
}

func TestLogin_ValidCredentials(t *testing.T) {
	svc, userRepo, refreshTokenRepo := newTestAuthService()

	hashed, err := auth.HashPassword("password123")
	require.NoError(t, err)
	userRepo.On("FindByUsername", "rider").
		Return(&models.User{ID: "u1", Username: "rider", Password: hashed, Role: models.RoleUser}, nil)
	refreshTokenRepo.On("Create", mock.AnythingOfType("*models.RefreshToken")).Return(nil)

	accessToken, refreshToken, user, err := svc.Login("rider", "password123")

	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)
	assert.Equal(t, "u1", user.ID)

	claims, err := svc.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
	assert.Equal(t, "rider", claims.Username)
	assert.Equal(t, models.RoleUser, claims.Role)
}

func TestLogin_WrongPassword(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	hashed, err := auth.HashPassword("password123")
	require.NoError(t, err)
	userRepo.On("FindByUsername", "rider").
		Return(&models.User{ID: "u1", Username: "rider", Password: hashed}, nil)

	_, _, _, err = svc.Login("rider", "wrong")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLogin_UnknownUser(t *testing.T) {
	svc, userRepo, _ := newTestAuthService()

	userRepo.On("FindByUsername", "ghost").Return(nil, gorm.ErrRecordNotFound)

	_, _, _, err := svc.Login("ghost", "whatever")

	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestRefreshAccessToken(t *testing.T) {
	svc, userRepo, refreshTokenRepo := newTestAuthService()

	refreshTokenRepo.On("FindByToken", "valid-token").
		Return(&models.RefreshToken{
			ID:        "rt1",
			UserID:    "u1",
			Token:     "valid-token",
			ExpiresAt: time.Now().Add(time.Hour),
		}, nil)
	userRepo.On("FindByID", "u1").
		Return(&models.User{ID: "u1", Username: "rider", Role: models.RoleUser}, nil)

	accessToken, err := svc.RefreshAccessToken("valid-token")

	require.NoError(t, err)
	claims, err := svc.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, "u1", claims.UserID)
}

func TestRefreshAccessToken_Revoked(t *testing.T) {
	svc, _, refreshTokenRepo := newTestAuthService()

	refreshTokenRepo.On("FindByToken", "revoked-token").
		Return(&models.RefreshToken{ID: "rt1", UserID: "u1", Revoked: true, ExpiresAt: time.Now().Add(time.Hour)}, nil)

	_, err := svc.RefreshAccessToken("revoked-token")

	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshAccessToken_Expired(t *testing.T) {
	svc, _, refreshTokenRepo := newTestAuthService()

	refreshTokenRepo.On("FindByToken", "old-token").
		Return(&models.RefreshToken{ID: "rt1", UserID: "u1", ExpiresAt: time.Now().Add(-time.Hour)}, nil)
	refreshTokenRepo.On("Delete", "rt1").Return(nil)

	_, err := svc.RefreshAccessToken("old-token")

	assert.ErrorIs(t, err, ErrExpiredToken)
	refreshTokenRepo.AssertCalled(t, "Delete", "rt1")
}

func TestValidateToken_Garbage(t *testing.T) {
	svc, _, _ := newTestAuthService()

	_, err := svc.ValidateToken("not.a.jwt")

	assert.Error(t, err)
}
