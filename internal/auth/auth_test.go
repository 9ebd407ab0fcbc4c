package auth

import (
	"strings"
	"testing"
	"time"

	"suryaghar-backend/internal/config"
	"suryaghar-backend/internal/models"

	"github.com/pquerna/otp/totp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testManager(secret string) *JWTManager {
	cfg := &config.Config{}
	cfg.JWT.Secret = secret
	cfg.JWT.Issuer = "test"
	cfg.JWT.ExpirationHours = 1
	return NewJWTManager(cfg)
}

func TestTokenRoundTrip(t *testing.T) {
	m := testManager("s3cret")
	user := &models.User{ID: 12, Email: "ddp@example.com", Role: models.RoleDDP}

	token, err := m.GenerateToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, 12, claims.UserID)
	assert.Equal(t, models.RoleDDP, claims.Role)
	assert.Equal(t, "test", claims.Issuer)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	token, err := testManager("a").GenerateToken(&models.User{ID: 1, Role: models.RoleAdmin})
	require.NoError(t, err)

	_, err = testManager("b").ValidateToken(token)
	assert.Error(t, err)
}

func TestTempToken(t *testing.T) {
	m := testManager("s3cret")
	user := &models.User{ID: 3, Email: "admin@example.com", Role: models.RoleAdmin}

	temp, err := m.GenerateTempToken(user)
	require.NoError(t, err)

	claims, err := m.ValidateTempToken(temp)
	require.NoError(t, err)
	assert.Equal(t, 3, claims.UserID)

	full, err := m.GenerateToken(user)
	require.NoError(t, err)
	_, err = m.ValidateTempToken(full)
	assert.ErrorIs(t, err, ErrWrongTokenType, "a session token is not a 2FA token")

	_, err = m.ValidateToken(temp)
	assert.ErrorIs(t, err, ErrWrongTokenType, "a 2FA token is not a session")
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, VerifyPassword(hash, "correct horse"))
	assert.False(t, VerifyPassword(hash, "wrong"))
	assert.False(t, VerifyPassword("", ""))

	_, err = HashPassword(strings.Repeat("x", 73))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
}

func TestTOTP(t *testing.T) {
	key, err := GenerateTOTP("admin@example.com")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key.QRCode, "data:image/png;base64,"))

	code, err := totp.GenerateCode(key.Secret, time.Now())
	require.NoError(t, err)
	assert.True(t, ValidateTOTP(key.Secret, code))
	assert.False(t, ValidateTOTP(key.Secret, "000000x"))
	assert.False(t, ValidateTOTP("", code))
}
