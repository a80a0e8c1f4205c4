package util

import (
	"testing"
	"time"

	"shop-backend/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupJWT(t *testing.T) {
	t.Helper()
	old := config.AppConfig
	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.AccessTokenTTL = time.Minute
	config.AppConfig.RefreshTokenTTL = time.Hour
	t.Cleanup(func() { config.AppConfig = old })
}

func TestGenerateTokenPair(t *testing.T) {
	setupJWT(t)

	pair, err := GenerateTokenPair(42)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.Access)
	assert.NotEmpty(t, pair.Refresh)
	assert.NotEqual(t, pair.Access, pair.Refresh)

	userID, err := ValidateAccessToken(pair.Access)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userID)
}

func TestValidateAccessTokenRejectsRefreshToken(t *testing.T) {
	setupJWT(t)

	pair, err := GenerateTokenPair(7)
	require.NoError(t, err)

	_, err = ValidateAccessToken(pair.Refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestRefreshAccessToken(t *testing.T) {
	setupJWT(t)

	pair, err := GenerateTokenPair(7)
	require.NoError(t, err)

	access, err := RefreshAccessToken(pair.Refresh)
	require.NoError(t, err)
	userID, err := ValidateAccessToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint(7), userID)

	// 访问令牌不能用来刷新
	_, err = RefreshAccessToken(pair.Access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestExpiredToken(t *testing.T) {
	setupJWT(t)

	token, err := generateToken(3, TokenTypeRefresh, -time.Minute)
	require.NoError(t, err)

	_, err = RefreshAccessToken(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)
}

func TestTokenSignedWithOtherSecret(t *testing.T) {
	setupJWT(t)

	pair, err := GenerateTokenPair(3)
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "another-secret"
	_, err = ValidateAccessToken(pair.Access)
	assert.Error(t, err)

	_, err = ValidateAccessToken("")
	assert.ErrorIs(t, err, ErrEmptyToken)
}

func TestGenerateUniqueFilename(t *testing.T) {
	a := GenerateUniqueFilename("My Photo.JPG")
	b := GenerateUniqueFilename("My Photo.JPG")
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^My_Photo_[0-9a-f]{8}\.jpg$`, a)
}
