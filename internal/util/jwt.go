package util

import (
	"errors"
	"fmt"
	"time"

	"shop-backend/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"

	defaultAccessTTL  = 5 * time.Minute
	defaultRefreshTTL = 24 * time.Hour
)

var (
	ErrEmptyToken     = errors.New("令牌为空")
	ErrInvalidToken   = errors.New("无效的令牌")
	ErrWrongTokenType = errors.New("令牌类型错误")
)

// TokenClaims 是访问令牌和刷新令牌共用的声明
type TokenClaims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair 登录后下发的令牌对
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// GenerateTokenPair 为用户生成访问令牌和刷新令牌
func GenerateTokenPair(userID uint) (*TokenPair, error) {
	access, err := generateToken(userID, TokenTypeAccess, accessTTL())
	if err != nil {
		return nil, err
	}
	refresh, err := generateToken(userID, TokenTypeRefresh, refreshTTL())
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

// ValidateAccessToken 校验访问令牌并返回用户ID
func ValidateAccessToken(tokenString string) (uint, error) {
	claims, err := parseToken(tokenString, TokenTypeAccess)
	if err != nil {
		return 0, err
	}
	return claims.UserID, nil
}

// RefreshAccessToken 用刷新令牌换取新的访问令牌
func RefreshAccessToken(refreshToken string) (string, error) {
	claims, err := parseToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return generateToken(claims.UserID, TokenTypeAccess, accessTTL())
}

func generateToken(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := TokenClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(config.AppConfig.JWTSecret))
}

func parseToken(tokenString, wantType string) (*TokenClaims, error) {
	if tokenString == "" {
		return nil, ErrEmptyToken
	}

	claims := &TokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(config.AppConfig.JWTSecret), nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("%w: 期望 %s", ErrWrongTokenType, wantType)
	}
	if claims.UserID == 0 {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func accessTTL() time.Duration {
	if config.AppConfig.AccessTokenTTL > 0 {
		return config.AppConfig.AccessTokenTTL
	}
	return defaultAccessTTL
}

func refreshTTL() time.Duration {
	if config.AppConfig.RefreshTokenTTL > 0 {
		return config.AppConfig.RefreshTokenTTL
	}
	return defaultRefreshTTL
}
