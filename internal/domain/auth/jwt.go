// Package auth provides bearer token validation for mutating routes.
// Tokens are HS256 JWTs signed with a shared secret; the subject is the principal email.
package auth

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	appctx "carrest/internal/core/context"
)

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	// Secret is the raw HMAC key (already decoded)
	Secret         []byte
	Issuer         string
	AccessTokenTTL time.Duration
}

// DefaultJWTConfig returns default JWT configuration.
func DefaultJWTConfig(secret []byte) JWTConfig {
	return JWTConfig{
		Secret:         secret,
		Issuer:         "carrest",
		AccessTokenTTL: time.Hour,
	}
}

// DecodeSecret decodes a base64url shared secret. Padding is optional.
func DecodeSecret(encoded string) ([]byte, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(encoded), "=")
	if trimmed == "" {
		return nil, errors.New("jwt secret is empty")
	}
	key, err := base64.RawURLEncoding.DecodeString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("decode jwt secret: %w", err)
	}
	return key, nil
}

// Claims represents JWT claims. Subject carries the principal email.
type Claims struct {
	jwt.RegisteredClaims
}

// JWTService handles JWT operations.
type JWTService struct {
	config JWTConfig
	parser *jwt.Parser
}

// NewJWTService creates a new JWT service.
func NewJWTService(config JWTConfig) *JWTService {
	return &JWTService{
		config: config,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
}

// GenerateAccessToken issues a token for email. Used by the token CLI command and tests.
func (s *JWTService) GenerateAccessToken(email string) (string, time.Time, error) {
	if email == "" {
		return "", time.Time{}, errors.New("email is required")
	}

	now := time.Now()
	expiresAt := now.Add(s.config.AccessTokenTTL)

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.config.Issuer,
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.config.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}

	return tokenString, expiresAt, nil
}

// ValidateToken validates JWT and returns user context.
func (s *JWTService) ValidateToken(tokenString string) (*appctx.UserContext, error) {
	token, err := s.parser.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return s.config.Secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("parse token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("token has no subject")
	}

	return &appctx.UserContext{
		Email:   claims.Subject,
		Issuer:  claims.Issuer,
		TokenID: claims.ID,
	}, nil
}
