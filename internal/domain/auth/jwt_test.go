package auth

import (
	"encoding/base64"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func TestDecodeSecret(t *testing.T) {
	encoded := base64.URLEncoding.EncodeToString(testSecret)

	tests := []struct {
		name    string
		in      string
		wantErr bool
	}{
		{name: "padded", in: encoded},
		{name: "unpadded", in: base64.RawURLEncoding.EncodeToString(testSecret)},
		{name: "empty", in: "", wantErr: true},
		{name: "not base64url", in: "***", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DecodeSecret(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, testSecret, got)
		})
	}
}

func TestJWTService_RoundTrip(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig(testSecret))

	token, expiresAt, err := svc.GenerateAccessToken("admin@example.com")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	user, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", user.Email)
	assert.Equal(t, "carrest", user.Issuer)
	assert.NotEmpty(t, user.TokenID)
}

func TestJWTService_Rejects(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig(testSecret))

	expiredCfg := DefaultJWTConfig(testSecret)
	expiredCfg.AccessTokenTTL = -time.Minute
	expired, _, err := NewJWTService(expiredCfg).GenerateAccessToken("a@b.c")
	require.NoError(t, err)

	otherKey, _, err := NewJWTService(DefaultJWTConfig([]byte("another-secret-another-secret-xx"))).GenerateAccessToken("a@b.c")
	require.NoError(t, err)

	noExp := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "a@b.c"})
	noExpToken, err := noExp.SignedString(testSecret)
	require.NoError(t, err)

	hs512 := jwt.NewWithClaims(jwt.SigningMethodHS512, jwt.RegisteredClaims{
		Subject:   "a@b.c",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	hs512Token, err := hs512.SignedString(testSecret)
	require.NoError(t, err)

	noSubject := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	noSubjectToken, err := noSubject.SignedString(testSecret)
	require.NoError(t, err)

	for name, token := range map[string]string{
		"expired":      expired,
		"wrong key":    otherKey,
		"no expiry":    noExpToken,
		"wrong method": hs512Token,
		"no subject":   noSubjectToken,
		"garbage":      "not-a-jwt",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.ValidateToken(token)
			assert.Error(t, err)
		})
	}
}

func TestGenerateAccessToken_RequiresEmail(t *testing.T) {
	svc := NewJWTService(DefaultJWTConfig(testSecret))
	_, _, err := svc.GenerateAccessToken("")
	assert.Error(t, err)
}
