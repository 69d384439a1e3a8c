package auth

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"

	apperrors "github.com/yanqian/docsum/pkg/errors"
)

func newTestService(t *testing.T, cfg Config) Service {
	t.Helper()
	svc, err := NewService(cfg, newTestLogger())
	require.NoError(t, err)
	return svc
}

func TestService_IssueAndValidate(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, Config{Secret: "test-secret", Issuer: "docsum", TokenTTL: time.Hour})

	token, err := svc.IssueToken("  ci-bot ", 0)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, "ci-bot", claims.Subject)
	require.NotEmpty(t, claims.TokenID)
	require.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt, time.Minute)
	require.WithinDuration(t, time.Now(), claims.IssuedAt, time.Minute)

	other, err := svc.IssueToken("ci-bot", 10*time.Minute)
	require.NoError(t, err)
	otherClaims, err := svc.ValidateToken(context.Background(), other)
	require.NoError(t, err)
	require.NotEqual(t, claims.TokenID, otherClaims.TokenID)
	require.WithinDuration(t, time.Now().Add(10*time.Minute), otherClaims.ExpiresAt, time.Minute)
}

func TestService_RejectsBadTokens(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, Config{Secret: "test-secret", Issuer: "docsum"})
	foreign := newTestService(t, Config{Secret: "other-secret", Issuer: "docsum"})
	otherIssuer := newTestService(t, Config{Secret: "test-secret", Issuer: "someone-else"})

	wrongKey, err := foreign.IssueToken("user", time.Hour)
	require.NoError(t, err)
	wrongIssuer, err := otherIssuer.IssueToken("user", time.Hour)
	require.NoError(t, err)

	expired := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user",
		Issuer:    "docsum",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
	})
	expiredToken, err := expired.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	noExpiry := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{Subject: "user", Issuer: "docsum"})
	noExpiryToken, err := noExpiry.SignedString([]byte("test-secret"))
	require.NoError(t, err)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user",
		Issuer:    "docsum",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	unsignedToken, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{name: "empty", token: " "},
		{name: "garbage", token: "not-a-jwt"},
		{name: "wrong key", token: wrongKey},
		{name: "wrong issuer", token: wrongIssuer},
		{name: "expired", token: expiredToken},
		{name: "missing expiry", token: noExpiryToken},
		{name: "alg none", token: unsignedToken},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := svc.ValidateToken(context.Background(), tt.token)
			require.Error(t, err)
			require.True(t, apperrors.IsCode(err, apperrors.CodeUnauthorized))
		})
	}
}

func TestService_IssueRequiresSubject(t *testing.T) {
	t.Parallel()
	svc := newTestService(t, Config{Secret: "test-secret"})
	_, err := svc.IssueToken("   ", time.Hour)
	require.True(t, apperrors.IsCode(err, apperrors.CodeInvalidInput))
}

func TestNewService_RequiresSecret(t *testing.T) {
	t.Parallel()
	_, err := NewService(Config{}, newTestLogger())
	require.Error(t, err)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
