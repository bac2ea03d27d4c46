package service

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/dto"
	"github.com/Hasibul-Hasan-ofcs/Foreign-Accent-A-foreign-language-learning-platform-Backend/internal/models"
)

func newTokenService(secret string) *TokenService {
	return NewTokenService(nil, nil, TokenConfig{Secret: secret, Expiry: time.Hour, Issuer: "test"})
}

func TestTokenServiceRoundTrip(t *testing.T) {
	svc := newTokenService("secret")

	res, err := svc.Issue(context.Background(), dto.IssueTokenRequest{Email: "a@x.com", Name: "Ada"})
	require.NoError(t, err)
	assert.NotEmpty(t, res.Token)
	assert.Equal(t, int64(3600), res.ExpiresIn)

	claims, err := svc.Validate(res.Token)
	require.NoError(t, err)
	assert.Equal(t, "a@x.com", claims.Email)
	assert.Equal(t, "Ada", claims.Name)
	assert.Equal(t, "test", claims.Issuer)
}

func TestTokenServiceIssueValidation(t *testing.T) {
	svc := newTokenService("secret")

	_, err := svc.Issue(context.Background(), dto.IssueTokenRequest{Email: "not-an-email"})
	assert.Equal(t, 400, appStatus(err))
}

func TestTokenServiceRejectsExpired(t *testing.T) {
	svc := newTokenService("secret")
	issued := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	res, err := svc.Issue(context.Background(), dto.IssueTokenRequest{Email: "a@x.com"})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.Validate(res.Token)
	assert.Equal(t, 401, appStatus(err))
}

func TestTokenServiceRejectsForeignTokens(t *testing.T) {
	svc := newTokenService("secret")

	other, err := newTokenService("another-secret").Issue(context.Background(), dto.IssueTokenRequest{Email: "a@x.com"})
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, &models.Claims{
		Email: "a@x.com",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	noEmail, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &models.Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for name, raw := range map[string]string{
		"wrong secret":  other.Token,
		"wrong method":  hs512,
		"missing email": noEmail,
		"garbage":       "abc.def.ghi",
		"empty":         "",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Validate(raw)
			assert.Equal(t, 401, appStatus(err))
		})
	}
}
