package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/classdy-api/internal/models"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
)

func newAuthService(t *testing.T, now func() time.Time) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("open-sesame"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, zap.NewNop(), AuthConfig{
		Enabled:           true,
		AccessKeyHash:     string(hash),
		Owner:             "student",
		AccessTokenSecret: "access-secret",
		AccessTokenExpiry: time.Hour,
	}, now)
}

func TestAuthServiceIssueAndValidate(t *testing.T) {
	svc := newAuthService(t, clockAt(time.Now()))

	resp, err := svc.IssueToken(models.TokenRequest{AccessKey: "open-sesame"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "student", claims.Owner)
	assert.Equal(t, "classdy-api", claims.Issuer)
}

func TestAuthServiceRejectsWrongKey(t *testing.T) {
	svc := newAuthService(t, nil)

	_, err := svc.IssueToken(models.TokenRequest{AccessKey: "guess"})
	assertErrorCode(t, err, appErrors.ErrInvalidAccessKey.Code)
	_, err = svc.IssueToken(models.TokenRequest{})
	assertErrorCode(t, err, appErrors.ErrValidation.Code)
}

func TestAuthServiceExpiredToken(t *testing.T) {
	issuedAt := time.Now().Add(-2 * time.Hour)
	issuer := newAuthService(t, clockAt(issuedAt))
	resp, err := issuer.IssueToken(models.TokenRequest{AccessKey: "open-sesame"})
	require.NoError(t, err)

	validator := newAuthService(t, time.Now)
	_, err = validator.ValidateToken(resp.AccessToken)
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestAuthServiceRejectsForeignTokens(t *testing.T) {
	svc := newAuthService(t, nil)
	other := NewAuthService(nil, zap.NewNop(), AuthConfig{
		Enabled:           true,
		AccessKeyHash:     svc.config.AccessKeyHash,
		Owner:             "someone-else",
		AccessTokenSecret: "access-secret",
	}, nil)

	resp, err := other.IssueToken(models.TokenRequest{AccessKey: "open-sesame"})
	require.NoError(t, err)
	_, err = svc.ValidateToken(resp.AccessToken)
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)

	_, err = svc.ValidateToken("garbage")
	assertErrorCode(t, err, appErrors.ErrUnauthorized.Code)
}

func TestAuthServiceDisabled(t *testing.T) {
	svc := NewAuthService(nil, nil, AuthConfig{}, nil)

	assert.False(t, svc.Enabled())
	_, err := svc.IssueToken(models.TokenRequest{AccessKey: "anything"})
	assertErrorCode(t, err, appErrors.ErrFeatureDisabled.Code)
}
