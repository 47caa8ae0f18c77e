package service

import (
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/classdy-api/internal/models"
	appErrors "github.com/noah-isme/classdy-api/pkg/errors"
)

const tokenIssuer = "classdy-api"

// AuthConfig defines configuration for token issuance.
type AuthConfig struct {
	Enabled           bool
	AccessKeyHash     string
	Owner             string
	AccessTokenSecret string
	AccessTokenExpiry time.Duration
}

// AuthService issues and validates bearer tokens for the single owner of the
// tracker. The owner proves identity with an access key whose bcrypt hash is
// configured.
type AuthService struct {
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
	now       func() time.Time
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(validate *validator.Validate, logger *zap.Logger, config AuthConfig, now func() time.Time) *AuthService {
	if validate == nil {
		validate = validator.New()
	}
	if config.AccessTokenExpiry <= 0 {
		config.AccessTokenExpiry = 24 * time.Hour
	}
	return &AuthService{validator: validate, logger: nopLogger(logger), config: config, now: systemNow(now)}
}

// Enabled reports whether requests must carry a token.
func (s *AuthService) Enabled() bool {
	return s != nil && s.config.Enabled
}

// IssueToken checks the access key and returns a signed access token.
func (s *AuthService) IssueToken(req models.TokenRequest) (*models.TokenResponse, error) {
	if !s.Enabled() {
		return nil, appErrors.Clone(appErrors.ErrFeatureDisabled, "authentication is disabled")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid token request")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(s.config.AccessKeyHash), []byte(req.AccessKey)); err != nil {
		s.logger.Warn("rejected access key")
		return nil, appErrors.ErrInvalidAccessKey
	}

	issuedAt := s.now().UTC()
	token, err := s.sign(issuedAt)
	if err != nil {
		return nil, internalError(err, "failed to create access token")
	}
	return &models.TokenResponse{
		AccessToken: token,
		TokenType:   "Bearer",
		ExpiresIn:   int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:    issuedAt,
	}, nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid token")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid || claims.Owner != s.config.Owner {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid token claims")
	}
	return claims, nil
}

func (s *AuthService) sign(issuedAt time.Time) (string, error) {
	claims := &models.JWTClaims{
		Owner: s.config.Owner,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   s.config.Owner,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}
