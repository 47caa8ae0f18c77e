package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenRequest exchanges the owner's access key for a bearer token.
type TokenRequest struct {
	AccessKey string `json:"accessKey" validate:"required"`
}

// TokenResponse returns the issued access token.
type TokenResponse struct {
	AccessToken string    `json:"accessToken"`
	TokenType   string    `json:"tokenType"`
	ExpiresIn   int64     `json:"expiresIn"`
	IssuedAt    time.Time `json:"issuedAt"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	Owner string `json:"owner"`
	jwt.RegisteredClaims
}
