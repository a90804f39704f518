package services

import (
	"errors"
	"fmt"
	"time"

	"advocate_diary/config"

	"github.com/golang-jwt/jwt/v5"
)

// Token kinds carried in the token_type claim
const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

// Claims is the JWT payload. The subject is the user id.
type Claims struct {
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 bearer tokens
type TokenIssuer struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// Tokens is the global token issuer
var Tokens *TokenIssuer

// NewTokenIssuer creates an issuer with the given secret and lifetimes
func NewTokenIssuer(secret string, accessTTL, refreshTTL time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// InitializeTokens sets up the global issuer from configuration
func InitializeTokens(cfg *config.Config) {
	Tokens = NewTokenIssuer(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
}

// Issue signs a token of the given kind for userID
func (t *TokenIssuer) Issue(userID, tokenType string) (string, error) {
	ttl := t.accessTTL
	if tokenType == RefreshToken {
		ttl = t.refreshTTL
	}

	now := t.now()
	claims := Claims{
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Parse verifies a token and returns its subject. Tokens of the other kind are rejected.
func (t *TokenIssuer) Parse(tokenString, tokenType string) (string, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return t.secret, nil
	}, jwt.WithTimeFunc(t.now), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || !token.Valid {
		return "", errors.Join(ErrInvalidToken, err)
	}

	if claims.TokenType != tokenType || claims.Subject == "" {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
