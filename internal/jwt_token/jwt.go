// Package jwttoken validates the bearer tokens the agency identity provider
// issues to caseworkers. This service never mints production tokens; it only
// verifies them and extracts the acting ident.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	dErrors "caseflow/pkg/domain-errors"
)

// Claims represents the JWT claims we consume from caseworker access tokens.
type Claims struct {
	ActorID string `json:"NAVident"`
	Name    string `json:"name"`
	jwt.RegisteredClaims
}

// JWTService handles JWT validation (and test-token creation).
type JWTService struct {
	signingKey []byte
}

func NewJWTService(signingKey string) *JWTService {
	return &JWTService{signingKey: []byte(signingKey)}
}

// ValidateToken parses and verifies an HMAC-signed access token.
func (s *JWTService) ValidateToken(tokenString string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})

	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
		}
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	if claims.ActorID == "" {
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token carries no actor ident")
	}

	return claims, nil
}

// GenerateToken mints a signed token. Used by tests and local development.
func (s *JWTService) GenerateToken(actorID, name string, expiresIn time.Duration) (string, error) {
	newToken := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		ActorID: actorID,
		Name:    name,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	})
	return newToken.SignedString(s.signingKey)
}
