// Package auth verifies bearer identity tokens issued by the configured identity provider.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"youthevents/internal/domain"
)

type jwtClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email,omitempty"`
	Name  string `json:"name,omitempty"`
}

// JWTIssuer signs HS256 identity tokens. It stands in for an external identity provider in
// development and tests.
type JWTIssuer struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTIssuer returns an issuer that signs tokens with secret, valid for expiry.
func NewJWTIssuer(secret string, expiry time.Duration) *JWTIssuer {
	return &JWTIssuer{secret: []byte(secret), expiry: expiry, now: time.Now}
}

// Issue signs a token whose subject is the identity's external id.
func (i *JWTIssuer) Issue(identity domain.Identity) (string, error) {
	if identity.ExternalID == "" {
		return "", errors.New("identity subject is required")
	}
	now := i.now()
	claims := jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   identity.ExternalID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.expiry)),
		},
		Email: identity.Email,
		Name:  identity.DisplayName,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return tokenString, nil
}

type jwtVerifier struct {
	secret []byte
}

// NewJWTVerifier returns an IdentityVerifier accepting HS256 tokens signed with secret.
func NewJWTVerifier(secret string) domain.IdentityVerifier {
	return &jwtVerifier{secret: []byte(secret)}
}

func (v *jwtVerifier) Verify(_ context.Context, token string) (*domain.Identity, error) {
	claims := &jwtClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	if claims.Subject == "" {
		return nil, fmt.Errorf("%w: token has no subject", domain.ErrUnauthenticated)
	}
	return &domain.Identity{
		ExternalID:  claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.Name,
	}, nil
}
