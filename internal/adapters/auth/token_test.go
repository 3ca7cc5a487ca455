package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youthevents/internal/domain"
)

func TestJWTIssuer_Issue(t *testing.T) {
	secret := "test-secret"
	issuer := NewJWTIssuer(secret, time.Hour)

	token, err := issuer.Issue(domain.Identity{ExternalID: "uid-123", Email: "u@example.com", DisplayName: "Pat"})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	parsed, err := jwt.ParseWithClaims(token, &jwtClaims{}, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	})
	require.NoError(t, err)
	require.True(t, parsed.Valid)
	claims, ok := parsed.Claims.(*jwtClaims)
	require.True(t, ok)
	assert.Equal(t, "uid-123", claims.Subject)
	assert.Equal(t, "u@example.com", claims.Email)
	assert.Equal(t, "Pat", claims.Name)

	_, err = issuer.Issue(domain.Identity{})
	require.Error(t, err)
}

func TestJWTVerifier_Verify(t *testing.T) {
	ctx := context.Background()
	secret := "test-secret"
	issuer := NewJWTIssuer(secret, time.Hour)
	valid, err := issuer.Issue(domain.Identity{ExternalID: "uid-1", Email: "a@b.com", DisplayName: "Ann"})
	require.NoError(t, err)

	expiredIssuer := NewJWTIssuer(secret, time.Hour)
	expiredIssuer.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	expired, err := expiredIssuer.Issue(domain.Identity{ExternalID: "uid-1"})
	require.NoError(t, err)

	otherSecret, err := NewJWTIssuer("other", time.Hour).Issue(domain.Identity{ExternalID: "uid-1"})
	require.NoError(t, err)

	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "uid-1"},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	noSubject, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	hs512, err := jwt.NewWithClaims(jwt.SigningMethodHS512, jwtClaims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "uid-1", ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour))},
	}).SignedString([]byte(secret))
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		want    *domain.Identity
		wantErr bool
	}{
		{name: "valid", token: valid, want: &domain.Identity{ExternalID: "uid-1", Email: "a@b.com", DisplayName: "Ann"}},
		{name: "expired", token: expired, wantErr: true},
		{name: "wrong secret", token: otherSecret, wantErr: true},
		{name: "missing expiry", token: noExpiry, wantErr: true},
		{name: "missing subject", token: noSubject, wantErr: true},
		{name: "unexpected algorithm", token: hs512, wantErr: true},
		{name: "garbage", token: "not-a-jwt", wantErr: true},
	}

	verifier := NewJWTVerifier(secret)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := verifier.Verify(ctx, tt.token)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrUnauthenticated)
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
