package auth

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	fbauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"youthevents/internal/domain"
)

// idTokenVerifier is the part of the Firebase auth client used here.
type idTokenVerifier interface {
	VerifyIDToken(ctx context.Context, idToken string) (*fbauth.Token, error)
}

type firebaseVerifier struct {
	client idTokenVerifier
}

// NewFirebaseVerifier initialises the Firebase Admin SDK and returns an IdentityVerifier for
// Firebase ID tokens. Inline JSON credentials take precedence over a credentials file; with
// neither, Application Default Credentials are used.
func NewFirebaseVerifier(ctx context.Context, credentialsFile, credentialsJSON string) (domain.IdentityVerifier, error) {
	var opts []option.ClientOption
	switch {
	case credentialsJSON != "":
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	case credentialsFile != "":
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	app, err := firebase.NewApp(ctx, nil, opts...)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase app: %w", err)
	}
	client, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("initialize firebase auth: %w", err)
	}
	return &firebaseVerifier{client: client}, nil
}

func (v *firebaseVerifier) Verify(ctx context.Context, token string) (*domain.Identity, error) {
	tok, err := v.client.VerifyIDToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnauthenticated, err)
	}
	if tok.UID == "" {
		return nil, fmt.Errorf("%w: token has no uid", domain.ErrUnauthenticated)
	}
	identity := &domain.Identity{ExternalID: tok.UID}
	if email, ok := tok.Claims["email"].(string); ok {
		identity.Email = email
	}
	if name, ok := tok.Claims["name"].(string); ok {
		identity.DisplayName = name
	}
	return identity, nil
}
