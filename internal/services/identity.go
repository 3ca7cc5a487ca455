package services

import (
	"context"
	"errors"
	"fmt"

	"youthevents/internal/domain"
)

// resolveUser maps a verified identity onto the stored user. An empty identity is unauthenticated;
// an identity that was never synced yields ErrUserNotFound.
func resolveUser(ctx context.Context, users domain.UserRepository, identity domain.Identity) (*domain.User, error) {
	if identity.ExternalID == "" {
		return nil, domain.ErrUnauthenticated
	}
	u, err := users.GetByExternalID(ctx, identity.ExternalID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

// authorize resolves the caller and checks a capability in one step.
func authorize(ctx context.Context, users domain.UserRepository, identity domain.Identity, c domain.Capability) (*domain.User, error) {
	u, err := resolveUser(ctx, users, identity)
	if err != nil {
		return nil, err
	}
	if err := domain.Authorize(u, c); err != nil {
		return nil, err
	}
	return u, nil
}
