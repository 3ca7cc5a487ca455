package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"youthevents/internal/domain"
)

type userService struct {
	userRepo       domain.UserRepository
	roleRepo       domain.RoleRepository
	logger         *slog.Logger
	contextTimeout time.Duration
	now            func() time.Time
	newID          func() string
}

// NewUserService creates a UserService with the given repositories.
func NewUserService(userRepo domain.UserRepository, roleRepo domain.RoleRepository, logger *slog.Logger, timeout time.Duration) domain.UserService {
	return &userService{
		userRepo:       userRepo,
		roleRepo:       roleRepo,
		logger:         logger,
		contextTimeout: timeout,
		now:            time.Now,
		newID:          uuid.NewString,
	}
}

// Sync returns the user for a verified identity, creating it on first sight.
// created reports whether a new user was stored.
func (s *userService) Sync(ctx context.Context, identity domain.Identity) (*domain.UserWithRoles, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if identity.ExternalID == "" {
		return nil, false, domain.ErrUnauthenticated
	}
	u, err := s.userRepo.GetByExternalID(ctx, identity.ExternalID)
	if err == nil {
		out, err := s.withRoles(ctx, u)
		return out, false, err
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, false, fmt.Errorf("get user: %w", err)
	}

	u = domain.NewUser(s.newID(), identity.ExternalID, strings.TrimSpace(identity.Email), strings.TrimSpace(identity.DisplayName), s.now())
	if err := s.userRepo.Create(ctx, u); err != nil {
		if !errors.Is(err, domain.ErrDuplicateExternalID) {
			return nil, false, fmt.Errorf("create user: %w", err)
		}
		// A concurrent sync for the same identity won the insert.
		u, err = s.userRepo.GetByExternalID(ctx, identity.ExternalID)
		if err != nil {
			return nil, false, fmt.Errorf("get user: %w", err)
		}
		out, err := s.withRoles(ctx, u)
		return out, false, err
	}
	s.logger.Info("user created", "user_id", u.ID)
	return &domain.UserWithRoles{User: u, Roles: []domain.TeamRole{}}, true, nil
}

func (s *userService) GetMe(ctx context.Context, identity domain.Identity) (*domain.UserWithRoles, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	u, err := resolveUser(ctx, s.userRepo, identity)
	if err != nil {
		return nil, err
	}
	return s.withRoles(ctx, u)
}

func (s *userService) AssignTeamRole(ctx context.Context, identity domain.Identity, userID string, role domain.TeamRole) (*domain.UserWithRoles, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := authorize(ctx, s.userRepo, identity, domain.CapabilityAssignRoles); err != nil {
		return nil, err
	}
	if !role.Valid() {
		return nil, fmt.Errorf("%w: unknown team role %q", domain.ErrInvalidInput, role)
	}
	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	r, err := s.roleRepo.GetByName(ctx, role)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrRoleNotFound
		}
		return nil, fmt.Errorf("get role: %w", err)
	}
	if err := s.userRepo.AssignRole(ctx, target.ID, r.ID); err != nil {
		return nil, fmt.Errorf("assign role: %w", err)
	}
	return s.withRoles(ctx, target)
}

// SeedTeamRoles makes sure every team role exists. It is safe to run on every start.
func (s *userService) SeedTeamRoles(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	for _, name := range domain.TeamRoles {
		created, err := s.roleRepo.Ensure(ctx, domain.NewRole(s.newID(), name))
		if err != nil {
			return fmt.Errorf("seed role %s: %w", name, err)
		}
		if created {
			s.logger.Info("team role created", "role", string(name))
		}
	}
	return nil
}

func (s *userService) withRoles(ctx context.Context, u *domain.User) (*domain.UserWithRoles, error) {
	roles, err := s.roleRepo.ListByUserID(ctx, u.ID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	names := make([]domain.TeamRole, 0, len(roles))
	for _, r := range roles {
		names = append(names, r.Name)
	}
	return &domain.UserWithRoles{User: u, Roles: names}, nil
}
