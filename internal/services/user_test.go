package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"youthevents/internal/domain"
)

func newTestUserService(logOut io.Writer, users ...*domain.User) (*userService, *fakeUserRepo, *fakeRoleRepo) {
	userRepo := newFakeUserRepo(users...)
	roleRepo := newFakeRoleRepo(userRepo)
	logger := slog.New(slog.NewTextHandler(logOut, &slog.HandlerOptions{Level: slog.LevelDebug}))
	svc := NewUserService(userRepo, roleRepo, logger, 5*time.Second).(*userService)
	svc.now = func() time.Time { return testNow }
	n := 0
	svc.newID = func() string {
		n++
		return "id-" + strings.Repeat("x", n)
	}
	return svc, userRepo, roleRepo
}

func TestUserService_Sync(t *testing.T) {
	ctx := context.Background()

	t.Run("creates user on first sync", func(t *testing.T) {
		svc, repo, _ := newTestUserService(io.Discard)
		got, created, err := svc.Sync(ctx, domain.Identity{ExternalID: "uid-new", Email: "new@example.com", DisplayName: " New Parent "})
		require.NoError(t, err)
		assert.True(t, created)
		assert.Equal(t, "uid-new", got.User.ExternalID)
		assert.Equal(t, "New Parent", got.User.DisplayName)
		assert.Equal(t, domain.UserTypeUser, got.User.Type)
		assert.Empty(t, got.Roles)
		assert.Len(t, repo.byID, 1)
	})

	t.Run("returns existing user", func(t *testing.T) {
		svc, repo, _ := newTestUserService(io.Discard, admin)
		got, created, err := svc.Sync(ctx, identityOf(admin))
		require.NoError(t, err)
		assert.False(t, created)
		assert.Same(t, admin, got.User)
		assert.Len(t, repo.byID, 1)
	})

	t.Run("unauthenticated", func(t *testing.T) {
		svc, _, _ := newTestUserService(io.Discard)
		_, _, err := svc.Sync(ctx, domain.Identity{})
		require.ErrorIs(t, err, domain.ErrUnauthenticated)
	})

	t.Run("lookup failure", func(t *testing.T) {
		svc, repo, _ := newTestUserService(io.Discard)
		repo.getErr = errDB
		_, _, err := svc.Sync(ctx, domain.Identity{ExternalID: "uid"})
		require.ErrorIs(t, err, errDB)
	})

	t.Run("create failure", func(t *testing.T) {
		svc, repo, _ := newTestUserService(io.Discard)
		repo.createErr = errDB
		_, _, err := svc.Sync(ctx, domain.Identity{ExternalID: "uid"})
		require.ErrorIs(t, err, errDB)
	})
}

func TestUserService_GetMe(t *testing.T) {
	ctx := context.Background()
	svc, repo, roles := newTestUserService(io.Discard, guardian)
	require.NoError(t, svc.SeedTeamRoles(ctx))
	coach, err := roles.GetByName(ctx, domain.TeamCoach)
	require.NoError(t, err)
	require.NoError(t, repo.AssignRole(ctx, guardian.ID, coach.ID))

	got, err := svc.GetMe(ctx, identityOf(guardian))
	require.NoError(t, err)
	assert.Same(t, guardian, got.User)
	assert.Equal(t, []domain.TeamRole{domain.TeamCoach}, got.Roles)

	_, err = svc.GetMe(ctx, domain.Identity{ExternalID: "ghost"})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestUserService_AssignTeamRole(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		identity domain.Identity
		userID   string
		role     domain.TeamRole
		errIs    error
	}{
		{name: "admin assigns", identity: identityOf(admin), userID: guardian.ID, role: domain.TeamSocialMedia},
		{name: "guardian forbidden", identity: identityOf(guardian), userID: guardian.ID, role: domain.TeamCoach, errIs: domain.ErrForbidden},
		{name: "unknown role", identity: identityOf(admin), userID: guardian.ID, role: "TEAM_CATERING", errIs: domain.ErrInvalidInput},
		{name: "unknown user", identity: identityOf(admin), userID: "nobody", role: domain.TeamCoach, errIs: domain.ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestUserService(io.Discard, admin, guardian)
			require.NoError(t, svc.SeedTeamRoles(ctx))

			got, err := svc.AssignTeamRole(ctx, tt.identity, tt.userID, tt.role)
			if tt.errIs != nil {
				require.ErrorIs(t, err, tt.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, guardian.ID, got.User.ID)
			assert.Equal(t, []domain.TeamRole{tt.role}, got.Roles)

			again, err := svc.AssignTeamRole(ctx, tt.identity, tt.userID, tt.role)
			require.NoError(t, err)
			assert.Len(t, again.Roles, 1, "assigning twice keeps a single role")
		})
	}
}

func TestUserService_AssignTeamRole_RoleNotSeeded(t *testing.T) {
	svc, _, _ := newTestUserService(io.Discard, admin, guardian)
	_, err := svc.AssignTeamRole(context.Background(), identityOf(admin), guardian.ID, domain.TeamCoach)
	require.ErrorIs(t, err, domain.ErrRoleNotFound)
}

func TestUserService_SeedTeamRoles(t *testing.T) {
	ctx := context.Background()
	var logs bytes.Buffer
	svc, _, roles := newTestUserService(&logs)

	require.NoError(t, svc.SeedTeamRoles(ctx))
	assert.Len(t, roles.byName, len(domain.TeamRoles))
	for _, r := range domain.TeamRoles {
		assert.Contains(t, logs.String(), "role="+string(r))
	}
	assert.Equal(t, len(domain.TeamRoles), strings.Count(logs.String(), "team role created"))

	logs.Reset()
	require.NoError(t, svc.SeedTeamRoles(ctx))
	assert.Len(t, roles.byName, len(domain.TeamRoles))
	assert.Empty(t, logs.String(), "existing roles are not logged again")

	roles.ensureErr = errDB
	require.ErrorIs(t, svc.SeedTeamRoles(ctx), errDB)
}
