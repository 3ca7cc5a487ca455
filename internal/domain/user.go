package domain

import (
	"context"
	"time"
)

// UserType classifies a user for authorization purposes.
type UserType string

const (
	UserTypeUser  UserType = "USER"
	UserTypeAdmin UserType = "ADMIN"
)

// User represents a guardian or administrator known to the system.
type User struct {
	ID          string
	ExternalID  string
	Email       string
	DisplayName string
	Type        UserType
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewUser returns a new ordinary User for the given external identity.
func NewUser(id, externalID, email, displayName string, now time.Time) *User {
	return &User{
		ID:          id,
		ExternalID:  externalID,
		Email:       email,
		DisplayName: displayName,
		Type:        UserTypeUser,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// TeamRole is a team-assignment tag. It is unrelated to UserType.
type TeamRole string

const (
	TeamFundraising       TeamRole = "TEAM_FUNDRAISING"
	TeamSocialMedia       TeamRole = "TEAM_SOCIAL_MEDIA"
	TeamCoach             TeamRole = "TEAM_COACH"
	TeamEventCoordination TeamRole = "TEAM_EVENT_COORDINATION"
)

// TeamRoles lists every team role in seeding order.
var TeamRoles = []TeamRole{TeamFundraising, TeamSocialMedia, TeamCoach, TeamEventCoordination}

// Valid reports whether r is one of TeamRoles.
func (r TeamRole) Valid() bool {
	for _, known := range TeamRoles {
		if r == known {
			return true
		}
	}
	return false
}

// Role is a stored team role.
type Role struct {
	ID   string
	Name TeamRole
}

// NewRole returns a new Role with the given id and name.
func NewRole(id string, name TeamRole) *Role {
	return &Role{ID: id, Name: name}
}

// UserWithRoles bundles a user with its team roles.
type UserWithRoles struct {
	User  *User
	Roles []TeamRole
}

// UserRepository defines the interface for user storage
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	AssignRole(ctx context.Context, userID, roleID string) error
}

// RoleRepository defines the interface for role storage
type RoleRepository interface {
	// Ensure creates the role if missing. created reports whether a row was inserted.
	Ensure(ctx context.Context, role *Role) (created bool, err error)
	GetByName(ctx context.Context, name TeamRole) (*Role, error)
	ListByUserID(ctx context.Context, userID string) ([]*Role, error)
}

// UserService defines user synchronisation and team-role management.
type UserService interface {
	Sync(ctx context.Context, identity Identity) (*UserWithRoles, bool, error)
	GetMe(ctx context.Context, identity Identity) (*UserWithRoles, error)
	AssignTeamRole(ctx context.Context, identity Identity, userID string, role TeamRole) (*UserWithRoles, error)
	SeedTeamRoles(ctx context.Context) error
}
