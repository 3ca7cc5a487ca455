package domain

import "context"

// Identity is the verified caller identity attached to a request by the identity provider.
// ExternalID is the provider's subject; an empty ExternalID means the caller is anonymous.
type Identity struct {
	ExternalID  string
	Email       string
	DisplayName string
}

// IdentityVerifier verifies a bearer token issued by the external identity provider.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (*Identity, error)
}

// Capability is a privileged action a user may be allowed to perform.
type Capability int

const (
	CapabilityViewRoster Capability = iota + 1
	CapabilityManageRegistrations
	CapabilityManageEvents
	CapabilityViewDashboard
	CapabilityAssignRoles
)

var capabilityNames = map[Capability]string{
	CapabilityViewRoster:          "view_roster",
	CapabilityManageRegistrations: "manage_registrations",
	CapabilityManageEvents:        "manage_events",
	CapabilityViewDashboard:       "view_dashboard",
	CapabilityAssignRoles:         "assign_roles",
}

func (c Capability) String() string {
	if name, ok := capabilityNames[c]; ok {
		return name
	}
	return "unknown"
}

var userTypeCapabilities = map[UserType]map[Capability]bool{
	UserTypeAdmin: {
		CapabilityViewRoster:          true,
		CapabilityManageRegistrations: true,
		CapabilityManageEvents:        true,
		CapabilityViewDashboard:       true,
		CapabilityAssignRoles:         true,
	},
	UserTypeUser: {},
}

// Can reports whether the user holds capability c.
func (u *User) Can(c Capability) bool {
	if u == nil {
		return false
	}
	return userTypeCapabilities[u.Type][c]
}

// Authorize returns ErrForbidden unless the user holds capability c.
func Authorize(u *User, c Capability) error {
	if !u.Can(c) {
		return ErrForbidden
	}
	return nil
}
