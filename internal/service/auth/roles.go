package auth

import "strings"

// Role is a coarse permission level granted by the identity provider.
type Role string

// Known roles
const (
	RoleAdmin          Role = "Admin"
	RoleProjectManager Role = "ProjectManager"
	RoleTeamMember     Role = "TeamMember"
)

// ParseRole resolves a role name, ignoring case. Unknown names return false.
func ParseRole(name string) (Role, bool) {
	for _, r := range []Role{RoleAdmin, RoleProjectManager, RoleTeamMember} {
		if strings.EqualFold(string(r), strings.TrimSpace(name)) {
			return r, true
		}
	}
	return "", false
}

// Policy names a set of roles allowed to perform an operation.
type Policy struct {
	Name  string
	Roles []Role
}

// Authorization policies
var (
	TeamMemberOrHigher = Policy{
		Name:  "TeamMemberOrHigher",
		Roles: []Role{RoleTeamMember, RoleProjectManager, RoleAdmin},
	}
	ProjectManagerOrAdmin = Policy{
		Name:  "ProjectManagerOrAdmin",
		Roles: []Role{RoleProjectManager, RoleAdmin},
	}
	AdminOnly = Policy{
		Name:  "AdminOnly",
		Roles: []Role{RoleAdmin},
	}
)

// Allows reports whether any of the given roles satisfies the policy.
func (p Policy) Allows(roles []Role) bool {
	for _, have := range roles {
		for _, want := range p.Roles {
			if have == want {
				return true
			}
		}
	}
	return false
}
