package user

import "strings"

// Role is the closed set of roles a token can carry.
type Role string

const (
	RoleUnknown       Role = ""
	RoleAdmin         Role = "Admin"
	RoleInternalAdmin Role = "Internal Admin"
	RoleManager       Role = "Manager"
	RoleTeamLead      Role = "Team Lead"
	RoleUser          Role = "User"
)

var knownRoles = map[string]Role{
	"admin":          RoleAdmin,
	"internal admin": RoleInternalAdmin,
	"manager":        RoleManager,
	"team lead":      RoleTeamLead,
	"user":           RoleUser,
}

// ParseRole maps a stored or claimed role string onto the enum.
// Anything it does not recognise becomes RoleUnknown.
func ParseRole(s string) Role {
	r, ok := knownRoles[strings.ToLower(strings.TrimSpace(s))]
	if !ok {
		return RoleUnknown
	}
	return r
}

func (r Role) String() string {
	if r == RoleUnknown {
		return "unknown"
	}
	return string(r)
}

// IsElevated reports roles that see every group.
func (r Role) IsElevated() bool {
	return r == RoleAdmin || r == RoleInternalAdmin
}

// IsGroupScoped reports roles whose visibility comes from the access policy table.
func (r Role) IsGroupScoped() bool {
	return r == RoleManager || r == RoleTeamLead
}
