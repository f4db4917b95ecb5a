// Package access decides which activity rows a caller may see. A Policy maps group-scoped
// roles and identity keys onto access groups (PODs); the Scoper turns a caller and their
// requested filter into query criteria or a denial.
package access

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rakshithjm97/ivms3/internal/domain/user"
	"github.com/rakshithjm97/ivms3/internal/identity"
)

// Policy is read-only after construction.
type Policy struct {
	groups map[user.Role]map[string][]string
}

// DefaultPolicy is the built-in POD assignment.
func DefaultPolicy() *Policy {
	return &Policy{groups: map[user.Role]map[string][]string{
		user.RoleManager: {
			"manager1": {"POD-1 (Aryabhatta)", "POD-2 (Crawlers)"},
			"manager2": {"POD-3 (Marte)", "POD-4 (Gaganyan)"},
			"manager3": {"POD-5 (Swift)", "POD-6 (Imagery)"},
		},
		user.RoleTeamLead: {
			"team_lead1": {"POD-1 (Aryabhatta)"},
			"team_lead2": {"POD-2 (Crawlers)"},
			"team_lead3": {"POD-3 (Marte)"},
			"team_lead4": {"POD-4 (Gaganyan)"},
			"team_lead5": {"POD-5 (Swift)"},
			"team_lead6": {"POD-6 (Imagery)"},
		},
	}}
}

// NewPolicy builds a policy from role name → identity key → groups.
func NewPolicy(raw map[string]map[string][]string) (*Policy, error) {
	p := &Policy{groups: make(map[user.Role]map[string][]string, len(raw))}

	for roleName, entries := range raw {
		role := user.ParseRole(roleName)
		if !role.IsGroupScoped() {
			return nil, fmt.Errorf("access policy: role %q cannot be assigned groups", roleName)
		}

		m := make(map[string][]string, len(entries))
		for key, groups := range entries {
			k := identity.KeyFromEmail(key)
			if k == "" {
				return nil, fmt.Errorf("access policy: empty identity key under %q", roleName)
			}
			m[k] = append([]string(nil), groups...)
		}
		p.groups[role] = m
	}

	return p, nil
}

// LoadPolicy reads a JSON policy file. An empty path yields the default policy.
func LoadPolicy(path string) (*Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read access policy: %w", err)
	}

	var raw map[string]map[string][]string
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("decode access policy: %w", err)
	}

	return NewPolicy(raw)
}

// Groups returns a copy of the groups assigned to (role, key). Missing entries yield nil.
func (p *Policy) Groups(role user.Role, key string) []string {
	if p == nil {
		return nil
	}
	g := p.groups[role][key]
	if len(g) == 0 {
		return nil
	}
	return append([]string(nil), g...)
}
