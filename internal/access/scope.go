package access

import (
	"strings"
	"time"

	"github.com/rakshithjm97/ivms3/internal/domain/activity"
	"github.com/rakshithjm97/ivms3/internal/domain/user"
	"github.com/rakshithjm97/ivms3/internal/identity"
	"github.com/rakshithjm97/ivms3/internal/query"
)

// Principal is the authenticated caller, taken from verified token claims only.
type Principal struct {
	ID    string
	Email string
	Role  user.Role
}

// Filter is what the caller asked for. Empty strings and nil times mean "not filtered".
type Filter struct {
	Group        string
	Email        string
	Product      string
	Project      string
	NatureOfWork string
	Task         string
	From         *time.Time
	To           *time.Time
}

// Scope is the outcome of scoping a request. A denied scope must short-circuit to an empty
// result without reaching storage.
type Scope struct {
	Denied   bool
	Criteria query.Criteria
}

var denied = Scope{Denied: true}

type strategy func(s *Scoper, p Principal, f Filter) (query.Criteria, bool)

// Roles absent from this table are denied.
var strategies = map[user.Role]strategy{
	user.RoleUser:          scopeOwn,
	user.RoleManager:       scopeGroups,
	user.RoleTeamLead:      scopeGroups,
	user.RoleAdmin:         scopeAll,
	user.RoleInternalAdmin: scopeAll,
}

type Scoper struct {
	policy *Policy
}

func NewScoper(p *Policy) *Scoper {
	if p == nil {
		p = DefaultPolicy()
	}
	return &Scoper{policy: p}
}

// Scope builds the criteria a request runs under.
func (s *Scoper) Scope(p Principal, f Filter) Scope {
	strat, ok := strategies[p.Role]
	if !ok {
		return denied
	}

	crit, ok := strat(s, p, f)
	if !ok {
		return denied
	}

	crit = appendIf(crit, activity.FieldProduct, f.Product)
	crit = appendIf(crit, activity.FieldProject, f.Project)
	crit = appendIf(crit, activity.FieldNatureOfWork, f.NatureOfWork)
	crit = appendIf(crit, activity.FieldTask, f.Task)

	if f.From != nil {
		crit = append(crit, query.Gte(activity.FieldSubmittedAt, *f.From))
	}
	if f.To != nil {
		crit = append(crit, query.Lte(activity.FieldSubmittedAt, *f.To))
	}

	return Scope{Criteria: crit}
}

// AllowedGroups lists the groups a group-scoped caller may see. Other roles get nil.
func (s *Scoper) AllowedGroups(p Principal) []string {
	if !p.Role.IsGroupScoped() {
		return nil
	}
	return s.policy.Groups(p.Role, identity.KeyFromEmail(p.Email))
}

// Regular users see only their own rows whatever they asked for.
func scopeOwn(_ *Scoper, p Principal, _ Filter) (query.Criteria, bool) {
	if strings.TrimSpace(p.Email) == "" {
		return nil, false
	}
	return query.Criteria{query.Eq(activity.FieldEmail, p.Email)}, true
}

func scopeGroups(s *Scoper, p Principal, f Filter) (query.Criteria, bool) {
	allowed := s.AllowedGroups(p)
	if len(allowed) == 0 {
		return nil, false
	}

	crit := query.Criteria{query.In(activity.FieldPod, allowed)}

	if g := strings.TrimSpace(f.Group); g != "" {
		if !contains(allowed, g) {
			return nil, false
		}
		crit = append(crit, query.Eq(activity.FieldPod, g))
	}

	return appendIf(crit, activity.FieldEmail, f.Email), true
}

func scopeAll(_ *Scoper, _ Principal, f Filter) (query.Criteria, bool) {
	var crit query.Criteria
	crit = appendIf(crit, activity.FieldPod, f.Group)
	return appendIf(crit, activity.FieldEmail, f.Email), true
}

func appendIf(c query.Criteria, field query.Field, v string) query.Criteria {
	if v = strings.TrimSpace(v); v == "" {
		return c
	}
	return append(c, query.Eq(field, v))
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
