// internal/domain/models/roles.go
package models

import "strings"

// Role is the single role a user holds. Permissions are derived from it.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleModerator Role = "moderator"
	RoleUser      Role = "user"
)

// AllRoles lists every valid role, most privileged first.
var AllRoles = []Role{RoleAdmin, RoleModerator, RoleUser}

// ParseRole normalizes s and reports whether it names a known role.
func ParseRole(s string) (Role, bool) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	return r, r.Valid()
}

// Valid reports whether r is one of AllRoles.
func (r Role) Valid() bool {
	for _, v := range AllRoles {
		if r == v {
			return true
		}
	}
	return false
}

// Workline is a business unit that scopes resources and access.
type Workline string

const (
	WorklineCybersecurity Workline = "cybersecurity"
	WorklineHosting       Workline = "hosting"
)

// AllWorklines lists every valid workline.
var AllWorklines = []Workline{WorklineCybersecurity, WorklineHosting}

// DefaultWorkline is assigned to accounts registered without worklines.
const DefaultWorkline = WorklineCybersecurity

// ParseWorkline normalizes s and reports whether it names a known workline.
func ParseWorkline(s string) (Workline, bool) {
	w := Workline(strings.ToLower(strings.TrimSpace(s)))
	return w, w.Valid()
}

// Valid reports whether w is one of AllWorklines.
func (w Workline) Valid() bool {
	for _, v := range AllWorklines {
		if w == v {
			return true
		}
	}
	return false
}

// ParseWorklines parses and de-duplicates a list of workline names,
// preserving order. It fails on the first unknown name.
func ParseWorklines(in []string) ([]Workline, bool) {
	out := make([]Workline, 0, len(in))
	seen := make(map[Workline]bool, len(in))
	for _, s := range in {
		w, ok := ParseWorkline(s)
		if !ok {
			return nil, false
		}
		if seen[w] {
			continue
		}
		seen[w] = true
		out = append(out, w)
	}
	return out, true
}

// ContainsWorkline reports whether ws includes w.
func ContainsWorkline(ws []Workline, w Workline) bool {
	for _, v := range ws {
		if v == w {
			return true
		}
	}
	return false
}
