package session

import (
	"strings"
	"time"
)

// Role is the closed set of portal roles.
// The zero value is RoleStudent, the most restrictive one.
type Role int

const (
	RoleStudent Role = iota
	RoleParent
	RoleTeacher
	RoleAccountant
	RoleHR
	RoleAdmin

	roleCount

	// Unauthenticated is returned by CurrentRole when there is no session.
	Unauthenticated Role = -1
)

var roleNames = [...]string{
	RoleStudent:    "student",
	RoleParent:     "parent",
	RoleTeacher:    "teacher",
	RoleAccountant: "accountant",
	RoleHR:         "hr",
	RoleAdmin:      "admin",
}

// NumRoles is the number of portal roles; tables indexed by Role must have this length.
const NumRoles = int(roleCount)

// every Role must have a name
var _ = [1]struct{}{}[len(roleNames)-NumRoles]

// Roles lists every role, least privileged first.
func Roles() []Role {
	roles := make([]Role, 0, roleCount)
	for r := RoleStudent; r < roleCount; r++ {
		roles = append(roles, r)
	}
	return roles
}

// ParseRole maps a backend role value to a Role.
// Unknown or empty values fall back to RoleStudent and ok is false.
func ParseRole(s string) (role Role, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, name := range roleNames {
		if name == s {
			return Role(i), true
		}
	}
	return RoleStudent, false
}

func (r Role) String() string {
	if r >= 0 && r < roleCount {
		return roleNames[r]
	}
	return "anonymous"
}

// Valid reports whether r is one of the portal roles.
func (r Role) Valid() bool { return r >= 0 && r < roleCount }

func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	*r, _ = ParseRole(string(text))
	return nil
}

// Identity is the authenticated user as reported by the backend on login.
type Identity struct {
	UserID   string
	FullName string
	Role     string
}

// Session holds the authenticated identity and the backend token for one browser.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	FullName  string    `json:"full_name"`
	Role      Role      `json:"role"`
	RawRole   string    `json:"raw_role"` // as sent by the backend
	Token     string    `json:"token"`
	CreatedAt time.Time `json:"created_at"` // UTC
	ExpiresAt time.Time `json:"expires_at"` // UTC
}

func (s Session) IsZero() bool { return s.ID == "" }

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}
