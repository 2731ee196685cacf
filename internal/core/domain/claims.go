package domain

import "time"

// Claims are the identity facts carried by a verified token.
type Claims struct {
	AccountID int
	Email     string
	Name      string
	Role      Role
	RoleLabel string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// HasRole reports whether c holds one of roles.
func (c Claims) HasRole(roles ...Role) bool {
	for _, r := range roles {
		if c.Role == r {
			return true
		}
	}
	return false
}
