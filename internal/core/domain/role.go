package domain

import "strings"

// Role is the closed set of account roles.
type Role int

const (
	RoleStaff    Role = 1
	RoleLecturer Role = 2
	RoleAdmin    Role = 3
)

const (
	LabelStaff    = "Staff"
	LabelLecturer = "Lecturer"
	LabelAdmin    = "Admin"
)

// RoleFromCode resolves a stored role code. Codes other than 1 and 2 resolve to Admin.
func RoleFromCode(code int) Role {
	switch code {
	case int(RoleStaff):
		return RoleStaff
	case int(RoleLecturer):
		return RoleLecturer
	default:
		return RoleAdmin
	}
}

// Code returns the numeric code persisted for the role.
func (r Role) Code() int {
	return int(r)
}

// RoleLabels maps roles to the labels carried in token claims. Only the Admin
// label is configurable.
type RoleLabels struct {
	Admin string
}

// NewRoleLabels returns labels with the given admin label, falling back to "Admin".
func NewRoleLabels(adminLabel string) RoleLabels {
	adminLabel = strings.TrimSpace(adminLabel)
	if adminLabel == "" {
		adminLabel = LabelAdmin
	}
	return RoleLabels{Admin: adminLabel}
}

// Label returns the display label of r.
func (l RoleLabels) Label(r Role) string {
	switch r {
	case RoleStaff:
		return LabelStaff
	case RoleLecturer:
		return LabelLecturer
	default:
		if l.Admin == "" {
			return LabelAdmin
		}
		return l.Admin
	}
}

// Parse is the inverse of Label.
func (l RoleLabels) Parse(label string) (Role, bool) {
	switch label {
	case LabelStaff:
		return RoleStaff, true
	case LabelLecturer:
		return RoleLecturer, true
	case l.Label(RoleAdmin):
		return RoleAdmin, true
	}
	return 0, false
}
