// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package auth

import (
	"slices"

	"github.com/samber/oops"
)

// Role is a principal's privilege level.
type Role string

// Known roles, lowest privilege first.
const (
	RoleUser      Role = "user"
	RoleGuide     Role = "guide"
	RoleLeadGuide Role = "lead-guide"
	RoleAdmin     Role = "admin"
)

// DefaultRole is assigned when no role is given at creation.
const DefaultRole = RoleUser

var allRoles = []Role{RoleUser, RoleGuide, RoleLeadGuide, RoleAdmin}

// Roles returns every known role.
func Roles() []Role {
	return slices.Clone(allRoles)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return slices.Contains(allRoles, r)
}

// ParseRole converts s to a Role. An empty string yields DefaultRole.
func ParseRole(s string) (Role, error) {
	if s == "" {
		return DefaultRole, nil
	}
	r := Role(s)
	if !r.Valid() {
		return "", oops.Code(CodeValidation).
			With("field", "role").
			With("role", s).
			Errorf("A user must have an appropriate role")
	}
	return r, nil
}
