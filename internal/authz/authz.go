// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package authz decides whether an authenticated principal may perform an
// operation.
package authz

import (
	"slices"

	"github.com/gobwas/glob"
	"github.com/samber/oops"

	"github.com/natours/identity/internal/auth"
)

const forbiddenMessage = "You do not have permission to perform this action"

// RequireRole fails with auth.CodeForbidden unless p is present and holds
// one of allowed. It never inspects anything but the role.
func RequireRole(p *auth.Principal, allowed ...auth.Role) error {
	if p == nil {
		return oops.Code(auth.CodeForbidden).Errorf(forbiddenMessage)
	}
	if !slices.Contains(allowed, p.Role) {
		return oops.Code(auth.CodeForbidden).
			With("role", string(p.Role)).
			Errorf(forbiddenMessage)
	}
	return nil
}

// Permissions used by the HTTP surface. Segments are separated by ':'.
const (
	PermReadSelf   = "users:self:read"
	PermUpdateSelf = "users:self:update"
	PermDeleteSelf = "users:self:delete"
	PermReadUsers  = "users:read"
)

// DefaultRoles maps each role to its permission patterns. "**" matches
// across segments.
func DefaultRoles() map[auth.Role][]string {
	self := []string{"users:self:*"}
	return map[auth.Role][]string{
		auth.RoleUser:      self,
		auth.RoleGuide:     self,
		auth.RoleLeadGuide: self,
		auth.RoleAdmin:     {"**"},
	}
}

type compiledPermission struct {
	pattern string
	glob    glob.Glob
}

// Policy grants permissions to roles using glob patterns.
// It is immutable after construction.
type Policy struct {
	roles map[auth.Role][]compiledPermission
}

// NewPolicy compiles DefaultRoles.
//
// Panics if a default pattern does not compile.
func NewPolicy() *Policy {
	p, err := NewPolicyWithRoles(DefaultRoles())
	if err != nil {
		panic("invalid permission pattern in DefaultRoles: " + err.Error())
	}
	return p
}

// NewPolicyWithRoles compiles a custom role table.
func NewPolicyWithRoles(roles map[auth.Role][]string) (*Policy, error) {
	compiled := make(map[auth.Role][]compiledPermission, len(roles))
	for role, patterns := range roles {
		perms := make([]compiledPermission, 0, len(patterns))
		for _, pattern := range patterns {
			g, err := glob.Compile(pattern, ':')
			if err != nil {
				return nil, oops.In("authz").
					Code("INVALID_PERMISSION_PATTERN").
					With("role", string(role)).
					With("pattern", pattern).
					Wrap(err)
			}
			perms = append(perms, compiledPermission{pattern: pattern, glob: g})
		}
		compiled[role] = perms
	}
	return &Policy{roles: compiled}, nil
}

// Allows reports whether role grants permission.
func (p *Policy) Allows(role auth.Role, permission string) bool {
	for _, perm := range p.roles[role] {
		if perm.glob.Match(permission) {
			return true
		}
	}
	return false
}

// Require fails with auth.CodeForbidden unless principal's role grants
// permission.
func (p *Policy) Require(principal *auth.Principal, permission string) error {
	if principal == nil {
		return oops.Code(auth.CodeForbidden).With("permission", permission).Errorf(forbiddenMessage)
	}
	if !p.Allows(principal.Role, permission) {
		return oops.Code(auth.CodeForbidden).
			With("role", string(principal.Role)).
			With("permission", permission).
			Errorf(forbiddenMessage)
	}
	return nil
}

// RolesWith lists the roles granting permission, in auth.Roles order.
func (p *Policy) RolesWith(permission string) []auth.Role {
	var out []auth.Role
	for _, role := range auth.Roles() {
		if p.Allows(role, permission) {
			out = append(out, role)
		}
	}
	return out
}
