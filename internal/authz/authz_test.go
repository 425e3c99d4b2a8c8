// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natours/identity/internal/auth"
	"github.com/natours/identity/pkg/errutil"
)

func principal(role auth.Role) *auth.Principal {
	return &auth.Principal{Name: "x", Email: "x@example.com", Role: role, Active: true}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		p       *auth.Principal
		allowed []auth.Role
		ok      bool
	}{
		{"admin allowed", principal(auth.RoleAdmin), []auth.Role{auth.RoleAdmin}, true},
		{"regular rejected", principal(auth.RoleUser), []auth.Role{auth.RoleAdmin}, false},
		{"one of several", principal(auth.RoleGuide), []auth.Role{auth.RoleAdmin, auth.RoleLeadGuide, auth.RoleGuide}, true},
		{"absent identity", nil, []auth.Role{auth.RoleUser}, false},
		{"empty allow set", principal(auth.RoleAdmin), nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := RequireRole(tt.p, tt.allowed...)
			if tt.ok {
				require.NoError(t, err)
				return
			}
			errutil.AssertErrorCode(t, err, auth.CodeForbidden)
			assert.Equal(t, "You do not have permission to perform this action", err.Error())
		})
	}
}

func TestPolicy_DefaultRoles(t *testing.T) {
	p := NewPolicy()

	for _, role := range auth.Roles() {
		assert.True(t, p.Allows(role, PermReadSelf), "%s reads self", role)
		assert.True(t, p.Allows(role, PermUpdateSelf), "%s updates self", role)
		assert.True(t, p.Allows(role, PermDeleteSelf), "%s deletes self", role)
	}
	assert.True(t, p.Allows(auth.RoleAdmin, PermReadUsers))
	assert.False(t, p.Allows(auth.RoleLeadGuide, PermReadUsers))
	assert.False(t, p.Allows(auth.RoleUser, PermReadUsers))
	assert.False(t, p.Allows("ghost", PermReadSelf))

	assert.Equal(t, []auth.Role{auth.RoleAdmin}, p.RolesWith(PermReadUsers))
}

func TestPolicy_SegmentSeparator(t *testing.T) {
	p, err := NewPolicyWithRoles(map[auth.Role][]string{auth.RoleGuide: {"users:*"}})
	require.NoError(t, err)
	assert.True(t, p.Allows(auth.RoleGuide, "users:read"))
	assert.False(t, p.Allows(auth.RoleGuide, "users:self:read"), "single star stays within a segment")
}

func TestPolicy_Require(t *testing.T) {
	p := NewPolicy()
	require.NoError(t, p.Require(principal(auth.RoleAdmin), PermReadUsers))

	err := p.Require(principal(auth.RoleUser), PermReadUsers)
	errutil.AssertErrorCode(t, err, auth.CodeForbidden)
	errutil.AssertErrorContext(t, err, "permission", PermReadUsers)

	errutil.AssertErrorCode(t, p.Require(nil, PermReadSelf), auth.CodeForbidden)
}

func TestNewPolicyWithRoles_InvalidPattern(t *testing.T) {
	_, err := NewPolicyWithRoles(map[auth.Role][]string{auth.RoleUser: {"users:[unclosed"}})
	errutil.AssertErrorCode(t, err, "INVALID_PERMISSION_PATTERN")
}
