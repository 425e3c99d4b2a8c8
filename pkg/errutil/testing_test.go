// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/natours/identity/pkg/errutil"
)

func TestAssertErrorCode_MatchingCode(t *testing.T) {
	err := oops.Code("RESET_TOKEN_EXPIRED").Errorf("expired")
	errutil.AssertErrorCode(t, err, "RESET_TOKEN_EXPIRED")
}

func TestAssertErrorContext_MatchingKeyValue(t *testing.T) {
	err := oops.With("reason", "stale_token").Errorf("stale")
	errutil.AssertErrorContext(t, err, "reason", "stale_token")
}

func TestAssertUnauthorized_CodeAndReason(t *testing.T) {
	err := oops.Code("AUTH_UNAUTHORIZED").With("reason", "expired_token").Errorf("expired")
	errutil.AssertUnauthorized(t, err, "expired_token")
}

func TestAssertUnauthorized_WrappedError(t *testing.T) {
	inner := oops.Code("AUTH_UNAUTHORIZED").With("reason", "no_token").Errorf("no token")
	errutil.AssertUnauthorized(t, oops.With("path", "/api/v1/users/me").Wrap(inner), "no_token")
}
