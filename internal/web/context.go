// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package web

import (
	"context"
	"net/http"

	"github.com/natours/identity/internal/auth"
	"github.com/natours/identity/internal/csrf"
	"github.com/natours/identity/internal/session"
)

// RequestContext is what the middleware chain learns about a request.
type RequestContext struct {
	// TokenCandidate is the raw bearer token from the Authorization header
	// or, failing that, the jwt cookie. Empty when neither is present.
	TokenCandidate string
	// CSRFCandidate is the anti-forgery echo from the X-CSRF-Token header
	// or the _csrf form field. Read on demand by the CSRF guard, so it stays
	// empty on safe requests.
	CSRFCandidate string
	// Identity is the authenticated principal, nil for anonymous requests.
	Identity *auth.Principal
	// Secure reports whether the connection is transport-encrypted.
	Secure bool
	// AuthFailure explains why a presented token did not authenticate.
	AuthFailure error
}

type rcKey struct{}

// FromContext returns the request's RequestContext. Never nil inside the
// router; outside it an empty value is returned.
func FromContext(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(rcKey{}).(*RequestContext); ok {
		return rc
	}
	return &RequestContext{}
}

func withRequestContext(ctx context.Context, rc *RequestContext) context.Context {
	return context.WithValue(ctx, rcKey{}, rc)
}

func newRequestContext(r *http.Request, transport *session.Transport) *RequestContext {
	return &RequestContext{
		TokenCandidate: session.TokenCandidate(r),
		Secure:         transport.IsEncrypted(r),
	}
}

// csrfCandidate records the request's CSRF echo in its RequestContext.
// The form field is parsed here, after the body limit applies.
func csrfCandidate(r *http.Request) string {
	rc := FromContext(r.Context())
	if rc.CSRFCandidate == "" {
		rc.CSRFCandidate = csrf.Candidate(r)
	}
	return rc.CSRFCandidate
}
