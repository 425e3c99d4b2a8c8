// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package session carries bearer tokens between browser and server.
package session

import (
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"
)

// CookieName is the cookie holding the bearer token.
const CookieName = "jwt"

// SecureMode decides the Secure attribute of cookies.
type SecureMode string

// Secure modes.
const (
	// SecureAuto marks cookies Secure when the request arrived over TLS,
	// directly or through a trusted proxy.
	SecureAuto SecureMode = "auto"
	// SecureAlways marks every cookie Secure.
	SecureAlways SecureMode = "always"
	// SecureNever never marks cookies Secure. For plain-HTTP development.
	SecureNever SecureMode = "never"
)

// ParseSecureMode parses a configured mode. Empty means auto.
func ParseSecureMode(s string) (SecureMode, error) {
	switch m := SecureMode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return SecureAuto, nil
	case SecureAuto, SecureAlways, SecureNever:
		return m, nil
	default:
		return "", oops.Code("SESSION_INVALID_CONFIG").
			With("mode", s).
			Errorf("unknown cookie secure mode %q", s)
	}
}

// Transport places the bearer token in the jwt cookie.
type Transport struct {
	ttl        time.Duration
	mode       SecureMode
	trustProxy bool
}

// NewTransport creates a Transport whose cookies live for ttl, matching
// the token validity window. With trustProxy set, X-Forwarded-Proto and
// Forwarded headers count as evidence of TLS.
func NewTransport(ttl time.Duration, mode SecureMode, trustProxy bool) *Transport {
	if mode == "" {
		mode = SecureAuto
	}
	return &Transport{ttl: ttl, mode: mode, trustProxy: trustProxy}
}

// IsEncrypted reports whether r reached the service over TLS.
func (t *Transport) IsEncrypted(r *http.Request) bool {
	if r.TLS != nil {
		return true
	}
	if !t.trustProxy {
		return false
	}
	if proto := forwardedProto(r.Header.Get("Forwarded")); proto != "" {
		return proto == "https"
	}
	return firstValue(r.Header.Get("X-Forwarded-Proto")) == "https"
}

// Secure returns the Secure attribute for cookies set in response to r.
func (t *Transport) Secure(r *http.Request) bool {
	switch t.mode {
	case SecureAlways:
		return true
	case SecureNever:
		return false
	default:
		return t.IsEncrypted(r)
	}
}

// Attach sets the token cookie. An empty token clears the cookie instead.
func (t *Transport) Attach(w http.ResponseWriter, r *http.Request, token string) {
	if token == "" {
		t.Clear(w, r)
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   int(t.ttl.Seconds()),
		Expires:  time.Now().Add(t.ttl),
		HttpOnly: true,
		Secure:   t.Secure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// Clear expires the token cookie immediately.
func (t *Transport) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		HttpOnly: true,
		Secure:   t.Secure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// BearerToken returns the token from an "Authorization: Bearer" header.
func BearerToken(r *http.Request) string {
	scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// TokenCandidate returns the bearer header token, or the cookie token when
// no header is present.
func TokenCandidate(r *http.Request) string {
	if tok := BearerToken(r); tok != "" {
		return tok
	}
	if c, err := r.Cookie(CookieName); err == nil {
		return c.Value
	}
	return ""
}

func forwardedProto(header string) string {
	first, _, _ := strings.Cut(header, ",")
	for _, param := range strings.Split(first, ";") {
		k, v, ok := strings.Cut(strings.TrimSpace(param), "=")
		if ok && strings.EqualFold(k, "proto") {
			return strings.ToLower(strings.Trim(strings.TrimSpace(v), `"`))
		}
	}
	return ""
}

func firstValue(header string) string {
	first, _, _ := strings.Cut(header, ",")
	return strings.ToLower(strings.Trim(strings.TrimSpace(first), `"`))
}
