// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package session

import (
	"crypto/tls"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natours/identity/pkg/errutil"
)

func findCookie(t *testing.T, rec *httptest.ResponseRecorder, name string) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("cookie %s not set", name)
	return nil
}

func TestParseSecureMode(t *testing.T) {
	for in, want := range map[string]SecureMode{"": SecureAuto, "AUTO": SecureAuto, "always": SecureAlways, " never ": SecureNever} {
		got, err := ParseSecureMode(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseSecureMode("sometimes")
	errutil.AssertErrorCode(t, err, "SESSION_INVALID_CONFIG")
}

func TestTransport_AttachAttributes(t *testing.T) {
	tr := NewTransport(90*24*time.Hour, SecureAuto, false)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/users/login", nil)
	rec := httptest.NewRecorder()

	tr.Attach(rec, req, "signed.jwt.value")

	c := findCookie(t, rec, CookieName)
	assert.Equal(t, "signed.jwt.value", c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, http.SameSiteLaxMode, c.SameSite)
	assert.Equal(t, 90*24*60*60, c.MaxAge)
	assert.False(t, c.Secure, "plain http request in auto mode")
	assert.Equal(t, "/", c.Path)
}

func TestTransport_EmptyTokenClears(t *testing.T) {
	tr := NewTransport(time.Hour, SecureAuto, false)
	rec := httptest.NewRecorder()
	tr.Attach(rec, httptest.NewRequest(http.MethodGet, "/", nil), "")

	c := findCookie(t, rec, CookieName)
	assert.Empty(t, c.Value)
	assert.Equal(t, -1, c.MaxAge)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestTransport_Clear(t *testing.T) {
	tr := NewTransport(time.Hour, SecureAlways, false)
	rec := httptest.NewRecorder()
	tr.Clear(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	c := findCookie(t, rec, CookieName)
	assert.Empty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.True(t, c.Secure)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestTransport_Secure(t *testing.T) {
	tlsReq := httptest.NewRequest(http.MethodGet, "/", nil)
	tlsReq.TLS = &tls.ConnectionState{}

	proxied := httptest.NewRequest(http.MethodGet, "/", nil)
	proxied.Header.Set("X-Forwarded-Proto", "https")

	forwarded := httptest.NewRequest(http.MethodGet, "/", nil)
	forwarded.Header.Set("Forwarded", `for=1.2.3.4;proto="HTTPS", for=5.6.7.8;proto=http`)

	plain := httptest.NewRequest(http.MethodGet, "/", nil)

	tests := []struct {
		name       string
		mode       SecureMode
		trustProxy bool
		req        *http.Request
		want       bool
	}{
		{"auto tls", SecureAuto, false, tlsReq, true},
		{"auto plain", SecureAuto, false, plain, false},
		{"auto proxy header untrusted", SecureAuto, false, proxied, false},
		{"auto proxy header trusted", SecureAuto, true, proxied, true},
		{"auto forwarded trusted", SecureAuto, true, forwarded, true},
		{"always", SecureAlways, false, plain, true},
		{"never", SecureNever, false, tlsReq, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tr := NewTransport(time.Hour, tt.mode, tt.trustProxy)
			assert.Equal(t, tt.want, tr.Secure(tt.req))
		})
	}
}

func TestTransport_IsEncryptedIgnoresCookieMode(t *testing.T) {
	tr := NewTransport(time.Hour, SecureNever, true)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, tr.IsEncrypted(req))
	req.Header.Set("X-Forwarded-Proto", "https")
	assert.True(t, tr.IsEncrypted(req))
	assert.False(t, tr.Secure(req))
}

func TestTokenCandidate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		cookie string
		want   string
	}{
		{"header only", "Bearer abc", "", "abc"},
		{"cookie only", "", "xyz", "xyz"},
		{"header wins", "Bearer abc", "xyz", "abc"},
		{"lowercase scheme", "bearer abc", "", "abc"},
		{"basic auth ignored", "Basic dXNlcjpwYXNz", "xyz", "xyz"},
		{"neither", "", "", ""},
		{"bearer without token", "Bearer", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			if tt.cookie != "" {
				req.AddCookie(&http.Cookie{Name: CookieName, Value: tt.cookie})
			}
			assert.Equal(t, tt.want, TokenCandidate(req))
		})
	}
}
