// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package csrf implements the double-submit cookie defence against
// cross-site request forgery.
//
// The guard keeps a signed random value in the _csrf cookie. A state
// changing request must echo that value in the X-CSRF-Token header or the
// _csrf form field. A cross-site page can make the browser send the cookie
// but cannot read it, so it cannot produce the echo.
package csrf

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"time"

	"github.com/samber/oops"
)

// Names of the cookie and the two echo channels.
const (
	CookieName = "_csrf"
	HeaderName = "X-CSRF-Token"
	FormField  = "_csrf"
)

// CodeMismatch is the error code for a missing or wrong echo.
const CodeMismatch = "CSRF_MISMATCH"

const (
	nonceLen  = 16
	sigLen    = sha256.Size
	cookieTTL = 24 * time.Hour
)

// ErrorHandler renders a guard rejection.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type ctxKey struct{}

// Token returns the CSRF token in effect for the request, for embedding in
// pages and API responses. Empty outside the guard.
func Token(ctx context.Context) string {
	tok, _ := ctx.Value(ctxKey{}).(string) //nolint:errcheck // absent means empty
	return tok
}

// Guard issues and checks CSRF tokens.
type Guard struct {
	key       []byte
	secure    func(*http.Request) bool
	candidate func(*http.Request) string
	onError   ErrorHandler
}

// Option configures a Guard.
type Option func(*Guard)

// WithErrorHandler sets how rejections are rendered.
func WithErrorHandler(h ErrorHandler) Option {
	return func(g *Guard) { g.onError = h }
}

// WithSecure sets the function deciding the cookie's Secure attribute.
func WithSecure(secure func(*http.Request) bool) Option {
	return func(g *Guard) { g.secure = secure }
}

// WithCandidate sets how the echoed token is read from an unsafe request.
// Defaults to Candidate.
func WithCandidate(candidate func(*http.Request) string) Option {
	return func(g *Guard) { g.candidate = candidate }
}

// Candidate returns the echoed token from the X-CSRF-Token header or,
// failing that, the _csrf form field.
func Candidate(r *http.Request) string {
	if echo := r.Header.Get(HeaderName); echo != "" {
		return echo
	}
	return r.PostFormValue(FormField)
}

// NewGuard creates a Guard signing tokens with an HMAC key derived from
// secret.
func NewGuard(secret []byte, opts ...Option) (*Guard, error) {
	if len(secret) == 0 {
		return nil, oops.Code("CSRF_INVALID_CONFIG").Errorf("csrf secret is required")
	}
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte("natours csrf v1"))

	g := &Guard{
		key:       mac.Sum(nil),
		secure:    func(r *http.Request) bool { return r.TLS != nil },
		candidate: Candidate,
		onError: func(w http.ResponseWriter, _ *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusForbidden)
		},
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// NewToken returns a fresh signed token.
func (g *Guard) NewToken() (string, error) {
	nonce := make([]byte, nonceLen)
	if _, err := rand.Read(nonce); err != nil {
		return "", oops.Code("CSRF_TOKEN_FAILED").With("operation", "crypto/rand.Read").Wrap(err)
	}
	buf := make([]byte, 0, nonceLen+sigLen)
	buf = append(buf, nonce...)
	buf = append(buf, g.sign(nonce)...)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

func (g *Guard) sign(nonce []byte) []byte {
	mac := hmac.New(sha256.New, g.key)
	mac.Write(nonce)
	return mac.Sum(nil)
}

// wellFormed reports whether tok was issued by this guard.
func (g *Guard) wellFormed(tok string) bool {
	raw, err := base64.RawURLEncoding.DecodeString(tok)
	if err != nil || len(raw) != nonceLen+sigLen {
		return false
	}
	return hmac.Equal(raw[nonceLen:], g.sign(raw[:nonceLen]))
}

// Middleware ensures every request carries a valid CSRF cookie, minting
// one when absent, and rejects unsafe methods whose echo does not match it.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookieTok := ""
		if c, err := r.Cookie(CookieName); err == nil && g.wellFormed(c.Value) {
			cookieTok = c.Value
		}

		if !isSafeMethod(r.Method) {
			echo := g.candidate(r)
			if cookieTok == "" || echo == "" || !hmac.Equal([]byte(echo), []byte(cookieTok)) {
				g.onError(w, r, oops.Code(CodeMismatch).
					With("cookie_present", cookieTok != "").
					With("echo_present", echo != "").
					Errorf("Invalid or missing CSRF token"))
				return
			}
		}

		tok := cookieTok
		if tok == "" {
			fresh, err := g.NewToken()
			if err != nil {
				g.onError(w, r, err)
				return
			}
			tok = fresh
			g.setCookie(w, r, tok)
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, tok)))
	})
}

func (g *Guard) setCookie(w http.ResponseWriter, r *http.Request, tok string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    tok,
		Path:     "/",
		MaxAge:   int(cookieTTL.Seconds()),
		HttpOnly: false, // read by page scripts for the echo
		Secure:   g.secure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

// Rotate replaces the request's CSRF cookie with a fresh token and returns
// it. Called when the session changes hands, so a token planted before
// login is not carried over.
func (g *Guard) Rotate(w http.ResponseWriter, r *http.Request) (string, error) {
	tok, err := g.NewToken()
	if err != nil {
		return "", err
	}
	g.setCookie(w, r, tok)
	return tok, nil
}

// Clear expires the CSRF cookie.
func (g *Guard) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   g.secure(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
