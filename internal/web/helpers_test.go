// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package web

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/natours/identity/internal/auth"
	"github.com/natours/identity/internal/auth/authtest"
	"github.com/natours/identity/internal/csrf"
	"github.com/natours/identity/internal/session"
	"github.com/natours/identity/internal/token"
)

const testSecret = "web-test-secret-0123456789abcdef"

type fixture struct {
	repo     *authtest.Repository
	notifier *authtest.Notifier
	clock    *authtest.Clock
	svc      *auth.Service
	h        *Handler
	routes   http.Handler
	csrf     string
}

func newFixture(t *testing.T, mutate ...func(*Config, *Deps)) *fixture {
	t.Helper()
	f := &fixture{
		repo:     authtest.NewRepository(),
		notifier: &authtest.Notifier{},
		clock:    authtest.NewClock(time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)),
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	codec, err := token.NewCodec([]byte(testSecret), 24*time.Hour, token.WithClock(f.clock.Now))
	require.NoError(t, err)
	hasher := auth.NewArgon2idHasher(auth.Argon2Params{Time: 1, Memory: 1024, Threads: 1})
	f.svc, err = auth.NewService(f.repo, hasher, codec, f.notifier,
		auth.WithClock(f.clock.Now), auth.WithLogger(logger))
	require.NoError(t, err)

	cfg := Config{CSRFSecret: []byte(testSecret)}
	deps := Deps{
		Auth:      f.svc,
		Transport: session.NewTransport(24*time.Hour, session.SecureAuto, false),
		Logger:    logger,
	}
	for _, m := range mutate {
		m(&cfg, &deps)
	}
	f.h, err = NewHandler(cfg, deps)
	require.NoError(t, err)
	f.routes = f.h.Routes()

	f.csrf, err = f.h.guard.NewToken()
	require.NoError(t, err)
	return f
}

// createUser stores an active principal and returns it with a valid token.
func (f *fixture) createUser(t *testing.T, email string, role auth.Role) (*auth.Principal, string) {
	t.Helper()
	p, err := f.svc.Create(context.Background(), auth.CreateInput{
		Name:            "Jonas Schmedtmann",
		Email:           email,
		Password:        "pass1234",
		PasswordConfirm: "pass1234",
		Role:            role,
	})
	require.NoError(t, err)
	_, tok, err := f.svc.Login(context.Background(), email, "pass1234")
	require.NoError(t, err)
	return p, tok
}

type request struct {
	method string
	path   string
	body   string
	token  string
	form   bool
	// host overrides the Host header.
	host string
	// noCSRF omits the anti-forgery cookie and echo.
	noCSRF bool
}

func (f *fixture) do(t *testing.T, rq request) *httptest.ResponseRecorder {
	t.Helper()
	var body io.Reader
	if rq.body != "" {
		body = strings.NewReader(rq.body)
	}
	req := httptest.NewRequest(rq.method, rq.path, body)
	if rq.body != "" {
		if rq.form {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		} else {
			req.Header.Set("Content-Type", "application/json")
		}
	}
	if rq.host != "" {
		req.Host = rq.host
	}
	if rq.token != "" {
		req.Header.Set("Authorization", "Bearer "+rq.token)
	}
	if !rq.noCSRF {
		req.AddCookie(&http.Cookie{Name: csrf.CookieName, Value: f.csrf})
		if !rq.form {
			req.Header.Set(csrf.HeaderName, f.csrf)
		}
	}
	rec := httptest.NewRecorder()
	f.routes.ServeHTTP(rec, req)
	return rec
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func cookie(rec *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rec.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}

func httptestRequest(method, path string) *http.Request {
	return httptest.NewRequest(method, path, nil)
}

func serveHandler(h http.Handler, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func serve(f *fixture, req *http.Request) *httptest.ResponseRecorder {
	return serveHandler(f.routes, req)
}

// failInto renders err for a request to path.
func (f *fixture) failInto(path string, err error) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	f.h.fail(rec, httptestRequest(http.MethodGet, path), err)
	return rec
}
