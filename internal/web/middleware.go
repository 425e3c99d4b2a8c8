// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package web

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/samber/oops"

	"github.com/natours/identity/internal/auth"
	"github.com/natours/identity/internal/authz"
)

// recoverer turns a handler panic into a rendered internal error.
func (h *Handler) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel compared as recover() value
				panic(rec)
			}
			h.fail(w, r, oops.Code("HTTP_PANIC").
				With("panic", fmt.Sprint(rec)).
				With("stack", string(debug.Stack())).
				Errorf("handler panicked"))
		}()
		next.ServeHTTP(w, r)
	})
}

// accessLog logs one line per request and counts it.
func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := h.now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.metrics.HTTPRequest(r.Method, status)
		h.logger.InfoContext(r.Context(), "http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", h.now().Sub(start).String(),
			"remote", r.RemoteAddr,
		)
	})
}

// bodyLimit caps request bodies.
func (h *Handler) bodyLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, h.cfg.BodyLimit)
		}
		next.ServeHTTP(w, r)
	})
}

// apiOnly applies mw to /api paths and passes everything else through.
func apiOnly(mw func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		wrapped := mw(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.HasPrefix(r.URL.Path, "/api") {
				wrapped.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requestContext attaches a fresh RequestContext.
func (h *Handler) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := newRequestContext(r, h.transport)
		next.ServeHTTP(w, r.WithContext(withRequestContext(r.Context(), rc)))
	})
}

// identify is the soft authentication gate. It resolves the presented
// token when there is one and records the outcome, but never rejects.
func (h *Handler) identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := FromContext(r.Context())
		if rc.TokenCandidate != "" {
			p, err := h.auth.Authenticate(r.Context(), rc.TokenCandidate)
			if err != nil {
				rc.AuthFailure = err
			} else {
				rc.Identity = p
			}
		}
		next.ServeHTTP(w, r)
	})
}

// protect is the hard authentication gate: anonymous requests are rejected
// with the reason the soft gate recorded.
func (h *Handler) protect(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rc := FromContext(r.Context())
		if rc.Identity == nil {
			err := rc.AuthFailure
			if err == nil {
				err = auth.NoTokenError()
			}
			h.fail(w, r, err)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// requireRole admits only identities holding one of roles.
func (h *Handler) requireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := authz.RequireRole(FromContext(r.Context()).Identity, roles...); err != nil {
				h.fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// permit admits only identities whose role grants permission.
func (h *Handler) permit(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := h.policy.Require(FromContext(r.Context()).Identity, permission); err != nil {
				h.fail(w, r, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
