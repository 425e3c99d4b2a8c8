// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package web

import (
	"net/http"

	"github.com/samber/oops"
)

func (h *Handler) overviewPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "overview", pageData{Title: "Welcome"})
}

func (h *Handler) accountPage(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "account", pageData{Title: "Your account"})
}

func (h *Handler) logoutPage(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}

func (h *Handler) notFound(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, oops.Code(CodeRouteNotFound).Errorf("Can't find %s on this server!", r.URL.RequestURI()))
}

func (h *Handler) methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	h.fail(w, r, oops.Code(CodeMethodNotAllowed).
		With("method", r.Method).
		Errorf("Method %s is not allowed on %s", r.Method, r.URL.Path))
}
