// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package web

import (
	"net/http"
	"strings"

	"github.com/natours/identity/internal/auth"
	"github.com/natours/identity/internal/csrf"
	"github.com/natours/identity/internal/ratelimit"
	"github.com/natours/identity/pkg/errutil"
)

// Error codes raised by the HTTP layer itself.
const (
	CodeBadRequest       = "HTTP_BAD_REQUEST"
	CodeBodyTooLarge     = "HTTP_BODY_TOO_LARGE"
	CodeRouteNotFound    = "HTTP_NOT_FOUND"
	CodeMethodNotAllowed = "HTTP_METHOD_NOT_ALLOWED"
)

// Generic texts for non-operational failures.
const (
	internalAPIMessage  = "Something went very wrong!"
	internalPageMessage = "Please try again later"
)

// operationalStatus maps each operational error code to its status code.
// Codes absent from the table are internal faults.
var operationalStatus = map[string]int{
	auth.CodeValidation:         http.StatusBadRequest,
	auth.CodeInvalidCredentials: http.StatusUnauthorized,
	auth.CodeUnauthorized:       http.StatusUnauthorized,
	auth.CodeForbidden:          http.StatusForbidden,
	auth.CodeNotFound:           http.StatusNotFound,
	auth.CodeResetTokenInvalid:  http.StatusBadRequest,
	auth.CodeResetTokenExpired:  http.StatusBadRequest,
	auth.CodeDeliveryFailed:     http.StatusInternalServerError,
	csrf.CodeMismatch:           http.StatusForbidden,
	ratelimit.CodeLimited:       http.StatusTooManyRequests,
	CodeBadRequest:              http.StatusBadRequest,
	CodeBodyTooLarge:            http.StatusRequestEntityTooLarge,
	CodeRouteNotFound:           http.StatusNotFound,
	CodeMethodNotAllowed:        http.StatusMethodNotAllowed,
}

// Classify returns the status code for err and whether its message may be
// shown to the caller.
func Classify(err error) (status int, operational bool) {
	if status, ok := operationalStatus[errutil.Code(err)]; ok {
		return status, true
	}
	return http.StatusInternalServerError, false
}

// statusWord is "fail" for client errors and "error" for server errors.
func statusWord(status int) string {
	if status >= http.StatusInternalServerError {
		return "error"
	}
	return "fail"
}

func isAPIRequest(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api")
}

// fail renders err as JSON on /api paths and as the HTML error page
// everywhere else. Internal faults are logged and their detail withheld.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, operational := Classify(err)
	if !operational {
		errutil.LogErrorContext(r.Context(), h.logger, "request failed", err)
	}

	if isAPIRequest(r) {
		msg := internalAPIMessage
		if operational {
			msg = errutil.PublicMessage(err)
		}
		h.writeJSON(w, r, status, envelope{"status": statusWord(status), "message": msg})
		return
	}

	msg := internalPageMessage
	if operational {
		msg = errutil.PublicMessage(err)
	}
	h.render(w, r, status, "error", pageData{Title: "Something went wrong!", Message: msg})
}
