// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/natours/identity/internal/auth"
	"github.com/natours/identity/internal/csrf"
)

type signupRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

type resetPasswordRequest struct {
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type updatePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

type updateMeRequest struct {
	Name            string `json:"name"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"passwordConfirm"`
}

// baseURL is the origin for links sent by email: the configured public
// URL, or else the origin the client used to reach us.
func (h *Handler) baseURL(r *http.Request) string {
	if h.cfg.PublicURL != "" {
		return h.cfg.PublicURL
	}
	scheme := "http"
	if FromContext(r.Context()).Secure {
		scheme = "https"
	}
	return scheme + "://" + r.Host
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	p, tok, err := h.auth.Signup(r.Context(), auth.CreateInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
	}, h.baseURL(r)+"/account")
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.transport.Attach(w, r, tok)
	h.writeJSON(w, r, http.StatusCreated, envelope{
		"status": "success",
		"token":  tok,
		"data":   envelope{"user": viewOf(p)},
	})
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	p, tok, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	csrfTok, err := h.guard.Rotate(w, r)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.transport.Attach(w, r, tok)
	h.writeJSON(w, r, http.StatusOK, envelope{
		"status":    "success",
		"token":     tok,
		"csrfToken": csrfTok,
		"data":      envelope{"user": viewOf(p)},
	})
}

func (h *Handler) clearSession(w http.ResponseWriter, r *http.Request) {
	h.transport.Clear(w, r)
	h.guard.Clear(w, r)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	h.clearSession(w, r)
	h.writeJSON(w, r, http.StatusOK, envelope{"status": "success"})
}

func (h *Handler) forgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	base := h.baseURL(r)
	_, err := h.auth.BeginPasswordReset(r.Context(), req.Email, func(ticket string) string {
		return base + "/api/v1/users/reset-password/" + ticket
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, envelope{
		"status":  "success",
		"message": "Token sent to email",
	})
}

func (h *Handler) resetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	_, tok, err := h.auth.ConsumePasswordReset(r.Context(), chi.URLParam(r, "token"), req.Password, req.PasswordConfirm)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.transport.Attach(w, r, tok)
	h.writeJSON(w, r, http.StatusOK, envelope{"status": "success", "token": tok})
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	var req updatePasswordRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	id := FromContext(r.Context()).Identity.ID
	tok, err := h.auth.ChangePassword(r.Context(), id, req.CurrentPassword, req.Password, req.PasswordConfirm)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.transport.Attach(w, r, tok)
	h.writeJSON(w, r, http.StatusOK, envelope{"status": "success", "token": tok})
}

func (h *Handler) getMe(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, envelope{
		"status": "success",
		"data":   envelope{"user": viewOf(FromContext(r.Context()).Identity)},
	})
}

func (h *Handler) updateMe(w http.ResponseWriter, r *http.Request) {
	var req updateMeRequest
	if err := decodeBody(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if req.Password != "" || req.PasswordConfirm != "" {
		h.fail(w, r, oops.Code(auth.CodeValidation).
			With("field", "password").
			Errorf("This route is not for updating passwords. Please use /update-my-password"))
		return
	}

	p, err := h.auth.UpdateProfile(r.Context(), FromContext(r.Context()).Identity.ID, req.Name, req.Email)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, envelope{
		"status": "success",
		"data":   envelope{"user": viewOf(p)},
	})
}

func (h *Handler) deleteMe(w http.ResponseWriter, r *http.Request) {
	if err := h.auth.Deactivate(r.Context(), FromContext(r.Context()).Identity.ID); err != nil {
		h.fail(w, r, err)
		return
	}
	h.transport.Clear(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) getUser(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := ulid.ParseStrict(raw)
	if err != nil {
		h.fail(w, r, oops.Code(auth.CodeValidation).With("field", "id").Errorf("Invalid id: %s", raw))
		return
	}

	p, err := h.auth.GetPrincipal(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, envelope{
		"status": "success",
		"data":   envelope{"user": viewOf(p)},
	})
}

func (h *Handler) csrfToken(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, r, http.StatusOK, envelope{
		"status":    "success",
		"csrfToken": csrf.Token(r.Context()),
	})
}
