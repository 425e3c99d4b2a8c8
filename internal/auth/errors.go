// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package auth

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicateEmail is returned by repositories when an email is already taken.
var ErrDuplicateEmail = errors.New("duplicate email")

// Operational error codes. Errors carrying one of these codes are safe to
// show to the caller; the HTTP layer maps each to a status code.
const (
	CodeValidation         = "AUTH_VALIDATION"
	CodeInvalidCredentials = "AUTH_INVALID_CREDENTIALS"
	CodeUnauthorized       = "AUTH_UNAUTHORIZED"
	CodeForbidden          = "AUTH_FORBIDDEN"
	CodeNotFound           = "AUTH_NOT_FOUND"
	CodeResetTokenInvalid  = "RESET_TOKEN_INVALID"
	CodeResetTokenExpired  = "RESET_TOKEN_EXPIRED"
	CodeDeliveryFailed     = "RESET_DELIVERY_FAILED"
)

// Reasons attached to CodeUnauthorized errors under the "reason" key.
const (
	ReasonNoToken      = "no_token"
	ReasonInvalidToken = "invalid_token"
	ReasonExpiredToken = "expired_token"
	ReasonSubjectGone  = "subject_gone"
	ReasonStaleToken   = "stale_token"
)
