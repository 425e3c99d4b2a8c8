// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package token signs and verifies the stateless bearer tokens that carry a
// principal's identity between requests.
//
// A token binds a subject, its issue time and the subject's credential
// version under an HMAC signature. Verify never returns an error: every
// failure collapses into a Status so callers make one access decision and
// only use the status to choose a message.
package token
