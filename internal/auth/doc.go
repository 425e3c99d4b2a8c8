// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package auth owns principals and their credentials.
//
// # Domain Types
//
// A Principal is created through NewPrincipal, which validates the name,
// email and role. Passwords reach the repository only as hashes produced by
// a PasswordHasher. A pending password reset is a ResetTicketDigest; the
// plaintext ticket is mailed and never stored.
//
// # Service
//
// Service runs the credential lifecycle:
//   - Create, Signup, Login
//   - ChangePassword, BeginPasswordReset, ConsumePasswordReset
//   - Authenticate, which turns a bearer token into an active principal
//   - UpdateProfile, Deactivate, GetPrincipal
//
// Hashing and active-principal filtering are explicit steps in these
// methods. Repositories return records regardless of the Active flag.
//
// # Token staleness
//
// Tokens carry their issue time and the principal's credential version.
// A token is stale when the password was changed in or after the second it
// was issued, or when its credential version is older than the stored one.
// PasswordChangedAt is backdated by PasswordChangeBackdate so the token
// returned by a password change stays valid.
package auth
