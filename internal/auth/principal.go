// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package auth

import (
	"context"
	"net/mail"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
)

// MinPasswordLength is the shortest accepted password.
const MinPasswordLength = 8

// PasswordChangeBackdate is subtracted from the change instant when recording
// PasswordChangedAt, so a token issued in the same second as the change is
// not judged stale against it.
const PasswordChangeBackdate = time.Second

// Principal is a stored identity subject to authentication.
type Principal struct {
	ID                ulid.ULID
	Name              string
	Email             string
	PasswordHash      string
	Role              Role
	PasswordChangedAt *time.Time
	// CredentialVersion increases by one on every password change.
	CredentialVersion int
	ResetTicket       *ResetTicketDigest
	Active            bool
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// ResetTicketDigest is the persisted half of a reset ticket. Digest and
// expiry only ever travel together; a nil *ResetTicketDigest means no reset
// is pending.
type ResetTicketDigest struct {
	Hash      string
	ExpiresAt time.Time
}

// ExpiredAt reports whether the ticket is past its expiry at t.
func (d *ResetTicketDigest) ExpiredAt(t time.Time) bool {
	return t.After(d.ExpiresAt)
}

// NewPrincipal creates a validated, active Principal. passwordHash must
// already be hashed.
func NewPrincipal(name, email, passwordHash string, role Role, now time.Time) (*Principal, error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if passwordHash == "" {
		return nil, oops.Code("PRINCIPAL_INVALID_HASH").Errorf("password hash cannot be empty")
	}
	if role == "" {
		role = DefaultRole
	}
	if !role.Valid() {
		return nil, oops.Code(CodeValidation).
			With("field", "role").
			Errorf("A user must have an appropriate role")
	}

	return &Principal{
		ID:           ulid.Make(),
		Name:         strings.TrimSpace(name),
		Email:        normalized,
		PasswordHash: passwordHash,
		Role:         role,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}, nil
}

// ChangedPasswordAfter reports whether the password was changed at or after
// the given token issue time. Comparison is in whole epoch seconds.
func (p *Principal) ChangedPasswordAfter(issuedAt time.Time) bool {
	return p.PasswordChangedAt != nil && p.PasswordChangedAt.Unix() >= issuedAt.Unix()
}

// IsStale reports whether a token issued at issuedAt carrying the given
// credential version predates this principal's latest password change.
func (p *Principal) IsStale(issuedAt time.Time, credentialVersion int) bool {
	if p.ChangedPasswordAfter(issuedAt) {
		return true
	}
	return credentialVersion < p.CredentialVersion
}

// PasswordChangeTime returns the value stored in PasswordChangedAt for a
// change happening at now.
func PasswordChangeTime(now time.Time) time.Time {
	return now.Add(-PasswordChangeBackdate)
}

// NormalizeEmail trims and lower-cases an email after checking it is well-formed.
func NormalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return "", oops.Code(CodeValidation).
			With("field", "email").
			Errorf("A user must have an email")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || !strings.Contains(email[strings.LastIndex(email, "@")+1:], ".") {
		return "", oops.Code(CodeValidation).
			With("field", "email").
			Errorf("Please provide a valid email address")
	}
	return email, nil
}

// ValidateName checks a display name is present.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return oops.Code(CodeValidation).
			With("field", "name").
			Errorf("Please provide a name")
	}
	return nil
}

// ValidateNewPassword checks a new password and its confirmation.
func ValidateNewPassword(password, confirm string) error {
	if password == "" {
		return oops.Code(CodeValidation).
			With("field", "password").
			Errorf("Please provide a password")
	}
	if len(password) < MinPasswordLength {
		return oops.Code(CodeValidation).
			With("field", "password").
			With("min", MinPasswordLength).
			Errorf("Password must be at least %d characters", MinPasswordLength)
	}
	if confirm == "" {
		return oops.Code(CodeValidation).
			With("field", "passwordConfirm").
			Errorf("Please confirm your password")
	}
	if password != confirm {
		return oops.Code(CodeValidation).
			With("field", "passwordConfirm").
			Errorf("The confirmation password must match the password")
	}
	return nil
}

// PrincipalRepository manages principal persistence. Lookups return records
// regardless of the Active flag; callers filter explicitly.
type PrincipalRepository interface {
	// Create stores a new principal. Returns ErrDuplicateEmail if the email is taken.
	Create(ctx context.Context, p *Principal) error

	// GetByID retrieves a principal by ID.
	GetByID(ctx context.Context, id ulid.ULID) (*Principal, error)

	// GetByEmail retrieves a principal by normalized email.
	GetByEmail(ctx context.Context, email string) (*Principal, error)

	// GetByResetTokenHash retrieves the principal holding the given reset digest.
	GetByResetTokenHash(ctx context.Context, hash string) (*Principal, error)

	// UpdatePassword atomically stores a new hash, records changedAt, clears
	// any pending reset ticket, and increments the credential version.
	// Returns the new credential version.
	UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string, changedAt time.Time) (int, error)

	// ResetPassword is UpdatePassword conditioned on ticketHash still being
	// the pending reset digest. Returns ErrNotFound if the ticket was already
	// consumed or replaced, so a ticket works at most once.
	ResetPassword(ctx context.Context, id ulid.ULID, ticketHash, passwordHash string, changedAt time.Time) (int, error)

	// UpgradePasswordHash replaces oldHash with newHash without touching the
	// password change time. No-op if the stored hash is no longer oldHash.
	UpgradePasswordHash(ctx context.Context, id ulid.ULID, oldHash, newHash string) error

	// SetResetTicket stores the digest and expiry together, or clears both when ticket is nil.
	SetResetTicket(ctx context.Context, id ulid.ULID, ticket *ResetTicketDigest) error

	// UpdateProfile updates name and email. Returns ErrDuplicateEmail if the email is taken.
	UpdateProfile(ctx context.Context, id ulid.ULID, name, email string) error

	// SetActive sets the soft-delete flag.
	SetActive(ctx context.Context, id ulid.ULID, active bool) error
}
