// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package postgres stores principals in PostgreSQL.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/natours/identity/internal/auth"
)

// poolIface is the subset of pgxpool.Pool used by the repository, so
// pgxmock can stand in for a database in unit tests.
type poolIface interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const principalColumns = `id, name, email, password_hash, role,
		       password_changed_at, credential_version,
		       password_reset_token_hash, password_reset_expires_at,
		       active, created_at, updated_at`

// PrincipalRepository implements auth.PrincipalRepository using PostgreSQL.
type PrincipalRepository struct {
	pool poolIface
}

var _ auth.PrincipalRepository = (*PrincipalRepository)(nil)

// NewPrincipalRepository creates a new PrincipalRepository.
func NewPrincipalRepository(pool poolIface) *PrincipalRepository {
	return &PrincipalRepository{pool: pool}
}

// IsUniqueViolation reports whether err is a PostgreSQL unique constraint violation.
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}

// Create stores a new principal.
func (r *PrincipalRepository) Create(ctx context.Context, p *auth.Principal) error {
	var resetHash *string
	var resetExpires *time.Time
	if p.ResetTicket != nil {
		resetHash = &p.ResetTicket.Hash
		resetExpires = &p.ResetTicket.ExpiresAt
	}

	_, err := r.pool.Exec(ctx, `
		INSERT INTO principals (
			id, name, email, password_hash, role,
			password_changed_at, credential_version,
			password_reset_token_hash, password_reset_expires_at,
			active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`,
		p.ID.String(),
		p.Name,
		p.Email,
		p.PasswordHash,
		string(p.Role),
		p.PasswordChangedAt,
		p.CredentialVersion,
		resetHash,
		resetExpires,
		p.Active,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return oops.Code("PRINCIPAL_DUPLICATE_EMAIL").
				With("email", p.Email).
				Wrap(auth.ErrDuplicateEmail)
		}
		return oops.Code("PRINCIPAL_CREATE_FAILED").
			With("operation", "insert principal").
			With("email", p.Email).
			Wrap(err)
	}
	return nil
}

// GetByID retrieves a principal by ID.
func (r *PrincipalRepository) GetByID(ctx context.Context, id ulid.ULID) (*auth.Principal, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+principalColumns+`
		FROM principals
		WHERE id = $1
	`, id.String())
	return r.get(row, "id", id.String())
}

// GetByEmail retrieves a principal by normalized email.
func (r *PrincipalRepository) GetByEmail(ctx context.Context, email string) (*auth.Principal, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+principalColumns+`
		FROM principals
		WHERE email = $1
	`, email)
	return r.get(row, "email", email)
}

// GetByResetTokenHash retrieves the principal holding the reset digest.
func (r *PrincipalRepository) GetByResetTokenHash(ctx context.Context, hash string) (*auth.Principal, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+principalColumns+`
		FROM principals
		WHERE password_reset_token_hash = $1
	`, hash)
	// The digest is a credential; keep it out of error context.
	return r.get(row, "lookup", "reset_token_hash")
}

func (r *PrincipalRepository) get(row pgx.Row, key, value string) (*auth.Principal, error) {
	p, err := scanPrincipal(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, oops.Code("PRINCIPAL_NOT_FOUND").
			With(key, value).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return nil, oops.Code("PRINCIPAL_GET_FAILED").
			With("operation", "get principal").
			With(key, value).
			Wrap(err)
	}
	return p, nil
}

// UpdatePassword stores a new hash, records the change time, clears any
// pending reset ticket and bumps the credential version in one statement.
func (r *PrincipalRepository) UpdatePassword(ctx context.Context, id ulid.ULID, passwordHash string, changedAt time.Time) (int, error) {
	var version int
	err := r.pool.QueryRow(ctx, `
		UPDATE principals SET
			password_hash = $2,
			password_changed_at = $3,
			credential_version = credential_version + 1,
			password_reset_token_hash = NULL,
			password_reset_expires_at = NULL,
			updated_at = $4
		WHERE id = $1
		RETURNING credential_version
	`, id.String(), passwordHash, changedAt, time.Now()).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, oops.Code("PRINCIPAL_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return 0, oops.Code("PRINCIPAL_UPDATE_PASSWORD_FAILED").
			With("operation", "update password").
			With("id", id.String()).
			Wrap(err)
	}
	return version, nil
}

// ResetPassword is UpdatePassword conditioned on ticketHash still being the
// pending reset digest. Concurrent consumers of one ticket race on this row;
// exactly one sees a returned version.
func (r *PrincipalRepository) ResetPassword(ctx context.Context, id ulid.ULID, ticketHash, passwordHash string, changedAt time.Time) (int, error) {
	var version int
	err := r.pool.QueryRow(ctx, `
		UPDATE principals SET
			password_hash = $3,
			password_changed_at = $4,
			credential_version = credential_version + 1,
			password_reset_token_hash = NULL,
			password_reset_expires_at = NULL,
			updated_at = $5
		WHERE id = $1 AND password_reset_token_hash = $2
		RETURNING credential_version
	`, id.String(), ticketHash, passwordHash, changedAt, time.Now()).Scan(&version)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, oops.Code("RESET_TICKET_NOT_PENDING").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	if err != nil {
		return 0, oops.Code("PRINCIPAL_RESET_PASSWORD_FAILED").
			With("operation", "reset password").
			With("id", id.String()).
			Wrap(err)
	}
	return version, nil
}

// UpgradePasswordHash replaces oldHash with newHash. A concurrent password
// change wins; the upgrade is then silently dropped.
func (r *PrincipalRepository) UpgradePasswordHash(ctx context.Context, id ulid.ULID, oldHash, newHash string) error {
	_, err := r.pool.Exec(ctx, `
		UPDATE principals SET password_hash = $3
		WHERE id = $1 AND password_hash = $2
	`, id.String(), oldHash, newHash)
	if err != nil {
		return oops.Code("PRINCIPAL_UPGRADE_HASH_FAILED").
			With("operation", "upgrade password hash").
			With("id", id.String()).
			Wrap(err)
	}
	return nil
}

// SetResetTicket stores the digest and expiry together, or clears both.
func (r *PrincipalRepository) SetResetTicket(ctx context.Context, id ulid.ULID, ticket *auth.ResetTicketDigest) error {
	var hash *string
	var expires *time.Time
	if ticket != nil {
		hash = &ticket.Hash
		expires = &ticket.ExpiresAt
	}

	result, err := r.pool.Exec(ctx, `
		UPDATE principals SET
			password_reset_token_hash = $2,
			password_reset_expires_at = $3,
			updated_at = $4
		WHERE id = $1
	`, id.String(), hash, expires, time.Now())
	if err != nil {
		return oops.Code("PRINCIPAL_SET_RESET_TICKET_FAILED").
			With("operation", "set reset ticket").
			With("id", id.String()).
			With("clear", ticket == nil).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PRINCIPAL_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// UpdateProfile updates name and email.
func (r *PrincipalRepository) UpdateProfile(ctx context.Context, id ulid.ULID, name, email string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE principals SET name = $2, email = $3, updated_at = $4
		WHERE id = $1
	`, id.String(), name, email, time.Now())
	if err != nil {
		if IsUniqueViolation(err) {
			return oops.Code("PRINCIPAL_DUPLICATE_EMAIL").
				With("email", email).
				Wrap(auth.ErrDuplicateEmail)
		}
		return oops.Code("PRINCIPAL_UPDATE_PROFILE_FAILED").
			With("operation", "update profile").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PRINCIPAL_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// SetActive sets the soft-delete flag.
func (r *PrincipalRepository) SetActive(ctx context.Context, id ulid.ULID, active bool) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE principals SET active = $2, updated_at = $3
		WHERE id = $1
	`, id.String(), active, time.Now())
	if err != nil {
		return oops.Code("PRINCIPAL_SET_ACTIVE_FAILED").
			With("operation", "set active").
			With("id", id.String()).
			Wrap(err)
	}
	if result.RowsAffected() == 0 {
		return oops.Code("PRINCIPAL_NOT_FOUND").
			With("id", id.String()).
			Wrap(auth.ErrNotFound)
	}
	return nil
}

// scanPrincipal scans a single row into a Principal.
// Callers are responsible for handling pgx.ErrNoRows.
func scanPrincipal(row pgx.Row) (*auth.Principal, error) {
	var (
		idStr             string
		name              string
		email             string
		passwordHash      string
		role              string
		passwordChangedAt *time.Time
		credentialVersion int
		resetHash         *string
		resetExpires      *time.Time
		active            bool
		createdAt         time.Time
		updatedAt         time.Time
	)

	err := row.Scan(
		&idStr,
		&name,
		&email,
		&passwordHash,
		&role,
		&passwordChangedAt,
		&credentialVersion,
		&resetHash,
		&resetExpires,
		&active,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err //nolint:wrapcheck // Callers wrap with context-specific info
		}
		return nil, oops.Code("PRINCIPAL_SCAN_FAILED").
			With("operation", "scan principal").
			Wrap(err)
	}

	id, err := ulid.Parse(idStr)
	if err != nil {
		return nil, oops.Code("PRINCIPAL_INVALID_ID").
			With("operation", "parse principal id").
			With("id", idStr).
			Wrap(err)
	}

	p := &auth.Principal{
		ID:                id,
		Name:              name,
		Email:             email,
		PasswordHash:      passwordHash,
		Role:              auth.Role(role),
		PasswordChangedAt: passwordChangedAt,
		CredentialVersion: credentialVersion,
		Active:            active,
		CreatedAt:         createdAt,
		UpdatedAt:         updatedAt,
	}
	// The schema enforces both-or-neither; a half-set pair is treated as none.
	if resetHash != nil && resetExpires != nil {
		p.ResetTicket = &auth.ResetTicketDigest{Hash: *resetHash, ExpiresAt: *resetExpires}
	}
	return p, nil
}
