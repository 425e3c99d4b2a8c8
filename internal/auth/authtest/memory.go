// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package authtest provides in-memory doubles for exercising the auth
// service without a database or mail server.
package authtest

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/natours/identity/internal/auth"
)

// Repository is a concurrency-safe in-memory auth.PrincipalRepository.
// Stored principals are copied on the way in and out.
type Repository struct {
	mu   sync.Mutex
	byID map[ulid.ULID]*auth.Principal
}

var _ auth.PrincipalRepository = (*Repository)(nil)

// NewRepository creates an empty repository.
func NewRepository() *Repository {
	return &Repository{byID: make(map[ulid.ULID]*auth.Principal)}
}

func clone(p *auth.Principal) *auth.Principal {
	c := *p
	if p.PasswordChangedAt != nil {
		t := *p.PasswordChangedAt
		c.PasswordChangedAt = &t
	}
	if p.ResetTicket != nil {
		d := *p.ResetTicket
		c.ResetTicket = &d
	}
	return &c
}

func (r *Repository) emailTaken(email string, except ulid.ULID) bool {
	for id, p := range r.byID {
		if id != except && p.Email == email {
			return true
		}
	}
	return false
}

// Create stores a copy of p.
func (r *Repository) Create(_ context.Context, p *auth.Principal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.emailTaken(p.Email, ulid.ULID{}) {
		return auth.ErrDuplicateEmail
	}
	r.byID[p.ID] = clone(p)
	return nil
}

// GetByID returns a copy of the principal with id.
func (r *Repository) GetByID(_ context.Context, id ulid.ULID) (*auth.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return nil, auth.ErrNotFound
	}
	return clone(p), nil
}

// GetByEmail returns a copy of the principal with email.
func (r *Repository) GetByEmail(_ context.Context, email string) (*auth.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.Email == email {
			return clone(p), nil
		}
	}
	return nil, auth.ErrNotFound
}

// GetByResetTokenHash returns a copy of the principal holding hash.
func (r *Repository) GetByResetTokenHash(_ context.Context, hash string) (*auth.Principal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.byID {
		if p.ResetTicket != nil && p.ResetTicket.Hash == hash {
			return clone(p), nil
		}
	}
	return nil, auth.ErrNotFound
}

func (r *Repository) setPassword(p *auth.Principal, hash string, changedAt time.Time) int {
	p.PasswordHash = hash
	p.PasswordChangedAt = &changedAt
	p.ResetTicket = nil
	p.CredentialVersion++
	p.UpdatedAt = time.Now()
	return p.CredentialVersion
}

// UpdatePassword stores a new hash and bumps the credential version.
func (r *Repository) UpdatePassword(_ context.Context, id ulid.ULID, passwordHash string, changedAt time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return 0, auth.ErrNotFound
	}
	return r.setPassword(p, passwordHash, changedAt), nil
}

// ResetPassword is UpdatePassword guarded by the pending ticket digest.
func (r *Repository) ResetPassword(_ context.Context, id ulid.ULID, ticketHash, passwordHash string, changedAt time.Time) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok || p.ResetTicket == nil || p.ResetTicket.Hash != ticketHash {
		return 0, auth.ErrNotFound
	}
	return r.setPassword(p, passwordHash, changedAt), nil
}

// UpgradePasswordHash swaps the hash if it still equals oldHash.
func (r *Repository) UpgradePasswordHash(_ context.Context, id ulid.ULID, oldHash, newHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return auth.ErrNotFound
	}
	if p.PasswordHash == oldHash {
		p.PasswordHash = newHash
	}
	return nil
}

// SetResetTicket stores or clears the pending reset digest.
func (r *Repository) SetResetTicket(_ context.Context, id ulid.ULID, ticket *auth.ResetTicketDigest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return auth.ErrNotFound
	}
	if ticket == nil {
		p.ResetTicket = nil
		return nil
	}
	d := *ticket
	p.ResetTicket = &d
	return nil
}

// UpdateProfile changes name and email.
func (r *Repository) UpdateProfile(_ context.Context, id ulid.ULID, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return auth.ErrNotFound
	}
	if r.emailTaken(email, id) {
		return auth.ErrDuplicateEmail
	}
	p.Name = name
	p.Email = email
	p.UpdatedAt = time.Now()
	return nil
}

// SetActive sets the soft-delete flag.
func (r *Repository) SetActive(_ context.Context, id ulid.ULID, active bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.byID[id]
	if !ok {
		return auth.ErrNotFound
	}
	p.Active = active
	return nil
}

// Len returns the number of stored principals.
func (r *Repository) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
