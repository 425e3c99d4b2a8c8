// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/samber/oops"
)

// Reset ticket configuration. The validity window is fixed.
const (
	ResetTicketBytes = 32               // 32 bytes = 64 hex chars
	ResetTicketTTL   = 10 * time.Minute // 10 minute expiry
)

// GenerateResetTicket creates a random ticket and its digest.
// Returns (plaintext_ticket, sha256_hash, error).
// The plaintext ticket is mailed to the requester; only the hash is stored.
func GenerateResetTicket() (ticket, hash string, err error) {
	ticketBytes := make([]byte, ResetTicketBytes)
	if _, err = rand.Read(ticketBytes); err != nil {
		return "", "", oops.Code("RESET_TOKEN_GENERATE_FAILED").
			With("operation", "crypto/rand.Read").
			With("requested_bytes", ResetTicketBytes).
			Wrap(err)
	}

	ticket = hex.EncodeToString(ticketBytes)
	return ticket, HashResetTicket(ticket), nil
}

// HashResetTicket computes the SHA256 digest of a ticket.
func HashResetTicket(ticket string) string {
	h := sha256.Sum256([]byte(ticket))
	return hex.EncodeToString(h[:])
}

// NewResetTicketDigest pairs a digest with its expiry, issued at now.
func NewResetTicketDigest(hash string, now time.Time) *ResetTicketDigest {
	return &ResetTicketDigest{Hash: hash, ExpiresAt: now.Add(ResetTicketTTL)}
}
