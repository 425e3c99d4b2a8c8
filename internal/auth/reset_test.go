// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natours/identity/internal/auth"
)

func TestGenerateResetTicket(t *testing.T) {
	t.Run("generates ticket and matching hash", func(t *testing.T) {
		ticket, hash, err := auth.GenerateResetTicket()
		require.NoError(t, err)
		assert.Len(t, ticket, 64)
		assert.Len(t, hash, 64)
		assert.NotEqual(t, ticket, hash)
		assert.Equal(t, hash, auth.HashResetTicket(ticket))
	})

	t.Run("tickets are unique", func(t *testing.T) {
		seen := make(map[string]bool)
		for range 100 {
			ticket, _, err := auth.GenerateResetTicket()
			require.NoError(t, err)
			assert.False(t, seen[ticket])
			seen[ticket] = true
		}
	})
}

func TestHashResetTicket_Deterministic(t *testing.T) {
	assert.Equal(t, auth.HashResetTicket("abc"), auth.HashResetTicket("abc"))
	assert.NotEqual(t, auth.HashResetTicket("abc"), auth.HashResetTicket("abd"))
}

func TestNewResetTicketDigest(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	d := auth.NewResetTicketDigest("digest", now)

	assert.Equal(t, "digest", d.Hash)
	assert.Equal(t, now.Add(10*time.Minute), d.ExpiresAt)
	assert.False(t, d.ExpiredAt(now.Add(10*time.Minute)))
	assert.True(t, d.ExpiredAt(now.Add(10*time.Minute+time.Millisecond)))
}
