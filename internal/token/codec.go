// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/samber/oops"
)

// MinSecretLength is the shortest accepted signing secret in bytes.
const MinSecretLength = 32

// Status is the outcome of verifying a token.
type Status int

// Verification outcomes.
const (
	StatusMalformed Status = iota
	StatusValid
	StatusExpired
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusValid:
		return "valid"
	case StatusExpired:
		return "expired"
	default:
		return "malformed"
	}
}

// Claims are the signed contents of a bearer token.
type Claims struct {
	jwt.RegisteredClaims
	// CredentialVersion is the subject's credential version at issue time.
	CredentialVersion int `json:"cv"`
}

// Codec issues and verifies HS256 bearer tokens.
type Codec struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// Option configures a Codec.
type Option func(*Codec)

// WithClock overrides the time source used for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(c *Codec) { c.now = now }
}

// NewCodec creates a codec signing with secret. Tokens expire ttl after issue.
func NewCodec(secret []byte, ttl time.Duration, opts ...Option) (*Codec, error) {
	if len(secret) < MinSecretLength {
		return nil, oops.Code("TOKEN_INVALID_CONFIG").
			With("min_length", MinSecretLength).
			Errorf("signing secret must be at least %d bytes", MinSecretLength)
	}
	if ttl <= 0 {
		return nil, oops.Code("TOKEN_INVALID_CONFIG").
			With("ttl", ttl.String()).
			Errorf("token ttl must be positive")
	}

	c := &Codec{
		secret: append([]byte(nil), secret...),
		ttl:    ttl,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// TTL returns the validity window of issued tokens.
func (c *Codec) TTL() time.Duration {
	return c.ttl
}

// Issue signs a token for subject.
func (c *Codec) Issue(subject string, credentialVersion int) (string, error) {
	if subject == "" {
		return "", oops.Code("TOKEN_ISSUE_FAILED").Errorf("subject cannot be empty")
	}

	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl)),
		},
		CredentialVersion: credentialVersion,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", oops.Code("TOKEN_ISSUE_FAILED").With("subject", subject).Wrap(err)
	}
	return signed, nil
}

// Verify checks signature, structure and expiry. Claims are non-nil only
// when the status is StatusValid.
func (c *Codec) Verify(raw string) (*Claims, Status) {
	if raw == "" {
		return nil, StatusMalformed
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)

	claims := &Claims{}
	_, err := parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return c.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) && !errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			return nil, StatusExpired
		}
		return nil, StatusMalformed
	}
	if claims.Subject == "" || claims.IssuedAt == nil {
		return nil, StatusMalformed
	}
	return claims, StatusValid
}
