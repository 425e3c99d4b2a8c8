// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package store opens the PostgreSQL connection pool and manages the schema.
package store

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/oops"
	"github.com/sethvargo/go-retry"
)

// ConnectOptions bound how long Connect keeps trying to reach the database.
type ConnectOptions struct {
	// Timeout caps the whole connect attempt, retries included.
	Timeout time.Duration
	// InitialBackoff is the first retry delay; later delays double.
	InitialBackoff time.Duration
	// MaxBackoff caps a single retry delay.
	MaxBackoff time.Duration
	Logger     *slog.Logger
}

// DefaultConnectOptions suit a service starting next to its database.
func DefaultConnectOptions() ConnectOptions {
	return ConnectOptions{
		Timeout:        30 * time.Second,
		InitialBackoff: 250 * time.Millisecond,
		MaxBackoff:     5 * time.Second,
		Logger:         slog.Default(),
	}
}

// pinger is satisfied by *pgxpool.Pool.
type pinger interface {
	Ping(ctx context.Context) error
}

// Connect creates a pool for databaseURL and waits until the database
// answers a ping, retrying with exponential backoff.
func Connect(ctx context.Context, databaseURL string, opts ConnectOptions) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, oops.Code("DB_CONFIG_INVALID").With("operation", "parse database url").Wrap(err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, oops.Code("DB_CONNECT_FAILED").With("operation", "create pool").Wrap(err)
	}

	if err := waitForPing(ctx, pool, opts); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func waitForPing(ctx context.Context, db pinger, opts ConnectOptions) error {
	def := DefaultConnectOptions()
	if opts.Timeout <= 0 {
		opts.Timeout = def.Timeout
	}
	if opts.InitialBackoff <= 0 {
		opts.InitialBackoff = def.InitialBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = def.MaxBackoff
	}
	if opts.Logger == nil {
		opts.Logger = def.Logger
	}

	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	backoff := retry.WithCappedDuration(opts.MaxBackoff, retry.NewExponential(opts.InitialBackoff))

	attempt := 0
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		if err := db.Ping(ctx); err != nil {
			opts.Logger.WarnContext(ctx, "database not ready", "attempt", attempt, "error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return oops.Code("DB_CONNECT_FAILED").
			With("operation", "ping database").
			With("attempts", attempt).
			Wrap(err)
	}
	return nil
}
