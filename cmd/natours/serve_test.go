// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natours/identity/internal/config"
	"github.com/natours/identity/internal/mail"
	"github.com/natours/identity/pkg/errutil"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBuildMailTransport(t *testing.T) {
	tr, err := buildMailTransport(config.MailConfig{Mode: "log"}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &mail.LogTransport{}, tr)

	tr, err = buildMailTransport(config.MailConfig{Mode: "smtp", Host: "smtp.example.com", Port: 587}, discardLogger())
	require.NoError(t, err)
	assert.IsType(t, &mail.SMTPTransport{}, tr)

	_, err = buildMailTransport(config.MailConfig{Mode: "smtp", Port: 587}, discardLogger())
	errutil.AssertErrorCode(t, err, "MAIL_INVALID_CONFIG")

	_, err = buildMailTransport(config.MailConfig{Mode: "pigeon"}, discardLogger())
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestBuildLimiter(t *testing.T) {
	t.Run("disabled without redis", func(t *testing.T) {
		lim, closeFn, err := buildLimiter(context.Background(), &config.Config{}, discardLogger(), func() {})
		require.NoError(t, err)
		assert.Nil(t, lim)
		closeFn()
	})

	t.Run("counts against redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		cfg := &config.Config{
			Redis:     config.RedisConfig{Addr: mr.Addr()},
			RateLimit: config.RateLimitConfig{Max: 1, Window: time.Minute},
		}
		lim, closeFn, err := buildLimiter(context.Background(), cfg, discardLogger(), func() {})
		require.NoError(t, err)
		defer closeFn()
		require.NotNil(t, lim)

		d, err := lim.Allow(context.Background(), "203.0.113.9")
		require.NoError(t, err)
		assert.True(t, d.Allowed)
		d, err = lim.Allow(context.Background(), "203.0.113.9")
		require.NoError(t, err)
		assert.False(t, d.Allowed)
	})
}

func TestRunServe_RejectsInvalidConfig(t *testing.T) {
	cmd := &cobra.Command{}
	cmd.SetOut(new(bytes.Buffer))
	err := runServe(context.Background(), cmd, &config.Config{}, false)
	errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
}

func TestMonitorServerErrors(t *testing.T) {
	t.Run("error cancels", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		errCh := make(chan error, 1)
		errCh <- errors.New("listener died")

		monitorServerErrors(ctx, cancel, errCh, "test")
		assert.ErrorIs(t, ctx.Err(), context.Canceled)
	})

	t.Run("closed channel does not cancel", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		errCh := make(chan error)
		close(errCh)

		monitorServerErrors(ctx, cancel, errCh, "test")
		assert.NoError(t, ctx.Err())
	})
}
