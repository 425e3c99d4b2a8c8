// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package errutil_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/samber/oops"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natours/identity/pkg/errutil"
)

func TestLogError_WithOopsError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	err := oops.Code("TEST_ERROR").
		With("key", "value").
		Errorf("something failed")

	errutil.LogError(logger, "operation failed", err)

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "ERROR", logEntry["level"])
	assert.Equal(t, "operation failed", logEntry["msg"])
	assert.Equal(t, "TEST_ERROR", logEntry["code"])
	assert.Contains(t, logEntry, "context")
}

func TestLogError_WithStandardError(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	errutil.LogErrorContext(context.Background(), logger, "operation failed", errors.New("standard error"))

	var logEntry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &logEntry))
	assert.Equal(t, "ERROR", logEntry["level"])
	assert.Contains(t, logEntry["error"], "standard error")
}

func TestCode(t *testing.T) {
	assert.Equal(t, "AUTH_FORBIDDEN", errutil.Code(oops.Code("AUTH_FORBIDDEN").Errorf("nope")))
	assert.Equal(t, "AUTH_FORBIDDEN", errutil.Code(oops.With("op", "x").Wrap(oops.Code("AUTH_FORBIDDEN").Errorf("nope"))))
	assert.Empty(t, errutil.Code(errors.New("plain")))
	assert.Empty(t, errutil.Code(oops.Errorf("no code")))
}

func TestContext(t *testing.T) {
	err := oops.Code("AUTH_VALIDATION").With("field", "email").Errorf("bad email")

	v, ok := errutil.Context(err, "field")
	require.True(t, ok)
	assert.Equal(t, "email", v)

	_, ok = errutil.Context(err, "missing")
	assert.False(t, ok)

	_, ok = errutil.Context(errors.New("plain"), "field")
	assert.False(t, ok)
}

func TestPublicMessage(t *testing.T) {
	assert.Equal(t, "Incorrect email or password",
		errutil.PublicMessage(oops.Code("AUTH_INVALID_CREDENTIALS").Errorf("Incorrect email or password")))
	assert.Empty(t, errutil.PublicMessage(nil))
}
