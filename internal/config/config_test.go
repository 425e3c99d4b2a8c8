// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/natours/identity/pkg/errutil"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "unrelated flag")
	RegisterFlags(fs)
	require.NoError(t, fs.Parse(args))
	return fs
}

// isolate points XDG at an empty directory so no user config leaks in.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	return dir
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o700))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load(newFlags(t), "")
	require.NoError(t, err)

	assert.Equal(t, ":3000", cfg.HTTP.Addr)
	assert.Equal(t, int64(10240), cfg.HTTP.BodyLimit)
	assert.False(t, cfg.HTTP.TrustProxy)
	assert.Equal(t, 30*time.Second, cfg.Database.ConnectTimeout)
	assert.Equal(t, 90*24*time.Hour, cfg.Token.TTL)
	assert.Equal(t, "auto", cfg.Cookie.Secure)
	assert.Equal(t, uint32(1), cfg.Password.WorkFactor)
	assert.Equal(t, uint32(65536), cfg.Password.MemoryKiB)
	assert.Equal(t, uint8(4), cfg.Password.Threads)
	assert.Equal(t, "log", cfg.Mail.Mode)
	assert.Equal(t, 587, cfg.Mail.Port)
	assert.Equal(t, 300, cfg.RateLimit.Max)
	assert.Equal(t, time.Hour, cfg.RateLimit.Window)
	assert.Equal(t, "127.0.0.1:9100", cfg.Metrics.Addr)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Empty(t, cfg.HTTP.PublicURL)
}

func TestLoad_PublicURL(t *testing.T) {
	isolate(t)

	t.Setenv("NATOURS_HTTP__PUBLIC_URL", "https://env.natours.io")
	cfg, err := Load(newFlags(t), "")
	require.NoError(t, err)
	assert.Equal(t, "https://env.natours.io", cfg.HTTP.PublicURL)

	cfg, err = Load(newFlags(t, "--public-url=https://natours.io"), "")
	require.NoError(t, err)
	assert.Equal(t, "https://natours.io", cfg.HTTP.PublicURL, "explicit flag overrides env")
}

func TestLoad_Precedence(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "explicit.yaml")
	writeFile(t, path, strings.Join([]string{
		"http:",
		"  addr: ':4000'",
		"  trust_proxy: true",
		"token:",
		"  ttl: 24h",
		"ratelimit:",
		"  max: 50",
		"log:",
		"  format: text",
	}, "\n"))

	t.Setenv("NATOURS_TOKEN__SECRET", testSecret)
	t.Setenv("NATOURS_RATELIMIT__MAX", "75")
	t.Setenv("NATOURS_LOG__FORMAT", "json")

	cfg, err := Load(newFlags(t, "--log-format=text", "--database-url=postgres://db/natours"), path)
	require.NoError(t, err)

	assert.Equal(t, ":4000", cfg.HTTP.Addr, "file overrides flag default")
	assert.True(t, cfg.HTTP.TrustProxy)
	assert.Equal(t, 24*time.Hour, cfg.Token.TTL)
	assert.Equal(t, testSecret, cfg.Token.Secret, "env supplies secret")
	assert.Equal(t, 75, cfg.RateLimit.Max, "env overrides file")
	assert.Equal(t, "text", cfg.Log.Format, "explicit flag overrides env")
	assert.Equal(t, "postgres://db/natours", cfg.Database.URL)
}

func TestLoad_XDGDefaultFile(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "natours", "config.yaml"), "mail:\n  mode: smtp\n  host: smtp.example.com\n")

	cfg, err := Load(newFlags(t), "")
	require.NoError(t, err)
	assert.Equal(t, "smtp", cfg.Mail.Mode)
	assert.Equal(t, "smtp.example.com", cfg.Mail.Host)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	dir := isolate(t)
	_, err := Load(newFlags(t), filepath.Join(dir, "nope.yaml"))
	errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
}

func TestLoad_MalformedFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "bad.yaml")
	writeFile(t, path, "http: [unclosed")
	_, err := Load(newFlags(t), path)
	errutil.AssertErrorCode(t, err, "CONFIG_LOAD_FAILED")
}

func validConfig(t *testing.T) *Config {
	t.Helper()
	isolate(t)
	cfg, err := Load(newFlags(t, "--database-url=postgres://db/natours", "--token-secret="+testSecret), "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		key    string
	}{
		{"missing database", func(c *Config) { c.Database.URL = "" }, "database.url"},
		{"short secret", func(c *Config) { c.Token.Secret = "short" }, "token.secret"},
		{"zero ttl", func(c *Config) { c.Token.TTL = 0 }, "token.ttl"},
		{"unknown cookie mode", func(c *Config) { c.Cookie.Secure = "sometimes" }, "cookie.secure"},
		{"zero work factor", func(c *Config) { c.Password.WorkFactor = 0 }, "password.work_factor"},
		{"zero threads", func(c *Config) { c.Password.Threads = 0 }, "password.memory_kib"},
		{"unknown mail mode", func(c *Config) { c.Mail.Mode = "pigeon" }, "mail.mode"},
		{"smtp without host", func(c *Config) { c.Mail.Mode = "smtp"; c.Mail.Host = "" }, "mail.host"},
		{"unknown log format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"unknown log level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"zero body limit", func(c *Config) { c.HTTP.BodyLimit = 0 }, "http.body_limit"},
		{"zero rate limit", func(c *Config) { c.RateLimit.Max = 0 }, "ratelimit.max"},
		{"empty addr", func(c *Config) { c.HTTP.Addr = "" }, "http.addr"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig(t)
			tt.mutate(cfg)
			err := cfg.Validate()
			errutil.AssertErrorCode(t, err, "CONFIG_INVALID")
			errutil.AssertErrorContext(t, err, "key", tt.key)
		})
	}
}

func TestEnvKey(t *testing.T) {
	assert.Equal(t, "token.secret", envKey("NATOURS_TOKEN__SECRET"))
	assert.Equal(t, "http.trust_proxy", envKey("NATOURS_HTTP__TRUST_PROXY"))
}
