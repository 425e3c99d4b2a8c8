// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package config builds the process configuration value object.
//
// Sources are layered, lowest precedence first: flag defaults, the YAML
// config file, NATOURS_* environment variables, then flags set on the
// command line. Nested keys use "." in YAML and "__" in the environment,
// so token.secret is NATOURS_TOKEN__SECRET.
package config

import (
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"

	"github.com/natours/identity/internal/logging"
	"github.com/natours/identity/internal/session"
	"github.com/natours/identity/internal/token"
	"github.com/natours/identity/internal/xdg"
)

// EnvPrefix prefixes every environment variable read into the config.
const EnvPrefix = "NATOURS_"

// Config is the complete runtime configuration.
type Config struct {
	HTTP      HTTPConfig      `koanf:"http"`
	Database  DatabaseConfig  `koanf:"database"`
	Redis     RedisConfig     `koanf:"redis"`
	Token     TokenConfig     `koanf:"token"`
	Cookie    CookieConfig    `koanf:"cookie"`
	Password  PasswordConfig  `koanf:"password"`
	Mail      MailConfig      `koanf:"mail"`
	RateLimit RateLimitConfig `koanf:"ratelimit"`
	Metrics   MetricsConfig   `koanf:"metrics"`
	Log       LogConfig       `koanf:"log"`
}

// HTTPConfig configures the public listener.
type HTTPConfig struct {
	Addr       string `koanf:"addr"`
	TrustProxy bool   `koanf:"trust_proxy"`
	BodyLimit  int64  `koanf:"body_limit"`
	// PublicURL is the origin emailed links point at, e.g.
	// https://natours.io. Empty means the request's own Host.
	PublicURL string `koanf:"public_url"`
}

// DatabaseConfig locates PostgreSQL.
type DatabaseConfig struct {
	URL            string        `koanf:"url"`
	ConnectTimeout time.Duration `koanf:"connect_timeout"`
}

// RedisConfig locates the rate limiter's Redis. An empty Addr disables
// rate limiting.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// TokenConfig configures bearer token signing.
type TokenConfig struct {
	Secret string        `koanf:"secret"`
	TTL    time.Duration `koanf:"ttl"`
}

// CookieConfig configures the session cookie.
type CookieConfig struct {
	Secure string `koanf:"secure"`
}

// PasswordConfig holds the argon2id costs.
type PasswordConfig struct {
	WorkFactor uint32 `koanf:"work_factor"`
	MemoryKiB  uint32 `koanf:"memory_kib"`
	Threads    uint8  `koanf:"threads"`
}

// MailConfig selects and configures the mail transport.
type MailConfig struct {
	Mode     string `koanf:"mode"`
	From     string `koanf:"from"`
	Host     string `koanf:"host"`
	Port     int    `koanf:"port"`
	Username string `koanf:"username"`
	Password string `koanf:"password"`
}

// RateLimitConfig sizes the per-IP API budget.
type RateLimitConfig struct {
	Max    int           `koanf:"max"`
	Window time.Duration `koanf:"window"`
}

// MetricsConfig configures the observability listener. Empty Addr
// disables it.
type MetricsConfig struct {
	Addr string `koanf:"addr"`
}

// LogConfig configures structured logging.
type LogConfig struct {
	Format string `koanf:"format"`
	Level  string `koanf:"level"`
}

// flagKeys maps command-line flag names to config keys.
var flagKeys = map[string]string{
	"addr":             "http.addr",
	"trust-proxy":      "http.trust_proxy",
	"public-url":       "http.public_url",
	"body-limit":       "http.body_limit",
	"database-url":     "database.url",
	"db-timeout":       "database.connect_timeout",
	"redis-addr":       "redis.addr",
	"redis-password":   "redis.password",
	"redis-db":         "redis.db",
	"token-secret":     "token.secret",
	"token-ttl":        "token.ttl",
	"cookie-secure":    "cookie.secure",
	"work-factor":      "password.work_factor",
	"memory-kib":       "password.memory_kib",
	"hash-threads":     "password.threads",
	"mail-mode":        "mail.mode",
	"mail-from":        "mail.from",
	"mail-host":        "mail.host",
	"mail-port":        "mail.port",
	"mail-username":    "mail.username",
	"mail-password":    "mail.password",
	"ratelimit-max":    "ratelimit.max",
	"ratelimit-window": "ratelimit.window",
	"metrics-addr":     "metrics.addr",
	"log-format":       "log.format",
	"log-level":        "log.level",
}

// RegisterFlags defines every config flag, with its default, on fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.String("addr", ":3000", "HTTP listen address")
	fs.Bool("trust-proxy", false, "trust X-Forwarded-Proto and X-Forwarded-For from a reverse proxy")
	fs.Int64("body-limit", 10*1024, "maximum request body size in bytes")
	fs.String("public-url", "", "origin used in emailed links, e.g. https://natours.io (empty uses the request Host)")
	fs.String("database-url", "", "PostgreSQL connection URL")
	fs.Duration("db-timeout", 30*time.Second, "how long to keep retrying the initial database connection")
	fs.String("redis-addr", "", "Redis address for API rate limiting (empty disables)")
	fs.String("redis-password", "", "Redis password")
	fs.Int("redis-db", 0, "Redis database number")
	fs.String("token-secret", "", "bearer token signing secret (at least 32 bytes)")
	fs.Duration("token-ttl", 90*24*time.Hour, "bearer token validity window")
	fs.String("cookie-secure", string(session.SecureAuto), "session cookie Secure attribute: auto, always or never")
	fs.Uint32("work-factor", 1, "argon2id iterations")
	fs.Uint32("memory-kib", 64*1024, "argon2id memory in KiB")
	fs.Uint8("hash-threads", 4, "argon2id parallelism")
	fs.String("mail-mode", "log", "mail transport: smtp or log")
	fs.String("mail-from", "Natours <hello@natours.io>", "sender address")
	fs.String("mail-host", "", "SMTP relay host")
	fs.Int("mail-port", 587, "SMTP relay port")
	fs.String("mail-username", "", "SMTP username")
	fs.String("mail-password", "", "SMTP password")
	fs.Int("ratelimit-max", 300, "API requests allowed per client IP per window")
	fs.Duration("ratelimit-window", time.Hour, "API rate limit window")
	fs.String("metrics-addr", "127.0.0.1:9100", "metrics and health listen address (empty disables)")
	fs.String("log-format", "json", "log format: json or text")
	fs.String("log-level", "info", "log level: debug, info, warn or error")
}

// Load builds a Config from flagSet and the environment. path names the YAML
// file; when empty the XDG default is read if it exists.
func Load(flagSet *pflag.FlagSet, path string) (*Config, error) {
	k := koanf.New(".")
	flags := posflag.ProviderWithFlag(flagSet, ".", k, func(f *pflag.Flag) (string, any) {
		key, ok := flagKeys[f.Name]
		if !ok {
			return "", nil
		}
		return key, posflag.FlagVal(flagSet, f)
	})

	// Defaults first: k is empty so every known flag is merged.
	if err := k.Load(flags, nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
	}

	filePath := path
	if filePath == "" {
		if p, err := xdg.DefaultConfigFile(); err == nil && fileExists(p) {
			filePath = p
		}
	}
	if filePath != "" {
		if err := k.Load(file.Provider(filePath), yaml.Parser()); err != nil {
			return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "file").With("path", filePath).Wrap(err)
		}
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "env").Wrap(err)
	}

	// Explicit flags win: unchanged flags are skipped now that k holds them.
	if err := k.Load(flags, nil); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "flags").Wrap(err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, oops.Code("CONFIG_LOAD_FAILED").With("source", "unmarshal").Wrap(err)
	}
	return &cfg, nil
}

// envKey maps NATOURS_TOKEN__SECRET to token.secret.
func envKey(name string) string {
	key := strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

func invalid(key, format string, args ...any) error {
	return oops.Code("CONFIG_INVALID").With("key", key).Errorf(format, args...)
}

// Validate reports the first setting that cannot work.
func (c *Config) Validate() error {
	if c.HTTP.Addr == "" {
		return invalid("http.addr", "http.addr is required")
	}
	if c.HTTP.BodyLimit <= 0 {
		return invalid("http.body_limit", "http.body_limit must be positive")
	}
	if c.Database.URL == "" {
		return invalid("database.url", "database.url is required")
	}
	if len(c.Token.Secret) < token.MinSecretLength {
		return invalid("token.secret", "token.secret must be at least %d bytes", token.MinSecretLength)
	}
	if c.Token.TTL <= 0 {
		return invalid("token.ttl", "token.ttl must be positive")
	}
	if _, err := session.ParseSecureMode(c.Cookie.Secure); err != nil {
		return invalid("cookie.secure", "cookie.secure must be auto, always or never, got %q", c.Cookie.Secure)
	}
	if c.Password.WorkFactor == 0 {
		return invalid("password.work_factor", "password.work_factor must be at least 1")
	}
	if c.Password.MemoryKiB == 0 || c.Password.Threads == 0 {
		return invalid("password.memory_kib", "argon2id memory and threads must be positive")
	}
	switch c.Mail.Mode {
	case "log":
	case "smtp":
		if c.Mail.Host == "" {
			return invalid("mail.host", "mail.host is required when mail.mode is smtp")
		}
	default:
		return invalid("mail.mode", "mail.mode must be smtp or log, got %q", c.Mail.Mode)
	}
	if c.RateLimit.Max <= 0 || c.RateLimit.Window <= 0 {
		return invalid("ratelimit.max", "ratelimit.max and ratelimit.window must be positive")
	}
	if c.Log.Format != "json" && c.Log.Format != "text" {
		return invalid("log.format", "log.format must be json or text, got %q", c.Log.Format)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return invalid("log.level", "log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// fileExists reports whether path names an existing regular file.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
