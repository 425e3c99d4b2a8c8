// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/samber/oops"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/natours/identity/internal/auth"
	authpg "github.com/natours/identity/internal/auth/postgres"
	"github.com/natours/identity/internal/config"
	"github.com/natours/identity/internal/logging"
	"github.com/natours/identity/internal/mail"
	"github.com/natours/identity/internal/observability"
	"github.com/natours/identity/internal/ratelimit"
	"github.com/natours/identity/internal/session"
	"github.com/natours/identity/internal/store"
	"github.com/natours/identity/internal/token"
	"github.com/natours/identity/internal/web"
)

const (
	serviceName     = "natours"
	shutdownTimeout = 10 * time.Second
	redisPingWait   = 3 * time.Second
)

// NewServeCmd creates the serve subcommand.
func NewServeCmd() *cobra.Command {
	var migrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the identity HTTP API and the metrics/health listener until
SIGINT or SIGTERM.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cmd, cfg, migrate)
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().BoolVar(&migrate, "migrate", false, "apply pending database migrations before serving")
	return cmd
}

func runServe(ctx context.Context, cmd *cobra.Command, cfg *config.Config, migrate bool) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if ctx == nil {
		ctx = context.Background()
	}

	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.SetDefault(serviceName, version, logging.Options{Format: cfg.Log.Format, Level: level})
	logger.Info("starting identity service", "addr", cfg.HTTP.Addr, "mail_mode", cfg.Mail.Mode)

	pool, err := store.Connect(ctx, cfg.Database.URL, store.ConnectOptions{
		Timeout: cfg.Database.ConnectTimeout,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	defer pool.Close()
	logger.Info("connected to database")

	if migrate {
		if err := migrateUp(cfg.Database.URL); err != nil {
			return err
		}
		logger.Info("database migrations applied")
	}

	// Spans are not exported; the provider exists so log records carry
	// trace and span ids.
	tracerProvider := sdktrace.NewTracerProvider()
	otel.SetTracerProvider(tracerProvider)
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Warn("tracer provider shutdown failed", "error", err)
		}
	}()

	obsServer := observability.NewServer(cfg.Metrics.Addr, pool.Ping)
	metrics := obsServer.Metrics()

	codec, err := token.NewCodec([]byte(cfg.Token.Secret), cfg.Token.TTL)
	if err != nil {
		return err
	}
	mailTransport, err := buildMailTransport(cfg.Mail, logger)
	if err != nil {
		return err
	}
	mailer, err := mail.New(cfg.Mail.From, mailTransport)
	if err != nil {
		return err
	}

	svc, err := auth.NewService(
		authpg.NewPrincipalRepository(pool),
		auth.NewArgon2idHasher(auth.Argon2Params{
			Time:    cfg.Password.WorkFactor,
			Memory:  cfg.Password.MemoryKiB,
			Threads: cfg.Password.Threads,
		}),
		codec,
		mailer,
		auth.WithLogger(logger),
		auth.WithEventRecorder(metrics),
		auth.WithTracerProvider(tracerProvider),
	)
	if err != nil {
		return err
	}

	limiter, closeRedis, err := buildLimiter(ctx, cfg, logger, metrics.RateLimitedRequest)
	if err != nil {
		return err
	}
	defer closeRedis()

	mode, err := session.ParseSecureMode(cfg.Cookie.Secure)
	if err != nil {
		return err
	}
	if cfg.HTTP.PublicURL == "" {
		logger.Warn("http.public_url is not set; emailed links will use the request Host header")
	}
	handler, err := web.NewHandler(web.Config{
		TrustProxy: cfg.HTTP.TrustProxy,
		BodyLimit:  cfg.HTTP.BodyLimit,
		CSRFSecret: []byte(cfg.Token.Secret),
		PublicURL:  cfg.HTTP.PublicURL,
	}, web.Deps{
		Auth:      svc,
		Transport: session.NewTransport(codec.TTL(), mode, cfg.HTTP.TrustProxy),
		Limiter:   limiter,
		Metrics:   metrics,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if cfg.Metrics.Addr != "" {
		obsErrCh, err := obsServer.Start()
		if err != nil {
			return oops.Code("OBSERVABILITY_START_FAILED").With("addr", cfg.Metrics.Addr).Wrap(err)
		}
		go monitorServerErrors(ctx, cancel, obsErrCh, "observability")
		defer stopServer("observability", obsServer.Stop)
	}

	webServer := web.NewServer(cfg.HTTP.Addr, handler)
	webErrCh, err := webServer.Start()
	if err != nil {
		return err
	}
	go monitorServerErrors(ctx, cancel, webErrCh, "web")
	defer stopServer("web", webServer.Stop)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	cmd.Printf("Listening on %s\n", webServer.Addr())

	select {
	case sig := <-sigChan:
		logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		logger.Info("context cancelled, shutting down")
	}
	return nil
}

// stopServer drains one server; deferred so servers stop in reverse start
// order.
func stopServer(name string, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := stop(ctx); err != nil {
		slog.Warn("error stopping server", "server", name, "error", err)
	}
}

// buildMailTransport picks the SMTP relay or the logging transport.
func buildMailTransport(cfg config.MailConfig, logger *slog.Logger) (mail.Transport, error) {
	switch cfg.Mode {
	case "smtp":
		return mail.NewSMTPTransport(mail.SMTPConfig{
			Host:     cfg.Host,
			Port:     cfg.Port,
			Username: cfg.Username,
			Password: cfg.Password,
		})
	case "log", "":
		return mail.NewLogTransport(logger), nil
	default:
		return nil, oops.Code("CONFIG_INVALID").With("key", "mail.mode").Errorf("unknown mail mode %q", cfg.Mode)
	}
}

// buildLimiter connects the API rate limiter. Without a Redis address the
// limiter is disabled and nil is returned. An unreachable Redis is logged
// and the limiter kept, since it fails open per request.
func buildLimiter(ctx context.Context, cfg *config.Config, logger *slog.Logger, onLimited func()) (*ratelimit.Limiter, func(), error) {
	if cfg.Redis.Addr == "" {
		logger.Info("rate limiting disabled: no redis address configured")
		return nil, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	closeClient := func() {
		if err := client.Close(); err != nil {
			logger.Warn("error closing redis client", "error", err)
		}
	}

	pingCtx, cancel := context.WithTimeout(ctx, redisPingWait)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		logger.Warn("redis unreachable, rate limiter will fail open", "addr", cfg.Redis.Addr, "error", err)
	}

	limiter, err := ratelimit.New(client, ratelimit.Config{
		Max:    cfg.RateLimit.Max,
		Window: cfg.RateLimit.Window,
	}, ratelimit.WithLogger(logger), ratelimit.WithLimitedHook(onLimited))
	if err != nil {
		closeClient()
		return nil, func() {}, err
	}
	return limiter, closeClient, nil
}

// monitorServerErrors cancels ctx when a server reports a failure. It exits
// when the channel closes or ctx is done.
func monitorServerErrors(ctx context.Context, cancel context.CancelFunc, errCh <-chan error, serverName string) {
	select {
	case err, ok := <-errCh:
		if !ok {
			return
		}
		if err != nil {
			slog.Error("server error, triggering shutdown", "server", serverName, "error", err)
			cancel()
		}
	case <-ctx.Done():
	}
}
