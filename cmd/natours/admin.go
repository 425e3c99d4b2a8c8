// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package main

import (
	"context"
	"errors"
	"os"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/natours/identity/internal/auth"
	authpg "github.com/natours/identity/internal/auth/postgres"
	"github.com/natours/identity/internal/config"
	"github.com/natours/identity/internal/store"
	"github.com/natours/identity/internal/token"
)

// AdminPasswordEnv holds the password for create-admin, kept off the
// command line.
const AdminPasswordEnv = "NATOURS_ADMIN_PASSWORD"

// adminCreator is the subset of auth.Service and its repository that
// create-admin needs.
type adminCreator interface {
	Create(ctx context.Context, in auth.CreateInput) (*auth.Principal, error)
}

type principalFinder interface {
	GetByEmail(ctx context.Context, email string) (*auth.Principal, error)
}

// NewCreateAdminCmd creates the create-admin subcommand.
func NewCreateAdminCmd() *cobra.Command {
	var email, name string

	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Create an administrator account",
		Long: `Create a principal with the admin role. The password is read from
` + AdminPasswordEnv + `. Running it again for an existing email changes nothing.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Flags())
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			ctx := cmd.Context()
			pool, err := store.Connect(ctx, cfg.Database.URL, store.ConnectOptions{Timeout: cfg.Database.ConnectTimeout})
			if err != nil {
				return err
			}
			defer pool.Close()

			repo := authpg.NewPrincipalRepository(pool)
			codec, err := token.NewCodec([]byte(cfg.Token.Secret), cfg.Token.TTL)
			if err != nil {
				return err
			}
			svc, err := auth.NewService(repo, auth.NewArgon2idHasher(auth.Argon2Params{
				Time:    cfg.Password.WorkFactor,
				Memory:  cfg.Password.MemoryKiB,
				Threads: cfg.Password.Threads,
			}), codec, discardNotifier{})
			if err != nil {
				return err
			}

			p, created, err := createAdmin(ctx, svc, repo, name, email, os.Getenv(AdminPasswordEnv))
			if err != nil {
				return err
			}
			if created {
				cmd.Printf("Created admin %s (%s)\n", p.Email, p.ID)
			} else {
				cmd.Printf("Principal %s already exists with role %s; nothing changed\n", p.Email, p.Role)
			}
			return nil
		},
	}

	config.RegisterFlags(cmd.Flags())
	cmd.Flags().StringVar(&email, "email", "", "admin email address")
	cmd.Flags().StringVar(&name, "name", "", "admin display name")
	_ = cmd.MarkFlagRequired("email") //nolint:errcheck // flag defined above
	_ = cmd.MarkFlagRequired("name")  //nolint:errcheck // flag defined above
	return cmd
}

// createAdmin creates an admin principal unless one with email already
// exists, in which case the existing principal is returned with created
// false.
func createAdmin(ctx context.Context, svc adminCreator, finder principalFinder, name, email, password string) (*auth.Principal, bool, error) {
	if password == "" {
		return nil, false, oops.Code(auth.CodeValidation).
			With("field", "password").
			Errorf("%s must be set", AdminPasswordEnv)
	}
	normalized, err := auth.NormalizeEmail(email)
	if err != nil {
		return nil, false, err
	}

	if existing, found, err := lookup(ctx, finder, normalized); err != nil || found {
		return existing, false, err
	}

	p, err := svc.Create(ctx, auth.CreateInput{
		Name:            name,
		Email:           normalized,
		Password:        password,
		PasswordConfirm: password,
		Role:            auth.RoleAdmin,
	})
	if err != nil {
		// Lost a race with a concurrent create.
		if existing, found, lookupErr := lookup(ctx, finder, normalized); lookupErr == nil && found {
			return existing, false, nil
		}
		return nil, false, err
	}
	return p, true, nil
}

func lookup(ctx context.Context, finder principalFinder, email string) (*auth.Principal, bool, error) {
	p, err := finder.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return p, true, nil
	case errors.Is(err, auth.ErrNotFound):
		return nil, false, nil
	default:
		return nil, false, oops.Code("ADMIN_LOOKUP_FAILED").With("email", email).Wrap(err)
	}
}

// discardNotifier drops mail; create-admin sends no welcome message.
type discardNotifier struct{}

func (discardNotifier) SendWelcome(context.Context, auth.Recipient, string) error       { return nil }
func (discardNotifier) SendPasswordReset(context.Context, auth.Recipient, string) error { return nil }
