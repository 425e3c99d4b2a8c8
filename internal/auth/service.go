// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package auth

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/natours/identity/internal/token"
	"github.com/natours/identity/pkg/errutil"
)

// TokenCodec issues and verifies bearer tokens.
type TokenCodec interface {
	Issue(subject string, credentialVersion int) (string, error)
	Verify(raw string) (*token.Claims, token.Status)
}

// Recipient is the addressee of a transactional email.
type Recipient struct {
	Name  string
	Email string
}

// Notifier delivers transactional email.
type Notifier interface {
	SendWelcome(ctx context.Context, to Recipient, accountURL string) error
	SendPasswordReset(ctx context.Context, to Recipient, resetURL string) error
}

// EventRecorder receives one observation per credential operation.
type EventRecorder interface {
	AuthEvent(event, outcome string)
}

// Event names reported to the EventRecorder.
const (
	EventSignup         = "signup"
	EventLogin          = "login"
	EventAuthenticate   = "authenticate"
	EventPasswordChange = "password_change"
	EventResetRequest   = "reset_request"
	EventResetConsume   = "reset_consume"
)

const tracerName = "natours/auth"

type noopRecorder struct{}

func (noopRecorder) AuthEvent(string, string) {}

// dummyPasswordHash is verified when no principal matches a login email so
// the response time does not reveal whether the account exists. It never
// matches any password.
//
//nolint:gosec // G101: intentionally fake hash for timing attack prevention, not a credential.
const dummyPasswordHash = "$argon2id$v=19$m=65536,t=1,p=4$AAAAAAAAAAAAAAAAAAAAAA$AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"

// Service implements the credential lifecycle: signup, login, password
// change and reset, and resolution of bearer tokens to principals.
type Service struct {
	principals PrincipalRepository
	hasher     PasswordHasher
	tokens     TokenCodec
	notifier   Notifier
	events     EventRecorder
	logger     *slog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithTracerProvider sets where operation spans are created. Defaults to
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) { s.tracer = tp.Tracer(tracerName) }
}

// WithEventRecorder sets the metrics sink.
func WithEventRecorder(r EventRecorder) Option {
	return func(s *Service) { s.events = r }
}

// NewService creates a Service. All four collaborators are required.
func NewService(principals PrincipalRepository, hasher PasswordHasher, tokens TokenCodec, notifier Notifier, opts ...Option) (*Service, error) {
	if principals == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("principals repository is required")
	}
	if hasher == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("password hasher is required")
	}
	if tokens == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("token codec is required")
	}
	if notifier == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("notifier is required")
	}

	s := &Service{
		principals: principals,
		hasher:     hasher,
		tokens:     tokens,
		notifier:   notifier,
		events:     noopRecorder{},
		logger:     slog.Default(),
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		return nil, oops.Code("AUTH_INVALID_CONFIG").Errorf("logger cannot be nil")
	}
	if s.events == nil {
		s.events = noopRecorder{}
	}
	return s, nil
}

// CreateInput is the data needed to create a principal.
type CreateInput struct {
	Name            string
	Email           string
	Password        string
	PasswordConfirm string
	Role            Role
}

// Create validates input, hashes the password and stores a new principal.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Principal, error) {
	if err := ValidateName(in.Name); err != nil {
		return nil, err
	}
	email, err := NormalizeEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if err := ValidateNewPassword(in.Password, in.PasswordConfirm); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, oops.Code("AUTH_CREATE_FAILED").With("operation", "hash password").Wrap(err)
	}

	p, err := NewPrincipal(in.Name, email, hash, in.Role, s.now())
	if err != nil {
		return nil, err
	}

	if err := s.principals.Create(ctx, p); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, duplicateEmail(email)
		}
		return nil, oops.Code("AUTH_CREATE_FAILED").
			With("operation", "persist principal").
			Wrap(err)
	}
	return p, nil
}

// Signup creates a principal with the default role, issues its first
// token, and sends a welcome email. Welcome delivery is best effort.
func (s *Service) Signup(ctx context.Context, in CreateInput, accountURL string) (_ *Principal, _ string, err error) {
	ctx, span := s.tracer.Start(ctx, "auth.signup")
	defer func() { endSpan(span, err) }()

	in.Role = DefaultRole
	p, err := s.Create(ctx, in)
	if err != nil {
		s.events.AuthEvent(EventSignup, "failure")
		return nil, "", err
	}

	tok, err := s.issue(p)
	if err != nil {
		return nil, "", err
	}

	if err := s.notifier.SendWelcome(ctx, recipientOf(p), accountURL); err != nil {
		errutil.LogErrorContext(ctx, s.logger, "welcome email failed", err)
	}

	s.events.AuthEvent(EventSignup, "success")
	s.logger.InfoContext(ctx, "principal signed up", "principal_id", p.ID.String())
	return p, tok, nil
}

// Login checks credentials and issues a token. Unknown email and wrong
// password produce the same error.
func (s *Service) Login(ctx context.Context, email, password string) (_ *Principal, _ string, err error) {
	ctx, span := s.tracer.Start(ctx, "auth.login")
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(email) == "" || password == "" {
		return nil, "", oops.Code(CodeValidation).Errorf("Please provide email and password")
	}

	p, lookupErr := s.findActiveByEmail(ctx, email)
	if lookupErr != nil && !errors.Is(lookupErr, ErrNotFound) {
		return nil, "", oops.Code("AUTH_LOGIN_FAILED").
			With("operation", "get principal by email").
			Wrap(lookupErr)
	}

	targetHash := dummyPasswordHash
	if p != nil {
		targetHash = p.PasswordHash
	}

	// Always verify, so a missing account costs the same as a wrong password.
	valid := s.hasher.Verify(password, targetHash)
	if p == nil || !valid {
		s.events.AuthEvent(EventLogin, "failure")
		return nil, "", oops.Code(CodeInvalidCredentials).Errorf("Incorrect email or password")
	}

	if s.hasher.NeedsUpgrade(p.PasswordHash) {
		s.upgradeHash(ctx, p, password)
	}

	tok, err := s.issue(p)
	if err != nil {
		return nil, "", err
	}

	s.events.AuthEvent(EventLogin, "success")
	return p, tok, nil
}

// upgradeHash rehashes a password stored with an outdated algorithm. The
// stored hash is swapped without touching PasswordChangedAt, so existing
// tokens stay valid. Failures are logged only.
func (s *Service) upgradeHash(ctx context.Context, p *Principal, password string) {
	newHash, err := s.hasher.Hash(password)
	if err != nil {
		errutil.LogErrorContext(ctx, s.logger, "password rehash failed", err)
		return
	}
	if err := s.principals.UpgradePasswordHash(ctx, p.ID, p.PasswordHash, newHash); err != nil {
		errutil.LogErrorContext(ctx, s.logger, "password rehash not stored", err)
		return
	}
	p.PasswordHash = newHash
}

// Authenticate resolves a raw bearer token to the active principal it was
// issued for. Every failure is a CodeUnauthorized error whose "reason"
// context tells which stage rejected the token.
func (s *Service) Authenticate(ctx context.Context, raw string) (*Principal, error) {
	ctx, span := s.tracer.Start(ctx, "auth.authenticate")
	p, err := s.authenticate(ctx, raw)
	endSpan(span, err)
	if err != nil {
		s.events.AuthEvent(EventAuthenticate, "failure")
		return nil, err
	}
	s.events.AuthEvent(EventAuthenticate, "success")
	return p, nil
}

func (s *Service) authenticate(ctx context.Context, raw string) (*Principal, error) {
	if raw == "" {
		return nil, NoTokenError()
	}

	claims, status := s.tokens.Verify(raw)
	switch status {
	case token.StatusValid:
	case token.StatusExpired:
		return nil, unauthorized(ReasonExpiredToken, "Your token has expired. Please log in again")
	default:
		return nil, unauthorized(ReasonInvalidToken, "Invalid token! Please log in to get access")
	}

	id, err := ulid.Parse(claims.Subject)
	if err != nil {
		return nil, unauthorized(ReasonInvalidToken, "Invalid token! Please log in to get access")
	}

	p, err := s.FindActivePrincipal(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, unauthorized(ReasonSubjectGone, "The user belonging to this token no longer exists.")
		}
		return nil, oops.Code("AUTH_AUTHENTICATE_FAILED").
			With("operation", "load token subject").
			With("principal_id", id.String()).
			Wrap(err)
	}

	if p.IsStale(claims.IssuedAt.Time, claims.CredentialVersion) {
		return nil, unauthorized(ReasonStaleToken, "User has recently changed their password, please log in again")
	}

	return p, nil
}

// FindActivePrincipal loads a principal by ID, treating deactivated
// principals as missing.
func (s *Service) FindActivePrincipal(ctx context.Context, id ulid.ULID) (*Principal, error) {
	p, err := s.principals.GetByID(ctx, id)
	if err != nil {
		return nil, err //nolint:wrapcheck // callers branch on ErrNotFound
	}
	if !p.Active {
		return nil, oops.With("principal_id", id.String()).Wrap(ErrNotFound)
	}
	return p, nil
}

func (s *Service) findActiveByEmail(ctx context.Context, email string) (*Principal, error) {
	p, err := s.principals.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, err //nolint:wrapcheck // callers branch on ErrNotFound
	}
	if !p.Active {
		return nil, oops.With("email", p.Email).Wrap(ErrNotFound)
	}
	return p, nil
}

// ChangePassword re-verifies the current password, stores the new one and
// returns a token that stays valid after the change. Every token issued
// before the change becomes stale.
func (s *Service) ChangePassword(ctx context.Context, id ulid.ULID, currentPassword, newPassword, newPasswordConfirm string) (_ string, err error) {
	ctx, span := s.tracer.Start(ctx, "auth.change_password",
		trace.WithAttributes(attribute.String("principal.id", id.String())))
	defer func() { endSpan(span, err) }()

	p, err := s.FindActivePrincipal(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return "", unauthorized(ReasonSubjectGone, "The user belonging to this token no longer exists.")
		}
		return "", oops.Code("AUTH_PASSWORD_CHANGE_FAILED").With("operation", "load principal").Wrap(err)
	}

	if currentPassword == "" || !s.hasher.Verify(currentPassword, p.PasswordHash) {
		s.events.AuthEvent(EventPasswordChange, "failure")
		return "", oops.Code(CodeInvalidCredentials).Errorf("Incorrect password. Password change failed.")
	}

	if err := ValidateNewPassword(newPassword, newPasswordConfirm); err != nil {
		s.events.AuthEvent(EventPasswordChange, "failure")
		return "", err
	}

	if err := s.storeNewPassword(ctx, p, newPassword, ""); err != nil {
		return "", err
	}

	tok, err := s.issue(p)
	if err != nil {
		return "", err
	}

	s.events.AuthEvent(EventPasswordChange, "success")
	s.logger.InfoContext(ctx, "password changed", "principal_id", p.ID.String())
	return tok, nil
}

// storeNewPassword hashes and persists a new password, updating p in place.
// A non-empty ticketHash makes the write conditional on that reset ticket
// still being pending.
func (s *Service) storeNewPassword(ctx context.Context, p *Principal, password, ticketHash string) error {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		return oops.Code("AUTH_PASSWORD_CHANGE_FAILED").With("operation", "hash password").Wrap(err)
	}

	changedAt := PasswordChangeTime(s.now())
	var version int
	if ticketHash == "" {
		version, err = s.principals.UpdatePassword(ctx, p.ID, hash, changedAt)
	} else {
		version, err = s.principals.ResetPassword(ctx, p.ID, ticketHash, hash, changedAt)
	}
	if err != nil {
		if ticketHash != "" && errors.Is(err, ErrNotFound) {
			return oops.Code(CodeResetTokenInvalid).Errorf("Token is invalid")
		}
		return oops.Code("AUTH_PASSWORD_CHANGE_FAILED").
			With("operation", "store password").
			With("principal_id", p.ID.String()).
			Wrap(err)
	}

	p.PasswordHash = hash
	p.PasswordChangedAt = &changedAt
	p.CredentialVersion = version
	p.ResetTicket = nil
	return nil
}

// BeginPasswordReset stores a fresh reset ticket for the principal owning
// email and mails it using the link built by resetURL. If delivery fails
// the stored ticket is cleared again. Returns the plaintext ticket.
//
// An unknown email yields CodeNotFound. Unlike Login this reveals whether
// the account exists; see DESIGN.md.
func (s *Service) BeginPasswordReset(ctx context.Context, email string, resetURL func(ticket string) string) (_ string, err error) {
	ctx, span := s.tracer.Start(ctx, "auth.begin_password_reset")
	defer func() { endSpan(span, err) }()

	if strings.TrimSpace(email) == "" {
		return "", oops.Code(CodeValidation).With("field", "email").Errorf("Please provide an email address")
	}

	p, err := s.findActiveByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.events.AuthEvent(EventResetRequest, "failure")
			return "", oops.Code(CodeNotFound).Errorf("Unable to find user with that email address")
		}
		return "", oops.Code("RESET_REQUEST_FAILED").With("operation", "get principal by email").Wrap(err)
	}

	ticket, hash, err := GenerateResetTicket()
	if err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").With("operation", "generate ticket").Wrap(err)
	}

	// Last write wins: a second request overwrites the first pending ticket.
	if err := s.principals.SetResetTicket(ctx, p.ID, NewResetTicketDigest(hash, s.now())); err != nil {
		return "", oops.Code("RESET_REQUEST_FAILED").
			With("operation", "store ticket").
			With("principal_id", p.ID.String()).
			Wrap(err)
	}

	if err := s.notifier.SendPasswordReset(ctx, recipientOf(p), resetURL(ticket)); err != nil {
		errutil.LogErrorContext(ctx, s.logger, "password reset email failed", err)
		if clearErr := s.principals.SetResetTicket(ctx, p.ID, nil); clearErr != nil {
			errutil.LogErrorContext(ctx, s.logger, "reset ticket rollback failed", clearErr)
		}
		s.events.AuthEvent(EventResetRequest, "failure")
		return "", oops.Code(CodeDeliveryFailed).
			With("principal_id", p.ID.String()).
			Errorf("There was an error sending the password reset token to email address %s", p.Email)
	}

	s.events.AuthEvent(EventResetRequest, "success")
	s.logger.InfoContext(ctx, "password reset requested", "principal_id", p.ID.String())
	return ticket, nil
}

// ConsumePasswordReset sets a new password using a reset ticket. A ticket
// works at most once; an expired ticket is cleared so it cannot be retried.
func (s *Service) ConsumePasswordReset(ctx context.Context, ticket, newPassword, newPasswordConfirm string) (*Principal, string, error) {
	ctx, span := s.tracer.Start(ctx, "auth.consume_password_reset")
	defer span.End()

	p, tok, err := s.consumePasswordReset(ctx, ticket, newPassword, newPasswordConfirm)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errutil.Code(err))
		s.events.AuthEvent(EventResetConsume, "failure")
		return nil, "", err
	}
	s.events.AuthEvent(EventResetConsume, "success")
	s.logger.InfoContext(ctx, "password reset completed", "principal_id", p.ID.String())
	return p, tok, nil
}

func (s *Service) consumePasswordReset(ctx context.Context, ticket, newPassword, newPasswordConfirm string) (*Principal, string, error) {
	if ticket == "" {
		return nil, "", oops.Code(CodeResetTokenInvalid).Errorf("Token is invalid")
	}

	hash := HashResetTicket(ticket)
	p, err := s.principals.GetByResetTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, "", oops.Code(CodeResetTokenInvalid).Errorf("Token is invalid")
		}
		return nil, "", oops.Code("RESET_CONSUME_FAILED").With("operation", "get principal by ticket").Wrap(err)
	}
	if !p.Active {
		return nil, "", oops.Code(CodeResetTokenInvalid).Errorf("Token is invalid")
	}

	if p.ResetTicket == nil || p.ResetTicket.ExpiredAt(s.now()) {
		if err := s.principals.SetResetTicket(ctx, p.ID, nil); err != nil {
			return nil, "", oops.Code("RESET_CONSUME_FAILED").
				With("operation", "clear expired ticket").
				With("principal_id", p.ID.String()).
				Wrap(err)
		}
		return nil, "", oops.Code(CodeResetTokenExpired).Errorf("Token to reset password has expired. Please request a new one")
	}

	if err := ValidateNewPassword(newPassword, newPasswordConfirm); err != nil {
		return nil, "", err
	}

	if err := s.storeNewPassword(ctx, p, newPassword, hash); err != nil {
		return nil, "", err
	}

	tok, err := s.issue(p)
	if err != nil {
		return nil, "", err
	}
	return p, tok, nil
}

// UpdateProfile changes name and email of an active principal.
func (s *Service) UpdateProfile(ctx context.Context, id ulid.ULID, name, email string) (*Principal, error) {
	p, err := s.FindActivePrincipal(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, unauthorized(ReasonSubjectGone, "The user belonging to this token no longer exists.")
		}
		return nil, oops.Code("AUTH_PROFILE_UPDATE_FAILED").With("operation", "load principal").Wrap(err)
	}

	if name == "" {
		name = p.Name
	}
	if err := ValidateName(name); err != nil {
		return nil, err
	}
	if email == "" {
		email = p.Email
	}
	normalized, err := NormalizeEmail(email)
	if err != nil {
		return nil, err
	}

	if err := s.principals.UpdateProfile(ctx, id, strings.TrimSpace(name), normalized); err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			return nil, duplicateEmail(normalized)
		}
		return nil, oops.Code("AUTH_PROFILE_UPDATE_FAILED").
			With("operation", "update profile").
			With("principal_id", id.String()).
			Wrap(err)
	}

	p.Name = strings.TrimSpace(name)
	p.Email = normalized
	return p, nil
}

// Deactivate soft-deletes a principal. Its tokens stop authenticating.
func (s *Service) Deactivate(ctx context.Context, id ulid.ULID) error {
	if err := s.principals.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, ErrNotFound) {
			return oops.Code(CodeNotFound).Errorf("No user found with that ID")
		}
		return oops.Code("AUTH_DEACTIVATE_FAILED").With("principal_id", id.String()).Wrap(err)
	}
	s.logger.InfoContext(ctx, "principal deactivated", "principal_id", id.String())
	return nil
}

// GetPrincipal loads any principal, active or not, for administrative views.
func (s *Service) GetPrincipal(ctx context.Context, id ulid.ULID) (*Principal, error) {
	p, err := s.principals.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, oops.Code(CodeNotFound).Errorf("No user found with that ID")
		}
		return nil, oops.Code("AUTH_GET_FAILED").With("principal_id", id.String()).Wrap(err)
	}
	return p, nil
}

func (s *Service) issue(p *Principal) (string, error) {
	tok, err := s.tokens.Issue(p.ID.String(), p.CredentialVersion)
	if err != nil {
		return "", oops.Code("AUTH_TOKEN_ISSUE_FAILED").
			With("principal_id", p.ID.String()).
			Wrap(err)
	}
	return tok, nil
}

// NoTokenError is the CodeUnauthorized error for a request that carries no
// bearer token.
func NoTokenError() error {
	return unauthorized(ReasonNoToken, "You are not authorized. Please log in to get access")
}

func unauthorized(reason, msg string) error {
	return oops.Code(CodeUnauthorized).With("reason", reason).Errorf("%s", msg)
}

func duplicateEmail(email string) error {
	return oops.Code(CodeValidation).
		With("field", "email").
		Errorf("Duplicate field value email (%s), please use another value", email)
}

// endSpan ends span, marking it failed when err is set. The status carries
// the error code only; messages can name an email address.
func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, errutil.Code(err))
	}
	span.End()
}

func recipientOf(p *Principal) Recipient {
	return Recipient{Name: p.Name, Email: p.Email}
}
