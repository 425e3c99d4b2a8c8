// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

// Package web exposes the identity service over HTTP: a JSON API under
// /api/v1/users and a handful of server-rendered pages.
package web

import (
	"bytes"
	"context"
	"embed"
	"html/template"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"github.com/natours/identity/internal/auth"
	"github.com/natours/identity/internal/authz"
	"github.com/natours/identity/internal/csrf"
	"github.com/natours/identity/internal/ratelimit"
	"github.com/natours/identity/internal/session"
	"github.com/natours/identity/pkg/errutil"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageNames = []string{"overview", "account", "error"}

// DefaultBodyLimit caps request bodies when Config.BodyLimit is zero.
const DefaultBodyLimit int64 = 10 << 10

// AuthService is the credential lifecycle the handlers drive.
type AuthService interface {
	Signup(ctx context.Context, in auth.CreateInput, accountURL string) (*auth.Principal, string, error)
	Login(ctx context.Context, email, password string) (*auth.Principal, string, error)
	Authenticate(ctx context.Context, raw string) (*auth.Principal, error)
	ChangePassword(ctx context.Context, id ulid.ULID, currentPassword, newPassword, newPasswordConfirm string) (string, error)
	BeginPasswordReset(ctx context.Context, email string, resetURL func(ticket string) string) (string, error)
	ConsumePasswordReset(ctx context.Context, ticket, newPassword, newPasswordConfirm string) (*auth.Principal, string, error)
	UpdateProfile(ctx context.Context, id ulid.ULID, name, email string) (*auth.Principal, error)
	Deactivate(ctx context.Context, id ulid.ULID) error
	GetPrincipal(ctx context.Context, id ulid.ULID) (*auth.Principal, error)
}

// RequestRecorder counts served requests.
type RequestRecorder interface {
	HTTPRequest(method string, status int)
}

type noopRecorder struct{}

func (noopRecorder) HTTPRequest(string, int) {}

// Config holds the HTTP layer settings.
type Config struct {
	// TrustProxy makes X-Forwarded-For and X-Real-IP rewrite the client
	// address.
	TrustProxy bool
	// BodyLimit caps request bodies in bytes.
	BodyLimit int64
	// CSRFSecret keys the anti-forgery token signatures.
	CSRFSecret []byte
	// PublicURL is the origin for links sent by email. When empty the
	// links follow the Host header of the request that triggered them.
	PublicURL string
}

// Deps are the collaborators of a Handler. Limiter and Metrics are
// optional.
type Deps struct {
	Auth      AuthService
	Transport *session.Transport
	Policy    *authz.Policy
	Limiter   *ratelimit.Limiter
	Metrics   RequestRecorder
	Logger    *slog.Logger
}

// Handler serves the HTTP surface.
type Handler struct {
	cfg       Config
	auth      AuthService
	transport *session.Transport
	guard     *csrf.Guard
	policy    *authz.Policy
	limiter   *ratelimit.Limiter
	metrics   RequestRecorder
	logger    *slog.Logger
	pages     map[string]*template.Template
	now       func() time.Time
}

// NewHandler validates deps and parses the page templates.
func NewHandler(cfg Config, deps Deps) (*Handler, error) {
	if deps.Auth == nil {
		return nil, oops.Code("WEB_INVALID_CONFIG").Errorf("auth service is required")
	}
	if deps.Transport == nil {
		return nil, oops.Code("WEB_INVALID_CONFIG").Errorf("session transport is required")
	}
	if cfg.BodyLimit <= 0 {
		cfg.BodyLimit = DefaultBodyLimit
	}
	publicURL, err := parsePublicURL(cfg.PublicURL)
	if err != nil {
		return nil, err
	}
	cfg.PublicURL = publicURL

	h := &Handler{
		cfg:       cfg,
		auth:      deps.Auth,
		transport: deps.Transport,
		policy:    deps.Policy,
		limiter:   deps.Limiter,
		metrics:   deps.Metrics,
		logger:    deps.Logger,
		pages:     make(map[string]*template.Template, len(pageNames)),
		now:       time.Now,
	}
	if h.policy == nil {
		h.policy = authz.NewPolicy()
	}
	if h.metrics == nil {
		h.metrics = noopRecorder{}
	}
	if h.logger == nil {
		h.logger = slog.Default()
	}

	guard, err := csrf.NewGuard(cfg.CSRFSecret,
		csrf.WithErrorHandler(h.fail),
		csrf.WithSecure(deps.Transport.Secure),
		csrf.WithCandidate(csrfCandidate))
	if err != nil {
		return nil, err
	}
	h.guard = guard

	for _, name := range pageNames {
		tmpl, err := template.ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, oops.Code("WEB_TEMPLATE_FAILED").With("page", name).Wrap(err)
		}
		h.pages[name] = tmpl
	}
	return h, nil
}

// parsePublicURL checks that raw is an absolute http(s) origin and returns
// it without a trailing slash.
func parsePublicURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", oops.Code("WEB_INVALID_CONFIG").With("public_url", raw).Wrap(err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return "", oops.Code("WEB_INVALID_CONFIG").With("public_url", raw).
			Errorf("public url must be an absolute http or https url")
	}
	if u.RawQuery != "" || u.Fragment != "" || u.User != nil {
		return "", oops.Code("WEB_INVALID_CONFIG").With("public_url", raw).
			Errorf("public url must not carry credentials, a query or a fragment")
	}
	return strings.TrimRight(u.String(), "/"), nil
}

// Routes returns the router for the whole surface.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	if h.cfg.TrustProxy {
		r.Use(middleware.RealIP)
	}
	r.Use(h.accessLog)
	r.Use(h.recoverer)
	r.Use(h.requestContext)
	if h.limiter != nil {
		r.Use(apiOnly(h.limiter.Wrap(h.fail)))
	}
	r.Use(h.bodyLimit)
	r.Use(h.guard.Middleware)
	r.Use(h.identify)

	r.NotFound(h.notFound)
	r.MethodNotAllowed(h.methodNotAllowed)

	r.Get("/", h.overviewPage)
	r.With(h.protect).Get("/account", h.accountPage)
	r.Get("/logout", h.logoutPage)

	r.Get("/api/v1/csrf-token", h.csrfToken)
	r.Route("/api/v1/users", func(r chi.Router) {
		r.Post("/signup", h.signup)
		r.Post("/login", h.login)
		r.Get("/logout", h.logout)
		r.Post("/forgot-password", h.forgotPassword)
		r.Patch("/reset-password/{token}", h.resetPassword)

		r.Group(func(r chi.Router) {
			r.Use(h.protect)
			r.Patch("/update-my-password", h.updatePassword)
			r.With(h.permit(authz.PermReadSelf)).Get("/me", h.getMe)
			r.With(h.permit(authz.PermUpdateSelf)).Patch("/me", h.updateMe)
			r.With(h.permit(authz.PermDeleteSelf)).Delete("/me", h.deleteMe)
			r.With(h.requireRole(auth.RoleAdmin), h.permit(authz.PermReadUsers)).Get("/{id}", h.getUser)
		})
	})
	return r
}

// userView is the public shape of a principal.
type userView struct {
	ID     string    `json:"id"`
	Name   string    `json:"name"`
	Email  string    `json:"email"`
	Role   auth.Role `json:"role"`
	Active bool      `json:"active"`
}

func viewOf(p *auth.Principal) *userView {
	if p == nil {
		return nil
	}
	return &userView{
		ID:     p.ID.String(),
		Name:   p.Name,
		Email:  p.Email,
		Role:   p.Role,
		Active: p.Active,
	}
}

type pageData struct {
	Title     string
	User      *userView
	CSRFToken string
	Message   string
}

// render executes a page into a buffer first so a template failure can
// still produce a clean error response.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, status int, page string, data pageData) {
	tmpl, ok := h.pages[page]
	if !ok {
		errutil.LogErrorContext(r.Context(), h.logger, "render failed",
			oops.Code("WEB_TEMPLATE_FAILED").With("page", page).Errorf("unknown page %q", page))
		http.Error(w, internalPageMessage, http.StatusInternalServerError)
		return
	}
	if data.User == nil {
		data.User = viewOf(FromContext(r.Context()).Identity)
	}
	if data.CSRFToken == "" {
		data.CSRFToken = csrf.Token(r.Context())
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		errutil.LogErrorContext(r.Context(), h.logger, "render failed",
			oops.Code("WEB_TEMPLATE_FAILED").With("page", page).Wrap(err))
		http.Error(w, internalPageMessage, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w) //nolint:errcheck // client went away
}
