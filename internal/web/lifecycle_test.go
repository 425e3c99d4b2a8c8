// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Natours Contributors

package web_test

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2" //nolint:revive // ginkgo convention
	. "github.com/onsi/gomega"    //nolint:revive // gomega convention

	"github.com/natours/identity/internal/auth"
	"github.com/natours/identity/internal/auth/authtest"
	"github.com/natours/identity/internal/csrf"
	"github.com/natours/identity/internal/session"
	"github.com/natours/identity/internal/token"
	"github.com/natours/identity/internal/web"
)

const suiteSecret = "suite-secret-0123456789abcdef0123"

// browser is an HTTP client with a cookie jar that echoes the CSRF token.
type browser struct {
	base   string
	client *http.Client
	csrf   string
}

type reply struct {
	status int
	body   map[string]any
}

func (b *browser) send(method, path, bearer string, payload any) reply {
	GinkgoHelper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		Expect(err).NotTo(HaveOccurred())
		body = bytes.NewReader(raw)
	}
	url := path
	if strings.HasPrefix(path, "/") {
		url = b.base + path
	}
	req, err := http.NewRequest(method, url, body)
	Expect(err).NotTo(HaveOccurred())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if b.csrf != "" {
		req.Header.Set(csrf.HeaderName, b.csrf)
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := b.client.Do(req)
	Expect(err).NotTo(HaveOccurred())
	defer func() { _ = resp.Body.Close() }()

	out := reply{status: resp.StatusCode}
	raw, err := io.ReadAll(resp.Body)
	Expect(err).NotTo(HaveOccurred())
	if len(raw) > 0 && strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		Expect(json.Unmarshal(raw, &out.body)).To(Succeed())
	}
	if tok, ok := out.body["csrfToken"].(string); ok && tok != "" {
		b.csrf = tok
	}
	return out
}

func (r reply) token() string {
	tok, _ := r.body["token"].(string) //nolint:errcheck // absent means empty
	return tok
}

var _ = Describe("Credential lifecycle over HTTP", func() {
	var (
		server   *httptest.Server
		repo     *authtest.Repository
		notifier *authtest.Notifier
		clock    *authtest.Clock
		b        *browser
	)

	BeforeEach(func() {
		repo = authtest.NewRepository()
		notifier = &authtest.Notifier{}
		clock = authtest.NewClock(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))
		logger := slog.New(slog.NewTextHandler(io.Discard, nil))

		codec, err := token.NewCodec([]byte(suiteSecret), 90*24*time.Hour, token.WithClock(clock.Now))
		Expect(err).NotTo(HaveOccurred())
		hasher := auth.NewArgon2idHasher(auth.Argon2Params{Time: 1, Memory: 1024, Threads: 1})
		svc, err := auth.NewService(repo, hasher, codec, notifier,
			auth.WithClock(clock.Now), auth.WithLogger(logger))
		Expect(err).NotTo(HaveOccurred())

		h, err := web.NewHandler(web.Config{CSRFSecret: []byte(suiteSecret)}, web.Deps{
			Auth:      svc,
			Transport: session.NewTransport(codec.TTL(), session.SecureAuto, false),
			Logger:    logger,
		})
		Expect(err).NotTo(HaveOccurred())
		server = httptest.NewServer(h.Routes())

		jar, err := cookiejar.New(nil)
		Expect(err).NotTo(HaveOccurred())
		b = &browser{base: server.URL, client: &http.Client{
			Jar: jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}}

		r := b.send(http.MethodGet, "/api/v1/csrf-token", "", nil)
		Expect(r.status).To(Equal(http.StatusOK))
		b.csrf = r.body["csrfToken"].(string)
	})

	AfterEach(func() {
		server.Close()
	})

	signup := func(email string) string {
		GinkgoHelper()
		r := b.send(http.MethodPost, "/api/v1/users/signup", "", map[string]string{
			"name": "Lourdes Browning", "email": email,
			"password": "secret123", "passwordConfirm": "secret123",
		})
		Expect(r.status).To(Equal(http.StatusCreated))
		return r.token()
	}

	Describe("signup", func() {
		It("rejects a mismatched confirmation and stores nothing", func() {
			r := b.send(http.MethodPost, "/api/v1/users/signup", "", map[string]string{
				"name": "Lourdes", "email": "l@example.com",
				"password": "secret123", "passwordConfirm": "secret456",
			})
			Expect(r.status).To(Equal(http.StatusBadRequest))
			Expect(r.body["status"]).To(Equal("fail"))
			Expect(repo.Len()).To(BeZero())
		})

		It("rejects a duplicate email", func() {
			signup("dup@example.com")
			r := b.send(http.MethodPost, "/api/v1/users/signup", "", map[string]string{
				"name": "Other", "email": "DUP@example.com",
				"password": "secret123", "passwordConfirm": "secret123",
			})
			Expect(r.status).To(Equal(http.StatusBadRequest))
			Expect(repo.Len()).To(Equal(1))
		})
	})

	Describe("login and password change", func() {
		It("invalidates tokens issued before the change but not the one issued with it", func() {
			signup("hiker@example.com")

			login := b.send(http.MethodPost, "/api/v1/users/login", "", map[string]string{
				"email": "hiker@example.com", "password": "secret123",
			})
			Expect(login.status).To(Equal(http.StatusOK))
			Expect(login.body["csrfToken"]).To(Equal(b.csrf))
			old := login.token()
			Expect(old).NotTo(BeEmpty())

			Expect(b.send(http.MethodGet, "/api/v1/users/me", old, nil).status).To(Equal(http.StatusOK))

			changed := b.send(http.MethodPatch, "/api/v1/users/update-my-password", old, map[string]string{
				"currentPassword": "secret123", "password": "newsecret123", "passwordConfirm": "newsecret123",
			})
			Expect(changed.status).To(Equal(http.StatusOK))
			fresh := changed.token()
			Expect(fresh).NotTo(BeEmpty())

			Expect(b.send(http.MethodGet, "/api/v1/users/me", fresh, nil).status).To(Equal(http.StatusOK))

			stale := b.send(http.MethodGet, "/api/v1/users/me", old, nil)
			Expect(stale.status).To(Equal(http.StatusUnauthorized))
			Expect(stale.body["message"]).To(Equal("User has recently changed their password, please log in again"))
		})

		It("refuses a wrong current password", func() {
			tok := signup("careful@example.com")
			r := b.send(http.MethodPatch, "/api/v1/users/update-my-password", tok, map[string]string{
				"currentPassword": "not-it", "password": "newsecret123", "passwordConfirm": "newsecret123",
			})
			Expect(r.status).To(Equal(http.StatusUnauthorized))
			Expect(b.send(http.MethodGet, "/api/v1/users/me", tok, nil).status).To(Equal(http.StatusOK))
		})

		It("authenticates from the session cookie alone", func() {
			signup("cookie@example.com")
			Expect(b.send(http.MethodGet, "/api/v1/users/me", "", nil).status).To(Equal(http.StatusOK))

			Expect(b.send(http.MethodGet, "/api/v1/users/logout", "", nil).status).To(Equal(http.StatusOK))
			Expect(b.send(http.MethodGet, "/api/v1/users/me", "", nil).status).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("password reset", func() {
		requestReset := func(email string) string {
			GinkgoHelper()
			r := b.send(http.MethodPost, "/api/v1/users/forgot-password", "", map[string]string{"email": email})
			Expect(r.status).To(Equal(http.StatusOK))
			Expect(r.body["message"]).To(Equal("Token sent to email"))
			msg, ok := notifier.Last("reset")
			Expect(ok).To(BeTrue())
			Expect(msg.URL).To(HavePrefix(server.URL + "/api/v1/users/reset-password/"))
			return msg.URL
		}
		newPassword := map[string]string{"password": "resetpass1", "passwordConfirm": "resetpass1"}

		BeforeEach(func() {
			signup("forgetful@example.com")
		})

		It("accepts a ticket exactly once", func() {
			link := requestReset("forgetful@example.com")

			first := b.send(http.MethodPatch, link, "", newPassword)
			Expect(first.status).To(Equal(http.StatusOK))
			Expect(first.token()).NotTo(BeEmpty())
			Expect(b.send(http.MethodGet, "/api/v1/users/me", first.token(), nil).status).To(Equal(http.StatusOK))

			again := b.send(http.MethodPatch, link, "", newPassword)
			Expect(again.status).To(Equal(http.StatusBadRequest))
			Expect(again.body["message"]).To(Equal("Token is invalid"))

			login := b.send(http.MethodPost, "/api/v1/users/login", "", map[string]string{
				"email": "forgetful@example.com", "password": "resetpass1",
			})
			Expect(login.status).To(Equal(http.StatusOK))
		})

		It("rejects an expired ticket and clears it", func() {
			link := requestReset("forgetful@example.com")
			clock.Advance(11 * time.Minute)

			expired := b.send(http.MethodPatch, link, "", newPassword)
			Expect(expired.status).To(Equal(http.StatusBadRequest))
			Expect(expired.body["message"]).To(Equal("Token to reset password has expired. Please request a new one"))

			retry := b.send(http.MethodPatch, link, "", newPassword)
			Expect(retry.status).To(Equal(http.StatusBadRequest))
			Expect(retry.body["message"]).To(Equal("Token is invalid"))
		})

		It("keeps only the latest ticket", func() {
			first := requestReset("forgetful@example.com")
			second := requestReset("forgetful@example.com")
			Expect(first).NotTo(Equal(second))

			Expect(b.send(http.MethodPatch, first, "", newPassword).status).To(Equal(http.StatusBadRequest))
			Expect(b.send(http.MethodPatch, second, "", newPassword).status).To(Equal(http.StatusOK))
		})

		It("reports an unknown email", func() {
			r := b.send(http.MethodPost, "/api/v1/users/forgot-password", "", map[string]string{"email": "ghost@example.com"})
			Expect(r.status).To(Equal(http.StatusNotFound))
			Expect(notifier.Messages()).To(HaveLen(1), "only the welcome mail was sent")
		})
	})

	Describe("cross-site requests", func() {
		It("rejects a state change without the echoed token", func() {
			b.csrf = ""
			r := b.send(http.MethodPost, "/api/v1/users/login", "", map[string]string{
				"email": "x@example.com", "password": "whatever1",
			})
			Expect(r.status).To(Equal(http.StatusForbidden))
			Expect(r.body["message"]).To(Equal("Invalid or missing CSRF token"))
		})
	})

	Describe("browser pages", func() {
		It("redirects home after logout", func() {
			signup("pages@example.com")
			req, err := http.NewRequest(http.MethodGet, server.URL+"/logout", nil)
			Expect(err).NotTo(HaveOccurred())
			resp, err := b.client.Do(req)
			Expect(err).NotTo(HaveOccurred())
			_ = resp.Body.Close()
			Expect(resp.StatusCode).To(Equal(http.StatusFound))
			Expect(resp.Header.Get("Location")).To(Equal("/"))

			Expect(b.send(http.MethodGet, "/api/v1/users/me", "", nil).status).To(Equal(http.StatusUnauthorized))
		})
	})
})
