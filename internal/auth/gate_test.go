package auth

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"

	"github.com/frahmantamala/campus-complaints/internal"
	"github.com/frahmantamala/campus-complaints/internal/transport"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
)

type stubService struct {
	identity *Identity
	err      error
}

func (s *stubService) Authenticate(context.Context, LoginDTO) (AuthTokens, error) {
	return AuthTokens{AccessToken: "a", RefreshToken: "r"}, s.err
}

func (s *stubService) RefreshTokens(context.Context, string) (AuthTokens, error) {
	return AuthTokens{AccessToken: "a2", RefreshToken: "r2"}, s.err
}

func (s *stubService) ResolveIdentity(context.Context, string) (*Identity, error) {
	return s.identity, s.err
}

func jsonBody(s string) io.Reader {
	return strings.NewReader(s)
}

var _ = ginkgo.Describe("Decide", func() {
	student := &Identity{UserID: "u1"}
	admin := &Identity{UserID: "u2", IsAdmin: true}

	ginkgo.DescribeTable("maps identity and capability to a decision",
		func(identity *Identity, required Capability, expected Decision) {
			gomega.Expect(Decide(identity, required)).To(gomega.Equal(expected))
		},
		ginkgo.Entry("anonymous on a member route", nil, CapabilityAuthenticated, DecisionRedirectToAuth),
		ginkgo.Entry("anonymous on an admin route", nil, CapabilityAdmin, DecisionRedirectToAuth),
		ginkgo.Entry("student on a member route", student, CapabilityAuthenticated, DecisionAllow),
		ginkgo.Entry("student on an admin route", student, CapabilityAdmin, DecisionDeny),
		ginkgo.Entry("admin on a member route", admin, CapabilityAuthenticated, DecisionAllow),
		ginkgo.Entry("admin on an admin route", admin, CapabilityAdmin, DecisionAllow),
	)
})

var _ = ginkgo.Describe("Gate and AuthMiddleware", func() {
	var (
		base    *transport.BaseHandler
		stub    *stubService
		handler *Handler
		reached *Identity
		final   http.Handler
	)

	ginkgo.BeforeEach(func() {
		base = transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
		stub = &stubService{}
		handler = &Handler{BaseHandler: base, Service: stub}
		reached = nil
		final = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reached = IdentityFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})
	})

	serve := func(h http.Handler, token string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/complaints", nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		w := httptest.NewRecorder()
		h.ServeHTTP(w, req)
		return w
	}

	ginkgo.It("answers anonymous requests with a sign-in redirect", func() {
		w := serve(handler.AuthMiddleware(Gate(base, CapabilityAuthenticated)(final)), "")

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		var body map[string]interface{}
		gomega.Expect(json.Unmarshal(w.Body.Bytes(), &body)).To(gomega.Succeed())
		gomega.Expect(body["redirect"]).To(gomega.Equal(SignInPath))
	})

	ginkgo.It("denies students on admin routes", func() {
		stub.identity = &Identity{UserID: "u1"}
		w := serve(handler.AuthMiddleware(Gate(base, CapabilityAdmin)(final)), "token")

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusForbidden))
		gomega.Expect(reached).To(gomega.BeNil())
	})

	ginkgo.It("passes the identity through on allow", func() {
		stub.identity = &Identity{UserID: "u2", IsAdmin: true}
		w := serve(handler.AuthMiddleware(Gate(base, CapabilityAdmin)(final)), "token")

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		gomega.Expect(reached).To(gomega.Equal(stub.identity))
	})

	ginkgo.It("rejects invalid tokens before the gate", func() {
		stub.err = internal.ErrTokenExpired
		w := serve(handler.AuthMiddleware(Gate(base, CapabilityAuthenticated)(final)), "stale")

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
		gomega.Expect(w.Body.String()).To(gomega.ContainSubstring(string(internal.ErrCodeTokenExpired)))
	})

	ginkgo.It("returns the session identity", func() {
		stub.identity = &Identity{UserID: "u1", Email: "student@campus.edu"}
		w := serve(handler.AuthMiddleware(http.HandlerFunc(handler.Session)), "token")

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusOK))
		var resp SessionResponse
		gomega.Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(gomega.Succeed())
		gomega.Expect(resp.Identity.Email).To(gomega.Equal("student@campus.edu"))
	})

	ginkgo.It("signs out with 204 for a valid token", func() {
		stub.identity = &Identity{UserID: "u1"}
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/logout", nil)
		req.Header.Set("Authorization", "Bearer token")
		w := httptest.NewRecorder()

		handler.Logout(w, req)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusNoContent))
	})

	ginkgo.It("maps failed logins onto 401", func() {
		stub.err = internal.ErrInvalidCredentials
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", jsonBody(`{"email":"a@b.c","password":"x"}`))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusUnauthorized))
	})

	ginkgo.It("hides unexpected errors behind a 500", func() {
		stub.err = errors.New("db exploded")
		req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", jsonBody(`{"email":"a@b.c","password":"x"}`))
		w := httptest.NewRecorder()

		handler.Login(w, req)

		gomega.Expect(w.Code).To(gomega.Equal(http.StatusInternalServerError))
		gomega.Expect(w.Body.String()).ToNot(gomega.ContainSubstring("exploded"))
	})
})
