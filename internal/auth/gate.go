package auth

import (
	"net/http"

	"github.com/frahmantamala/campus-complaints/internal/transport"
	"github.com/frahmantamala/campus-complaints/pkg/logger"
)

// Capability is what a route requires of its caller.
type Capability int

const (
	CapabilityAuthenticated Capability = iota
	CapabilityAdmin
)

func (c Capability) String() string {
	if c == CapabilityAdmin {
		return "admin"
	}
	return "authenticated"
}

type Decision int

const (
	DecisionAllow Decision = iota
	DecisionRedirectToAuth
	DecisionDeny
)

func (d Decision) String() string {
	switch d {
	case DecisionAllow:
		return "allow"
	case DecisionRedirectToAuth:
		return "redirect_to_auth"
	default:
		return "deny"
	}
}

const SignInPath = "/api/v1/auth/login"

// Decide is the route gate: no identity means sign in first, and admin
// routes deny callers without the administrator flag.
func Decide(identity *Identity, required Capability) Decision {
	if identity == nil {
		return DecisionRedirectToAuth
	}
	if required == CapabilityAdmin && !identity.IsAdmin {
		return DecisionDeny
	}
	return DecisionAllow
}

type redirectResponse struct {
	Code     int    `json:"code"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

// Gate enforces Decide for a route group. It runs after AuthMiddleware.
func Gate(base *transport.BaseHandler, required Capability) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			identity := IdentityFromContext(r.Context())

			switch Decide(identity, required) {
			case DecisionAllow:
				next.ServeHTTP(w, r)
			case DecisionRedirectToAuth:
				base.WriteJSON(w, http.StatusUnauthorized, redirectResponse{
					Code:     http.StatusUnauthorized,
					Message:  "authentication required",
					Redirect: SignInPath,
				})
			default:
				// request logger already carries trace_id and user_id
				logger.From(r.Context()).Warn("gate denied request",
					"required", required.String(),
					"path", r.URL.Path)
				base.WriteError(w, http.StatusForbidden, "administrator access required")
			}
		})
	}
}
