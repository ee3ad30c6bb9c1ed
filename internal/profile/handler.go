package profile

import (
	"context"
	"net/http"

	"github.com/frahmantamala/campus-complaints/internal/auth"
	"github.com/frahmantamala/campus-complaints/internal/transport"
)

type ServiceAPI interface {
	GetOwnProfile(ctx context.Context, identity *auth.Identity) (*Profile, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	p, err := h.Service.GetOwnProfile(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, p)
}
