package category

import (
	"net/http"

	"github.com/frahmantamala/campus-complaints/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetCatalogue() CategoriesResponse
	GetCategoryByName(name string) (*Option, bool)
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

func (h *Handler) GetCategories(w http.ResponseWriter, r *http.Request) {
	h.WriteJSON(w, http.StatusOK, h.Service.GetCatalogue())
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	option, ok := h.Service.GetCategoryByName(name)
	if !ok {
		h.WriteError(w, http.StatusNotFound, "category not found")
		return
	}
	h.WriteJSON(w, http.StatusOK, option)
}
