package complaint

import (
	"context"
	"net/http"

	"github.com/frahmantamala/campus-complaints/internal"
	"github.com/frahmantamala/campus-complaints/internal/auth"
	"github.com/frahmantamala/campus-complaints/internal/transport"
	"github.com/go-chi/chi"
	"github.com/google/uuid"
)

type ServiceAPI interface {
	ListOwnComplaints(ctx context.Context, identity *auth.Identity) ([]Complaint, error)
	ListAllComplaints(ctx context.Context, identity *auth.Identity) ([]ComplaintWithProfile, error)
	GetComplaint(ctx context.Context, identity *auth.Identity, id string) (*ComplaintWithProfile, error)
	CreateComplaint(ctx context.Context, identity *auth.Identity, dto CreateComplaintDTO) (*Complaint, error)
	UpdateComplaint(ctx context.Context, identity *auth.Identity, id string, dto UpdateComplaintDTO) (*Complaint, error)
	DeleteComplaint(ctx context.Context, identity *auth.Identity, id string) error
	ComputeStats(ctx context.Context, identity *auth.Identity) (*Stats, error)
	StudentDashboard(ctx context.Context, identity *auth.Identity) (*StudentDashboard, error)
	AdminDashboard(ctx context.Context, identity *auth.Identity) (*AdminDashboard, error)
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

func filterFromRequest(r *http.Request) Filter {
	q := r.URL.Query()
	return Filter{
		Search:   q.Get("search"),
		Status:   q.Get("status"),
		Category: q.Get("category"),
		Priority: q.Get("priority"),
	}
}

// complaintID reads the {id} path parameter. Malformed ids cannot match a
// row, so they are reported as not found.
func complaintID(r *http.Request) (string, error) {
	id := chi.URLParam(r, "id")
	if err := uuid.Validate(id); err != nil {
		return "", internal.ErrComplaintNotFound
	}
	return id, nil
}

func (h *Handler) ListOwnComplaints(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	complaints, err := h.Service.ListOwnComplaints(r.Context(), identity)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	complaints = FilterComplaints(complaints, filterFromRequest(r))
	h.WriteJSON(w, http.StatusOK, ListResponse[Complaint]{Complaints: complaints, Count: len(complaints)})
}

func (h *Handler) ListAllComplaints(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	complaints, err := h.Service.ListAllComplaints(r.Context(), identity)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	complaints = FilterComplaints(complaints, filterFromRequest(r))
	h.WriteJSON(w, http.StatusOK, ListResponse[ComplaintWithProfile]{Complaints: complaints, Count: len(complaints)})
}

func (h *Handler) GetComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := complaintID(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	c, err := h.Service.GetComplaint(r.Context(), auth.IdentityFromContext(r.Context()), id)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) CreateComplaint(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())

	var dto CreateComplaintDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("CreateComplaint: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.CreateComplaint(r.Context(), identity, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) UpdateComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := complaintID(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	var dto UpdateComplaintDTO
	if err := h.DecodeJSON(r, &dto); err != nil {
		h.Logger.Warn("UpdateComplaint: invalid request body", "error", err, "complaint_id", id)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	c, err := h.Service.UpdateComplaint(r.Context(), auth.IdentityFromContext(r.Context()), id, dto)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) DeleteComplaint(w http.ResponseWriter, r *http.Request) {
	id, err := complaintID(r)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}

	if err := h.Service.DeleteComplaint(r.Context(), auth.IdentityFromContext(r.Context()), id); err != nil {
		h.HandleServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Service.ComputeStats(r.Context(), auth.IdentityFromContext(r.Context()))
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	identity := auth.IdentityFromContext(r.Context())
	if identity != nil && identity.IsAdmin {
		view, err := h.Service.AdminDashboard(r.Context(), identity)
		if err != nil {
			h.HandleServiceError(w, err)
			return
		}
		h.WriteJSON(w, http.StatusOK, view)
		return
	}

	view, err := h.Service.StudentDashboard(r.Context(), identity)
	if err != nil {
		h.HandleServiceError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, view)
}
