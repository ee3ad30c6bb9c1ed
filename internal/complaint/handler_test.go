package complaint

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
	"github.com/frahmantamala/campus-complaints/internal/auth"
	"github.com/frahmantamala/campus-complaints/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type stubService struct {
	own        []Complaint
	all        []ComplaintWithProfile
	err        error
	lastCreate CreateComplaintDTO
	lastID     string
}

func (s *stubService) ListOwnComplaints(context.Context, *auth.Identity) ([]Complaint, error) {
	return s.own, s.err
}

func (s *stubService) ListAllComplaints(context.Context, *auth.Identity) ([]ComplaintWithProfile, error) {
	return s.all, s.err
}

func (s *stubService) GetComplaint(_ context.Context, _ *auth.Identity, id string) (*ComplaintWithProfile, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &ComplaintWithProfile{Complaint: Complaint{ID: id}}, nil
}

func (s *stubService) CreateComplaint(_ context.Context, identity *auth.Identity, dto CreateComplaintDTO) (*Complaint, error) {
	s.lastCreate = dto
	if s.err != nil {
		return nil, s.err
	}
	return &Complaint{ID: "new", UserID: identity.UserID, Title: dto.Title, Status: StatusPending}, nil
}

func (s *stubService) UpdateComplaint(_ context.Context, _ *auth.Identity, id string, _ UpdateComplaintDTO) (*Complaint, error) {
	s.lastID = id
	if s.err != nil {
		return nil, s.err
	}
	return &Complaint{ID: id, Status: StatusResolved}, nil
}

func (s *stubService) DeleteComplaint(_ context.Context, _ *auth.Identity, id string) error {
	s.lastID = id
	return s.err
}

func (s *stubService) ComputeStats(context.Context, *auth.Identity) (*Stats, error) {
	return &Stats{Total: 1, Pending: 1}, s.err
}

func (s *stubService) StudentDashboard(context.Context, *auth.Identity) (*StudentDashboard, error) {
	return &StudentDashboard{Recent: s.own}, s.err
}

func (s *stubService) AdminDashboard(context.Context, *auth.Identity) (*AdminDashboard, error) {
	return &AdminDashboard{Recent: s.all, Urgent: []ComplaintWithProfile{}}, s.err
}

var _ = Describe("Handler", func() {
	var (
		stub    *stubService
		handler *Handler
		router  chi.Router
	)

	BeforeEach(func() {
		stub = &stubService{}
		handler = NewHandler(transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil))), stub)
		router = chi.NewRouter()
		router.Get("/complaints", handler.ListOwnComplaints)
		router.Post("/complaints", handler.CreateComplaint)
		router.Get("/complaints/{id}", handler.GetComplaint)
		router.Delete("/complaints/{id}", handler.DeleteComplaint)
		router.Patch("/admin/complaints/{id}", handler.UpdateComplaint)
		router.Get("/dashboard", handler.GetDashboard)
	})

	serve := func(method, target, body string, identity *auth.Identity) *httptest.ResponseRecorder {
		var reader io.Reader
		if body != "" {
			reader = strings.NewReader(body)
		}
		req := httptest.NewRequest(method, target, reader)
		if identity != nil {
			req = req.WithContext(auth.ContextWithIdentity(req.Context(), identity))
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	student := &auth.Identity{UserID: "u-student"}
	id := "11111111-1111-4111-8111-111111111111"

	It("filters listed complaints by query parameters", func() {
		stub.own = []Complaint{
			{ID: "1", Title: "Broken chair", Status: StatusPending},
			{ID: "2", Title: "Slow wifi", Status: StatusResolved},
		}

		w := serve(http.MethodGet, "/complaints?status=resolved", "", student)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp ListResponse[Complaint]
		Expect(json.Unmarshal(w.Body.Bytes(), &resp)).To(Succeed())
		Expect(resp.Count).To(Equal(1))
		Expect(resp.Complaints[0].ID).To(Equal("2"))
	})

	It("creates complaints with 201", func() {
		w := serve(http.MethodPost, "/complaints", `{"title":"Leak","description":"Roof","category":"infrastructure"}`, student)

		Expect(w.Code).To(Equal(http.StatusCreated))
		Expect(stub.lastCreate.Category).To(Equal(CategoryInfrastructure))
	})

	It("ignores a status smuggled into the create body", func() {
		w := serve(http.MethodPost, "/complaints", `{"title":"Leak","description":"Roof","category":"other","status":"resolved"}`, student)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var c Complaint
		Expect(json.Unmarshal(w.Body.Bytes(), &c)).To(Succeed())
		Expect(c.Status).To(Equal(StatusPending))
	})

	It("answers malformed bodies with 400", func() {
		w := serve(http.MethodPost, "/complaints", `{"title":`, student)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("maps validation errors onto 400", func() {
		stub.err = internal.NewValidationFieldError("title", "title is required", internal.ErrCodeValidationFailed)
		w := serve(http.MethodPost, "/complaints", `{"title":""}`, student)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("treats malformed ids as not found without calling the service", func() {
		w := serve(http.MethodGet, "/complaints/not-a-uuid", "", student)

		Expect(w.Code).To(Equal(http.StatusNotFound))
		Expect(stub.lastID).To(BeEmpty())
	})

	It("maps authorization failures onto 403", func() {
		stub.err = internal.ErrNotAuthorized
		w := serve(http.MethodGet, "/complaints/"+id, "", student)
		Expect(w.Code).To(Equal(http.StatusForbidden))
	})

	It("maps unauthenticated calls onto 401", func() {
		stub.err = internal.ErrNotAuthenticated
		w := serve(http.MethodGet, "/complaints", "", nil)
		Expect(w.Code).To(Equal(http.StatusUnauthorized))
	})

	It("deletes with 204", func() {
		w := serve(http.MethodDelete, "/complaints/"+id, "", student)

		Expect(w.Code).To(Equal(http.StatusNoContent))
		Expect(stub.lastID).To(Equal(id))
	})

	It("reports the owner delete rule as 400", func() {
		stub.err = internal.ErrCannotDelete
		w := serve(http.MethodDelete, "/complaints/"+id, "", student)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("updates through the admin route", func() {
		w := serve(http.MethodPatch, "/admin/complaints/"+id, `{"status":"resolved"}`, &auth.Identity{UserID: "u-admin", IsAdmin: true})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(stub.lastID).To(Equal(id))
	})

	It("hides store failures behind a 500", func() {
		stub.err = errors.New("pq: relation does not exist")
		w := serve(http.MethodGet, "/complaints", "", student)

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).NotTo(ContainSubstring("relation"))
	})

	It("serves the dashboard matching the caller's role", func() {
		stub.all = []ComplaintWithProfile{{Complaint: Complaint{ID: "x"}}}

		w := serve(http.MethodGet, "/dashboard", "", &auth.Identity{UserID: "u-admin", IsAdmin: true})

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring(`"urgent"`))
	})
})
