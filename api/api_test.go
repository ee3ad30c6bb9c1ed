package api_test

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/frahmantamala/campus-complaints/api"
	"github.com/frahmantamala/campus-complaints/internal/auth"
	"github.com/frahmantamala/campus-complaints/internal/category"
	"github.com/frahmantamala/campus-complaints/internal/complaint"
	"github.com/frahmantamala/campus-complaints/internal/notification"
	"github.com/frahmantamala/campus-complaints/internal/profile"
	"github.com/frahmantamala/campus-complaints/internal/transport"
	"github.com/frahmantamala/campus-complaints/internal/transport/rest"
	"github.com/getkin/kin-openapi/openapi3"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestAPI(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "API Document Suite")
}

const apiPrefix = "/api/v1"

var _ = Describe("OpenAPI document", func() {
	var doc *openapi3.T

	BeforeEach(func() {
		var err error
		doc, err = api.Load(context.Background())
		Expect(err).NotTo(HaveOccurred())
	})

	It("documents every mounted route", func() {
		base := transport.NewBaseHandler(slog.New(slog.NewTextHandler(io.Discard, nil)))
		router := chi.NewRouter()
		rest.RegisterAllRoutes(router, &sql.DB{}, rest.Handlers{
			Auth:         &auth.Handler{BaseHandler: base},
			Profile:      profile.NewHandler(base, nil),
			Complaint:    complaint.NewHandler(base, nil),
			Category:     category.NewHandler(base, nil),
			Notification: notification.NewHandler(base),
		}, rest.Options{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

		var undocumented []string
		err := chi.Walk(router, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
			if route == "/openapi.yml" || strings.HasPrefix(route, "/swagger/") {
				return nil
			}
			path := strings.TrimPrefix(route, apiPrefix)
			if len(path) > 1 {
				path = strings.TrimSuffix(path, "/")
			}
			item := doc.Paths.Find(path)
			if item == nil || item.GetOperation(method) == nil {
				undocumented = append(undocumented, method+" "+route)
			}
			return nil
		})

		Expect(err).NotTo(HaveOccurred())
		Expect(undocumented).To(BeEmpty())
	})

	It("lists the complaint enums the service accepts", func() {
		schemas := doc.Components.Schemas
		Expect(schemas["Category"].Value.Enum).To(HaveLen(len(complaint.Categories)))
		Expect(schemas["Status"].Value.Enum).To(HaveLen(len(complaint.Statuses)))
		Expect(schemas["Priority"].Value.Enum).To(HaveLen(len(complaint.Priorities)))
	})
})
