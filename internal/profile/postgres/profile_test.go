package postgres

import (
	"context"
	"testing"

	profileDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/profile"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func TestProfileRepository(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "ProfileRepository Suite")
}

var _ = Describe("ProfileRepository", func() {
	var (
		db   *gorm.DB
		repo *ProfileRepository
		ctx  context.Context
	)

	BeforeEach(func() {
		var err error
		ctx = context.Background()
		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
		Expect(err).NotTo(HaveOccurred())
		Expect(db.AutoMigrate(&profileDatamodel.Profile{})).To(Succeed())

		repo = NewProfileRepository(db)
		studentID := "S-1001"
		Expect(repo.Create(ctx, &profileDatamodel.Profile{ID: "p1", UserID: "u1", FullName: "Ana Student", StudentID: &studentID, Email: "ana@campus.edu"})).To(Succeed())
		Expect(repo.Create(ctx, &profileDatamodel.Profile{ID: "p2", UserID: "u2", FullName: "Ben Student", Email: "ben@campus.edu"})).To(Succeed())
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	Describe("GetByUserID", func() {
		It("returns the matching profile", func() {
			p, err := repo.GetByUserID(ctx, "u1")
			Expect(err).NotTo(HaveOccurred())
			Expect(p.FullName).To(Equal("Ana Student"))
			Expect(*p.StudentID).To(Equal("S-1001"))
		})

		It("returns nil without error when absent", func() {
			p, err := repo.GetByUserID(ctx, "nobody")
			Expect(err).NotTo(HaveOccurred())
			Expect(p).To(BeNil())
		})
	})

	Describe("ListByUserIDs", func() {
		It("returns only the requested owners", func() {
			profiles, err := repo.ListByUserIDs(ctx, []string{"u1", "u3"})
			Expect(err).NotTo(HaveOccurred())
			Expect(profiles).To(HaveLen(1))
			Expect(profiles[0].UserID).To(Equal("u1"))
		})

		It("skips the query for an empty id set", func() {
			profiles, err := repo.ListByUserIDs(ctx, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(profiles).To(BeEmpty())
		})
	})
})
