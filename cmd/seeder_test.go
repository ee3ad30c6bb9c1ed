package cmd

import (
	"context"
	"io"
	"log/slog"
	"testing"

	complaintDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/complaint"
	profileDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/profile"
	userDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/user"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"
)

func TestCmd(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Cmd Suite")
}

var _ = Describe("Seeder", func() {
	var (
		db     *gorm.DB
		seeder *Seeder
	)

	BeforeEach(func() {
		var err error
		db, err = gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{Logger: gormLogger.Discard})
		Expect(err).NotTo(HaveOccurred())
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		sqlDB.SetMaxOpenConns(1)
		Expect(db.AutoMigrate(&userDatamodel.User{}, &profileDatamodel.Profile{}, &complaintDatamodel.Complaint{})).To(Succeed())

		seeder = &Seeder{DB: db, BCryptCost: bcrypt.MinCost, Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	})

	count := func(model interface{}) int64 {
		var n int64
		Expect(db.Model(model).Count(&n).Error).To(Succeed())
		return n
	}

	It("provisions accounts with profiles and sample complaints", func() {
		Expect(seeder.Run(context.Background(), false)).To(Succeed())

		Expect(count(&userDatamodel.User{})).To(BeEquivalentTo(len(seedAccounts)))
		Expect(count(&profileDatamodel.Profile{})).To(BeEquivalentTo(len(seedAccounts)))
		Expect(count(&complaintDatamodel.Complaint{})).To(BeEquivalentTo(len(seedComplaints)))

		var admin userDatamodel.User
		Expect(db.Where("email = ?", "admin@campus.edu").First(&admin).Error).To(Succeed())
		Expect(admin.IsAdmin).To(BeTrue())
		Expect(bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(seedPassword))).To(Succeed())
	})

	It("is idempotent", func() {
		Expect(seeder.Run(context.Background(), false)).To(Succeed())
		Expect(seeder.Run(context.Background(), false)).To(Succeed())

		Expect(count(&userDatamodel.User{})).To(BeEquivalentTo(len(seedAccounts)))
		Expect(count(&complaintDatamodel.Complaint{})).To(BeEquivalentTo(len(seedComplaints)))
	})

	It("starts over when asked to clear", func() {
		Expect(seeder.Run(context.Background(), false)).To(Succeed())
		var before userDatamodel.User
		Expect(db.Where("email = ?", "ana@campus.edu").First(&before).Error).To(Succeed())

		Expect(seeder.Run(context.Background(), true)).To(Succeed())

		var after userDatamodel.User
		Expect(db.Where("email = ?", "ana@campus.edu").First(&after).Error).To(Succeed())
		Expect(after.ID).NotTo(Equal(before.ID))
		Expect(count(&complaintDatamodel.Complaint{})).To(BeEquivalentTo(len(seedComplaints)))
	})

	It("stamps resolved samples with a resolution time", func() {
		Expect(seeder.Run(context.Background(), false)).To(Succeed())

		var resolved []complaintDatamodel.Complaint
		Expect(db.Where("status = ?", "resolved").Find(&resolved).Error).To(Succeed())
		Expect(resolved).NotTo(BeEmpty())
		for _, c := range resolved {
			Expect(c.ResolvedAt).NotTo(BeNil())
			Expect(c.Resolution).NotTo(BeNil())
		}
	})
})
