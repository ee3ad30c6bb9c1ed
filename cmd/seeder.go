package cmd

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"time"

	"github.com/frahmantamala/campus-complaints/internal/auth"
	authPostgres "github.com/frahmantamala/campus-complaints/internal/auth/postgres"
	complaintDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/complaint"
	profileDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/profile"
	userDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/user"
	"github.com/frahmantamala/campus-complaints/pkg/logger"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

const seedPassword = "password"

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample accounts and complaints for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(configPath)
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := initGorm(db)
		if err != nil {
			log.Fatalf("failed to init gorm: %v", err)
		}

		seeder := &Seeder{DB: gormDB, BCryptCost: cfg.Security.BCryptCost, Logger: logger.LoggerWrapper()}
		if err := seeder.Run(cmd.Context(), clearData); err != nil {
			log.Fatalf("seed failed: %v", err)
		}
	},
}

type seedAccount struct {
	Email      string
	FullName   string
	StudentID  string
	Department string
	IsAdmin    bool
}

type seedComplaint struct {
	Owner       string
	Title       string
	Description string
	Category    string
	Status      string
	Priority    string
	Resolution  string
}

var seedAccounts = []seedAccount{
	{Email: "admin@campus.edu", FullName: "Campus Admin", Department: "Student Affairs", IsAdmin: true},
	{Email: "ana@campus.edu", FullName: "Ana Putri", StudentID: "2021001", Department: "Computer Science"},
	{Email: "budi@campus.edu", FullName: "Budi Santoso", StudentID: "2021002", Department: "Civil Engineering"},
}

var seedComplaints = []seedComplaint{
	{Owner: "ana@campus.edu", Title: "Projector broken in room 204", Description: "The projector has not turned on for a week.", Category: "infrastructure", Status: "pending", Priority: "high"},
	{Owner: "ana@campus.edu", Title: "Library closes too early", Description: "Opening hours end before evening classes finish.", Category: "library", Status: "in_progress", Priority: "medium"},
	{Owner: "budi@campus.edu", Title: "Hostel water outage", Description: "No running water on the third floor since Monday.", Category: "hostel", Status: "pending", Priority: "urgent"},
	{Owner: "budi@campus.edu", Title: "Grade not published", Description: "Final grade for Statics is missing from the portal.", Category: "academic", Status: "resolved", Priority: "low", Resolution: "Grade uploaded by the faculty office."},
}

// Seeder provisions sample accounts, profiles and complaints. Existing
// accounts are left untouched so the command can be run repeatedly.
type Seeder struct {
	DB         *gorm.DB
	BCryptCost int
	Logger     *slog.Logger
}

func (s *Seeder) Run(ctx context.Context, clear bool) error {
	if ctx == nil {
		ctx = context.Background()
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clear {
			if err := clearTables(tx); err != nil {
				return err
			}
			s.Logger.Info("cleared existing data")
		}

		users := authPostgres.NewRepository(tx)
		owners := make(map[string]string, len(seedAccounts))
		for _, account := range seedAccounts {
			id, created, err := s.ensureAccount(ctx, users, tx, account)
			if err != nil {
				return err
			}
			owners[account.Email] = id
			if created {
				s.Logger.Info("seeded account", "email", account.Email, "is_admin", account.IsAdmin)
			}
		}

		var existing int64
		if err := tx.Model(&complaintDatamodel.Complaint{}).Count(&existing).Error; err != nil {
			return fmt.Errorf("count complaints: %w", err)
		}
		if existing > 0 {
			s.Logger.Info("complaints already present, skipping", "count", existing)
			return nil
		}

		now := time.Now().UTC()
		for i, c := range seedComplaints {
			row := &complaintDatamodel.Complaint{
				ID:          uuid.NewString(),
				UserID:      owners[c.Owner],
				Title:       c.Title,
				Description: c.Description,
				Category:    c.Category,
				Status:      c.Status,
				Priority:    c.Priority,
				CreatedAt:   now.Add(-time.Duration(len(seedComplaints)-i) * time.Hour),
			}
			row.UpdatedAt = row.CreatedAt
			if c.Resolution != "" {
				resolution := c.Resolution
				row.Resolution = &resolution
				row.ResolvedAt = &now
			}
			if err := tx.Create(row).Error; err != nil {
				return fmt.Errorf("insert complaint %q: %w", c.Title, err)
			}
		}
		s.Logger.Info("seeded complaints", "count", len(seedComplaints))
		return nil
	})
}

func (s *Seeder) ensureAccount(ctx context.Context, users *authPostgres.Repository, tx *gorm.DB, account seedAccount) (string, bool, error) {
	existing, err := users.GetByEmail(ctx, account.Email)
	if err == nil {
		return existing.ID, false, nil
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		return "", false, fmt.Errorf("lookup %s: %w", account.Email, err)
	}

	hash, err := auth.HashPassword(seedPassword, s.BCryptCost)
	if err != nil {
		return "", false, err
	}

	user := &userDatamodel.User{
		ID:           uuid.NewString(),
		Email:        account.Email,
		PasswordHash: hash,
		IsAdmin:      account.IsAdmin,
		IsActive:     true,
	}
	if err := users.Create(ctx, user); err != nil {
		return "", false, fmt.Errorf("insert user %s: %w", account.Email, err)
	}

	p := &profileDatamodel.Profile{
		ID:       uuid.NewString(),
		UserID:   user.ID,
		FullName: account.FullName,
		Email:    account.Email,
	}
	if account.StudentID != "" {
		studentID := account.StudentID
		p.StudentID = &studentID
	}
	if account.Department != "" {
		department := account.Department
		p.Department = &department
	}
	if err := tx.Create(p).Error; err != nil {
		return "", false, fmt.Errorf("insert profile %s: %w", account.Email, err)
	}

	return user.ID, true, nil
}

func clearTables(tx *gorm.DB) error {
	for _, model := range []interface{}{&complaintDatamodel.Complaint{}, &profileDatamodel.Profile{}, &userDatamodel.User{}} {
		if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
			return fmt.Errorf("clear %T: %w", model, err)
		}
	}
	return nil
}
