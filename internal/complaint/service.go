package complaint

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/campus-complaints/internal"
	"github.com/frahmantamala/campus-complaints/internal/auth"
	complaintDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/complaint"
	"github.com/frahmantamala/campus-complaints/internal/core/events"
	"github.com/frahmantamala/campus-complaints/internal/profile"
	"github.com/frahmantamala/campus-complaints/internal/querycache"
	"github.com/google/uuid"
)

// RepositoryAPI is the remote store surface the service needs.
type RepositoryAPI interface {
	Create(ctx context.Context, c *complaintDatamodel.Complaint) error
	GetByID(ctx context.Context, id string) (*complaintDatamodel.Complaint, error)
	ListByUserID(ctx context.Context, userID string) ([]*complaintDatamodel.Complaint, error)
	ListAll(ctx context.Context) ([]*complaintDatamodel.Complaint, error)
	ListStatuses(ctx context.Context, userID *string) ([]string, error)
	Update(ctx context.Context, id string, fields map[string]interface{}) (*complaintDatamodel.Complaint, error)
	Delete(ctx context.Context, id string) error
	DeleteOwnPending(ctx context.Context, id, userID string) error
}

// Service is the only path from handlers to complaint rows. Every operation
// receives the caller's identity explicitly.
type Service struct {
	repo      RepositoryAPI
	profiles  profile.RepositoryAPI
	cache     querycache.Cache
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time
}

func NewService(repo RepositoryAPI, profiles profile.RepositoryAPI, cache querycache.Cache, publisher events.Publisher, logger *slog.Logger) *Service {
	if cache == nil {
		cache = querycache.Noop{}
	}
	return &Service{
		repo:      repo,
		profiles:  profiles,
		cache:     cache,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

func (s *Service) ListOwnComplaints(ctx context.Context, identity *auth.Identity) ([]Complaint, error) {
	if identity == nil {
		return nil, internal.ErrNotAuthenticated
	}

	list, err := cached(ctx, s, keyOwnComplaints(identity.UserID), func(ctx context.Context) ([]Complaint, error) {
		rows, err := s.repo.ListByUserID(ctx, identity.UserID)
		if err != nil {
			s.logger.Error("failed to list own complaints", "error", err, "user_id", identity.UserID)
			return nil, err
		}
		return FromDataModelSlice(rows), nil
	})
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].redact(identity)
	}
	return list, nil
}

// ListAllComplaints joins every complaint with its submitter profile using
// one complaints query and one batched profiles query.
func (s *Service) ListAllComplaints(ctx context.Context, identity *auth.Identity) ([]ComplaintWithProfile, error) {
	if identity == nil {
		return nil, internal.ErrNotAuthenticated
	}
	if !identity.IsAdmin {
		s.logger.Warn("list all complaints denied", "user_id", identity.UserID)
		return nil, internal.ErrNotAuthorized
	}

	return cached(ctx, s, keyAllComplaints, func(ctx context.Context) ([]ComplaintWithProfile, error) {
		rows, err := s.repo.ListAll(ctx)
		if err != nil {
			s.logger.Error("failed to list complaints", "error", err)
			return nil, err
		}
		result := make([]ComplaintWithProfile, 0, len(rows))
		if len(rows) == 0 {
			return result, nil
		}

		summaries, err := s.profileSummaries(ctx, rows)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			result = append(result, ComplaintWithProfile{
				Complaint: FromDataModel(row),
				Profiles:  summaries[row.UserID],
			})
		}
		return result, nil
	})
}

func (s *Service) profileSummaries(ctx context.Context, rows []*complaintDatamodel.Complaint) (map[string]*profile.Summary, error) {
	seen := make(map[string]struct{}, len(rows))
	userIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		if _, ok := seen[row.UserID]; ok {
			continue
		}
		seen[row.UserID] = struct{}{}
		userIDs = append(userIDs, row.UserID)
	}

	profiles, err := s.profiles.ListByUserIDs(ctx, userIDs)
	if err != nil {
		s.logger.Error("failed to load submitter profiles", "error", err, "owners", len(userIDs))
		return nil, err
	}

	summaries := make(map[string]*profile.Summary, len(profiles))
	for _, p := range profiles {
		summaries[p.UserID] = profile.FromDataModel(p).Summary()
	}
	return summaries, nil
}

func (s *Service) GetComplaint(ctx context.Context, identity *auth.Identity, id string) (*ComplaintWithProfile, error) {
	if identity == nil {
		return nil, internal.ErrNotAuthenticated
	}

	result, err := cached(ctx, s, keyComplaint(id), func(ctx context.Context) (*ComplaintWithProfile, error) {
		row, err := s.repo.GetByID(ctx, id)
		if err != nil {
			if !errors.Is(err, internal.ErrComplaintNotFound) {
				s.logger.Error("failed to get complaint", "error", err, "complaint_id", id)
			}
			return nil, err
		}

		p, err := s.profiles.GetByUserID(ctx, row.UserID)
		if err != nil {
			s.logger.Error("failed to load submitter profile", "error", err, "complaint_id", id)
			return nil, err
		}

		out := &ComplaintWithProfile{Complaint: FromDataModel(row)}
		if p != nil {
			out.Profiles = profile.FromDataModel(p).Summary()
		}
		return out, nil
	})
	if err != nil {
		return nil, err
	}

	if !identity.IsAdmin && result.UserID != identity.UserID {
		s.logger.Warn("unauthorized access to complaint", "complaint_id", id, "user_id", identity.UserID)
		return nil, internal.ErrNotAuthorized
	}
	result.redact(identity)
	return result, nil
}

func (s *Service) CreateComplaint(ctx context.Context, identity *auth.Identity, dto CreateComplaintDTO) (*Complaint, error) {
	if identity == nil {
		return nil, internal.ErrNotAuthenticated
	}
	if err := dto.Validate(); err != nil {
		s.logger.Warn("complaint validation failed", "error", err, "user_id", identity.UserID)
		return nil, err
	}

	priority := PriorityMedium
	if dto.Priority != nil {
		priority = *dto.Priority
	}
	now := s.now().UTC()
	c := &Complaint{
		ID:          uuid.NewString(),
		UserID:      identity.UserID,
		Title:       dto.Title,
		Description: dto.Description,
		Category:    dto.Category,
		Status:      StatusPending,
		Priority:    priority,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, ToDataModel(c)); err != nil {
		s.logger.Error("failed to create complaint", "error", err, "user_id", identity.UserID)
		return nil, err
	}

	s.invalidate(ctx, keyOwnComplaints(identity.UserID), keyAllComplaints)

	s.logger.Info("complaint created",
		"complaint_id", c.ID,
		"user_id", identity.UserID,
		"category", c.Category,
		"priority", c.Priority)

	return c, nil
}

// UpdateComplaint applies an administrator's partial update. Setting status
// to resolved stamps resolved_at in the same write; other statuses leave it.
func (s *Service) UpdateComplaint(ctx context.Context, identity *auth.Identity, id string, dto UpdateComplaintDTO) (*Complaint, error) {
	if identity == nil {
		return nil, internal.ErrNotAuthenticated
	}
	if !identity.IsAdmin {
		s.logger.Warn("update complaint denied", "complaint_id", id, "user_id", identity.UserID)
		return nil, internal.ErrNotAuthorized
	}
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	fields := map[string]interface{}{"updated_at": now}
	if dto.Status != nil {
		fields["status"] = string(*dto.Status)
		if *dto.Status == StatusResolved {
			fields["resolved_at"] = now
		}
	}
	if dto.Priority != nil {
		fields["priority"] = string(*dto.Priority)
	}
	if dto.AdminNotes != nil {
		fields["admin_notes"] = *dto.AdminNotes
	}
	if dto.Resolution != nil {
		fields["resolution"] = *dto.Resolution
	}
	if dto.AssignedTo != nil {
		fields["assigned_to"] = *dto.AssignedTo
	}

	row, err := s.repo.Update(ctx, id, fields)
	if err != nil {
		if !errors.Is(err, internal.ErrComplaintNotFound) {
			s.logger.Error("failed to update complaint", "error", err, "complaint_id", id)
		}
		return nil, err
	}

	s.invalidate(ctx, keyOwnComplaints(row.UserID), keyAllComplaints, keyComplaint(id))

	updated := FromDataModel(row)
	if before.Status != row.Status {
		s.publishStatusChange(ctx, before.Status, updated)
	}

	s.logger.Info("complaint updated",
		"complaint_id", id,
		"admin_id", identity.UserID,
		"old_status", before.Status,
		"new_status", row.Status)

	return &updated, nil
}

func (s *Service) publishStatusChange(ctx context.Context, oldStatus string, c Complaint) {
	if s.publisher == nil {
		return
	}
	event := events.NewComplaintStatusChangedEvent(c.ID, c.UserID, c.Title, oldStatus, string(c.Status), c.Resolution)
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Warn("failed to publish status change", "error", err, "complaint_id", c.ID)
	}
}

func (s *Service) DeleteComplaint(ctx context.Context, identity *auth.Identity, id string) error {
	if identity == nil {
		return internal.ErrNotAuthenticated
	}

	row, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if identity.IsAdmin {
		err = s.repo.Delete(ctx, id)
	} else {
		c := FromDataModel(row)
		if c.UserID != identity.UserID {
			s.logger.Warn("delete complaint denied", "complaint_id", id, "user_id", identity.UserID)
			return internal.ErrNotAuthorized
		}
		if !c.CanBeDeletedBy(identity.UserID) {
			return internal.ErrCannotDelete
		}
		err = s.repo.DeleteOwnPending(ctx, id, identity.UserID)
	}
	if err != nil {
		if !errors.Is(err, internal.ErrComplaintNotFound) {
			s.logger.Error("failed to delete complaint", "error", err, "complaint_id", id)
		}
		return err
	}

	s.invalidate(ctx, keyOwnComplaints(row.UserID), keyAllComplaints, keyComplaint(id))

	s.logger.Info("complaint deleted", "complaint_id", id, "user_id", identity.UserID, "is_admin", identity.IsAdmin)
	return nil
}

// ComputeStats counts complaints per status over every row for
// administrators and over the caller's own rows otherwise.
func (s *Service) ComputeStats(ctx context.Context, identity *auth.Identity) (*Stats, error) {
	if identity == nil {
		return nil, internal.ErrNotAuthenticated
	}

	return cached(ctx, s, keyStats(identity.UserID, identity.IsAdmin), func(ctx context.Context) (*Stats, error) {
		var owner *string
		if !identity.IsAdmin {
			owner = &identity.UserID
		}
		statuses, err := s.repo.ListStatuses(ctx, owner)
		if err != nil {
			s.logger.Error("failed to load complaint statuses", "error", err, "user_id", identity.UserID)
			return nil, err
		}

		stats := &Stats{}
		for _, st := range statuses {
			switch Status(st) {
			case StatusPending:
				stats.Pending++
			case StatusInProgress:
				stats.InProgress++
			case StatusResolved:
				stats.Resolved++
			case StatusRejected:
				stats.Rejected++
			default:
				s.logger.Warn("skipping complaint with unknown status", "status", st)
				continue
			}
			stats.Total++
		}
		return stats, nil
	})
}

func (s *Service) StudentDashboard(ctx context.Context, identity *auth.Identity) (*StudentDashboard, error) {
	stats, err := s.ComputeStats(ctx, identity)
	if err != nil {
		return nil, err
	}
	own, err := s.ListOwnComplaints(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &StudentDashboard{
		Stats:  *stats,
		Recent: Recent(own, StudentRecentLimit),
	}, nil
}

func (s *Service) AdminDashboard(ctx context.Context, identity *auth.Identity) (*AdminDashboard, error) {
	all, err := s.ListAllComplaints(ctx, identity)
	if err != nil {
		return nil, err
	}
	stats, err := s.ComputeStats(ctx, identity)
	if err != nil {
		return nil, err
	}
	return &AdminDashboard{
		Stats:  *stats,
		Recent: Recent(all, AdminRecentLimit),
		Urgent: Urgent(all, AdminUrgentLimit),
	}, nil
}

// invalidate drops the given keys plus every stats entry. The write has
// already committed, so cache failures are only logged.
func (s *Service) invalidate(ctx context.Context, keys ...string) {
	if err := s.cache.Invalidate(ctx, keys...); err != nil {
		s.logger.Warn("failed to invalidate query cache", "error", err, "keys", keys)
	}
	if err := s.cache.InvalidatePrefix(ctx, keyStatsPrefix); err != nil {
		s.logger.Warn("failed to invalidate complaint stats", "error", err)
	}
}

func cached[T any](ctx context.Context, s *Service, key string, load func(context.Context) (T, error)) (T, error) {
	// captured before the store read; a mutation that invalidates while we
	// load makes the write-back below a no-op
	gen, genErr := s.cache.Generation(ctx)
	if genErr != nil {
		s.logger.Warn("query cache generation read failed", "error", genErr, "key", key)
	}

	var value T
	hit, err := s.cache.Get(ctx, key, &value)
	if err != nil {
		s.logger.Warn("query cache read failed", "error", err, "key", key)
	} else if hit {
		return value, nil
	}

	value, err = load(ctx)
	if err != nil {
		return value, err
	}
	if genErr != nil {
		return value, nil
	}
	stored, err := s.cache.SetIfCurrent(ctx, key, gen, value)
	if err != nil {
		s.logger.Warn("query cache write failed", "error", err, "key", key)
	} else if !stored {
		s.logger.Debug("query cache write skipped after invalidation", "key", key)
	}
	return value, nil
}
