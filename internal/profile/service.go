package profile

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/campus-complaints/internal"
	"github.com/frahmantamala/campus-complaints/internal/auth"
	profileDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/profile"
)

type RepositoryAPI interface {
	// GetByUserID returns nil, nil when the user has no profile.
	GetByUserID(ctx context.Context, userID string) (*profileDatamodel.Profile, error)
	ListByUserIDs(ctx context.Context, userIDs []string) ([]*profileDatamodel.Profile, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

func (s *Service) GetOwnProfile(ctx context.Context, identity *auth.Identity) (*Profile, error) {
	if identity == nil {
		return nil, internal.ErrNotAuthenticated
	}

	row, err := s.repo.GetByUserID(ctx, identity.UserID)
	if err != nil {
		s.logger.Error("failed to load profile", "error", err, "user_id", identity.UserID)
		return nil, err
	}
	if row == nil {
		return nil, internal.ErrProfileNotFound
	}
	return FromDataModel(row), nil
}
