package postgres

import (
	"context"
	"errors"

	profileDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/profile"
	"gorm.io/gorm"
)

type ProfileRepository struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetByUserID has maybe-single semantics: no row is not an error.
func (r *ProfileRepository) GetByUserID(ctx context.Context, userID string) (*profileDatamodel.Profile, error) {
	var p profileDatamodel.Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Take(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListByUserIDs fetches every profile for the given owners in one query.
func (r *ProfileRepository) ListByUserIDs(ctx context.Context, userIDs []string) ([]*profileDatamodel.Profile, error) {
	if len(userIDs) == 0 {
		return []*profileDatamodel.Profile{}, nil
	}
	var profiles []*profileDatamodel.Profile
	err := r.db.WithContext(ctx).Where("user_id IN ?", userIDs).Find(&profiles).Error
	return profiles, err
}

func (r *ProfileRepository) Create(ctx context.Context, p *profileDatamodel.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}
