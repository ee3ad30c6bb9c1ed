package postgres

import (
	"context"
	"errors"

	"github.com/frahmantamala/campus-complaints/internal"
	complaintDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/complaint"
	"gorm.io/gorm"
)

// ComplaintRepository implements complaint.RepositoryAPI using GORM
type ComplaintRepository struct {
	db *gorm.DB
}

func NewComplaintRepository(db *gorm.DB) *ComplaintRepository {
	return &ComplaintRepository{db: db}
}

func (r *ComplaintRepository) Create(ctx context.Context, c *complaintDatamodel.Complaint) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *ComplaintRepository) GetByID(ctx context.Context, id string) (*complaintDatamodel.Complaint, error) {
	var c complaintDatamodel.Complaint
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, internal.ErrComplaintNotFound
		}
		return nil, err
	}
	return &c, nil
}

// ListByUserID returns the owner's complaints, newest first.
func (r *ComplaintRepository) ListByUserID(ctx context.Context, userID string) ([]*complaintDatamodel.Complaint, error) {
	var complaints []*complaintDatamodel.Complaint
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&complaints).Error
	return complaints, err
}

func (r *ComplaintRepository) ListAll(ctx context.Context) ([]*complaintDatamodel.Complaint, error) {
	var complaints []*complaintDatamodel.Complaint
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&complaints).Error
	return complaints, err
}

// ListStatuses projects the status column only. A nil userID covers every row.
func (r *ComplaintRepository) ListStatuses(ctx context.Context, userID *string) ([]string, error) {
	query := r.db.WithContext(ctx).Model(&complaintDatamodel.Complaint{})
	if userID != nil {
		query = query.Where("user_id = ?", *userID)
	}
	var statuses []string
	err := query.Pluck("status", &statuses).Error
	return statuses, err
}

// Update writes the given columns in one statement and returns the stored row.
func (r *ComplaintRepository) Update(ctx context.Context, id string, fields map[string]interface{}) (*complaintDatamodel.Complaint, error) {
	result := r.db.WithContext(ctx).
		Model(&complaintDatamodel.Complaint{}).
		Where("id = ?", id).
		Updates(fields)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, internal.ErrComplaintNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ComplaintRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&complaintDatamodel.Complaint{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrComplaintNotFound
	}
	return nil
}

// DeleteOwnPending removes the row only while it still belongs to userID and
// is pending, so a concurrent status change wins over the delete.
func (r *ComplaintRepository) DeleteOwnPending(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ? AND status = ?", id, userID, "pending").
		Delete(&complaintDatamodel.Complaint{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return internal.ErrComplaintNotFound
	}
	return nil
}
