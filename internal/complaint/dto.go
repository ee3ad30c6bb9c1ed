package complaint

import (
	"github.com/frahmantamala/campus-complaints/internal"
	"github.com/frahmantamala/campus-complaints/internal/core/common/validation"
)

// CreateComplaintDTO has no status field: new complaints always start pending.
type CreateComplaintDTO struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Category    Category  `json:"category"`
	Priority    *Priority `json:"priority,omitempty"`
}

func (dto CreateComplaintDTO) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.ComplaintTitle(dto.Title)
	v.ComplaintDescription(dto.Description)
	v.Field("category", string(dto.Category)).
		Required().
		OneOf(categoryNames(), internal.ErrCodeInvalidCategory)
	if dto.Priority != nil {
		v.Field("priority", string(*dto.Priority)).
			OneOf(priorityNames(), internal.ErrCodeInvalidPriority)
	}
	return v.Validate()
}

// UpdateComplaintDTO is a partial update; nil fields are left untouched.
type UpdateComplaintDTO struct {
	Status     *Status   `json:"status,omitempty"`
	Priority   *Priority `json:"priority,omitempty"`
	AdminNotes *string   `json:"admin_notes,omitempty"`
	Resolution *string   `json:"resolution,omitempty"`
	AssignedTo *string   `json:"assigned_to,omitempty"`
}

func (dto UpdateComplaintDTO) IsEmpty() bool {
	return dto.Status == nil && dto.Priority == nil && dto.AdminNotes == nil &&
		dto.Resolution == nil && dto.AssignedTo == nil
}

func (dto UpdateComplaintDTO) Validate() *internal.AppError {
	if dto.IsEmpty() {
		return internal.ErrEmptyUpdate
	}
	v := validation.NewValidator()
	if dto.Status != nil {
		v.Field("status", string(*dto.Status)).
			Required().
			OneOf(statusNames(), internal.ErrCodeInvalidStatus)
	}
	if dto.Priority != nil {
		v.Field("priority", string(*dto.Priority)).
			Required().
			OneOf(priorityNames(), internal.ErrCodeInvalidPriority)
	}
	v.Field("assigned_to", dto.AssignedTo).
		MaxLength(validation.MaxAssigneeLength, internal.ErrCodeInvalidAssignee)
	return v.Validate()
}

// Filter narrows a fetched list. Empty or "all" disables a criterion.
type Filter struct {
	Search   string `json:"search,omitempty"`
	Status   string `json:"status,omitempty"`
	Category string `json:"category,omitempty"`
	Priority string `json:"priority,omitempty"`
}

type ListResponse[T any] struct {
	Complaints []T `json:"complaints"`
	Count      int `json:"count"`
}

type StudentDashboard struct {
	Stats  Stats       `json:"stats"`
	Recent []Complaint `json:"recent"`
}

type AdminDashboard struct {
	Stats  Stats                  `json:"stats"`
	Recent []ComplaintWithProfile `json:"recent"`
	Urgent []ComplaintWithProfile `json:"urgent"`
}
