package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeComplaintStatusChanged = "complaint.status_changed"
)

type ComplaintStatusChangedEvent struct {
	BaseEvent
	ComplaintID string  `json:"complaint_id"`
	UserID      string  `json:"user_id"`
	Title       string  `json:"title"`
	OldStatus   string  `json:"old_status"`
	NewStatus   string  `json:"new_status"`
	Resolution  *string `json:"resolution,omitempty"`
}

func NewComplaintStatusChangedEvent(complaintID, userID, title, oldStatus, newStatus string, resolution *string) *ComplaintStatusChangedEvent {
	return &ComplaintStatusChangedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeComplaintStatusChanged,
			Timestamp: time.Now(),
			Data: map[string]interface{}{
				"complaint_id": complaintID,
				"user_id":      userID,
				"title":        title,
				"old_status":   oldStatus,
				"new_status":   newStatus,
				"resolution":   resolution,
			},
		},
		ComplaintID: complaintID,
		UserID:      userID,
		Title:       title,
		OldStatus:   oldStatus,
		NewStatus:   newStatus,
		Resolution:  resolution,
	}
}
