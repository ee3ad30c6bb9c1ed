package notification

import (
	"errors"
	"time"
)

const (
	EndpointPath = "/functions/v1/send-notification"

	// timestampLayout matches JavaScript's Date.prototype.toISOString.
	timestampLayout = "2006-01-02T15:04:05.000Z07:00"

	loggedMessage = "Notification logged successfully"
)

// ErrMissingFields text is returned verbatim to callers.
var ErrMissingFields = errors.New("Missing required fields")

var statusMessages = map[string]string{
	"pending":     "Your complaint is pending review.",
	"in_progress": "Your complaint is now being reviewed by our team.",
	"resolved":    "Great news! Your complaint has been resolved.",
	"rejected":    "Your complaint has been reviewed and closed.",
}

// Request is the body accepted by the notification endpoint.
type Request struct {
	ComplaintID    string `json:"complaintId"`
	OldStatus      string `json:"oldStatus"`
	NewStatus      string `json:"newStatus"`
	UserEmail      string `json:"userEmail"`
	ComplaintTitle string `json:"complaintTitle"`
	Resolution     string `json:"resolution,omitempty"`
}

// Validate checks the fields the endpoint cannot work without. oldStatus may
// be empty.
func (r Request) Validate() error {
	if r.ComplaintID == "" || r.NewStatus == "" || r.UserEmail == "" || r.ComplaintTitle == "" {
		return ErrMissingFields
	}
	return nil
}

type Notification struct {
	To          string  `json:"to"`
	Subject     string  `json:"subject"`
	Message     string  `json:"message"`
	ComplaintID string  `json:"complaintId"`
	OldStatus   string  `json:"oldStatus"`
	NewStatus   string  `json:"newStatus"`
	Resolution  *string `json:"resolution"`
	Timestamp   string  `json:"timestamp"`
}

type Response struct {
	Success      bool         `json:"success"`
	Message      string       `json:"message"`
	Notification Notification `json:"notification"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageFor returns the recipient-facing text for a status.
func MessageFor(status string) string {
	if msg, ok := statusMessages[status]; ok {
		return msg
	}
	return "Your complaint status has been updated to: " + status
}

func Build(req Request, now time.Time) Notification {
	var resolution *string
	if req.Resolution != "" {
		r := req.Resolution
		resolution = &r
	}
	return Notification{
		To:          req.UserEmail,
		Subject:     "Complaint Update: " + req.ComplaintTitle,
		Message:     MessageFor(req.NewStatus),
		ComplaintID: req.ComplaintID,
		OldStatus:   req.OldStatus,
		NewStatus:   req.NewStatus,
		Resolution:  resolution,
		Timestamp:   now.UTC().Format(timestampLayout),
	}
}
