package complaint

import (
	"time"

	"github.com/frahmantamala/campus-complaints/internal/auth"
	complaintDatamodel "github.com/frahmantamala/campus-complaints/internal/core/datamodel/complaint"
	"github.com/frahmantamala/campus-complaints/internal/profile"
)

type Category string

const (
	CategoryAcademic       Category = "academic"
	CategoryInfrastructure Category = "infrastructure"
	CategoryAdministrative Category = "administrative"
	CategoryHostel         Category = "hostel"
	CategoryLibrary        Category = "library"
	CategoryOther          Category = "other"
)

var Categories = []Category{
	CategoryAcademic,
	CategoryInfrastructure,
	CategoryAdministrative,
	CategoryHostel,
	CategoryLibrary,
	CategoryOther,
}

var categoryLabels = map[Category]string{
	CategoryAcademic:       "Academic Issues",
	CategoryInfrastructure: "Infrastructure",
	CategoryAdministrative: "Administrative",
	CategoryHostel:         "Hostel",
	CategoryLibrary:        "Library",
	CategoryOther:          "Other",
}

func (c Category) Label() string { return categoryLabels[c] }

func (c Category) Valid() bool {
	_, ok := categoryLabels[c]
	return ok
}

type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

var Statuses = []Status{StatusPending, StatusInProgress, StatusResolved, StatusRejected}

var statusLabels = map[Status]string{
	StatusPending:    "Pending",
	StatusInProgress: "In Progress",
	StatusResolved:   "Resolved",
	StatusRejected:   "Rejected",
}

func (s Status) Label() string { return statusLabels[s] }

func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Open reports whether the complaint still needs attention.
func (s Status) Open() bool {
	return s == StatusPending || s == StatusInProgress
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

var priorityLabels = map[Priority]string{
	PriorityLow:    "Low",
	PriorityMedium: "Medium",
	PriorityHigh:   "High",
	PriorityUrgent: "Urgent",
}

func (p Priority) Label() string { return priorityLabels[p] }

func (p Priority) Valid() bool {
	_, ok := priorityLabels[p]
	return ok
}

type Complaint struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    Category   `json:"category"`
	Status      Status     `json:"status"`
	Priority    Priority   `json:"priority"`
	AssignedTo  *string    `json:"assigned_to"`
	AdminNotes  *string    `json:"admin_notes"`
	Resolution  *string    `json:"resolution"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	ResolvedAt  *time.Time `json:"resolved_at"`
}

// ComplaintWithProfile is a complaint left-joined with its submitter's
// profile. The profiles key is always serialised, as null when absent.
type ComplaintWithProfile struct {
	Complaint
	Profiles *profile.Summary `json:"profiles"`
}

type Stats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Resolved   int `json:"resolved"`
	Rejected   int `json:"rejected"`
}

// CanBeDeletedBy applies the owner rule: submitters may withdraw a complaint
// only while nobody has started working on it.
func (c *Complaint) CanBeDeletedBy(userID string) bool {
	return c.UserID == userID && c.Status == StatusPending
}

// redact hides administrator-only fields from non-admin readers.
func (c *Complaint) redact(identity *auth.Identity) {
	if !identity.IsAdmin {
		c.AdminNotes = nil
	}
}

func FromDataModel(c *complaintDatamodel.Complaint) Complaint {
	return Complaint{
		ID:          c.ID,
		UserID:      c.UserID,
		Title:       c.Title,
		Description: c.Description,
		Category:    Category(c.Category),
		Status:      Status(c.Status),
		Priority:    Priority(c.Priority),
		AssignedTo:  c.AssignedTo,
		AdminNotes:  c.AdminNotes,
		Resolution:  c.Resolution,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		ResolvedAt:  c.ResolvedAt,
	}
}

func FromDataModelSlice(rows []*complaintDatamodel.Complaint) []Complaint {
	result := make([]Complaint, len(rows))
	for i, r := range rows {
		result[i] = FromDataModel(r)
	}
	return result
}

func ToDataModel(c *Complaint) *complaintDatamodel.Complaint {
	return &complaintDatamodel.Complaint{
		ID:          c.ID,
		UserID:      c.UserID,
		Title:       c.Title,
		Description: c.Description,
		Category:    string(c.Category),
		Status:      string(c.Status),
		Priority:    string(c.Priority),
		AssignedTo:  c.AssignedTo,
		AdminNotes:  c.AdminNotes,
		Resolution:  c.Resolution,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
		ResolvedAt:  c.ResolvedAt,
	}
}

func categoryNames() []string {
	out := make([]string, len(Categories))
	for i, c := range Categories {
		out[i] = string(c)
	}
	return out
}

func statusNames() []string {
	out := make([]string, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}

func priorityNames() []string {
	out := make([]string, len(Priorities))
	for i, p := range Priorities {
		out[i] = string(p)
	}
	return out
}
