package complaint

import "strings"

const (
	StudentRecentLimit = 3
	AdminRecentLimit   = 5
	AdminUrgentLimit   = 3
)

// Listable is implemented by both plain and profile-joined complaints.
type Listable interface {
	record() *Complaint
	searchFields() []string
}

func (c Complaint) record() *Complaint { return &c }

func (c Complaint) searchFields() []string {
	return []string{c.Title, c.Description}
}

func (c ComplaintWithProfile) searchFields() []string {
	fields := c.Complaint.searchFields()
	if c.Profiles != nil {
		fields = append(fields, c.Profiles.FullName)
		if c.Profiles.StudentID != nil {
			fields = append(fields, *c.Profiles.StudentID)
		}
	}
	return fields
}

func (f Filter) IsZero() bool {
	return active(f.Search) == "" && active(f.Status) == "" &&
		active(f.Category) == "" && active(f.Priority) == ""
}

// FilterComplaints keeps the order of list and returns only matching entries.
// Search is case-insensitive.
func FilterComplaints[T Listable](list []T, f Filter) []T {
	if f.IsZero() {
		return list
	}

	search := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]T, 0, len(list))
	for _, item := range list {
		c := item.record()
		if s := active(f.Status); s != "" && string(c.Status) != s {
			continue
		}
		if s := active(f.Category); s != "" && string(c.Category) != s {
			continue
		}
		if s := active(f.Priority); s != "" && string(c.Priority) != s {
			continue
		}
		if search != "" && !containsAny(item.searchFields(), search) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// Recent returns the first n entries of a newest-first list.
func Recent[T any](list []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if len(list) <= n {
		return list
	}
	return list[:n]
}

// Urgent picks open complaints marked urgent, newest first, at most n.
func Urgent[T Listable](list []T, n int) []T {
	out := make([]T, 0, n)
	for _, item := range list {
		if len(out) == n {
			break
		}
		c := item.record()
		if c.Priority == PriorityUrgent && c.Status.Open() {
			out = append(out, item)
		}
	}
	return out
}

func active(v string) string {
	v = strings.TrimSpace(v)
	if strings.EqualFold(v, "all") {
		return ""
	}
	return v
}

func containsAny(fields []string, needle string) bool {
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}
