package category

import "github.com/frahmantamala/campus-complaints/internal/complaint"

// Option is one selectable value with its display label.
type Option struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

func categoryOptions() []Option {
	out := make([]Option, len(complaint.Categories))
	for i, c := range complaint.Categories {
		out[i] = Option{Name: string(c), Label: c.Label()}
	}
	return out
}

func statusOptions() []Option {
	out := make([]Option, len(complaint.Statuses))
	for i, s := range complaint.Statuses {
		out[i] = Option{Name: string(s), Label: s.Label()}
	}
	return out
}

func priorityOptions() []Option {
	out := make([]Option, len(complaint.Priorities))
	for i, p := range complaint.Priorities {
		out[i] = Option{Name: string(p), Label: p.Label()}
	}
	return out
}
