package category

import (
	"log/slog"

	"github.com/frahmantamala/campus-complaints/internal/complaint"
)

// Service exposes the fixed complaint vocabularies. They are compiled in, so
// there is no repository behind it.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	return &Service{logger: logger}
}

func (s *Service) GetCatalogue() CategoriesResponse {
	return CategoriesResponse{
		Categories: categoryOptions(),
		Statuses:   statusOptions(),
		Priorities: priorityOptions(),
	}
}

func (s *Service) GetCategoryByName(name string) (*Option, bool) {
	c := complaint.Category(name)
	if !c.Valid() {
		return nil, false
	}
	return &Option{Name: name, Label: c.Label()}, true
}

func (s *Service) IsValidCategory(name string) bool {
	_, ok := s.GetCategoryByName(name)
	return ok
}
