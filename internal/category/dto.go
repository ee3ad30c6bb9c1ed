package category

type CategoriesResponse struct {
	Categories []Option `json:"categories"`
	Statuses   []Option `json:"statuses"`
	Priorities []Option `json:"priorities"`
}
