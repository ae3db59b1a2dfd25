package catalog

type CreateRequest struct {
	Name        string `json:"name" validate:"required"`
	DurationMin int    `json:"durationMin" validate:"required,gt=0"`
	PriceCents  int64  `json:"priceCents" validate:"required,gt=0"`
}

type UpdateRequest struct {
	Name        string `json:"name"`
	DurationMin int    `json:"durationMin" validate:"omitempty,gt=0"`
	PriceCents  int64  `json:"priceCents" validate:"omitempty,gt=0"`
}

type ListFilter struct {
	Query      string
	OnlyActive bool
}
