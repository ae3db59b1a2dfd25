package clients

type CreateRequest struct {
	Name    string `json:"name" validate:"required"`
	Surname string `json:"surname"`
	Phone   string `json:"phone" validate:"required,phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Notes   string `json:"notes"`
}

type UpdateRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Email   string `json:"email" validate:"omitempty,email"`
	Notes   string `json:"notes"`
}

type ListFilter struct {
	Query      string
	OnlyActive bool
}
