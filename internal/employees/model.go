package employees

type CreateRequest struct {
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"omitempty,phone"`
	Password string `json:"password" validate:"required,min=8"`
	Role     string `json:"role" validate:"omitempty,oneof=admin barber"`
}

type UpdateRequest struct {
	Name    string `json:"name"`
	Surname string `json:"surname"`
	Email   string `json:"email" validate:"omitempty,email"`
	Phone   string `json:"phone" validate:"omitempty,phone"`
	Role    string `json:"role" validate:"omitempty,oneof=admin barber"`
}

type ListFilter struct {
	OnlyActive bool
}
