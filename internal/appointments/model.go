package appointments

type CreateRequest struct {
	ClientID  string `json:"clientId" validate:"required"`
	ServiceID string `json:"serviceId" validate:"required"`
	BarberID  string `json:"barberId"`
	Start     string `json:"start" validate:"required,datetimelocal"`
	Notes     string `json:"notes"`
}

type ListFilter struct {
	Date     string
	BarberID string
}

type DashboardStats struct {
	TotalClients          int64 `json:"totalClients"`
	TotalServices         int64 `json:"totalServices"`
	TotalAppointments     int64 `json:"totalAppointments"`
	ConfirmedAppointments int64 `json:"confirmedAppointments"`
	AppointmentsToday     int64 `json:"appointmentsToday"`
}
