package models

import "time"

const (
	AppointmentStatusPending   = "pending"
	AppointmentStatusConfirmed = "confirmed"
	AppointmentStatusCancelled = "cancelled"
	AppointmentStatusCompleted = "completed"

	UserRoleAdmin  = "admin"
	UserRoleBarber = "barber"
)

type Client struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	Name      string    `bson:"name" json:"name"`
	Surname   string    `bson:"surname,omitempty" json:"surname,omitempty"`
	Phone     string    `bson:"phone" json:"phone"`
	Email     string    `bson:"email,omitempty" json:"email,omitempty"`
	Notes     string    `bson:"notes,omitempty" json:"notes,omitempty"`
	Active    bool      `bson:"active" json:"active"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}

type Service struct {
	ID          string    `bson:"_id,omitempty" json:"id"`
	Name        string    `bson:"name" json:"name"`
	DurationMin int       `bson:"durationMin" json:"durationMin"`
	PriceCents  int64     `bson:"priceCents" json:"priceCents"`
	Active      bool      `bson:"active" json:"active"`
	CreatedAt   time.Time `bson:"createdAt" json:"createdAt"`
}

type User struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	Name         string    `bson:"name" json:"name"`
	Surname      string    `bson:"surname,omitempty" json:"surname,omitempty"`
	Email        string    `bson:"email" json:"email"`
	Phone        string    `bson:"phone,omitempty" json:"phone,omitempty"`
	PasswordHash string    `bson:"passwordHash" json:"-"`
	Role         string    `bson:"role" json:"role"`
	Active       bool      `bson:"active" json:"active"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

// Appointment references client, service and barber by id only; snapshots are
// resolved from their collections at read time.
type Appointment struct {
	ID           string    `bson:"_id,omitempty" json:"id"`
	ClientID     string    `bson:"clientId" json:"clientId"`
	ServiceID    string    `bson:"serviceId" json:"serviceId"`
	BarberID     string    `bson:"barberId,omitempty" json:"barberId,omitempty"`
	Start        time.Time `bson:"start" json:"start"`
	End          time.Time `bson:"end" json:"end"`
	Status       string    `bson:"status" json:"status"`
	Notes        string    `bson:"notes,omitempty" json:"notes,omitempty"`
	ReminderSent bool      `bson:"reminderSent" json:"reminderSent"`
	CreatedAt    time.Time `bson:"createdAt" json:"createdAt"`
}

type RecoveryToken struct {
	ID        string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"userId" json:"userId"`
	Token     string    `bson:"token" json:"token"`
	ExpiresAt time.Time `bson:"expiresAt" json:"expiresAt"`
	Used      bool      `bson:"used" json:"used"`
	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
}
