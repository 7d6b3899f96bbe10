package db

import "time"

// Service is a bookable appointment option with its fixed list of time slots.
type Service struct {
	ID    string   `json:"_id,omitempty"`
	Name  string   `json:"name" validate:"required"`
	Slots []string `json:"slots" validate:"required,min=1"`
	Price float64  `json:"price,omitempty"`
}

type Booking struct {
	ID            string    `json:"_id,omitempty"`
	Date          string    `json:"date" validate:"required"`
	Service       string    `json:"service" validate:"required"`
	Email         string    `json:"email" validate:"required"`
	Time          string    `json:"time"`
	Patient       string    `json:"patient,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Price         float64   `json:"price,omitempty"`
	Paid          bool      `json:"paid"`
	TransactionID string    `json:"transactionId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

type User struct {
	ID    string `json:"_id,omitempty"`
	Name  string `json:"name"`
	Email string `json:"email" validate:"required"`
	Role  string `json:"role,omitempty"`
}

type Admin struct {
	Email        string
	PasswordHash string
}

type Payment struct {
	ID            string    `json:"_id,omitempty"`
	BookingID     string    `json:"bookingId" validate:"required"`
	Email         string    `json:"email"`
	TransactionID string    `json:"transactionId" validate:"required"`
	Amount        int64     `json:"amount"`
	Currency      string    `json:"currency"`
	CreatedAt     time.Time `json:"createdAt"`
}
