package repository

import (
	"context"
	"errors"

	"doctorsportal/internal/db"
	"doctorsportal/internal/entities"
)

var (
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate key")
)

type ServiceRepository interface {
	ListServices(ctx context.Context) ([]db.Service, error)
	// UpsertService replaces the entry with the same name or inserts a new one.
	UpsertService(ctx context.Context, svc *db.Service) error
}

// BookingRepository matches on exact, case-sensitive field values.
type BookingRepository interface {
	FindBookingsByDate(ctx context.Context, date string) ([]db.Booking, error)
	FindBookingsByKey(ctx context.Context, date, service, email string) ([]db.Booking, error)
	FindBookingsByEmail(ctx context.Context, email string) ([]db.Booking, error)
	GetBookingByID(ctx context.Context, id string) (*db.Booking, error)
	// InsertBooking returns ErrDuplicate only when the store enforces booking uniqueness.
	InsertBooking(ctx context.Context, b *db.Booking) (string, error)
	MarkBookingPaid(ctx context.Context, id, transactionID string) error
}

// AvailabilityRepository computes remaining slots inside the store.
type AvailabilityRepository interface {
	AvailabilityForDate(ctx context.Context, date string) ([]entities.ServiceAvailability, error)
}

type UserRepository interface {
	InsertUser(ctx context.Context, u *db.User) (string, error)
	// FindUserByEmail returns nil, nil when no user matches.
	FindUserByEmail(ctx context.Context, email string) (*db.User, error)
}

type AdminAuthRepository interface {
	// GetByEmail returns nil, nil when no admin matches.
	GetByEmail(ctx context.Context, email string) (*db.Admin, error)
	CreateNewUser(ctx context.Context, email, password string) error
}

type PaymentRepository interface {
	InsertPayment(ctx context.Context, p *db.Payment) (string, error)
}

// Store bundles one backend's repositories. Close releases the connection.
type Store struct {
	Services     ServiceRepository
	Bookings     BookingRepository
	Availability AvailabilityRepository
	Users        UserRepository
	Admins       AdminAuthRepository
	Payments     PaymentRepository
	Close        func(ctx context.Context) error
}
