// Package memstore keeps every repository in process memory. It backs local
// development runs (STORE_DRIVER=memory) and the service and handler tests.
package memstore

import (
	"context"
	"fmt"
	"sync"
	"time"

	"doctorsportal/internal/db"
	"doctorsportal/internal/entities"
	"doctorsportal/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type Store struct {
	mu             sync.RWMutex
	services       []db.Service
	bookings       []db.Booking
	users          []db.User
	admins         map[string]db.Admin
	payments       []db.Payment
	uniqueBookings bool
}

// New returns an empty store. uniqueBookings rejects a second booking for the same
// (date, service, email) at insert time, like the unique index of the real stores.
func New(uniqueBookings bool) *Store {
	return &Store{admins: map[string]db.Admin{}, uniqueBookings: uniqueBookings}
}

// Repositories exposes s through the repository.Store bundle.
func (s *Store) Repositories() *repository.Store {
	return &repository.Store{
		Services:     s,
		Bookings:     s,
		Availability: s,
		Users:        s,
		Admins:       s,
		Payments:     s,
		Close:        func(context.Context) error { return nil },
	}
}

func (s *Store) ListServices(ctx context.Context) ([]db.Service, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]db.Service, 0, len(s.services))
	for _, svc := range s.services {
		svc.Slots = append([]string{}, svc.Slots...)
		out = append(out, svc)
	}
	return out, nil
}

func (s *Store) UpsertService(ctx context.Context, svc *db.Service) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *svc
	stored.Slots = append([]string{}, svc.Slots...)
	for i := range s.services {
		if s.services[i].Name == svc.Name {
			stored.ID = s.services[i].ID
			s.services[i] = stored
			svc.ID = stored.ID
			return nil
		}
	}
	stored.ID = uuid.NewString()
	s.services = append(s.services, stored)
	svc.ID = stored.ID
	return nil
}

func (s *Store) filterBookings(match func(db.Booking) bool) []db.Booking {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []db.Booking{}
	for _, b := range s.bookings {
		if match(b) {
			out = append(out, b)
		}
	}
	return out
}

func (s *Store) FindBookingsByDate(ctx context.Context, date string) ([]db.Booking, error) {
	return s.filterBookings(func(b db.Booking) bool { return b.Date == date }), nil
}

func (s *Store) FindBookingsByKey(ctx context.Context, date, service, email string) ([]db.Booking, error) {
	return s.filterBookings(func(b db.Booking) bool {
		return b.Date == date && b.Service == service && b.Email == email
	}), nil
}

func (s *Store) FindBookingsByEmail(ctx context.Context, email string) ([]db.Booking, error) {
	return s.filterBookings(func(b db.Booking) bool { return b.Email == email }), nil
}

func (s *Store) GetBookingByID(ctx context.Context, id string) (*db.Booking, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.bookings {
		if b.ID == id {
			found := b
			return &found, nil
		}
	}
	return nil, fmt.Errorf("booking %q: %w", id, repository.ErrNotFound)
}

func (s *Store) InsertBooking(ctx context.Context, b *db.Booking) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.uniqueBookings {
		for _, existing := range s.bookings {
			if existing.Date == b.Date && existing.Service == b.Service && existing.Email == b.Email {
				return "", fmt.Errorf("insert booking: %w", repository.ErrDuplicate)
			}
		}
	}
	b.ID = uuid.NewString()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	s.bookings = append(s.bookings, *b)
	return b.ID, nil
}

func (s *Store) MarkBookingPaid(ctx context.Context, id, transactionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.bookings {
		if s.bookings[i].ID == id {
			s.bookings[i].Paid = true
			s.bookings[i].TransactionID = transactionID
			return nil
		}
	}
	return fmt.Errorf("booking %q: %w", id, repository.ErrNotFound)
}

// AvailabilityForDate mirrors the store-side queries: per service, the slots no
// booking on date holds, in catalog order.
func (s *Store) AvailabilityForDate(ctx context.Context, date string) ([]entities.ServiceAvailability, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]entities.ServiceAvailability, 0, len(s.services))
	for _, svc := range s.services {
		free := []string{}
		for _, slot := range svc.Slots {
			taken := false
			for _, b := range s.bookings {
				if b.Date == date && b.Service == svc.Name && b.Time == slot {
					taken = true
					break
				}
			}
			if !taken {
				free = append(free, slot)
			}
		}
		out = append(out, entities.ServiceAvailability{ID: svc.ID, Name: svc.Name, Slots: free, Price: svc.Price})
	}
	return out, nil
}

func (s *Store) InsertUser(ctx context.Context, u *db.User) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = uuid.NewString()
	s.users = append(s.users, *u)
	return u.ID, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*db.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*db.Admin, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	admin, ok := s.admins[email]
	if !ok {
		return nil, nil
	}
	return &admin, nil
}

func (s *Store) CreateNewUser(ctx context.Context, email, password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.admins[email]; exists {
		return fmt.Errorf("admin %s: %w", email, repository.ErrDuplicate)
	}
	s.admins[email] = db.Admin{Email: email, PasswordHash: string(hashed)}
	return nil
}

func (s *Store) InsertPayment(ctx context.Context, p *db.Payment) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = uuid.NewString()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	s.payments = append(s.payments, *p)
	return p.ID, nil
}

// Payments returns a copy of the recorded payments.
func (s *Store) Payments() []db.Payment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]db.Payment{}, s.payments...)
}
