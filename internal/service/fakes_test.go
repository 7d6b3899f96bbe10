package service

import (
	"context"
	"errors"
	"sync"

	"doctorsportal/internal/db"
	"doctorsportal/internal/repository"
	"doctorsportal/internal/repository/memstore"
)

var errStoreDown = errors.New("connection refused")

// failingBookings embeds a working repository and fails the calls named in the flags.
type failingBookings struct {
	repository.BookingRepository
	failFind   bool
	failInsert error
}

func (f *failingBookings) FindBookingsByKey(ctx context.Context, date, service, email string) ([]db.Booking, error) {
	if f.failFind {
		return nil, errStoreDown
	}
	return f.BookingRepository.FindBookingsByKey(ctx, date, service, email)
}

func (f *failingBookings) FindBookingsByDate(ctx context.Context, date string) ([]db.Booking, error) {
	if f.failFind {
		return nil, errStoreDown
	}
	return f.BookingRepository.FindBookingsByDate(ctx, date)
}

func (f *failingBookings) InsertBooking(ctx context.Context, b *db.Booking) (string, error) {
	if f.failInsert != nil {
		return "", f.failInsert
	}
	return f.BookingRepository.InsertBooking(ctx, b)
}

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []db.Booking
	reminded  []db.Booking
	failFor   string
}

func (n *recordingNotifier) BookingConfirmed(_ context.Context, b db.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, b)
	return nil
}

func (n *recordingNotifier) BookingReminder(_ context.Context, b db.Booking) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if b.Email == n.failFor {
		return errors.New("mailbox unavailable")
	}
	n.reminded = append(n.reminded, b)
	return nil
}

func (n *recordingNotifier) confirmedCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.confirmed)
}

func seededStore(services ...db.Service) *memstore.Store {
	store := memstore.New(false)
	for i := range services {
		_ = store.UpsertService(context.Background(), &services[i])
	}
	return store
}
