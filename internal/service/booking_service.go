package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"doctorsportal/internal/db"
	"doctorsportal/internal/entities"
	apperrors "doctorsportal/internal/errors"
	"doctorsportal/internal/metrics"
	"doctorsportal/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// Decision is the outcome of admitting one booking.
type Decision struct {
	Accepted bool
	Reason   string
}

// Admit accepts candidate only when no booking exists for its (date, service, email).
// The requested time plays no part in the decision.
func Admit(candidate db.Booking, existingForKey []db.Booking) Decision {
	if len(existingForKey) > 0 {
		return Decision{Reason: conflictReason(candidate.Date)}
	}
	return Decision{Accepted: true}
}

func conflictReason(date string) string {
	return fmt.Sprintf("You already have a booking on %s", date)
}

type BookingService struct {
	repo     repository.BookingRepository
	notifier Notifier
	validate *validator.Validate
	metrics  *metrics.Metrics
}

func NewBookingService(repo repository.BookingRepository, notifier Notifier, m *metrics.Metrics) *BookingService {
	return &BookingService{repo: repo, notifier: notifier, validate: newValidator(), metrics: m}
}

// Submit validates candidate, checks for an existing booking with the same key and
// stores it. The check and the insert are separate store calls; only a unique index
// in the store closes the gap between them.
func (s *BookingService) Submit(ctx context.Context, candidate *db.Booking) (*entities.BookingResult, error) {
	if err := validateStruct(s.validate, candidate); err != nil {
		s.metrics.Rejected("validation")
		return nil, err
	}

	existing, err := s.repo.FindBookingsByKey(ctx, candidate.Date, candidate.Service, candidate.Email)
	if err != nil {
		log.Error().Err(err).Str("date", candidate.Date).Str("service", candidate.Service).Msg("checking existing bookings")
		return nil, apperrors.Storage(err)
	}
	if d := Admit(*candidate, existing); !d.Accepted {
		s.metrics.Rejected("conflict")
		log.Info().Str("date", candidate.Date).Str("service", candidate.Service).Msg("booking rejected: already booked")
		return nil, apperrors.Conflict(d.Reason)
	}

	candidate.Paid = false
	candidate.TransactionID = ""
	candidate.CreatedAt = time.Now().UTC()

	id, err := s.repo.InsertBooking(ctx, candidate)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			s.metrics.Rejected("conflict")
			return nil, apperrors.Conflict(conflictReason(candidate.Date))
		}
		log.Error().Err(err).Msg("inserting booking")
		return nil, apperrors.Storage(err)
	}

	s.metrics.Admitted()
	log.Info().Str("booking_id", id).Str("date", candidate.Date).Str("service", candidate.Service).Msg("booking accepted")
	s.notifyConfirmed(ctx, *candidate)

	return &entities.BookingResult{Acknowledged: true, InsertedID: id}, nil
}

func (s *BookingService) notifyConfirmed(ctx context.Context, b db.Booking) {
	if s.notifier == nil {
		return
	}
	ctx = context.WithoutCancel(ctx)
	go func() {
		if err := s.notifier.BookingConfirmed(ctx, b); err != nil {
			log.Warn().Err(err).Str("booking_id", b.ID).Msg("booking confirmation not sent")
		}
	}()
}

func (s *BookingService) ListForClient(ctx context.Context, email string) ([]db.Booking, error) {
	bookings, err := s.repo.FindBookingsByEmail(ctx, email)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return bookings, nil
}

func (s *BookingService) ListForDate(ctx context.Context, date string) ([]db.Booking, error) {
	bookings, err := s.repo.FindBookingsByDate(ctx, date)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return bookings, nil
}

func (s *BookingService) Get(ctx context.Context, id string) (*db.Booking, error) {
	b, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, lookupError("booking", err)
	}
	return b, nil
}

func lookupError(resource string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound(resource, err)
	}
	return apperrors.Storage(err)
}
