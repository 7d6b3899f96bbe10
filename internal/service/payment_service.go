package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"doctorsportal/internal/db"
	"doctorsportal/internal/entities"
	apperrors "doctorsportal/internal/errors"
	"doctorsportal/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

const bookingIDMetadataKey = "booking_id"

type PaymentService struct {
	bookings repository.BookingRepository
	payments repository.PaymentRepository
	provider PaymentProvider
	currency string
	validate *validator.Validate
}

func NewPaymentService(bookings repository.BookingRepository, payments repository.PaymentRepository,
	provider PaymentProvider, currency string) *PaymentService {
	return &PaymentService{
		bookings: bookings,
		payments: payments,
		provider: provider,
		currency: currency,
		validate: newValidator(),
	}
}

// CreateIntent charges the booking's price in minor units of the configured currency.
// Only the booking's owner may pay for it.
func (s *PaymentService) CreateIntent(ctx context.Context, bookingID, email string) (*entities.PaymentIntentResponse, error) {
	if bookingID == "" {
		return nil, apperrors.Validation("bookingId is required", "bookingId")
	}
	booking, err := s.bookings.GetBookingByID(ctx, bookingID)
	if err != nil {
		return nil, lookupError("booking", err)
	}
	if booking.Email != email {
		return nil, apperrors.Forbidden("forbidden access")
	}
	amount, err := minorUnits(booking)
	if err != nil {
		return nil, err
	}

	pi, err := s.provider.CreatePaymentIntent(ctx, amount, s.currency, booking.Email,
		map[string]string{bookingIDMetadataKey: booking.ID})
	if err != nil {
		log.Error().Err(err).Str("booking_id", booking.ID).Msg("creating payment intent")
		return nil, fmt.Errorf("create payment intent: %w", err)
	}
	log.Info().Str("booking_id", booking.ID).Str("payment_intent", pi.ID).Int64("amount", amount).Msg("payment intent created")
	return &entities.PaymentIntentResponse{ClientSecret: pi.ClientSecret}, nil
}

// RecordPayment stores p and flags its booking as paid. A non-empty p.Email must
// match the booking's email. Amount and currency always come from the booking; a
// client value that disagrees is rejected.
func (s *PaymentService) RecordPayment(ctx context.Context, p *db.Payment) (*entities.InsertResult, error) {
	if err := validateStruct(s.validate, p); err != nil {
		return nil, err
	}
	booking, err := s.bookings.GetBookingByID(ctx, p.BookingID)
	if err != nil {
		return nil, lookupError("booking", err)
	}
	if p.Email != "" && p.Email != booking.Email {
		return nil, apperrors.Forbidden("forbidden access")
	}
	amount, err := minorUnits(booking)
	if err != nil {
		return nil, err
	}
	if p.Amount != 0 && p.Amount != amount {
		return nil, apperrors.Validation("amount does not match booking price", "amount")
	}
	if p.Currency != "" && !strings.EqualFold(p.Currency, s.currency) {
		return nil, apperrors.Validation("currency does not match", "currency")
	}
	p.Email = booking.Email
	p.Amount = amount
	p.Currency = s.currency

	id, err := s.payments.InsertPayment(ctx, p)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	if err := s.bookings.MarkBookingPaid(ctx, booking.ID, p.TransactionID); err != nil {
		return nil, lookupError("booking", err)
	}
	return &entities.InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func minorUnits(b *db.Booking) (int64, error) {
	if b.Price <= 0 {
		return 0, apperrors.Validation("booking has no price", "price")
	}
	return int64(math.Round(b.Price * 100)), nil
}

// ConfirmIntent marks the booking named in a succeeded intent's metadata as paid.
func (s *PaymentService) ConfirmIntent(ctx context.Context, metadata map[string]string, intentID string) error {
	bookingID := metadata[bookingIDMetadataKey]
	if bookingID == "" {
		return apperrors.Validation("payment intent has no booking_id metadata", bookingIDMetadataKey)
	}
	if err := s.bookings.MarkBookingPaid(ctx, bookingID, intentID); err != nil {
		return lookupError("booking", err)
	}
	log.Info().Str("booking_id", bookingID).Str("payment_intent", intentID).Msg("booking paid")
	return nil
}
