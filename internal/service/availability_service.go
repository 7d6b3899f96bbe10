package service

import (
	"context"

	"doctorsportal/internal/db"
	"doctorsportal/internal/entities"
	apperrors "doctorsportal/internal/errors"
	"doctorsportal/internal/metrics"
	"doctorsportal/internal/repository"

	"github.com/rs/zerolog/log"
)

type AvailabilityService struct {
	services  repository.ServiceRepository
	bookings  repository.BookingRepository
	aggregate repository.AvailabilityRepository
	metrics   *metrics.Metrics
}

func NewAvailabilityService(services repository.ServiceRepository, bookings repository.BookingRepository,
	aggregate repository.AvailabilityRepository, m *metrics.Metrics) *AvailabilityService {
	return &AvailabilityService{services: services, bookings: bookings, aggregate: aggregate, metrics: m}
}

// ForDate loads the catalog and the bookings on date and subtracts them in process.
func (s *AvailabilityService) ForDate(ctx context.Context, date string) ([]entities.ServiceAvailability, error) {
	s.metrics.Availability("v1")

	services, err := s.services.ListServices(ctx)
	if err != nil {
		log.Error().Err(err).Msg("listing services")
		return nil, apperrors.Storage(err)
	}
	booked, err := s.bookings.FindBookingsByDate(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("listing bookings for date")
		return nil, apperrors.Storage(err)
	}
	return RemainingSlots(services, booked), nil
}

// ForDateAggregated delegates the same computation to the store.
func (s *AvailabilityService) ForDateAggregated(ctx context.Context, date string) ([]entities.ServiceAvailability, error) {
	s.metrics.Availability("v2")

	out, err := s.aggregate.AvailabilityForDate(ctx, date)
	if err != nil {
		log.Error().Err(err).Str("date", date).Msg("aggregating availability")
		return nil, apperrors.Storage(err)
	}
	return out, nil
}

// RemainingSlots removes from every service each slot that a booking for that service
// holds. bookingsOnDate must already be restricted to one date. Slot order is kept.
func RemainingSlots(services []db.Service, bookingsOnDate []db.Booking) []entities.ServiceAvailability {
	taken := make(map[string]map[string]struct{})
	for _, b := range bookingsOnDate {
		if taken[b.Service] == nil {
			taken[b.Service] = make(map[string]struct{})
		}
		taken[b.Service][b.Time] = struct{}{}
	}

	out := make([]entities.ServiceAvailability, 0, len(services))
	for _, svc := range services {
		booked := taken[svc.Name]
		free := make([]string, 0, len(svc.Slots))
		for _, slot := range svc.Slots {
			if _, ok := booked[slot]; !ok {
				free = append(free, slot)
			}
		}
		out = append(out, entities.ServiceAvailability{
			ID:    svc.ID,
			Name:  svc.Name,
			Slots: free,
			Price: svc.Price,
		})
	}
	return out
}
