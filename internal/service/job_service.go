package service

import (
	"context"
	"fmt"
	"time"

	"doctorsportal/internal/repository"
	"doctorsportal/internal/utils"

	"github.com/rs/zerolog/log"
)

type JobService struct {
	bookings   repository.BookingRepository
	notifier   Notifier
	dateLayout string
}

func NewJobService(bookings repository.BookingRepository, notifier Notifier, dateLayout string) *JobService {
	return &JobService{bookings: bookings, notifier: notifier, dateLayout: dateLayout}
}

// SendReminders notifies every patient booked for the day after now and returns
// how many reminders went out. A failed reminder is logged and skipped.
func (s *JobService) SendReminders(ctx context.Context, now time.Time) (int, error) {
	date := utils.DateKey(utils.Tomorrow(now), s.dateLayout)
	log.Info().Str("date", date).Msg("cron job: sending appointment reminders")

	bookings, err := s.bookings.FindBookingsByDate(ctx, date)
	if err != nil {
		return 0, fmt.Errorf("cron job: failed to get bookings for %s: %w", date, err)
	}
	if len(bookings) == 0 {
		log.Info().Str("date", date).Msg("cron job: no bookings to remind")
		return 0, nil
	}

	sent := 0
	for _, b := range bookings {
		if err := ctx.Err(); err != nil {
			return sent, err
		}
		if err := s.notifier.BookingReminder(ctx, b); err != nil {
			log.Warn().Err(err).Str("booking_id", b.ID).Msg("cron job: reminder not sent")
			continue
		}
		sent++
	}

	log.Info().Str("date", date).Int("sent", sent).Int("total", len(bookings)).Msg("cron job: reminders done")
	return sent, nil
}
