package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"doctorsportal/internal/db"
	"doctorsportal/internal/entities"
	"doctorsportal/internal/repository"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const bookingColumns = `id, date, service, email, time, patient, phone, price, paid, transaction_id, created_at`

type BookingRepository struct {
	DB *sql.DB
}

func NewBookingRepository(conn *sql.DB) *BookingRepository {
	return &BookingRepository{DB: conn}
}

func (r *BookingRepository) FindBookingsByDate(ctx context.Context, date string) ([]db.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE date = $1 ORDER BY created_at`, date)
}

func (r *BookingRepository) FindBookingsByKey(ctx context.Context, date, service, email string) ([]db.Booking, error) {
	return r.query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE date = $1 AND service = $2 AND email = $3`,
		date, service, email)
}

func (r *BookingRepository) FindBookingsByEmail(ctx context.Context, email string) ([]db.Booking, error) {
	return r.query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE email = $1 ORDER BY created_at`, email)
}

func (r *BookingRepository) query(ctx context.Context, query string, args ...interface{}) ([]db.Booking, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying bookings: %w", err)
	}
	defer rows.Close()

	bookings := []db.Booking{}
	for rows.Next() {
		var b db.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, fmt.Errorf("error scanning booking: %w", err)
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating booking rows: %w", err)
	}
	return bookings, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row scanner, b *db.Booking) error {
	return row.Scan(&b.ID, &b.Date, &b.Service, &b.Email, &b.Time, &b.Patient, &b.Phone,
		&b.Price, &b.Paid, &b.TransactionID, &b.CreatedAt)
}

func (r *BookingRepository) GetBookingByID(ctx context.Context, id string) (*db.Booking, error) {
	var b db.Booking
	row := r.DB.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("booking %q: %w", id, repository.ErrNotFound)
		}
		return nil, fmt.Errorf("error querying booking: %w", err)
	}
	return &b, nil
}

func (r *BookingRepository) InsertBooking(ctx context.Context, b *db.Booking) (string, error) {
	id := uuid.NewString()
	if b.CreatedAt.IsZero() {
		b.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO bookings (`+bookingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		id, b.Date, b.Service, b.Email, b.Time, b.Patient, b.Phone, b.Price, b.Paid, b.TransactionID, b.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return "", fmt.Errorf("insert booking: %w", repository.ErrDuplicate)
		}
		return "", fmt.Errorf("insert booking: %w", err)
	}
	b.ID = id
	return id, nil
}

func (r *BookingRepository) MarkBookingPaid(ctx context.Context, id, transactionID string) error {
	res, err := r.DB.ExecContext(ctx,
		`UPDATE bookings SET paid = true, transaction_id = $2 WHERE id = $1`, id, transactionID)
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("error updating booking %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("booking %q: %w", id, repository.ErrNotFound)
	}
	return nil
}

// AvailabilityForDate keeps, per service, the slots whose label no booking on date holds,
// in catalog order.
func (r *BookingRepository) AvailabilityForDate(ctx context.Context, date string) ([]entities.ServiceAvailability, error) {
	query := `
		SELECT
			s.id,
			s.name,
			s.price,
			ARRAY(
				SELECT u.slot
				FROM unnest(s.slots) WITH ORDINALITY AS u(slot, ord)
				WHERE u.slot NOT IN (
					SELECT b.time FROM bookings b
					WHERE b.date = $1 AND b.service = s.name
				)
				ORDER BY u.ord
			) AS slots
		FROM services s
		ORDER BY s.name`

	rows, err := r.DB.QueryContext(ctx, query, date)
	if err != nil {
		return nil, fmt.Errorf("error querying availability: %w", err)
	}
	defer rows.Close()

	out := []entities.ServiceAvailability{}
	for rows.Next() {
		var sa entities.ServiceAvailability
		var slots []string
		if err := rows.Scan(&sa.ID, &sa.Name, &sa.Price, pq.Array(&slots)); err != nil {
			return nil, fmt.Errorf("error scanning availability: %w", err)
		}
		if slots == nil {
			slots = []string{}
		}
		sa.Slots = slots
		out = append(out, sa)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating availability rows: %w", err)
	}
	return out, nil
}
