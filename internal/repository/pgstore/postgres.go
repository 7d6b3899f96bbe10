package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"doctorsportal/internal/repository"

	"github.com/lib/pq"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS services (
	id TEXT PRIMARY KEY,
	name TEXT UNIQUE NOT NULL,
	slots TEXT[] NOT NULL DEFAULT '{}',
	price DOUBLE PRECISION NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS bookings (
	id TEXT PRIMARY KEY,
	date TEXT NOT NULL,
	service TEXT NOT NULL,
	email TEXT NOT NULL,
	time TEXT NOT NULL DEFAULT '',
	patient TEXT NOT NULL DEFAULT '',
	phone TEXT NOT NULL DEFAULT '',
	price DOUBLE PRECISION NOT NULL DEFAULT 0,
	paid BOOLEAN NOT NULL DEFAULT false,
	transaction_id TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE INDEX IF NOT EXISTS idx_bookings_date ON bookings(date);
CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings(email);

CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL,
	role TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_users_email ON users(email);

CREATE TABLE IF NOT EXISTS admins (
	email TEXT PRIMARY KEY,
	password_hash TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS payments (
	id TEXT PRIMARY KEY,
	booking_id TEXT NOT NULL,
	email TEXT NOT NULL DEFAULT '',
	transaction_id TEXT NOT NULL,
	amount BIGINT NOT NULL DEFAULT 0,
	currency TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

const uniqueBookingSQL = `CREATE UNIQUE INDEX IF NOT EXISTS bookings_date_service_email_key ON bookings(date, service, email)`

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

func Migrate(ctx context.Context, conn *sql.DB, uniqueBookings bool) error {
	if _, err := conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	if uniqueBookings {
		if _, err := conn.ExecContext(ctx, uniqueBookingSQL); err != nil {
			return fmt.Errorf("create booking unique index: %w", err)
		}
	}
	return nil
}

// Open connects to postgres, applies the schema and returns the postgres-backed store.
func Open(ctx context.Context, databaseURL string, uniqueBookings bool) (*repository.Store, error) {
	conn, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open DB: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	if err := Migrate(ctx, conn, uniqueBookings); err != nil {
		conn.Close()
		return nil, err
	}

	bookings := NewBookingRepository(conn)
	return &repository.Store{
		Services:     NewServiceRepository(conn),
		Bookings:     bookings,
		Availability: bookings,
		Users:        NewUserRepository(conn),
		Admins:       NewAdminAuthRepository(conn),
		Payments:     NewPaymentRepository(conn),
		Close:        func(context.Context) error { return conn.Close() },
	}, nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
