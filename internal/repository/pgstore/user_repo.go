package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"doctorsportal/internal/db"
	"doctorsportal/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserRepository struct {
	DB *sql.DB
}

func NewUserRepository(conn *sql.DB) *UserRepository {
	return &UserRepository{DB: conn}
}

func (r *UserRepository) InsertUser(ctx context.Context, u *db.User) (string, error) {
	id := uuid.NewString()
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO users (id, name, email, role) VALUES ($1, $2, $3, $4)`,
		id, u.Name, u.Email, u.Role)
	if err != nil {
		return "", fmt.Errorf("insert user: %w", err)
	}
	u.ID = id
	return id, nil
}

func (r *UserRepository) FindUserByEmail(ctx context.Context, email string) (*db.User, error) {
	var u db.User
	err := r.DB.QueryRowContext(ctx,
		`SELECT id, name, email, role FROM users WHERE email = $1 LIMIT 1`, email).
		Scan(&u.ID, &u.Name, &u.Email, &u.Role)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying user: %w", err)
	}
	return &u, nil
}

type AdminAuthRepository struct {
	db *sql.DB
}

func NewAdminAuthRepository(conn *sql.DB) *AdminAuthRepository {
	return &AdminAuthRepository{db: conn}
}

func (r *AdminAuthRepository) GetByEmail(ctx context.Context, email string) (*db.Admin, error) {
	var admin db.Admin
	err := r.db.QueryRowContext(ctx, "SELECT email, password_hash FROM admins WHERE email = $1", email).
		Scan(&admin.Email, &admin.PasswordHash)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &admin, nil
}

func (r *AdminAuthRepository) CreateNewUser(ctx context.Context, email, password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, "INSERT INTO admins (email, password_hash) VALUES ($1, $2)", email, string(hashedPassword))
	return adminInsertError(email, err)
}

func adminInsertError(email string, err error) error {
	if err == nil {
		return nil
	}
	if isUniqueViolation(err) {
		return fmt.Errorf("admin %s: %w", email, repository.ErrDuplicate)
	}
	return fmt.Errorf("insert admin: %w", err)
}

type PaymentRepository struct {
	DB *sql.DB
}

func NewPaymentRepository(conn *sql.DB) *PaymentRepository {
	return &PaymentRepository{DB: conn}
}

func (r *PaymentRepository) InsertPayment(ctx context.Context, p *db.Payment) (string, error) {
	id := uuid.NewString()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO payments (id, booking_id, email, transaction_id, amount, currency, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		id, p.BookingID, p.Email, p.TransactionID, p.Amount, p.Currency, p.CreatedAt)
	if err != nil {
		return "", fmt.Errorf("insert payment: %w", err)
	}
	p.ID = id
	return id, nil
}
