package pgstore

import (
	"context"
	"database/sql"
	"fmt"

	"doctorsportal/internal/db"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

type ServiceRepository struct {
	DB *sql.DB
}

func NewServiceRepository(conn *sql.DB) *ServiceRepository {
	return &ServiceRepository{DB: conn}
}

func (r *ServiceRepository) ListServices(ctx context.Context) ([]db.Service, error) {
	rows, err := r.DB.QueryContext(ctx, `SELECT id, name, slots, price FROM services ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("error querying services: %w", err)
	}
	defer rows.Close()

	services := []db.Service{}
	for rows.Next() {
		var s db.Service
		var slots []string
		if err := rows.Scan(&s.ID, &s.Name, pq.Array(&slots), &s.Price); err != nil {
			return nil, fmt.Errorf("error scanning service: %w", err)
		}
		if slots == nil {
			slots = []string{}
		}
		s.Slots = slots
		services = append(services, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error after iterating service rows: %w", err)
	}
	return services, nil
}

func (r *ServiceRepository) UpsertService(ctx context.Context, svc *db.Service) error {
	query := `
		INSERT INTO services (id, name, slots, price)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (name) DO UPDATE SET slots = EXCLUDED.slots, price = EXCLUDED.price
		RETURNING id`
	err := r.DB.QueryRowContext(ctx, query, uuid.NewString(), svc.Name, pq.Array(svc.Slots), svc.Price).Scan(&svc.ID)
	if err != nil {
		return fmt.Errorf("upsert service %s: %w", svc.Name, err)
	}
	return nil
}
