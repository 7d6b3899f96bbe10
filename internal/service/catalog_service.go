package service

import (
	"context"

	"doctorsportal/internal/db"
	apperrors "doctorsportal/internal/errors"
	"doctorsportal/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

// CatalogService maintains the appointment options. Only admins reach it.
type CatalogService struct {
	repo     repository.ServiceRepository
	validate *validator.Validate
}

func NewCatalogService(repo repository.ServiceRepository) *CatalogService {
	return &CatalogService{repo: repo, validate: newValidator()}
}

func (s *CatalogService) ListServices(ctx context.Context) ([]db.Service, error) {
	services, err := s.repo.ListServices(ctx)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return services, nil
}

func (s *CatalogService) UpsertService(ctx context.Context, svc *db.Service) error {
	if err := validateStruct(s.validate, svc); err != nil {
		return err
	}
	if err := s.repo.UpsertService(ctx, svc); err != nil {
		return apperrors.Storage(err)
	}
	log.Info().Str("service", svc.Name).Int("slots", len(svc.Slots)).Msg("service saved")
	return nil
}
