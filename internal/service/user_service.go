package service

import (
	"context"

	"doctorsportal/internal/db"
	"doctorsportal/internal/entities"
	apperrors "doctorsportal/internal/errors"
	"doctorsportal/internal/repository"

	"github.com/go-playground/validator/v10"
)

type UserService struct {
	repo     repository.UserRepository
	validate *validator.Validate
}

func NewUserService(repo repository.UserRepository) *UserService {
	return &UserService{repo: repo, validate: newValidator()}
}

func (s *UserService) AddUser(ctx context.Context, u *db.User) (*entities.InsertResult, error) {
	if err := validateStruct(s.validate, u); err != nil {
		return nil, err
	}
	id, err := s.repo.InsertUser(ctx, u)
	if err != nil {
		return nil, apperrors.Storage(err)
	}
	return &entities.InsertResult{Acknowledged: true, InsertedID: id}, nil
}
