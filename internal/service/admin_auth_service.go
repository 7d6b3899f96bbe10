package service

import (
	"context"
	"errors"

	"doctorsportal/internal/auth"
	apperrors "doctorsportal/internal/errors"
	"doctorsportal/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type AdminAuthService interface {
	Login(ctx context.Context, email, password string) (string, error)
	CreateAdmin(ctx context.Context, email, password string) error
}

type adminAuthService struct {
	repo   repository.AdminAuthRepository
	signer *auth.Signer
}

func NewAdminAuthService(repo repository.AdminAuthRepository, signer *auth.Signer) AdminAuthService {
	return &adminAuthService{repo: repo, signer: signer}
}

func (s *adminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return "", apperrors.Storage(err)
	}
	if admin == nil {
		return "", apperrors.ErrUnauthorized("invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		return "", apperrors.ErrUnauthorized("invalid credentials")
	}

	return s.signer.Sign(admin.Email, auth.RoleAdmin)
}

func (s *adminAuthService) CreateAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return apperrors.Validation("email and password cannot be empty", "email", "password")
	}
	if err := s.repo.CreateNewUser(ctx, email, password); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return apperrors.Conflict("admin already exists")
		}
		return apperrors.Storage(err)
	}
	return nil
}
