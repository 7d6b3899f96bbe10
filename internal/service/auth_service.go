package service

import (
	"context"

	"doctorsportal/internal/auth"
	apperrors "doctorsportal/internal/errors"
	"doctorsportal/internal/repository"
)

// TokenService issues client access tokens to registered users.
type TokenService struct {
	users  repository.UserRepository
	signer *auth.Signer
}

func NewTokenService(users repository.UserRepository, signer *auth.Signer) *TokenService {
	return &TokenService{users: users, signer: signer}
}

// Issue signs a token for email. Unknown emails get an authorization error.
func (s *TokenService) Issue(ctx context.Context, email string) (string, error) {
	user, err := s.users.FindUserByEmail(ctx, email)
	if err != nil {
		return "", apperrors.Storage(err)
	}
	if user == nil || email == "" {
		return "", apperrors.Forbidden("forbidden access")
	}
	return s.signer.Sign(user.Email, "")
}

func (s *TokenService) Verify(raw string) (*auth.Claims, error) {
	claims, err := s.signer.Verify(raw)
	if err != nil {
		return nil, apperrors.Forbidden("forbidden access")
	}
	return claims, nil
}
