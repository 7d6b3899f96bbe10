package service

import (
	"context"
	"testing"
	"time"

	"doctorsportal/internal/auth"
	"doctorsportal/internal/db"
	apperrors "doctorsportal/internal/errors"
	"doctorsportal/internal/repository/memstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenServiceIssue(t *testing.T) {
	ctx := context.Background()
	store := memstore.New(false)
	signer := auth.NewSigner("secret", time.Hour)
	tokens := NewTokenService(store, signer)

	_, err := NewUserService(store).AddUser(ctx, &db.User{Name: "Ada", Email: "ada@x.io"})
	require.NoError(t, err)

	raw, err := tokens.Issue(ctx, "ada@x.io")
	require.NoError(t, err)
	claims, err := signer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "ada@x.io", claims.Email)
	assert.Empty(t, claims.Role)

	_, err = tokens.Issue(ctx, "nobody@x.io")
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	_, err = tokens.Issue(ctx, "")
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))

	verified, err := tokens.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, "ada@x.io", verified.Email)

	_, err = tokens.Verify("not-a-token")
	assert.Equal(t, apperrors.KindAuthorization, apperrors.KindOf(err))
}

func TestAddUserRequiresEmail(t *testing.T) {
	_, err := NewUserService(memstore.New(false)).AddUser(context.Background(), &db.User{Name: "Ada"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}

func TestAdminLogin(t *testing.T) {
	ctx := context.Background()
	signer := auth.NewSigner("secret", time.Hour)
	admins := NewAdminAuthService(memstore.New(false), signer)

	require.NoError(t, admins.CreateAdmin(ctx, "admin@x.io", "hunter2"))

	raw, err := admins.Login(ctx, "admin@x.io", "hunter2")
	require.NoError(t, err)
	claims, err := signer.Verify(raw)
	require.NoError(t, err)
	assert.Equal(t, auth.RoleAdmin, claims.Role)

	_, err = admins.Login(ctx, "admin@x.io", "wrong")
	assert.Equal(t, 401, apperrors.StatusOf(err))

	_, err = admins.Login(ctx, "other@x.io", "hunter2")
	assert.Equal(t, 401, apperrors.StatusOf(err))

	err = admins.CreateAdmin(ctx, "", "")
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))

	err = admins.CreateAdmin(ctx, "admin@x.io", "another")
	assert.Equal(t, apperrors.KindConflict, apperrors.KindOf(err))
	assert.Equal(t, 409, apperrors.StatusOf(err))
}

func TestCatalogUpsert(t *testing.T) {
	ctx := context.Background()
	catalog := NewCatalogService(memstore.New(false))

	svc := &db.Service{Name: "Teeth Cleaning", Slots: []string{"A"}}
	require.NoError(t, catalog.UpsertService(ctx, svc))
	id := svc.ID

	require.NoError(t, catalog.UpsertService(ctx, &db.Service{Name: "Teeth Cleaning", Slots: []string{"A", "B"}}))
	all, err := catalog.ListServices(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, id, all[0].ID)
	assert.Equal(t, []string{"A", "B"}, all[0].Slots)

	err = catalog.UpsertService(ctx, &db.Service{Name: "Empty"})
	assert.Equal(t, apperrors.KindValidation, apperrors.KindOf(err))
}
