package service

import (
	"context"
	"testing"

	"salon-admin/internal/apperr"
	"salon-admin/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin(t *testing.T) {
	st, _ := newStore(t)
	ctx := context.Background()

	hash, err := HashPassword("s3cret")
	require.NoError(t, err)
	require.NoError(t, st.CreateStaff(ctx, &model.Staff{Name: "佐藤", Email: "sato@example.com", PasswordHash: hash}))
	require.NoError(t, st.CreateStaff(ctx, &model.Staff{Name: "no password", Email: "nopw@example.com"}))

	svc := NewAuthService(st)
	m, err := svc.Login(ctx, "sato@example.com", "s3cret")
	require.NoError(t, err)
	assert.Equal(t, "佐藤", m.Name)

	_, err = svc.Login(ctx, "sato@example.com", "wrong")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = svc.Login(ctx, "nobody@example.com", "s3cret")
	assert.ErrorIs(t, err, ErrBadCredentials)
	_, err = svc.Login(ctx, "nopw@example.com", "")
	assert.ErrorIs(t, err, ErrBadCredentials)

	_, err = HashPassword("")
	assert.ErrorIs(t, err, apperr.ErrInvalidInput)
}
