package service

import (
	"context"
	"errors"

	"salon-admin/internal/apperr"
	"salon-admin/internal/model"
	"salon-admin/internal/store"

	"golang.org/x/crypto/bcrypt"
)

// ErrBadCredentials covers both unknown email and wrong password.
var ErrBadCredentials = errors.New("invalid email or password")

type AuthService struct{ store *store.Store }

func NewAuthService(st *store.Store) *AuthService { return &AuthService{store: st} }

func (s *AuthService) Login(ctx context.Context, email, password string) (*model.Staff, error) {
	m, err := s.store.GetStaffByEmail(ctx, email)
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, ErrBadCredentials
	}
	if err != nil {
		return nil, err
	}
	if m.PasswordHash == "" || bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) != nil {
		return nil, ErrBadCredentials
	}
	return m, nil
}

// HashPassword returns the bcrypt hash stored in staff.password_hash.
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", apperr.New(apperr.InvalidInput, "password is empty")
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", apperr.Wrap(apperr.InvalidInput, "hash password", err)
	}
	return string(h), nil
}
