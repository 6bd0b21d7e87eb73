package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"salon-admin/internal/apperr"
	"salon-admin/internal/config"
	"salon-admin/internal/model"
	"salon-admin/internal/store"
)

// AdminIdentity resolves the configured admin staff row, creating it on first
// use. The resolved row is cached for the life of the process.
type AdminIdentity struct {
	store *store.Store
	cfg   config.AdminConfig

	mu    sync.Mutex
	staff *model.Staff
}

func NewAdminIdentity(st *store.Store, cfg config.AdminConfig) *AdminIdentity {
	return &AdminIdentity{store: st, cfg: cfg}
}

func (a *AdminIdentity) Ensure(ctx context.Context, log *slog.Logger) (*model.Staff, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.staff != nil {
		return a.staff, nil
	}
	if blank(a.cfg.Email) {
		return nil, apperr.New(apperr.InvalidInput, "admin email is not configured")
	}

	m, err := a.store.GetStaffByEmail(ctx, a.cfg.Email)
	if errors.Is(err, apperr.ErrNotFound) {
		m = &model.Staff{
			Name:         a.cfg.Name,
			Email:        a.cfg.Email,
			PasswordHash: a.cfg.PasswordHash,
			Role:         model.RoleAdmin,
		}
		err = a.store.CreateStaff(ctx, m)
		if errors.Is(err, apperr.ErrConflict) {
			// created by another instance in between
			m, err = a.store.GetStaffByEmail(ctx, a.cfg.Email)
		} else if err == nil {
			orDefault(log).Info("admin staff created", "staff_id", m.ID, "email", m.Email)
		}
	}
	if err != nil {
		return nil, classified(err, apperr.StorageError, "resolve admin staff")
	}
	a.staff = m
	return m, nil
}
