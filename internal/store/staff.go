package store

import (
	"context"

	"salon-admin/internal/model"
)

// Staff rows hold password hashes, so they are read through the writer role
// like every other privileged query.

func (s *Store) GetStaffByEmail(ctx context.Context, email string) (*model.Staff, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var m model.Staff
	if err := s.writer.WithContext(ctx).Where("email = ?", email).First(&m).Error; err != nil {
		return nil, classify("get staff", err)
	}
	return &m, nil
}

func (s *Store) ListStaff(ctx context.Context) ([]model.Staff, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var staff []model.Staff
	if err := s.writer.WithContext(ctx).Order("created_at ASC").Find(&staff).Error; err != nil {
		return nil, classify("list staff", err)
	}
	return staff, nil
}

func (s *Store) CreateStaff(ctx context.Context, m *model.Staff) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if m.Role == "" {
		m.Role = model.RoleStaff
	}
	if err := s.writer.WithContext(ctx).Create(m).Error; err != nil {
		return classify("insert staff", err)
	}
	return nil
}
