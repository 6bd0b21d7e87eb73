package store

import (
	"context"

	"salon-admin/internal/model"

	"gorm.io/gorm/clause"
)

func (s *Store) CreateDailyReport(ctx context.Context, r *model.DailyReport) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if err := s.writer.WithContext(ctx).Create(r).Error; err != nil {
		return classify("insert daily report", err)
	}
	return nil
}

// ListDailyReports returns reports with from <= date < to, oldest first, each
// with its staff member. Empty bounds are open.
func (s *Store) ListDailyReports(ctx context.Context, from, to string) ([]model.DailyReport, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	q := s.reader.WithContext(ctx).Preload("Staff").Order("date ASC").Order("created_at ASC")
	if from != "" {
		q = q.Where(clause.Gte{Column: clause.Column{Name: "date"}, Value: from})
	}
	if to != "" {
		q = q.Where(clause.Lt{Column: clause.Column{Name: "date"}, Value: to})
	}
	var reports []model.DailyReport
	if err := q.Find(&reports).Error; err != nil {
		return nil, classify("list daily reports", err)
	}
	return reports, nil
}
