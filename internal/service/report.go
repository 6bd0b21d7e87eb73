package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"salon-admin/internal/apperr"
	"salon-admin/internal/logger"
	"salon-admin/internal/model"
	"salon-admin/internal/store"
)

type DailyReportService struct {
	store  *store.Store
	mirror Mirror
	now    clock
}

func NewDailyReportService(st *store.Store, mirror Mirror) *DailyReportService {
	return &DailyReportService{store: st, mirror: mirror, now: time.Now}
}

// Submit records a report for staffID. An empty date means today.
func (s *DailyReportService) Submit(ctx context.Context, log *slog.Logger, staffID string, req model.CreateDailyReportRequest) (*model.DailyReport, error) {
	if blank(staffID) {
		return nil, apperr.New(apperr.InvalidInput, "staff id is required")
	}
	if blank(req.Content) {
		return nil, apperr.New(apperr.InvalidInput, "content is required")
	}
	now := s.now()
	date := req.Date
	if date == "" {
		date = now.Format(time.DateOnly)
	}
	if err := validDate(date); err != nil {
		return nil, err
	}

	r := &model.DailyReport{StaffID: staffID, Date: date, Content: strings.TrimSpace(req.Content), CreatedAt: now}
	if err := s.store.CreateDailyReport(ctx, r); err != nil {
		return nil, classified(err, apperr.StorageError, "insert daily report")
	}
	orDefault(log).Info("daily report submitted", logger.KeyCategory, "user", "report_id", r.ID, "date", date)
	if s.mirror != nil {
		s.mirror.SyncDailyReport(ctx, log, r)
	}
	return r, nil
}

// List returns reports with from <= date < to. Either bound may be empty.
func (s *DailyReportService) List(ctx context.Context, from, to string) ([]model.DailyReport, error) {
	for _, d := range []string{from, to} {
		if d == "" {
			continue
		}
		if err := validDate(d); err != nil {
			return nil, err
		}
	}
	reports, err := s.store.ListDailyReports(ctx, from, to)
	return reports, classified(err, apperr.StorageError, "list daily reports")
}

// ListMonth returns the reports of one calendar month.
func (s *DailyReportService) ListMonth(ctx context.Context, yearMonth string) ([]model.DailyReport, error) {
	from, to, _, err := MonthRange(yearMonth)
	if err != nil {
		return nil, err
	}
	return s.List(ctx, from, to)
}

func validDate(d string) error {
	if _, err := time.Parse(time.DateOnly, d); err != nil {
		return apperr.Wrap(apperr.InvalidInput, "date must be YYYY-MM-DD", err)
	}
	return nil
}
