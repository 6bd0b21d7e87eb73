package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"salon-admin/internal/apperr"
	"salon-admin/internal/generation"
	"salon-admin/internal/logger"
	"salon-admin/internal/model"
	"salon-admin/internal/store"

	"golang.org/x/sync/singleflight"
)

var yearMonthRe = regexp.MustCompile(`^\d{4}-\d{2}$`)

// MonthRange validates yearMonth (YYYY-MM, month 01-12) and returns the
// half-open date range [first day, first day of next month) plus the
// month label used in prompts.
func MonthRange(yearMonth string) (from, to, label string, err error) {
	if !yearMonthRe.MatchString(yearMonth) {
		return "", "", "", apperr.New(apperr.InvalidInput, fmt.Sprintf("year month %q is not YYYY-MM", yearMonth))
	}
	start, perr := time.Parse("2006-01", yearMonth)
	if perr != nil {
		return "", "", "", apperr.Wrap(apperr.InvalidInput, fmt.Sprintf("year month %q", yearMonth), perr)
	}
	return start.Format(time.DateOnly), start.AddDate(0, 1, 0).Format(time.DateOnly), fmt.Sprintf("%d月", start.Month()), nil
}

type OwnerMessageService struct {
	store *store.Store
	gen   Generator
	now   clock
	group singleflight.Group
}

func NewOwnerMessageService(st *store.Store, gen Generator) *OwnerMessageService {
	return &OwnerMessageService{store: st, gen: gen, now: time.Now}
}

// GenerateForMonth writes the month's draft from its daily reports. An
// existing draft is overwritten in place. Concurrent calls for one month
// share a single generation.
func (s *OwnerMessageService) GenerateForMonth(ctx context.Context, log *slog.Logger, yearMonth string) (*model.OwnerMessage, error) {
	log = orDefault(log).With(logger.KeyCategory, "user", "year_month", yearMonth)
	from, to, label, err := MonthRange(yearMonth)
	if err != nil {
		return nil, err
	}

	// The shared call outlives any single caller; the generation client and
	// the store still bound it with their own timeouts.
	shared := context.WithoutCancel(ctx)
	v, err, joined := s.group.Do(yearMonth, func() (any, error) {
		return s.generate(shared, log, yearMonth, from, to, label)
	})
	if err != nil {
		return nil, err
	}
	if joined {
		log.Debug("owner message generation shared")
	}
	return v.(*model.OwnerMessage), nil
}

func (s *OwnerMessageService) generate(ctx context.Context, log *slog.Logger, yearMonth, from, to, label string) (*model.OwnerMessage, error) {
	reports, err := s.store.ListDailyReports(ctx, from, to)
	if err != nil {
		return nil, classified(err, apperr.StorageError, "list daily reports")
	}
	if len(reports) == 0 {
		return nil, apperr.New(apperr.NotFound, "no daily reports for "+yearMonth)
	}

	var sb strings.Builder
	sources := make([]string, 0, len(reports))
	for _, r := range reports {
		fmt.Fprintf(&sb, "%s: %s\n", r.Date, strings.TrimSpace(r.Content))
		sources = append(sources, r.ID)
	}
	log.Info("owner message generation started", "reports", len(reports))

	res, err := s.gen.Generate(ctx, log, sb.String(), generation.Options{
		Template:   generation.TemplateOwnerMessage,
		MonthLabel: label,
	})
	if err != nil {
		return nil, classified(err, apperr.ProviderError, "generate owner message")
	}

	content := store.MessageContent{
		Title:      res.Title,
		BodyMD:     res.Content,
		Highlights: res.Highlights,
		Sources:    sources,
	}
	now := s.now()

	draft, err := s.store.FindDraftOwnerMessage(ctx, yearMonth)
	switch {
	case errors.Is(err, apperr.ErrNotFound):
		m := &model.OwnerMessage{
			YearMonth:  yearMonth,
			Title:      content.Title,
			BodyMD:     content.BodyMD,
			Highlights: content.Highlights,
			Sources:    content.Sources,
			Status:     model.StatusDraft,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.store.CreateOwnerMessage(ctx, m); err != nil {
			return nil, classified(err, apperr.StorageError, "insert owner message")
		}
		log.Info("owner message draft created", "message_id", m.ID)
		return m, nil
	case err != nil:
		return nil, classified(err, apperr.StorageError, "find owner message draft")
	}

	m, err := s.store.UpdateOwnerMessageDraft(ctx, draft.ID, content, now)
	if err != nil {
		return nil, classified(err, apperr.StorageError, "update owner message")
	}
	log.Info("owner message draft updated", "message_id", m.ID)
	return m, nil
}

// Publish makes id the published message of its month. Conflict means another
// message of that month is already published.
func (s *OwnerMessageService) Publish(ctx context.Context, log *slog.Logger, id string) (*model.OwnerMessage, error) {
	if blank(id) {
		return nil, apperr.New(apperr.InvalidInput, "id is required")
	}
	m, err := s.store.PublishOwnerMessage(ctx, id, s.now())
	if err != nil {
		orDefault(log).Warn("owner message publish rejected", logger.KeyCategory, "user", "message_id", id, "err", err)
		return nil, classified(err, apperr.StorageError, "publish owner message")
	}
	orDefault(log).Info("owner message published", logger.KeyCategory, "user", "message_id", id, "year_month", m.YearMonth)
	return m, nil
}

func (s *OwnerMessageService) Unpublish(ctx context.Context, log *slog.Logger, id string) (*model.OwnerMessage, error) {
	if blank(id) {
		return nil, apperr.New(apperr.InvalidInput, "id is required")
	}
	m, err := s.store.UnpublishOwnerMessage(ctx, id, s.now())
	if err != nil {
		return nil, classified(err, apperr.StorageError, "unpublish owner message")
	}
	orDefault(log).Info("owner message unpublished", logger.KeyCategory, "user", "message_id", id)
	return m, nil
}

func (s *OwnerMessageService) Delete(ctx context.Context, log *slog.Logger, id string) error {
	if blank(id) {
		return apperr.New(apperr.InvalidInput, "id is required")
	}
	if err := s.store.DeleteOwnerMessage(ctx, id); err != nil {
		return classified(err, apperr.StorageError, "delete owner message")
	}
	orDefault(log).Info("owner message deleted", logger.KeyCategory, "user", "message_id", id)
	return nil
}

func (s *OwnerMessageService) List(ctx context.Context, f model.OwnerMessageFilter) ([]model.OwnerMessage, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, apperr.New(apperr.InvalidInput, "unknown status "+string(f.Status))
	}
	if f.YearMonth != "" {
		if _, _, _, err := MonthRange(f.YearMonth); err != nil {
			return nil, err
		}
	}
	msgs, err := s.store.ListOwnerMessages(ctx, f)
	return msgs, classified(err, apperr.StorageError, "list owner messages")
}
