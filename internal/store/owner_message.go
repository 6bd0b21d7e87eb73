package store

import (
	"context"
	"fmt"
	"time"

	"salon-admin/internal/apperr"
	"salon-admin/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MessageContent is the generated part of an owner message.
type MessageContent struct {
	Title      string
	BodyMD     string
	Highlights []string
	Sources    []string
}

func (s *Store) ListOwnerMessages(ctx context.Context, f model.OwnerMessageFilter) ([]model.OwnerMessage, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	q := s.reader.WithContext(ctx).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "year_month"}, Desc: true}).
		Order("created_at DESC")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.YearMonth != "" {
		q = q.Where(monthIs(f.YearMonth))
	}
	var msgs []model.OwnerMessage
	if err := q.Find(&msgs).Error; err != nil {
		return nil, classify("list owner messages", err)
	}
	return msgs, nil
}

func (s *Store) GetOwnerMessage(ctx context.Context, id string) (*model.OwnerMessage, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var m model.OwnerMessage
	if err := s.reader.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, classify("get owner message", err)
	}
	return &m, nil
}

// FindDraftOwnerMessage returns the most recently updated draft for the month.
func (s *Store) FindDraftOwnerMessage(ctx context.Context, yearMonth string) (*model.OwnerMessage, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var m model.OwnerMessage
	err := s.writer.WithContext(ctx).
		Where(monthIs(yearMonth)).
		Where("status = ?", model.StatusDraft).
		Order("updated_at DESC").
		First(&m).Error
	if err != nil {
		return nil, classify("find draft owner message", err)
	}
	return &m, nil
}

// CreateOwnerMessage inserts m. A published message gets PublishedMonth set
// so it competes for its month like a publish does.
func (s *Store) CreateOwnerMessage(ctx context.Context, m *model.OwnerMessage) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if m.Status == "" {
		m.Status = model.StatusDraft
	}
	if m.Status == model.StatusPublished {
		month := m.YearMonth
		m.PublishedMonth = &month
		if m.PublishedAt == nil {
			at := m.CreatedAt
			if at.IsZero() {
				at = time.Now()
			}
			m.PublishedAt = &at
		}
	} else {
		m.PublishedMonth = nil
	}
	if m.Highlights == nil {
		m.Highlights = datatypes.JSONSlice[string]{}
	}
	if m.Sources == nil {
		m.Sources = datatypes.JSONSlice[string]{}
	}
	if err := s.writer.WithContext(ctx).Create(m).Error; err != nil {
		return classify("insert owner message", err)
	}
	return nil
}

// UpdateOwnerMessageDraft overwrites the content of a draft. It reports
// NotFound when id is missing or no longer a draft.
func (s *Store) UpdateOwnerMessageDraft(ctx context.Context, id string, c MessageContent, now time.Time) (*model.OwnerMessage, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	db := s.writer.WithContext(ctx)
	res := db.Model(&model.OwnerMessage{}).
		Where("id = ? AND status = ?", id, model.StatusDraft).
		Updates(map[string]any{
			"title":      c.Title,
			"body_md":    c.BodyMD,
			"highlights": datatypes.JSONSlice[string](nonNil(c.Highlights)),
			"sources":    datatypes.JSONSlice[string](nonNil(c.Sources)),
			"updated_at": now,
		})
	if res.Error != nil {
		return nil, classify("update owner message", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("draft owner message", id)
	}
	var m model.OwnerMessage
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, classify("reload owner message", err)
	}
	return &m, nil
}

// PublishOwnerMessage moves id to published unless another message of the same
// month is already published. The update only matches drafts and sets
// published_month, whose unique index rejects a concurrent second publish.
// Publishing an already published message returns it unchanged.
func (s *Store) PublishOwnerMessage(ctx context.Context, id string, now time.Time) (*model.OwnerMessage, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var out model.OwnerMessage
	err := s.writer.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", id).First(&out).Error; err != nil {
			return err
		}
		if out.Status == model.StatusPublished {
			return nil
		}

		var others int64
		err := tx.Model(&model.OwnerMessage{}).
			Where(monthIs(out.YearMonth)).
			Where("status = ? AND id <> ?", model.StatusPublished, id).
			Count(&others).Error
		if err != nil {
			return err
		}
		if others > 0 {
			return apperr.New(apperr.Conflict, fmt.Sprintf("owner message for %s already published", out.YearMonth))
		}

		month := out.YearMonth
		res := tx.Model(&model.OwnerMessage{}).
			Where("id = ? AND status = ?", id, model.StatusDraft).
			Updates(map[string]any{
				"status":          model.StatusPublished,
				"published_at":    now,
				"published_month": month,
				"updated_at":      now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.New(apperr.Conflict, "owner message changed while publishing")
		}
		return tx.Where("id = ?", id).First(&out).Error
	})
	if err != nil {
		if apperr.KindOf(err) != "" {
			return nil, err
		}
		return nil, classify("publish owner message", err)
	}
	return &out, nil
}

func (s *Store) UnpublishOwnerMessage(ctx context.Context, id string, now time.Time) (*model.OwnerMessage, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	db := s.writer.WithContext(ctx)
	res := db.Model(&model.OwnerMessage{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":          model.StatusDraft,
			"published_at":    nil,
			"published_month": nil,
			"updated_at":      now,
		})
	if res.Error != nil {
		return nil, classify("unpublish owner message", res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, notFound("owner message", id)
	}
	var m model.OwnerMessage
	if err := db.Where("id = ?", id).First(&m).Error; err != nil {
		return nil, classify("reload owner message", err)
	}
	return &m, nil
}

func (s *Store) DeleteOwnerMessage(ctx context.Context, id string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res := s.writer.WithContext(ctx).Where("id = ?", id).Delete(&model.OwnerMessage{})
	if res.Error != nil {
		return classify("delete owner message", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("owner message", id)
	}
	return nil
}

// monthIs quotes the column: YEAR_MONTH is reserved in MySQL.
func monthIs(yearMonth string) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: "year_month"}, Value: yearMonth}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
