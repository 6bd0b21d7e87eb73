package store

import (
	"context"
	"time"

	"salon-admin/internal/apperr"
	"salon-admin/internal/model"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ListBlogPosts returns posts newest first with their author; an empty status
// lists everything.
func (s *Store) ListBlogPosts(ctx context.Context, status model.Status) ([]model.BlogPost, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	q := s.reader.WithContext(ctx).Preload("Author").Order("created_at DESC")
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var posts []model.BlogPost
	if err := q.Find(&posts).Error; err != nil {
		return nil, classify("list blog posts", err)
	}
	return posts, nil
}

func (s *Store) GetBlogPost(ctx context.Context, id string) (*model.BlogPost, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var p model.BlogPost
	if err := s.reader.WithContext(ctx).Preload("Author").Where("id = ?", id).First(&p).Error; err != nil {
		return nil, classify("get blog post", err)
	}
	return &p, nil
}

// CreateBlogPost inserts p. A post created as published is stamped with
// PublishedAt = CreatedAt.
func (s *Store) CreateBlogPost(ctx context.Context, p *model.BlogPost) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
	if p.Status == "" {
		p.Status = model.StatusDraft
	}
	if p.Status == model.StatusPublished && p.PublishedAt == nil {
		at := p.CreatedAt
		if at.IsZero() {
			at = time.Now()
		}
		p.PublishedAt = &at
	}
	if err := s.writer.WithContext(ctx).Create(p).Error; err != nil {
		return classify("insert blog post", err)
	}
	return nil
}

// UpdateBlogPost applies patch. The only status change allowed is
// draft→published; publishing an already published post keeps its
// PublishedAt.
func (s *Store) UpdateBlogPost(ctx context.Context, id string, patch model.BlogPostPatch, now time.Time) (*model.BlogPost, error) {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var out model.BlogPost
	err := s.writer.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var cur model.BlogPost
		if err := tx.Where("id = ?", id).First(&cur).Error; err != nil {
			return err
		}

		updates := map[string]any{"updated_at": now}
		if patch.Title != nil {
			updates["title"] = *patch.Title
		}
		if patch.Content != nil {
			updates["content"] = *patch.Content
		}
		if patch.Excerpt != nil {
			updates["excerpt"] = *patch.Excerpt
		}
		if patch.Tags != nil {
			tags := *patch.Tags
			if tags == nil {
				tags = []string{}
			}
			updates["tags"] = datatypes.JSONSlice[string](tags)
		}
		if patch.Status != nil && *patch.Status != cur.Status {
			if *patch.Status != model.StatusPublished {
				return apperr.New(apperr.InvalidInput, "published blog posts cannot return to draft")
			}
			updates["status"] = model.StatusPublished
			updates["published_at"] = now
		}

		if err := tx.Model(&model.BlogPost{}).Where("id = ?", id).Updates(updates).Error; err != nil {
			return err
		}
		return tx.Preload("Author").Where("id = ?", id).First(&out).Error
	})
	if err != nil {
		if apperr.KindOf(err) != "" {
			return nil, err
		}
		return nil, classify("update blog post", err)
	}
	return &out, nil
}

func (s *Store) DeleteBlogPost(ctx context.Context, id string) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	res := s.writer.WithContext(ctx).Where("id = ?", id).Delete(&model.BlogPost{})
	if res.Error != nil {
		return classify("delete blog post", res.Error)
	}
	if res.RowsAffected == 0 {
		return notFound("blog post", id)
	}
	return nil
}
