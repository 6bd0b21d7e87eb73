package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"salon-admin/internal/apperr"
	"salon-admin/internal/generation"
	"salon-admin/internal/logger"
	"salon-admin/internal/model"
	"salon-admin/internal/store"

	"gorm.io/datatypes"
)

type BlogService struct {
	store  *store.Store
	gen    Generator
	admin  *AdminIdentity
	mirror Mirror
	now    clock
}

// NewBlogService wires the blog path. mirror may be nil.
func NewBlogService(st *store.Store, gen Generator, admin *AdminIdentity, mirror Mirror) *BlogService {
	return &BlogService{store: st, gen: gen, admin: admin, mirror: mirror, now: time.Now}
}

// CreateFromReport drafts a post from one daily report. Nothing is saved.
func (s *BlogService) CreateFromReport(ctx context.Context, log *slog.Logger, report string, req model.GenerateBlogRequest) (*model.BlogDraft, error) {
	log = orDefault(log).With(logger.KeyCategory, "user")
	if blank(report) {
		return nil, apperr.New(apperr.InvalidInput, "daily report is empty")
	}

	res, err := s.gen.Generate(ctx, log, report, generation.Options{
		Template:     generation.TemplateBlogPost,
		TargetLength: req.TargetLength,
		Tone:         generation.Tone(req.Tone),
	})
	if err != nil {
		return nil, classified(err, apperr.ProviderError, "generate blog post")
	}
	log.Info("blog draft generated", "title", res.Title, "tags", len(res.SuggestedTags))
	return &model.BlogDraft{
		Title:         res.Title,
		Content:       res.Content,
		Excerpt:       res.Excerpt,
		SuggestedTags: res.SuggestedTags,
	}, nil
}

// Save persists a reviewed draft under the admin identity. A non-blank
// original report is stored first and referenced by the post. The writes are
// sequential; a failed post insert leaves the report row in place.
func (s *BlogService) Save(ctx context.Context, log *slog.Logger, req model.SaveBlogRequest) (*model.BlogPost, error) {
	log = orDefault(log).With(logger.KeyCategory, "user")
	if blank(req.Title) || blank(req.Content) {
		return nil, apperr.New(apperr.InvalidInput, "title and content are required")
	}
	if req.Status == "" {
		req.Status = model.StatusDraft
	}
	if !req.Status.Valid() {
		return nil, apperr.New(apperr.InvalidInput, "unknown status "+string(req.Status))
	}

	admin, err := s.admin.Ensure(ctx, log)
	if err != nil {
		return nil, err
	}
	now := s.now()

	var reportID *string
	if !blank(req.OriginalReport) {
		r := &model.DailyReport{
			StaffID:   admin.ID,
			Date:      now.Format(time.DateOnly),
			Content:   strings.TrimSpace(req.OriginalReport),
			CreatedAt: now,
		}
		if err := s.store.CreateDailyReport(ctx, r); err != nil {
			return nil, classified(err, apperr.StorageError, "save original report")
		}
		reportID = &r.ID
		r.Staff = admin
		log.Info("original report saved", "report_id", r.ID)
		if s.mirror != nil {
			s.mirror.SyncDailyReport(ctx, log, r)
		}
	}

	tags := req.SuggestedTags
	if tags == nil {
		tags = []string{}
	}
	p := &model.BlogPost{
		Title:            req.Title,
		Content:          req.Content,
		Excerpt:          req.Excerpt,
		Status:           req.Status,
		AuthorID:         admin.ID,
		Tags:             datatypes.JSONSlice[string](tags),
		OriginalReportID: reportID,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if err := s.store.CreateBlogPost(ctx, p); err != nil {
		return nil, classified(err, apperr.StorageError, "save blog post")
	}
	p.Author = admin
	log.Info("blog post saved", "post_id", p.ID, "status", string(p.Status))
	if s.mirror != nil {
		s.mirror.SyncBlogPost(ctx, log, p)
	}
	return p, nil
}

func (s *BlogService) List(ctx context.Context, status model.Status) ([]model.BlogPost, error) {
	if status != "" && !status.Valid() {
		return nil, apperr.New(apperr.InvalidInput, "unknown status "+string(status))
	}
	posts, err := s.store.ListBlogPosts(ctx, status)
	return posts, classified(err, apperr.StorageError, "list blog posts")
}

func (s *BlogService) Update(ctx context.Context, log *slog.Logger, id string, patch model.BlogPostPatch) (*model.BlogPost, error) {
	if blank(id) {
		return nil, apperr.New(apperr.InvalidInput, "id is required")
	}
	if patch.Title != nil && blank(*patch.Title) {
		return nil, apperr.New(apperr.InvalidInput, "title cannot be empty")
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperr.New(apperr.InvalidInput, "unknown status "+string(*patch.Status))
	}
	p, err := s.store.UpdateBlogPost(ctx, id, patch, s.now())
	if err != nil {
		return nil, classified(err, apperr.StorageError, "update blog post")
	}
	orDefault(log).Info("blog post updated", logger.KeyCategory, "user", "post_id", id, "status", string(p.Status))
	if s.mirror != nil && patch.Status != nil {
		s.mirror.SyncBlogPost(ctx, log, p)
	}
	return p, nil
}

func (s *BlogService) Delete(ctx context.Context, log *slog.Logger, id string) error {
	if blank(id) {
		return apperr.New(apperr.InvalidInput, "id is required")
	}
	if err := s.store.DeleteBlogPost(ctx, id); err != nil {
		return classified(err, apperr.StorageError, "delete blog post")
	}
	orDefault(log).Info("blog post deleted", logger.KeyCategory, "user", "post_id", id)
	return nil
}
