package service

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"salon-admin/internal/config"
	"salon-admin/internal/generation"
	"salon-admin/internal/model"
	"salon-admin/internal/store"
	"salon-admin/internal/store/storetest"

	"gorm.io/gorm"
)

type fakeGen struct {
	mu      sync.Mutex
	res     generation.Result
	err     error
	sources []string
	opts    []generation.Options
}

func (f *fakeGen) Generate(_ context.Context, _ *slog.Logger, source string, opts generation.Options) (*generation.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, source)
	f.opts = append(f.opts, opts)
	if f.err != nil {
		return nil, f.err
	}
	res := f.res
	return &res, nil
}

func (f *fakeGen) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sources)
}

type fakeMirror struct {
	reports []string
	posts   []string
}

func (m *fakeMirror) SyncDailyReport(_ context.Context, _ *slog.Logger, r *model.DailyReport) {
	m.reports = append(m.reports, r.ID)
}

func (m *fakeMirror) SyncBlogPost(_ context.Context, _ *slog.Logger, p *model.BlogPost) {
	m.posts = append(m.posts, p.ID)
}

// steppingClock returns start, start+step, start+2*step, ...
func steppingClock(start time.Time, step time.Duration) clock {
	var mu sync.Mutex
	next := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t := next
		next = next.Add(step)
		return t
	}
}

func newStore(t *testing.T) (*store.Store, *gorm.DB) {
	t.Helper()
	db := storetest.OpenDB(t)
	return store.New(db, db, 5*time.Second), db
}

var testAdmin = config.AdminConfig{Name: "管理者", Email: "admin@example.com"}
