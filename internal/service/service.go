// Package service holds the content workflow. Every error leaving a service
// method carries an apperr kind.
package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"salon-admin/internal/apperr"
	"salon-admin/internal/generation"
	"salon-admin/internal/model"
)

// Generator is the generation client as seen by the workflow.
type Generator interface {
	Generate(ctx context.Context, log *slog.Logger, source string, opts generation.Options) (*generation.Result, error)
}

// Mirror copies written rows to the analytics catalog. Failures are logged by
// the implementation and never reach the caller.
type Mirror interface {
	SyncDailyReport(ctx context.Context, log *slog.Logger, r *model.DailyReport)
	SyncBlogPost(ctx context.Context, log *slog.Logger, p *model.BlogPost)
}

type clock func() time.Time

func orDefault(log *slog.Logger) *slog.Logger {
	if log == nil {
		return slog.Default()
	}
	return log
}

// classified leaves kinded errors alone and files everything else under
// fallback.
func classified(err error, fallback apperr.Kind, msg string) error {
	if err == nil || apperr.KindOf(err) != "" {
		return err
	}
	return apperr.Wrap(fallback, msg, err)
}

func blank(s string) bool { return strings.TrimSpace(s) == "" }
