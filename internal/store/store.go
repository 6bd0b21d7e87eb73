// Package store is the persistence gateway. It is the only code that writes
// rows; reads go through the reader connection and writes through the writer
// connection, which carries the elevated database role.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salon-admin/internal/apperr"
	"salon-admin/internal/model"

	"gorm.io/gorm"
)

type Store struct {
	reader  *gorm.DB
	writer  *gorm.DB
	timeout time.Duration
}

// New builds a gateway. reader and writer may be the same handle in tests.
// timeout bounds every call; zero leaves the caller's context alone.
func New(reader, writer *gorm.DB, timeout time.Duration) *Store {
	return &Store{reader: reader, writer: writer, timeout: timeout}
}

func (s *Store) AutoMigrate(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	if err := s.writer.WithContext(ctx).AutoMigrate(model.Tables()...); err != nil {
		return classify("auto migrate", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()
	sqlDB, err := s.reader.DB()
	if err != nil {
		return classify("ping", err)
	}
	return classify("ping", sqlDB.PingContext(ctx))
}

func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.timeout)
}

func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return apperr.Wrap(apperr.NotFound, op, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), isDuplicate(err):
		return apperr.Wrap(apperr.Conflict, op, err)
	case errors.Is(err, context.DeadlineExceeded):
		return apperr.Wrap(apperr.Timeout, op, err)
	default:
		return apperr.Wrap(apperr.StorageError, op, err)
	}
}

// isDuplicate catches unique violations from drivers without an error
// translator.
func isDuplicate(err error) bool {
	s := strings.ToLower(err.Error())
	return strings.Contains(s, "unique constraint failed") ||
		strings.Contains(s, "duplicate entry") ||
		strings.Contains(s, "duplicate key value")
}

func notFound(op, id string) error {
	return apperr.New(apperr.NotFound, fmt.Sprintf("%s %s", op, id))
}
