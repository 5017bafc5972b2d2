package results

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/bichocore/settler/internal/domain"
)

// Fetcher is the raw page source. *Client satisfies it; tests substitute
// canned pages.
type Fetcher interface {
	FetchRaw(ctx context.Context, code, isoDate string) ([]byte, error)
}

// Service fetches, caches, and normalizes official results. The cache
// dedupes upstream hits across settlement passes; the archiver keeps the
// raw page for audits and never fails a fetch.
type Service struct {
	fetcher  Fetcher
	cache    domain.ResultCache
	archiver domain.SnapshotArchiver
	logger   *slog.Logger
}

func NewService(fetcher Fetcher, cache domain.ResultCache, archiver domain.SnapshotArchiver, logger *slog.Logger) *Service {
	return &Service{
		fetcher:  fetcher,
		cache:    cache,
		archiver: archiver,
		logger:   logger.With(slog.String("component", "results")),
	}
}

// ForDate returns every normalized result slot for a lottery code on a
// contest date, cache first.
func (s *Service) ForDate(ctx context.Context, code string, date time.Time) ([]domain.OfficialResult, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, code, date)
		if err == nil && len(cached) > 0 {
			s.logger.DebugContext(ctx, "cache hit",
				slog.String("code", code), slog.String("date", date.Format("2006-01-02")))
			return cached, nil
		}
	}

	isoDate := date.Format("2006-01-02")
	raw, err := s.fetcher.FetchRaw(ctx, code, isoDate)
	if err != nil {
		return nil, err
	}

	if s.archiver != nil {
		if err := s.archiver.Archive(ctx, code, date, raw); err != nil {
			s.logger.WarnContext(ctx, "snapshot archive failed",
				slog.String("code", code), slog.String("error", err.Error()))
		}
	}

	normalized, err := Normalize(raw, code, date)
	if err != nil {
		return nil, fmt.Errorf("results: normalize %s/%s: %w", code, isoDate, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, code, date, normalized); err != nil {
			s.logger.WarnContext(ctx, "cache write failed",
				slog.String("code", code), slog.String("error", err.Error()))
		}
	}
	return normalized, nil
}
