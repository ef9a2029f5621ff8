package service

import (
	"context"
	"time"

	"github.com/lesser-scholar/internal/accesslog"
	"github.com/lesser-scholar/internal/models"
	"github.com/rs/zerolog"
)

// statsService is the concrete implementation of StatsService
type statsService struct {
	writer    *accesslog.Writer
	compactor *accesslog.Compactor
	now       func() time.Time
	log       zerolog.Logger
}

func newStatsService(deps Dependencies, log zerolog.Logger) *statsService {
	return &statsService{
		writer:    deps.AccessLog,
		compactor: deps.Compactor,
		now:       deps.Now,
		log:       log.With().Str("service", "stats").Logger(),
	}
}

// Record appends one request line to the current day's access log
func (s *statsService) Record(method, path string) error {
	if s.writer == nil {
		return nil
	}
	return s.writer.Write(method, path)
}

// Stats merges the summaries of every completed day. The current day is
// still being written and is never compacted.
func (s *statsService) Stats(ctx context.Context) ([]models.StatEntry, error) {
	days, err := s.compactor.Days()
	if err != nil {
		return nil, err
	}

	today := accesslog.Day(s.now())
	total := models.CompactedLog{Entries: map[string]int64{}}
	for _, day := range days {
		if day >= today {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		summary, err := s.compactor.Compact(day)
		if err != nil {
			s.log.Error().Err(err).Str("day", day).Msg("Failed to compact access log")
			return nil, err
		}
		total = accesslog.Merge(total, summary)
	}

	return accesslog.Sorted(total), nil
}
