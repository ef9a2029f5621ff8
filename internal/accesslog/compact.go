package accesslog

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/lesser-scholar/internal/models"
	"github.com/lesser-scholar/internal/store"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

// Dir is the store key under which daily log directories live
const Dir = "logs"

// CompactedFile is the per-day summary written by compaction
const CompactedFile = "compacted.toml"

// Compactor reduces completed days of raw logs to line counts
type Compactor struct {
	store *store.Store
	group singleflight.Group
	log   zerolog.Logger
}

// NewCompactor creates a compactor over the store's log directory
func NewCompactor(s *store.Store, log zerolog.Logger) *Compactor {
	return &Compactor{
		store: s,
		log:   log.With().Str("component", "compactor").Logger(),
	}
}

// Compact returns the summary of day, computing and persisting it from the
// raw log files when no summary exists yet. Callers must not compact the
// current day.
func (c *Compactor) Compact(day string) (models.CompactedLog, error) {
	v, err, _ := c.group.Do(day, func() (interface{}, error) {
		return c.compact(day)
	})
	if err != nil {
		return models.CompactedLog{}, err
	}
	return v.(models.CompactedLog), nil
}

func (c *Compactor) compact(day string) (models.CompactedLog, error) {
	key := path.Join(Dir, day, CompactedFile)

	if _, err := os.Stat(c.store.Path(key)); err == nil {
		summary, err := store.Read[models.CompactedLog](c.store, key)
		if err != nil {
			return models.CompactedLog{}, err
		}
		if summary.Entries == nil {
			summary.Entries = map[string]int64{}
		}
		return summary, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return models.CompactedLog{}, fmt.Errorf("stat %s: %w", key, err)
	}

	dayDir := c.store.Path(path.Join(Dir, day))
	entries, err := os.ReadDir(dayDir)
	if err != nil {
		return models.CompactedLog{}, fmt.Errorf("failed to list %s: %w", dayDir, err)
	}

	summary := models.CompactedLog{Entries: map[string]int64{}}
	files := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".log" {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dayDir, e.Name()))
		if err != nil {
			return models.CompactedLog{}, fmt.Errorf("failed to read log: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line != "" {
				summary.Entries[line]++
			}
		}
		files++
	}

	if err := store.Write(c.store, key, summary); err != nil {
		return models.CompactedLog{}, err
	}

	c.log.Info().
		Str("day", day).
		Int("files", files).
		Int("distinct_lines", len(summary.Entries)).
		Msg("Day compacted")

	return summary, nil
}

// Days lists the days that have a log directory, in ascending order
func (c *Compactor) Days() ([]string, error) {
	entries, err := os.ReadDir(c.store.Path(Dir))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list log days: %w", err)
	}

	var days []string
	for _, e := range entries {
		if e.IsDir() {
			days = append(days, e.Name())
		}
	}
	sort.Strings(days)
	return days, nil
}

// Merge sums the counts of a and b into a new log
func Merge(a, b models.CompactedLog) models.CompactedLog {
	out := models.CompactedLog{Entries: make(map[string]int64, len(a.Entries)+len(b.Entries))}
	for k, v := range a.Entries {
		out.Entries[k] += v
	}
	for k, v := range b.Entries {
		out.Entries[k] += v
	}
	return out
}

// Sorted orders a log by descending count, then by line
func Sorted(l models.CompactedLog) []models.StatEntry {
	stats := make([]models.StatEntry, 0, len(l.Entries))
	for line, count := range l.Entries {
		stats = append(stats, models.StatEntry{Line: line, Count: count})
	}
	sort.Slice(stats, func(i, j int) bool {
		if stats[i].Count != stats[j].Count {
			return stats[i].Count > stats[j].Count
		}
		return stats[i].Line < stats[j].Line
	})
	return stats
}
