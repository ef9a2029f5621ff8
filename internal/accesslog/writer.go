package accesslog

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

const dayLayout = "2006-01-02"

// Day returns the UTC calendar day of t as used for log directory names
func Day(t time.Time) string {
	return t.UTC().Format(dayLayout)
}

// Writer appends request lines to the current day's log file.
//
// Appends share the handle under a read lock; the write lock is taken only
// to swap the handle when the day changes.
type Writer struct {
	mu   sync.RWMutex
	dir  string
	now  func() time.Time
	file *os.File
	day  string
	log  zerolog.Logger
}

// NewWriter opens a fresh log file for today under dir
func NewWriter(dir string, now func() time.Time, log zerolog.Logger) (*Writer, error) {
	if now == nil {
		now = time.Now
	}
	w := &Writer{
		dir: dir,
		now: now,
		log: log.With().Str("component", "accesslog").Logger(),
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.open(Day(now())); err != nil {
		return nil, err
	}
	return w, nil
}

// Write appends "{method} {path}" to the current day's log
func (w *Writer) Write(method, path string) error {
	if err := w.rotate(); err != nil {
		return err
	}

	line := method + " " + path + "\n"

	w.mu.RLock()
	defer w.mu.RUnlock()
	_, err := w.file.WriteString(line)
	return err
}

// CurrentDay returns the day of the open log file
func (w *Writer) CurrentDay() string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.day
}

// Close closes the open log file
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}

func (w *Writer) rotate() error {
	today := Day(w.now())

	w.mu.RLock()
	current := w.day
	w.mu.RUnlock()
	if current == today {
		return nil
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.day == today {
		return nil
	}
	return w.open(today)
}

// open creates the next numbered file for day. Caller holds the write lock.
func (w *Writer) open(day string) error {
	dayDir := filepath.Join(w.dir, day)
	if err := os.MkdirAll(dayDir, 0755); err != nil {
		return fmt.Errorf("failed to create log dir: %w", err)
	}

	entries, err := os.ReadDir(dayDir)
	if err != nil {
		return fmt.Errorf("failed to list log dir: %w", err)
	}

	var f *os.File
	for index := len(entries); ; index++ {
		path := filepath.Join(dayDir, fmt.Sprintf("%d.log", index))
		f, err = os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE|os.O_EXCL, 0644)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("failed to create log file: %w", err)
		}
		break
	}

	if w.file != nil {
		if err := w.file.Close(); err != nil {
			w.log.Warn().Err(err).Str("day", w.day).Msg("Failed to close previous log file")
		}
	}
	w.file, w.day = f, day

	w.log.Info().Str("day", day).Str("file", f.Name()).Msg("Access log opened")
	return nil
}
