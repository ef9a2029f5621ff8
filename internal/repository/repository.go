package repository

import (
	"context"

	"github.com/lesser-scholar/internal/models"
	"github.com/lesser-scholar/internal/store"
)

// Resource keys relative to the data directory
const (
	IntakeKey   = "unverified_comments.toml"
	CountersKey = "comment_counts.toml"
	ActivityKey = "recent_comments.toml"
	CommentsDir = "comments"
)

// Queue is the intake queue as seen while its lock is held
type Queue interface {
	Load() ([]models.UnmoderatedComment, error)
	Replace(comments []models.UnmoderatedComment) error
}

// IntakeRepository defines the interface for the unmoderated comment queue
type IntakeRepository interface {
	Append(ctx context.Context, comment *models.UnmoderatedComment) error
	List(ctx context.Context) ([]models.UnmoderatedComment, error)
	WithLock(ctx context.Context, fn func(q Queue) error) error
}

// CounterRepository defines the interface for per-article post index allocation
type CounterRepository interface {
	Allocate(ctx context.Context, fn func(c *Counters) error) error
	Peek(ctx context.Context, article string) (int64, error)
}

// PublishedRepository defines the interface for per-article published stores
type PublishedRepository interface {
	Append(ctx context.Context, article string, comments []models.PublishedComment) error
	List(ctx context.Context, article string) ([]models.PublishedComment, error)
}

// ActivityRepository defines the interface for the recent-activity list
type ActivityRepository interface {
	Recent(ctx context.Context) ([]string, error)
	PromoteAll(ctx context.Context, articles []string) ([]string, error)
}

// Repositories holds all repository interfaces
type Repositories struct {
	Intake    IntakeRepository
	Counters  CounterRepository
	Published PublishedRepository
	Activity  ActivityRepository
}

// New creates all repositories over the given store
func New(s *store.Store, publishedCacheSize int) (*Repositories, error) {
	published, err := NewPublishedRepo(s, publishedCacheSize)
	if err != nil {
		return nil, err
	}

	return &Repositories{
		Intake:    NewIntakeRepo(s),
		Counters:  NewCounterRepo(s),
		Published: published,
		Activity:  NewActivityRepo(s, models.RecentActivityCapacity),
	}, nil
}
