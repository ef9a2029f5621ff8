package repository

import (
	"context"
	"sync"

	"github.com/lesser-scholar/internal/models"
	"github.com/lesser-scholar/internal/store"
)

// intakeRepo is the concrete implementation of IntakeRepository
type intakeRepo struct {
	mu    sync.Mutex
	store *store.Store
}

// NewIntakeRepo creates a new intake queue repository
func NewIntakeRepo(s *store.Store) IntakeRepository {
	return &intakeRepo{store: s}
}

// Append adds a comment to the end of the queue
func (r *intakeRepo) Append(ctx context.Context, comment *models.UnmoderatedComment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return store.Append(r.store, IntakeKey, models.UnmoderatedComments{
		Comments: []models.UnmoderatedComment{*comment},
	})
}

// List returns a snapshot of the queue
func (r *intakeRepo) List(ctx context.Context) ([]models.UnmoderatedComment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.load()
}

// WithLock runs fn while holding the queue lock
func (r *intakeRepo) WithLock(ctx context.Context, fn func(q Queue) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return fn(lockedQueue{r})
}

func (r *intakeRepo) load() ([]models.UnmoderatedComment, error) {
	queue, err := store.Read[models.UnmoderatedComments](r.store, IntakeKey)
	if err != nil {
		return nil, err
	}
	return queue.Comments, nil
}

type lockedQueue struct {
	r *intakeRepo
}

func (q lockedQueue) Load() ([]models.UnmoderatedComment, error) {
	return q.r.load()
}

// Replace writes exactly the given entries; an empty queue becomes an empty file
func (q lockedQueue) Replace(comments []models.UnmoderatedComment) error {
	if len(comments) == 0 {
		return q.r.store.WriteEmpty(IntakeKey)
	}
	return store.Write(q.r.store, IntakeKey, models.UnmoderatedComments{Comments: comments})
}
