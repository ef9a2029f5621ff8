package repository

import (
	"context"

	"github.com/lesser-scholar/internal/models"
	"github.com/lesser-scholar/internal/store"
)

// Promote moves article to the front of list, evicting from the tail
// beyond capacity. The input slice is not modified.
func Promote(list []string, article string, capacity int) []string {
	out := make([]string, 0, len(list)+1)
	out = append(out, article)
	for _, id := range list {
		if id != article {
			out = append(out, id)
		}
	}
	if len(out) > capacity {
		out = out[:capacity]
	}
	return out
}

// activityRepo is the concrete implementation of ActivityRepository
type activityRepo struct {
	res      *store.Resource[models.RecentActivity]
	capacity int
}

// NewActivityRepo creates a recent-activity repository
func NewActivityRepo(s *store.Store, capacity int) ActivityRepository {
	return &activityRepo{
		res:      store.NewResource[models.RecentActivity](s, ActivityKey),
		capacity: capacity,
	}
}

// Recent returns the recent-activity list, most recent first
func (r *activityRepo) Recent(ctx context.Context) ([]string, error) {
	var recent []string
	err := r.res.View(func(a models.RecentActivity) error {
		recent = append([]string(nil), a.RecentComments...)
		return nil
	})
	return recent, err
}

// PromoteAll promotes each article in order and persists the result
func (r *activityRepo) PromoteAll(ctx context.Context, articles []string) ([]string, error) {
	var recent []string
	err := r.res.Update(func(a *models.RecentActivity) error {
		list := a.RecentComments
		for _, id := range articles {
			list = Promote(list, id, r.capacity)
		}
		a.RecentComments = list
		recent = append([]string(nil), list...)
		return nil
	})
	return recent, err
}
