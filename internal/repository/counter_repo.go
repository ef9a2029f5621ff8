package repository

import (
	"context"
	"fmt"

	"github.com/lesser-scholar/internal/store"
)

// SchemaError reports a counters entry that is not an integer
type SchemaError struct {
	Key   string
	Field string
	Value interface{}
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("%s: counter %q is %T, not an integer", e.Key, e.Field, e.Value)
}

// Counters maps article ids to the next post index to assign
type Counters struct {
	values map[string]interface{}
}

// Next returns the next post index for key and advances the counter.
// The first index issued for a key is 0.
func (c *Counters) Next(key string) (int64, error) {
	if c.values == nil {
		c.values = make(map[string]interface{})
	}

	current, ok := c.values[key]
	if !ok {
		c.values[key] = int64(1)
		return 0, nil
	}

	n, ok := current.(int64)
	if !ok {
		return 0, &SchemaError{Key: CountersKey, Field: key, Value: current}
	}
	c.values[key] = n + 1
	return n, nil
}

// counterRepo is the concrete implementation of CounterRepository
type counterRepo struct {
	res *store.Resource[map[string]interface{}]
}

// NewCounterRepo creates a new counter repository
func NewCounterRepo(s *store.Store) CounterRepository {
	return &counterRepo{res: store.NewResource[map[string]interface{}](s, CountersKey)}
}

// Allocate loads the counters, passes them to fn and persists them if fn succeeds
func (r *counterRepo) Allocate(ctx context.Context, fn func(c *Counters) error) error {
	return r.res.Update(func(values *map[string]interface{}) error {
		c := &Counters{values: *values}
		if err := fn(c); err != nil {
			return err
		}
		*values = c.values
		return nil
	})
}

// Peek returns the next index that would be issued for article
func (r *counterRepo) Peek(ctx context.Context, article string) (int64, error) {
	var next int64
	err := r.res.View(func(values map[string]interface{}) error {
		v, ok := values[article]
		if !ok {
			return nil
		}
		n, ok := v.(int64)
		if !ok {
			return &SchemaError{Key: CountersKey, Field: article, Value: v}
		}
		next = n
		return nil
	})
	return next, err
}
