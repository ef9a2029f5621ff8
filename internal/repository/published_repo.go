package repository

import (
	"context"
	"fmt"
	"path"
	"sync"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/lesser-scholar/internal/models"
	"github.com/lesser-scholar/internal/store"
)

// publishedRepo is the concrete implementation of PublishedRepository.
// Decoded stores are cached per article and dropped on every append.
type publishedRepo struct {
	mu    sync.RWMutex
	store *store.Store
	cache *lru.Cache[string, []models.PublishedComment]
}

// NewPublishedRepo creates a published store repository with an LRU of size entries
func NewPublishedRepo(s *store.Store, size int) (PublishedRepository, error) {
	if size <= 0 {
		size = 1
	}
	cache, err := lru.New[string, []models.PublishedComment](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create published cache: %w", err)
	}
	return &publishedRepo{store: s, cache: cache}, nil
}

// PublishedKey returns the store key of an article's published comments
func PublishedKey(article string) string {
	return path.Join(CommentsDir, article+".toml")
}

// Append adds comments to the end of an article's published store
func (r *publishedRepo) Append(ctx context.Context, article string, comments []models.PublishedComment) error {
	if len(comments) == 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Remove(article)
	return store.Append(r.store, PublishedKey(article), models.PublishedComments{Comments: comments})
}

// List returns the published comments of an article in publish order
func (r *publishedRepo) List(ctx context.Context, article string) ([]models.PublishedComment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if comments, ok := r.cache.Get(article); ok {
		return comments, nil
	}

	published, err := store.Read[models.PublishedComments](r.store, PublishedKey(article))
	if err != nil {
		return nil, err
	}
	r.cache.Add(article, published.Comments)
	return published.Comments, nil
}
