package mocks

import (
	"context"
	"sync"

	"github.com/lesser-scholar/internal/models"
	"github.com/lesser-scholar/internal/repository"
)

// MockPublishedRepository is an in-memory PublishedRepository
type MockPublishedRepository struct {
	mu          sync.Mutex
	Comments    map[string][]models.PublishedComment
	AppendError error
	AppendCalls int
}

// Verify interface compliance
var _ repository.PublishedRepository = (*MockPublishedRepository)(nil)

func NewMockPublishedRepository() *MockPublishedRepository {
	return &MockPublishedRepository{
		Comments: make(map[string][]models.PublishedComment),
	}
}

func (m *MockPublishedRepository) Append(ctx context.Context, article string, comments []models.PublishedComment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.AppendCalls++
	if m.AppendError != nil {
		return m.AppendError
	}
	m.Comments[article] = append(m.Comments[article], comments...)
	return nil
}

func (m *MockPublishedRepository) List(ctx context.Context, article string) ([]models.PublishedComment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.PublishedComment(nil), m.Comments[article]...), nil
}

// MockActivityRepository records promotions without touching disk
type MockActivityRepository struct {
	mu       sync.Mutex
	List        []string
	Promoted    []string
	PromoteFunc func(ctx context.Context, articles []string)
}

// Verify interface compliance
var _ repository.ActivityRepository = (*MockActivityRepository)(nil)

func NewMockActivityRepository() *MockActivityRepository {
	return &MockActivityRepository{}
}

func (m *MockActivityRepository) Recent(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.List...), nil
}

func (m *MockActivityRepository) PromoteAll(ctx context.Context, articles []string) ([]string, error) {
	if m.PromoteFunc != nil {
		m.PromoteFunc(ctx, articles)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Promoted = append(m.Promoted, articles...)
	for _, a := range articles {
		m.List = repository.Promote(m.List, a, models.RecentActivityCapacity)
	}
	return append([]string(nil), m.List...), nil
}
