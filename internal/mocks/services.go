package mocks

import (
	"context"
	"sync"

	"github.com/lesser-scholar/internal/models"
	"github.com/lesser-scholar/internal/service"
	"github.com/lesser-scholar/internal/validation"
)

// MockCommentService is a mock implementation of CommentService
type MockCommentService struct {
	SubmitFunc  func(ctx context.Context, form *validation.CommentForm) (*models.UnmoderatedComment, error)
	ArticleFunc func(ctx context.Context, name string) (*models.ArticleView, error)
	RecentFunc  func(ctx context.Context) ([]models.Article, error)
	IndexFunc   func(ctx context.Context) (*models.Index, error)
	TagFunc     func(ctx context.Context, name string) (*models.TagView, error)
	Submitted   []*validation.CommentForm
}

// Verify interface compliance
var _ service.CommentService = (*MockCommentService)(nil)

func NewMockCommentService() *MockCommentService {
	return &MockCommentService{
		Submitted: make([]*validation.CommentForm, 0),
	}
}

func (m *MockCommentService) Submit(ctx context.Context, form *validation.CommentForm) (*models.UnmoderatedComment, error) {
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, form)
	}
	m.Submitted = append(m.Submitted, form)
	return &models.UnmoderatedComment{
		ID:        "test-comment-id",
		ArticleID: form.Article,
		RawText:   form.Text,
	}, nil
}

func (m *MockCommentService) Article(ctx context.Context, name string) (*models.ArticleView, error) {
	if m.ArticleFunc != nil {
		return m.ArticleFunc(ctx, name)
	}
	return &models.ArticleView{Name: name, Comments: []models.DisplayComment{}}, nil
}

func (m *MockCommentService) Recent(ctx context.Context) ([]models.Article, error) {
	if m.RecentFunc != nil {
		return m.RecentFunc(ctx)
	}
	return []models.Article{}, nil
}

func (m *MockCommentService) Index(ctx context.Context) (*models.Index, error) {
	if m.IndexFunc != nil {
		return m.IndexFunc(ctx)
	}
	return &models.Index{Articles: []models.Article{}, Tags: []models.Tag{}, RecentlyCommented: []models.Article{}}, nil
}

func (m *MockCommentService) Tag(ctx context.Context, name string) (*models.TagView, error) {
	if m.TagFunc != nil {
		return m.TagFunc(ctx, name)
	}
	return nil, service.ErrTagNotFound
}

// MockModerationService is a mock implementation of ModerationService
type MockModerationService struct {
	PendingFunc   func(ctx context.Context) ([]models.PendingComment, error)
	ApplyFunc     func(ctx context.Context, decisions []models.Decision) (*models.ModerationResult, error)
	ApplyByIDFunc func(ctx context.Context, decisions map[string]models.Decision) (*models.ModerationResult, error)
	Applied       [][]models.Decision
	AppliedByID   []map[string]models.Decision
}

// Verify interface compliance
var _ service.ModerationService = (*MockModerationService)(nil)

func NewMockModerationService() *MockModerationService {
	return &MockModerationService{}
}

func (m *MockModerationService) Pending(ctx context.Context) ([]models.PendingComment, error) {
	if m.PendingFunc != nil {
		return m.PendingFunc(ctx)
	}
	return []models.PendingComment{}, nil
}

func (m *MockModerationService) ApplyDecisions(ctx context.Context, decisions []models.Decision) (*models.ModerationResult, error) {
	if m.ApplyFunc != nil {
		return m.ApplyFunc(ctx, decisions)
	}
	m.Applied = append(m.Applied, decisions)
	return &models.ModerationResult{Published: map[string][]models.PublishedComment{}}, nil
}

func (m *MockModerationService) ApplyByID(ctx context.Context, decisions map[string]models.Decision) (*models.ModerationResult, error) {
	if m.ApplyByIDFunc != nil {
		return m.ApplyByIDFunc(ctx, decisions)
	}
	m.AppliedByID = append(m.AppliedByID, decisions)
	return &models.ModerationResult{Published: map[string][]models.PublishedComment{}}, nil
}

// MockStatsService is a mock implementation of StatsService
type MockStatsService struct {
	mu        sync.Mutex
	Lines     []string
	StatsFunc func(ctx context.Context) ([]models.StatEntry, error)
}

// Verify interface compliance
var _ service.StatsService = (*MockStatsService)(nil)

func NewMockStatsService() *MockStatsService {
	return &MockStatsService{}
}

func (m *MockStatsService) Record(method, path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Lines = append(m.Lines, method+" "+path)
	return nil
}

// Recorded returns a copy of the lines recorded so far
func (m *MockStatsService) Recorded() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Lines...)
}

func (m *MockStatsService) Stats(ctx context.Context) ([]models.StatEntry, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx)
	}
	return []models.StatEntry{}, nil
}
