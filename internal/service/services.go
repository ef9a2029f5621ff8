package service

import (
	"context"
	"errors"
	"time"

	"github.com/lesser-scholar/internal/accesslog"
	"github.com/lesser-scholar/internal/catalog"
	"github.com/lesser-scholar/internal/config"
	"github.com/lesser-scholar/internal/markdown"
	"github.com/lesser-scholar/internal/models"
	"github.com/lesser-scholar/internal/repository"
	"github.com/lesser-scholar/internal/validation"
	"github.com/rs/zerolog"
)

var (
	// ErrMalformedBatch is returned for decision batches that cannot be applied
	ErrMalformedBatch = errors.New("malformed moderation batch")

	// ErrArticleNotFound is returned for articles the catalog does not know
	ErrArticleNotFound = errors.New("article not found")

	// ErrTagNotFound is returned for tags the catalog does not declare
	ErrTagNotFound = errors.New("tag not found")
)

// CommentService defines the interface for public comment operations
type CommentService interface {
	Submit(ctx context.Context, form *validation.CommentForm) (*models.UnmoderatedComment, error)
	Article(ctx context.Context, name string) (*models.ArticleView, error)
	Recent(ctx context.Context) ([]models.Article, error)
	Index(ctx context.Context) (*models.Index, error)
	Tag(ctx context.Context, name string) (*models.TagView, error)
}

// ModerationService defines the interface for moderation operations
type ModerationService interface {
	Pending(ctx context.Context) ([]models.PendingComment, error)
	ApplyDecisions(ctx context.Context, decisions []models.Decision) (*models.ModerationResult, error)
	ApplyByID(ctx context.Context, decisions map[string]models.Decision) (*models.ModerationResult, error)
}

// StatsService defines the interface for access logging and statistics
type StatsService interface {
	Record(method, path string) error
	Stats(ctx context.Context) ([]models.StatEntry, error)
}

// Services holds all service interfaces
type Services struct {
	Comment    CommentService
	Moderation ModerationService
	Stats      StatsService
}

// Dependencies are the collaborators shared by the services
type Dependencies struct {
	Repos     *repository.Repositories
	Catalog   *catalog.Catalog
	Renderer  markdown.Renderer
	AccessLog *accesslog.Writer
	Compactor *accesslog.Compactor
	Now       func() time.Time
}

// NewServices creates all services
func NewServices(deps Dependencies, cfg *config.Config, log zerolog.Logger) *Services {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	limits := validation.Limits{
		Author:  cfg.Limits.MaxAuthorLength,
		Text:    cfg.Limits.MaxTextLength,
		Website: cfg.Limits.MaxWebsiteLength,
	}

	return &Services{
		Comment:    newCommentService(deps, limits, log),
		Moderation: newModerationService(deps, log),
		Stats:      newStatsService(deps, log),
	}
}
