package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lesser-scholar/internal/catalog"
	"github.com/lesser-scholar/internal/models"
	"github.com/lesser-scholar/internal/repository"
	"github.com/lesser-scholar/internal/thread"
	"github.com/lesser-scholar/internal/validation"
	"github.com/rs/zerolog"
)

// IndexArticles is the number of articles listed on the front page
const IndexArticles = 10

// commentService is the concrete implementation of CommentService
type commentService struct {
	repos     *repository.Repositories
	catalog   *catalog.Catalog
	validator *validation.Validator
	now       func() time.Time
	log       zerolog.Logger
}

func newCommentService(deps Dependencies, limits validation.Limits, log zerolog.Logger) *commentService {
	return &commentService{
		repos:     deps.Repos,
		catalog:   deps.Catalog,
		validator: validation.NewValidator(limits),
		now:       deps.Now,
		log:       log.With().Str("service", "comment").Logger(),
	}
}

// Submit validates a comment and appends it to the intake queue
func (s *commentService) Submit(ctx context.Context, form *validation.CommentForm) (*models.UnmoderatedComment, error) {
	if errs := s.validator.ValidateComment(form); len(errs) > 0 {
		return nil, validation.Errors(errs)
	}
	if !s.catalog.Accepts(form.Article) {
		return nil, ErrArticleNotFound
	}

	comment := &models.UnmoderatedComment{
		ID:          uuid.New().String(),
		SubmittedAt: s.now().Unix(),
		Author:      models.OptionalString(form.Author),
		Website:     models.OptionalString(form.Website),
		ArticleID:   form.Article,
		RawText:     form.Text,
	}

	if err := s.repos.Intake.Append(ctx, comment); err != nil {
		return nil, err
	}

	s.log.Info().
		Str("comment_id", comment.ID).
		Str("article", comment.ArticleID).
		Int("length", len(comment.RawText)).
		Msg("Comment queued for moderation")

	return comment, nil
}

// Article returns an article's published comments arranged into threads
func (s *commentService) Article(ctx context.Context, name string) (*models.ArticleView, error) {
	if len(s.validator.ValidateArticleID(name)) > 0 || !s.catalog.Accepts(name) {
		return nil, ErrArticleNotFound
	}

	published, err := s.repos.Published.List(ctx, name)
	if err != nil {
		return nil, err
	}

	view := &models.ArticleView{
		Name:     name,
		Comments: thread.Build(published),
	}
	if a, ok := s.catalog.Lookup(name); ok {
		view.Article = a
	}
	return view, nil
}

// Recent returns the recently commented articles, most recent first
func (s *commentService) Recent(ctx context.Context) ([]models.Article, error) {
	ids, err := s.repos.Activity.Recent(ctx)
	if err != nil {
		return nil, err
	}

	recent := make([]models.Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := s.catalog.Lookup(id); ok {
			recent = append(recent, *a)
			continue
		}
		recent = append(recent, models.Article{Name: id, Title: id})
	}
	return recent, nil
}

// Index returns the newest articles, every tag and the recently commented articles
func (s *commentService) Index(ctx context.Context) (*models.Index, error) {
	recent, err := s.Recent(ctx)
	if err != nil {
		return nil, err
	}
	return &models.Index{
		Articles:          s.catalog.Recent(IndexArticles),
		Tags:              s.catalog.Tags(),
		RecentlyCommented: recent,
	}, nil
}

// Tag returns a declared tag with its articles in catalog order
func (s *commentService) Tag(ctx context.Context, name string) (*models.TagView, error) {
	tag, ok := s.catalog.Tag(name)
	if !ok {
		return nil, ErrTagNotFound
	}
	return &models.TagView{
		Tag:      *tag,
		Articles: s.catalog.Resolve(tag.Articles),
	}, nil
}
