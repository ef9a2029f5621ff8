package service

import (
	"context"
	"fmt"
	"html"

	"github.com/lesser-scholar/internal/markdown"
	"github.com/lesser-scholar/internal/models"
	"github.com/lesser-scholar/internal/repository"
	"github.com/lesser-scholar/internal/thread"
	"github.com/rs/zerolog"
)

// moderationService is the concrete implementation of ModerationService
type moderationService struct {
	repos    *repository.Repositories
	renderer markdown.Renderer
	log      zerolog.Logger
}

func newModerationService(deps Dependencies, log zerolog.Logger) *moderationService {
	return &moderationService{
		repos:    deps.Repos,
		renderer: deps.Renderer,
		log:      log.With().Str("service", "moderation").Logger(),
	}
}

// resolver maps the queue, as read under the lock, to one decision per position
type resolver func(queue []models.UnmoderatedComment) ([]models.Decision, error)

// Pending returns the intake queue with rendered previews
func (s *moderationService) Pending(ctx context.Context) ([]models.PendingComment, error) {
	queue, err := s.repos.Intake.List(ctx)
	if err != nil {
		return nil, err
	}

	pending := make([]models.PendingComment, 0, len(queue))
	for i, c := range queue {
		preview, err := s.renderer.Render(c.RawText)
		if err != nil {
			return nil, fmt.Errorf("render preview of %s: %w", c.ID, err)
		}
		pending = append(pending, models.PendingComment{
			UnmoderatedComment: c,
			Position:           i,
			PreviewHTML:        preview,
			AuthorName:         models.AuthorName(c.Author),
		})
	}
	return pending, nil
}

// ApplyDecisions applies decisions positionally to the intake queue. Entries
// past the end of decisions stay pending.
func (s *moderationService) ApplyDecisions(ctx context.Context, decisions []models.Decision) (*models.ModerationResult, error) {
	for i, d := range decisions {
		if !models.ValidDecisions[d] {
			return nil, fmt.Errorf("%w: decision %d is %q", ErrMalformedBatch, i, d)
		}
	}

	return s.apply(ctx, func(queue []models.UnmoderatedComment) ([]models.Decision, error) {
		if len(decisions) > len(queue) {
			return nil, fmt.Errorf("%w: %d decisions for %d pending comments", ErrMalformedBatch, len(decisions), len(queue))
		}
		return decisions, nil
	})
}

// ApplyByID applies decisions addressed by intake entry ID. Entries not
// mentioned stay pending.
func (s *moderationService) ApplyByID(ctx context.Context, decisions map[string]models.Decision) (*models.ModerationResult, error) {
	for id, d := range decisions {
		if !models.ValidDecisions[d] {
			return nil, fmt.Errorf("%w: decision for %s is %q", ErrMalformedBatch, id, d)
		}
	}

	return s.apply(ctx, func(queue []models.UnmoderatedComment) ([]models.Decision, error) {
		positions := make(map[string]int, len(queue))
		for i, c := range queue {
			positions[c.ID] = i
		}

		positional := make([]models.Decision, len(queue))
		for i := range positional {
			positional[i] = models.DecisionIgnore
		}
		for id, d := range decisions {
			i, ok := positions[id]
			if !ok {
				return nil, fmt.Errorf("%w: no pending comment %s", ErrMalformedBatch, id)
			}
			positional[i] = d
		}
		return positional, nil
	})
}

// apply runs one moderation batch. The intake lock is held from reading the
// queue until every approved comment has been appended to its article; the
// counters and recent-activity locks nest inside it, so batches promote
// articles in the order they publish.
func (s *moderationService) apply(ctx context.Context, resolve resolver) (*models.ModerationResult, error) {
	result := &models.ModerationResult{Published: map[string][]models.PublishedComment{}}
	var articles []string

	err := s.repos.Intake.WithLock(ctx, func(q repository.Queue) error {
		queue, err := q.Load()
		if err != nil {
			return err
		}
		decisions, err := resolve(queue)
		if err != nil {
			return err
		}

		retained := make([]models.UnmoderatedComment, 0, len(queue))
		var approvals []string

		err = s.repos.Counters.Allocate(ctx, func(c *repository.Counters) error {
			for i, entry := range queue {
				d := models.DecisionIgnore
				if i < len(decisions) {
					d = decisions[i]
				}

				switch d {
				case models.DecisionIgnore:
					retained = append(retained, entry)
					result.Ignored++
				case models.DecisionApprove:
					published, err := s.publish(entry, c)
					if err != nil {
						return err
					}
					result.Published[entry.ArticleID] = append(result.Published[entry.ArticleID], published)
					approvals = append(approvals, entry.ArticleID)
					result.Approved++
				case models.DecisionDelete:
					result.Deleted++
				}
			}
			return q.Replace(retained)
		})
		if err != nil {
			return err
		}

		articles = byLastApproval(approvals)
		for _, article := range articles {
			if err := s.repos.Published.Append(ctx, article, result.Published[article]); err != nil {
				return fmt.Errorf("publish comments on %s: %w", article, err)
			}
		}

		if len(articles) > 0 {
			if _, err := s.repos.Activity.PromoteAll(ctx, articles); err != nil {
				return fmt.Errorf("update recent activity: %w", err)
			}
		}

		result.Remaining = len(retained)
		return nil
	})
	if err != nil {
		s.log.Error().Err(err).Msg("Moderation batch failed")
		return nil, err
	}

	s.log.Info().
		Int("approved", result.Approved).
		Int("ignored", result.Ignored).
		Int("deleted", result.Deleted).
		Int("remaining", result.Remaining).
		Strs("articles", articles).
		Msg("Moderation batch applied")

	return result, nil
}

// publish turns an intake entry into a published comment with the next
// post index of its article
func (s *moderationService) publish(entry models.UnmoderatedComment, c *repository.Counters) (models.PublishedComment, error) {
	body, parent := thread.ParseReply(entry.RawText)

	index, err := c.Next(entry.ArticleID)
	if err != nil {
		return models.PublishedComment{}, err
	}
	// Only earlier posts can be replied to.
	if parent != nil && *parent >= index {
		parent = nil
	}

	bodyHTML, err := s.renderer.Render(body)
	if err != nil {
		return models.PublishedComment{}, fmt.Errorf("render comment %s: %w", entry.ID, err)
	}

	return models.PublishedComment{
		SubmittedAt: entry.SubmittedAt,
		Author:      escape(entry.Author),
		Website:     escape(entry.Website),
		BodyHTML:    bodyHTML,
		PostIndex:   index,
		ParentIndex: parent,
	}, nil
}

// byLastApproval orders articles by the position of their last approval,
// oldest first, so that promoting them in turn leaves the most recently
// approved article at the front.
func byLastApproval(approvals []string) []string {
	last := make(map[string]int, len(approvals))
	for i, a := range approvals {
		last[a] = i
	}

	ordered := make([]string, 0, len(last))
	for i, a := range approvals {
		if last[a] == i {
			ordered = append(ordered, a)
		}
	}
	return ordered
}

func escape(s *string) *string {
	if s == nil {
		return nil
	}
	escaped := html.EscapeString(*s)
	return &escaped
}
