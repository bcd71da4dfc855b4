package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/repub"
)

// Ensure LoggingArticleService implements repub.ArticleService.
var _ repub.ArticleService = (*LoggingArticleService)(nil)

// LoggingArticleService wraps an ArticleService with operation logging for
// the store's write path. Reads are delegated without logging; they happen
// on every page view and would drown the log.
type LoggingArticleService struct {
	next   repub.ArticleService
	logger *slog.Logger
}

// NewLoggingArticleService creates a new LoggingArticleService.
func NewLoggingArticleService(next repub.ArticleService, logger *slog.Logger) *LoggingArticleService {
	return &LoggingArticleService{next: next, logger: logger}
}

// FindArticles delegates to the wrapped service.
func (s *LoggingArticleService) FindArticles(ctx context.Context) ([]*repub.Article, error) {
	return s.next.FindArticles(ctx)
}

// FindArticleByID delegates to the wrapped service.
func (s *LoggingArticleService) FindArticleByID(ctx context.Context, id string) (*repub.Article, error) {
	return s.next.FindArticleByID(ctx, id)
}

// UpsertArticle delegates to the wrapped service, logging the outcome.
func (s *LoggingArticleService) UpsertArticle(ctx context.Context, article *repub.Article) error {
	begin := time.Now()
	err := s.next.UpsertArticle(ctx, article)
	s.log("upsert", article.ID, begin, err)
	return err
}

// UpdateArticle delegates to the wrapped service, logging the outcome.
func (s *LoggingArticleService) UpdateArticle(ctx context.Context, id string, upd repub.ArticleUpdate) (*repub.Article, error) {
	begin := time.Now()
	article, err := s.next.UpdateArticle(ctx, id, upd)
	s.log("update", id, begin, err)
	return article, err
}

// DeleteArticle delegates to the wrapped service, logging the outcome.
func (s *LoggingArticleService) DeleteArticle(ctx context.Context, id string) error {
	begin := time.Now()
	err := s.next.DeleteArticle(ctx, id)
	s.log("delete", id, begin, err)
	return err
}

func (s *LoggingArticleService) log(op, id string, begin time.Time, err error) {
	if err != nil {
		s.logger.Error(op,
			slog.String("id", id),
			slog.Duration("duration", time.Since(begin)),
			slog.Any("err", err),
		)
		return
	}
	s.logger.Info(op,
		slog.String("id", id),
		slog.Duration("duration", time.Since(begin)),
	)
}
