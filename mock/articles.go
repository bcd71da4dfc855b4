package mock

import (
	"context"

	"github.com/fwojciec/repub"
)

var _ repub.ArticleService = (*ArticleService)(nil)

// ArticleService is a mock implementation of repub.ArticleService.
type ArticleService struct {
	FindArticlesFn    func(ctx context.Context) ([]*repub.Article, error)
	FindArticleByIDFn func(ctx context.Context, id string) (*repub.Article, error)
	UpsertArticleFn   func(ctx context.Context, article *repub.Article) error
	UpdateArticleFn   func(ctx context.Context, id string, upd repub.ArticleUpdate) (*repub.Article, error)
	DeleteArticleFn   func(ctx context.Context, id string) error
}

func (s *ArticleService) FindArticles(ctx context.Context) ([]*repub.Article, error) {
	return s.FindArticlesFn(ctx)
}

func (s *ArticleService) FindArticleByID(ctx context.Context, id string) (*repub.Article, error) {
	return s.FindArticleByIDFn(ctx, id)
}

func (s *ArticleService) UpsertArticle(ctx context.Context, article *repub.Article) error {
	return s.UpsertArticleFn(ctx, article)
}

func (s *ArticleService) UpdateArticle(ctx context.Context, id string, upd repub.ArticleUpdate) (*repub.Article, error) {
	return s.UpdateArticleFn(ctx, id, upd)
}

func (s *ArticleService) DeleteArticle(ctx context.Context, id string) error {
	return s.DeleteArticleFn(ctx, id)
}
