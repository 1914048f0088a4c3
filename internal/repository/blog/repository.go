package blog

import (
	"context"

	"freshprep/internal/domain"
)

type Repository interface {
	// ListPublished returns one page of published posts plus the total count.
	ListPublished(ctx context.Context, limit, offset int) ([]domain.BlogPost, int, error)
	GetBySlug(ctx context.Context, slug string) (*domain.BlogPost, error)
	Upsert(ctx context.Context, post domain.BlogPost) (*domain.BlogPost, error)
}
