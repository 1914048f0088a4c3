package meal

import (
	"context"

	"freshprep/internal/domain"
)

type Repository interface {
	ListActive(ctx context.Context) ([]domain.Meal, error)
	GetBySlug(ctx context.Context, slug string) (*domain.Meal, error)
	GetByID(ctx context.Context, id string) (*domain.Meal, error)
	Upsert(ctx context.Context, meal domain.Meal) (*domain.Meal, error)
}
