package order

import (
	"context"

	"freshprep/internal/domain"
)

type Repository interface {
	// ListByUser returns one page of the user's orders, newest first, plus
	// the total count.
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]domain.Order, int, error)
	// GetForUser returns the order only when it belongs to the user.
	GetForUser(ctx context.Context, userID, orderID string) (*domain.Order, error)
}
