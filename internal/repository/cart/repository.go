package cart

import (
	"context"

	"freshprep/internal/domain"
)

// CreateCartInput carries exactly one owner key: UserID or SessionID.
type CreateCartInput struct {
	UserID    *string
	SessionID *string
}

type Repository interface {
	Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error)
	GetByUser(ctx context.Context, userID string) (*domain.Cart, error)
	GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error)

	// AddItem atomically inserts the row or increments its quantity, clamped
	// to domain.MaxItemQuantity, in a single conditional write.
	AddItem(ctx context.Context, cartID, mealID string, quantity int) (*domain.CartItem, error)
	// UpsertItem overwrites the quantity (clamped), inserting when absent.
	UpsertItem(ctx context.Context, cartID, mealID string, quantity int) (*domain.CartItem, error)
	// SetItemQuantity overwrites the quantity (clamped) of an existing row.
	SetItemQuantity(ctx context.Context, cartID, mealID string, quantity int) (*domain.CartItem, error)
	DeleteItem(ctx context.Context, cartID, mealID string) error

	ItemCount(ctx context.Context, cartID string) (int, error)
	Subtotal(ctx context.Context, cartID string) (int64, error)

	// AssignUserToSession re-keys an anonymous cart to a user.
	AssignUserToSession(ctx context.Context, sessionID, userID string) (*domain.Cart, error)
	Delete(ctx context.Context, cartID string) error
}
