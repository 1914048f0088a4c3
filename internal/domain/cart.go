package domain

import "time"

// MaxItemQuantity caps the quantity of a single meal per cart. Writes that
// would exceed it are clamped, never rejected.
const MaxItemQuantity = 20

// MinOrderCents is the minimum subtotal required to check out.
const MinOrderCents int64 = 6000

// Cart is owned by exactly one of UserID or SessionID.
type Cart struct {
	ID        string     `json:"id"`
	UserID    *string    `json:"userId,omitempty"`
	SessionID *string    `json:"-"`
	Items     []CartItem `json:"items"`
	CreatedAt time.Time  `json:"createdAt"`
}

type CartItem struct {
	ID        string    `json:"id"`
	CartID    string    `json:"cartId"`
	MealID    string    `json:"mealId"`
	Quantity  int       `json:"quantity"`
	Meal      *Meal     `json:"meal,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
