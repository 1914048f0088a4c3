package cart

import (
	"context"
	"errors"

	"freshprep/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool *pgxpool.Pool
}

func NewPostgres(pool *pgxpool.Pool) Repository {
	return &postgresRepo{pool: pool}
}

const cartColumns = `id::text, user_id::text, session_id, created_at`

func (r *postgresRepo) Create(ctx context.Context, in CreateCartInput) (*domain.Cart, error) {
	const q = `
INSERT INTO carts (user_id, session_id)
VALUES ($1, $2)
RETURNING ` + cartColumns + `
`
	return r.scanCartRow(ctx, r.pool.QueryRow(ctx, q, in.UserID, in.SessionID))
}

func (r *postgresRepo) GetByUser(ctx context.Context, userID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE user_id = $1
`
	return r.scanCartRow(ctx, r.pool.QueryRow(ctx, q, userID))
}

func (r *postgresRepo) GetBySession(ctx context.Context, sessionID string) (*domain.Cart, error) {
	const q = `
SELECT ` + cartColumns + `
FROM carts
WHERE session_id = $1
`
	return r.scanCartRow(ctx, r.pool.QueryRow(ctx, q, sessionID))
}

func (r *postgresRepo) AddItem(ctx context.Context, cartID, mealID string, quantity int) (*domain.CartItem, error) {
	// Increment-or-insert in one conditional write. Concurrent adds for the
	// same (cart, meal) must never lose an update, so no read precedes this.
	const q = `
INSERT INTO cart_items (cart_id, meal_id, quantity)
VALUES ($1, $2, LEAST($3, 20))
ON CONFLICT (cart_id, meal_id) DO UPDATE
SET quantity = LEAST(cart_items.quantity + EXCLUDED.quantity, 20)
RETURNING id::text, cart_id::text, meal_id::text, quantity, created_at
`
	return scanItem(r.pool.QueryRow(ctx, q, cartID, mealID, quantity))
}

func (r *postgresRepo) UpsertItem(ctx context.Context, cartID, mealID string, quantity int) (*domain.CartItem, error) {
	const q = `
INSERT INTO cart_items (cart_id, meal_id, quantity)
VALUES ($1, $2, LEAST($3, 20))
ON CONFLICT (cart_id, meal_id) DO UPDATE
SET quantity = LEAST(EXCLUDED.quantity, 20)
RETURNING id::text, cart_id::text, meal_id::text, quantity, created_at
`
	return scanItem(r.pool.QueryRow(ctx, q, cartID, mealID, quantity))
}

func (r *postgresRepo) SetItemQuantity(ctx context.Context, cartID, mealID string, quantity int) (*domain.CartItem, error) {
	const q = `
UPDATE cart_items
SET quantity = LEAST($3, 20)
WHERE cart_id = $1 AND meal_id = $2
RETURNING id::text, cart_id::text, meal_id::text, quantity, created_at
`
	item, err := scanItem(r.pool.QueryRow(ctx, q, cartID, mealID, quantity))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return item, nil
}

func (r *postgresRepo) DeleteItem(ctx context.Context, cartID, mealID string) error {
	const q = `
DELETE FROM cart_items
WHERE cart_id = $1 AND meal_id = $2
`
	cmd, err := r.pool.Exec(ctx, q, cartID, mealID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) ItemCount(ctx context.Context, cartID string) (int, error) {
	const q = `
SELECT COALESCE(SUM(quantity), 0)
FROM cart_items
WHERE cart_id = $1
`
	var count int
	if err := r.pool.QueryRow(ctx, q, cartID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *postgresRepo) Subtotal(ctx context.Context, cartID string) (int64, error) {
	// Live meal price at read time, never a cached line price.
	const q = `
SELECT COALESCE(SUM(m.price_cents * ci.quantity), 0)
FROM cart_items ci
JOIN meals m ON m.id = ci.meal_id
WHERE ci.cart_id = $1
`
	var subtotal int64
	if err := r.pool.QueryRow(ctx, q, cartID).Scan(&subtotal); err != nil {
		return 0, err
	}
	return subtotal, nil
}

func (r *postgresRepo) AssignUserToSession(ctx context.Context, sessionID, userID string) (*domain.Cart, error) {
	const q = `
UPDATE carts
SET user_id = $2,
    session_id = NULL
WHERE session_id = $1
RETURNING ` + cartColumns + `
`
	return r.scanCartRow(ctx, r.pool.QueryRow(ctx, q, sessionID, userID))
}

func (r *postgresRepo) Delete(ctx context.Context, cartID string) error {
	const q = `DELETE FROM carts WHERE id = $1`
	cmd, err := r.pool.Exec(ctx, q, cartID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *postgresRepo) scanCartRow(ctx context.Context, row pgx.Row) (*domain.Cart, error) {
	var cart domain.Cart
	if err := row.Scan(&cart.ID, &cart.UserID, &cart.SessionID, &cart.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if err := r.loadItems(ctx, &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *postgresRepo) loadItems(ctx context.Context, cart *domain.Cart) error {
	const q = `
SELECT ci.id::text, ci.cart_id::text, ci.meal_id::text, ci.quantity, ci.created_at,
       m.id::text, m.name, m.slug, m.price_cents, COALESCE(m.image, ''), m.category, m.is_active,
       n.calories, n.protein::float8, n.carbs::float8, n.fat::float8
FROM cart_items ci
JOIN meals m ON m.id = ci.meal_id
LEFT JOIN meal_nutrition n ON n.meal_id = m.id
WHERE ci.cart_id = $1
ORDER BY ci.created_at ASC
`
	rows, err := r.pool.Query(ctx, q, cart.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	cart.Items = []domain.CartItem{}
	for rows.Next() {
		var (
			item     domain.CartItem
			meal     domain.Meal
			calories *int
			protein  *float64
			carbs    *float64
			fat      *float64
		)
		if err := rows.Scan(
			&item.ID,
			&item.CartID,
			&item.MealID,
			&item.Quantity,
			&item.CreatedAt,
			&meal.ID,
			&meal.Name,
			&meal.Slug,
			&meal.PriceCents,
			&meal.Image,
			&meal.Category,
			&meal.IsActive,
			&calories,
			&protein,
			&carbs,
			&fat,
		); err != nil {
			return err
		}
		if calories != nil {
			meal.Nutrition = &domain.Nutrition{Calories: *calories}
			if protein != nil {
				meal.Nutrition.Protein = *protein
			}
			if carbs != nil {
				meal.Nutrition.Carbs = *carbs
			}
			if fat != nil {
				meal.Nutrition.Fat = *fat
			}
		}
		item.Meal = &meal
		cart.Items = append(cart.Items, item)
	}
	return rows.Err()
}

func scanItem(row pgx.Row) (*domain.CartItem, error) {
	var item domain.CartItem
	if err := row.Scan(&item.ID, &item.CartID, &item.MealID, &item.Quantity, &item.CreatedAt); err != nil {
		return nil, err
	}
	return &item, nil
}
