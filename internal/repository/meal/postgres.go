package meal

import (
	"context"
	"errors"
	"io"
	"log"

	"freshprep/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type postgresRepo struct {
	pool   *pgxpool.Pool
	logger *log.Logger
}

func NewPostgres(pool *pgxpool.Pool, logger *log.Logger) Repository {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &postgresRepo{pool: pool, logger: logger}
}

const mealColumns = `
m.id::text, m.name, m.slug, COALESCE(m.short_description, ''), COALESCE(m.description, ''),
m.price_cents, COALESCE(m.image, ''), m.category, m.tags, m.allergens, m.is_active, m.created_at,
n.calories, n.protein::float8, n.carbs::float8, n.fat::float8
`

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.Meal, error) {
	const q = `
SELECT ` + mealColumns + `
FROM meals m
LEFT JOIN meal_nutrition n ON n.meal_id = m.id
WHERE m.is_active
ORDER BY m.name ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Printf("meal repo: list active error=%v", err)
		return nil, err
	}
	defer rows.Close()

	var result []domain.Meal
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *m)
	}
	if err := rows.Err(); err != nil {
		r.logger.Printf("meal repo: list active rows error=%v", err)
		return nil, err
	}
	return result, nil
}

func (r *postgresRepo) GetBySlug(ctx context.Context, slug string) (*domain.Meal, error) {
	const q = `
SELECT ` + mealColumns + `
FROM meals m
LEFT JOIN meal_nutrition n ON n.meal_id = m.id
WHERE m.slug = $1
`
	m, err := scanMeal(r.pool.QueryRow(ctx, q, slug))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("meal repo: get slug=%s error=%v", slug, err)
		return nil, err
	}
	return m, nil
}

func (r *postgresRepo) GetByID(ctx context.Context, id string) (*domain.Meal, error) {
	const q = `
SELECT ` + mealColumns + `
FROM meals m
LEFT JOIN meal_nutrition n ON n.meal_id = m.id
WHERE m.id = $1
`
	m, err := scanMeal(r.pool.QueryRow(ctx, q, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		r.logger.Printf("meal repo: get id=%s error=%v", id, err)
		return nil, err
	}
	return m, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, meal domain.Meal) (*domain.Meal, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	const q = `
INSERT INTO meals (name, slug, short_description, description, price_cents, image, category, tags, allergens, is_active)
VALUES ($1, $2, NULLIF($3, ''), NULLIF($4, ''), $5, NULLIF($6, ''), $7, $8, $9, $10)
ON CONFLICT (slug) DO UPDATE SET
    name = EXCLUDED.name,
    short_description = EXCLUDED.short_description,
    description = EXCLUDED.description,
    price_cents = EXCLUDED.price_cents,
    image = EXCLUDED.image,
    category = EXCLUDED.category,
    tags = EXCLUDED.tags,
    allergens = EXCLUDED.allergens,
    is_active = EXCLUDED.is_active
RETURNING id::text, created_at
`
	res := meal
	if res.Tags == nil {
		res.Tags = []string{}
	}
	if res.Allergens == nil {
		res.Allergens = []string{}
	}
	if err := tx.QueryRow(ctx, q,
		meal.Name,
		meal.Slug,
		meal.ShortDescription,
		meal.Description,
		meal.PriceCents,
		meal.Image,
		meal.Category,
		res.Tags,
		res.Allergens,
		meal.IsActive,
	).Scan(&res.ID, &res.CreatedAt); err != nil {
		r.logger.Printf("meal repo: upsert slug=%s error=%v", meal.Slug, err)
		return nil, err
	}

	if meal.Nutrition != nil {
		const nq = `
INSERT INTO meal_nutrition (meal_id, calories, protein, carbs, fat)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (meal_id) DO UPDATE SET
    calories = EXCLUDED.calories,
    protein = EXCLUDED.protein,
    carbs = EXCLUDED.carbs,
    fat = EXCLUDED.fat
`
		if _, err := tx.Exec(ctx, nq, res.ID, meal.Nutrition.Calories, meal.Nutrition.Protein, meal.Nutrition.Carbs, meal.Nutrition.Fat); err != nil {
			r.logger.Printf("meal repo: upsert nutrition slug=%s error=%v", meal.Slug, err)
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	r.logger.Printf("meal repo: upserted slug=%s id=%s", res.Slug, res.ID)
	return &res, nil
}

func scanMeal(row pgx.Row) (*domain.Meal, error) {
	var (
		m        domain.Meal
		calories *int
		protein  *float64
		carbs    *float64
		fat      *float64
	)
	if err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Slug,
		&m.ShortDescription,
		&m.Description,
		&m.PriceCents,
		&m.Image,
		&m.Category,
		&m.Tags,
		&m.Allergens,
		&m.IsActive,
		&m.CreatedAt,
		&calories,
		&protein,
		&carbs,
		&fat,
	); err != nil {
		return nil, err
	}
	if calories != nil {
		m.Nutrition = &domain.Nutrition{
			Calories: *calories,
			Protein:  deref(protein),
			Carbs:    deref(carbs),
			Fat:      deref(fat),
		}
	}
	return &m, nil
}

func deref(v *float64) float64 {
	if v == nil {
		return 0
	}
	return *v
}
