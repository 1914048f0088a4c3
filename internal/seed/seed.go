package seed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type mealSeed struct {
	Slug             string
	Name             string
	ShortDescription string
	Category         string
	PriceCents       int64
	Tags             []string
	Allergens        []string
	Calories         int
	Protein          float64
	Carbs            float64
	Fat              float64
}

type zoneSeed struct {
	Postcode      string
	Suburb        string
	Name          string
	DeliveryDays  []string
	DeliveryCents int64
	CutoffHour    int
}

// Apply inserts basic seed data for manual testing. It is idempotent via ON CONFLICT.
func Apply(ctx context.Context, pool *pgxpool.Pool) error {
	meals := []mealSeed{
		{
			Slug:             "butter-chicken",
			Name:             "Butter Chicken",
			ShortDescription: "Creamy spiced chicken with basmati rice",
			Category:         "CLASSIC",
			PriceCents:       1395,
			Tags:             []string{"chicken", "gluten-free"},
			Allergens:        []string{"dairy"},
			Calories:         550, Protein: 38, Carbs: 42, Fat: 22,
		},
		{
			Slug:             "lean-beef-bowl",
			Name:             "Lean Beef Bowl",
			ShortDescription: "Grass-fed beef with sweet potato mash",
			Category:         "HIGH_PROTEIN",
			PriceCents:       1495,
			Tags:             []string{"beef", "high-protein"},
			Calories:         480, Protein: 45, Carbs: 35, Fat: 14,
		},
		{
			Slug:             "garden-falafel",
			Name:             "Garden Falafel",
			ShortDescription: "Falafel with tabbouleh and tahini",
			Category:         "PLANT_BASED",
			PriceCents:       1195,
			Tags:             []string{"vegan", "vegetarian"},
			Allergens:        []string{"sesame"},
			Calories:         430, Protein: 18, Carbs: 52, Fat: 16,
		},
		{
			Slug:             "zucchini-lasagne",
			Name:             "Zucchini Lasagne",
			ShortDescription: "Layered zucchini with beef ragu, no pasta",
			Category:         "LOW_CARB",
			PriceCents:       1345,
			Tags:             []string{"beef", "keto"},
			Allergens:        []string{"dairy"},
			Calories:         390, Protein: 32, Carbs: 12, Fat: 24,
		},
		{
			Slug:             "bulk-chicken-rice",
			Name:             "Bulk Chicken & Rice",
			ShortDescription: "Double serving of chicken breast and jasmine rice",
			Category:         "BULK",
			PriceCents:       1895,
			Tags:             []string{"chicken", "bulk"},
			Calories:         820, Protein: 68, Carbs: 85, Fat: 18,
		},
	}

	for _, m := range meals {
		if err := upsertMeal(ctx, pool, m); err != nil {
			return fmt.Errorf("upsert meal %s: %w", m.Slug, err)
		}
	}

	zones := []zoneSeed{
		{Postcode: "2000", Suburb: "Sydney", Name: "Sydney CBD", DeliveryDays: []string{"MON", "WED", "FRI"}, DeliveryCents: 0, CutoffHour: 12},
		{Postcode: "2010", Suburb: "Surry Hills", Name: "Inner East", DeliveryDays: []string{"MON", "WED", "FRI"}, DeliveryCents: 0, CutoffHour: 12},
		{Postcode: "2060", Suburb: "North Sydney", Name: "Lower North Shore", DeliveryDays: []string{"TUE", "THU"}, DeliveryCents: 490, CutoffHour: 10},
	}

	for _, z := range zones {
		if err := upsertZone(ctx, pool, z); err != nil {
			return fmt.Errorf("upsert zone %s: %w", z.Postcode, err)
		}
	}

	if err := upsertWelcomePost(ctx, pool); err != nil {
		return fmt.Errorf("upsert blog post: %w", err)
	}

	return nil
}

func upsertMeal(ctx context.Context, pool *pgxpool.Pool, m mealSeed) error {
	const q = `
INSERT INTO meals (slug, name, short_description, category, price_cents, tags, allergens, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7, TRUE)
ON CONFLICT (slug) DO UPDATE
SET name = EXCLUDED.name,
    short_description = EXCLUDED.short_description,
    category = EXCLUDED.category,
    price_cents = EXCLUDED.price_cents,
    tags = EXCLUDED.tags,
    allergens = EXCLUDED.allergens
RETURNING id
`
	var id string
	if err := pool.QueryRow(ctx, q, m.Slug, m.Name, m.ShortDescription, m.Category, m.PriceCents, m.Tags, m.Allergens).Scan(&id); err != nil {
		return err
	}

	const nq = `
INSERT INTO meal_nutrition (meal_id, calories, protein, carbs, fat)
VALUES ($1, $2, $3, $4, $5)
ON CONFLICT (meal_id) DO UPDATE
SET calories = EXCLUDED.calories,
    protein = EXCLUDED.protein,
    carbs = EXCLUDED.carbs,
    fat = EXCLUDED.fat
`
	_, err := pool.Exec(ctx, nq, id, m.Calories, m.Protein, m.Carbs, m.Fat)
	return err
}

func upsertZone(ctx context.Context, pool *pgxpool.Pool, z zoneSeed) error {
	const q = `
INSERT INTO delivery_zones (name, postcode, suburb, delivery_days, delivery_cents, cutoff_hour, is_active)
VALUES ($1, $2, $3, $4, $5, $6, TRUE)
ON CONFLICT (postcode) DO UPDATE
SET name = EXCLUDED.name,
    suburb = EXCLUDED.suburb,
    delivery_days = EXCLUDED.delivery_days,
    delivery_cents = EXCLUDED.delivery_cents,
    cutoff_hour = EXCLUDED.cutoff_hour
`
	_, err := pool.Exec(ctx, q, z.Name, z.Postcode, z.Suburb, z.DeliveryDays, z.DeliveryCents, z.CutoffHour)
	return err
}

func upsertWelcomePost(ctx context.Context, pool *pgxpool.Pool) error {
	const q = `
INSERT INTO blog_posts (title, slug, excerpt, content, category, tags, is_published, published_at)
VALUES ($1, $2, $3, $4, $5, $6, TRUE, now())
ON CONFLICT (slug) DO UPDATE
SET title = EXCLUDED.title,
    excerpt = EXCLUDED.excerpt,
    content = EXCLUDED.content,
    category = EXCLUDED.category,
    tags = EXCLUDED.tags
`
	_, err := pool.Exec(ctx, q,
		"Why We Cook With Whole Ingredients",
		"why-whole-ingredients",
		"A look inside our kitchen and how each menu comes together.",
		"Every week our chefs build the menu around seasonal produce...",
		"kitchen",
		[]string{"kitchen", "nutrition"},
	)
	return err
}
