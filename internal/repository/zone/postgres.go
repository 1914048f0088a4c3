package zone

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

const zoneColumns = `id::text, name, postcode, suburb, delivery_days, delivery_cents, cutoff_hour, is_active`

func (r *postgresRepo) ListActive(ctx context.Context) ([]domain.DeliveryZone, error) {
	const q = `
SELECT ` + zoneColumns + `
FROM delivery_zones
WHERE is_active
ORDER BY postcode ASC
`
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.DeliveryZone
	for rows.Next() {
		var z domain.DeliveryZone
		if err := scanZone(rows, &z); err != nil {
			return nil, err
		}
		result = append(result, z)
	}
	return result, rows.Err()
}

func (r *postgresRepo) GetByPostcode(ctx context.Context, postcode string) (*domain.DeliveryZone, error) {
	const q = `
SELECT ` + zoneColumns + `
FROM delivery_zones
WHERE postcode = $1
`
	var z domain.DeliveryZone
	if err := scanZone(r.pool.QueryRow(ctx, q, postcode), &z); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return &z, nil
}

func (r *postgresRepo) Upsert(ctx context.Context, zone domain.DeliveryZone) (*domain.DeliveryZone, error) {
	const q = `
INSERT INTO delivery_zones (name, postcode, suburb, delivery_days, delivery_cents, cutoff_hour, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (postcode) DO UPDATE SET
    name = EXCLUDED.name,
    suburb = EXCLUDED.suburb,
    delivery_days = EXCLUDED.delivery_days,
    delivery_cents = EXCLUDED.delivery_cents,
    cutoff_hour = EXCLUDED.cutoff_hour,
    is_active = EXCLUDED.is_active
RETURNING id::text
`
	res := zone
	if res.DeliveryDays == nil {
		res.DeliveryDays = []string{}
	}
	if err := r.pool.QueryRow(ctx, q,
		zone.Name, zone.Postcode, zone.Suburb, res.DeliveryDays, zone.DeliveryCents, zone.CutoffHour, zone.IsActive,
	).Scan(&res.ID); err != nil {
		return nil, err
	}
	return &res, nil
}

func scanZone(row pgx.Row, z *domain.DeliveryZone) error {
	return row.Scan(&z.ID, &z.Name, &z.Postcode, &z.Suburb, &z.DeliveryDays, &z.DeliveryCents, &z.CutoffHour, &z.IsActive)
}
