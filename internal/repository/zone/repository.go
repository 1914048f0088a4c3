package zone

import (
	"context"

	"freshprep/internal/domain"
)

type Repository interface {
	ListActive(ctx context.Context) ([]domain.DeliveryZone, error)
	GetByPostcode(ctx context.Context, postcode string) (*domain.DeliveryZone, error)
	Upsert(ctx context.Context, zone domain.DeliveryZone) (*domain.DeliveryZone, error)
}
