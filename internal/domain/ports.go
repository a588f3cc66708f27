package domain

import "context"

// CatalogRepository is the reference data provider for camps and rooms.
type CatalogRepository interface {
	ListCamps(ctx context.Context) ([]Camp, error)
	GetCamp(ctx context.Context, id string) (Camp, error)
	ListRooms(ctx context.Context, campID string) ([]Room, error)
	GetRoom(ctx context.Context, id string) (Room, error)
}

// CatalogWriter is implemented by stores that can be seeded.
type CatalogWriter interface {
	UpsertCamp(ctx context.Context, c Camp) error
	UpsertRoom(ctx context.Context, r Room) error
}

type Cache interface {
	Get(ctx context.Context, key string, dst any) (bool, error)
	Set(ctx context.Context, key string, v any, ttlSec int) error
	Del(ctx context.Context, key string) error
}

// Notifier receives user-facing events. Implementations must not block the caller for long.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// PaymentGateway resolves a charge. A nil error means the payment went through.
type PaymentGateway interface {
	Charge(ctx context.Context, c Charge) error
}
