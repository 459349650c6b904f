package repository

import (
	"context"

	"github.com/jhoicas/inventory-manager/internal/domain/entity"
)

// ItemRepository define el puerto de persistencia para Item (DIP).
// Las lecturas devuelven (nil, nil) cuando el registro no existe.
type ItemRepository interface {
	Create(ctx context.Context, item *entity.Item) error
	GetByID(ctx context.Context, id string) (*entity.Item, error)
	// GetByIDForUpdate bloquea el artículo hasta el fin de la unidad de trabajo.
	GetByIDForUpdate(ctx context.Context, id string) (*entity.Item, error)
	GetBySKU(ctx context.Context, sku string) (*entity.Item, error)
	Update(ctx context.Context, item *entity.Item) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, limit, offset int) ([]*entity.Item, error)
	ListByLocation(ctx context.Context, locationID string) ([]*entity.Item, error)
	ListBySupplier(ctx context.Context, supplierID string) ([]*entity.Item, error)
	ListByStatus(ctx context.Context, status entity.ItemStatus) ([]*entity.Item, error)
	// ListBelowQuantity artículos con cantidad estrictamente menor al umbral.
	ListBelowQuantity(ctx context.Context, threshold int64) ([]*entity.Item, error)
	SearchByName(ctx context.Context, keyword string) ([]*entity.Item, error)
	CountByLocation(ctx context.Context, locationID string) (int64, error)
	CountBySupplier(ctx context.Context, supplierID string) (int64, error)
}
