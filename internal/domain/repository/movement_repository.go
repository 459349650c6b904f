package repository

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-manager/internal/domain/entity"
)

// MovementRepository define el puerto de persistencia para movimientos de inventario.
// Solo inserción y lectura: un movimiento nunca se modifica ni se elimina.
type MovementRepository interface {
	Create(ctx context.Context, movement *entity.Movement) error
	GetByID(ctx context.Context, id string) (*entity.Movement, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Movement, error)
	// ListByItem en orden cronológico ascendente.
	ListByItem(ctx context.Context, itemID string) ([]*entity.Movement, error)
	// ListByDateRange incluye ambos extremos.
	ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Movement, error)
	// ListByLocation movimientos con origen o destino en la ubicación.
	ListByLocation(ctx context.Context, locationID string) ([]*entity.Movement, error)
}
