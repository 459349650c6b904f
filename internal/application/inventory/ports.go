package inventory

import (
	"context"

	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Commit si fn devuelve nil; Rollback en cualquier otro caso (error, panic o contexto cancelado).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		itemRepo repository.ItemRepository,
		locationRepo repository.LocationRepository,
		supplierRepo repository.SupplierRepository,
		movRepo repository.MovementRepository,
	) error) error
}

// IdempotencyGuard reserva una clave de idempotencia por petición de movimiento.
// Reserve devuelve false si la clave ya fue usada.
type IdempotencyGuard interface {
	Reserve(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// MovementRecorder registra métricas de movimientos aplicados y rechazados.
type MovementRecorder interface {
	MovementApplied(movementType string)
	MovementRejected(movementType, reason string)
}

type nopRecorder struct{}

func (nopRecorder) MovementApplied(string)          {}
func (nopRecorder) MovementRejected(string, string) {}
