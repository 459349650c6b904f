package inventory

import (
	"math"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
)

// MinQuantity cantidad mínima aceptada por tipo de movimiento. ADJUSTMENT admite 0 (conteo físico en cero).
func MinQuantity(t entity.MovementType) int64 {
	if t == entity.MovementTypeAdjustment {
		return 0
	}
	return 1
}

// NextQuantity implementa la política de transición de cantidad (servicio de dominio).
//
//	TRANSFER, SHIPMENT:  q - amount (falla si amount > q)
//	RECEIPT, RETURN:     q + amount
//	ADJUSTMENT:          amount
func NextQuantity(itemID string, t entity.MovementType, current, amount int64) (int64, error) {
	if !t.Valid() {
		return 0, domain.Invalid("type", "tipo de movimiento desconocido: "+string(t))
	}
	if amount < MinQuantity(t) {
		return 0, domain.Invalid("quantity", "la cantidad debe ser mayor que cero")
	}
	switch t {
	case entity.MovementTypeTransfer, entity.MovementTypeShipment:
		if amount > current {
			return 0, domain.InsufficientQuantity(itemID, current, amount)
		}
		return current - amount, nil
	case entity.MovementTypeReceipt, entity.MovementTypeReturn:
		if current > math.MaxInt64-amount {
			return 0, domain.Invalid("quantity", "la cantidad resultante excede el máximo permitido")
		}
		return current + amount, nil
	default:
		return amount, nil
	}
}

// Replay reconstruye la cantidad aplicando los movimientos en orden desde 0.
// Devuelve el índice del primer movimiento que no pudo aplicarse, o -1.
func Replay(itemID string, movements []*entity.Movement) (int64, int, error) {
	var q int64
	for i, m := range movements {
		next, err := NextQuantity(itemID, m.Type, q, m.Quantity)
		if err != nil {
			return q, i, err
		}
		q = next
	}
	return q, -1, nil
}
