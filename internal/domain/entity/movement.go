package entity

import "time"

// MovementType tipo de movimiento de inventario.
type MovementType string

const (
	MovementTypeTransfer   MovementType = "TRANSFER"   // traslado: resta y re-ubica
	MovementTypeReceipt    MovementType = "RECEIPT"    // entrada
	MovementTypeShipment   MovementType = "SHIPMENT"   // salida
	MovementTypeAdjustment MovementType = "ADJUSTMENT" // conteo físico: fija la cantidad absoluta
	MovementTypeReturn     MovementType = "RETURN"     // devolución: suma
)

// Valid indica si el tipo pertenece al catálogo.
func (t MovementType) Valid() bool {
	switch t {
	case MovementTypeTransfer, MovementTypeReceipt, MovementTypeShipment, MovementTypeAdjustment, MovementTypeReturn:
		return true
	}
	return false
}

// Movement registro de auditoría inmutable de un cambio de cantidad/ubicación sobre un artículo.
// Una vez creado nunca se modifica ni se elimina.
type Movement struct {
	ID             string
	ItemID         string
	FromLocationID *string // ausente en RECEIPT
	ToLocationID   string
	Quantity       int64
	Type           MovementType
	Notes          string
	MovementDate   time.Time
	PerformedBy    string
}
