package dto

import "time"

// ApplyMovementRequest body para POST /api/movements.
type ApplyMovementRequest struct {
	ItemID         string  `json:"item_id" validate:"required"`
	Type           string  `json:"type" validate:"required,oneof=TRANSFER RECEIPT SHIPMENT ADJUSTMENT RETURN"`
	Quantity       int64   `json:"quantity" validate:"min=0"`
	ToLocationID   string  `json:"to_location_id" validate:"required"`
	FromLocationID *string `json:"from_location_id,omitempty" validate:"omitempty,min=1"`
	Notes          string  `json:"notes" validate:"max=500"`
	PerformedBy    string  `json:"performed_by" validate:"max=100"`
}

// MovementResponse salida de un movimiento.
type MovementResponse struct {
	ID             string    `json:"id"`
	ItemID         string    `json:"item_id"`
	FromLocationID *string   `json:"from_location_id"`
	ToLocationID   string    `json:"to_location_id"`
	Quantity       int64     `json:"quantity"`
	Type           string    `json:"type"`
	Notes          string    `json:"notes"`
	MovementDate   time.Time `json:"movement_date"`
	PerformedBy    string    `json:"performed_by"`
}

// ApplyMovementResponse estado del artículo tras el movimiento y el registro creado.
type ApplyMovementResponse struct {
	Item     ItemResponse     `json:"item"`
	Movement MovementResponse `json:"movement"`
}

// MovementListResponse lista de movimientos.
type MovementListResponse struct {
	Items []MovementResponse `json:"items"`
	Page  *PageResponse      `json:"page,omitempty"`
}

// ReplenishmentSuggestionDTO sugerencia de reposición para un artículo bajo el umbral.
type ReplenishmentSuggestionDTO struct {
	ItemID            string  `json:"item_id"`
	SKU               string  `json:"sku"`
	Name              string  `json:"name"`
	CurrentQuantity   int64   `json:"current_quantity"`
	Threshold         int64   `json:"threshold"`
	SuggestedOrderQty int64   `json:"suggested_order_qty"` // ceil(Threshold*1.5) - CurrentQuantity
	ShippedLast90Days int64   `json:"shipped_last_90d"`
	LocationID        *string `json:"location_id"`
	SupplierID        *string `json:"supplier_id"`
	Priority          int     `json:"priority"` // 1 = más urgente
}
