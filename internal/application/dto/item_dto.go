package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateItemRequest entrada para crear un artículo.
// Si Quantity > 0 y hay LocationID se registra un ajuste de apertura.
type CreateItemRequest struct {
	Name        string          `json:"name" validate:"required,notblank,min=2,max=100"`
	Description string          `json:"description" validate:"max=500"`
	SKU         string          `json:"sku" validate:"required,notblank,max=50"`
	Quantity    int64           `json:"quantity" validate:"min=0"`
	UnitPrice   decimal.Decimal `json:"unit_price" validate:"dgte0"`
	LocationID  *string         `json:"location_id" validate:"omitempty,min=1"`
	SupplierID  *string         `json:"supplier_id" validate:"omitempty,min=1"`
	Status      string          `json:"status" validate:"omitempty,oneof=AVAILABLE OUT_OF_STOCK DISCONTINUED RESERVED"`
}

// UpdateItemRequest entrada para actualizar un artículo (sin cantidad: se maneja vía movimientos).
// SKU solo se acepta si coincide con el actual. LocationID/SupplierID vacíos quitan la referencia.
type UpdateItemRequest struct {
	Name        *string          `json:"name" validate:"omitempty,notblank,min=2,max=100"`
	Description *string          `json:"description" validate:"omitempty,max=500"`
	SKU         *string          `json:"sku" validate:"omitempty,notblank,max=50"`
	UnitPrice   *decimal.Decimal `json:"unit_price" validate:"omitempty,dgte0"`
	LocationID  *string          `json:"location_id"`
	SupplierID  *string          `json:"supplier_id"`
	Status      *string          `json:"status" validate:"omitempty,oneof=AVAILABLE OUT_OF_STOCK DISCONTINUED RESERVED"`
}

// ItemResponse salida de un artículo.
type ItemResponse struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	SKU         string          `json:"sku"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	LocationID  *string         `json:"location_id"`
	SupplierID  *string         `json:"supplier_id"`
	Status      string          `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ItemListResponse lista paginada de artículos.
type ItemListResponse struct {
	Items []ItemResponse `json:"items"`
	Page  PageResponse   `json:"page"`
}
