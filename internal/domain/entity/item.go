package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemStatus estado comercial del artículo.
type ItemStatus string

const (
	ItemStatusAvailable    ItemStatus = "AVAILABLE"
	ItemStatusOutOfStock   ItemStatus = "OUT_OF_STOCK"
	ItemStatusDiscontinued ItemStatus = "DISCONTINUED"
	ItemStatusReserved     ItemStatus = "RESERVED"
)

// Valid indica si el estado pertenece al catálogo.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusAvailable, ItemStatusOutOfStock, ItemStatusDiscontinued, ItemStatusReserved:
		return true
	}
	return false
}

// Item representa un artículo del inventario.
// Quantity solo cambia vía movimientos; LocationID y SupplierID son referencias por id (no se poseen).
type Item struct {
	ID          string
	Name        string
	Description string
	SKU         string // único, inmutable tras la creación
	Quantity    int64  // nunca negativo
	UnitPrice   decimal.Decimal
	LocationID  *string
	SupplierID  *string
	Status      ItemStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SyncStatus ajusta AVAILABLE <-> OUT_OF_STOCK según la cantidad.
// DISCONTINUED y RESERVED los gestiona el usuario y no se tocan.
func (i *Item) SyncStatus() {
	switch {
	case i.Quantity == 0 && i.Status == ItemStatusAvailable:
		i.Status = ItemStatusOutOfStock
	case i.Quantity > 0 && i.Status == ItemStatusOutOfStock:
		i.Status = ItemStatusAvailable
	}
}

// TotalValue valor del stock con aritmética decimal exacta (precio unitario × cantidad).
func (i *Item) TotalValue() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(i.Quantity))
}

// Clone devuelve una copia independiente (los punteros de referencia no se comparten).
func (i *Item) Clone() *Item {
	c := *i
	if i.LocationID != nil {
		v := *i.LocationID
		c.LocationID = &v
	}
	if i.SupplierID != nil {
		v := *i.SupplierID
		c.SupplierID = &v
	}
	return &c
}
