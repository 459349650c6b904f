package entity

import "time"

// LocationType tipo de ubicación física.
type LocationType string

const (
	LocationTypeWarehouse LocationType = "WAREHOUSE"
	LocationTypeStore     LocationType = "STORE"
	LocationTypeOffice    LocationType = "OFFICE"
	LocationTypeStorage   LocationType = "STORAGE"
)

// Valid indica si el tipo pertenece al catálogo.
func (t LocationType) Valid() bool {
	switch t {
	case LocationTypeWarehouse, LocationTypeStore, LocationTypeOffice, LocationTypeStorage:
		return true
	}
	return false
}

// Location representa una bodega, tienda u oficina donde se ubican artículos.
// Los artículos que contiene se calculan bajo demanda (no se guarda la relación inversa).
type Location struct {
	ID        string
	Name      string
	Address   string
	Code      string // formato XX-000, único
	Type      LocationType
	CreatedAt time.Time
}
