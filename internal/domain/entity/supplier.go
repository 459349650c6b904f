package entity

import "time"

// Supplier representa un proveedor de artículos.
type Supplier struct {
	ID            string
	Name          string
	Email         string
	Phone         string
	Address       string
	ContactPerson string
	TaxID         string // opcional; único cuando está presente
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
