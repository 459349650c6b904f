package repository

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
)

// StockRow resultado crudo de la consulta de stock: artículo con los nombres de ubicación y proveedor resueltos.
// LocationName y SupplierName quedan vacíos cuando el artículo no tiene la referencia.
type StockRow struct {
	ItemID       string
	Name         string
	SKU          string
	Quantity     int64
	UnitPrice    decimal.Decimal
	LocationName string
	SupplierName string
	Status       entity.ItemStatus
}

// ReportRepository define las consultas de lectura para reportes de stock.
// Las implementaciones son read-only (no modifican datos).
type ReportRepository interface {
	// StockRows devuelve todos los artículos ordenados por nombre.
	StockRows(ctx context.Context) ([]StockRow, error)

	// StockRowsByLocation restringe a los artículos ubicados en locationID.
	StockRowsByLocation(ctx context.Context, locationID string) ([]StockRow, error)
}
