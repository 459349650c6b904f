package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo consultas de solo lectura para el reporte de stock.
type ReportRepo struct {
	pool *pgxpool.Pool
}

// NewReportRepository construye el adaptador de reportes.
func NewReportRepository(pool *pgxpool.Pool) *ReportRepo {
	return &ReportRepo{pool: pool}
}

// Nombres vacíos cuando el artículo no tiene ubicación o proveedor; el caso de uso los reemplaza por N/A.
const stockRowsQuery = `
	SELECT
	    i.id,
	    i.name,
	    i.sku,
	    i.quantity,
	    i.unit_price,
	    COALESCE(l.name, '')  AS location_name,
	    COALESCE(s.name, '')  AS supplier_name,
	    i.status
	FROM items i
	LEFT JOIN locations l ON l.id = i.location_id
	LEFT JOIN suppliers s ON s.id = i.supplier_id`

// StockRows todos los artículos ordenados por nombre.
func (r *ReportRepo) StockRows(ctx context.Context) ([]repository.StockRow, error) {
	return r.rows(ctx, stockRowsQuery+` ORDER BY i.name, i.id`)
}

// StockRowsByLocation artículos ubicados en locationID.
func (r *ReportRepo) StockRowsByLocation(ctx context.Context, locationID string) ([]repository.StockRow, error) {
	return r.rows(ctx, stockRowsQuery+` WHERE i.location_id = $1 ORDER BY i.name, i.id`, locationID)
}

func (r *ReportRepo) rows(ctx context.Context, query string, args ...any) ([]repository.StockRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("report.StockRows: %w", err)
	}
	defer rows.Close()

	var results []repository.StockRow
	for rows.Next() {
		var row repository.StockRow
		var status string
		if err := rows.Scan(
			&row.ItemID,
			&row.Name,
			&row.SKU,
			&row.Quantity,
			&row.UnitPrice,
			&row.LocationName,
			&row.SupplierName,
			&status,
		); err != nil {
			return nil, fmt.Errorf("report.StockRows scan: %w", err)
		}
		row.Status = entity.ItemStatus(status)
		results = append(results, row)
	}
	return results, rows.Err()
}
