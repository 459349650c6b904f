package memory

import (
	"context"

	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

var _ repository.ReportRepository = (*ReportRepo)(nil)

// ReportRepo proyecciones de stock sobre el estado confirmado.
type ReportRepo struct {
	s *Store
}

func (r *ReportRepo) StockRows(ctx context.Context) ([]repository.StockRow, error) {
	return r.rows(ctx, func(*entity.Item) bool { return true })
}

func (r *ReportRepo) StockRowsByLocation(ctx context.Context, locationID string) ([]repository.StockRow, error) {
	return r.rows(ctx, func(it *entity.Item) bool { return strPtrEq(it.LocationID, locationID) })
}

func (r *ReportRepo) rows(ctx context.Context, keep func(*entity.Item) bool) ([]repository.StockRow, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var items []*entity.Item
	var rows []repository.StockRow
	r.s.view(nil, func(t *Tx) {
		t.eachItem(func(it *entity.Item) {
			if keep(it) {
				items = append(items, it)
			}
		})
		sortItems(items)
		for _, it := range items {
			row := repository.StockRow{
				ItemID:    it.ID,
				Name:      it.Name,
				SKU:       it.SKU,
				Quantity:  it.Quantity,
				UnitPrice: it.UnitPrice,
				Status:    it.Status,
			}
			if it.LocationID != nil {
				if l := t.location(*it.LocationID); l != nil {
					row.LocationName = l.Name
				}
			}
			if it.SupplierID != nil {
				if sp := t.supplier(*it.SupplierID); sp != nil {
					row.SupplierName = sp.Name
				}
			}
			rows = append(rows, row)
		}
	})
	return rows, nil
}
