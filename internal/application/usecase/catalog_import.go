package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/domain"
)

// CatalogImportUseCase carga un catálogo inicial: primero ubicaciones y proveedores, luego artículos
// resolviendo sus referencias por código y NIT. Es re-ejecutable: lo que ya existe se omite.
type CatalogImportUseCase struct {
	items     *ItemUseCase
	locations *LocationUseCase
	suppliers *SupplierUseCase
}

// NewCatalogImportUseCase construye el caso de uso.
func NewCatalogImportUseCase(items *ItemUseCase, locations *LocationUseCase, suppliers *SupplierUseCase) *CatalogImportUseCase {
	return &CatalogImportUseCase{items: items, locations: locations, suppliers: suppliers}
}

// Import aplica el catálogo. Se detiene en el primer error que no sea un conflicto de unicidad.
func (uc *CatalogImportUseCase) Import(ctx context.Context, performedBy string, c *dto.CatalogDTO) (*dto.CatalogImportResult, error) {
	res := &dto.CatalogImportResult{Skipped: []string{}}

	for _, in := range c.Locations {
		_, err := uc.locations.Create(ctx, in)
		switch {
		case err == nil:
			res.LocationsCreated++
		case errors.Is(err, domain.ErrConflict):
			res.Skipped = append(res.Skipped, "location "+in.Code)
		default:
			return res, fmt.Errorf("ubicación %s: %w", in.Code, err)
		}
	}

	for _, in := range c.Suppliers {
		_, err := uc.suppliers.Create(ctx, in)
		switch {
		case err == nil:
			res.SuppliersCreated++
		case errors.Is(err, domain.ErrConflict):
			res.Skipped = append(res.Skipped, "supplier "+in.TaxID)
		default:
			return res, fmt.Errorf("proveedor %s: %w", in.Name, err)
		}
	}

	for _, it := range c.Items {
		in := it.Request
		if it.LocationCode != "" {
			loc, err := uc.locations.GetByCode(ctx, it.LocationCode)
			if err != nil {
				return res, fmt.Errorf("artículo %s: %w", in.SKU, err)
			}
			in.LocationID = &loc.ID
		}
		if it.SupplierTaxID != "" {
			sp, err := uc.suppliers.GetByTaxID(ctx, it.SupplierTaxID)
			if err != nil {
				return res, fmt.Errorf("artículo %s: %w", in.SKU, err)
			}
			in.SupplierID = &sp.ID
		}
		_, err := uc.items.Create(ctx, performedBy, in)
		switch {
		case err == nil:
			res.ItemsCreated++
		case errors.Is(err, domain.ErrConflict):
			res.Skipped = append(res.Skipped, "item "+in.SKU)
		default:
			return res, fmt.Errorf("artículo %s: %w", in.SKU, err)
		}
	}
	return res, nil
}
