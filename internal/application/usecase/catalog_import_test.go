package usecase_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/application/usecase"
	"github.com/jhoicas/inventory-manager/internal/domain"
)

func sampleCatalog() *dto.CatalogDTO {
	return &dto.CatalogDTO{
		Locations: []dto.CreateLocationRequest{{Code: "WH-001", Name: "Bodega principal"}},
		Suppliers: []dto.CreateSupplierRequest{{TaxID: "900123456", Name: "Ferretería Central"}},
		Items: []dto.CatalogItemDTO{
			{
				Request:       dto.CreateItemRequest{SKU: "MAR-001", Name: "Martillo", Quantity: 12, UnitPrice: decimal.RequireFromString("19.99")},
				LocationCode:  "WH-001",
				SupplierTaxID: "900123456",
			},
			{Request: dto.CreateItemRequest{SKU: "LIJ-001", Name: "Lija"}},
		},
	}
}

func TestCatalogImport_Idempotent(t *testing.T) {
	s := newSuite()
	ctx := context.Background()
	imp := usecase.NewCatalogImportUseCase(s.items, s.locations, s.suppliers)

	res, err := imp.Import(ctx, "seed", sampleCatalog())
	require.NoError(t, err)
	assert.Equal(t, 1, res.LocationsCreated)
	assert.Equal(t, 1, res.SuppliersCreated)
	assert.Equal(t, 2, res.ItemsCreated)
	assert.Empty(t, res.Skipped)

	list, err := s.items.SearchByName(ctx, "martillo")
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.NotNil(t, list[0].LocationID)
	require.NotNil(t, list[0].SupplierID)
	assert.Equal(t, int64(12), list[0].Quantity)

	// Segunda corrida: todo se omite
	res, err = imp.Import(ctx, "seed", sampleCatalog())
	require.NoError(t, err)
	assert.Zero(t, res.ItemsCreated)
	assert.Len(t, res.Skipped, 4)
}

func TestCatalogImport_UnknownReference(t *testing.T) {
	s := newSuite()
	imp := usecase.NewCatalogImportUseCase(s.items, s.locations, s.suppliers)

	c := &dto.CatalogDTO{Items: []dto.CatalogItemDTO{
		{Request: dto.CreateItemRequest{SKU: "X-1", Name: "Huérfano"}, LocationCode: "WH-999"},
	}}
	_, err := imp.Import(context.Background(), "seed", c)
	require.ErrorIs(t, err, domain.ErrNotFound)
}
