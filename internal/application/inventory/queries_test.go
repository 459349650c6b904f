package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
)

func TestMovementQueries(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()
	f.addItem(t, "Q", 0, nil)
	q := inventory.NewMovementQueryUseCase(f.store.Movements(), f.store.Items(), f.store.Locations())

	before := time.Now().UTC().Add(-time.Second)
	_, first, err := f.uc.Apply(ctx, inventory.MovementInput{ItemID: "Q", Type: entity.MovementTypeReceipt, Quantity: 10, ToLocationID: f.w1.ID})
	require.NoError(t, err)
	_, _, err = f.uc.Apply(ctx, inventory.MovementInput{ItemID: "Q", Type: entity.MovementTypeTransfer, Quantity: 4, ToLocationID: f.w2.ID, FromLocationID: &f.w1.ID})
	require.NoError(t, err)
	after := time.Now().UTC().Add(time.Second)

	got, err := q.GetByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.MovementTypeReceipt, got.Type)

	_, err = q.GetByID(ctx, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)

	byItem, err := q.ListByItem(ctx, "Q")
	require.NoError(t, err)
	require.Len(t, byItem, 2)
	assert.Equal(t, entity.MovementTypeReceipt, byItem[0].Type)

	_, err = q.ListByItem(ctx, "no-existe")
	require.ErrorIs(t, err, domain.ErrNotFound)

	inRange, err := q.ListByDateRange(ctx, before, after)
	require.NoError(t, err)
	assert.Len(t, inRange, 2)

	// Extremos inclusivos
	exact, err := q.ListByDateRange(ctx, first.MovementDate, first.MovementDate)
	require.NoError(t, err)
	assert.NotEmpty(t, exact)

	_, err = q.ListByDateRange(ctx, after, before)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	atW1, err := q.ListByLocation(ctx, f.w1.ID)
	require.NoError(t, err)
	assert.Len(t, atW1, 2) // destino del primero, origen del segundo
	atW2, err := q.ListByLocation(ctx, f.w2.ID)
	require.NoError(t, err)
	assert.Len(t, atW2, 1)

	page, err := q.List(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, page, 1)
}

func TestReplenishment(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()
	f.addItem(t, "R1", 20, f.w1)
	f.addItem(t, "R2", 2, f.w1)
	f.addItem(t, "R3", 8, f.w1)
	f.addItem(t, "R4", 0, f.w1)
	discontinued := f.item(t, "R4")
	discontinued.Status = entity.ItemStatusDiscontinued
	require.NoError(t, f.store.Items().Update(ctx, discontinued))

	// R3 rota más: 5 salidas recientes
	_, _, err := f.uc.Apply(ctx, inventory.MovementInput{ItemID: "R3", Type: entity.MovementTypeShipment, Quantity: 5, ToLocationID: f.w1.ID})
	require.NoError(t, err)

	uc := inventory.NewReplenishmentUseCase(f.store.Items(), f.store.Movements(), 10)
	list, err := uc.GenerateReplenishmentList(ctx, nil)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "R3", list[0].ItemID)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, int64(12), list[0].SuggestedOrderQty) // 15 - 3
	assert.Equal(t, int64(5), list[0].ShippedLast90Days)
	assert.Equal(t, "R2", list[1].ItemID)
	assert.Equal(t, int64(13), list[1].SuggestedOrderQty)

	custom := int64(3)
	list, err = uc.GenerateReplenishmentList(ctx, &custom)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "R2", list[0].ItemID)

	neg := int64(-1)
	_, err = uc.GenerateReplenishmentList(ctx, &neg)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}
