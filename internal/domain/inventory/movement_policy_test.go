package inventory_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/inventory"
)

func TestNextQuantity(t *testing.T) {
	cases := []struct {
		name    string
		typ     entity.MovementType
		current int64
		amount  int64
		want    int64
		kind    domain.Kind
	}{
		{"traslado resta", entity.MovementTypeTransfer, 50, 10, 40, ""},
		{"traslado exacto deja cero", entity.MovementTypeTransfer, 10, 10, 0, ""},
		{"traslado insuficiente", entity.MovementTypeTransfer, 40, 100, 0, domain.KindInsufficientQuantity},
		{"salida resta", entity.MovementTypeShipment, 20, 5, 15, ""},
		{"salida insuficiente", entity.MovementTypeShipment, 3, 4, 0, domain.KindInsufficientQuantity},
		{"entrada suma", entity.MovementTypeReceipt, 0, 20, 20, ""},
		{"devolución suma", entity.MovementTypeReturn, 7, 3, 10, ""},
		{"ajuste fija valor absoluto", entity.MovementTypeAdjustment, 99, 12, 12, ""},
		{"ajuste a cero", entity.MovementTypeAdjustment, 99, 0, 0, ""},
		{"entrada en cero inválida", entity.MovementTypeReceipt, 5, 0, 0, domain.KindInvalidArgument},
		{"salida negativa inválida", entity.MovementTypeShipment, 5, -1, 0, domain.KindInvalidArgument},
		{"ajuste negativo inválido", entity.MovementTypeAdjustment, 5, -1, 0, domain.KindInvalidArgument},
		{"tipo desconocido", entity.MovementType("LOAN"), 5, 1, 0, domain.KindInvalidArgument},
		{"desbordamiento", entity.MovementTypeReceipt, math.MaxInt64, 1, 0, domain.KindInvalidArgument},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := inventory.NextQuantity("item-1", tc.typ, tc.current, tc.amount)
			if tc.kind != "" {
				require.Error(t, err)
				assert.Equal(t, tc.kind, domain.KindOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.GreaterOrEqual(t, got, int64(0))
		})
	}
}

func TestNextQuantity_InsufficientCarriesContext(t *testing.T) {
	_, err := inventory.NextQuantity("item-9", entity.MovementTypeShipment, 2, 5)
	require.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	de, ok := domain.AsError(err)
	require.True(t, ok)
	assert.Equal(t, "item-9", de.ID)
	assert.Equal(t, "quantity", de.Field)
}

func TestReceiptThenShipmentRoundTrip(t *testing.T) {
	for _, start := range []int64{0, 1, 40, 1000} {
		q, err := inventory.NextQuantity("i", entity.MovementTypeReceipt, start, 25)
		require.NoError(t, err)
		q, err = inventory.NextQuantity("i", entity.MovementTypeShipment, q, 25)
		require.NoError(t, err)
		assert.Equal(t, start, q)
	}
}

func TestReplay(t *testing.T) {
	movs := []*entity.Movement{
		{Type: entity.MovementTypeAdjustment, Quantity: 50},
		{Type: entity.MovementTypeTransfer, Quantity: 10},
		{Type: entity.MovementTypeReceipt, Quantity: 5},
		{Type: entity.MovementTypeShipment, Quantity: 45},
		{Type: entity.MovementTypeReturn, Quantity: 2},
	}
	q, failed, err := inventory.Replay("i", movs)
	require.NoError(t, err)
	assert.Equal(t, -1, failed)
	assert.Equal(t, int64(2), q)

	// Caso: historial inconsistente (salida sin stock)
	q, failed, err = inventory.Replay("i", []*entity.Movement{
		{Type: entity.MovementTypeReceipt, Quantity: 1},
		{Type: entity.MovementTypeShipment, Quantity: 3},
	})
	require.Error(t, err)
	assert.Equal(t, 1, failed)
	assert.Equal(t, int64(1), q)
}
