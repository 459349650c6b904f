package inventory_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/memory"
)

type fixture struct {
	store *memory.Store
	uc    *inventory.ApplyMovementUseCase
	rec   *fakeRecorder
	w1    *entity.Location
	w2    *entity.Location
}

func newFixture(t *testing.T, opts inventory.Options) *fixture {
	t.Helper()
	ctx := context.Background()
	store := memory.New()
	w1 := &entity.Location{ID: "loc-w1", Name: "Bodega 1", Code: "WH-001", Type: entity.LocationTypeWarehouse}
	w2 := &entity.Location{ID: "loc-w2", Name: "Bodega 2", Code: "WH-002", Type: entity.LocationTypeWarehouse}
	require.NoError(t, store.Locations().Create(ctx, w1))
	require.NoError(t, store.Locations().Create(ctx, w2))
	rec := &fakeRecorder{}
	if opts.Recorder == nil {
		opts.Recorder = rec
	}
	return &fixture{
		store: store,
		uc:    inventory.NewApplyMovementUseCase(store, zerolog.Nop(), opts),
		rec:   rec,
		w1:    w1,
		w2:    w2,
	}
}

func (f *fixture) addItem(t *testing.T, id string, qty int64, loc *entity.Location) {
	t.Helper()
	it := &entity.Item{
		ID:        id,
		Name:      "Artículo " + id,
		SKU:       "SKU-" + id,
		Quantity:  qty,
		UnitPrice: decimal.RequireFromString("10.00"),
		Status:    entity.ItemStatusAvailable,
	}
	if loc != nil {
		it.LocationID = &loc.ID
	}
	require.NoError(t, f.store.Items().Create(context.Background(), it))
}

func (f *fixture) item(t *testing.T, id string) *entity.Item {
	t.Helper()
	it, err := f.store.Items().GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, it)
	return it
}

func (f *fixture) movements(t *testing.T, itemID string) []*entity.Movement {
	t.Helper()
	list, err := f.store.Movements().ListByItem(context.Background(), itemID)
	require.NoError(t, err)
	return list
}

type fakeRecorder struct {
	mu       sync.Mutex
	applied  int
	rejected map[string]int
}

func (r *fakeRecorder) MovementApplied(string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.applied++
}

func (r *fakeRecorder) MovementRejected(_ string, reason string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.rejected == nil {
		r.rejected = make(map[string]int)
	}
	r.rejected[reason]++
}

func TestApply_TransferScenario(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()
	f.addItem(t, "A", 50, f.w1)

	// Caso 1: traslado de 10 a W2
	item, mov, err := f.uc.Apply(ctx, inventory.MovementInput{
		ItemID:         "A",
		Type:           entity.MovementTypeTransfer,
		Quantity:       10,
		ToLocationID:   f.w2.ID,
		FromLocationID: &f.w1.ID,
		PerformedBy:    "operador",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(40), item.Quantity)
	require.NotNil(t, item.LocationID)
	assert.Equal(t, f.w2.ID, *item.LocationID)
	assert.Equal(t, "A", mov.ItemID)
	assert.Equal(t, int64(10), mov.Quantity)
	assert.Equal(t, "operador", mov.PerformedBy)
	assert.False(t, mov.MovementDate.IsZero())

	// Caso 2: traslado de 100 falla y no cambia nada
	_, _, err = f.uc.Apply(ctx, inventory.MovementInput{
		ItemID:       "A",
		Type:         entity.MovementTypeTransfer,
		Quantity:     100,
		ToLocationID: f.w1.ID,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientQuantity)

	stored := f.item(t, "A")
	assert.Equal(t, int64(40), stored.Quantity)
	assert.Equal(t, f.w2.ID, *stored.LocationID)
	assert.Len(t, f.movements(t, "A"), 1)
	assert.Equal(t, 1, f.rec.applied)
	assert.Equal(t, 1, f.rec.rejected[string(domain.KindInsufficientQuantity)])
}

func TestApply_ReceiptFromZero(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.addItem(t, "B", 0, nil)

	item, mov, err := f.uc.Apply(context.Background(), inventory.MovementInput{
		ItemID: "B", Type: entity.MovementTypeReceipt, Quantity: 20, ToLocationID: f.w1.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(20), item.Quantity)
	assert.Equal(t, f.w1.ID, *item.LocationID)
	assert.Nil(t, mov.FromLocationID)
}

func TestApply_ReceiptShipmentRoundTrip(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()
	f.addItem(t, "C", 7, f.w1)

	_, _, err := f.uc.Apply(ctx, inventory.MovementInput{ItemID: "C", Type: entity.MovementTypeReceipt, Quantity: 30, ToLocationID: f.w1.ID})
	require.NoError(t, err)
	item, _, err := f.uc.Apply(ctx, inventory.MovementInput{ItemID: "C", Type: entity.MovementTypeShipment, Quantity: 30, ToLocationID: f.w1.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(7), item.Quantity)
}

func TestApply_ShipmentInsufficient(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.addItem(t, "D", 3, f.w1)

	_, _, err := f.uc.Apply(context.Background(), inventory.MovementInput{
		ItemID: "D", Type: entity.MovementTypeShipment, Quantity: 4, ToLocationID: f.w2.ID,
	})
	require.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	it := f.item(t, "D")
	assert.Equal(t, int64(3), it.Quantity)
	assert.Equal(t, f.w1.ID, *it.LocationID)
	assert.Empty(t, f.movements(t, "D"))
}

func TestApply_AdjustmentSetsAbsoluteAndRepins(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()
	f.addItem(t, "E", 99, f.w1)

	item, _, err := f.uc.Apply(ctx, inventory.MovementInput{ItemID: "E", Type: entity.MovementTypeAdjustment, Quantity: 12, ToLocationID: f.w2.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(12), item.Quantity)
	assert.Equal(t, f.w2.ID, *item.LocationID)

	item, _, err = f.uc.Apply(ctx, inventory.MovementInput{ItemID: "E", Type: entity.MovementTypeAdjustment, Quantity: 0, ToLocationID: f.w2.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), item.Quantity)
	// Sin AutoStatus el estado no cambia
	assert.Equal(t, entity.ItemStatusAvailable, item.Status)
}

func TestApply_AutoStatus(t *testing.T) {
	f := newFixture(t, inventory.Options{AutoStatus: true})
	ctx := context.Background()
	f.addItem(t, "F", 5, f.w1)

	item, _, err := f.uc.Apply(ctx, inventory.MovementInput{ItemID: "F", Type: entity.MovementTypeShipment, Quantity: 5, ToLocationID: f.w1.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusOutOfStock, item.Status)

	item, _, err = f.uc.Apply(ctx, inventory.MovementInput{ItemID: "F", Type: entity.MovementTypeReturn, Quantity: 2, ToLocationID: f.w1.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusAvailable, item.Status)
	assert.Equal(t, entity.ItemStatusAvailable, f.item(t, "F").Status)
}

func TestApply_AutoStatusLeavesManagedStatuses(t *testing.T) {
	f := newFixture(t, inventory.Options{AutoStatus: true})
	ctx := context.Background()
	f.addItem(t, "G", 5, f.w1)
	it := f.item(t, "G")
	it.Status = entity.ItemStatusDiscontinued
	require.NoError(t, f.store.Items().Update(ctx, it))

	item, _, err := f.uc.Apply(ctx, inventory.MovementInput{ItemID: "G", Type: entity.MovementTypeShipment, Quantity: 5, ToLocationID: f.w1.ID})
	require.NoError(t, err)
	assert.Equal(t, entity.ItemStatusDiscontinued, item.Status)
}

func TestApply_NotFound(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()
	f.addItem(t, "H", 10, f.w1)
	missing := "loc-x"

	cases := []struct {
		name   string
		in     inventory.MovementInput
		entity string
	}{
		{"artículo", inventory.MovementInput{ItemID: "nope", Type: entity.MovementTypeReceipt, Quantity: 1, ToLocationID: f.w1.ID}, "item"},
		{"destino", inventory.MovementInput{ItemID: "H", Type: entity.MovementTypeReceipt, Quantity: 1, ToLocationID: missing}, "location"},
		{"origen", inventory.MovementInput{ItemID: "H", Type: entity.MovementTypeTransfer, Quantity: 1, ToLocationID: f.w2.ID, FromLocationID: &missing}, "location"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := f.uc.Apply(ctx, tc.in)
			require.ErrorIs(t, err, domain.ErrNotFound)
			de, ok := domain.AsError(err)
			require.True(t, ok)
			assert.Equal(t, tc.entity, de.Entity)
		})
	}
	assert.Equal(t, int64(10), f.item(t, "H").Quantity)
	assert.Empty(t, f.movements(t, "H"))
}

func TestApply_ValidationEnumeratesFields(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	_, _, err := f.uc.Apply(context.Background(), inventory.MovementInput{Type: entity.MovementTypeShipment, Quantity: 0})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	de, _ := domain.AsError(err)
	var got []string
	for _, v := range de.Violations {
		got = append(got, v.Field)
	}
	assert.ElementsMatch(t, []string{"item_id", "quantity", "to_location_id"}, got)
}

func TestApplyFromRequest_ReportsBodyAndTypeRules(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ctx := context.Background()

	// Caso: falta item_id (body) y TRANSFER con cantidad 0 (regla por tipo)
	_, err := f.uc.ApplyFromRequest(ctx, "tester", "", dto.ApplyMovementRequest{Type: "TRANSFER", Quantity: 0, ToLocationID: f.w1.ID})
	require.ErrorIs(t, err, domain.ErrInvalidInput)
	de, _ := domain.AsError(err)
	var got []string
	for _, v := range de.Violations {
		got = append(got, v.Field)
	}
	assert.ElementsMatch(t, []string{"item_id", "quantity"}, got)
	assert.Equal(t, 1, f.rec.rejected["VALIDATION"])

	// Caso: tipo desconocido se reporta una sola vez
	_, err = f.uc.ApplyFromRequest(ctx, "tester", "", dto.ApplyMovementRequest{ItemID: "x", Type: "LOST", Quantity: 1, ToLocationID: f.w1.ID})
	de, _ = domain.AsError(err)
	require.NotNil(t, de)
	require.Len(t, de.Violations, 1)
	assert.Equal(t, "type", de.Violations[0].Field)

	// Caso: ADJUSTMENT admite 0
	f.addItem(t, "it-1", 5, f.w1)
	res, err := f.uc.ApplyFromRequest(ctx, "tester", "", dto.ApplyMovementRequest{ItemID: "it-1", Type: "ADJUSTMENT", Quantity: 0, ToLocationID: f.w1.ID})
	require.NoError(t, err)
	assert.Equal(t, int64(0), res.Item.Quantity)
	assert.Equal(t, "tester", res.Movement.PerformedBy)
}

func TestApply_ConcurrentShipmentsNeverOversell(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.addItem(t, "I", 100, f.w1)

	var ok, insufficient atomic.Int64
	var g errgroup.Group
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			_, _, err := f.uc.Apply(context.Background(), inventory.MovementInput{
				ItemID: "I", Type: entity.MovementTypeShipment, Quantity: 3, ToLocationID: f.w1.ID,
			})
			switch {
			case err == nil:
				ok.Add(1)
			case errors.Is(err, domain.ErrInsufficientQuantity):
				insufficient.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())

	assert.Equal(t, int64(33), ok.Load())
	assert.Equal(t, int64(17), insufficient.Load())
	assert.Equal(t, int64(1), f.item(t, "I").Quantity)
	assert.Len(t, f.movements(t, "I"), 33)
}

func TestApply_DifferentItemsInParallel(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	ids := []string{"J1", "J2", "J3", "J4"}
	for _, id := range ids {
		f.addItem(t, id, 0, f.w1)
	}
	var g errgroup.Group
	for _, id := range ids {
		for n := 0; n < 10; n++ {
			g.Go(func() error {
				_, _, err := f.uc.Apply(context.Background(), inventory.MovementInput{
					ItemID: id, Type: entity.MovementTypeReceipt, Quantity: 2, ToLocationID: f.w2.ID,
				})
				return err
			})
		}
	}
	require.NoError(t, g.Wait())
	for _, id := range ids {
		assert.Equal(t, int64(20), f.item(t, id).Quantity)
	}
}

func TestApply_CancelledContextLeavesStateUnchanged(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.addItem(t, "K", 10, f.w1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := f.uc.Apply(ctx, inventory.MovementInput{ItemID: "K", Type: entity.MovementTypeShipment, Quantity: 5, ToLocationID: f.w2.ID})
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, int64(10), f.item(t, "K").Quantity)
	assert.Empty(t, f.movements(t, "K"))
}

func TestApply_WaitingForLockHonoursDeadline(t *testing.T) {
	f := newFixture(t, inventory.Options{})
	f.addItem(t, "L", 10, f.w1)

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = f.store.Run(context.Background(), func(items repository.ItemRepository, _ repository.LocationRepository, _ repository.SupplierRepository, _ repository.MovementRepository) error {
			_, err := items.GetByIDForUpdate(context.Background(), "L")
			close(locked)
			<-done
			return err
		})
	}()
	<-locked

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, _, err := f.uc.Apply(ctx, inventory.MovementInput{ItemID: "L", Type: entity.MovementTypeShipment, Quantity: 1, ToLocationID: f.w1.ID})
	require.ErrorIs(t, err, context.DeadlineExceeded)
	close(done)

	assert.Equal(t, int64(10), f.item(t, "L").Quantity)
}

type fakeGuard struct {
	mu       sync.Mutex
	keys     map[string]bool
	released []string
}

func (g *fakeGuard) Reserve(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.keys == nil {
		g.keys = make(map[string]bool)
	}
	if g.keys[key] {
		return false, nil
	}
	g.keys[key] = true
	return true, nil
}

func (g *fakeGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.keys, key)
	g.released = append(g.released, key)
	return nil
}

func TestApply_IdempotencyKey(t *testing.T) {
	guard := &fakeGuard{}
	f := newFixture(t, inventory.Options{Guard: guard})
	ctx := context.Background()
	f.addItem(t, "M", 0, f.w1)

	in := inventory.MovementInput{ItemID: "M", Type: entity.MovementTypeReceipt, Quantity: 5, ToLocationID: f.w1.ID, IdempotencyKey: "req-1"}
	_, _, err := f.uc.Apply(ctx, in)
	require.NoError(t, err)

	// Caso: reintento con la misma clave no duplica la entrada
	_, _, err = f.uc.Apply(ctx, in)
	require.ErrorIs(t, err, domain.ErrConflict)
	assert.Equal(t, int64(5), f.item(t, "M").Quantity)

	// Caso: un movimiento fallido libera su clave
	bad := inventory.MovementInput{ItemID: "M", Type: entity.MovementTypeShipment, Quantity: 50, ToLocationID: f.w1.ID, IdempotencyKey: "req-2"}
	_, _, err = f.uc.Apply(ctx, bad)
	require.ErrorIs(t, err, domain.ErrInsufficientQuantity)
	assert.Equal(t, []string{"req-2"}, guard.released)
}
