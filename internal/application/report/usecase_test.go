package report_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/application/report"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
	"github.com/jhoicas/inventory-manager/internal/infrastructure/memory"
)

func newReport(store *memory.Store, renderer report.StockReportRenderer) *report.ReportUseCase {
	return report.NewReportUseCase(store.Reports(), store.Locations(), store, renderer)
}

func seed(t *testing.T, store *memory.Store) (*entity.Location, *entity.Supplier) {
	t.Helper()
	ctx := context.Background()
	loc := &entity.Location{ID: "loc-1", Name: "Bodega Central", Code: "BC-001", Type: entity.LocationTypeWarehouse}
	sup := &entity.Supplier{ID: "sup-1", Name: "Proveedor Uno"}
	require.NoError(t, store.Locations().Create(ctx, loc))
	require.NoError(t, store.Suppliers().Create(ctx, sup))
	require.NoError(t, store.Items().Create(ctx, &entity.Item{
		ID: "it-1", Name: "Monitor", SKU: "MON-1", Quantity: 10,
		UnitPrice: decimal.RequireFromString("99.99"), LocationID: &loc.ID, SupplierID: &sup.ID,
		Status: entity.ItemStatusAvailable,
	}))
	require.NoError(t, store.Items().Create(ctx, &entity.Item{
		ID: "it-2", Name: "Cable", SKU: "CAB-1", Quantity: 3,
		UnitPrice: decimal.RequireFromString("0.10"), Status: entity.ItemStatusReserved,
	}))
	return loc, sup
}

func TestStockReport_ExactDecimalAndNA(t *testing.T) {
	store := memory.New()
	seed(t, store)

	r, err := newReport(store, nil).GenerateStockReport(context.Background())
	require.NoError(t, err)
	require.Len(t, r.Rows, 2)

	// Orden por nombre: Cable, Monitor
	cable, monitor := r.Rows[0], r.Rows[1]
	assert.True(t, monitor.TotalValue.Equal(decimal.RequireFromString("999.90")), monitor.TotalValue.String())
	assert.Equal(t, "999.90", monitor.TotalValue.StringFixed(2))
	assert.Equal(t, "Bodega Central", monitor.LocationName)
	assert.Equal(t, "Proveedor Uno", monitor.SupplierName)
	assert.Equal(t, "AVAILABLE", monitor.Status)

	assert.Equal(t, report.NotAvailable, cable.LocationName)
	assert.Equal(t, report.NotAvailable, cable.SupplierName)
	assert.Equal(t, "RESERVED", cable.Status)
	assert.True(t, cable.TotalValue.Equal(decimal.RequireFromString("0.30")))

	assert.Equal(t, int64(13), r.TotalQuantity)
	assert.True(t, r.TotalValue.Equal(decimal.RequireFromString("1000.20")))
}

func TestStockReport_ByLocation(t *testing.T) {
	store := memory.New()
	loc, _ := seed(t, store)
	uc := newReport(store, nil)

	r, err := uc.GenerateStockReportByLocation(context.Background(), loc.ID)
	require.NoError(t, err)
	require.Len(t, r.Rows, 1)
	assert.Equal(t, "MON-1", r.Rows[0].SKU)
	assert.Equal(t, "Bodega Central", r.LocationName)

	_, err = uc.GenerateStockReportByLocation(context.Background(), "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStockLine_PriceTimesQuantity(t *testing.T) {
	cases := []struct {
		price string
		qty   int64
		want  string
	}{
		{"99.99", 10, "999.90"},
		{"0.01", 3, "0.03"},
		{"19.995", 7, "139.965"},
		{"12.50", 0, "0"},
	}
	for _, tc := range cases {
		line := report.StockLine(repository.StockRow{UnitPrice: decimal.RequireFromString(tc.price), Quantity: tc.qty})
		assert.True(t, line.TotalValue.Equal(decimal.RequireFromString(tc.want)), "%s × %d = %s", tc.price, tc.qty, line.TotalValue)
	}
}

func TestReconcile(t *testing.T) {
	store := memory.New()
	loc, _ := seed(t, store)
	ctx := context.Background()
	uc := newReport(store, nil)

	// Caso 1: it-1 se creó con cantidad y sin movimientos: no cuadra
	res, err := uc.Reconcile(ctx, "it-1")
	require.NoError(t, err)
	assert.False(t, res.Reconciled)
	assert.Equal(t, int64(10), res.OnHand)
	assert.Equal(t, int64(0), res.Replayed)

	// Caso 2: un ajuste fija la base y desde ahí el historial cuadra
	engine := inventory.NewApplyMovementUseCase(store, zerolog.Nop(), inventory.Options{})
	_, _, err = engine.Apply(ctx, inventory.MovementInput{ItemID: "it-1", Type: entity.MovementTypeAdjustment, Quantity: 10, ToLocationID: loc.ID})
	require.NoError(t, err)
	_, _, err = engine.Apply(ctx, inventory.MovementInput{ItemID: "it-1", Type: entity.MovementTypeShipment, Quantity: 4, ToLocationID: loc.ID})
	require.NoError(t, err)

	res, err = uc.Reconcile(ctx, "it-1")
	require.NoError(t, err)
	assert.True(t, res.Reconciled)
	assert.Equal(t, int64(6), res.Replayed)
	assert.Equal(t, 2, res.MovementCount)
	assert.Nil(t, res.FirstInvalidStep)

	_, err = uc.Reconcile(ctx, "nope")
	require.ErrorIs(t, err, domain.ErrNotFound)
}

// movementsHook llama onList antes de leer el historial del artículo.
type movementsHook struct {
	repository.MovementRepository
	onList func()
}

func (m movementsHook) ListByItem(ctx context.Context, itemID string) ([]*entity.Movement, error) {
	m.onList()
	return m.MovementRepository.ListByItem(ctx, itemID)
}

type hookedTx struct {
	*memory.Store
	onList func()
}

func (h hookedTx) Run(ctx context.Context, fn func(
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
	supplierRepo repository.SupplierRepository,
	movRepo repository.MovementRepository,
) error) error {
	return h.Store.Run(ctx, func(
		itemRepo repository.ItemRepository,
		locationRepo repository.LocationRepository,
		supplierRepo repository.SupplierRepository,
		movRepo repository.MovementRepository,
	) error {
		return fn(itemRepo, locationRepo, supplierRepo, movementsHook{MovementRepository: movRepo, onList: h.onList})
	})
}

func TestReconcile_MovementBetweenReads(t *testing.T) {
	store := memory.New()
	loc, _ := seed(t, store)
	ctx := context.Background()
	engine := inventory.NewApplyMovementUseCase(store, zerolog.Nop(), inventory.Options{})
	_, _, err := engine.Apply(ctx, inventory.MovementInput{ItemID: "it-1", Type: entity.MovementTypeAdjustment, Quantity: 10, ToLocationID: loc.ID})
	require.NoError(t, err)

	// Un recibo se lanza justo entre la lectura del artículo y la del historial
	applied := make(chan error, 1)
	var once sync.Once
	tx := hookedTx{Store: store, onList: func() {
		once.Do(func() {
			go func() {
				_, _, err := engine.Apply(ctx, inventory.MovementInput{ItemID: "it-1", Type: entity.MovementTypeReceipt, Quantity: 3, ToLocationID: loc.ID})
				applied <- err
			}()
			select {
			case err := <-applied:
				applied <- err
			case <-time.After(50 * time.Millisecond):
			}
		})
	}}
	uc := report.NewReportUseCase(store.Reports(), store.Locations(), tx, nil)

	res, err := uc.Reconcile(ctx, "it-1")
	require.NoError(t, err)
	assert.True(t, res.Reconciled, res.Detail)
	assert.Equal(t, int64(10), res.OnHand)
	assert.Equal(t, 1, res.MovementCount)

	// El recibo se confirma al liberar el artículo
	require.NoError(t, <-applied)
	res, err = uc.Reconcile(ctx, "it-1")
	require.NoError(t, err)
	assert.True(t, res.Reconciled, res.Detail)
	assert.Equal(t, int64(13), res.OnHand)
	assert.Equal(t, 2, res.MovementCount)
}

type slowReports struct {
	calls atomic.Int32
	gate  chan struct{}
}

func (s *slowReports) StockRows(ctx context.Context) ([]repository.StockRow, error) {
	s.calls.Add(1)
	<-s.gate
	return []repository.StockRow{{ItemID: "x", Quantity: 1, UnitPrice: decimal.NewFromInt(2)}}, nil
}

func (s *slowReports) StockRowsByLocation(ctx context.Context, _ string) ([]repository.StockRow, error) {
	return s.StockRows(ctx)
}

func TestStockReport_ConcurrentBuildsShareQuery(t *testing.T) {
	store := memory.New()
	slow := &slowReports{gate: make(chan struct{})}
	uc := report.NewReportUseCase(slow, store.Locations(), store, nil)

	const callers = 8
	var wg sync.WaitGroup
	results := make([]*dto.StockReportDTO, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := uc.GenerateStockReport(context.Background())
			if err == nil {
				results[i] = r
			}
		}()
	}
	time.Sleep(50 * time.Millisecond)
	close(slow.gate)
	wg.Wait()

	assert.Less(t, int(slow.calls.Load()), callers)
	for _, r := range results {
		require.NotNil(t, r)
		assert.True(t, r.TotalValue.Equal(decimal.NewFromInt(2)))
	}
}

// versionedReports devuelve la cantidad vigente al consultar; la primera consulta espera a gate.
type versionedReports struct {
	qty     atomic.Int64
	calls   atomic.Int32
	started chan struct{}
	gate    chan struct{}
}

func (v *versionedReports) StockRows(ctx context.Context) ([]repository.StockRow, error) {
	qty := v.qty.Load()
	if v.calls.Add(1) == 1 {
		close(v.started)
		<-v.gate
	}
	return []repository.StockRow{{ItemID: "it-1", Quantity: qty, UnitPrice: decimal.NewFromInt(1)}}, nil
}

func (v *versionedReports) StockRowsByLocation(ctx context.Context, _ string) ([]repository.StockRow, error) {
	return v.StockRows(ctx)
}

func TestStockReport_SeesWritesCommittedBeforeCall(t *testing.T) {
	store := memory.New()
	repo := &versionedReports{started: make(chan struct{}), gate: make(chan struct{})}
	repo.qty.Store(10)
	uc := report.NewReportUseCase(repo, store.Locations(), store, nil)

	first := make(chan *dto.StockReportDTO, 1)
	go func() {
		r, _ := uc.GenerateStockReport(context.Background())
		first <- r
	}()
	<-repo.started

	// Se confirma una escritura con la primera construcción aún en curso
	repo.qty.Store(1)
	second := make(chan *dto.StockReportDTO, 1)
	go func() {
		r, _ := uc.GenerateStockReport(context.Background())
		second <- r
	}()
	time.Sleep(20 * time.Millisecond)
	close(repo.gate)

	r1, r2 := <-first, <-second
	require.NotNil(t, r1)
	require.NotNil(t, r2)
	assert.Equal(t, int64(10), r1.Rows[0].Quantity)
	assert.Equal(t, int64(1), r2.Rows[0].Quantity)
	assert.Equal(t, int32(2), repo.calls.Load())
}

func TestStockReport_CallerCancellation(t *testing.T) {
	store := memory.New()
	slow := &slowReports{gate: make(chan struct{})}
	defer close(slow.gate)
	uc := report.NewReportUseCase(slow, store.Locations(), store, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := uc.GenerateStockReport(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
}

type fakeRenderer struct{ got *dto.StockReportDTO }

func (f *fakeRenderer) RenderStockReport(r *dto.StockReportDTO) ([]byte, error) {
	f.got = r
	return []byte("%PDF-fake"), nil
}

func TestStockReportPDF(t *testing.T) {
	store := memory.New()
	loc, _ := seed(t, store)
	renderer := &fakeRenderer{}
	uc := newReport(store, renderer)

	out, err := uc.StockReportPDF(context.Background(), loc.ID)
	require.NoError(t, err)
	assert.Equal(t, []byte("%PDF-fake"), out)
	require.NotNil(t, renderer.got)
	assert.Len(t, renderer.got.Rows, 1)

	_, err = newReport(store, nil).StockReportPDF(context.Background(), "")
	require.Error(t, err)
}
