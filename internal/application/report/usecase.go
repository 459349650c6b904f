// Package report construye proyecciones de solo lectura sobre el inventario: stock valorizado y conciliación.
package report

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	appinventory "github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/inventory"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

// NotAvailable texto para ubicación o proveedor ausentes.
const NotAvailable = "N/A"

// StockReportRenderer genera el documento del reporte de stock (PDF).
type StockReportRenderer interface {
	RenderStockReport(r *dto.StockReportDTO) ([]byte, error)
}

// ReportUseCase reportes de stock. Las construcciones concurrentes del mismo reporte se agrupan
// en una sola consulta; el resultado compartido no debe modificarse.
type ReportUseCase struct {
	reportRepo   repository.ReportRepository
	locationRepo repository.LocationRepository
	txRunner     appinventory.TxRunner
	renderer     StockReportRenderer
	group        singleflight.Group
	mu           sync.Mutex
	flights      map[string]*flightState
	now          func() time.Time
}

// NewReportUseCase construye el caso de uso. renderer puede ser nil si no se exporta a PDF.
func NewReportUseCase(
	reportRepo repository.ReportRepository,
	locationRepo repository.LocationRepository,
	txRunner appinventory.TxRunner,
	renderer StockReportRenderer,
) *ReportUseCase {
	return &ReportUseCase{
		reportRepo:   reportRepo,
		locationRepo: locationRepo,
		txRunner:     txRunner,
		renderer:     renderer,
		flights:      make(map[string]*flightState),
		now:          time.Now,
	}
}

// GenerateStockReport reporte de todo el catálogo.
func (uc *ReportUseCase) GenerateStockReport(ctx context.Context) (*dto.StockReportDTO, error) {
	return uc.build(ctx, "stock", func(ctx context.Context) (*dto.StockReportDTO, error) {
		rows, err := uc.reportRepo.StockRows(ctx)
		if err != nil {
			return nil, fmt.Errorf("consultar stock: %w", err)
		}
		return uc.assemble(rows), nil
	})
}

// GenerateStockReportByLocation reporte restringido a una ubicación; NotFound si no existe.
func (uc *ReportUseCase) GenerateStockReportByLocation(ctx context.Context, locationID string) (*dto.StockReportDTO, error) {
	location, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.NotFound("location", locationID)
	}
	return uc.build(ctx, "stock:"+locationID, func(ctx context.Context) (*dto.StockReportDTO, error) {
		rows, err := uc.reportRepo.StockRowsByLocation(ctx, locationID)
		if err != nil {
			return nil, fmt.Errorf("consultar stock por ubicación: %w", err)
		}
		r := uc.assemble(rows)
		r.LocationID = location.ID
		r.LocationName = location.Name
		return r, nil
	})
}

// StockReportPDF reporte de stock (completo o por ubicación si locationID no es vacío) en PDF.
func (uc *ReportUseCase) StockReportPDF(ctx context.Context, locationID string) ([]byte, error) {
	if uc.renderer == nil {
		return nil, fmt.Errorf("generador de PDF no configurado")
	}
	var r *dto.StockReportDTO
	var err error
	if locationID == "" {
		r, err = uc.GenerateStockReport(ctx)
	} else {
		r, err = uc.GenerateStockReportByLocation(ctx, locationID)
	}
	if err != nil {
		return nil, err
	}
	return uc.renderer.RenderStockReport(r)
}

// Reconcile reconstruye la cantidad del artículo aplicando su historial desde 0 y la compara con la cantidad en mano.
// Artículo e historial se leen en la misma tx con el artículo bloqueado: ningún movimiento se confirma entre ambas lecturas.
func (uc *ReportUseCase) Reconcile(ctx context.Context, itemID string) (*dto.ReconciliationDTO, error) {
	var item *entity.Item
	var movs []*entity.Movement
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		_ repository.LocationRepository,
		_ repository.SupplierRepository,
		movRepo repository.MovementRepository,
	) error {
		var err error
		item, err = itemRepo.GetByIDForUpdate(ctx, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("item", itemID)
		}
		movs, err = movRepo.ListByItem(ctx, itemID)
		return err
	})
	if err != nil {
		return nil, err
	}
	replayed, failedAt, rerr := inventory.Replay(itemID, movs)
	out := &dto.ReconciliationDTO{
		ItemID:        item.ID,
		SKU:           item.SKU,
		OnHand:        item.Quantity,
		Replayed:      replayed,
		MovementCount: len(movs),
	}
	if rerr != nil {
		out.FirstInvalidStep = &failedAt
		out.Detail = rerr.Error()
		return out, nil
	}
	out.Reconciled = replayed == item.Quantity
	if !out.Reconciled {
		out.Detail = fmt.Sprintf("el historial suma %d y la cantidad en mano es %d", replayed, item.Quantity)
	}
	return out, nil
}

func (uc *ReportUseCase) assemble(rows []repository.StockRow) *dto.StockReportDTO {
	r := &dto.StockReportDTO{
		GeneratedAt: uc.now().UTC(),
		Rows:        make([]dto.StockReportRowDTO, 0, len(rows)),
		TotalValue:  decimal.Zero,
	}
	for _, row := range rows {
		line := StockLine(row)
		r.Rows = append(r.Rows, line)
		r.TotalQuantity += line.Quantity
		r.TotalValue = r.TotalValue.Add(line.TotalValue)
	}
	return r
}

// StockLine convierte una fila cruda en línea de reporte: valor total exacto y "N/A" para referencias ausentes.
func StockLine(row repository.StockRow) dto.StockReportRowDTO {
	location := row.LocationName
	if location == "" {
		location = NotAvailable
	}
	supplier := row.SupplierName
	if supplier == "" {
		supplier = NotAvailable
	}
	return dto.StockReportRowDTO{
		ItemID:       row.ItemID,
		Name:         row.Name,
		SKU:          row.SKU,
		Quantity:     row.Quantity,
		UnitPrice:    row.UnitPrice,
		TotalValue:   row.UnitPrice.Mul(decimal.NewFromInt(row.Quantity)),
		LocationName: location,
		SupplierName: supplier,
		Status:       string(row.Status),
	}
}
