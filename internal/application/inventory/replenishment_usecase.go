package inventory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

// ReplenishmentUseCase genera la lista de reposición de artículos bajo el umbral de stock.
// Prioriza por volumen de salidas recientes para reponer primero lo que más rota.
type ReplenishmentUseCase struct {
	itemRepo         repository.ItemRepository
	movRepo          repository.MovementRepository
	defaultThreshold int64
	now              func() time.Time
}

// NewReplenishmentUseCase construye el caso de uso de reposición.
func NewReplenishmentUseCase(
	itemRepo repository.ItemRepository,
	movRepo repository.MovementRepository,
	defaultThreshold int64,
) *ReplenishmentUseCase {
	return &ReplenishmentUseCase{
		itemRepo:         itemRepo,
		movRepo:          movRepo,
		defaultThreshold: defaultThreshold,
		now:              time.Now,
	}
}

// GenerateReplenishmentList devuelve los artículos con cantidad < threshold con la cantidad sugerida
// de pedido (hasta 1.5 × threshold) y su prioridad. threshold nil usa el umbral configurado.
// Los artículos DISCONTINUED no se reponen.
func (uc *ReplenishmentUseCase) GenerateReplenishmentList(ctx context.Context, threshold *int64) ([]dto.ReplenishmentSuggestionDTO, error) {
	limit := uc.defaultThreshold
	if threshold != nil {
		limit = *threshold
	}
	if limit < 0 {
		return nil, domain.Invalid("threshold", "no puede ser negativo")
	}

	// 1. Artículos bajo el umbral
	items, err := uc.itemRepo.ListBelowQuantity(ctx, limit)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []dto.ReplenishmentSuggestionDTO{}, nil
	}

	// 2. Salidas de los últimos 90 días por artículo
	end := uc.now().UTC()
	start := end.AddDate(0, 0, -90)
	recent, err := uc.movRepo.ListByDateRange(ctx, start, end)
	if err != nil {
		return nil, err
	}
	shipped := make(map[string]int64)
	for _, m := range recent {
		if m.Type == entity.MovementTypeShipment {
			shipped[m.ItemID] += m.Quantity
		}
	}

	// 3. Construir los DTOs
	ideal := (limit*3 + 1) / 2
	suggestions := make([]dto.ReplenishmentSuggestionDTO, 0, len(items))
	for _, it := range items {
		if it.Status == entity.ItemStatusDiscontinued {
			continue
		}
		qty := ideal - it.Quantity
		if qty < 0 {
			qty = 0
		}
		suggestions = append(suggestions, dto.ReplenishmentSuggestionDTO{
			ItemID:            it.ID,
			SKU:               it.SKU,
			Name:              it.Name,
			CurrentQuantity:   it.Quantity,
			Threshold:         limit,
			SuggestedOrderQty: qty,
			ShippedLast90Days: shipped[it.ID],
			LocationID:        it.LocationID,
			SupplierID:        it.SupplierID,
		})
	}

	// 4. Ordenar: mayor volumen de salidas, luego mayor déficit
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.ShippedLast90Days != b.ShippedLast90Days {
			return a.ShippedLast90Days > b.ShippedLast90Days
		}
		return a.SuggestedOrderQty > b.SuggestedOrderQty
	})

	// 5. Asignar prioridad (1 = más urgente)
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
