package inventory

import (
	"context"
	"time"

	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

// MovementQueryUseCase consultas de solo lectura sobre el historial de movimientos.
type MovementQueryUseCase struct {
	movRepo      repository.MovementRepository
	itemRepo     repository.ItemRepository
	locationRepo repository.LocationRepository
}

// NewMovementQueryUseCase construye el caso de uso.
func NewMovementQueryUseCase(
	movRepo repository.MovementRepository,
	itemRepo repository.ItemRepository,
	locationRepo repository.LocationRepository,
) *MovementQueryUseCase {
	return &MovementQueryUseCase{movRepo: movRepo, itemRepo: itemRepo, locationRepo: locationRepo}
}

// GetByID obtiene un movimiento; NotFound si no existe.
func (uc *MovementQueryUseCase) GetByID(ctx context.Context, id string) (*entity.Movement, error) {
	m, err := uc.movRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.NotFound("movement", id)
	}
	return m, nil
}

// List lista todos los movimientos en orden cronológico, paginado.
func (uc *MovementQueryUseCase) List(ctx context.Context, limit, offset int) ([]*entity.Movement, error) {
	return uc.movRepo.List(ctx, limit, offset)
}

// ListByItem historial del artículo en orden cronológico.
func (uc *MovementQueryUseCase) ListByItem(ctx context.Context, itemID string) ([]*entity.Movement, error) {
	it, err := uc.itemRepo.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if it == nil {
		return nil, domain.NotFound("item", itemID)
	}
	return uc.movRepo.ListByItem(ctx, itemID)
}

// ListByDateRange movimientos con fecha en [start, end]. start > end es inválido.
func (uc *MovementQueryUseCase) ListByDateRange(ctx context.Context, start, end time.Time) ([]*entity.Movement, error) {
	if start.After(end) {
		return nil, domain.Invalid("start", "la fecha inicial no puede ser posterior a la final")
	}
	return uc.movRepo.ListByDateRange(ctx, start, end)
}

// ListByLocation movimientos con origen o destino en la ubicación.
func (uc *MovementQueryUseCase) ListByLocation(ctx context.Context, locationID string) ([]*entity.Movement, error) {
	l, err := uc.locationRepo.GetByID(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, domain.NotFound("location", locationID)
	}
	return uc.movRepo.ListByLocation(ctx, locationID)
}
