package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

// LocationUseCase casos de uso CRUD para ubicaciones.
type LocationUseCase struct {
	repo     repository.LocationRepository
	itemRepo repository.ItemRepository
}

// NewLocationUseCase construye el caso de uso.
func NewLocationUseCase(repo repository.LocationRepository, itemRepo repository.ItemRepository) *LocationUseCase {
	return &LocationUseCase{repo: repo, itemRepo: itemRepo}
}

// Create crea una nueva ubicación. Type por defecto WAREHOUSE.
func (uc *LocationUseCase) Create(ctx context.Context, in dto.CreateLocationRequest) (*dto.LocationResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	existing, err := uc.repo.GetByCode(ctx, in.Code)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("location", "code", "ya existe una ubicación con el código "+in.Code)
	}
	typ := entity.LocationTypeWarehouse
	if in.Type != "" {
		typ = entity.LocationType(in.Type)
	}
	location := &entity.Location{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(in.Name),
		Address:   in.Address,
		Code:      in.Code,
		Type:      typ,
		CreatedAt: time.Now().UTC(),
	}
	if err := uc.repo.Create(ctx, location); err != nil {
		return nil, err
	}
	out := dto.LocationFromEntity(location, 0)
	return &out, nil
}

// GetByID obtiene una ubicación con su conteo de artículos.
func (uc *LocationUseCase) GetByID(ctx context.Context, id string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.NotFound("location", id)
	}
	return uc.withCount(ctx, location)
}

// GetByCode obtiene una ubicación por su código único.
func (uc *LocationUseCase) GetByCode(ctx context.Context, code string) (*dto.LocationResponse, error) {
	location, err := uc.repo.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.NotFound("location", code)
	}
	return uc.withCount(ctx, location)
}

// Update actualiza una ubicación; el código sigue siendo único.
func (uc *LocationUseCase) Update(ctx context.Context, id string, in dto.UpdateLocationRequest) (*dto.LocationResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	location, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if location == nil {
		return nil, domain.NotFound("location", id)
	}
	if in.Code != nil && *in.Code != location.Code {
		other, err := uc.repo.GetByCode(ctx, *in.Code)
		if err != nil {
			return nil, err
		}
		if other != nil {
			return nil, domain.Conflict("location", "code", "ya existe una ubicación con el código "+*in.Code)
		}
		location.Code = *in.Code
	}
	if in.Name != nil {
		location.Name = strings.TrimSpace(*in.Name)
	}
	if in.Address != nil {
		location.Address = *in.Address
	}
	if in.Type != nil {
		location.Type = entity.LocationType(*in.Type)
	}
	if err := uc.repo.Update(ctx, location); err != nil {
		return nil, err
	}
	return uc.withCount(ctx, location)
}

// List lista ubicaciones con paginación.
func (uc *LocationUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.LocationListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.LocationResponse, 0, len(list))
	for _, l := range list {
		out, err := uc.withCount(ctx, l)
		if err != nil {
			return nil, err
		}
		items = append(items, *out)
	}
	return &dto.LocationListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListItems artículos ubicados actualmente en la ubicación.
func (uc *LocationUseCase) ListItems(ctx context.Context, id string) ([]dto.ItemResponse, error) {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return nil, err
	}
	list, err := uc.itemRepo.ListByLocation(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ItemsFromEntities(list), nil
}

// Delete elimina una ubicación. Conflict mientras algún artículo la referencie.
func (uc *LocationUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *LocationUseCase) withCount(ctx context.Context, l *entity.Location) (*dto.LocationResponse, error) {
	n, err := uc.itemRepo.CountByLocation(ctx, l.ID)
	if err != nil {
		return nil, err
	}
	out := dto.LocationFromEntity(l, n)
	return &out, nil
}
