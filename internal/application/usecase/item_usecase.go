package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/inventory-manager/internal/application/dto"
	"github.com/jhoicas/inventory-manager/internal/application/inventory"
	"github.com/jhoicas/inventory-manager/internal/domain"
	"github.com/jhoicas/inventory-manager/internal/domain/entity"
	"github.com/jhoicas/inventory-manager/internal/domain/repository"
)

// OpeningBalanceNote nota del ajuste que registra la cantidad inicial de un artículo.
const OpeningBalanceNote = "saldo inicial"

// ItemUseCase casos de uso CRUD para artículos. La cantidad se maneja vía movimientos.
type ItemUseCase struct {
	txRunner        inventory.TxRunner
	repo            repository.ItemRepository
	log             zerolog.Logger
	autoStatus      bool
	lowStockDefault int64
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(txRunner inventory.TxRunner, repo repository.ItemRepository, log zerolog.Logger, autoStatus bool, lowStockDefault int64) *ItemUseCase {
	return &ItemUseCase{
		txRunner:        txRunner,
		repo:            repo,
		log:             log,
		autoStatus:      autoStatus,
		lowStockDefault: lowStockDefault,
	}
}

// Create crea un nuevo artículo. Si trae cantidad inicial se registra un ADJUSTMENT de apertura
// en la misma transacción para que el historial siempre cuadre con la cantidad en mano.
func (uc *ItemUseCase) Create(ctx context.Context, performedBy string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if in.Quantity > 0 && in.LocationID == nil {
		return nil, domain.Invalid("location_id", "es obligatorio cuando la cantidad inicial es mayor que cero")
	}
	existing, err := uc.repo.GetBySKU(ctx, in.SKU)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.Conflict("item", "sku", "ya existe un artículo con el SKU "+in.SKU)
	}

	status := entity.ItemStatusAvailable
	if in.Status != "" {
		status = entity.ItemStatus(in.Status)
	}
	now := time.Now().UTC()
	item := &entity.Item{
		ID:          uuid.New().String(),
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		SKU:         in.SKU,
		Quantity:    in.Quantity,
		UnitPrice:   in.UnitPrice,
		LocationID:  in.LocationID,
		SupplierID:  in.SupplierID,
		Status:      status,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if uc.autoStatus {
		item.SyncStatus()
	}

	err = uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		locationRepo repository.LocationRepository,
		supplierRepo repository.SupplierRepository,
		movRepo repository.MovementRepository,
	) error {
		if err := ensureRefs(ctx, locationRepo, supplierRepo, item.LocationID, item.SupplierID); err != nil {
			return err
		}
		if err := itemRepo.Create(ctx, item); err != nil {
			return err
		}
		if item.Quantity == 0 || item.LocationID == nil {
			return nil
		}
		return movRepo.Create(ctx, &entity.Movement{
			ID:           uuid.New().String(),
			ItemID:       item.ID,
			ToLocationID: *item.LocationID,
			Quantity:     item.Quantity,
			Type:         entity.MovementTypeAdjustment,
			Notes:        OpeningBalanceNote,
			MovementDate: now,
			PerformedBy:  performedBy,
		})
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("item_id", item.ID).Str("sku", item.SKU).Int64("quantity", item.Quantity).Msg("artículo creado")
	out := dto.ItemFromEntity(item)
	return &out, nil
}

// GetByID obtiene un artículo por ID.
func (uc *ItemUseCase) GetByID(ctx context.Context, id string) (*dto.ItemResponse, error) {
	item, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound("item", id)
	}
	out := dto.ItemFromEntity(item)
	return &out, nil
}

// Update actualiza un artículo bajo bloqueo. No permite modificar la cantidad ni el SKU.
func (uc *ItemUseCase) Update(ctx context.Context, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	var updated *entity.Item
	err := uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		locationRepo repository.LocationRepository,
		supplierRepo repository.SupplierRepository,
		_ repository.MovementRepository,
	) error {
		item, err := itemRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("item", id)
		}
		if in.SKU != nil && *in.SKU != item.SKU {
			return domain.Invalid("sku", "el SKU no puede modificarse")
		}
		if in.Name != nil {
			item.Name = strings.TrimSpace(*in.Name)
		}
		if in.Description != nil {
			item.Description = *in.Description
		}
		if in.UnitPrice != nil {
			item.UnitPrice = *in.UnitPrice
		}
		if in.LocationID != nil {
			item.LocationID = optionalRef(*in.LocationID)
		}
		if in.SupplierID != nil {
			item.SupplierID = optionalRef(*in.SupplierID)
		}
		if in.Status != nil {
			item.Status = entity.ItemStatus(*in.Status)
		}
		if err := ensureRefs(ctx, locationRepo, supplierRepo, item.LocationID, item.SupplierID); err != nil {
			return err
		}
		item.UpdatedAt = time.Now().UTC()
		if err := itemRepo.Update(ctx, item); err != nil {
			return err
		}
		updated = item
		return nil
	})
	if err != nil {
		return nil, err
	}
	out := dto.ItemFromEntity(updated)
	return &out, nil
}

// Delete elimina un artículo. Conflict si tiene movimientos registrados.
func (uc *ItemUseCase) Delete(ctx context.Context, id string) error {
	return uc.txRunner.Run(ctx, func(
		itemRepo repository.ItemRepository,
		_ repository.LocationRepository,
		_ repository.SupplierRepository,
		_ repository.MovementRepository,
	) error {
		item, err := itemRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if item == nil {
			return domain.NotFound("item", id)
		}
		return itemRepo.Delete(ctx, id)
	})
}

// List lista artículos con paginación.
func (uc *ItemUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	return &dto.ItemListResponse{
		Items: dto.ItemsFromEntities(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// SearchByName busca por subcadena del nombre sin distinguir mayúsculas.
func (uc *ItemUseCase) SearchByName(ctx context.Context, keyword string) ([]dto.ItemResponse, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, domain.Invalid("keyword", "es obligatorio")
	}
	list, err := uc.repo.SearchByName(ctx, keyword)
	if err != nil {
		return nil, err
	}
	return dto.ItemsFromEntities(list), nil
}

// ListLowStock artículos con cantidad estrictamente menor al umbral (nil usa el configurado).
func (uc *ItemUseCase) ListLowStock(ctx context.Context, threshold *int64) ([]dto.ItemResponse, error) {
	limit := uc.lowStockDefault
	if threshold != nil {
		limit = *threshold
	}
	if limit < 0 {
		return nil, domain.Invalid("threshold", "no puede ser negativo")
	}
	list, err := uc.repo.ListBelowQuantity(ctx, limit)
	if err != nil {
		return nil, err
	}
	return dto.ItemsFromEntities(list), nil
}

// ListByStatus artículos en el estado dado.
func (uc *ItemUseCase) ListByStatus(ctx context.Context, status string) ([]dto.ItemResponse, error) {
	s := entity.ItemStatus(strings.ToUpper(status))
	if !s.Valid() {
		return nil, domain.Invalid("status", "debe ser AVAILABLE, OUT_OF_STOCK, DISCONTINUED o RESERVED")
	}
	list, err := uc.repo.ListByStatus(ctx, s)
	if err != nil {
		return nil, err
	}
	return dto.ItemsFromEntities(list), nil
}

func optionalRef(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

// ensureRefs verifica que la ubicación y el proveedor referenciados existan.
func ensureRefs(ctx context.Context, locations repository.LocationRepository, suppliers repository.SupplierRepository, locationID, supplierID *string) error {
	if locationID != nil {
		l, err := locations.GetByID(ctx, *locationID)
		if err != nil {
			return err
		}
		if l == nil {
			return domain.NotFound("location", *locationID)
		}
	}
	if supplierID != nil {
		s, err := suppliers.GetByID(ctx, *supplierID)
		if err != nil {
			return err
		}
		if s == nil {
			return domain.NotFound("supplier", *supplierID)
		}
	}
	return nil
}
