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

// SupplierUseCase casos de uso CRUD para proveedores.
type SupplierUseCase struct {
	repo     repository.SupplierRepository
	itemRepo repository.ItemRepository
}

// NewSupplierUseCase construye el caso de uso.
func NewSupplierUseCase(repo repository.SupplierRepository, itemRepo repository.ItemRepository) *SupplierUseCase {
	return &SupplierUseCase{repo: repo, itemRepo: itemRepo}
}

// Create crea un nuevo proveedor. El NIT, si viene, debe ser único.
func (uc *SupplierUseCase) Create(ctx context.Context, in dto.CreateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	taxID := strings.TrimSpace(in.TaxID)
	if err := uc.ensureTaxIDFree(ctx, "", taxID); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	supplier := &entity.Supplier{
		ID:            uuid.New().String(),
		Name:          strings.TrimSpace(in.Name),
		Email:         in.Email,
		Phone:         in.Phone,
		Address:       in.Address,
		ContactPerson: in.ContactPerson,
		TaxID:         taxID,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.repo.Create(ctx, supplier); err != nil {
		return nil, err
	}
	out := dto.SupplierFromEntity(supplier, 0)
	return &out, nil
}

// GetByID obtiene un proveedor con su conteo de artículos.
func (uc *SupplierUseCase) GetByID(ctx context.Context, id string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.NotFound("supplier", id)
	}
	return uc.withCount(ctx, supplier)
}

// GetByTaxID obtiene un proveedor por su NIT.
func (uc *SupplierUseCase) GetByTaxID(ctx context.Context, taxID string) (*dto.SupplierResponse, error) {
	supplier, err := uc.repo.GetByTaxID(ctx, taxID)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.NotFound("supplier", taxID)
	}
	return uc.withCount(ctx, supplier)
}

// Update actualiza un proveedor.
func (uc *SupplierUseCase) Update(ctx context.Context, id string, in dto.UpdateSupplierRequest) (*dto.SupplierResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	supplier, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if supplier == nil {
		return nil, domain.NotFound("supplier", id)
	}
	if in.TaxID != nil {
		taxID := strings.TrimSpace(*in.TaxID)
		if taxID != supplier.TaxID {
			if err := uc.ensureTaxIDFree(ctx, id, taxID); err != nil {
				return nil, err
			}
		}
		supplier.TaxID = taxID
	}
	if in.Name != nil {
		supplier.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		supplier.Email = *in.Email
	}
	if in.Phone != nil {
		supplier.Phone = *in.Phone
	}
	if in.Address != nil {
		supplier.Address = *in.Address
	}
	if in.ContactPerson != nil {
		supplier.ContactPerson = *in.ContactPerson
	}
	supplier.UpdatedAt = time.Now().UTC()
	if err := uc.repo.Update(ctx, supplier); err != nil {
		return nil, err
	}
	return uc.withCount(ctx, supplier)
}

// List lista proveedores con paginación.
func (uc *SupplierUseCase) List(ctx context.Context, page dto.PageRequest) (*dto.SupplierListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.List(ctx, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.SupplierResponse, 0, len(list))
	for _, s := range list {
		out, err := uc.withCount(ctx, s)
		if err != nil {
			return nil, err
		}
		items = append(items, *out)
	}
	return &dto.SupplierListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}, nil
}

// ListItems artículos asociados al proveedor.
func (uc *SupplierUseCase) ListItems(ctx context.Context, id string) ([]dto.ItemResponse, error) {
	if _, err := uc.GetByID(ctx, id); err != nil {
		return nil, err
	}
	list, err := uc.itemRepo.ListBySupplier(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.ItemsFromEntities(list), nil
}

// Delete elimina un proveedor. Conflict mientras algún artículo lo referencie.
func (uc *SupplierUseCase) Delete(ctx context.Context, id string) error {
	return uc.repo.Delete(ctx, id)
}

func (uc *SupplierUseCase) ensureTaxIDFree(ctx context.Context, selfID, taxID string) error {
	if taxID == "" {
		return nil
	}
	other, err := uc.repo.GetByTaxID(ctx, taxID)
	if err != nil {
		return err
	}
	if other != nil && other.ID != selfID {
		return domain.Conflict("supplier", "tax_id", "ya existe un proveedor con el NIT "+taxID)
	}
	return nil
}

func (uc *SupplierUseCase) withCount(ctx context.Context, s *entity.Supplier) (*dto.SupplierResponse, error) {
	n, err := uc.itemRepo.CountBySupplier(ctx, s.ID)
	if err != nil {
		return nil, err
	}
	out := dto.SupplierFromEntity(s, n)
	return &out, nil
}
