package dto

import "github.com/jhoicas/inventory-manager/internal/domain/entity"

// ItemFromEntity mapea el artículo a su representación HTTP.
func ItemFromEntity(i *entity.Item) ItemResponse {
	return ItemResponse{
		ID:          i.ID,
		Name:        i.Name,
		Description: i.Description,
		SKU:         i.SKU,
		Quantity:    i.Quantity,
		UnitPrice:   i.UnitPrice,
		LocationID:  i.LocationID,
		SupplierID:  i.SupplierID,
		Status:      string(i.Status),
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

// ItemsFromEntities mapea una lista; nunca devuelve nil.
func ItemsFromEntities(list []*entity.Item) []ItemResponse {
	out := make([]ItemResponse, 0, len(list))
	for _, i := range list {
		out = append(out, ItemFromEntity(i))
	}
	return out
}

// MovementFromEntity mapea el movimiento a su representación HTTP.
func MovementFromEntity(m *entity.Movement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		ItemID:         m.ItemID,
		FromLocationID: m.FromLocationID,
		ToLocationID:   m.ToLocationID,
		Quantity:       m.Quantity,
		Type:           string(m.Type),
		Notes:          m.Notes,
		MovementDate:   m.MovementDate,
		PerformedBy:    m.PerformedBy,
	}
}

// MovementsFromEntities mapea una lista; nunca devuelve nil.
func MovementsFromEntities(list []*entity.Movement) []MovementResponse {
	out := make([]MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, MovementFromEntity(m))
	}
	return out
}

// LocationFromEntity mapea la ubicación con su conteo de artículos.
func LocationFromEntity(l *entity.Location, itemCount int64) LocationResponse {
	return LocationResponse{
		ID:        l.ID,
		Name:      l.Name,
		Address:   l.Address,
		Code:      l.Code,
		Type:      string(l.Type),
		ItemCount: itemCount,
		CreatedAt: l.CreatedAt,
	}
}

// SupplierFromEntity mapea el proveedor con su conteo de artículos.
func SupplierFromEntity(s *entity.Supplier, itemCount int64) SupplierResponse {
	return SupplierResponse{
		ID:            s.ID,
		Name:          s.Name,
		Email:         s.Email,
		Phone:         s.Phone,
		Address:       s.Address,
		ContactPerson: s.ContactPerson,
		TaxID:         s.TaxID,
		ItemCount:     itemCount,
		CreatedAt:     s.CreatedAt,
		UpdatedAt:     s.UpdatedAt,
	}
}
