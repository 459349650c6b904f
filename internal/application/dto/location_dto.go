package dto

import "time"

// CreateLocationRequest entrada para crear una ubicación. Type por defecto WAREHOUSE.
type CreateLocationRequest struct {
	Name    string `json:"name" validate:"required,notblank,min=2,max=100"`
	Address string `json:"address" validate:"max=200"`
	Code    string `json:"code" validate:"required,loccode"`
	Type    string `json:"type" validate:"omitempty,oneof=WAREHOUSE STORE OFFICE STORAGE"`
}

// UpdateLocationRequest entrada para actualizar una ubicación.
type UpdateLocationRequest struct {
	Name    *string `json:"name" validate:"omitempty,notblank,min=2,max=100"`
	Address *string `json:"address" validate:"omitempty,max=200"`
	Code    *string `json:"code" validate:"omitempty,loccode"`
	Type    *string `json:"type" validate:"omitempty,oneof=WAREHOUSE STORE OFFICE STORAGE"`
}

// LocationResponse salida de una ubicación. ItemCount se calcula al consultar.
type LocationResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	Code      string    `json:"code"`
	Type      string    `json:"type"`
	ItemCount int64     `json:"item_count"`
	CreatedAt time.Time `json:"created_at"`
}

// LocationListResponse lista paginada de ubicaciones.
type LocationListResponse struct {
	Items []LocationResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
