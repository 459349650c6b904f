package dto

// CatalogItemDTO artículo de un catálogo de carga. Las referencias van por código de ubicación y NIT del proveedor.
type CatalogItemDTO struct {
	Request       CreateItemRequest
	LocationCode  string
	SupplierTaxID string
}

// CatalogDTO contenido de un archivo de carga inicial.
type CatalogDTO struct {
	Locations []CreateLocationRequest
	Suppliers []CreateSupplierRequest
	Items     []CatalogItemDTO
}

// CatalogImportResult resumen de una importación. Los registros existentes se omiten.
type CatalogImportResult struct {
	LocationsCreated int      `json:"locations_created"`
	SuppliersCreated int      `json:"suppliers_created"`
	ItemsCreated     int      `json:"items_created"`
	Skipped          []string `json:"skipped"`
}
