package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockReportRowDTO una línea del reporte de stock. TotalValue = UnitPrice × Quantity sin redondeo.
type StockReportRowDTO struct {
	ItemID       string          `json:"item_id"`
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Quantity     int64           `json:"quantity"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	TotalValue   decimal.Decimal `json:"total_value"`
	LocationName string          `json:"location_name"`
	SupplierName string          `json:"supplier_name"`
	Status       string          `json:"status"`
}

// StockReportDTO reporte de stock completo o por ubicación.
type StockReportDTO struct {
	GeneratedAt   time.Time           `json:"generated_at"`
	LocationID    string              `json:"location_id,omitempty"`
	LocationName  string              `json:"location_name,omitempty"`
	Rows          []StockReportRowDTO `json:"rows"`
	TotalQuantity int64               `json:"total_quantity"`
	TotalValue    decimal.Decimal     `json:"total_value"`
}

// ReconciliationDTO compara la cantidad en mano con la reconstruida desde los movimientos.
type ReconciliationDTO struct {
	ItemID           string `json:"item_id"`
	SKU              string `json:"sku"`
	OnHand           int64  `json:"on_hand"`
	Replayed         int64  `json:"replayed"`
	MovementCount    int    `json:"movement_count"`
	Reconciled       bool   `json:"reconciled"`
	FirstInvalidStep *int   `json:"first_invalid_step,omitempty"`
	Detail           string `json:"detail,omitempty"`
}
