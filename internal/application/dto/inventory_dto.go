package dto

import "github.com/shopspring/decimal"

// CreateItemRequest body para POST /api/inventory/items.
type CreateItemRequest struct {
	Name              string          `json:"name"`
	Category          string          `json:"category,omitempty"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty"` // por defecto 5
}

// UpdateItemRequest body para PUT /api/inventory/items/:id. La cantidad no se edita aquí.
type UpdateItemRequest struct {
	Name              string          `json:"name"`
	Category          string          `json:"category,omitempty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	LowStockThreshold *int            `json:"low_stock_threshold,omitempty"`
}

// StockMovementRequest body para vender (SALIDA) o reabastecer (ENTRADA).
type StockMovementRequest struct {
	Quantity int    `json:"quantity"`
	Reason   string `json:"reason,omitempty"`
}

// ItemResponse artículo en respuestas.
type ItemResponse struct {
	ID                int64           `json:"id"`
	Name              string          `json:"name"`
	Category          string          `json:"category,omitempty"`
	Quantity          int             `json:"quantity"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	TotalValue        decimal.Decimal `json:"total_value"`
	RegistrationDate  string          `json:"registration_date"`
	LowStockThreshold int             `json:"low_stock_threshold"`
	LowStock          bool            `json:"low_stock"`
}

// MovementResponse movimiento de inventario.
type MovementResponse struct {
	ID            int64  `json:"id"`
	TransactionID string `json:"transaction_id"`
	ItemID        int64  `json:"item_id"`
	Type          string `json:"type"`
	Quantity      int    `json:"quantity"`
	Reason        string `json:"reason,omitempty"`
	CreatedAt     string `json:"created_at"`
}

// StockResultResponse resultado de una venta o reabastecimiento.
type StockResultResponse struct {
	Item     ItemResponse     `json:"item"`
	Movement MovementResponse `json:"movement"`
}

// InventoryValueResponse valor total del inventario.
type InventoryValueResponse struct {
	Items int             `json:"items"`
	Units int             `json:"units"`
	Total decimal.Decimal `json:"total"`
}

// AuditResponse conciliación entre la cantidad guardada y la bitácora de movimientos.
type AuditResponse struct {
	ItemID          int64 `json:"item_id"`
	InitialQuantity int   `json:"initial_quantity"`
	MovementsNet    int   `json:"movements_net"`
	Expected        int   `json:"expected"`
	Actual          int   `json:"actual"`
	Consistent      bool  `json:"consistent"`
}

// RestockSuggestionDTO sugerencia de reabastecimiento para un artículo con stock bajo.
type RestockSuggestionDTO struct {
	ItemID              int64           `json:"item_id"`
	Name                string          `json:"name"`
	Category            string          `json:"category,omitempty"`
	CurrentStock        int             `json:"current_stock"`
	LowStockThreshold   int             `json:"low_stock_threshold"`
	IdealStock          int             `json:"ideal_stock"`
	SuggestedQuantity   int             `json:"suggested_quantity"`
	UnitPrice           decimal.Decimal `json:"unit_price"`
	EstimatedCost       decimal.Decimal `json:"estimated_cost"`
	UnitsSoldLast90Days int             `json:"units_sold_last_90_days"`
	Priority            int             `json:"priority"`
}
