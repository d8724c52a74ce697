package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold stock mínimo cuando el artículo no define uno.
const DefaultLowStockThreshold = 5

// InventoryItem representa un artículo del inventario (suplementos, accesorios, bebidas...).
// Quantity solo cambia mediante movimientos ENTRADA/SALIDA.
type InventoryItem struct {
	ID                int64
	Name              string
	Category          string
	Quantity          int
	InitialQuantity   int
	UnitPrice         decimal.Decimal
	RegistrationDate  time.Time
	LowStockThreshold int
}

// IsLowStock reporta si la cantidad está en o por debajo del stock mínimo.
func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.LowStockThreshold
}

// Value devuelve cantidad × precio unitario.
func (i *InventoryItem) Value() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
