package entity

import "time"

// Tipos de movimiento de inventario.
const (
	MovementTypeIn  = "ENTRADA"
	MovementTypeOut = "SALIDA"
)

// InventoryMovement registro inmutable de una entrada o salida de stock.
// Quantity siempre es positiva; el signo lo da Type.
type InventoryMovement struct {
	ID            int64
	TransactionID string
	ItemID        int64
	Type          string
	Quantity      int
	Reason        string
	CreatedAt     time.Time
}

// Signed devuelve la cantidad con signo (+ entrada, - salida).
func (m *InventoryMovement) Signed() int {
	if m.Type == MovementTypeOut {
		return -m.Quantity
	}
	return m.Quantity
}
