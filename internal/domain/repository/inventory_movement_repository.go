package repository

import (
	"context"

	"github.com/jhoicas/kyogym/internal/domain/entity"
)

// InventoryMovementRepository bitácora de movimientos (solo inserción y lectura).
type InventoryMovementRepository interface {
	Create(ctx context.Context, movement *entity.InventoryMovement) error
	// ListByItem movimientos más recientes primero. limit <= 0 = sin límite.
	ListByItem(ctx context.Context, itemID int64, limit int) ([]*entity.InventoryMovement, error)
	// SumSigned suma ENTRADA - SALIDA para el artículo.
	SumSigned(ctx context.Context, itemID int64) (int, error)
}
