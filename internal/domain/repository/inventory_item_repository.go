package repository

import (
	"context"

	"github.com/jhoicas/kyogym/internal/domain/entity"
)

// ItemFilter filtros para listar artículos.
type ItemFilter struct {
	Search   string // nombre o categoría
	Category string
}

// InventoryItemRepository define el puerto de persistencia para InventoryItem.
// Las cantidades solo se modifican con IncrementStock/DecrementStock.
type InventoryItemRepository interface {
	Create(ctx context.Context, item *entity.InventoryItem) error
	GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error)
	List(ctx context.Context, f ItemFilter) ([]*entity.InventoryItem, error)
	// ListLowStock artículos con quantity <= stock mínimo, cantidad ascendente.
	ListLowStock(ctx context.Context) ([]*entity.InventoryItem, error)
	// Update modifica nombre, categoría, precio y stock mínimo (nunca la cantidad).
	Update(ctx context.Context, item *entity.InventoryItem) error
	Delete(ctx context.Context, id int64) error
	// DecrementStock resta qty solo si hay stock suficiente, en una única sentencia.
	// ok=false si el artículo no existe o no alcanza el stock.
	DecrementStock(ctx context.Context, id int64, qty int) (ok bool, err error)
	IncrementStock(ctx context.Context, id int64, qty int) (ok bool, err error)
}
