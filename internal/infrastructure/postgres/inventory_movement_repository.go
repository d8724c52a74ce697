package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación sobre PostgreSQL (usable con pool o tx).
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento de inventario.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	query := `
		INSERT INTO inventory_movements (transaction_id, item_id, type, quantity, reason, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.TransactionID, m.ItemID, m.Type, m.Quantity, m.Reason, m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("create inventory movement: %w", err)
	}
	return nil
}

// ListByItem movimientos del artículo, más recientes primero. limit <= 0 = sin límite.
func (r *InventoryMovementRepo) ListByItem(ctx context.Context, itemID int64, limit int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, transaction_id::text, item_id, type, quantity, reason, created_at
		FROM inventory_movements WHERE item_id = $1
		ORDER BY id DESC`
	args := []any{itemID}
	if limit > 0 {
		query += ` LIMIT $2`
		args = append(args, limit)
	}
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var m entity.InventoryMovement
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ItemID, &m.Type, &m.Quantity, &m.Reason, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan inventory movement: %w", err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumSigned suma ENTRADA y resta SALIDA para el artículo.
func (r *InventoryMovementRepo) SumSigned(ctx context.Context, itemID int64) (int, error) {
	var total int
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = $2 THEN -quantity ELSE quantity END), 0)::int
		FROM inventory_movements WHERE item_id = $1`, itemID, entity.MovementTypeOut).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum inventory movements: %w", err)
	}
	return total, nil
}
