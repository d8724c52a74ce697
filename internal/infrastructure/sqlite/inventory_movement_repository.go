package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

var _ repository.InventoryMovementRepository = (*InventoryMovementRepo)(nil)

// InventoryMovementRepo implementación de InventoryMovementRepository.
type InventoryMovementRepo struct {
	q Querier
}

// NewInventoryMovementRepository construye el adaptador. Pasar db o tx (Querier).
func NewInventoryMovementRepository(q Querier) *InventoryMovementRepo {
	return &InventoryMovementRepo{q: q}
}

// Create persiste un movimiento y asigna su ID.
func (r *InventoryMovementRepo) Create(ctx context.Context, m *entity.InventoryMovement) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO inventory_movements (transaction_id, item_id, type, quantity, reason, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.TransactionID, m.ItemID, m.Type, m.Quantity, m.Reason, m.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert movement: %w", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert movement id: %w", err)
	}
	return nil
}

// ListByItem movimientos del artículo, más recientes primero.
func (r *InventoryMovementRepo) ListByItem(ctx context.Context, itemID int64, limit int) ([]*entity.InventoryMovement, error) {
	query := `
		SELECT id, transaction_id, item_id, type, quantity, reason, created_at
		FROM inventory_movements WHERE item_id = ?
		ORDER BY id DESC`
	args := []any{itemID}
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list movements: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryMovement
	for rows.Next() {
		var (
			m       entity.InventoryMovement
			created string
		)
		if err := rows.Scan(&m.ID, &m.TransactionID, &m.ItemID, &m.Type, &m.Quantity, &m.Reason, &created); err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		if m.CreatedAt, err = time.Parse(time.RFC3339, created); err != nil {
			return nil, fmt.Errorf("movement created_at %q: %w", created, err)
		}
		list = append(list, &m)
	}
	return list, rows.Err()
}

// SumSigned suma ENTRADA y resta SALIDA para el artículo.
func (r *InventoryMovementRepo) SumSigned(ctx context.Context, itemID int64) (int, error) {
	var total int
	err := r.q.QueryRowContext(ctx, `
		SELECT COALESCE(SUM(CASE WHEN type = ? THEN -quantity ELSE quantity END), 0)
		FROM inventory_movements WHERE item_id = ?`, entity.MovementTypeOut, itemID).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("sum movements: %w", err)
	}
	return total, nil
}
