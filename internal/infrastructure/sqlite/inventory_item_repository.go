package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación de InventoryItemRepository.
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar db o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `id, name, category, quantity, initial_quantity, unit_price, registration_date, low_stock_threshold`

func scanItem(s rowScanner) (*entity.InventoryItem, error) {
	var (
		i   entity.InventoryItem
		reg string
	)
	if err := s.Scan(&i.ID, &i.Name, &i.Category, &i.Quantity, &i.InitialQuantity, &i.UnitPrice, &reg, &i.LowStockThreshold); err != nil {
		return nil, err
	}
	var err error
	if i.RegistrationDate, err = parseDate(reg); err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InventoryItemRepo) query(ctx context.Context, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list inventory items: %w", err)
	}
	defer rows.Close()
	var list []*entity.InventoryItem
	for rows.Next() {
		i, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan inventory item: %w", err)
		}
		list = append(list, i)
	}
	return list, rows.Err()
}

// Create persiste un artículo y asigna su ID.
func (r *InventoryItemRepo) Create(ctx context.Context, i *entity.InventoryItem) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO inventory_items (name, category, quantity, initial_quantity, unit_price, registration_date, low_stock_threshold)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		i.Name, i.Category, i.Quantity, i.InitialQuantity, i.UnitPrice, formatDate(i.RegistrationDate), i.LowStockThreshold,
	)
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	if i.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert inventory item id: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	i, err := scanItem(r.q.QueryRowContext(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return i, nil
}

// List lista artículos ordenados por nombre.
func (r *InventoryItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var (
		where []string
		args  []any
	)
	if f.Search != "" {
		where = append(where, "(name LIKE ? OR category LIKE ?)")
		args = append(args, likePattern(f.Search), likePattern(f.Search))
	}
	if f.Category != "" {
		where = append(where, "category = ?")
		args = append(args, f.Category)
	}
	query := `SELECT ` + itemColumns + ` FROM inventory_items`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name COLLATE NOCASE, id"
	return r.query(ctx, query, args...)
}

// ListLowStock artículos en o bajo su stock mínimo, cantidad ascendente.
func (r *InventoryItemRepo) ListLowStock(ctx context.Context) ([]*entity.InventoryItem, error) {
	return r.query(ctx, `
		SELECT `+itemColumns+` FROM inventory_items
		WHERE quantity <= low_stock_threshold
		ORDER BY quantity, name COLLATE NOCASE, id`)
}

// Update actualiza datos descriptivos; la cantidad no se toca.
func (r *InventoryItemRepo) Update(ctx context.Context, i *entity.InventoryItem) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE inventory_items SET name = ?, category = ?, unit_price = ?, low_stock_threshold = ?
		WHERE id = ?`,
		i.Name, i.Category, i.UnitPrice, i.LowStockThreshold, i.ID,
	)
	if err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	return nil
}

// Delete elimina el artículo y, por cascada, sus movimientos.
func (r *InventoryItemRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM inventory_items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}

// DecrementStock resta qty solo si la cantidad actual alcanza.
func (r *InventoryItemRepo) DecrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	res, err := r.q.ExecContext(ctx, `
		UPDATE inventory_items SET quantity = quantity - ?
		WHERE id = ? AND quantity >= ?`, qty, id, qty)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return affectedOne(res)
}

// IncrementStock suma qty a la cantidad.
func (r *InventoryItemRepo) IncrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	res, err := r.q.ExecContext(ctx, `UPDATE inventory_items SET quantity = quantity + ? WHERE id = ?`, qty, id)
	if err != nil {
		return false, fmt.Errorf("increment stock: %w", err)
	}
	return affectedOne(res)
}

func affectedOne(res sql.Result) (bool, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return n == 1, nil
}
