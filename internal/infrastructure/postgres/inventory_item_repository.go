package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

var _ repository.InventoryItemRepository = (*InventoryItemRepo)(nil)

// InventoryItemRepo implementación de InventoryItemRepository sobre PostgreSQL.
type InventoryItemRepo struct {
	q Querier
}

// NewInventoryItemRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInventoryItemRepository(q Querier) *InventoryItemRepo {
	return &InventoryItemRepo{q: q}
}

const itemColumns = `id, name, category, quantity, initial_quantity, unit_price, registration_date, low_stock_threshold`

func scanItem(row pgx.Row) (*entity.InventoryItem, error) {
	var i entity.InventoryItem
	err := row.Scan(&i.ID, &i.Name, &i.Category, &i.Quantity, &i.InitialQuantity, &i.UnitPrice,
		&i.RegistrationDate, &i.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *InventoryItemRepo) query(ctx context.Context, query string, args ...any) ([]*entity.InventoryItem, error) {
	rows, err := r.q.Query(ctx, query, args...)
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
	query := `
		INSERT INTO inventory_items (name, category, quantity, initial_quantity, unit_price, registration_date, low_stock_threshold)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		i.Name, i.Category, i.Quantity, i.InitialQuantity, i.UnitPrice, i.RegistrationDate, i.LowStockThreshold,
	).Scan(&i.ID)
	if err != nil {
		return fmt.Errorf("insert inventory item: %w", err)
	}
	return nil
}

// GetByID obtiene un artículo por ID.
func (r *InventoryItemRepo) GetByID(ctx context.Context, id int64) (*entity.InventoryItem, error) {
	i, err := scanItem(r.q.QueryRow(ctx, `SELECT `+itemColumns+` FROM inventory_items WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get inventory item: %w", err)
	}
	return i, nil
}

// List lista artículos ordenados por nombre.
func (r *InventoryItemRepo) List(ctx context.Context, f repository.ItemFilter) ([]*entity.InventoryItem, error) {
	var w whereBuilder
	if f.Search != "" {
		w.add("(name ILIKE ? OR category ILIKE ?)", likePattern(f.Search), likePattern(f.Search))
	}
	if f.Category != "" {
		w.add("category = ?", f.Category)
	}
	return r.query(ctx, `SELECT `+itemColumns+` FROM inventory_items`+w.sql()+` ORDER BY lower(name), id`, w.args...)
}

// ListLowStock artículos en o bajo su stock mínimo, cantidad ascendente.
func (r *InventoryItemRepo) ListLowStock(ctx context.Context) ([]*entity.InventoryItem, error) {
	return r.query(ctx, `
		SELECT `+itemColumns+` FROM inventory_items
		WHERE quantity <= low_stock_threshold
		ORDER BY quantity, lower(name), id`)
}

// Update actualiza datos descriptivos; la cantidad no se toca.
func (r *InventoryItemRepo) Update(ctx context.Context, i *entity.InventoryItem) error {
	query := `
		UPDATE inventory_items SET name = $2, category = $3, unit_price = $4, low_stock_threshold = $5
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, i.ID, i.Name, i.Category, i.UnitPrice, i.LowStockThreshold); err != nil {
		return fmt.Errorf("update inventory item: %w", err)
	}
	return nil
}

// Delete elimina el artículo y, por cascada, sus movimientos.
func (r *InventoryItemRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM inventory_items WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete inventory item: %w", err)
	}
	return nil
}

// DecrementStock resta qty solo si la cantidad actual alcanza (una sola sentencia, sin carrera).
func (r *InventoryItemRepo) DecrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE inventory_items SET quantity = quantity - $2
		WHERE id = $1 AND quantity >= $2`, id, qty)
	if err != nil {
		return false, fmt.Errorf("decrement stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// IncrementStock suma qty a la cantidad.
func (r *InventoryItemRepo) IncrementStock(ctx context.Context, id int64, qty int) (bool, error) {
	tag, err := r.q.Exec(ctx, `UPDATE inventory_items SET quantity = quantity + $2 WHERE id = $1`, id, qty)
	if err != nil {
		return false, fmt.Errorf("increment stock: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
