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

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con db o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar db o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, name, phone, sex, birth_date, registration_date, active`

func scanClient(s rowScanner) (*entity.Client, error) {
	var (
		c      entity.Client
		birth  sql.NullString
		reg    string
		active int
	)
	if err := s.Scan(&c.ID, &c.Name, &c.Phone, &c.Sex, &birth, &reg, &active); err != nil {
		return nil, err
	}
	var err error
	if c.BirthDate, err = parseNullableDate(birth); err != nil {
		return nil, err
	}
	if c.RegistrationDate, err = parseDate(reg); err != nil {
		return nil, err
	}
	c.Active = active == 1
	return &c, nil
}

// Create persiste un nuevo cliente y asigna su ID.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO clients (name, phone, sex, birth_date, registration_date, active)
		VALUES (?, ?, ?, ?, ?, ?)`,
		c.Name, c.Phone, c.Sex, nullableDate(c.BirthDate), formatDate(c.RegistrationDate), boolToInt(c.Active),
	)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	if c.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert client id: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*entity.Client, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = ?`, id)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// FindActiveByPhone busca un cliente activo con el teléfono, ignorando excludeID.
func (r *ClientRepo) FindActiveByPhone(ctx context.Context, phone string, excludeID int64) (*entity.Client, error) {
	row := r.q.QueryRowContext(ctx, `
		SELECT `+clientColumns+` FROM clients
		WHERE phone = ? AND active = 1 AND id <> ?
		ORDER BY id LIMIT 1`, phone, excludeID)
	c, err := scanClient(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find client by phone: %w", err)
	}
	return c, nil
}

// List lista clientes ordenados por nombre.
func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	var (
		where []string
		args  []any
	)
	if f.OnlyActive {
		where = append(where, "active = 1")
	}
	if f.Search != "" {
		where = append(where, "(name LIKE ? OR phone LIKE ?)")
		args = append(args, likePattern(f.Search), likePattern(f.Search))
	}
	query := `SELECT ` + clientColumns + ` FROM clients`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY name COLLATE NOCASE, id"

	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list clients: %w", err)
	}
	defer rows.Close()
	var list []*entity.Client
	for rows.Next() {
		c, err := scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan client: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// Update actualiza los datos editables del cliente.
func (r *ClientRepo) Update(ctx context.Context, c *entity.Client) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE clients SET name = ?, phone = ?, sex = ?, birth_date = ?
		WHERE id = ?`,
		c.Name, c.Phone, c.Sex, nullableDate(c.BirthDate), c.ID,
	)
	if err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// SetActive cambia el flag de activo (borrado lógico).
func (r *ClientRepo) SetActive(ctx context.Context, id int64, active bool) error {
	if _, err := r.q.ExecContext(ctx, `UPDATE clients SET active = ? WHERE id = ?`, boolToInt(active), id); err != nil {
		return fmt.Errorf("set client active: %w", err)
	}
	return nil
}

// CountActiveBySex cuenta clientes activos agrupados por sexo.
func (r *ClientRepo) CountActiveBySex(ctx context.Context) (map[string]int, error) {
	rows, err := r.q.QueryContext(ctx, `SELECT sex, COUNT(*) FROM clients WHERE active = 1 GROUP BY sex`)
	if err != nil {
		return nil, fmt.Errorf("count clients by sex: %w", err)
	}
	defer rows.Close()
	out := make(map[string]int)
	for rows.Next() {
		var (
			sex string
			n   int
		)
		if err := rows.Scan(&sex, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		out[sex] = n
	}
	return out, rows.Err()
}
