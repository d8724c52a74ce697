package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

var _ repository.ClientRepository = (*ClientRepo)(nil)

// ClientRepo implementación de ClientRepository (usable con pool o tx).
type ClientRepo struct {
	q Querier
}

// NewClientRepository construye el adaptador. Pasar pool o tx (Querier).
func NewClientRepository(q Querier) *ClientRepo {
	return &ClientRepo{q: q}
}

const clientColumns = `id, name, phone, sex, birth_date, registration_date, active`

func scanClient(row pgx.Row) (*entity.Client, error) {
	var c entity.Client
	if err := row.Scan(&c.ID, &c.Name, &c.Phone, &c.Sex, &c.BirthDate, &c.RegistrationDate, &c.Active); err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente y asigna su ID.
func (r *ClientRepo) Create(ctx context.Context, c *entity.Client) error {
	query := `
		INSERT INTO clients (name, phone, sex, birth_date, registration_date, active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		c.Name, c.Phone, c.Sex, c.BirthDate, c.RegistrationDate, c.Active,
	).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert client: %w", err)
	}
	return nil
}

// GetByID obtiene un cliente por ID.
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*entity.Client, error) {
	c, err := scanClient(r.q.QueryRow(ctx, `SELECT `+clientColumns+` FROM clients WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get client: %w", err)
	}
	return c, nil
}

// FindActiveByPhone busca un cliente activo con el teléfono, ignorando excludeID.
func (r *ClientRepo) FindActiveByPhone(ctx context.Context, phone string, excludeID int64) (*entity.Client, error) {
	query := `
		SELECT ` + clientColumns + ` FROM clients
		WHERE phone = $1 AND active AND id <> $2
		ORDER BY id LIMIT 1`
	c, err := scanClient(r.q.QueryRow(ctx, query, phone, excludeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find client by phone: %w", err)
	}
	return c, nil
}

// List lista clientes ordenados por nombre.
func (r *ClientRepo) List(ctx context.Context, f repository.ClientFilter) ([]*entity.Client, error) {
	var w whereBuilder
	if f.OnlyActive {
		w.add("active")
	}
	if f.Search != "" {
		w.add("(name ILIKE ? OR phone ILIKE ?)", likePattern(f.Search), likePattern(f.Search))
	}
	query := `SELECT ` + clientColumns + ` FROM clients` + w.sql() + ` ORDER BY lower(name), id`
	rows, err := r.q.Query(ctx, query, w.args...)
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
	query := `
		UPDATE clients SET name = $2, phone = $3, sex = $4, birth_date = $5
		WHERE id = $1`
	if _, err := r.q.Exec(ctx, query, c.ID, c.Name, c.Phone, c.Sex, c.BirthDate); err != nil {
		return fmt.Errorf("update client: %w", err)
	}
	return nil
}

// SetActive cambia el flag de activo (borrado lógico).
func (r *ClientRepo) SetActive(ctx context.Context, id int64, active bool) error {
	if _, err := r.q.Exec(ctx, `UPDATE clients SET active = $2 WHERE id = $1`, id, active); err != nil {
		return fmt.Errorf("set client active: %w", err)
	}
	return nil
}

// CountActiveBySex cuenta clientes activos agrupados por sexo.
func (r *ClientRepo) CountActiveBySex(ctx context.Context) (map[string]int, error) {
	rows, err := r.q.Query(ctx, `SELECT sex, COUNT(*) FROM clients WHERE active GROUP BY sex`)
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
