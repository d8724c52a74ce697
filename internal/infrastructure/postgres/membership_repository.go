package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo implementación de MembershipRepository sobre PostgreSQL.
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

const membershipSelect = `
	SELECT m.id, m.client_id, m.type, m.start_date, m.expiration_date, m.amount, m.payment_id,
	       c.name, c.phone
	FROM memberships m
	JOIN clients c ON c.id = m.client_id`

func scanMembership(row pgx.Row) (*entity.Membership, error) {
	var m entity.Membership
	err := row.Scan(&m.ID, &m.ClientID, &m.Type, &m.StartDate, &m.ExpirationDate, &m.Amount, &m.PaymentID,
		&m.ClientName, &m.ClientPhone)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *MembershipRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Membership, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list memberships: %w", err)
	}
	defer rows.Close()
	var list []*entity.Membership
	for rows.Next() {
		m, err := scanMembership(rows)
		if err != nil {
			return nil, fmt.Errorf("scan membership: %w", err)
		}
		list = append(list, m)
	}
	return list, rows.Err()
}

// Create persiste una membresía y asigna su ID.
func (r *MembershipRepo) Create(ctx context.Context, m *entity.Membership) error {
	query := `
		INSERT INTO memberships (client_id, type, start_date, expiration_date, amount, payment_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		m.ClientID, m.Type, m.StartDate, m.ExpirationDate, m.Amount, m.PaymentID,
	).Scan(&m.ID)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	return nil
}

// GetByID obtiene una membresía con los datos del cliente.
func (r *MembershipRepo) GetByID(ctx context.Context, id int64) (*entity.Membership, error) {
	m, err := scanMembership(r.q.QueryRow(ctx, membershipSelect+` WHERE m.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

// ListForActiveClients membresías de clientes activos, vencimiento descendente.
func (r *MembershipRepo) ListForActiveClients(ctx context.Context, clientID int64) ([]*entity.Membership, error) {
	var w whereBuilder
	w.add("c.active")
	if clientID > 0 {
		w.add("m.client_id = ?", clientID)
	}
	return r.query(ctx, membershipSelect+w.sql()+` ORDER BY m.expiration_date DESC, m.id DESC`, w.args...)
}

// ListAll todas las membresías ordenadas por id.
func (r *MembershipRepo) ListAll(ctx context.Context) ([]*entity.Membership, error) {
	return r.query(ctx, membershipSelect+` ORDER BY m.id`)
}

// Update actualiza la membresía.
func (r *MembershipRepo) Update(ctx context.Context, m *entity.Membership) error {
	query := `
		UPDATE memberships
		SET client_id = $2, type = $3, start_date = $4, expiration_date = $5, amount = $6, payment_id = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, m.ID, m.ClientID, m.Type, m.StartDate, m.ExpirationDate, m.Amount, m.PaymentID)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	return nil
}

// Delete elimina la membresía.
func (r *MembershipRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM memberships WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return nil
}
