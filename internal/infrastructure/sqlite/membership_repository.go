package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

var _ repository.MembershipRepository = (*MembershipRepo)(nil)

// MembershipRepo implementación de MembershipRepository.
type MembershipRepo struct {
	q Querier
}

// NewMembershipRepository construye el adaptador. Pasar db o tx (Querier).
func NewMembershipRepository(q Querier) *MembershipRepo {
	return &MembershipRepo{q: q}
}

const membershipSelect = `
	SELECT m.id, m.client_id, m.type, m.start_date, m.expiration_date, m.amount, m.payment_id,
	       c.name, c.phone
	FROM memberships m
	JOIN clients c ON c.id = m.client_id`

func scanMembership(s rowScanner) (*entity.Membership, error) {
	var (
		m          entity.Membership
		start, exp string
		paymentID  sql.NullInt64
	)
	if err := s.Scan(&m.ID, &m.ClientID, &m.Type, &start, &exp, &m.Amount, &paymentID, &m.ClientName, &m.ClientPhone); err != nil {
		return nil, err
	}
	var err error
	if m.StartDate, err = parseDate(start); err != nil {
		return nil, err
	}
	if m.ExpirationDate, err = parseDate(exp); err != nil {
		return nil, err
	}
	m.PaymentID = idPtr(paymentID)
	return &m, nil
}

func (r *MembershipRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Membership, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
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
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO memberships (client_id, type, start_date, expiration_date, amount, payment_id)
		VALUES (?, ?, ?, ?, ?, ?)`,
		m.ClientID, m.Type, formatDate(m.StartDate), formatDate(m.ExpirationDate), m.Amount, nullableID(m.PaymentID),
	)
	if err != nil {
		return fmt.Errorf("insert membership: %w", err)
	}
	if m.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert membership id: %w", err)
	}
	return nil
}

// GetByID obtiene una membresía con los datos del cliente.
func (r *MembershipRepo) GetByID(ctx context.Context, id int64) (*entity.Membership, error) {
	m, err := scanMembership(r.q.QueryRowContext(ctx, membershipSelect+` WHERE m.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get membership: %w", err)
	}
	return m, nil
}

// ListForActiveClients membresías de clientes activos, vencimiento descendente.
func (r *MembershipRepo) ListForActiveClients(ctx context.Context, clientID int64) ([]*entity.Membership, error) {
	if clientID > 0 {
		return r.query(ctx, membershipSelect+`
			WHERE c.active = 1 AND m.client_id = ?
			ORDER BY m.expiration_date DESC, m.id DESC`, clientID)
	}
	return r.query(ctx, membershipSelect+`
		WHERE c.active = 1
		ORDER BY m.expiration_date DESC, m.id DESC`)
}

// ListAll todas las membresías (incluye clientes inactivos) ordenadas por id.
func (r *MembershipRepo) ListAll(ctx context.Context) ([]*entity.Membership, error) {
	return r.query(ctx, membershipSelect+` ORDER BY m.id`)
}

// Update actualiza la membresía.
func (r *MembershipRepo) Update(ctx context.Context, m *entity.Membership) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE memberships
		SET client_id = ?, type = ?, start_date = ?, expiration_date = ?, amount = ?, payment_id = ?
		WHERE id = ?`,
		m.ClientID, m.Type, formatDate(m.StartDate), formatDate(m.ExpirationDate), m.Amount, nullableID(m.PaymentID), m.ID,
	)
	if err != nil {
		return fmt.Errorf("update membership: %w", err)
	}
	return nil
}

// Delete elimina la membresía (los pagos que la referencian quedan con membership_id NULL).
func (r *MembershipRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM memberships WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete membership: %w", err)
	}
	return nil
}
