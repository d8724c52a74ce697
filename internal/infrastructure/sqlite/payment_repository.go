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

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar db o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentSelect = `
	SELECT p.id, p.client_id, p.membership_id, p.date, p.amount, p.method, p.concept, c.name, c.phone
	FROM payments p
	JOIN clients c ON c.id = p.client_id`

func scanPayment(s rowScanner) (*entity.Payment, error) {
	var (
		p            entity.Payment
		membershipID sql.NullInt64
		date         string
	)
	if err := s.Scan(&p.ID, &p.ClientID, &membershipID, &date, &p.Amount, &p.Method, &p.Concept, &p.ClientName, &p.ClientPhone); err != nil {
		return nil, err
	}
	var err error
	if p.Date, err = parseDate(date); err != nil {
		return nil, err
	}
	p.MembershipID = idPtr(membershipID)
	return &p, nil
}

func (r *PaymentRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list payments: %w", err)
	}
	defer rows.Close()
	var list []*entity.Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan payment: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// Create persiste un pago y asigna su ID.
func (r *PaymentRepo) Create(ctx context.Context, p *entity.Payment) error {
	res, err := r.q.ExecContext(ctx, `
		INSERT INTO payments (client_id, membership_id, date, amount, method, concept)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.ClientID, nullableID(p.MembershipID), formatDate(p.Date), p.Amount, p.Method, p.Concept,
	)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	if p.ID, err = res.LastInsertId(); err != nil {
		return fmt.Errorf("insert payment id: %w", err)
	}
	return nil
}

// GetByID obtiene un pago con los datos del cliente.
func (r *PaymentRepo) GetByID(ctx context.Context, id int64) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRowContext(ctx, paymentSelect+` WHERE p.id = ?`, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// List pagos filtrados, fecha descendente e id descendente.
func (r *PaymentRepo) List(ctx context.Context, f repository.PaymentFilter) ([]*entity.Payment, error) {
	var (
		where []string
		args  []any
	)
	if f.ClientID > 0 {
		where = append(where, "p.client_id = ?")
		args = append(args, f.ClientID)
	}
	if f.From != nil {
		where = append(where, "p.date >= ?")
		args = append(args, formatDate(*f.From))
	}
	if f.To != nil {
		where = append(where, "p.date <= ?")
		args = append(args, formatDate(*f.To))
	}
	query := paymentSelect
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY p.date DESC, p.id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}
	return r.query(ctx, query, args...)
}

// ListAll todos los pagos ordenados por id.
func (r *PaymentRepo) ListAll(ctx context.Context) ([]*entity.Payment, error) {
	return r.query(ctx, paymentSelect+` ORDER BY p.id`)
}

// Update actualiza el pago.
func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	_, err := r.q.ExecContext(ctx, `
		UPDATE payments
		SET client_id = ?, membership_id = ?, date = ?, amount = ?, method = ?, concept = ?
		WHERE id = ?`,
		p.ClientID, nullableID(p.MembershipID), formatDate(p.Date), p.Amount, p.Method, p.Concept, p.ID,
	)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

// Delete elimina el pago (las membresías que lo referencian quedan con payment_id NULL).
func (r *PaymentRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.ExecContext(ctx, `DELETE FROM payments WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}
