package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo implementación de PaymentRepository sobre PostgreSQL.
type PaymentRepo struct {
	q Querier
}

// NewPaymentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewPaymentRepository(q Querier) *PaymentRepo {
	return &PaymentRepo{q: q}
}

const paymentSelect = `
	SELECT p.id, p.client_id, p.membership_id, p.date, p.amount, p.method, p.concept, c.name, c.phone
	FROM payments p
	JOIN clients c ON c.id = p.client_id`

func scanPayment(row pgx.Row) (*entity.Payment, error) {
	var p entity.Payment
	err := row.Scan(&p.ID, &p.ClientID, &p.MembershipID, &p.Date, &p.Amount, &p.Method, &p.Concept,
		&p.ClientName, &p.ClientPhone)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *PaymentRepo) query(ctx context.Context, query string, args ...any) ([]*entity.Payment, error) {
	rows, err := r.q.Query(ctx, query, args...)
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
	query := `
		INSERT INTO payments (client_id, membership_id, date, amount, method, concept)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		p.ClientID, p.MembershipID, p.Date, p.Amount, p.Method, p.Concept,
	).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert payment: %w", err)
	}
	return nil
}

// GetByID obtiene un pago con los datos del cliente.
func (r *PaymentRepo) GetByID(ctx context.Context, id int64) (*entity.Payment, error) {
	p, err := scanPayment(r.q.QueryRow(ctx, paymentSelect+` WHERE p.id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get payment: %w", err)
	}
	return p, nil
}

// List pagos filtrados, fecha descendente e id descendente.
func (r *PaymentRepo) List(ctx context.Context, f repository.PaymentFilter) ([]*entity.Payment, error) {
	var w whereBuilder
	if f.ClientID > 0 {
		w.add("p.client_id = ?", f.ClientID)
	}
	if f.From != nil {
		w.add("p.date >= ?", *f.From)
	}
	if f.To != nil {
		w.add("p.date <= ?", *f.To)
	}
	query := paymentSelect + w.sql() + ` ORDER BY p.date DESC, p.id DESC`
	if f.Limit > 0 {
		query += ` LIMIT ` + w.next(f.Limit)
	}
	return r.query(ctx, query, w.args...)
}

// ListAll todos los pagos ordenados por id.
func (r *PaymentRepo) ListAll(ctx context.Context) ([]*entity.Payment, error) {
	return r.query(ctx, paymentSelect+` ORDER BY p.id`)
}

// Update actualiza el pago.
func (r *PaymentRepo) Update(ctx context.Context, p *entity.Payment) error {
	query := `
		UPDATE payments
		SET client_id = $2, membership_id = $3, date = $4, amount = $5, method = $6, concept = $7
		WHERE id = $1`
	_, err := r.q.Exec(ctx, query, p.ID, p.ClientID, p.MembershipID, p.Date, p.Amount, p.Method, p.Concept)
	if err != nil {
		return fmt.Errorf("update payment: %w", err)
	}
	return nil
}

// Delete elimina el pago.
func (r *PaymentRepo) Delete(ctx context.Context, id int64) error {
	if _, err := r.q.Exec(ctx, `DELETE FROM payments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete payment: %w", err)
	}
	return nil
}
