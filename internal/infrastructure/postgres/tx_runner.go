package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/kyogym/internal/application/inventory"
	"github.com/jhoicas/kyogym/internal/application/registry"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

// Ensure TxRunner implements inventory.TxRunner and registry.TxRunner.
var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ registry.TxRunner  = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run inicia una transacción, ejecuta fn con repos de inventario atados a la tx y hace Commit o Rollback.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewInventoryMovementRepository(tx), NewInventoryItemRepository(tx))
	})
}

// RunRegistry inicia una transacción con repos de clientes, membresías y pagos.
func (r *TxRunner) RunRegistry(ctx context.Context, fn func(
	clientRepo repository.ClientRepository,
	membershipRepo repository.MembershipRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return r.inTx(ctx, func(tx pgx.Tx) error {
		return fn(NewClientRepository(tx), NewMembershipRepository(tx), NewPaymentRepository(tx))
	})
}
