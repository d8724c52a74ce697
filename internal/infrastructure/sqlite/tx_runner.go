package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/kyogym/internal/application/inventory"
	"github.com/jhoicas/kyogym/internal/application/registry"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

var (
	_ inventory.TxRunner = (*TxRunner)(nil)
	_ registry.TxRunner  = (*TxRunner)(nil)
)

// TxRunner ejecuta callbacks dentro de una transacción SQLite.
// Con una sola conexión abierta, los repositorios del pool no deben usarse dentro de fn.
type TxRunner struct {
	db *sql.DB
}

// NewTxRunner construye el runner con la base.
func NewTxRunner(db *sql.DB) *TxRunner {
	return &TxRunner{db: db}
}

func (r *TxRunner) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Run inicia una transacción con los repositorios de inventario.
func (r *TxRunner) Run(ctx context.Context, fn func(
	movRepo repository.InventoryMovementRepository,
	itemRepo repository.InventoryItemRepository,
) error) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return fn(NewInventoryMovementRepository(tx), NewInventoryItemRepository(tx))
	})
}

// RunRegistry inicia una transacción con los repositorios de clientes, membresías y pagos.
func (r *TxRunner) RunRegistry(ctx context.Context, fn func(
	clientRepo repository.ClientRepository,
	membershipRepo repository.MembershipRepository,
	paymentRepo repository.PaymentRepository,
) error) error {
	return r.inTx(ctx, func(tx *sql.Tx) error {
		return fn(NewClientRepository(tx), NewMembershipRepository(tx), NewPaymentRepository(tx))
	})
}
