// Package storage abre el almacén configurado (SQLite o PostgreSQL) y expone sus repositorios.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jhoicas/kyogym/internal/application/inventory"
	"github.com/jhoicas/kyogym/internal/application/registry"
	"github.com/jhoicas/kyogym/internal/domain/repository"
	"github.com/jhoicas/kyogym/internal/infrastructure/migrations"
	"github.com/jhoicas/kyogym/internal/infrastructure/postgres"
	"github.com/jhoicas/kyogym/internal/infrastructure/sqlite"
	"github.com/jhoicas/kyogym/pkg/config"
)

// TxRunner lo implementan los TxRunner de ambos drivers.
type TxRunner interface {
	registry.TxRunner
	inventory.TxRunner
}

// Store repositorios y transacciones del driver configurado.
type Store struct {
	Tx          TxRunner
	Clients     repository.ClientRepository
	Memberships repository.MembershipRepository
	Payments    repository.PaymentRepository
	Items       repository.InventoryItemRepository
	Movements   repository.InventoryMovementRepository
	close       func()
}

// Close libera las conexiones.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// Open abre el almacén según DB_DRIVER y aplica las migraciones pendientes.
func Open(ctx context.Context, cfg config.DBConfig) (*Store, error) {
	switch cfg.Driver {
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg)
		if err != nil {
			return nil, err
		}
		db := postgres.StdDB(pool)
		if err := migrations.Up(db, migrations.DialectPostgres); err != nil {
			_ = db.Close()
			pool.Close()
			return nil, err
		}
		return &Store{
			Tx:          postgres.NewTxRunner(pool),
			Clients:     postgres.NewClientRepository(pool),
			Memberships: postgres.NewMembershipRepository(pool),
			Payments:    postgres.NewPaymentRepository(pool),
			Items:       postgres.NewInventoryItemRepository(pool),
			Movements:   postgres.NewInventoryMovementRepository(pool),
			close: func() {
				_ = db.Close()
				pool.Close()
			},
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		if err := migrations.Up(db, migrations.DialectSQLite); err != nil {
			_ = db.Close()
			return nil, err
		}
		return SQLite(db), nil
	}
	return nil, fmt.Errorf("driver de base de datos no soportado: %q", cfg.Driver)
}

// SQLite envuelve una base SQLite ya abierta y migrada.
func SQLite(db *sql.DB) *Store {
	return &Store{
		Tx:          sqlite.NewTxRunner(db),
		Clients:     sqlite.NewClientRepository(db),
		Memberships: sqlite.NewMembershipRepository(db),
		Payments:    sqlite.NewPaymentRepository(db),
		Items:       sqlite.NewInventoryItemRepository(db),
		Movements:   sqlite.NewInventoryMovementRepository(db),
		close:       func() { _ = db.Close() },
	}
}
