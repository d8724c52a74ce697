package export_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/application/export"
	"github.com/jhoicas/kyogym/internal/application/inventory"
	"github.com/jhoicas/kyogym/internal/application/registry"
	"github.com/jhoicas/kyogym/internal/infrastructure/excel"
	"github.com/jhoicas/kyogym/internal/infrastructure/settings"
	"github.com/jhoicas/kyogym/internal/infrastructure/sqlite"
	"github.com/jhoicas/kyogym/internal/infrastructure/sqlite/sqlitetest"
)

func newSnapshot(t *testing.T) *export.SnapshotUseCase {
	t.Helper()
	ctx := context.Background()
	db := sqlitetest.New(t)
	tx := sqlite.NewTxRunner(db)
	clientRepo := sqlite.NewClientRepository(db)
	membershipRepo := sqlite.NewMembershipRepository(db)
	paymentRepo := sqlite.NewPaymentRepository(db)
	itemRepo := sqlite.NewInventoryItemRepository(db)

	clients := registry.NewClientUseCase(tx, clientRepo)
	memberships := registry.NewMembershipUseCase(tx, clientRepo, membershipRepo, settings.StaticThreshold(7), nil)
	ledger := inventory.NewLedgerUseCase(tx, itemRepo, sqlite.NewInventoryMovementRepository(db))

	ana, err := clients.Create(ctx, dto.CreateClientRequest{Name: "Ana", Phone: "1", BirthDate: "1990-05-20"})
	require.NoError(t, err)
	beto, err := clients.Create(ctx, dto.CreateClientRequest{Name: "Beto", Phone: "2"})
	require.NoError(t, err)

	_, err = memberships.Enroll(ctx, dto.EnrollRequest{ClientID: ana.ID, Amount: decimal.NewFromInt(50)})
	require.NoError(t, err)
	old := time.Now().AddDate(0, 0, -40).Format(dto.DateLayout)
	_, err = memberships.Create(ctx, dto.CreateMembershipRequest{ClientID: beto.ID, StartDate: old})
	require.NoError(t, err)
	require.NoError(t, clients.Deactivate(ctx, beto.ID))

	_, err = ledger.CreateItem(ctx, dto.CreateItemRequest{Name: "Creatina", Quantity: 4, UnitPrice: decimal.RequireFromString("25.5")})
	require.NoError(t, err)

	return export.NewSnapshotUseCase(clientRepo, membershipRepo, paymentRepo, itemRepo, settings.StaticThreshold(7), excel.NewWorkbookWriter())
}

func TestSheets(t *testing.T) {
	uc := newSnapshot(t)

	sheets, err := uc.Sheets(context.Background())
	require.NoError(t, err)
	require.Len(t, sheets, 4)

	names := make([]string, 0, len(sheets))
	for _, s := range sheets {
		names = append(names, s.Name)
		for _, row := range s.Rows {
			assert.Len(t, row, len(s.Header), "hoja %s", s.Name)
		}
	}
	assert.Equal(t, []string{"Clientes", "Membresías", "Pagos", "Inventario"}, names)

	// Los clientes inactivos también se exportan.
	require.Len(t, sheets[0].Rows, 2)
	assert.Equal(t, "1990-05-20", sheets[0].Rows[0][4])
	assert.Equal(t, "No", sheets[0].Rows[1][6])

	require.Len(t, sheets[1].Rows, 2)
	assert.Equal(t, "Activa", sheets[1].Rows[0][8])
	assert.Equal(t, "Vencida", sheets[1].Rows[1][8])
	assert.Equal(t, "", sheets[1].Rows[1][7], "sin pago")

	require.Len(t, sheets[2].Rows, 1)
	assert.Equal(t, 50.0, sheets[2].Rows[0][5])

	require.Len(t, sheets[3].Rows, 1)
	assert.Equal(t, 102.0, sheets[3].Rows[0][5])
}

func TestExport(t *testing.T) {
	uc := newSnapshot(t)

	data, filename, err := uc.Export(context.Background())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filename, "kyogym_"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))

	rows, err := excel.ReadRows(data, "Inventario")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Creatina", rows[1][1])

	clients, err := excel.ReadRows(data, "Clientes")
	require.NoError(t, err)
	assert.Len(t, clients, 3)
}
