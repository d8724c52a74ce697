package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/repository"
	"github.com/jhoicas/kyogym/internal/infrastructure/sqlite"
	"github.com/jhoicas/kyogym/internal/infrastructure/sqlite/sqlitetest"
)

func day(s string) time.Time {
	t, err := time.Parse(sqlite.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestClientRepo_TelefonoYConteo(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewClientRepository(sqlitetest.New(t))

	ana := &entity.Client{Name: "Ana", Phone: "555", Sex: entity.SexFemale, RegistrationDate: day("2026-01-10"), Active: true}
	luis := &entity.Client{Name: "Luis", Phone: "777", Sex: entity.SexMale, RegistrationDate: day("2026-01-11"), Active: true}
	require.NoError(t, repo.Create(ctx, ana))
	require.NoError(t, repo.Create(ctx, luis))

	got, err := repo.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "2026-01-10", got.RegistrationDate.Format(sqlite.DateLayout))
	assert.Nil(t, got.BirthDate)

	missing, err := repo.GetByID(ctx, 999)
	require.NoError(t, err)
	assert.Nil(t, missing)

	found, err := repo.FindActiveByPhone(ctx, "555", 0)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, ana.ID, found.ID)

	found, err = repo.FindActiveByPhone(ctx, "555", ana.ID)
	require.NoError(t, err)
	assert.Nil(t, found)

	require.NoError(t, repo.SetActive(ctx, ana.ID, false))
	found, err = repo.FindActiveByPhone(ctx, "555", 0)
	require.NoError(t, err)
	assert.Nil(t, found)

	counts, err := repo.CountActiveBySex(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, counts[entity.SexMale])
	assert.Zero(t, counts[entity.SexFemale])

	list, err := repo.List(ctx, repository.ClientFilter{Search: "lu", OnlyActive: true})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Luis", list[0].Name)
}

func TestInventoryItemRepo_DecrementoCondicionado(t *testing.T) {
	ctx := context.Background()
	repo := sqlite.NewInventoryItemRepository(sqlitetest.New(t))

	item := &entity.InventoryItem{
		Name: "Guantes", Category: "Accesorios", Quantity: 3, InitialQuantity: 3,
		UnitPrice: decimal.RequireFromString("12.50"), RegistrationDate: day("2026-02-01"), LowStockThreshold: 2,
	}
	require.NoError(t, repo.Create(ctx, item))

	ok, err := repo.DecrementStock(ctx, item.ID, 4)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = repo.DecrementStock(ctx, item.ID, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IncrementStock(ctx, 999, 1)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := repo.GetByID(ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Quantity)
	assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString("12.5")))

	low, err := repo.ListLowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, item.ID, low[0].ID)
}

func TestInventoryMovementRepo_SumaYCascada(t *testing.T) {
	ctx := context.Background()
	db := sqlitetest.New(t)
	items := sqlite.NewInventoryItemRepository(db)
	movs := sqlite.NewInventoryMovementRepository(db)

	item := &entity.InventoryItem{Name: "Agua", Quantity: 10, InitialQuantity: 10, RegistrationDate: day("2026-02-01"), LowStockThreshold: 5}
	require.NoError(t, items.Create(ctx, item))

	at := time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC)
	for _, m := range []entity.InventoryMovement{
		{TransactionID: "a", Type: entity.MovementTypeOut, Quantity: 4},
		{TransactionID: "b", Type: entity.MovementTypeIn, Quantity: 7},
		{TransactionID: "c", Type: entity.MovementTypeOut, Quantity: 1, Reason: "merma"},
	} {
		m.ItemID, m.CreatedAt = item.ID, at
		require.NoError(t, movs.Create(ctx, &m))
	}

	sum, err := movs.SumSigned(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, sum)

	list, err := movs.ListByItem(ctx, item.ID, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "c", list[0].TransactionID)
	assert.Equal(t, "merma", list[0].Reason)
	assert.True(t, list[0].CreatedAt.Equal(at))

	require.NoError(t, items.Delete(ctx, item.ID))
	list, err = movs.ListByItem(ctx, item.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestPaymentRepo_RangoYDesvinculo(t *testing.T) {
	ctx := context.Background()
	db := sqlitetest.New(t)
	clients := sqlite.NewClientRepository(db)
	memberships := sqlite.NewMembershipRepository(db)
	payments := sqlite.NewPaymentRepository(db)

	ana := &entity.Client{Name: "Ana", RegistrationDate: day("2024-11-01"), Active: true}
	require.NoError(t, clients.Create(ctx, ana))

	dec := &entity.Payment{ClientID: ana.ID, Date: day("2024-12-31"), Amount: decimal.RequireFromString("50.50"), Method: entity.PaymentMethodCash}
	jan := &entity.Payment{ClientID: ana.ID, Date: day("2025-01-01"), Amount: decimal.NewFromInt(30), Method: entity.PaymentMethodCard}
	require.NoError(t, payments.Create(ctx, dec))
	require.NoError(t, payments.Create(ctx, jan))

	from, to := day("2024-12-01"), day("2024-12-31")
	list, err := payments.List(ctx, repository.PaymentFilter{From: &from, To: &to})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, dec.ID, list[0].ID)
	assert.Equal(t, "Ana", list[0].ClientName)
	assert.True(t, list[0].Amount.Equal(decimal.RequireFromString("50.5")))

	m := &entity.Membership{
		ClientID: ana.ID, Type: entity.MembershipTypeMonthly,
		StartDate: day("2024-12-31"), ExpirationDate: day("2025-01-30"),
		Amount: dec.Amount, PaymentID: &dec.ID,
	}
	require.NoError(t, memberships.Create(ctx, m))

	require.NoError(t, payments.Delete(ctx, dec.ID))
	got, err := memberships.GetByID(ctx, m.ID)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.PaymentID)
}

func TestTxRunner_RollbackAnteError(t *testing.T) {
	ctx := context.Background()
	db := sqlitetest.New(t)
	runner := sqlite.NewTxRunner(db)
	errAbort := errors.New("abortar")

	err := runner.RunRegistry(ctx, func(
		clients repository.ClientRepository,
		_ repository.MembershipRepository,
		_ repository.PaymentRepository,
	) error {
		require.NoError(t, clients.Create(ctx, &entity.Client{Name: "Temporal", RegistrationDate: day("2026-01-01"), Active: true}))
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	list, err := sqlite.NewClientRepository(db).List(ctx, repository.ClientFilter{})
	require.NoError(t, err)
	assert.Empty(t, list)
}
