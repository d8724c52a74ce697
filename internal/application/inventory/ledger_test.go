package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/application/inventory"
	"github.com/jhoicas/kyogym/internal/domain"
	"github.com/jhoicas/kyogym/internal/infrastructure/sqlite"
	"github.com/jhoicas/kyogym/internal/infrastructure/sqlite/sqlitetest"
)

type fakeRecorder struct {
	mu       sync.Mutex
	units    map[string]int
	rejected int
}

func (r *fakeRecorder) MovementRecorded(movementType string, quantity int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.units == nil {
		r.units = map[string]int{}
	}
	r.units[movementType] += quantity
}

func (r *fakeRecorder) SaleRejected() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rejected++
}

type ledgerEnv struct {
	uc       *inventory.LedgerUseCase
	recorder *fakeRecorder
	now      time.Time
}

func newLedger(t *testing.T) *ledgerEnv {
	t.Helper()
	db := sqlitetest.New(t)
	e := &ledgerEnv{recorder: &fakeRecorder{}, now: time.Date(2026, 3, 15, 18, 45, 12, 0, time.UTC)}
	e.uc = inventory.NewLedgerUseCase(
		sqlite.NewTxRunner(db),
		sqlite.NewInventoryItemRepository(db),
		sqlite.NewInventoryMovementRepository(db),
		inventory.WithClock(func() time.Time { return e.now }),
		inventory.WithRecorder(e.recorder),
	)
	return e
}

func (e *ledgerEnv) item(t *testing.T, name string, qty, threshold int, price string) *dto.ItemResponse {
	t.Helper()
	item, err := e.uc.CreateItem(context.Background(), dto.CreateItemRequest{
		Name: name, Category: "Suplementos", Quantity: qty,
		UnitPrice: decimal.RequireFromString(price), LowStockThreshold: &threshold,
	})
	require.NoError(t, err)
	return item
}

func TestCreateItem(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()

	item, err := e.uc.CreateItem(ctx, dto.CreateItemRequest{
		Name: " Proteína Whey ", Category: "Suplementos", Quantity: 15, UnitPrice: decimal.RequireFromString("45.00"),
	})
	require.NoError(t, err)
	assert.Positive(t, item.ID)
	assert.Equal(t, "Proteína Whey", item.Name)
	assert.Equal(t, 5, item.LowStockThreshold, "stock mínimo por defecto")
	assert.Equal(t, "2026-03-15", item.RegistrationDate)
	assert.True(t, item.TotalValue.Equal(decimal.NewFromInt(675)))
	assert.False(t, item.LowStock)

	got, err := e.uc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, item.Name, got.Name)
	assert.Equal(t, 15, got.Quantity)
}

func TestItem_PrecioSeRedondeaACentavos(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()

	item, err := e.uc.CreateItem(ctx, dto.CreateItemRequest{Name: "Guantes", Quantity: 2, UnitPrice: decimal.RequireFromString("12.345")})
	require.NoError(t, err)
	assert.Equal(t, "12.35", item.UnitPrice.StringFixed(2))

	got, err := e.uc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, got.UnitPrice.Equal(decimal.RequireFromString("12.35")), got.UnitPrice.String())

	updated, err := e.uc.UpdateItem(ctx, item.ID, dto.UpdateItemRequest{Name: "Guantes", UnitPrice: decimal.RequireFromString("9.994")})
	require.NoError(t, err)
	assert.True(t, updated.UnitPrice.Equal(decimal.RequireFromString("9.99")), updated.UnitPrice.String())
}

func TestCreateItem_Validaciones(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()
	negative := -1

	cases := []dto.CreateItemRequest{
		{Name: "", Quantity: 1},
		{Name: "A", Quantity: -1},
		{Name: "A", UnitPrice: decimal.NewFromInt(-2)},
		{Name: "A", LowStockThreshold: &negative},
	}
	for _, in := range cases {
		_, err := e.uc.CreateItem(ctx, in)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "request %+v", in)
	}
}

func TestSell_StockInsuficiente(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()
	item := e.item(t, "Creatina", 3, 5, "25")

	_, err := e.uc.Sell(ctx, item.ID, dto.StockMovementRequest{Quantity: 5})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	var insufficient *domain.InsufficientStockError
	require.True(t, errors.As(err, &insufficient))
	assert.Equal(t, 3, insufficient.Available)
	assert.Equal(t, 5, insufficient.Requested)

	got, err := e.uc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Quantity, "la cantidad no cambia")

	movs, err := e.uc.Movements(ctx, item.ID, 0)
	require.NoError(t, err)
	assert.Empty(t, movs, "no se registra movimiento")
	assert.Equal(t, 1, e.recorder.rejected)
}

func TestSell_DescuentaYRegistraSalida(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()
	item := e.item(t, "Shaker", 10, 5, "8")

	res, err := e.uc.Sell(ctx, item.ID, dto.StockMovementRequest{Quantity: 6})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Item.Quantity)
	assert.True(t, res.Item.LowStock)
	assert.Equal(t, "SALIDA", res.Movement.Type)
	assert.Equal(t, 6, res.Movement.Quantity)
	assert.Equal(t, inventory.DefaultSaleReason, res.Movement.Reason)
	assert.Equal(t, "2026-03-15T18:45:12Z", res.Movement.CreatedAt)
	_, err = uuid.Parse(res.Movement.TransactionID)
	assert.NoError(t, err)

	movs, err := e.uc.Movements(ctx, item.ID, 0)
	require.NoError(t, err)
	require.Len(t, movs, 1)
	assert.Equal(t, res.Movement.ID, movs[0].ID)

	low, err := e.uc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, item.ID, low[0].ID)
	assert.Equal(t, map[string]int{"SALIDA": 6}, e.recorder.units)
}

func TestSell_TodoElStock(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()
	item := e.item(t, "Barra", 4, 1, "180")

	res, err := e.uc.Sell(ctx, item.ID, dto.StockMovementRequest{Quantity: 4, Reason: "Venta mostrador"})
	require.NoError(t, err)
	assert.Zero(t, res.Item.Quantity)
	assert.Equal(t, "Venta mostrador", res.Movement.Reason)

	_, err = e.uc.Sell(ctx, item.ID, dto.StockMovementRequest{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
}

func TestMovimientos_CantidadInvalidaOArticuloInexistente(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()
	item := e.item(t, "Guantes", 10, 5, "15")

	for _, qty := range []int{0, -3} {
		_, err := e.uc.Sell(ctx, item.ID, dto.StockMovementRequest{Quantity: qty})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
		_, err = e.uc.Restock(ctx, item.ID, dto.StockMovementRequest{Quantity: qty})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}

	_, err := e.uc.Sell(ctx, 9999, dto.StockMovementRequest{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.uc.Restock(ctx, 9999, dto.StockMovementRequest{Quantity: 1})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Zero(t, e.recorder.rejected, "solo cuenta las ventas rechazadas por stock")
}

func TestRestock_SumaSinLimite(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()
	item := e.item(t, "Agua", 50, 5, "2")

	res, err := e.uc.Restock(ctx, item.ID, dto.StockMovementRequest{Quantity: 1000})
	require.NoError(t, err)
	assert.Equal(t, 1050, res.Item.Quantity)
	assert.Equal(t, "ENTRADA", res.Movement.Type)
	assert.Equal(t, inventory.DefaultRestockReason, res.Movement.Reason)

	movs, err := e.uc.Movements(ctx, item.ID, 0)
	require.NoError(t, err)
	assert.Len(t, movs, 1)
}

func TestAudit_Consistente(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()
	item := e.item(t, "BCAA", 12, 5, "30")

	_, err := e.uc.Sell(ctx, item.ID, dto.StockMovementRequest{Quantity: 5})
	require.NoError(t, err)
	_, err = e.uc.Restock(ctx, item.ID, dto.StockMovementRequest{Quantity: 8})
	require.NoError(t, err)
	_, err = e.uc.Sell(ctx, item.ID, dto.StockMovementRequest{Quantity: 50})
	require.Error(t, err)

	audit, err := e.uc.Audit(ctx, item.ID)
	require.NoError(t, err)
	assert.Equal(t, 12, audit.InitialQuantity)
	assert.Equal(t, 3, audit.MovementsNet)
	assert.Equal(t, 15, audit.Expected)
	assert.Equal(t, 15, audit.Actual)
	assert.True(t, audit.Consistent)

	_, err = e.uc.Audit(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSell_Concurrente(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()
	item := e.item(t, "Kettlebell", 5, 1, "60")

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, fail int
	)
	for i := 0; i < 12; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := e.uc.Sell(ctx, item.ID, dto.StockMovementRequest{Quantity: 1})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrInsufficientStock) {
				fail++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 5, ok)
	assert.Equal(t, 7, fail)
	got, err := e.uc.GetItem(ctx, item.ID)
	require.NoError(t, err)
	assert.Zero(t, got.Quantity)

	audit, err := e.uc.Audit(ctx, item.ID)
	require.NoError(t, err)
	assert.True(t, audit.Consistent)
}

func TestUpdateYDeleteItem(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()
	item := e.item(t, "Cuerda", 15, 5, "12")
	_, err := e.uc.Sell(ctx, item.ID, dto.StockMovementRequest{Quantity: 2})
	require.NoError(t, err)

	threshold := 20
	up, err := e.uc.UpdateItem(ctx, item.ID, dto.UpdateItemRequest{
		Name: "Cuerda Pro", Category: "Accesorios", UnitPrice: decimal.NewFromInt(14), LowStockThreshold: &threshold,
	})
	require.NoError(t, err)
	assert.Equal(t, "Cuerda Pro", up.Name)
	assert.Equal(t, 13, up.Quantity, "editar no toca la cantidad")
	assert.True(t, up.LowStock)

	_, err = e.uc.UpdateItem(ctx, 9999, dto.UpdateItemRequest{Name: "X"})
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = e.uc.UpdateItem(ctx, item.ID, dto.UpdateItemRequest{Name: " "})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	require.NoError(t, e.uc.DeleteItem(ctx, item.ID))
	_, err = e.uc.GetItem(ctx, item.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, e.uc.DeleteItem(ctx, item.ID), domain.ErrNotFound)
}

func TestListItemsEInventoryValue(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()
	e.item(t, "Proteína", 2, 5, "45.50")
	e.item(t, "Creatina", 10, 5, "25")
	_, err := e.uc.CreateItem(ctx, dto.CreateItemRequest{Name: "Agua", Category: "Bebidas", Quantity: 0, UnitPrice: decimal.NewFromInt(2)})
	require.NoError(t, err)

	all, err := e.uc.ListItems(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Agua", all[0].Name, "orden alfabético")

	byCategory, err := e.uc.ListItems(ctx, "", "Bebidas")
	require.NoError(t, err)
	assert.Len(t, byCategory, 1)

	bySearch, err := e.uc.ListItems(ctx, "crea", "")
	require.NoError(t, err)
	require.Len(t, bySearch, 1)
	assert.Equal(t, "Creatina", bySearch[0].Name)

	value, err := e.uc.InventoryValue(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, value.Items)
	assert.Equal(t, 12, value.Units)
	assert.True(t, value.Total.Equal(decimal.RequireFromString("341")), "total %s", value.Total)

	low, err := e.uc.LowStock(ctx)
	require.NoError(t, err)
	require.Len(t, low, 2)
	assert.Equal(t, "Agua", low[0].Name, "menor cantidad primero")
}

func TestRestockSuggestions(t *testing.T) {
	e := newLedger(t)
	ctx := context.Background()
	whey := e.item(t, "Whey", 20, 5, "45")
	bcaa := e.item(t, "BCAA", 3, 4, "30")
	e.item(t, "Creatina", 50, 5, "25")

	// Venta antigua: fuera de la ventana de 90 días.
	e.now = e.now.AddDate(0, 0, -120)
	_, err := e.uc.Sell(ctx, bcaa.ID, dto.StockMovementRequest{Quantity: 1})
	require.NoError(t, err)
	e.now = e.now.AddDate(0, 0, 120)

	_, err = e.uc.Sell(ctx, whey.ID, dto.StockMovementRequest{Quantity: 17})
	require.NoError(t, err)

	list, err := e.uc.RestockSuggestions(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, whey.ID, list[0].ItemID)
	assert.Equal(t, 1, list[0].Priority)
	assert.Equal(t, 17, list[0].UnitsSoldLast90Days)
	assert.Equal(t, 10, list[0].IdealStock)
	assert.Equal(t, 7, list[0].SuggestedQuantity)
	assert.True(t, list[0].EstimatedCost.Equal(decimal.NewFromInt(315)))

	assert.Equal(t, bcaa.ID, list[1].ItemID)
	assert.Equal(t, 2, list[1].Priority)
	assert.Zero(t, list[1].UnitsSoldLast90Days)
	assert.Equal(t, 6, list[1].SuggestedQuantity)
}

func TestRestockSuggestions_SinStockBajo(t *testing.T) {
	e := newLedger(t)
	e.item(t, "Creatina", 50, 5, "25")

	list, err := e.uc.RestockSuggestions(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
	assert.NotNil(t, list)
}
