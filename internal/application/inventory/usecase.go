package inventory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/domain"
	"github.com/jhoicas/kyogym/internal/domain/entity"
	"github.com/jhoicas/kyogym/internal/domain/repository"
)

// Motivos por defecto de los movimientos.
const (
	DefaultSaleReason    = "Venta"
	DefaultRestockReason = "Reabastecimiento"
	DefaultMovementLimit = 50
)

// LedgerUseCase administra artículos y registra ventas (SALIDA) y reabastecimientos (ENTRADA).
// Cada cambio de cantidad se confirma en la misma transacción que su movimiento.
type LedgerUseCase struct {
	txRunner TxRunner
	itemRepo repository.InventoryItemRepository
	movRepo  repository.InventoryMovementRepository
	recorder MovementRecorder
	now      func() time.Time
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(
	txRunner TxRunner,
	itemRepo repository.InventoryItemRepository,
	movRepo repository.InventoryMovementRepository,
	opts ...Option,
) *LedgerUseCase {
	uc := &LedgerUseCase{
		txRunner: txRunner,
		itemRepo: itemRepo,
		movRepo:  movRepo,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

func toItemResponse(i *entity.InventoryItem) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:                i.ID,
		Name:              i.Name,
		Category:          i.Category,
		Quantity:          i.Quantity,
		UnitPrice:         i.UnitPrice,
		TotalValue:        i.Value(),
		RegistrationDate:  dto.FormatDate(i.RegistrationDate),
		LowStockThreshold: i.LowStockThreshold,
		LowStock:          i.IsLowStock(),
	}
}

func toMovementResponse(m *entity.InventoryMovement) *dto.MovementResponse {
	return &dto.MovementResponse{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		ItemID:        m.ItemID,
		Type:          m.Type,
		Quantity:      m.Quantity,
		Reason:        m.Reason,
		CreatedAt:     m.CreatedAt.Format(time.RFC3339),
	}
}

func resolveThreshold(v *int) (int, error) {
	if v == nil {
		return entity.DefaultLowStockThreshold, nil
	}
	if *v < 0 {
		return 0, fmt.Errorf("%w: el stock mínimo no puede ser negativo", domain.ErrInvalidInput)
	}
	return *v, nil
}

func validateItemFields(name string, price decimal.Decimal) error {
	if name == "" {
		return fmt.Errorf("%w: el nombre es requerido", domain.ErrInvalidInput)
	}
	if price.IsNegative() {
		return fmt.Errorf("%w: el precio no puede ser negativo", domain.ErrInvalidInput)
	}
	return nil
}

// CreateItem da de alta un artículo. La cantidad inicial queda como línea base de la auditoría.
func (uc *LedgerUseCase) CreateItem(ctx context.Context, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	in.UnitPrice = entity.RoundMoney(in.UnitPrice)
	if err := validateItemFields(name, in.UnitPrice); err != nil {
		return nil, err
	}
	if in.Quantity < 0 {
		return nil, fmt.Errorf("%w: la cantidad no puede ser negativa", domain.ErrInvalidInput)
	}
	threshold, err := resolveThreshold(in.LowStockThreshold)
	if err != nil {
		return nil, err
	}
	now := uc.now()
	item := &entity.InventoryItem{
		Name:              name,
		Category:          strings.TrimSpace(in.Category),
		Quantity:          in.Quantity,
		InitialQuantity:   in.Quantity,
		UnitPrice:         in.UnitPrice,
		RegistrationDate:  time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		LowStockThreshold: threshold,
	}
	if err := uc.itemRepo.Create(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// GetItem obtiene un artículo por ID.
func (uc *LedgerUseCase) GetItem(ctx context.Context, id int64) (*dto.ItemResponse, error) {
	item, err := uc.mustItem(ctx, uc.itemRepo, id)
	if err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

func (uc *LedgerUseCase) mustItem(ctx context.Context, repo repository.InventoryItemRepository, id int64) (*entity.InventoryItem, error) {
	item, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.ErrNotFound
	}
	return item, nil
}

// ListItems lista artículos ordenados por nombre.
func (uc *LedgerUseCase) ListItems(ctx context.Context, search, category string) ([]*dto.ItemResponse, error) {
	list, err := uc.itemRepo.List(ctx, repository.ItemFilter{
		Search:   strings.TrimSpace(search),
		Category: strings.TrimSpace(category),
	})
	if err != nil {
		return nil, err
	}
	return toItemResponses(list), nil
}

func toItemResponses(list []*entity.InventoryItem) []*dto.ItemResponse {
	out := make([]*dto.ItemResponse, 0, len(list))
	for _, i := range list {
		out = append(out, toItemResponse(i))
	}
	return out
}

// UpdateItem modifica datos descriptivos. La cantidad solo cambia con Sell/Restock.
func (uc *LedgerUseCase) UpdateItem(ctx context.Context, id int64, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	name := strings.TrimSpace(in.Name)
	in.UnitPrice = entity.RoundMoney(in.UnitPrice)
	if err := validateItemFields(name, in.UnitPrice); err != nil {
		return nil, err
	}
	item, err := uc.mustItem(ctx, uc.itemRepo, id)
	if err != nil {
		return nil, err
	}
	if in.LowStockThreshold != nil {
		if item.LowStockThreshold, err = resolveThreshold(in.LowStockThreshold); err != nil {
			return nil, err
		}
	}
	item.Name = name
	item.Category = strings.TrimSpace(in.Category)
	item.UnitPrice = in.UnitPrice
	if err := uc.itemRepo.Update(ctx, item); err != nil {
		return nil, err
	}
	return toItemResponse(item), nil
}

// DeleteItem elimina el artículo junto con sus movimientos.
func (uc *LedgerUseCase) DeleteItem(ctx context.Context, id int64) error {
	if _, err := uc.mustItem(ctx, uc.itemRepo, id); err != nil {
		return err
	}
	return uc.itemRepo.Delete(ctx, id)
}

// Sell registra una venta: resta la cantidad y guarda un movimiento SALIDA.
// La resta se condiciona en la misma sentencia a que haya stock suficiente, así dos ventas
// concurrentes nunca dejan la cantidad negativa.
func (uc *LedgerUseCase) Sell(ctx context.Context, id int64, in dto.StockMovementRequest) (*dto.StockResultResponse, error) {
	res, err := uc.move(ctx, id, entity.MovementTypeOut, in, DefaultSaleReason)
	if err != nil {
		var insufficient *domain.InsufficientStockError
		if uc.recorder != nil && errors.As(err, &insufficient) {
			uc.recorder.SaleRejected()
		}
		return nil, err
	}
	return res, nil
}

// Restock registra un reabastecimiento: suma la cantidad y guarda un movimiento ENTRADA.
func (uc *LedgerUseCase) Restock(ctx context.Context, id int64, in dto.StockMovementRequest) (*dto.StockResultResponse, error) {
	return uc.move(ctx, id, entity.MovementTypeIn, in, DefaultRestockReason)
}

func (uc *LedgerUseCase) move(ctx context.Context, id int64, kind string, in dto.StockMovementRequest, defaultReason string) (*dto.StockResultResponse, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("%w: la cantidad debe ser mayor a cero", domain.ErrInvalidInput)
	}
	reason := strings.TrimSpace(in.Reason)
	if reason == "" {
		reason = defaultReason
	}
	var (
		item *entity.InventoryItem
		mov  *entity.InventoryMovement
	)
	err := uc.txRunner.Run(ctx, func(
		movRepo repository.InventoryMovementRepository,
		itemRepo repository.InventoryItemRepository,
	) error {
		var (
			ok  bool
			err error
		)
		if kind == entity.MovementTypeOut {
			ok, err = itemRepo.DecrementStock(ctx, id, in.Quantity)
		} else {
			ok, err = itemRepo.IncrementStock(ctx, id, in.Quantity)
		}
		if err != nil {
			return err
		}
		if !ok {
			current, err := uc.mustItem(ctx, itemRepo, id)
			if err != nil {
				return err
			}
			return &domain.InsufficientStockError{ItemID: id, Available: current.Quantity, Requested: in.Quantity}
		}
		mov = &entity.InventoryMovement{
			TransactionID: uuid.New().String(),
			ItemID:        id,
			Type:          kind,
			Quantity:      in.Quantity,
			Reason:        reason,
			CreatedAt:     uc.now().UTC().Truncate(time.Second),
		}
		if err := movRepo.Create(ctx, mov); err != nil {
			return err
		}
		item, err = uc.mustItem(ctx, itemRepo, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	if uc.recorder != nil {
		uc.recorder.MovementRecorded(kind, in.Quantity)
	}
	return &dto.StockResultResponse{Item: *toItemResponse(item), Movement: *toMovementResponse(mov)}, nil
}

// Movements devuelve la bitácora del artículo, más recientes primero.
func (uc *LedgerUseCase) Movements(ctx context.Context, id int64, limit int) ([]*dto.MovementResponse, error) {
	if _, err := uc.mustItem(ctx, uc.itemRepo, id); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMovementLimit
	}
	list, err := uc.movRepo.ListByItem(ctx, id, limit)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.MovementResponse, 0, len(list))
	for _, m := range list {
		out = append(out, toMovementResponse(m))
	}
	return out, nil
}

// LowStock artículos en o por debajo de su stock mínimo.
func (uc *LedgerUseCase) LowStock(ctx context.Context) ([]*dto.ItemResponse, error) {
	list, err := uc.itemRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	return toItemResponses(list), nil
}

// InventoryValue suma cantidad × precio de todos los artículos.
func (uc *LedgerUseCase) InventoryValue(ctx context.Context) (*dto.InventoryValueResponse, error) {
	list, err := uc.itemRepo.List(ctx, repository.ItemFilter{})
	if err != nil {
		return nil, err
	}
	out := &dto.InventoryValueResponse{Items: len(list), Total: decimal.Zero}
	for _, i := range list {
		out.Units += i.Quantity
		out.Total = out.Total.Add(i.Value())
	}
	return out, nil
}

// Audit compara la cantidad guardada con cantidad inicial + suma de movimientos.
func (uc *LedgerUseCase) Audit(ctx context.Context, id int64) (*dto.AuditResponse, error) {
	item, err := uc.mustItem(ctx, uc.itemRepo, id)
	if err != nil {
		return nil, err
	}
	net, err := uc.movRepo.SumSigned(ctx, id)
	if err != nil {
		return nil, err
	}
	expected := item.InitialQuantity + net
	return &dto.AuditResponse{
		ItemID:          id,
		InitialQuantity: item.InitialQuantity,
		MovementsNet:    net,
		Expected:        expected,
		Actual:          item.Quantity,
		Consistent:      expected == item.Quantity,
	}, nil
}
