package inventory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/domain/entity"
)

// salesWindowDays ventana de ventas usada para priorizar la reposición.
const salesWindowDays = 90

// RestockSuggestions genera la lista de reposición para los artículos con stock bajo.
// Stock ideal = 2 × stock mínimo (al menos 1); se prioriza por unidades vendidas en los
// últimos 90 días y luego por déficit.
func (uc *LedgerUseCase) RestockSuggestions(ctx context.Context) ([]dto.RestockSuggestionDTO, error) {
	items, err := uc.itemRepo.ListLowStock(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return []dto.RestockSuggestionDTO{}, nil
	}
	since := uc.now().UTC().AddDate(0, 0, -salesWindowDays)

	suggestions := make([]dto.RestockSuggestionDTO, 0, len(items))
	for _, item := range items {
		movements, err := uc.movRepo.ListByItem(ctx, item.ID, 0)
		if err != nil {
			return nil, err
		}
		sold := 0
		for _, m := range movements {
			if m.Type == entity.MovementTypeOut && !m.CreatedAt.Before(since) {
				sold += m.Quantity
			}
		}
		ideal := item.LowStockThreshold * 2
		if ideal < 1 {
			ideal = 1
		}
		suggested := ideal - item.Quantity
		if suggested < 0 {
			suggested = 0
		}
		suggestions = append(suggestions, dto.RestockSuggestionDTO{
			ItemID:              item.ID,
			Name:                item.Name,
			Category:            item.Category,
			CurrentStock:        item.Quantity,
			LowStockThreshold:   item.LowStockThreshold,
			IdealStock:          ideal,
			SuggestedQuantity:   suggested,
			UnitPrice:           item.UnitPrice,
			EstimatedCost:       item.UnitPrice.Mul(decimal.NewFromInt(int64(suggested))),
			UnitsSoldLast90Days: sold,
		})
	}

	// Primero más vendidos, luego mayor déficit respecto al mínimo.
	sort.SliceStable(suggestions, func(i, j int) bool {
		a, b := suggestions[i], suggestions[j]
		if a.UnitsSoldLast90Days != b.UnitsSoldLast90Days {
			return a.UnitsSoldLast90Days > b.UnitsSoldLast90Days
		}
		return a.LowStockThreshold-a.CurrentStock > b.LowStockThreshold-b.CurrentStock
	})
	for i := range suggestions {
		suggestions[i].Priority = i + 1
	}
	return suggestions, nil
}
