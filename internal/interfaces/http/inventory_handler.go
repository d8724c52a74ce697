package http

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/application/inventory"
)

// InventoryHandler maneja las peticiones HTTP del inventario de productos.
type InventoryHandler struct {
	uc *inventory.LedgerUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.LedgerUseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// CreateItem POST /api/inventory/items
func (h *InventoryHandler) CreateItem(c *fiber.Ctx) error {
	var in dto.CreateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	item, err := h.uc.CreateItem(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(item)
}

// ListItems GET /api/inventory/items?search=prote&category=Suplementos
func (h *InventoryHandler) ListItems(c *fiber.Ctx) error {
	list, err := h.uc.ListItems(c.Context(), c.Query("search"), c.Query("category"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// GetItem GET /api/inventory/items/:id
func (h *InventoryHandler) GetItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.uc.GetItem(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// UpdateItem PUT /api/inventory/items/:id
func (h *InventoryHandler) UpdateItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.UpdateItemRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	item, err := h.uc.UpdateItem(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(item)
}

// DeleteItem DELETE /api/inventory/items/:id
func (h *InventoryHandler) DeleteItem(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.DeleteItem(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Sell POST /api/inventory/items/:id/sell
func (h *InventoryHandler) Sell(c *fiber.Ctx) error {
	return h.movement(c, h.uc.Sell)
}

// Restock POST /api/inventory/items/:id/restock
func (h *InventoryHandler) Restock(c *fiber.Ctx) error {
	return h.movement(c, h.uc.Restock)
}

type movementFunc func(ctx context.Context, id int64, in dto.StockMovementRequest) (*dto.StockResultResponse, error)

func (h *InventoryHandler) movement(c *fiber.Ctx, fn movementFunc) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.StockMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := fn(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Movements GET /api/inventory/items/:id/movements?limit=50
func (h *InventoryHandler) Movements(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.uc.Movements(c.Context(), id, queryInt(c, "limit", inventory.DefaultMovementLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Audit GET /api/inventory/items/:id/audit
func (h *InventoryHandler) Audit(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	res, err := h.uc.Audit(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// LowStock GET /api/inventory/low-stock
func (h *InventoryHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.uc.LowStock(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Value GET /api/inventory/value
func (h *InventoryHandler) Value(c *fiber.Ctx) error {
	res, err := h.uc.InventoryValue(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// RestockSuggestions GET /api/inventory/restock-suggestions
// Artículos con stock bajo y la cantidad sugerida para volver al stock ideal.
func (h *InventoryHandler) RestockSuggestions(c *fiber.Ctx) error {
	list, err := h.uc.RestockSuggestions(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
