package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kyogym/internal/application/billing"
	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/application/registry"
)

// PaymentHandler maneja las peticiones HTTP de pagos.
type PaymentHandler struct {
	uc       *registry.PaymentUseCase
	receipts *billing.ReceiptUseCase
}

// NewPaymentHandler construye el handler.
func NewPaymentHandler(uc *registry.PaymentUseCase, receipts *billing.ReceiptUseCase) *PaymentHandler {
	return &PaymentHandler{uc: uc, receipts: receipts}
}

// Create POST /api/payments
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(p)
}

// List GET /api/payments?client_id=1&from=2026-01-01&to=2026-01-31&limit=100
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), queryID(c, "client_id"), c.Query("from"), c.Query("to"), queryInt(c, "limit", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Latest GET /api/payments/latest?limit=5
func (h *PaymentHandler) Latest(c *fiber.Ctx) error {
	list, err := h.uc.Latest(c.Context(), queryInt(c, "limit", registry.DefaultLatestLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Month GET /api/payments/month?year=2026&month=2 (sin parámetros = mes en curso).
func (h *PaymentHandler) Month(c *fiber.Ctx) error {
	list, err := h.uc.ListMonth(c.Context(), queryInt(c, "year", 0), queryInt(c, "month", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// MonthTotal GET /api/payments/month-total?year=2026&month=2
func (h *PaymentHandler) MonthTotal(c *fiber.Ctx) error {
	total, err := h.uc.MonthTotal(c.Context(), queryInt(c, "year", 0), queryInt(c, "month", 0))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(total)
}

// Get GET /api/payments/:id
func (h *PaymentHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	p, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// Update PUT /api/payments/:id
func (h *PaymentHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.CreatePaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	p, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(p)
}

// Delete DELETE /api/payments/:id
func (h *PaymentHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receipt GET /api/payments/:id/receipt
func (h *PaymentHandler) Receipt(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	pdf, filename, err := h.receipts.PaymentReceipt(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, contentTypePDF, filename, pdf)
}
