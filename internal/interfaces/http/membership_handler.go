package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kyogym/internal/application/billing"
	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/application/registry"
)

const contentTypePDF = "application/pdf"

// MembershipHandler maneja las peticiones HTTP de membresías.
type MembershipHandler struct {
	uc       *registry.MembershipUseCase
	receipts *billing.ReceiptUseCase
}

// NewMembershipHandler construye el handler.
func NewMembershipHandler(uc *registry.MembershipUseCase, receipts *billing.ReceiptUseCase) *MembershipHandler {
	return &MembershipHandler{uc: uc, receipts: receipts}
}

// Create POST /api/memberships
func (h *MembershipHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateMembershipRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	m, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// Enroll POST /api/memberships/enroll
// Registra el pago y la membresía mensual en una sola transacción.
func (h *MembershipHandler) Enroll(c *fiber.Ctx) error {
	var in dto.EnrollRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	res, err := h.uc.Enroll(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(res)
}

// Renew POST /api/memberships/renew
func (h *MembershipHandler) Renew(c *fiber.Ctx) error {
	var in dto.RenewRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	m, err := h.uc.Renew(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(m)
}

// List GET /api/memberships?client_id=1&status=Activa
func (h *MembershipHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), queryID(c, "client_id"), c.Query("status"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Expiring GET /api/memberships/expiring?limit=10
func (h *MembershipHandler) Expiring(c *fiber.Ctx) error {
	list, err := h.uc.ListExpiringSoon(c.Context(), queryInt(c, "limit", registry.DefaultExpiringLimit))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Counts GET /api/memberships/counts
func (h *MembershipHandler) Counts(c *fiber.Ctx) error {
	counts, err := h.uc.CountByStatus(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(counts)
}

// Get GET /api/memberships/:id
func (h *MembershipHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	m, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(m)
}

// Update PUT /api/memberships/:id
func (h *MembershipHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.CreateMembershipRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	m, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(m)
}

// Delete DELETE /api/memberships/:id
func (h *MembershipHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Delete(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Receipt GET /api/memberships/:id/receipt
func (h *MembershipHandler) Receipt(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	pdf, filename, err := h.receipts.MembershipReceipt(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return sendAttachment(c, contentTypePDF, filename, pdf)
}
