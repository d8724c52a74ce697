package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/application/registry"
)

// ClientHandler maneja las peticiones HTTP de clientes.
type ClientHandler struct {
	uc          *registry.ClientUseCase
	memberships *registry.MembershipUseCase
	payments    *registry.PaymentUseCase
}

// NewClientHandler construye el handler.
func NewClientHandler(uc *registry.ClientUseCase, memberships *registry.MembershipUseCase, payments *registry.PaymentUseCase) *ClientHandler {
	return &ClientHandler{uc: uc, memberships: memberships, payments: payments}
}

// Create POST /api/clients
func (h *ClientHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	client, err := h.uc.Create(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(client)
}

// List GET /api/clients?search=ana&include_inactive=true
func (h *ClientHandler) List(c *fiber.Ctx) error {
	list, err := h.uc.List(c.Context(), c.Query("search"), c.QueryBool("include_inactive", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}

// Get GET /api/clients/:id
func (h *ClientHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	client, err := h.uc.Get(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(client)
}

// Update PUT /api/clients/:id
func (h *ClientHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var in dto.CreateClientRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	client, err := h.uc.Update(c.Context(), id, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(client)
}

// Deactivate DELETE /api/clients/:id (baja lógica).
func (h *ClientHandler) Deactivate(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.uc.Deactivate(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// CheckPhone GET /api/clients/phone-check?phone=...&exclude_id=...
func (h *ClientHandler) CheckPhone(c *fiber.Ctx) error {
	res, err := h.uc.CheckPhone(c.Context(), c.Query("phone"), queryID(c, "exclude_id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(res)
}

// CountBySex GET /api/clients/count-by-sex
func (h *ClientHandler) CountBySex(c *fiber.Ctx) error {
	counts, err := h.uc.CountBySex(c.Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(counts)
}

// ActiveMembership GET /api/clients/:id/memberships/active
// Responde 204 cuando el cliente no tiene membresía vigente.
func (h *ClientHandler) ActiveMembership(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if _, err := h.uc.Get(c.Context(), id); err != nil {
		return respondError(c, err)
	}
	m, err := h.memberships.CurrentForClient(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	if m == nil {
		return c.SendStatus(fiber.StatusNoContent)
	}
	return c.JSON(m)
}

// Payments GET /api/clients/:id/payments
func (h *ClientHandler) Payments(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	list, err := h.payments.ClientHistory(c.Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(list)
}
