package http

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/kyogym/internal/application/dto"
	"github.com/jhoicas/kyogym/internal/domain"
)

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}

// respondError traduce los errores de dominio a la respuesta HTTP correspondiente.
func respondError(c *fiber.Ctx, err error) error {
	var phone *domain.PhoneConflictError
	var active *domain.ActiveMembershipError
	var stock *domain.InsufficientStockError

	switch {
	case errors.As(err, &phone):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "PHONE_IN_USE", Message: err.Error(),
			Details: fiber.Map{"client_id": phone.ClientID, "client_name": phone.ClientName},
		})
	case errors.As(err, &active):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "ACTIVE_MEMBERSHIP", Message: err.Error(),
			Details: fiber.Map{
				"membership_id":   active.MembershipID,
				"status":          active.Status,
				"expiration_date": dto.FormatDate(active.ExpirationDate),
			},
		})
	case errors.As(err, &stock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Code: "INSUFFICIENT_STOCK", Message: err.Error(),
			Details: fiber.Map{"available": stock.Available, "requested": stock.Requested},
		})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: err.Error()})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}

// ErrorHandler manejador de errores de la app Fiber: los *fiber.Error conservan su
// código y el resto pasa por respondError.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code := "VALIDATION"
		switch fe.Code {
		case fiber.StatusNotFound:
			code = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			code = "METHOD_NOT_ALLOWED"
		case fiber.StatusInternalServerError:
			code = "INTERNAL"
		}
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: code, Message: fe.Message})
	}
	return respondError(c, err)
}

// paramID lee un identificador numérico positivo de la ruta.
func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, name+" inválido")
	}
	return id, nil
}

// queryInt lee un entero opcional del query string; vacío o inválido devuelve def.
func queryInt(c *fiber.Ctx, name string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(c.Query(name)))
	if err != nil {
		return def
	}
	return v
}

func queryID(c *fiber.Ctx, name string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(c.Query(name)), 10, 64)
	if err != nil || v < 0 {
		return 0
	}
	return v
}

func sendAttachment(c *fiber.Ctx, contentType, filename string, data []byte) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Attachment(filename)
	return c.Send(data)
}
