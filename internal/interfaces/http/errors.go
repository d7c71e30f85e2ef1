package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/marketsnap-inventory/internal/application/dto"
	"github.com/jhoicas/marketsnap-inventory/internal/domain"
)

// writeError traduce errores de dominio a status HTTP con cuerpo dto.ErrorResponse.
// Los fallos de almacenamiento no exponen el detalle al cliente.
func writeError(c *fiber.Ctx, err error) error {
	var insufficient *domain.InsufficientStockError
	switch {
	case errors.As(err, &insufficient):
		return c.Status(fiber.StatusConflict).JSON(dto.InsufficientStockResponse{
			Code:      "INSUFFICIENT_STOCK",
			Message:   insufficient.Error(),
			Current:   insufficient.Current,
			Requested: insufficient.Requested,
		})
	case errors.Is(err, domain.ErrStorageFailure):
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "STORAGE_FAILURE", Message: "error interno, intente más tarde"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado al recurso"})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "tienda, producto o entrada de stock no encontrado"})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos"})
	case errors.Is(err, domain.ErrDuplicate):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE_ENTRY", Message: "ya existe una entrada de stock para la tienda y el producto"})
	case errors.Is(err, domain.ErrInsufficientStock):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INSUFFICIENT_STOCK", Message: "stock insuficiente"})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: "la entrada cambió concurrentemente, reintente"})
	}
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}
