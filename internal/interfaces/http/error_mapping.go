package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/minicrm-api/internal/application/dto"
	"github.com/jhoicas/minicrm-api/internal/domain"
)

// respondError traduce errores de dominio a HTTP:
//
//	ErrForbidden        → 403
//	ErrNotFound         → 404
//	ValidationError     → 422 con mapa campo → mensaje
//	resto               → 500 genérico (sin filtrar detalles internos)
func respondError(c *fiber.Ctx, err error) error {
	if ve, ok := domain.AsValidation(err); ok {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Code:    "VALIDATION",
			Message: "los datos enviados no son válidos",
			Errors:  ve.Fields,
		})
	}
	switch {
	case errors.Is(err, domain.ErrForbidden):
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "acceso denegado"})
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "recurso no encontrado"})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
	}
}

// parseListRequest lee search/order/página desde el query string.
func parseListRequest(c *fiber.Ctx) dto.ListRequest {
	return dto.ListRequest{
		Search:         c.Query("search"),
		OrderBy:        c.Query("order_by"),
		OrderDirection: c.Query("order_direction"),
		Page:           c.QueryInt("page", 1),
		PerPage:        c.QueryInt("per_page", 15),
	}
}
