package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/activos-cl/patrimonio-api/internal/application/dto"
	"github.com/activos-cl/patrimonio-api/internal/domain"
)

// writeError mapea un error de aplicación a su respuesta HTTP. Los errores
// de dominio llevan código estable y detalles; el centinela decide el status.
func writeError(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		status = fiber.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials), errors.Is(err, domain.ErrUnauthorized):
		status = fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		status = fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		status = fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		status = fiber.StatusConflict
	}

	var de *domain.Error
	if errors.As(err, &de) {
		return c.Status(status).JSON(dto.ErrorResponse{Code: de.Code, Message: de.Message, Details: de.Details})
	}
	if status == fiber.StatusUnauthorized {
		return c.Status(status).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "credenciales inválidas"})
	}
	if status != fiber.StatusInternalServerError {
		return c.Status(status).JSON(dto.ErrorResponse{Code: "ERROR", Message: err.Error()})
	}
	return c.Status(status).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
}
