package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/application/dto"
	"github.com/activos-cl/patrimonio-api/pkg/jwt"
)

// LocalActor key del actor autenticado en Fiber Locals.
const LocalActor = "actor"

// AuthMiddleware valida el Bearer Token JWT y deja el actor resuelto en
// c.Locals. Los claims bastan para construir el actor sin consultar la DB.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "Authorization header requerido"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "formato: Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vacío"})
		}
		claims, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token inválido o expirado"})
		}
		actor := authz.Actor{
			ID:            claims.UserID,
			Role:          claims.Role,
			InstitutionID: claims.InstitutionID,
		}
		if claims.EstablishmentID != "" {
			est := claims.EstablishmentID
			actor.EstablishmentID = &est
		}
		c.Locals(LocalActor, actor)
		return c.Next()
	}
}

// GetActor devuelve el actor del contexto (después del middleware de auth).
func GetActor(c *fiber.Ctx) (authz.Actor, bool) {
	v := c.Locals(LocalActor)
	if v == nil {
		return authz.Actor{}, false
	}
	actor, ok := v.(authz.Actor)
	return actor, ok
}
