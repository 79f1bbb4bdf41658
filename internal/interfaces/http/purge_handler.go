package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/activos-cl/patrimonio-api/internal/application/dto"
	"github.com/activos-cl/patrimonio-api/internal/application/purge"
)

// PurgeHandler maneja desactivación, reactivación y borrado forzado en dos
// fases (protegido).
type PurgeHandler struct {
	uc *purge.UseCase
}

// NewPurgeHandler construye el handler.
func NewPurgeHandler(uc *purge.UseCase) *PurgeHandler {
	return &PurgeHandler{uc: uc}
}

// purgeKinds mapea el segmento de ruta al tipo de raíz del planificador.
var purgeKinds = map[string]string{
	"institution":   purge.KindInstitution,
	"establishment": purge.KindEstablishment,
	"dependency":    purge.KindDependency,
	"user":          purge.KindUser,
}

func parseKind(c *fiber.Ctx) (string, error) {
	kind, ok := purgeKinds[c.Params("kind")]
	if !ok {
		return "", c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Code:    "INVALID_PURGE_KIND",
			Message: "kind debe ser institution, establishment, dependency o user",
		})
	}
	return kind, nil
}

// DeactivateInstitution godoc
// @Summary      Desactivar institución
// @Tags         purge
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.DeactivateResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/institutions/{id}/deactivate [post]
func (h *PurgeHandler) DeactivateInstitution(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	id := c.Params("id")
	if err := h.uc.DeactivateInstitution(c.Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeactivateResponse{ID: id, IsActive: false})
}

// ReactivateInstitution reactiva una institución desactivada.
func (h *PurgeHandler) ReactivateInstitution(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	id := c.Params("id")
	if err := h.uc.ReactivateInstitution(c.Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeactivateResponse{ID: id, IsActive: true})
}

// DeactivateEstablishment godoc
// @Summary      Desactivar establecimiento
// @Description  Rechaza si quedan usuarios o activos vigentes; las dependencias vacías se desactivan en cascada.
// @Tags         purge
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID"
// @Success      200  {object}  dto.DeactivateResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/establishments/{id}/deactivate [post]
func (h *PurgeHandler) DeactivateEstablishment(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	id := c.Params("id")
	res, err := h.uc.DeactivateEstablishment(c.Context(), actor, id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeactivateResponse{
		ID:                          id,
		IsActive:                    false,
		AutoDeactivatedDependencies: res.AutoDeactivatedDependencies,
	})
}

// ReactivateEstablishment reactiva un establecimiento desactivado.
func (h *PurgeHandler) ReactivateEstablishment(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	id := c.Params("id")
	if err := h.uc.ReactivateEstablishment(c.Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeactivateResponse{ID: id, IsActive: true})
}

// DeactivateDependency desactiva una dependencia sin activos vigentes.
func (h *PurgeHandler) DeactivateDependency(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	id := c.Params("id")
	if err := h.uc.DeactivateDependency(c.Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeactivateResponse{ID: id, IsActive: false})
}

// ReactivateDependency reactiva una dependencia desactivada.
func (h *PurgeHandler) ReactivateDependency(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	id := c.Params("id")
	if err := h.uc.ReactivateDependency(c.Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeactivateResponse{ID: id, IsActive: true})
}

// DeactivateUser desactiva una cuenta de usuario.
func (h *PurgeHandler) DeactivateUser(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	id := c.Params("id")
	if err := h.uc.DeactivateUser(c.Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeactivateResponse{ID: id, IsActive: false})
}

// ReactivateUser reactiva una cuenta desactivada.
func (h *PurgeHandler) ReactivateUser(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	id := c.Params("id")
	if err := h.uc.ReactivateUser(c.Context(), actor, id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.DeactivateResponse{ID: id, IsActive: true})
}

// Plan godoc
// @Summary      Planificar borrado forzado
// @Description  Fase 1: recorre el grafo de dependencias y devuelve el resumen de filas a borrar más la literal de confirmación. No borra nada.
// @Tags         purge
// @Security     Bearer
// @Produce      json
// @Param        kind  path  string  true  "institution | establishment | dependency | user"
// @Param        id    path  string  true  "ID de la raíz"
// @Success      200  {object}  dto.ForceDeletePlanResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purge/{kind}/{id}/plan [get]
func (h *PurgeHandler) Plan(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	kind, err := parseKind(c)
	if kind == "" {
		return err
	}
	plan, err := h.uc.PlanForceDelete(c.Context(), actor, kind, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ForceDeletePlanResponse{
		RootKind:         plan.RootKind,
		RootID:           plan.RootID,
		Summary:          plan.Summary,
		ConfirmationText: plan.ConfirmationText,
	})
}

// Execute godoc
// @Summary      Ejecutar borrado forzado
// @Description  Fase 2: exige la literal de confirmación devuelta por el plan y purga hijos-primero en una transacción.
// @Tags         purge
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path  string  true  "institution | establishment | dependency | user"
// @Param        id    path  string  true  "ID de la raíz"
// @Param        body  body  dto.ForceDeleteRequest  true  "confirmation_text"
// @Success      200  {object}  dto.ForceDeleteResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/purge/{kind}/{id} [post]
func (h *PurgeHandler) Execute(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	kind, err := parseKind(c)
	if kind == "" {
		return err
	}
	var in dto.ForceDeleteRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	deleted, err := h.uc.ExecuteForceDelete(c.Context(), actor, kind, c.Params("id"), in.ConfirmationText)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ForceDeleteResponse{Deleted: deleted})
}
