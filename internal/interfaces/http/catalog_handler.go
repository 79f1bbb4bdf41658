package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/activos-cl/patrimonio-api/internal/application/dto"
	"github.com/activos-cl/patrimonio-api/internal/application/query"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// CatalogHandler lecturas de catálogos y del libro de movimientos (protegido).
type CatalogHandler struct {
	queries *query.UseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(queries *query.UseCase) *CatalogHandler {
	return &CatalogHandler{queries: queries}
}

// AssetTypes godoc
// @Summary      Listar tipos de activo
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CatalogEntryResponse
// @Router       /api/catalogs/asset-types [get]
func (h *CatalogHandler) AssetTypes(c *fiber.Ctx) error {
	list, err := h.queries.ListAssetTypes(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.CatalogEntryResponse, 0, len(list))
	for _, t := range list {
		out = append(out, dto.CatalogEntryResponse{ID: t.ID, Name: t.Name})
	}
	return c.JSON(out)
}

// AssetStates godoc
// @Summary      Listar estados de activo
// @Tags         catalogs
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.CatalogEntryResponse
// @Router       /api/catalogs/asset-states [get]
func (h *CatalogHandler) AssetStates(c *fiber.Ctx) error {
	list, err := h.queries.ListAssetStates(c.Context())
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.CatalogEntryResponse, 0, len(list))
	for _, s := range list {
		out = append(out, dto.CatalogEntryResponse{ID: s.ID, Code: s.Code, Name: s.Name})
	}
	return c.JSON(out)
}

// Movements godoc
// @Summary      Listar el libro de movimientos
// @Description  Filtros por activo, establecimiento actual, tipo y rango de fechas; el alcance del rol estrecha el resultado.
// @Tags         movements
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/movements [get]
func (h *CatalogHandler) Movements(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	in.DefaultPage()
	from, err := parseDatePtr("from", in.From)
	if err != nil {
		return writeError(c, err)
	}
	to, err := parseDatePtr("to", in.To)
	if err != nil {
		return writeError(c, err)
	}
	list, err := h.queries.ListMovements(c.Context(), actor, repository.MovementFilter{
		AssetID:         in.AssetID,
		EstablishmentID: in.EstablishmentID,
		Type:            in.Type,
		From:            from,
		To:              to,
		Limit:           in.Limit,
		Offset:          in.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}
