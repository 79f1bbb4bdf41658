package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/activos-cl/patrimonio-api/internal/application/assets"
	"github.com/activos-cl/patrimonio-api/internal/application/dto"
	"github.com/activos-cl/patrimonio-api/internal/application/query"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// AssetHandler maneja el ciclo de vida y las lecturas de activos (protegido).
type AssetHandler struct {
	lifecycle *assets.LifecycleUseCase
	queries   *query.UseCase
	metrics   *Metrics
}

// NewAssetHandler construye el handler.
func NewAssetHandler(lifecycle *assets.LifecycleUseCase, queries *query.UseCase, metrics *Metrics) *AssetHandler {
	return &AssetHandler{lifecycle: lifecycle, queries: queries, metrics: metrics}
}

func (h *AssetHandler) operationResponse(c *fiber.Ctx, status int, op string, res *assets.Result) error {
	h.metrics.LifecycleOp(op)
	return c.Status(status).JSON(dto.AssetOperationResponse{
		Asset:      dto.ToAssetResponse(res.Asset),
		MovementID: res.MovementID,
	})
}

// Create godoc
// @Summary      Registrar activo
// @Description  Alta de un bien con correlativo interno asignado por institución. Multipart: parte JSON "data" más evidencia opcional ("evidence", "evidence_doc_type").
// @Tags         assets
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Success      201  {object}  dto.AssetOperationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/assets [post]
func (h *AssetHandler) Create(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var in dto.CreateAssetRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	acquisitionDate, err := parseDate("acquisition_date", in.AcquisitionDate)
	if err != nil {
		return writeError(c, err)
	}
	ev, err := parseEvidenceForm(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.lifecycle.Create(c.Context(), actor, assets.CreateAssetInput{
		Name:             in.Name,
		Quantity:         in.Quantity,
		Brand:            in.Brand,
		Model:            in.Model,
		SerialNumber:     in.SerialNumber,
		AccountingCode:   in.AccountingCode,
		AnalyticCode:     in.AnalyticCode,
		CostCenter:       in.CostCenter,
		ResponsibleName:  in.ResponsibleName,
		ResponsibleRUT:   in.ResponsibleRUT,
		ResponsibleRole:  in.ResponsibleRole,
		AcquisitionValue: in.AcquisitionValue,
		AcquisitionDate:  acquisitionDate,
		AssetTypeID:      in.AssetTypeID,
		AssetStateID:     in.AssetStateID,
		EstablishmentID:  in.EstablishmentID,
		DependencyID:     in.DependencyID,
		CatalogItemID:    in.CatalogItemID,
	}, ev)
	if err != nil {
		return writeError(c, err)
	}
	return h.operationResponse(c, fiber.StatusCreated, "create", res)
}

// Update godoc
// @Summary      Actualizar activo
// @Tags         assets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID del activo"
// @Success      200  {object}  dto.AssetOperationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/assets/{id} [put]
func (h *AssetHandler) Update(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var in dto.UpdateAssetRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	input := assets.UpdateAssetInput{
		Name:             in.Name,
		Quantity:         in.Quantity,
		Brand:            in.Brand,
		Model:            in.Model,
		SerialNumber:     in.SerialNumber,
		AccountingCode:   in.AccountingCode,
		AnalyticCode:     in.AnalyticCode,
		CostCenter:       in.CostCenter,
		ResponsibleName:  in.ResponsibleName,
		ResponsibleRUT:   in.ResponsibleRUT,
		ResponsibleRole:  in.ResponsibleRole,
		AcquisitionValue: in.AcquisitionValue,
		AssetTypeID:      in.AssetTypeID,
		CatalogItemID:    in.CatalogItemID,
	}
	if in.AcquisitionDate != nil {
		t, err := parseDate("acquisition_date", *in.AcquisitionDate)
		if err != nil {
			return writeError(c, err)
		}
		input.AcquisitionDate = &t
	}
	res, err := h.lifecycle.Update(c.Context(), actor, c.Params("id"), input)
	if err != nil {
		return writeError(c, err)
	}
	return h.operationResponse(c, fiber.StatusOK, "update", res)
}

// Relocate godoc
// @Summary      Reubicar activo dentro del establecimiento
// @Tags         assets
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "ID del activo"
// @Success      200  {object}  dto.AssetOperationResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/assets/{id}/relocate [post]
func (h *AssetHandler) Relocate(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var in dto.RelocateAssetRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	res, err := h.lifecycle.Relocate(c.Context(), actor, c.Params("id"), assets.RelocateInput{
		ToDependencyID: in.ToDependencyID,
	})
	if err != nil {
		return writeError(c, err)
	}
	return h.operationResponse(c, fiber.StatusOK, "relocate", res)
}

// Transfer godoc
// @Summary      Trasladar activo entre establecimientos
// @Description  Solo ADMIN_CENTRAL. Multipart: parte JSON "data" (destino y reason_code) más evidencia obligatoria.
// @Tags         assets
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id  path  string  true  "ID del activo"
// @Success      200  {object}  dto.AssetOperationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/assets/{id}/transfer [post]
func (h *AssetHandler) Transfer(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var in dto.TransferAssetRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	ev, err := parseEvidenceForm(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.lifecycle.Transfer(c.Context(), actor, c.Params("id"), assets.TransferInput{
		ToEstablishmentID: in.ToEstablishmentID,
		ToDependencyID:    in.ToDependencyID,
		ReasonCode:        in.ReasonCode,
	}, ev)
	if err != nil {
		return writeError(c, err)
	}
	return h.operationResponse(c, fiber.StatusOK, "transfer", res)
}

// ChangeStatus godoc
// @Summary      Cambiar estado de conservación
// @Description  El paso a BAJA exige reason_code del vocabulario STATUS_CHANGE y evidencia adjunta.
// @Tags         assets
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id  path  string  true  "ID del activo"
// @Success      200  {object}  dto.AssetOperationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/assets/{id}/status [post]
func (h *AssetHandler) ChangeStatus(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var in dto.ChangeStatusRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	ev, err := parseEvidenceForm(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.lifecycle.ChangeStatus(c.Context(), actor, c.Params("id"), assets.ChangeStatusInput{
		AssetStateID: in.AssetStateID,
		ReasonCode:   in.ReasonCode,
	}, ev)
	if err != nil {
		return writeError(c, err)
	}
	return h.operationResponse(c, fiber.StatusOK, "status_change", res)
}

// Restore godoc
// @Summary      Restaurar activo dado de baja
// @Description  Exige reason_code del vocabulario RESTORE. Sin asset_state_id vuelve en estado BUENO.
// @Tags         assets
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id  path  string  true  "ID del activo"
// @Success      200  {object}  dto.AssetOperationResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/assets/{id}/restore [post]
func (h *AssetHandler) Restore(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var in dto.RestoreAssetRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	ev, err := parseEvidenceForm(c)
	if err != nil {
		return writeError(c, err)
	}
	res, err := h.lifecycle.Restore(c.Context(), actor, c.Params("id"), assets.RestoreInput{
		AssetStateID: in.AssetStateID,
		ReasonCode:   in.ReasonCode,
	}, ev)
	if err != nil {
		return writeError(c, err)
	}
	return h.operationResponse(c, fiber.StatusOK, "restore", res)
}

// List godoc
// @Summary      Listar activos
// @Description  El filtro de establecimiento se estrecha al alcance del rol. Search busca en nombre, marca, modelo y serie sin distinguir mayúsculas ni tildes.
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.AssetListResponse
// @Router       /api/assets [get]
func (h *AssetHandler) List(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var in dto.ListAssetsRequest
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
	list, err := h.queries.ListAssets(c.Context(), actor, repository.AssetFilter{
		EstablishmentID: in.EstablishmentID,
		DependencyID:    in.DependencyID,
		AssetStateID:    in.AssetStateID,
		IncludeDeleted:  in.IncludeDeleted,
		Search:          in.Search,
		From:            from,
		To:              to,
		Limit:           in.Limit,
		Offset:          in.Offset,
	})
	if err != nil {
		return writeError(c, err)
	}
	out := dto.AssetListResponse{
		Items: make([]dto.AssetResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset},
	}
	for _, a := range list {
		out.Items = append(out.Items, dto.ToAssetResponse(a))
	}
	return c.JSON(out)
}

// GetByID godoc
// @Summary      Obtener activo
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del activo"
// @Success      200  {object}  dto.AssetResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/assets/{id} [get]
func (h *AssetHandler) GetByID(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	asset, err := h.queries.GetAsset(c.Context(), actor, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ToAssetResponse(asset))
}

// Movements godoc
// @Summary      Historia de movimientos del activo
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del activo"
// @Success      200  {object}  dto.MovementListResponse
// @Router       /api/assets/{id}/movements [get]
func (h *AssetHandler) Movements(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	list, err := h.queries.ListAssetMovements(c.Context(), actor, c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := dto.MovementListResponse{
		Items: make([]dto.MovementResponse, 0, len(list)),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	}
	for _, m := range list {
		out.Items = append(out.Items, dto.ToMovementResponse(m))
	}
	return c.JSON(out)
}

// AttachEvidence godoc
// @Summary      Adjuntar evidencia a un activo
// @Description  Multipart con archivo "evidence" y campo "evidence_doc_type"; movement_id opcional la liga a un movimiento existente.
// @Tags         assets
// @Security     Bearer
// @Accept       multipart/form-data
// @Produce      json
// @Param        id  path  string  true  "ID del activo"
// @Success      201  {object}  dto.EvidenceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/assets/{id}/evidence [post]
func (h *AssetHandler) AttachEvidence(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	ev, err := parseEvidenceForm(c)
	if err != nil {
		return writeError(c, err)
	}
	var movementID *string
	if v := c.FormValue("movement_id"); v != "" {
		movementID = &v
	}
	created, err := h.lifecycle.AttachEvidence(c.Context(), actor, c.Params("id"), movementID, ev)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ToEvidenceResponse(created))
}

// ListEvidence godoc
// @Summary      Listar evidencias del activo
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del activo"
// @Success      200  {array}  dto.EvidenceResponse
// @Router       /api/assets/{id}/evidence [get]
func (h *AssetHandler) ListEvidence(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	list, err := h.queries.ListAssetEvidence(c.Context(), actor, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.EvidenceResponse, 0, len(list))
	for _, e := range list {
		out = append(out, dto.ToEvidenceResponse(e))
	}
	return c.JSON(out)
}

// DownloadEvidence godoc
// @Summary      Descargar evidencia
// @Tags         assets
// @Security     Bearer
// @Produce      octet-stream
// @Param        evidenceId  path  string  true  "ID de la evidencia"
// @Success      200
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/evidence/{evidenceId} [get]
func (h *AssetHandler) DownloadEvidence(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	ev, err := h.queries.GetEvidence(c.Context(), actor, c.Params("evidenceId"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, ev.MimeType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+ev.FileName+`"`)
	return c.Send(ev.Content)
}

// Audit godoc
// @Summary      Rastro de auditoría del activo
// @Tags         assets
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del activo"
// @Success      200  {array}  dto.AuditEntryResponse
// @Router       /api/assets/{id}/audit [get]
func (h *AssetHandler) Audit(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	list, err := h.queries.ListAssetAudit(c.Context(), actor, c.Params("id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.AuditEntryResponse, 0, len(list))
	for _, a := range list {
		out = append(out, dto.AuditEntryResponse{
			ID:        a.ID,
			AssetID:   a.AssetID,
			Action:    a.Action,
			Before:    rawJSON(a.Before),
			After:     rawJSON(a.After),
			UserID:    a.UserID,
			CreatedAt: a.CreatedAt,
		})
	}
	return c.JSON(out)
}
