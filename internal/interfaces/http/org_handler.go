package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/activos-cl/patrimonio-api/internal/application/auth"
	"github.com/activos-cl/patrimonio-api/internal/application/dto"
	"github.com/activos-cl/patrimonio-api/internal/application/org"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
)

// OrgHandler maneja la jerarquía organizacional y las cuentas de usuario
// (protegido). La desactivación y la purga viven en PurgeHandler.
type OrgHandler struct {
	orgUC *org.UseCase
}

// NewOrgHandler construye el handler.
func NewOrgHandler(orgUC *org.UseCase) *OrgHandler {
	return &OrgHandler{orgUC: orgUC}
}

func toInstitutionResponse(i *entity.Institution) dto.InstitutionResponse {
	return dto.InstitutionResponse{
		ID: i.ID, Name: i.Name, RUT: i.RUT, IsActive: i.IsActive,
		CreatedAt: i.CreatedAt, UpdatedAt: i.UpdatedAt,
	}
}

func toEstablishmentResponse(e *entity.Establishment) dto.EstablishmentResponse {
	return dto.EstablishmentResponse{
		ID: e.ID, InstitutionID: e.InstitutionID, Name: e.Name, Address: e.Address,
		IsActive: e.IsActive, CreatedAt: e.CreatedAt, UpdatedAt: e.UpdatedAt,
	}
}

func toDependencyResponse(d *entity.Dependency) dto.DependencyResponse {
	return dto.DependencyResponse{
		ID: d.ID, EstablishmentID: d.EstablishmentID, Name: d.Name, Floor: d.Floor,
		IsActive: d.IsActive, CreatedAt: d.CreatedAt, UpdatedAt: d.UpdatedAt,
	}
}

// CreateInstitution godoc
// @Summary      Crear institución
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.InstitutionResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/institutions [post]
func (h *OrgHandler) CreateInstitution(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var in dto.CreateInstitutionRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	inst, err := h.orgUC.CreateInstitution(c.Context(), actor, org.CreateInstitutionInput{Name: in.Name, RUT: in.RUT})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInstitutionResponse(inst))
}

// CreateEstablishment godoc
// @Summary      Crear establecimiento
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.EstablishmentResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/establishments [post]
func (h *OrgHandler) CreateEstablishment(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var in dto.CreateEstablishmentRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	est, err := h.orgUC.CreateEstablishment(c.Context(), actor, org.CreateEstablishmentInput{
		InstitutionID: in.InstitutionID, Name: in.Name, Address: in.Address,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEstablishmentResponse(est))
}

// ListEstablishments godoc
// @Summary      Listar establecimientos de la institución
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.EstablishmentResponse
// @Router       /api/establishments [get]
func (h *OrgHandler) ListEstablishments(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	list, err := h.orgUC.ListEstablishments(c.Context(), actor, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.EstablishmentResponse, 0, len(list))
	for _, e := range list {
		out = append(out, toEstablishmentResponse(e))
	}
	return c.JSON(out)
}

// CreateDependency godoc
// @Summary      Crear dependencia
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.DependencyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/dependencies [post]
func (h *OrgHandler) CreateDependency(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var in dto.CreateDependencyRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	dep, err := h.orgUC.CreateDependency(c.Context(), actor, org.CreateDependencyInput{
		EstablishmentID: in.EstablishmentID, Name: in.Name, Floor: in.Floor,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toDependencyResponse(dep))
}

// ListDependencies godoc
// @Summary      Listar dependencias de un establecimiento
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Param        establishmentId  path  string  true  "ID del establecimiento"
// @Success      200  {array}  dto.DependencyResponse
// @Router       /api/establishments/{establishmentId}/dependencies [get]
func (h *OrgHandler) ListDependencies(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	list, err := h.orgUC.ListDependencies(c.Context(), actor, c.Params("establishmentId"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.DependencyResponse, 0, len(list))
	for _, d := range list {
		out = append(out, toDependencyResponse(d))
	}
	return c.JSON(out)
}

// CreateUser godoc
// @Summary      Crear usuario
// @Tags         org
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Success      201  {object}  dto.UserResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/users [post]
func (h *OrgHandler) CreateUser(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var in dto.CreateUserRequest
	if err := parseBody(c, &in); err != nil {
		return writeError(c, err)
	}
	user, err := h.orgUC.CreateUser(c.Context(), actor, org.CreateUserInput{
		InstitutionID:   in.InstitutionID,
		EstablishmentID: in.EstablishmentID,
		Email:           in.Email,
		Password:        in.Password,
		Name:            in.Name,
		RUT:             in.RUT,
		Role:            in.Role,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(auth.ToUserResponse(user))
}

// ListUsers godoc
// @Summary      Listar usuarios de la institución
// @Tags         org
// @Security     Bearer
// @Produce      json
// @Success      200  {array}  dto.UserResponse
// @Router       /api/users [get]
func (h *OrgHandler) ListUsers(c *fiber.Ctx) error {
	actor, ok := GetActor(c)
	if !ok {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "actor no resuelto"})
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "query inválida"})
	}
	page.DefaultPage()
	list, err := h.orgUC.ListUsers(c.Context(), actor, page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.UserResponse, 0, len(list))
	for _, u := range list {
		out = append(out, *auth.ToUserResponse(u))
	}
	return c.JSON(out)
}
