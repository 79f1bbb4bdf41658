package org

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/application/rules"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// UseCase administra la jerarquía organizacional (institución,
// establecimiento, dependencia) y las cuentas de usuario. La desactivación y
// el borrado forzado viven en el paquete purge; aquí solo altas y lecturas.
type UseCase struct {
	instRepo  repository.InstitutionRepository
	estRepo   repository.EstablishmentRepository
	depRepo   repository.DependencyRepository
	userRepo  repository.UserRepository
	validator *rules.Validator
}

// NewUseCase construye el caso de uso organizacional.
func NewUseCase(
	instRepo repository.InstitutionRepository,
	estRepo repository.EstablishmentRepository,
	depRepo repository.DependencyRepository,
	userRepo repository.UserRepository,
	validator *rules.Validator,
) *UseCase {
	return &UseCase{
		instRepo:  instRepo,
		estRepo:   estRepo,
		depRepo:   depRepo,
		userRepo:  userRepo,
		validator: validator,
	}
}

// CreateInstitutionInput datos de alta de una institución.
type CreateInstitutionInput struct {
	Name string
	RUT  string
}

// CreateInstitution da de alta una institución. Operación de plataforma:
// solo ADMIN_CENTRAL.
func (uc *UseCase) CreateInstitution(ctx context.Context, actor authz.Actor, in CreateInstitutionInput) (*entity.Institution, error) {
	if err := authz.EnforceCentral(actor); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidation("INSTITUTION_NAME_REQUIRED", "el nombre de la institución es obligatorio")
	}
	rut, err := uc.validator.NormalizeRUT(in.RUT)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	inst := &entity.Institution{
		ID:        uuid.New().String(),
		Name:      name,
		RUT:       rut,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.instRepo.Create(inst); err != nil {
		return nil, err
	}
	return inst, nil
}

// CreateEstablishmentInput datos de alta de un establecimiento.
type CreateEstablishmentInput struct {
	InstitutionID string
	Name          string
	Address       string
}

// CreateEstablishment da de alta un establecimiento bajo la institución del
// actor.
func (uc *UseCase) CreateEstablishment(ctx context.Context, actor authz.Actor, in CreateEstablishmentInput) (*entity.Establishment, error) {
	if err := authz.EnforceCentral(actor); err != nil {
		return nil, err
	}
	if err := authz.EnforceInstitutionScope(actor, in.InstitutionID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidation("ESTABLISHMENT_NAME_REQUIRED", "el nombre del establecimiento es obligatorio")
	}
	inst, err := uc.instRepo.GetByID(in.InstitutionID)
	if err != nil {
		return nil, err
	}
	if inst == nil {
		return nil, domain.NewNotFound("INSTITUTION_NOT_FOUND", "institución no encontrada")
	}
	if !inst.IsActive {
		return nil, domain.NewConflict("INSTITUTION_ALREADY_INACTIVE", "la institución está desactivada")
	}
	now := time.Now()
	est := &entity.Establishment{
		ID:            uuid.New().String(),
		InstitutionID: in.InstitutionID,
		Name:          name,
		Address:       strings.TrimSpace(in.Address),
		IsActive:      true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := uc.estRepo.Create(est); err != nil {
		return nil, err
	}
	return est, nil
}

// CreateDependencyInput datos de alta de una dependencia.
type CreateDependencyInput struct {
	EstablishmentID string
	Name            string
	Floor           string
}

// CreateDependency da de alta una dependencia. Un ADMIN_ESTABLISHMENT puede
// crear dependencias solo dentro de su propio establecimiento.
func (uc *UseCase) CreateDependency(ctx context.Context, actor authz.Actor, in CreateDependencyInput) (*entity.Dependency, error) {
	if err := authz.EnforceEstablishmentScope(actor, in.EstablishmentID); err != nil {
		return nil, err
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, domain.NewValidation("DEPENDENCY_NAME_REQUIRED", "el nombre de la dependencia es obligatorio")
	}
	est, err := uc.estRepo.GetByID(in.EstablishmentID)
	if err != nil {
		return nil, err
	}
	if est == nil {
		return nil, domain.NewNotFound("ESTABLISHMENT_NOT_FOUND", "establecimiento no encontrado")
	}
	if err := authz.EnforceInstitutionScope(actor, est.InstitutionID); err != nil {
		return nil, err
	}
	if !est.IsActive {
		return nil, domain.NewConflict("ESTABLISHMENT_ALREADY_INACTIVE", "el establecimiento está desactivado")
	}
	now := time.Now()
	dep := &entity.Dependency{
		ID:              uuid.New().String(),
		EstablishmentID: in.EstablishmentID,
		Name:            name,
		Floor:           strings.TrimSpace(in.Floor),
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.depRepo.Create(dep); err != nil {
		return nil, err
	}
	return dep, nil
}

// CreateUserInput datos de alta de un usuario.
type CreateUserInput struct {
	InstitutionID   string
	EstablishmentID *string
	Email           string
	Password        string
	Name            string
	RUT             string
	Role            string
}

// CreateUser da de alta un usuario de la institución. El rol
// ADMIN_ESTABLISHMENT exige establecimiento asignado; ADMIN_CENTRAL no lleva.
func (uc *UseCase) CreateUser(ctx context.Context, actor authz.Actor, in CreateUserInput) (*entity.User, error) {
	if err := authz.EnforceCentral(actor); err != nil {
		return nil, err
	}
	if err := authz.EnforceInstitutionScope(actor, in.InstitutionID); err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return nil, domain.NewValidation("USER_EMAIL_REQUIRED", "el email es obligatorio")
	}
	if len(in.Password) < 8 {
		return nil, domain.NewValidation("USER_PASSWORD_TOO_SHORT", "la contraseña debe tener al menos 8 caracteres")
	}
	switch in.Role {
	case entity.RoleAdminCentral:
		in.EstablishmentID = nil
	case entity.RoleAdminEstablishment, entity.RoleViewer:
		if in.EstablishmentID == nil || *in.EstablishmentID == "" {
			return nil, domain.NewValidation("ROLE_WITHOUT_ESTABLISHMENT", "el rol requiere un establecimiento asignado")
		}
		est, err := uc.estRepo.GetByID(*in.EstablishmentID)
		if err != nil {
			return nil, err
		}
		if est == nil || est.InstitutionID != in.InstitutionID {
			return nil, domain.NewNotFound("ESTABLISHMENT_NOT_FOUND", "establecimiento no encontrado")
		}
	default:
		return nil, domain.NewValidation("UNKNOWN_ROLE", "rol desconocido: "+in.Role)
	}
	rut, err := uc.validator.NormalizeRUT(in.RUT)
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	user := &entity.User{
		ID:              uuid.New().String(),
		InstitutionID:   in.InstitutionID,
		EstablishmentID: in.EstablishmentID,
		Email:           email,
		PasswordHash:    string(hash),
		Name:            strings.TrimSpace(in.Name),
		RUT:             rut,
		Role:            in.Role,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := uc.userRepo.Create(user); err != nil {
		return nil, err
	}
	return user, nil
}

// ListEstablishments lista los establecimientos de la institución del actor.
func (uc *UseCase) ListEstablishments(ctx context.Context, actor authz.Actor, limit, offset int) ([]*entity.Establishment, error) {
	if limit <= 0 {
		limit = 20
	}
	return uc.estRepo.ListByInstitution(actor.InstitutionID, limit, offset)
}

// ListDependencies lista las dependencias de un establecimiento visible. Un
// establecimiento de otra institución es invisible incluso para ADMIN_CENTRAL:
// se responde vacío, no error.
func (uc *UseCase) ListDependencies(ctx context.Context, actor authz.Actor, establishmentID string, limit, offset int) ([]*entity.Dependency, error) {
	if !authz.CanReadEstablishment(actor, establishmentID) {
		return []*entity.Dependency{}, nil
	}
	est, err := uc.estRepo.GetByID(establishmentID)
	if err != nil {
		return nil, err
	}
	if est == nil || est.InstitutionID != actor.InstitutionID {
		return []*entity.Dependency{}, nil
	}
	if limit <= 0 {
		limit = 20
	}
	return uc.depRepo.ListByEstablishment(establishmentID, limit, offset)
}

// ListUsers lista los usuarios de la institución del actor (solo ADMIN_CENTRAL).
func (uc *UseCase) ListUsers(ctx context.Context, actor authz.Actor, limit, offset int) ([]*entity.User, error) {
	if err := authz.EnforceCentral(actor); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	return uc.userRepo.ListByInstitution(actor.InstitutionID, limit, offset)
}
