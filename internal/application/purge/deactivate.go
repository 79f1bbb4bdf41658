package purge

import (
	"context"

	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// UseCase implementa el protocolo destructivo en dos fases sobre el grafo
// Institución → Establecimiento → Dependencia → Activo/Usuario: fase 1
// desactivación lógica con bloqueo por dependientes vigentes, fase 2 plan de
// purga física con confirmación explícita.
type UseCase struct {
	txRunner  TxRunner
	instRepo  repository.InstitutionRepository
	estRepo   repository.EstablishmentRepository
	depRepo   repository.DependencyRepository
	userRepo  repository.UserRepository
	assetRepo repository.AssetRepository
	purgeRepo repository.PurgeRepository
}

// NewUseCase construye el planificador.
func NewUseCase(
	txRunner TxRunner,
	instRepo repository.InstitutionRepository,
	estRepo repository.EstablishmentRepository,
	depRepo repository.DependencyRepository,
	userRepo repository.UserRepository,
	assetRepo repository.AssetRepository,
	purgeRepo repository.PurgeRepository,
) *UseCase {
	return &UseCase{
		txRunner:  txRunner,
		instRepo:  instRepo,
		estRepo:   estRepo,
		depRepo:   depRepo,
		userRepo:  userRepo,
		assetRepo: assetRepo,
		purgeRepo: purgeRepo,
	}
}

// DeactivateResult resultado de una desactivación de fase 1.
type DeactivateResult struct {
	AutoDeactivatedDependencies int
}

// DeactivateInstitution desactiva una institución. Bloquea si tiene
// establecimientos vigentes. Desactivar lo ya inactivo es conflicto: los
// cambios de estado deben ser observablemente significativos.
func (uc *UseCase) DeactivateInstitution(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.EnforceCentral(actor); err != nil {
		return err
	}
	inst, err := uc.instRepo.GetByID(id)
	if err != nil {
		return err
	}
	if inst == nil {
		return domain.NewNotFound("INSTITUTION_NOT_FOUND", "institución no encontrada")
	}
	if err := authz.EnforceInstitutionScope(actor, inst.ID); err != nil {
		return err
	}
	if !inst.IsActive {
		return domain.NewConflict("INSTITUTION_ALREADY_INACTIVE", "la institución ya está desactivada")
	}
	active, err := uc.instRepo.CountActiveEstablishments(id)
	if err != nil {
		return err
	}
	if active > 0 {
		return domain.NewConflict("INSTITUTION_HAS_ACTIVE_ESTABLISHMENTS",
			"la institución tiene establecimientos vigentes").
			WithDetails(map[string]any{"activeEstablishments": active})
	}
	return uc.instRepo.SetActive(id, false)
}

// ReactivateInstitution reactiva una institución desactivada.
func (uc *UseCase) ReactivateInstitution(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.EnforceCentral(actor); err != nil {
		return err
	}
	inst, err := uc.instRepo.GetByID(id)
	if err != nil {
		return err
	}
	if inst == nil {
		return domain.NewNotFound("INSTITUTION_NOT_FOUND", "institución no encontrada")
	}
	if inst.IsActive {
		return domain.NewConflict("INSTITUTION_ALREADY_ACTIVE", "la institución ya está activa")
	}
	return uc.instRepo.SetActive(id, true)
}

// DeactivateEstablishment desactiva un establecimiento. Exige cero usuarios
// vigentes y cero activos vigentes bajo él; sus dependencias vigentes (ya sin
// activos) se auto-desactivan en la misma transacción. Si algo bloquea, no se
// muta ninguna fila.
func (uc *UseCase) DeactivateEstablishment(ctx context.Context, actor authz.Actor, id string) (*DeactivateResult, error) {
	if err := authz.EnforceCentral(actor); err != nil {
		return nil, err
	}
	est, err := uc.estRepo.GetByID(id)
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
		return nil, domain.NewConflict("ESTABLISHMENT_ALREADY_INACTIVE", "el establecimiento ya está desactivado")
	}
	activeUsers, err := uc.userRepo.CountActiveByEstablishment(id)
	if err != nil {
		return nil, err
	}
	if activeUsers > 0 {
		return nil, domain.NewConflict("ESTABLISHMENT_HAS_ACTIVE_USERS",
			"el establecimiento tiene usuarios vigentes").
			WithDetails(map[string]any{"activeUsers": activeUsers})
	}
	activeAssets, err := uc.assetRepo.CountActiveByEstablishment(id)
	if err != nil {
		return nil, err
	}
	if activeAssets > 0 {
		return nil, domain.NewConflict("ESTABLISHMENT_HAS_ACTIVE_ASSETS",
			"el establecimiento tiene activos vigentes en sus dependencias").
			WithDetails(map[string]any{"activeAssets": activeAssets})
	}
	activeDeps, err := uc.depRepo.ListActiveByEstablishment(id)
	if err != nil {
		return nil, err
	}

	result := &DeactivateResult{}
	err = uc.txRunner.RunOrg(ctx, func(
		estRepo repository.EstablishmentRepository,
		depRepo repository.DependencyRepository,
	) error {
		for _, dep := range activeDeps {
			if err := depRepo.SetActive(dep.ID, false); err != nil {
				return err
			}
			result.AutoDeactivatedDependencies++
		}
		return estRepo.SetActive(id, false)
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// ReactivateEstablishment reactiva un establecimiento desactivado. Las
// dependencias auto-desactivadas no se reactivan en cascada: cada una se
// reactiva explícitamente.
func (uc *UseCase) ReactivateEstablishment(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.EnforceCentral(actor); err != nil {
		return err
	}
	est, err := uc.estRepo.GetByID(id)
	if err != nil {
		return err
	}
	if est == nil {
		return domain.NewNotFound("ESTABLISHMENT_NOT_FOUND", "establecimiento no encontrado")
	}
	if err := authz.EnforceInstitutionScope(actor, est.InstitutionID); err != nil {
		return err
	}
	if est.IsActive {
		return domain.NewConflict("ESTABLISHMENT_ALREADY_ACTIVE", "el establecimiento ya está activo")
	}
	return uc.estRepo.SetActive(id, true)
}

// DeactivateDependency desactiva una dependencia sin activos vigentes.
// ADMIN_ESTABLISHMENT puede desactivar dependencias de su establecimiento.
func (uc *UseCase) DeactivateDependency(ctx context.Context, actor authz.Actor, id string) error {
	dep, err := uc.depRepo.GetByID(id)
	if err != nil {
		return err
	}
	if dep == nil {
		return domain.NewNotFound("DEPENDENCY_NOT_FOUND", "dependencia no encontrada")
	}
	if err := authz.EnforceEstablishmentScope(actor, dep.EstablishmentID); err != nil {
		return err
	}
	if err := uc.enforceDependencyInstitution(actor, dep.EstablishmentID); err != nil {
		return err
	}
	if !dep.IsActive {
		return domain.NewConflict("DEPENDENCY_ALREADY_INACTIVE", "la dependencia ya está desactivada")
	}
	activeAssets, err := uc.assetRepo.CountActiveByDependency(id)
	if err != nil {
		return err
	}
	if activeAssets > 0 {
		return domain.NewConflict("DEPENDENCY_HAS_ACTIVE_ASSETS",
			"la dependencia tiene activos vigentes").
			WithDetails(map[string]any{"activeAssets": activeAssets})
	}
	return uc.depRepo.SetActive(id, false)
}

// ReactivateDependency reactiva una dependencia desactivada.
func (uc *UseCase) ReactivateDependency(ctx context.Context, actor authz.Actor, id string) error {
	dep, err := uc.depRepo.GetByID(id)
	if err != nil {
		return err
	}
	if dep == nil {
		return domain.NewNotFound("DEPENDENCY_NOT_FOUND", "dependencia no encontrada")
	}
	if err := authz.EnforceEstablishmentScope(actor, dep.EstablishmentID); err != nil {
		return err
	}
	if err := uc.enforceDependencyInstitution(actor, dep.EstablishmentID); err != nil {
		return err
	}
	if dep.IsActive {
		return domain.NewConflict("DEPENDENCY_ALREADY_ACTIVE", "la dependencia ya está activa")
	}
	return uc.depRepo.SetActive(id, true)
}

// enforceDependencyInstitution verifica que el establecimiento padre de la
// dependencia pertenezca a la institución del actor. El chequeo por
// establecimiento no basta para un ADMIN_CENTRAL: su alcance cruza
// establecimientos pero nunca instituciones.
func (uc *UseCase) enforceDependencyInstitution(actor authz.Actor, establishmentID string) error {
	est, err := uc.estRepo.GetByID(establishmentID)
	if err != nil {
		return err
	}
	if est == nil {
		return domain.NewNotFound("ESTABLISHMENT_NOT_FOUND", "establecimiento no encontrado")
	}
	return authz.EnforceInstitutionScope(actor, est.InstitutionID)
}

// DeactivateUser desactiva un usuario.
func (uc *UseCase) DeactivateUser(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.EnforceCentral(actor); err != nil {
		return err
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFound("USER_NOT_FOUND", "usuario no encontrado")
	}
	if err := authz.EnforceInstitutionScope(actor, user.InstitutionID); err != nil {
		return err
	}
	if !user.IsActive {
		return domain.NewConflict("USER_ALREADY_INACTIVE", "el usuario ya está desactivado")
	}
	return uc.userRepo.SetActive(id, false)
}

// ReactivateUser reactiva un usuario desactivado.
func (uc *UseCase) ReactivateUser(ctx context.Context, actor authz.Actor, id string) error {
	if err := authz.EnforceCentral(actor); err != nil {
		return err
	}
	user, err := uc.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NewNotFound("USER_NOT_FOUND", "usuario no encontrado")
	}
	if err := authz.EnforceInstitutionScope(actor, user.InstitutionID); err != nil {
		return err
	}
	if user.IsActive {
		return domain.NewConflict("USER_ALREADY_ACTIVE", "el usuario ya está activo")
	}
	return uc.userRepo.SetActive(id, true)
}

// ensureDeactivated verifica que la raíz exista y esté desactivada: la fase 2
// solo procede después de la fase 1.
func (uc *UseCase) ensureDeactivated(kind, id string) error {
	var active bool
	switch kind {
	case KindInstitution:
		inst, err := uc.instRepo.GetByID(id)
		if err != nil {
			return err
		}
		if inst == nil {
			return domain.NewNotFound("INSTITUTION_NOT_FOUND", "institución no encontrada")
		}
		active = inst.IsActive
	case KindEstablishment:
		est, err := uc.estRepo.GetByID(id)
		if err != nil {
			return err
		}
		if est == nil {
			return domain.NewNotFound("ESTABLISHMENT_NOT_FOUND", "establecimiento no encontrado")
		}
		active = est.IsActive
	case KindDependency:
		dep, err := uc.depRepo.GetByID(id)
		if err != nil {
			return err
		}
		if dep == nil {
			return domain.NewNotFound("DEPENDENCY_NOT_FOUND", "dependencia no encontrada")
		}
		active = dep.IsActive
	case KindUser:
		user, err := uc.userRepo.GetByID(id)
		if err != nil {
			return err
		}
		if user == nil {
			return domain.NewNotFound("USER_NOT_FOUND", "usuario no encontrado")
		}
		active = user.IsActive
	default:
		return domain.NewValidation("FORCE_DELETE_UNKNOWN_KIND", "tipo de raíz de purga desconocido: "+kind)
	}
	if active {
		return domain.NewConflict("FORCE_DELETE_REQUIRES_DEACTIVATION",
			"la purga física requiere desactivación lógica previa")
	}
	return nil
}
