package assets

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/activos-cl/patrimonio-api/internal/application/audit"
	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// Relocate mueve el activo a otra dependencia del mismo establecimiento.
// La reubicación a la misma dependencia y el cruce de establecimiento son
// conflictos (peticiones legítimas que violan un invariante), no errores de
// validación. Emite RELOCATION.
func (uc *LifecycleUseCase) Relocate(ctx context.Context, actor authz.Actor, assetID string, in RelocateInput) (*Result, error) {
	asset, err := uc.loadForWrite(actor, assetID)
	if err != nil {
		return nil, err
	}
	if err := requireVigente(asset); err != nil {
		return nil, err
	}
	if in.ToDependencyID == asset.DependencyID {
		return nil, domain.NewConflict("ASSET_RELOCATE_SAME_DEPENDENCY", "el activo ya está en esa dependencia")
	}
	dep, err := uc.depRepo.GetByID(in.ToDependencyID)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return nil, domain.NewNotFound("DEPENDENCY_NOT_FOUND", "dependencia destino no encontrada")
	}
	if dep.EstablishmentID != asset.EstablishmentID {
		return nil, domain.NewConflict("ASSET_RELOCATE_CROSS_ESTABLISHMENT_FORBIDDEN",
			"la reubicación no puede cruzar establecimientos; use traslado")
	}
	if !dep.IsActive {
		return nil, domain.NewConflict("DEPENDENCY_ALREADY_INACTIVE", "la dependencia destino está desactivada")
	}

	before, err := audit.Snapshot(asset)
	if err != nil {
		return nil, err
	}
	fromDep := asset.DependencyID
	asset.DependencyID = dep.ID
	asset.UpdatedAt = time.Now()

	var movementID string
	err = uc.txRunner.Run(ctx, func(
		assetRepo repository.AssetRepository,
		movRepo repository.MovementRepository,
		auditRepo repository.AuditRepository,
		_ repository.EvidenceRepository,
		_ repository.SequenceRepository,
	) error {
		if err := assetRepo.Update(asset); err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:               uuid.New().String(),
			AssetID:          asset.ID,
			Type:             entity.MovementTypeRelocation,
			FromDependencyID: &fromDep,
			ToDependencyID:   &asset.DependencyID,
			UserID:           actor.ID,
			CreatedAt:        asset.UpdatedAt,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		movementID = mov.ID
		return audit.Record(auditRepo, entity.AuditActionRelocate, before, asset, actor.ID)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Asset: asset, MovementID: movementID}, nil
}
