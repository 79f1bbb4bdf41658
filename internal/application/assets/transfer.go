package assets

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/activos-cl/patrimonio-api/internal/application/audit"
	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/application/evidence"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// Transfer traslada el activo a un establecimiento distinto de la misma
// institución. Solo ADMIN_CENTRAL. Requiere motivo del vocabulario TRANSFER
// y evidencia obligatoria; ambos confirman en la misma transacción que el
// movimiento TRANSFER.
func (uc *LifecycleUseCase) Transfer(ctx context.Context, actor authz.Actor, assetID string, in TransferInput, ev *evidence.Input) (*Result, error) {
	if err := authz.EnforceCentral(actor); err != nil {
		return nil, err
	}
	asset, err := uc.loadForWrite(actor, assetID)
	if err != nil {
		return nil, err
	}
	if err := requireVigente(asset); err != nil {
		return nil, err
	}
	if in.ToEstablishmentID == asset.EstablishmentID && in.ToDependencyID == asset.DependencyID {
		return nil, domain.NewConflict("ASSET_TRANSFER_SAME_DESTINATION", "el activo ya está en ese destino")
	}
	est, err := uc.estRepo.GetByID(in.ToEstablishmentID)
	if err != nil {
		return nil, err
	}
	if est == nil {
		return nil, domain.NewNotFound("ESTABLISHMENT_NOT_FOUND", "establecimiento destino no encontrado")
	}
	if !est.IsActive {
		return nil, domain.NewConflict("ESTABLISHMENT_ALREADY_INACTIVE", "el establecimiento destino está desactivado")
	}
	if est.InstitutionID != asset.InstitutionID {
		return nil, domain.NewConflict("ASSET_TRANSFER_CROSS_INSTITUTION_FORBIDDEN",
			"el traslado no puede cruzar instituciones")
	}
	dep, err := uc.depRepo.GetByID(in.ToDependencyID)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return nil, domain.NewNotFound("DEPENDENCY_NOT_FOUND", "dependencia destino no encontrada")
	}
	if dep.EstablishmentID != est.ID {
		return nil, domain.NewConflict("DEPENDENCY_NOT_IN_ESTABLISHMENT", "la dependencia no pertenece al establecimiento destino")
	}
	if !dep.IsActive {
		return nil, domain.NewConflict("DEPENDENCY_ALREADY_INACTIVE", "la dependencia destino está desactivada")
	}

	reason, err := evidence.RequireReasonCode(entity.ReasonScopeTransfer, in.ReasonCode)
	if err != nil {
		return nil, err
	}
	parsedEv, err := evidence.ParseRequired(ev, asset.ID, actor.ID)
	if err != nil {
		return nil, err
	}

	before, err := audit.Snapshot(asset)
	if err != nil {
		return nil, err
	}
	fromDep := asset.DependencyID
	asset.EstablishmentID = est.ID
	asset.DependencyID = dep.ID
	asset.UpdatedAt = time.Now()

	var movementID string
	err = uc.txRunner.Run(ctx, func(
		assetRepo repository.AssetRepository,
		movRepo repository.MovementRepository,
		auditRepo repository.AuditRepository,
		evidenceRepo repository.EvidenceRepository,
		_ repository.SequenceRepository,
	) error {
		if err := assetRepo.Update(asset); err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:               uuid.New().String(),
			AssetID:          asset.ID,
			Type:             entity.MovementTypeTransfer,
			ReasonCode:       &reason,
			FromDependencyID: &fromDep,
			ToDependencyID:   &asset.DependencyID,
			UserID:           actor.ID,
			CreatedAt:        asset.UpdatedAt,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		movementID = mov.ID
		parsedEv.MovementID = &mov.ID
		if err := evidenceRepo.Create(parsedEv); err != nil {
			return err
		}
		return audit.Record(auditRepo, entity.AuditActionRelocate, before, asset, actor.ID)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Asset: asset, MovementID: movementID}, nil
}
