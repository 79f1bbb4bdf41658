package assets

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/activos-cl/patrimonio-api/internal/application/audit"
	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/application/evidence"
	"github.com/activos-cl/patrimonio-api/internal/application/rules"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// Restore reincorpora un activo dado de baja. Solo válido sobre activos
// dados de baja; el estado destino no puede ser BAJA (por defecto BUENO).
// Requiere motivo del vocabulario RESTORE y evidencia. Emite STATUS_CHANGE:
// comparte tipo de movimiento con el cambio de estado y se distingue por el
// vocabulario del motivo y el estado resultante.
func (uc *LifecycleUseCase) Restore(ctx context.Context, actor authz.Actor, assetID string, in RestoreInput, ev *evidence.Input) (*Result, error) {
	asset, err := uc.loadForWrite(actor, assetID)
	if err != nil {
		return nil, err
	}
	if asset.Lifecycle() != entity.LifecycleDecommissioned {
		return nil, domain.NewConflict("ASSET_RESTORE_NOT_DELETED", "el activo no está dado de baja")
	}

	var targetState *entity.AssetState
	if in.AssetStateID == "" {
		targetState, err = uc.catalogRepo.GetAssetStateByCode(entity.AssetStateBueno)
	} else {
		targetState, err = uc.catalogRepo.GetAssetStateByID(in.AssetStateID)
	}
	if err != nil {
		return nil, err
	}
	if targetState == nil {
		return nil, domain.NewNotFound("ASSET_STATE_NOT_FOUND", "estado de activo no encontrado")
	}
	if targetState.Code == entity.AssetStateBaja {
		return nil, domain.NewValidation("ASSET_RESTORE_INVALID_STATE", "el estado destino de una restauración no puede ser BAJA")
	}

	reason, err := evidence.RequireReasonCode(entity.ReasonScopeRestore, in.ReasonCode)
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
	now := time.Now()
	asset.AssetStateID = targetState.ID
	asset.IsDeleted = false
	asset.DeletedAt = nil
	asset.DeletedBy = nil
	asset.UpdatedAt = now

	var movementID string
	err = uc.txRunner.Run(ctx, func(
		assetRepo repository.AssetRepository,
		movRepo repository.MovementRepository,
		auditRepo repository.AuditRepository,
		evidenceRepo repository.EvidenceRepository,
		_ repository.SequenceRepository,
	) error {
		// Al reincorporarse, el activo vuelve a reclamar su tríada de
		// identidad; otro activo pudo ocuparla durante la baja.
		if err := rules.EnsureUniqueAssetIdentity(assetRepo, asset.InstitutionID, asset.SerialNumber, asset.Brand, asset.Model, asset.ID); err != nil {
			return err
		}
		if err := assetRepo.Update(asset); err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:               uuid.New().String(),
			AssetID:          asset.ID,
			Type:             entity.MovementTypeStatusChange,
			ReasonCode:       &reason,
			FromDependencyID: &asset.DependencyID,
			ToDependencyID:   &asset.DependencyID,
			UserID:           actor.ID,
			CreatedAt:        now,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		movementID = mov.ID
		parsedEv.MovementID = &mov.ID
		if err := evidenceRepo.Create(parsedEv); err != nil {
			return err
		}
		return audit.Record(auditRepo, entity.AuditActionRestore, before, asset, actor.ID)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Asset: asset, MovementID: movementID}, nil
}
