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

// ChangeStatus cambia el estado de conservación del activo. Siempre requiere
// motivo del vocabulario STATUS_CHANGE; el paso a BAJA además exige evidencia
// y marca la baja lógica (isDeleted, fecha y autor). Emite STATUS_CHANGE.
func (uc *LifecycleUseCase) ChangeStatus(ctx context.Context, actor authz.Actor, assetID string, in ChangeStatusInput, ev *evidence.Input) (*Result, error) {
	asset, err := uc.loadForWrite(actor, assetID)
	if err != nil {
		return nil, err
	}
	targetState, err := uc.catalogRepo.GetAssetStateByID(in.AssetStateID)
	if err != nil {
		return nil, err
	}
	if targetState == nil {
		return nil, domain.NewNotFound("ASSET_STATE_NOT_FOUND", "estado de activo no encontrado")
	}
	if asset.Lifecycle() == entity.LifecycleDecommissioned {
		if targetState.Code == entity.AssetStateBaja {
			return nil, domain.NewConflict("ASSET_STATUS_ALREADY_DELETED", "el activo ya está dado de baja")
		}
		return nil, domain.NewConflict("ASSET_STATUS_DELETED_REQUIRES_RESTORE",
			"el activo está dado de baja; debe restaurarse antes de cambiar de estado")
	}
	if in.AssetStateID == asset.AssetStateID {
		return nil, domain.NewConflict("ASSET_STATUS_SAME_STATE", "el activo ya está en ese estado")
	}

	reason, err := evidence.RequireReasonCode(entity.ReasonScopeStatusChange, in.ReasonCode)
	if err != nil {
		return nil, err
	}
	intoBaja := targetState.Code == entity.AssetStateBaja
	var parsedEv *entity.AssetEvidence
	if intoBaja {
		// La baja es terminal: exige documento probatorio además del motivo.
		parsedEv, err = evidence.ParseRequired(ev, asset.ID, actor.ID)
		if err != nil {
			return nil, err
		}
	} else if ev != nil {
		parsedEv, err = evidence.ParseRequired(ev, asset.ID, actor.ID)
		if err != nil {
			return nil, err
		}
	}

	before, err := audit.Snapshot(asset)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	asset.AssetStateID = in.AssetStateID
	asset.UpdatedAt = now
	if intoBaja {
		asset.IsDeleted = true
		asset.DeletedAt = &now
		deletedBy := actor.ID
		asset.DeletedBy = &deletedBy
	}

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
		if parsedEv != nil {
			parsedEv.MovementID = &mov.ID
			if err := evidenceRepo.Create(parsedEv); err != nil {
				return err
			}
		}
		return audit.Record(auditRepo, entity.AuditActionStatusChange, before, asset, actor.ID)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Asset: asset, MovementID: movementID}, nil
}
