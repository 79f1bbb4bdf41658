package assets

import (
	"context"

	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/application/evidence"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
)

// AttachEvidence adjunta evidencia adicional a un activo, opcionalmente
// ligada a un movimiento ya emitido (el id que devuelve cada transición).
// La evidencia obligatoria de las transiciones sensibles se persiste en
// línea dentro de la transacción; esta vía es para documentos posteriores.
func (uc *LifecycleUseCase) AttachEvidence(ctx context.Context, actor authz.Actor, assetID string, movementID *string, ev *evidence.Input) (*entity.AssetEvidence, error) {
	asset, err := uc.loadForWrite(actor, assetID)
	if err != nil {
		return nil, err
	}
	parsed, err := evidence.ParseRequired(ev, asset.ID, actor.ID)
	if err != nil {
		return nil, err
	}
	if movementID != nil && *movementID != "" {
		mov, err := uc.movRepo.GetByID(*movementID)
		if err != nil {
			return nil, err
		}
		if mov == nil || mov.AssetID != asset.ID {
			return nil, domain.NewNotFound("MOVEMENT_NOT_FOUND", "movimiento no encontrado para este activo")
		}
		parsed.MovementID = movementID
	}
	if err := uc.evidenceRepo.Create(parsed); err != nil {
		return nil, err
	}
	return parsed, nil
}
