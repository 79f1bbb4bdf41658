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

// maxCodeAttempts acota el retry optimista del correlativo interno. Tres
// intentos y después el conflicto se reporta al caller tal cual: nunca se
// oculta como transitorio.
const maxCodeAttempts = 3

// Create da de alta un activo: valida el grafo organizacional y los campos,
// asigna el correlativo interno vía el contador por institución y emite el
// movimiento INVENTORY_CHECK con su entrada de auditoría, todo en una
// transacción. ev es opcional en el alta (ej. FACTURA de compra).
func (uc *LifecycleUseCase) Create(ctx context.Context, actor authz.Actor, in CreateAssetInput, ev *evidence.Input) (*Result, error) {
	if err := authz.EnforceWrite(actor); err != nil {
		return nil, err
	}
	est, err := uc.estRepo.GetByID(in.EstablishmentID)
	if err != nil {
		return nil, err
	}
	if est == nil {
		return nil, domain.NewNotFound("ESTABLISHMENT_NOT_FOUND", "establecimiento no encontrado")
	}
	if !est.IsActive {
		return nil, domain.NewConflict("ESTABLISHMENT_ALREADY_INACTIVE", "el establecimiento está desactivado")
	}
	if err := authz.EnforceInstitutionScope(actor, est.InstitutionID); err != nil {
		return nil, err
	}
	if err := authz.EnforceEstablishmentScope(actor, est.ID); err != nil {
		return nil, err
	}
	dep, err := uc.depRepo.GetByID(in.DependencyID)
	if err != nil {
		return nil, err
	}
	if dep == nil {
		return nil, domain.NewNotFound("DEPENDENCY_NOT_FOUND", "dependencia no encontrada")
	}
	if dep.EstablishmentID != est.ID {
		return nil, domain.NewConflict("DEPENDENCY_NOT_IN_ESTABLISHMENT", "la dependencia no pertenece al establecimiento")
	}
	if !dep.IsActive {
		return nil, domain.NewConflict("DEPENDENCY_ALREADY_INACTIVE", "la dependencia está desactivada")
	}
	if assetType, err := uc.catalogRepo.GetAssetTypeByID(in.AssetTypeID); err != nil {
		return nil, err
	} else if assetType == nil {
		return nil, domain.NewNotFound("ASSET_TYPE_NOT_FOUND", "tipo de activo no encontrado")
	}
	state, err := uc.catalogRepo.GetAssetStateByID(in.AssetStateID)
	if err != nil {
		return nil, err
	}
	if state == nil {
		return nil, domain.NewNotFound("ASSET_STATE_NOT_FOUND", "estado de activo no encontrado")
	}
	if state.Code == entity.AssetStateBaja {
		return nil, domain.NewValidation("ASSET_CREATE_IN_BAJA", "no puede darse de alta un activo directamente en BAJA")
	}
	if in.CatalogItemID != nil {
		if item, err := uc.catalogRepo.GetCatalogItemByID(*in.CatalogItemID); err != nil {
			return nil, err
		} else if item == nil {
			return nil, domain.NewNotFound("CATALOG_ITEM_NOT_FOUND", "ítem de catálogo no encontrado")
		}
	}

	normalizedRUT, err := uc.validator.NormalizeRUT(in.ResponsibleRUT)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	asset := &entity.Asset{
		ID:               uuid.New().String(),
		InstitutionID:    est.InstitutionID,
		Name:             in.Name,
		Quantity:         in.Quantity,
		Brand:            in.Brand,
		Model:            in.Model,
		SerialNumber:     in.SerialNumber,
		AccountingCode:   in.AccountingCode,
		AnalyticCode:     in.AnalyticCode,
		CostCenter:       in.CostCenter,
		ResponsibleName:  in.ResponsibleName,
		ResponsibleRUT:   normalizedRUT,
		ResponsibleRole:  in.ResponsibleRole,
		AcquisitionValue: in.AcquisitionValue,
		AcquisitionDate:  in.AcquisitionDate,
		AssetTypeID:      in.AssetTypeID,
		AssetStateID:     in.AssetStateID,
		EstablishmentID:  est.ID,
		DependencyID:     dep.ID,
		CatalogItemID:    in.CatalogItemID,
		CreatedAt:        now,
		UpdatedAt:        now,
		CreatedBy:        actor.ID,
	}
	if err := uc.validator.ValidateLengths(asset); err != nil {
		return nil, err
	}
	if err := uc.validator.ValidateAcquisition(asset.AcquisitionValue, asset.AcquisitionDate); err != nil {
		return nil, err
	}

	var parsedEv *entity.AssetEvidence
	if ev != nil {
		parsedEv, err = evidence.ParseRequired(ev, asset.ID, actor.ID)
		if err != nil {
			return nil, err
		}
	}

	// Retry optimista del correlativo: el incremento del contador y el insert
	// con constraint único no son atómicos frente a otras transacciones. Al
	// chocar, se resiembra con max+1 y se reintenta el alta completa. Los
	// huecos en la numeración son aceptables; los duplicados no.
	var movementID string
	for attempt := 1; ; attempt++ {
		reseed := attempt > 1
		err = uc.txRunner.Run(ctx, func(
			assetRepo repository.AssetRepository,
			movRepo repository.MovementRepository,
			auditRepo repository.AuditRepository,
			evidenceRepo repository.EvidenceRepository,
			seqRepo repository.SequenceRepository,
		) error {
			if err := rules.EnsureUniqueAssetIdentity(assetRepo, asset.InstitutionID, asset.SerialNumber, asset.Brand, asset.Model, ""); err != nil {
				return err
			}
			code, err := allocateInternalCode(assetRepo, seqRepo, asset.InstitutionID, reseed)
			if err != nil {
				return err
			}
			asset.InternalCode = code
			if err := assetRepo.Create(asset); err != nil {
				return err
			}
			mov := &entity.Movement{
				ID:             uuid.New().String(),
				AssetID:        asset.ID,
				Type:           entity.MovementTypeInventoryCheck,
				ToDependencyID: &asset.DependencyID,
				UserID:         actor.ID,
				CreatedAt:      now,
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
			return audit.Record(auditRepo, entity.AuditActionCreate, nil, asset, actor.ID)
		})
		if err == nil {
			return &Result{Asset: asset, MovementID: movementID}, nil
		}
		if domain.CodeOf(err) != "ASSET_INTERNAL_CODE_CONFLICT" || attempt >= maxCodeAttempts {
			return nil, err
		}
	}
}

// allocateInternalCode produce el siguiente correlativo interno de la
// institución. En el camino normal incrementa el contador (upsert); tras una
// colisión consulta el máximo ya persistido y resiembra el contador en max+1.
func allocateInternalCode(assetRepo repository.AssetRepository, seqRepo repository.SequenceRepository, institutionID string, reseed bool) (int, error) {
	if !reseed {
		return seqRepo.Next(institutionID)
	}
	max, err := assetRepo.MaxInternalCode(institutionID)
	if err != nil {
		return 0, err
	}
	next := max + 1
	if err := seqRepo.Reseed(institutionID, next); err != nil {
		return 0, err
	}
	return next, nil
}
