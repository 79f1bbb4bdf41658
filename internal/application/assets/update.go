package assets

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/activos-cl/patrimonio-api/internal/application/audit"
	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/application/rules"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// Update edita campos del activo. Bloqueado si está dado de baja. Si cambia
// serie, marca o modelo se vuelve a aplicar la regla de identidad única.
// Emite un movimiento INVENTORY_CHECK (verificación registral) y una entrada
// de auditoría UPDATE con las instantáneas antes/después.
func (uc *LifecycleUseCase) Update(ctx context.Context, actor authz.Actor, assetID string, in UpdateAssetInput) (*Result, error) {
	asset, err := uc.loadForWrite(actor, assetID)
	if err != nil {
		return nil, err
	}
	if err := requireVigente(asset); err != nil {
		return nil, err
	}
	before, err := audit.Snapshot(asset)
	if err != nil {
		return nil, err
	}

	identityChanged := applyUpdate(asset, in)
	if in.ResponsibleRUT != nil {
		normalized, err := uc.validator.NormalizeRUT(*in.ResponsibleRUT)
		if err != nil {
			return nil, err
		}
		asset.ResponsibleRUT = normalized
	}
	if in.AssetTypeID != nil {
		if assetType, err := uc.catalogRepo.GetAssetTypeByID(*in.AssetTypeID); err != nil {
			return nil, err
		} else if assetType == nil {
			return nil, domain.NewNotFound("ASSET_TYPE_NOT_FOUND", "tipo de activo no encontrado")
		}
	}
	if in.CatalogItemID != nil {
		if item, err := uc.catalogRepo.GetCatalogItemByID(*in.CatalogItemID); err != nil {
			return nil, err
		} else if item == nil {
			return nil, domain.NewNotFound("CATALOG_ITEM_NOT_FOUND", "ítem de catálogo no encontrado")
		}
	}
	if err := uc.validator.ValidateLengths(asset); err != nil {
		return nil, err
	}
	if err := uc.validator.ValidateAcquisition(asset.AcquisitionValue, asset.AcquisitionDate); err != nil {
		return nil, err
	}
	asset.UpdatedAt = time.Now()

	var movementID string
	err = uc.txRunner.Run(ctx, func(
		assetRepo repository.AssetRepository,
		movRepo repository.MovementRepository,
		auditRepo repository.AuditRepository,
		_ repository.EvidenceRepository,
		_ repository.SequenceRepository,
	) error {
		if identityChanged {
			if err := rules.EnsureUniqueAssetIdentity(assetRepo, asset.InstitutionID, asset.SerialNumber, asset.Brand, asset.Model, asset.ID); err != nil {
				return err
			}
		}
		if err := assetRepo.Update(asset); err != nil {
			return err
		}
		mov := &entity.Movement{
			ID:               uuid.New().String(),
			AssetID:          asset.ID,
			Type:             entity.MovementTypeInventoryCheck,
			FromDependencyID: &asset.DependencyID,
			ToDependencyID:   &asset.DependencyID,
			UserID:           actor.ID,
			CreatedAt:        asset.UpdatedAt,
		}
		if err := movRepo.Create(mov); err != nil {
			return err
		}
		movementID = mov.ID
		return audit.Record(auditRepo, entity.AuditActionUpdate, before, asset, actor.ID)
	})
	if err != nil {
		return nil, err
	}
	return &Result{Asset: asset, MovementID: movementID}, nil
}

// applyUpdate copia los campos presentes del input al activo y reporta si la
// tríada de identidad (serie, marca, modelo) cambió.
func applyUpdate(asset *entity.Asset, in UpdateAssetInput) bool {
	identityChanged := false
	if in.Name != nil {
		asset.Name = *in.Name
	}
	if in.Quantity != nil {
		asset.Quantity = *in.Quantity
	}
	if in.Brand != nil && *in.Brand != asset.Brand {
		asset.Brand = *in.Brand
		identityChanged = true
	}
	if in.Model != nil && *in.Model != asset.Model {
		asset.Model = *in.Model
		identityChanged = true
	}
	if in.SerialNumber != nil && *in.SerialNumber != asset.SerialNumber {
		asset.SerialNumber = *in.SerialNumber
		identityChanged = true
	}
	if in.AccountingCode != nil {
		asset.AccountingCode = *in.AccountingCode
	}
	if in.AnalyticCode != nil {
		asset.AnalyticCode = *in.AnalyticCode
	}
	if in.CostCenter != nil {
		asset.CostCenter = *in.CostCenter
	}
	if in.ResponsibleName != nil {
		asset.ResponsibleName = *in.ResponsibleName
	}
	if in.ResponsibleRole != nil {
		asset.ResponsibleRole = *in.ResponsibleRole
	}
	if in.AcquisitionValue != nil {
		asset.AcquisitionValue = *in.AcquisitionValue
	}
	if in.AcquisitionDate != nil {
		asset.AcquisitionDate = *in.AcquisitionDate
	}
	if in.AssetTypeID != nil {
		asset.AssetTypeID = *in.AssetTypeID
	}
	if in.CatalogItemID != nil {
		asset.CatalogItemID = in.CatalogItemID
	}
	return identityChanged
}
