package assets

import (
	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
)

// loadForWrite carga el activo y aplica las verificaciones de alcance de
// escritura comunes a todas las transiciones.
func (uc *LifecycleUseCase) loadForWrite(actor authz.Actor, assetID string) (*entity.Asset, error) {
	if err := authz.EnforceWrite(actor); err != nil {
		return nil, err
	}
	asset, err := uc.assetRepo.GetByID(assetID)
	if err != nil {
		return nil, err
	}
	if asset == nil {
		return nil, domain.NewNotFound("ASSET_NOT_FOUND", "activo no encontrado")
	}
	if err := authz.EnforceInstitutionScope(actor, asset.InstitutionID); err != nil {
		return nil, err
	}
	if err := authz.EnforceEstablishmentScope(actor, asset.EstablishmentID); err != nil {
		return nil, err
	}
	return asset, nil
}

// requireVigente rechaza mutar un activo dado de baja: primero hay que
// restaurarlo.
func requireVigente(asset *entity.Asset) error {
	if asset.Lifecycle() == entity.LifecycleDecommissioned {
		return domain.NewConflict("ASSET_STATUS_DELETED_REQUIRES_RESTORE",
			"el activo está dado de baja; debe restaurarse antes de modificarlo")
	}
	return nil
}
