package query

import (
	"context"

	"github.com/activos-cl/patrimonio-api/internal/application/authz"
	"github.com/activos-cl/patrimonio-api/internal/application/rules"
	"github.com/activos-cl/patrimonio-api/internal/domain"
	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
	"github.com/activos-cl/patrimonio-api/internal/domain/repository"
)

// UseCase es la superficie de lectura con alcance por rol: listados de
// activos y movimientos, evidencias y rastro de auditoría. Los generadores de
// reportes (Excel/PDF/CSV) consumen estos resultados tal cual; aquí solo se
// garantiza el filtrado correcto por alcance.
type UseCase struct {
	assetRepo    repository.AssetRepository
	movRepo      repository.MovementRepository
	evidenceRepo repository.EvidenceRepository
	auditRepo    repository.AuditRepository
	catalogRepo  repository.CatalogRepository
}

// NewUseCase construye la superficie de lectura.
func NewUseCase(
	assetRepo repository.AssetRepository,
	movRepo repository.MovementRepository,
	evidenceRepo repository.EvidenceRepository,
	auditRepo repository.AuditRepository,
	catalogRepo repository.CatalogRepository,
) *UseCase {
	return &UseCase{
		assetRepo:    assetRepo,
		movRepo:      movRepo,
		evidenceRepo: evidenceRepo,
		auditRepo:    auditRepo,
		catalogRepo:  catalogRepo,
	}
}

// ListAssets lista activos dentro del alcance del actor. El filtro de
// establecimiento pedido se estrecha en silencio al alcance del rol; el
// texto libre se normaliza (minúsculas, sin tildes) antes de consultar.
func (uc *UseCase) ListAssets(ctx context.Context, actor authz.Actor, filter repository.AssetFilter) ([]*entity.Asset, error) {
	filter.InstitutionID = actor.InstitutionID
	narrowed, visible := authz.NarrowEstablishment(actor, filter.EstablishmentID)
	if !visible {
		return []*entity.Asset{}, nil
	}
	filter.EstablishmentID = narrowed
	filter.Search = rules.Fold(filter.Search)
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return uc.assetRepo.List(filter)
}

// GetAsset devuelve un activo si el actor tiene visibilidad sobre él. Fuera
// de alcance se responde como inexistente (las lecturas se estrechan, no
// revelan).
func (uc *UseCase) GetAsset(ctx context.Context, actor authz.Actor, id string) (*entity.Asset, error) {
	asset, err := uc.assetRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if asset == nil || asset.InstitutionID != actor.InstitutionID || !authz.CanReadEstablishment(actor, asset.EstablishmentID) {
		return nil, domain.NewNotFound("ASSET_NOT_FOUND", "activo no encontrado")
	}
	return asset, nil
}

// ListMovements lista el libro de movimientos dentro del alcance del actor.
func (uc *UseCase) ListMovements(ctx context.Context, actor authz.Actor, filter repository.MovementFilter) ([]*entity.Movement, error) {
	filter.InstitutionID = actor.InstitutionID
	narrowed, visible := authz.NarrowEstablishment(actor, filter.EstablishmentID)
	if !visible {
		return []*entity.Movement{}, nil
	}
	filter.EstablishmentID = narrowed
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	return uc.movRepo.List(filter)
}

// ListAssetMovements lista la historia de movimientos de un activo visible.
func (uc *UseCase) ListAssetMovements(ctx context.Context, actor authz.Actor, assetID string, limit, offset int) ([]*entity.Movement, error) {
	if _, err := uc.GetAsset(ctx, actor, assetID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	return uc.movRepo.ListByAsset(assetID, limit, offset)
}

// ListAssetEvidence lista los metadatos de evidencia de un activo visible.
func (uc *UseCase) ListAssetEvidence(ctx context.Context, actor authz.Actor, assetID string) ([]*entity.AssetEvidence, error) {
	if _, err := uc.GetAsset(ctx, actor, assetID); err != nil {
		return nil, err
	}
	return uc.evidenceRepo.ListByAsset(assetID)
}

// GetEvidence devuelve una evidencia con su contenido si el activo al que
// pertenece es visible para el actor.
func (uc *UseCase) GetEvidence(ctx context.Context, actor authz.Actor, id string) (*entity.AssetEvidence, error) {
	ev, err := uc.evidenceRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if ev == nil {
		return nil, domain.NewNotFound("EVIDENCE_NOT_FOUND", "evidencia no encontrada")
	}
	if _, err := uc.GetAsset(ctx, actor, ev.AssetID); err != nil {
		return nil, err
	}
	return ev, nil
}

// ListAssetAudit lista el rastro de auditoría de un activo visible.
func (uc *UseCase) ListAssetAudit(ctx context.Context, actor authz.Actor, assetID string, limit, offset int) ([]*entity.AssetAudit, error) {
	if _, err := uc.GetAsset(ctx, actor, assetID); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}
	return uc.auditRepo.ListByAsset(assetID, limit, offset)
}

// ListAssetTypes expone el catálogo de tipos de activo.
func (uc *UseCase) ListAssetTypes(ctx context.Context) ([]*entity.AssetType, error) {
	return uc.catalogRepo.ListAssetTypes()
}

// ListAssetStates expone el catálogo de estados de activo.
func (uc *UseCase) ListAssetStates(ctx context.Context) ([]*entity.AssetState, error) {
	return uc.catalogRepo.ListAssetStates()
}
