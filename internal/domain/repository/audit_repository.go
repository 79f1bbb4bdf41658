package repository

import "github.com/activos-cl/patrimonio-api/internal/domain/entity"

// AuditRepository define el puerto de persistencia del rastro de auditoría.
type AuditRepository interface {
	Create(audit *entity.AssetAudit) error
	ListByAsset(assetID string, limit, offset int) ([]*entity.AssetAudit, error)
}
