package repository

import "github.com/activos-cl/patrimonio-api/internal/domain/entity"

// EvidenceRepository define el puerto de persistencia para evidencias.
// ListByAsset devuelve metadatos sin contenido; GetByID incluye el archivo.
type EvidenceRepository interface {
	Create(evidence *entity.AssetEvidence) error
	GetByID(id string) (*entity.AssetEvidence, error)
	ListByAsset(assetID string) ([]*entity.AssetEvidence, error)
}
