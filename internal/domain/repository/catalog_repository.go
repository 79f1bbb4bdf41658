package repository

import "github.com/activos-cl/patrimonio-api/internal/domain/entity"

// CatalogRepository define el puerto de lectura de catálogos cerrados
// (tipos y estados de activo, catálogo institucional de bienes).
type CatalogRepository interface {
	GetAssetTypeByID(id string) (*entity.AssetType, error)
	GetAssetStateByID(id string) (*entity.AssetState, error)
	GetAssetStateByCode(code string) (*entity.AssetState, error)
	GetCatalogItemByID(id string) (*entity.CatalogItem, error)
	ListAssetTypes() ([]*entity.AssetType, error)
	ListAssetStates() ([]*entity.AssetState, error)
}
