package repository

import (
	"time"

	"github.com/activos-cl/patrimonio-api/internal/domain/entity"
)

// AssetFilter criterios de listado de activos. Search se compara ya
// normalizado (minúsculas, sin tildes) contra nombre, marca, modelo y serie.
type AssetFilter struct {
	InstitutionID   string
	EstablishmentID string
	DependencyID    string
	AssetStateID    string
	IncludeDeleted  bool
	Search          string
	From            *time.Time
	To              *time.Time
	Limit           int
	Offset          int
}

// AssetRepository define el puerto de persistencia para Asset (DIP).
type AssetRepository interface {
	Create(asset *entity.Asset) error
	GetByID(id string) (*entity.Asset, error)
	Update(asset *entity.Asset) error
	// FindActiveByIdentity busca otro activo vigente (is_deleted=false) con la
	// misma tríada serie+marca+modelo (comparación case-insensitive) en la
	// institución. Devuelve nil si no existe.
	FindActiveByIdentity(institutionID, serial, brand, model, excludeID string) (*entity.Asset, error)
	// MaxInternalCode devuelve el mayor correlativo ya usado en la institución (0 si ninguno).
	MaxInternalCode(institutionID string) (int, error)
	List(filter AssetFilter) ([]*entity.Asset, error)
	CountActiveByEstablishment(establishmentID string) (int, error)
	CountActiveByDependency(dependencyID string) (int, error)
}
